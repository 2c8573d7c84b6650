package invoice

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sortable fields.
const (
	SortID           = "id"
	SortCode         = "code"
	SortCustomerName = "customerName"
	SortIssueDate    = "issueDate"
	SortPaid         = "paid"
	SortAmountExcl   = "amountExcl"
	SortVAT          = "vat"
	SortTaxe         = "taxe"
	SortTotal        = "total"
	SortCreatedAt    = "createdAt"
)

// Sort selects the ordering of a view.
type Sort struct {
	Field      string
	Descending bool
}

// DefaultSort shows the most recently issued invoices first.
var DefaultSort = Sort{Field: SortIssueDate, Descending: true}

var comparators = map[string]func(a, b Invoice) int{
	SortID:           func(a, b Invoice) int { return strings.Compare(a.ID, b.ID) },
	SortCode:         func(a, b Invoice) int { return strings.Compare(a.Code, b.Code) },
	SortCustomerName: func(a, b Invoice) int { return strings.Compare(a.CustomerName, b.CustomerName) },
	SortIssueDate:    func(a, b Invoice) int { return strings.Compare(a.IssueDate, b.IssueDate) },
	SortPaid:         func(a, b Invoice) int { return cmpBool(a.Paid, b.Paid) },
	SortAmountExcl:   func(a, b Invoice) int { return a.AmountExcl.Cmp(b.AmountExcl) },
	SortVAT:          func(a, b Invoice) int { return a.VAT.Cmp(b.VAT) },
	SortTaxe:         func(a, b Invoice) int { return a.Taxe.Cmp(b.Taxe) },
	SortTotal:        func(a, b Invoice) int { return TotalOf(a).Cmp(TotalOf(b)) },
	SortCreatedAt:    func(a, b Invoice) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func cmpBool(a, b bool) int {
	toInt := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	return cmp.Compare(toInt(a), toInt(b))
}

// ParseSort validates a field and direction taken from a query string.
// Empty values fall back to DefaultSort.
func ParseSort(field, direction string) (Sort, error) {
	s := DefaultSort
	if field != "" {
		if _, ok := comparators[field]; !ok {
			return Sort{}, invalid("sort", "unknown field %q", field)
		}
		s.Field = field
		s.Descending = false
	}
	switch strings.ToLower(direction) {
	case "":
	case "asc", "ascending":
		s.Descending = false
	case "desc", "descending":
		s.Descending = true
	default:
		return Sort{}, invalid("dir", "unknown direction %q", direction)
	}
	return s, nil
}

// Matches reports whether query occurs, ignoring case, in the id, code or
// customer name of inv. An empty query matches everything.
func Matches(inv Invoice, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	name := inv.CustomerNameLower
	if name == "" {
		name = strings.ToLower(inv.CustomerName)
	}
	return strings.Contains(strings.ToLower(inv.ID), q) ||
		strings.Contains(strings.ToLower(inv.Code), q) ||
		strings.Contains(name, q)
}

// Filter keeps the rows matching query, preserving their order.
func Filter(rows []Invoice, query string) []Invoice {
	out := make([]Invoice, 0, len(rows))
	for _, inv := range rows {
		if Matches(inv, query) {
			out = append(out, inv)
		}
	}
	return out
}

// SortRows returns a stably sorted copy of rows. Equal keys keep their order
// in either direction.
func SortRows(rows []Invoice, s Sort) []Invoice {
	out := slices.Clone(rows)
	compare, ok := comparators[s.Field]
	if !ok {
		return out
	}
	slices.SortStableFunc(out, func(a, b Invoice) int {
		if s.Descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}

// Aggregate sums the amounts of rows. Order does not matter.
func Aggregate(rows []Invoice) Totals {
	t := Totals{
		AmountExcl: decimal.Zero,
		VAT:        decimal.Zero,
		Taxe:       decimal.Zero,
		Total:      decimal.Zero,
	}
	for _, inv := range rows {
		t.AmountExcl = t.AmountExcl.Add(inv.AmountExcl)
		t.VAT = t.VAT.Add(inv.VAT)
		t.Taxe = t.Taxe.Add(inv.Taxe)
		t.Total = t.Total.Add(TotalOf(inv))
	}
	return t
}

// View filters, sorts and totals rows.
func View(rows []Invoice, query string, s Sort) Result {
	filtered := Filter(rows, query)
	return Result{
		Rows:   SortRows(filtered, s),
		Totals: Aggregate(filtered),
	}
}

// DashboardView is View restricted to invoices issued in the quarter of now.
// Quarters are recomputed from the issue date; the stored label is ignored.
func DashboardView(rows []Invoice, query string, s Sort, now time.Time) Result {
	current := CurrentQuarter(now)
	inQuarter := make([]Invoice, 0, len(rows))
	for _, inv := range rows {
		if QuarterOf(inv.IssueDate) == current {
			inQuarter = append(inQuarter, inv)
		}
	}
	return View(inQuarter, query, s)
}
