package invoice

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shockerli/cvt"
	"github.com/shopspring/decimal"
)

// Writable lists the keys a client may set on an invoice. Anything else in a
// request body, server-owned fields included, is ignored.
var Writable = []string{
	"code",
	"customerName",
	"issueDate",
	"paid",
	"amountExcl",
	"vat",
	"taxe",
	"invoiceUrl",
	"dailyRate",
	"tjm",
	"days",
	"numDays",
}

var validate = validator.New()

// Amounts are stored as decimal(18,4).
const (
	amountScale     = 4
	amountIntDigits = 14
)

var maxAmount = decimal.New(1, amountIntDigits)

// Normalize turns raw client input into a canonical invoice stamped with now.
// The returned record has no ID; storage assigns one.
func Normalize(raw map[string]any, now time.Time) (Invoice, error) {
	var inv Invoice

	name, err := stringField(raw, "customerName")
	if err != nil {
		return Invoice{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Invoice{}, invalid("customerName", "is required")
	}
	inv.CustomerName = name
	inv.CustomerNameLower = strings.ToLower(name)

	dateStr, err := stringField(raw, "issueDate")
	if err != nil {
		return Invoice{}, err
	}
	if strings.TrimSpace(dateStr) == "" {
		return Invoice{}, invalid("issueDate", "is required")
	}
	issued, err := ParseIssueDate(dateStr)
	if err != nil {
		return Invoice{}, invalid("issueDate", "must be an ISO-8601 date")
	}
	inv.IssueDate = issued.Format(dateLayout)
	inv.Quarter = QuarterOfTime(issued)

	if v, ok := raw["code"]; ok && v != nil {
		code, err := cvt.StringE(v)
		if err != nil {
			return Invoice{}, invalid("code", "must be a string")
		}
		inv.Code = strings.TrimSpace(code)
	}

	if inv.Paid, err = boolField(raw, "paid"); err != nil {
		return Invoice{}, err
	}

	amounts, err := amountFields(raw)
	if err != nil {
		return Invoice{}, err
	}
	inv.AmountExcl, inv.VAT, inv.Taxe = amounts.AmountExcl, amounts.VAT, amounts.Taxe

	url, err := stringField(raw, "invoiceUrl")
	if err != nil {
		return Invoice{}, err
	}
	url = strings.TrimSpace(url)
	if url != "" {
		if err := validate.Var(url, "url"); err != nil {
			return Invoice{}, invalid("invoiceUrl", "must be a valid URL")
		}
	}
	inv.InvoiceURL = url

	inv.Revision = 1
	inv.CreatedAt = now
	inv.UpdatedAt = now
	return inv, nil
}

// amountFields resolves the three amounts. Explicit values win; otherwise a
// daily rate and day count, when given, provide defaults.
func amountFields(raw map[string]any) (Amounts, error) {
	rate, hasRate, err := decimalField(raw, "dailyRate", "tjm")
	if err != nil {
		return Amounts{}, err
	}
	days, hasDays, err := decimalField(raw, "days", "numDays")
	if err != nil {
		return Amounts{}, err
	}

	excl, hasExcl, err := decimalField(raw, "amountExcl")
	if err != nil {
		return Amounts{}, err
	}
	if hasRate != hasDays && !hasExcl {
		if hasRate {
			return Amounts{}, invalid("days", "is required with a daily rate")
		}
		return Amounts{}, invalid("dailyRate", "is required with a day count")
	}

	var out Amounts
	if hasRate || hasDays {
		out = FromDailyRate(rate, days)
	}
	if hasExcl {
		out.AmountExcl = excl
		if hasRate || hasDays {
			out = FromAmountExcl(excl)
		}
	}

	vat, ok, err := decimalField(raw, "vat")
	if err != nil {
		return Amounts{}, err
	}
	if ok {
		out.VAT = vat
	}

	taxe, ok, err := decimalField(raw, "taxe")
	if err != nil {
		return Amounts{}, err
	}
	if ok {
		out.Taxe = taxe
	}

	// derived values can carry more places than the column holds
	out.AmountExcl = out.AmountExcl.Round(amountScale)
	out.VAT = out.VAT.Round(amountScale)
	out.Taxe = out.Taxe.Round(amountScale)
	for _, f := range []struct {
		key string
		d   decimal.Decimal
	}{{"amountExcl", out.AmountExcl}, {"vat", out.VAT}, {"taxe", out.Taxe}} {
		if f.d.GreaterThanOrEqual(maxAmount) {
			return Amounts{}, invalid(f.key, "must be below 10^%d", amountIntDigits)
		}
	}
	return out, nil
}

func stringField(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid(key, "must be a string")
	}
	return s, nil
}

func boolField(raw map[string]any, key string) (bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true":
			return true, nil
		case "false", "":
			return false, nil
		}
	}
	return false, invalid(key, "must be a boolean")
}

// decimalField reads the first present key. null and "" count as absent.
func decimalField(raw map[string]any, keys ...string) (decimal.Decimal, bool, error) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		var d decimal.Decimal
		switch x := v.(type) {
		case bool:
			return decimal.Zero, false, invalid(key, "must be a number")
		case decimal.Decimal:
			d = x
		default:
			s, err := cvt.StringE(v)
			if err != nil {
				return decimal.Zero, false, invalid(key, "must be a number")
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			d, err = decimal.NewFromString(s)
			if err != nil {
				return decimal.Zero, false, invalid(key, "must be a number")
			}
		}
		if d.IsNegative() {
			return decimal.Zero, false, invalid(key, "must not be negative")
		}
		if d.GreaterThanOrEqual(maxAmount) {
			return decimal.Zero, false, invalid(key, "must be below 10^%d", amountIntDigits)
		}
		if !d.Equal(d.Truncate(amountScale)) {
			return decimal.Zero, false, invalid(key, "must have at most %d decimal places", amountScale)
		}
		return d, true, nil
	}
	return decimal.Zero, false, nil
}
