// Package invoice holds the invoice record and every value derived from it.
// Both the HTTP service and the client use these functions, so quarters,
// totals and filtering never drift between the two sides.
package invoice

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the canonical record as persisted and exchanged over HTTP.
type Invoice struct {
	ID                string          `json:"id"`
	Code              string          `json:"code"`
	CustomerName      string          `json:"customerName"`
	CustomerNameLower string          `json:"customerNameLower"`
	IssueDate         string          `json:"issueDate"` // YYYY-MM-DD
	Paid              bool            `json:"paid"`
	AmountExcl        decimal.Decimal `json:"amountExcl"`
	VAT               decimal.Decimal `json:"vat"`
	Taxe              decimal.Decimal `json:"taxe"`
	InvoiceURL        string          `json:"invoiceUrl"`
	Quarter           string          `json:"quarter"`
	Revision          int64           `json:"revision"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type invoiceAlias Invoice

// wireInvoice carries amounts as JSON numbers and adds the derived total.
type wireInvoice struct {
	invoiceAlias
	AmountExcl json.Number `json:"amountExcl"`
	VAT        json.Number `json:"vat"`
	Taxe       json.Number `json:"taxe"`
	Total      json.Number `json:"total"`
}

// MarshalJSON writes amounts as numbers and includes the computed total.
// The total is output only and is dropped again on decode.
func (inv Invoice) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireInvoice{
		invoiceAlias: invoiceAlias(inv),
		AmountExcl:   json.Number(inv.AmountExcl.String()),
		VAT:          json.Number(inv.VAT.String()),
		Taxe:         json.Number(inv.Taxe.String()),
		Total:        json.Number(TotalOf(inv).String()),
	})
}

// Fields renders the client-writable part of the record as the raw mapping
// Normalize accepts.
func (inv Invoice) Fields() map[string]any {
	return map[string]any{
		"code":         inv.Code,
		"customerName": inv.CustomerName,
		"issueDate":    inv.IssueDate,
		"paid":         inv.Paid,
		"amountExcl":   inv.AmountExcl.String(),
		"vat":          inv.VAT.String(),
		"taxe":         inv.Taxe.String(),
		"invoiceUrl":   inv.InvoiceURL,
	}
}

// Totals are the sums displayed under a list of invoices.
type Totals struct {
	AmountExcl decimal.Decimal `json:"amountExcl"`
	VAT        decimal.Decimal `json:"vat"`
	Taxe       decimal.Decimal `json:"taxe"`
	Total      decimal.Decimal `json:"total"`
}

func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]json.Number{
		"amountExcl": json.Number(t.AmountExcl.String()),
		"vat":        json.Number(t.VAT.String()),
		"taxe":       json.Number(t.Taxe.String()),
		"total":      json.Number(t.Total.String()),
	})
}

// Result is one computed view: the ordered rows and their totals.
type Result struct {
	Rows   []Invoice `json:"rows"`
	Totals Totals    `json:"totals"`
}
