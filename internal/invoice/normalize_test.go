package invoice

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

func TestNormalizeDefaults(t *testing.T) {
	inv, err := Normalize(map[string]any{
		"code":         "INV-1",
		"customerName": "Acme",
		"issueDate":    "2025-11-01",
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "INV-1", inv.Code)
	assert.Equal(t, "acme", inv.CustomerNameLower)
	assert.Equal(t, "Q4 2025", inv.Quarter)
	assert.False(t, inv.Paid)
	assert.True(t, inv.AmountExcl.IsZero())
	assert.True(t, inv.VAT.IsZero())
	assert.True(t, inv.Taxe.IsZero())
	assert.Empty(t, inv.InvoiceURL)
	assert.Empty(t, inv.ID)
	assert.Equal(t, int64(1), inv.Revision)
	assert.Equal(t, testNow, inv.CreatedAt)
	assert.Equal(t, testNow, inv.UpdatedAt)
}

func TestNormalizeAcceptsJSONNumbersAndStrings(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"customerName": "Blue Ocean Co",
		"issueDate": "2025-02-14",
		"paid": "true",
		"amountExcl": 1000.5,
		"vat": "200.1",
		"taxe": "",
		"invoiceUrl": "https://files.example.com/inv.pdf"
	}`), &raw))

	inv, err := Normalize(raw, testNow)
	require.NoError(t, err)
	assert.True(t, inv.Paid)
	assert.Equal(t, "1000.5", inv.AmountExcl.String())
	assert.Equal(t, "200.1", inv.VAT.String())
	assert.True(t, inv.Taxe.IsZero())
	assert.Equal(t, "Q1 2025", inv.Quarter)
	assert.Equal(t, "https://files.example.com/inv.pdf", inv.InvoiceURL)
}

func TestNormalizeDailyRate(t *testing.T) {
	inv, err := Normalize(map[string]any{
		"customerName": "Acme",
		"issueDate":    "2025-11-01",
		"tjm":          500,
		"numDays":      "2",
	}, testNow)
	require.NoError(t, err)
	assert.True(t, inv.AmountExcl.Equal(dec("1000")))
	assert.True(t, inv.VAT.Equal(dec("200")))
	assert.True(t, inv.Taxe.Equal(dec("730")))

	inv, err = Normalize(map[string]any{
		"customerName": "Acme",
		"issueDate":    "2025-11-01",
		"dailyRate":    500,
		"days":         2,
		"vat":          0,
	}, testNow)
	require.NoError(t, err)
	assert.True(t, inv.AmountExcl.Equal(dec("1000")))
	assert.True(t, inv.VAT.IsZero(), "explicit amounts win over the rate defaults")
	assert.True(t, inv.Taxe.Equal(dec("730")))
}

func TestNormalizeAmountScale(t *testing.T) {
	inv, err := Normalize(map[string]any{
		"customerName": "Acme",
		"issueDate":    "2025-11-01",
		"amountExcl":   "99999999999999.9999",
		"vat":          "0.0001",
	}, testNow)
	require.NoError(t, err)
	assert.True(t, inv.AmountExcl.Equal(dec("99999999999999.9999")))
	assert.True(t, inv.VAT.Equal(dec("0.0001")))

	inv, err = Normalize(map[string]any{
		"customerName": "Acme",
		"issueDate":    "2025-11-01",
		"dailyRate":    "333.3333",
		"days":         "0.5",
	}, testNow)
	require.NoError(t, err)
	assert.True(t, inv.AmountExcl.Equal(dec("166.6667")), inv.AmountExcl.String())
	assert.True(t, inv.Taxe.Equal(dec("121.6667")), inv.Taxe.String())
}

func TestNormalizeRateWithExplicitAmountExcl(t *testing.T) {
	inv, err := Normalize(map[string]any{
		"customerName": "Acme",
		"issueDate":    "2025-11-01",
		"days":         3,
		"amountExcl":   1000,
	}, testNow)
	require.NoError(t, err)
	assert.True(t, inv.AmountExcl.Equal(dec("1000")))
	assert.True(t, inv.VAT.Equal(dec("200")))
}

func TestNormalizeCanonicalisesTimestampDates(t *testing.T) {
	inv, err := Normalize(map[string]any{
		"customerName": "  Acme  ",
		"issueDate":    "2025-03-31T18:00:00Z",
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Acme", inv.CustomerName)
	assert.Equal(t, "2025-03-31", inv.IssueDate)
	assert.Equal(t, "Q1 2025", inv.Quarter)
}

func TestNormalizeRejects(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{"customerName": "Acme", "issueDate": "2025-11-01"}
	}
	tests := []struct {
		name  string
		edit  func(map[string]any)
		field string
	}{
		{"missing customer", func(m map[string]any) { delete(m, "customerName") }, "customerName"},
		{"blank customer", func(m map[string]any) { m["customerName"] = "   " }, "customerName"},
		{"customer not a string", func(m map[string]any) { m["customerName"] = 12 }, "customerName"},
		{"missing date", func(m map[string]any) { delete(m, "issueDate") }, "issueDate"},
		{"malformed date", func(m map[string]any) { m["issueDate"] = "01/11/2025" }, "issueDate"},
		{"impossible date", func(m map[string]any) { m["issueDate"] = "2025-02-30" }, "issueDate"},
		{"non-numeric amount", func(m map[string]any) { m["amountExcl"] = "lots" }, "amountExcl"},
		{"boolean amount", func(m map[string]any) { m["vat"] = true }, "vat"},
		{"negative amount", func(m map[string]any) { m["taxe"] = -1.5 }, "taxe"},
		{"negative rate", func(m map[string]any) { m["tjm"] = "-10" }, "tjm"},
		{"amount too large", func(m map[string]any) { m["amountExcl"] = 1e21 }, "amountExcl"},
		{"amount at the column limit", func(m map[string]any) { m["vat"] = "100000000000000" }, "vat"},
		{"too many decimal places", func(m map[string]any) { m["amountExcl"] = 1e-7 }, "amountExcl"},
		{"rate without days", func(m map[string]any) { m["dailyRate"] = 500 }, "days"},
		{"days without rate", func(m map[string]any) { m["numDays"] = 3 }, "dailyRate"},
		{"derived amount too large", func(m map[string]any) {
			m["dailyRate"] = "99999999999999"
			m["days"] = 2
		}, "amountExcl"},
		{"malformed url", func(m map[string]any) { m["invoiceUrl"] = "not a url" }, "invoiceUrl"},
		{"paid not a boolean", func(m map[string]any) { m["paid"] = "sometimes" }, "paid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := base()
			tt.edit(raw)
			_, err := Normalize(raw, testNow)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Error())
		})
	}
}

func TestNormalizeIgnoresServerOwnedFields(t *testing.T) {
	inv, err := Normalize(map[string]any{
		"id":                "client-chosen",
		"customerName":      "Acme",
		"customerNameLower": "something else",
		"issueDate":         "2025-11-01",
		"quarter":           "Q1 1999",
		"createdAt":         "1999-01-01T00:00:00Z",
	}, testNow)
	require.NoError(t, err)
	assert.Empty(t, inv.ID)
	assert.Equal(t, "acme", inv.CustomerNameLower)
	assert.Equal(t, "Q4 2025", inv.Quarter)
	assert.Equal(t, testNow, inv.CreatedAt)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	first, err := Normalize(map[string]any{
		"code":         "INV-7",
		"customerName": "Blue Ocean Co",
		"issueDate":    "2025-08-09T12:00:00Z",
		"paid":         true,
		"tjm":          "612.5",
		"numDays":      3,
		"invoiceUrl":   "https://example.com/7",
	}, testNow)
	require.NoError(t, err)

	second, err := Normalize(first.Fields(), testNow.Add(time.Hour))
	require.NoError(t, err)

	second.CreatedAt, second.UpdatedAt = first.CreatedAt, first.UpdatedAt
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.IssueDate, second.IssueDate)
	assert.Equal(t, first.Quarter, second.Quarter)
	assert.True(t, first.AmountExcl.Equal(second.AmountExcl))
	assert.True(t, first.VAT.Equal(second.VAT))
	assert.True(t, first.Taxe.Equal(second.Taxe))
	assert.Equal(t, first.Paid, second.Paid)
	assert.Equal(t, first.InvoiceURL, second.InvoiceURL)

	again, err := Normalize(second.Fields(), testNow)
	require.NoError(t, err)
	assert.Equal(t, second, again)
}

func TestInvoiceJSON(t *testing.T) {
	inv, err := Normalize(map[string]any{
		"code":         "INV-1",
		"customerName": "Acme",
		"issueDate":    "2025-11-01",
		"amountExcl":   1000,
		"vat":          200,
		"taxe":         730,
	}, testNow)
	require.NoError(t, err)

	body, err := json.Marshal(inv)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(body, &wire))
	assert.Equal(t, 1930.0, wire["total"])
	assert.Equal(t, 1000.0, wire["amountExcl"])
	assert.Equal(t, "Q4 2025", wire["quarter"])
	assert.Equal(t, false, wire["paid"])

	var decoded Invoice
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.True(t, decoded.AmountExcl.Equal(inv.AmountExcl))
	assert.True(t, TotalOf(decoded).Equal(dec("1930")))
}
