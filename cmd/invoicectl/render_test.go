package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invoicebook/internal/invoice"
	"invoicebook/pkg/client"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoneyUsesFrenchSeparators(t *testing.T) {
	out := formatMoney(decimal.RequireFromString("1930.5"))

	assert.True(t, strings.HasSuffix(out, "930,50 €"), out)
	assert.True(t, strings.HasPrefix(out, "1"), out)
}

func TestRenderTableShowsRowsAndTotals(t *testing.T) {
	rows := []invoice.Invoice{
		{Code: "INV-1", CustomerName: "Acme", IssueDate: "2025-11-01", Quarter: "Q4 2025", AmountExcl: decimal.NewFromInt(1000), VAT: decimal.NewFromInt(200), Taxe: decimal.NewFromInt(730)},
		{Code: "INV-2", CustomerName: "Globex", IssueDate: "2025-11-02", Quarter: "Q4 2025", AmountExcl: decimal.NewFromInt(10)},
	}

	out := renderTable(invoice.View(rows, "", invoice.DefaultSort))
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Client")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Globex")
	assert.Contains(t, lines[3], "940,00 €")
}

func TestRenderTableRecomputesQuarter(t *testing.T) {
	rows := []invoice.Invoice{
		{Code: "INV-1", CustomerName: "Acme", IssueDate: "2025-11-01", Quarter: "Q1 2020", AmountExcl: decimal.NewFromInt(1)},
	}

	out := renderTable(invoice.View(rows, "", invoice.DefaultSort))

	assert.Contains(t, out, "Q4 2025")
	assert.NotContains(t, out, "Q1 2020")
}

func TestFailedCommandShowsSessionBanner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","status_code":400,"error":"customerName: is required"}`))
	}))
	defer srv.Close()

	session := client.NewSession(client.New(srv.URL))
	_, err := session.Create(context.Background(), map[string]any{})
	require.Error(t, err)

	wrapped := failed(session, err)
	assert.Equal(t, "customerName: is required", bannerOf(wrapped))
	var nerr *client.NetworkError
	assert.ErrorAs(t, wrapped, &nerr)

	assert.Equal(t, "plain", bannerOf(errors.New("plain")))
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Contains(t, renderTable(invoice.Result{}), "No invoices")
}

func TestChangedFieldsOnlyReportsSetFlags(t *testing.T) {
	flags := pflag.NewFlagSet("update", pflag.ContinueOnError)
	for _, f := range fieldFlags {
		flags.String(f.flag, "", f.usage)
	}
	flags.Bool("paid", false, "")

	require.NoError(t, flags.Parse([]string{"--customer", "Acme", "--paid"}))

	assert.Equal(t, map[string]any{"customerName": "Acme", "paid": true}, changedFields(flags))
}

func TestPreviewAmountsFromDailyRate(t *testing.T) {
	a, ok := previewAmounts(map[string]any{"dailyRate": "500", "days": "2"})

	require.True(t, ok)
	assert.True(t, a.AmountExcl.Equal(decimal.NewFromInt(1000)))
	assert.True(t, a.Total().Equal(decimal.NewFromInt(1930)))

	_, ok = previewAmounts(map[string]any{"amountExcl": "1000"})
	assert.False(t, ok)
}
