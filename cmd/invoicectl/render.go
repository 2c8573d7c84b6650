package main

import (
	"strings"

	"invoicebook/internal/invoice"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF4672")
	mutedColor   = lipgloss.Color("#777777")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	bannerStyle = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	paidStyle   = lipgloss.NewStyle().Foreground(successColor)
)

var money = message.NewPrinter(language.French)

// formatMoney renders d the fr-FR way: 1 930,00 €.
func formatMoney(d decimal.Decimal) string {
	return money.Sprintf("%.2f €", d.Round(2).InexactFloat64())
}

func formatAmounts(a invoice.Amounts) string {
	return "HT " + formatMoney(a.AmountExcl) +
		"  TVA " + formatMoney(a.VAT) +
		"  Taxe " + formatMoney(a.Taxe) +
		"  Total " + formatMoney(a.Total())
}

func renderBanner(msg string) string {
	return bannerStyle.Render("  Error: " + msg)
}

var tableHeader = []string{"Code", "Client", "Date", "Quarter", "Paid", "HT", "TVA", "Taxe", "Total"}

// numeric columns are right aligned
var numericColumn = map[int]bool{5: true, 6: true, 7: true, 8: true}

// renderTable lays out rows and a totals line in aligned columns.
func renderTable(res invoice.Result) string {
	if len(res.Rows) == 0 {
		return mutedStyle.Render("  No invoices.")
	}

	cells := make([][]string, 0, len(res.Rows)+1)
	for _, inv := range res.Rows {
		paid := "no"
		if inv.Paid {
			paid = paidStyle.Render("yes")
		}
		cells = append(cells, []string{
			inv.Code,
			inv.CustomerName,
			inv.IssueDate,
			invoice.QuarterOf(inv.IssueDate),
			paid,
			formatMoney(inv.AmountExcl),
			formatMoney(inv.VAT),
			formatMoney(inv.Taxe),
			formatMoney(invoice.TotalOf(inv)),
		})
	}
	totals := []string{
		"", "", "", "", "",
		formatMoney(res.Totals.AmountExcl),
		formatMoney(res.Totals.VAT),
		formatMoney(res.Totals.Taxe),
		formatMoney(res.Totals.Total),
	}

	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range append(cells, totals) {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(formatRow(tableHeader, widths)))
	b.WriteByte('\n')
	for _, row := range cells {
		b.WriteString(formatRow(row, widths))
		b.WriteByte('\n')
	}
	b.WriteString(headerStyle.Render(formatRow(totals, widths)))
	return b.String()
}

func formatRow(row []string, widths []int) string {
	parts := make([]string, len(row))
	for i, cell := range row {
		style := lipgloss.NewStyle().Width(widths[i])
		if numericColumn[i] {
			style = style.Align(lipgloss.Right)
		}
		parts[i] = style.Render(cell)
	}
	return strings.Join(parts, "  ")
}
