package invoice

import "github.com/shopspring/decimal"

var (
	vatRate  = decimal.RequireFromString("0.20")
	taxeRate = decimal.RequireFromString("0.73")
)

// TotalOf is amountExcl + vat + taxe. Zero-value amounts count as 0.
func TotalOf(inv Invoice) decimal.Decimal {
	return inv.AmountExcl.Add(inv.VAT).Add(inv.Taxe)
}

// Amounts are the three monetary components of an invoice.
type Amounts struct {
	AmountExcl decimal.Decimal
	VAT        decimal.Decimal
	Taxe       decimal.Decimal
}

// Total sums the components.
func (a Amounts) Total() decimal.Decimal {
	return a.AmountExcl.Add(a.VAT).Add(a.Taxe)
}

// FromDailyRate derives the amounts of a time-and-materials invoice:
// amountExcl = rate × days, vat = 20% and taxe = 73% of amountExcl.
func FromDailyRate(rate, days decimal.Decimal) Amounts {
	return FromAmountExcl(rate.Mul(days))
}

// FromAmountExcl applies the vat and taxe rates to an amount excluding tax.
func FromAmountExcl(excl decimal.Decimal) Amounts {
	return Amounts{
		AmountExcl: excl,
		VAT:        excl.Mul(vatRate),
		Taxe:       excl.Mul(taxeRate),
	}
}
