package exchange

import "github.com/shopspring/decimal"

// VATRate is the flat VAT applied to token purchases.
const VATRate = 0.20

var vat = decimal.NewFromFloat(VATRate)

// AddVAT returns the gross price for a net price.
func AddVAT(net float64) float64 {
	return roundCents(decimal.NewFromFloat(net).Mul(decimal.NewFromInt(1).Add(vat)))
}

// VATAmount returns only the VAT portion of a net price.
func VATAmount(net float64) float64 {
	return roundCents(decimal.NewFromFloat(net).Mul(vat))
}
