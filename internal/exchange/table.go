package exchange

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Table maps a currency to its multiplicative rate against EUR.
// A Table is never modified after NewTable returns it.
type Table struct {
	rates map[Currency]float64
}

var defaultTable = Table{rates: map[Currency]float64{
	EUR: 1,
	GBP: 0.87,
	USD: 1.08,
}}

// Default returns the built-in rate table.
func Default() Table { return defaultTable }

// NewTable copies rates into a Table. EUR is always pinned to 1.
func NewTable(rates map[Currency]float64) (Table, error) {
	out := make(map[Currency]float64, len(rates)+1)
	for c, r := range rates {
		if !(r > 0) {
			return Table{}, fmt.Errorf("rate for %s must be > 0, got %v", c, r)
		}
		out[c] = r
	}
	out[EUR] = 1
	return Table{rates: out}, nil
}

// Rate returns the EUR rate for c.
func (t Table) Rate(c Currency) (float64, bool) {
	r, ok := t.rates[c]
	return r, ok
}

// Currencies returns the table's currencies in code order.
func (t Table) Currencies() []Currency {
	out := make([]Currency, 0, len(t.rates))
	for c := range t.rates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Rates returns a copy of the underlying mapping.
func (t Table) Rates() map[Currency]float64 {
	out := make(map[Currency]float64, len(t.rates))
	for c, r := range t.rates {
		out[c] = r
	}
	return out
}

// FromEUR converts an EUR amount into c, rounded to the cent.
func (t Table) FromEUR(amountEUR float64, c Currency) (float64, error) {
	r, ok := t.rates[c]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, c)
	}
	return roundCents(decimal.NewFromFloat(amountEUR).Mul(decimal.NewFromFloat(r))), nil
}

// ToEUR converts an amount in c back into EUR, rounded to the cent.
func (t Table) ToEUR(amount float64, c Currency) (float64, error) {
	r, ok := t.rates[c]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, c)
	}
	return roundCents(decimal.NewFromFloat(amount).Div(decimal.NewFromFloat(r))), nil
}

// ConvertFromEUR is FromEUR against the default table.
func ConvertFromEUR(amountEUR float64, c Currency) (float64, error) {
	return defaultTable.FromEUR(amountEUR, c)
}

// ConvertToEUR is ToEUR against the default table.
func ConvertToEUR(amount float64, c Currency) (float64, error) {
	return defaultTable.ToEUR(amount, c)
}

var halfCent = decimal.New(5, -3)

// roundCents rounds half-up to the cent, toward +Inf for negatives too.
func roundCents(d decimal.Decimal) float64 {
	return d.Add(halfCent).RoundFloor(2).InexactFloat64()
}
