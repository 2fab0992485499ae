package token

import (
	"errors"
	"fmt"
	"math"

	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/shopspring/decimal"
)

// ErrAmountTooLarge is returned when a token count would exceed maxExactTokens.
var ErrAmountTooLarge = errors.New("amount too large to convert into tokens")

// maxExactTokens is the largest token count a float64 holds exactly (2^53).
const maxExactTokens = 1 << 53

// TokensPerEUR anchors the virtual currency: 100 tokens buy 1.00 EUR of value.
const TokensPerEUR = 100

// roundingEpsilon absorbs binary float error before flooring, so that
// e.g. 173.92 * 115 lands on 20000 rather than 19999.9999996.
const roundingEpsilon = 0.01

// Rates derives tokens per one unit of each currency in t.
// EUR is fixed at TokensPerEUR; other currencies are TokensPerEUR / rate.
func Rates(t exchange.Table) map[exchange.Currency]float64 {
	out := make(map[exchange.Currency]float64)
	for _, c := range t.Currencies() {
		r, _ := Rate(t, c)
		out[c] = r
	}
	return out
}

// Rate returns tokens per one unit of c.
func Rate(t exchange.Table, c exchange.Currency) (float64, error) {
	if c == exchange.EUR {
		return TokensPerEUR, nil
	}
	r, ok := t.Rate(c)
	if !ok {
		return 0, fmt.Errorf("%w: %q", exchange.ErrUnsupportedCurrency, c)
	}
	return TokensPerEUR / r, nil
}

// Calculator converts custom top-up amounts into tokens for one rate table.
type Calculator struct {
	Table exchange.Table
}

func NewCalculator(t exchange.Table) Calculator {
	return Calculator{Table: t}
}

// TokensFromAmount returns the tokens granted for amount in c, floored to a
// multiple of 10. Non-positive amounts yield 0 without consulting the table.
func (c Calculator) TokensFromAmount(amount float64, cur exchange.Currency) (int, error) {
	if amount <= 0 {
		return 0, nil
	}
	rate, err := Rate(c.Table, cur)
	if err != nil {
		return 0, err
	}
	exact := amount * rate
	if !(exact <= maxExactTokens) {
		return 0, fmt.Errorf("%w: %v %s", ErrAmountTooLarge, amount, cur)
	}
	return floorToTen(exact + roundingEpsilon), nil
}

// WasRounded reports whether flooring dropped more than one token, which is
// when the UI shows a rounding disclaimer. Smaller gaps are float noise.
func (c Calculator) WasRounded(amount float64, cur exchange.Currency) (bool, error) {
	if amount <= 0 {
		return false, nil
	}
	rate, err := Rate(c.Table, cur)
	if err != nil {
		return false, err
	}
	exact := amount * rate
	if !(exact <= maxExactTokens) {
		return false, fmt.Errorf("%w: %v %s", ErrAmountTooLarge, amount, cur)
	}
	got := floorToTen(exact + roundingEpsilon)
	return math.Abs(exact-float64(got)) > 1, nil
}

// AmountForTokens prices n tokens in cur, rounded to the cent.
func (c Calculator) AmountForTokens(n int, cur exchange.Currency) (float64, error) {
	eur := decimal.NewFromInt(int64(n)).Div(decimal.NewFromInt(TokensPerEUR)).InexactFloat64()
	return c.Table.FromEUR(eur, cur)
}

var defaultCalculator = NewCalculator(exchange.Default())

// CalculateTokensFromAmount uses the default rate table.
func CalculateTokensFromAmount(amount float64, cur exchange.Currency) (int, error) {
	return defaultCalculator.TokensFromAmount(amount, cur)
}

// WasRounded uses the default rate table.
func WasRounded(amount float64, cur exchange.Currency) (bool, error) {
	return defaultCalculator.WasRounded(amount, cur)
}

func floorToTen(v float64) int {
	return int(math.Floor(v/10)) * 10
}
