package exchange

import (
	"errors"
	"fmt"
	"strings"
)

// Currency is an ISO 4217 code accepted at the payment boundary.
type Currency string

const (
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	USD Currency = "USD"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Supported lists the currencies the default table carries, EUR first.
func Supported() []Currency {
	return []Currency{EUR, GBP, USD}
}

// ParseCurrency upper-cases and trims s; codes outside Supported() are rejected.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case EUR, GBP, USD:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, s)
}

func (c Currency) String() string { return string(c) }
