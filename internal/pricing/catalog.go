package pricing

import (
	"fmt"
	"strings"

	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/fitcoach/tokenpricing/internal/token"
)

// Package is a purchasable token bundle.
type Package struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Tokens      int    `json:"tokens" yaml:"tokens"`
	Highlighted bool   `json:"highlighted,omitempty" yaml:"highlighted,omitempty"`
	Description string `json:"description" yaml:"description"`
}

// Catalog is the ordered list of packages offered in the store.
type Catalog struct {
	Packages []Package
}

var defaultPackages = []Package{
	{ID: "starter", Title: "Starter", Tokens: 1000, Description: "Enough for a short AI-generated plan."},
	{ID: "standard", Title: "Standard", Tokens: 5000, Highlighted: true, Description: "Several AI courses or add-ons."},
	{ID: "coach", Title: "Coach", Tokens: 15000, Description: "Covers an entry-level coach-built plan."},
	{ID: "pro", Title: "Pro", Tokens: 30000, Description: "For advanced, high-frequency coach requests."},
}

// DefaultCatalog returns the built-in packages.
func DefaultCatalog() Catalog {
	return Catalog{Packages: append([]Package(nil), defaultPackages...)}
}

// NewCatalog copies and validates pkgs.
func NewCatalog(pkgs []Package) (Catalog, error) {
	c := Catalog{Packages: append([]Package(nil), pkgs...)}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate checks ids are present and unique and token amounts positive.
func (c Catalog) Validate() error {
	var errs []string
	seen := make(map[string]bool, len(c.Packages))
	for i, p := range c.Packages {
		if strings.TrimSpace(p.ID) == "" {
			errs = append(errs, fmt.Sprintf("packages[%d].id is required", i))
		} else if seen[p.ID] {
			errs = append(errs, fmt.Sprintf("packages[%d].id %q is duplicated", i, p.ID))
		}
		seen[p.ID] = true
		if p.Tokens <= 0 {
			errs = append(errs, fmt.Sprintf("packages[%d].tokens must be > 0", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Lookup finds a package by id.
func (c Catalog) Lookup(id string) (Package, bool) {
	for _, p := range c.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// Price is a package price in one currency. Amounts are in currency units.
type Price struct {
	Currency exchange.Currency `json:"currency"`
	Net      float64           `json:"net"`
	VAT      float64           `json:"vat"`
	Gross    float64           `json:"gross"`
}

// PriceOf prices p in cur at the calculator's token rate, VAT added on top.
func PriceOf(p Package, cur exchange.Currency, calc token.Calculator) (Price, error) {
	net, err := calc.AmountForTokens(p.Tokens, cur)
	if err != nil {
		return Price{}, err
	}
	return Price{
		Currency: cur,
		Net:      net,
		VAT:      exchange.VATAmount(net),
		Gross:    exchange.AddVAT(net),
	}, nil
}
