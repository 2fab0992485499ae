package tables

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/fitcoach/tokenpricing/internal/pricing"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	codes := make([]string, 0, len(cfg.Rates))
	for code := range cfg.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		r := cfg.Rates[code]
		c, err := exchange.ParseCurrency(code)
		if err != nil {
			errs = append(errs, fmt.Sprintf("rates.%s is not a supported currency", code))
			continue
		}
		if !(r > 0) {
			errs = append(errs, fmt.Sprintf("rates.%s must be > 0", code))
		}
		if c == exchange.EUR && r != 1 {
			errs = append(errs, "rates.EUR must be 1 (EUR is the base unit)")
		}
	}
	for _, c := range exchange.Supported() {
		if _, ok := cfg.Rates[string(c)]; !ok && c != exchange.EUR {
			errs = append(errs, fmt.Sprintf("rates.%s is required", c))
		}
	}

	if len(cfg.Packages) == 0 {
		errs = append(errs, "packages must not be empty")
	} else if err := (pricing.Catalog{Packages: cfg.Packages}).Validate(); err != nil {
		errs = append(errs, strings.TrimPrefix(err.Error(), "catalog validation failed: "))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
