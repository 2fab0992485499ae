package tables

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/fitcoach/tokenpricing/internal/pricing"
	"gopkg.in/yaml.v3"
)

// Loader reads the pricing YAML file and merges it over the built-in tables.
type Loader struct {
	path string
}

// NewLoader creates a loader for path. An empty path loads the defaults only.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Path() string { return l.path }

// Load reads, merges and validates the tables.
func (l *Loader) Load() (Snapshot, error) {
	var file RawConfig
	if l.path != "" {
		var err error
		file, err = readYAML(l.path)
		if err != nil {
			return Snapshot{}, fmt.Errorf("read pricing tables: %w", err)
		}
	}
	merged := mergeRaw(DefaultRaw(), file)
	if err := ValidateRaw(merged); err != nil {
		return Snapshot{}, err
	}
	return build(merged)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b on a. Rates merge per currency; a non-empty package
// list in b replaces a's list.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if len(b.Rates) > 0 {
		rates := make(map[string]float64, len(a.Rates)+len(b.Rates))
		for k, v := range a.Rates {
			rates[k] = v
		}
		for k, v := range b.Rates {
			rates[strings.ToUpper(strings.TrimSpace(k))] = v
		}
		out.Rates = rates
	}
	if len(b.Packages) > 0 {
		out.Packages = append([]pricing.Package(nil), b.Packages...)
	}
	return out
}

func build(cfg RawConfig) (Snapshot, error) {
	rates := make(map[exchange.Currency]float64, len(cfg.Rates))
	for code, r := range cfg.Rates {
		c, err := exchange.ParseCurrency(code)
		if err != nil {
			return Snapshot{}, fmt.Errorf("rates.%s: %w", code, err)
		}
		rates[c] = r
	}
	table, err := exchange.NewTable(rates)
	if err != nil {
		return Snapshot{}, err
	}
	cat, err := pricing.NewCatalog(cfg.Packages)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Version:  cfg.Version,
		Rates:    table,
		Catalog:  cat,
		LoadedAt: time.Now().UTC(),
	}, nil
}
