package tables

import (
	"time"

	"github.com/fitcoach/tokenpricing/internal/exchange"
	"github.com/fitcoach/tokenpricing/internal/pricing"
)

// RawConfig mirrors the pricing YAML file.
type RawConfig struct {
	Version  string             `yaml:"version"`
	Rates    map[string]float64 `yaml:"rates,omitempty"`
	Packages []pricing.Package  `yaml:"packages,omitempty"`
	Notes    string             `yaml:"notes,omitempty"`
}

// Snapshot is one immutable, validated set of pricing tables.
type Snapshot struct {
	Version  string
	Rates    exchange.Table
	Catalog  pricing.Catalog
	LoadedAt time.Time
}

// DefaultRaw returns the built-in tables in file form.
func DefaultRaw() RawConfig {
	rates := make(map[string]float64)
	for c, r := range exchange.Default().Rates() {
		rates[string(c)] = r
	}
	return RawConfig{
		Version:  "builtin",
		Rates:    rates,
		Packages: pricing.DefaultCatalog().Packages,
	}
}

// DefaultSnapshot builds a Snapshot from the built-in tables.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Version:  "builtin",
		Rates:    exchange.Default(),
		Catalog:  pricing.DefaultCatalog(),
		LoadedAt: time.Now().UTC(),
	}
}
