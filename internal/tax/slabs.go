// Package tax estimates liability from a transaction batch using progressive
// slab tables, an optional numeric predictor, and a fixed per-transaction
// compliance rule set.
package tax

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultYear is used when a requested fiscal year has no table.
const DefaultYear = "2024"

// Slab is one band of a progressive table. Max of 0 means unbounded.
type Slab struct {
	Min         float64 `yaml:"min" json:"min"`
	Max         float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Rate        float64 `yaml:"rate" json:"rate"`
	Description string  `yaml:"description" json:"description"`
}

// Unbounded reports whether the slab has no upper limit.
func (s Slab) Unbounded() bool { return s.Max == 0 }

// SlabTable maps fiscal year keys to ordered slabs.
type SlabTable struct {
	Default string            `yaml:"default_year"`
	Years   map[string][]Slab `yaml:"years"`
}

// Lookup returns the slabs for year, or the default year's slabs.
func (t SlabTable) Lookup(year string) []Slab {
	if s, ok := t.Years[year]; ok {
		return s
	}
	return t.Years[t.Default]
}

// DefaultSlabTable returns the built-in individual income tax bands.
func DefaultSlabTable() SlabTable {
	bands := func() []Slab {
		return []Slab{
			{Min: 0, Max: 250000, Rate: 0.0, Description: "No tax"},
			{Min: 250000, Max: 500000, Rate: 0.05, Description: "5% tax"},
			{Min: 500000, Max: 1000000, Rate: 0.20, Description: "20% tax"},
			{Min: 1000000, Rate: 0.30, Description: "30% tax"},
		}
	}
	return SlabTable{
		Default: DefaultYear,
		Years: map[string][]Slab{
			"2024": bands(),
			"2023": bands(),
		},
	}
}

// LoadSlabTable reads a YAML slab table from path. An empty default_year
// falls back to DefaultYear.
func LoadSlabTable(path string) (SlabTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SlabTable{}, fmt.Errorf("read slab table: %w", err)
	}
	return ParseSlabTable(raw)
}

// ParseSlabTable decodes and validates a YAML slab table.
func ParseSlabTable(raw []byte) (SlabTable, error) {
	var t SlabTable
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return SlabTable{}, fmt.Errorf("decode slab table: %w", err)
	}
	if t.Default == "" {
		t.Default = DefaultYear
	}
	if err := t.Validate(); err != nil {
		return SlabTable{}, err
	}
	return t, nil
}

// Validate checks every year's bands are ordered, contiguous and end unbounded.
func (t SlabTable) Validate() error {
	if _, ok := t.Years[t.Default]; !ok {
		return fmt.Errorf("slab table: default year %q has no bands", t.Default)
	}
	for year, slabs := range t.Years {
		if len(slabs) == 0 {
			return fmt.Errorf("slab table: year %s has no bands", year)
		}
		for i, s := range slabs {
			if s.Rate < 0 || s.Rate > 1 {
				return fmt.Errorf("slab table: year %s band %d: rate %v out of range", year, i, s.Rate)
			}
			last := i == len(slabs)-1
			if s.Unbounded() != last {
				return fmt.Errorf("slab table: year %s band %d: only the last band may be unbounded", year, i)
			}
			if !last && s.Max <= s.Min {
				return fmt.Errorf("slab table: year %s band %d: max must exceed min", year, i)
			}
			if i > 0 && s.Min != slabs[i-1].Max {
				return fmt.Errorf("slab table: year %s band %d: gap after previous band", year, i)
			}
		}
	}
	return nil
}
