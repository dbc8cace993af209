// Package money holds the decimal-backed parsing and rounding helpers used
// wherever amounts cross a boundary (upload cells in, report figures out).
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Parse reads a plain decimal string ("1500", "-12.5", "+3", "1e3").
// It reports false when s is not a number.
func Parse(s string) (float64, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// Abs returns |v|.
func Abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
