package tax

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/money"
)

// Calculator applies a slab table. It holds no mutable state.
type Calculator struct {
	table   SlabTable
	printer *message.Printer
}

// NewCalculator returns a Calculator over table.
func NewCalculator(table SlabTable) *Calculator {
	return &Calculator{table: table, printer: message.NewPrinter(language.English)}
}

// Slabs returns the bands for year, falling back to the default year.
func (c *Calculator) Slabs(year string) []Slab {
	return c.table.Lookup(year)
}

// HasYear reports whether year has its own table.
func (c *Calculator) HasYear(year string) bool {
	_, ok := c.table.Years[year]
	return ok
}

// Calculate computes progressive tax on income less the summed deductions.
func (c *Calculator) Calculate(income float64, deductions map[string]float64, year string) domain.SlabCalculation {
	totalDeductions := SumDeductions(deductions)
	taxable := income - totalDeductions
	if taxable < 0 {
		taxable = 0
	}

	var total float64
	lines := []domain.SlabLine{}
	for _, s := range c.Slabs(year) {
		if taxable <= s.Min {
			break
		}
		portion := taxable - s.Min
		if !s.Unbounded() && taxable > s.Max {
			portion = s.Max - s.Min
		}
		tax := portion * s.Rate
		total += tax
		lines = append(lines, domain.SlabLine{
			Range:         c.rangeLabel(s),
			Rate:          rateLabel(s.Rate),
			RateValue:     s.Rate,
			TaxableAmount: money.Round(portion, 2),
			TaxAmount:     money.Round(tax, 2),
		})
	}

	var effective float64
	if income > 0 {
		effective = total / income * 100
	}
	return domain.SlabCalculation{
		TotalIncome:     money.Round(income, 2),
		TotalDeductions: money.Round(totalDeductions, 2),
		TaxableIncome:   money.Round(taxable, 2),
		TotalTax:        money.Round(total, 2),
		EffectiveRate:   money.Round(effective, 2),
		Slabs:           lines,
	}
}

// Savings compares tax on current deductions against current plus additional.
// Additional entries replace current entries with the same label.
func (c *Calculator) Savings(income float64, current, additional map[string]float64, year string) domain.TaxSavings {
	before := c.Calculate(income, current, year)

	merged := make(map[string]float64, len(current)+len(additional))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range additional {
		merged[k] = v
	}
	after := c.Calculate(income, merged, year)

	savings := before.TotalTax - after.TotalTax
	var pct float64
	if before.TotalTax > 0 {
		pct = savings / before.TotalTax * 100
	}
	return domain.TaxSavings{
		CurrentTax:           before.TotalTax,
		NewTax:               after.TotalTax,
		TaxSavings:           money.Round(savings, 2),
		AdditionalDeductions: money.Round(SumDeductions(additional), 2),
		SavingsPercentage:    money.Round(pct, 2),
	}
}

// SumDeductions adds the deduction amounts in label order so the float sum
// does not depend on map iteration.
func SumDeductions(deductions map[string]float64) float64 {
	keys := make([]string, 0, len(deductions))
	for k := range deductions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sum float64
	for _, k := range keys {
		sum += deductions[k]
	}
	return sum
}

func (c *Calculator) rangeLabel(s Slab) string {
	if s.Unbounded() {
		return c.printer.Sprintf("₹%.0f+", s.Min)
	}
	return c.printer.Sprintf("₹%.0f - ₹%.0f", s.Min, s.Max)
}

func rateLabel(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}
