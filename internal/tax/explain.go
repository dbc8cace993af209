package tax

import (
	"sort"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/money"
)

// Share of a deduction assumed to come off the final tax.
const deductionTaxShare = 0.2

// Relative weights for the leading predictor features.
var featureWeights = []float64{0.4, 0.3, 0.15, 0.05, 0.25, 0.03, 0.01, 0.01}

const topFeatures = 5

// Explain describes a slab calculation.
func (c *Calculator) Explain(calc domain.SlabCalculation) []domain.Explanation {
	lines := []domain.Explanation{
		{
			Feature:     "taxable_income",
			Impact:      calc.TotalTax,
			Value:       calc.TaxableIncome,
			Description: c.printer.Sprintf("Tax calculated on ₹%.0f taxable income", calc.TaxableIncome),
		},
		{
			Feature:     "tax_slabs",
			Impact:      calc.TotalTax,
			Description: c.printer.Sprintf("Applied progressive tax slabs with %.1f%% effective rate", calc.EffectiveRate),
		},
	}
	if calc.TotalDeductions > 0 {
		lines = append(lines, domain.Explanation{
			Feature:     "deductions",
			Impact:      money.Round(-calc.TotalDeductions*deductionTaxShare, 2),
			Value:       calc.TotalDeductions,
			Description: c.printer.Sprintf("₹%.0f in deductions reduced tax liability", calc.TotalDeductions),
		})
	}
	return lines
}

// ExplainPrediction ranks the weighted predictor inputs by absolute impact
// scaled to the predicted tax and keeps the top entries.
func ExplainPrediction(f PredictorFeatures, predicted float64) []domain.Explanation {
	lines := make([]domain.Explanation, 0, len(featureWeights))
	for i, w := range featureWeights {
		lines = append(lines, domain.Explanation{
			Feature: PredictorFeatureNames[i],
			Impact:  money.Round(f[i]*w*(predicted/100000), 2),
			Value:   f[i],
		})
	}
	sort.SliceStable(lines, func(a, b int) bool {
		return money.Abs(lines[a].Impact) > money.Abs(lines[b].Impact)
	})
	if len(lines) > topFeatures {
		lines = lines[:topFeatures]
	}
	return lines
}
