package tax

import (
	"context"
	"math"
	"strconv"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
)

// PredictorFeatureCount is the width of the predictor input.
const PredictorFeatureCount = 11

// PredictorFeatureNames labels each position of PredictorFeatures.
var PredictorFeatureNames = [PredictorFeatureCount]string{
	"total_income",
	"salary_income",
	"business_income",
	"capital_gains",
	"total_deductions",
	"taxable_income",
	"fiscal_year",
	"income_diversity",
	"deduction_ratio",
	"log_total_income",
	"log_taxable_income",
}

// PredictorFeatures is the predictor input vector.
type PredictorFeatures [PredictorFeatureCount]float64

// DefaultPredictorConfidence is reported when the predictor gives none.
const DefaultPredictorConfidence = 0.75

// Prediction is a predictor's answer. A nil Confidence means the predictor
// did not report one.
type Prediction struct {
	Tax        float64
	Confidence *float64
}

// Predictor is an external numeric tax model.
type Predictor interface {
	Predict(ctx context.Context, features PredictorFeatures) (Prediction, error)
}

// BuildPredictorFeatures assembles the predictor input. A non-numeric year
// encodes as 0.
func BuildPredictorFeatures(income domain.IncomeBreakdown, deductions map[string]float64, year string) PredictorFeatures {
	total := income.TotalIncome
	salary := income.ByCategory[domain.IncomeSalary]
	business := income.ByCategory[domain.IncomeBusiness]
	gains := income.ByCategory[domain.IncomeCapitalGains]
	totalDeductions := SumDeductions(deductions)
	taxable := math.Max(0, total-totalDeductions)

	var diversity float64
	for _, v := range []float64{salary, business, gains} {
		if v > 0 {
			diversity++
		}
	}
	var ratio float64
	if total > 0 {
		ratio = totalDeductions / total
	}
	fy, err := strconv.Atoi(year)
	if err != nil {
		fy = 0
	}

	return PredictorFeatures{
		total,
		salary,
		business,
		gains,
		totalDeductions,
		taxable,
		float64(fy),
		diversity,
		ratio,
		math.Log1p(total),
		math.Log1p(taxable),
	}
}
