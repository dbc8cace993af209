package tax

import (
	"context"
	"fmt"
	"math"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/money"
)

// Blend weights and the slab-only confidence.
const (
	SlabWeight      = 0.7
	PredictorWeight = 0.3
	SlabConfidence  = 0.85
)

// Estimation is an estimate plus the predictor error that forced the slab
// path, if any.
type Estimation struct {
	Estimate    domain.TaxEstimate
	FallbackErr error
}

// Estimator combines slab tax with an optional predictor.
type Estimator struct {
	calc      *Calculator
	predictor Predictor
}

// NewEstimator returns an Estimator. A nil predictor selects the slab path.
func NewEstimator(calc *Calculator, p Predictor) *Estimator {
	return &Estimator{calc: calc, predictor: p}
}

// Calculator exposes the slab calculator.
func (e *Estimator) Calculator() *Calculator { return e.calc }

// Method reports the configured estimation method.
func (e *Estimator) Method() string {
	if e.predictor != nil {
		return domain.TaxMethodBlended
	}
	return domain.TaxMethodSlab
}

// Estimate runs aggregation, slab tax, the optional blend and the
// per-transaction analysis. It does not fail.
func (e *Estimator) Estimate(ctx context.Context, txns []domain.Transaction, deductions map[string]float64, year string) Estimation {
	income := AggregateIncome(txns)
	calc := e.calc.Calculate(income.TotalIncome, deductions, year)

	est := domain.TaxEstimate{
		FiscalYear:      year,
		TotalIncome:     income.TotalIncome,
		TaxableIncome:   calc.TaxableIncome,
		TotalDeductions: calc.TotalDeductions,
		SlabTax:         calc.TotalTax,
		PredictedTax:    calc.TotalTax,
		Confidence:      SlabConfidence,
		Method:          domain.TaxMethodSlab,
		SlabBreakdown:   calc.Slabs,
		IncomeBreakdown: income,
		Explainability:  e.calc.Explain(calc),
		Transactions:    AnalyzeTransactions(txns),
	}

	var fallbackErr error
	if e.predictor != nil {
		features := BuildPredictorFeatures(income, deductions, year)
		p, err := e.predictor.Predict(ctx, features)
		if err == nil {
			err = checkPrediction(p)
		}
		if err != nil {
			fallbackErr = err
		} else {
			confidence := DefaultPredictorConfidence
			if p.Confidence != nil {
				confidence = *p.Confidence
			}
			est.PredictedTax = money.Round(SlabWeight*calc.TotalTax+PredictorWeight*p.Tax, 2)
			est.Confidence = confidence
			est.Method = domain.TaxMethodBlended
			est.Explainability = ExplainPrediction(features, p.Tax)
		}
	}

	if est.TotalIncome > 0 {
		est.EffectiveRate = money.Round(est.PredictedTax/est.TotalIncome*100, 2)
	}
	return Estimation{Estimate: est, FallbackErr: fallbackErr}
}

func checkPrediction(p Prediction) error {
	if math.IsNaN(p.Tax) || math.IsInf(p.Tax, 0) || p.Tax < 0 {
		return fmt.Errorf("predictor returned out-of-range tax %v", p.Tax)
	}
	if c := p.Confidence; c != nil && (math.IsNaN(*c) || *c < 0 || *c > 1) {
		return fmt.Errorf("predictor returned out-of-range confidence %v", *c)
	}
	return nil
}
