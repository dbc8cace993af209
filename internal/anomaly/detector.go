package anomaly

import (
	"context"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/money"
)

// Scorer assigns raw assessments to a batch, one per transaction, in order.
type Scorer interface {
	Method() string
	Score(ctx context.Context, txns []domain.Transaction) ([]Assessment, error)
}

// Detection is the outcome of scoring one batch.
type Detection struct {
	Summary domain.AnomalySummary
	Details []domain.AnomalyResult
	Method  string
	// FallbackErr is the model error that forced the rule path, if any.
	FallbackErr error
}

// Detector runs the configured scorer and falls back to the rule table when
// the model path fails.
type Detector struct {
	scorer       Scorer
	rules        RuleScorer
	modelVersion string
}

// NewDetector returns a Detector backed by m, or by the rule table when m is nil.
func NewDetector(m Model, modelVersion string) *Detector {
	d := &Detector{modelVersion: modelVersion}
	if m != nil {
		d.scorer = NewModelScorer(m)
	} else {
		d.scorer = RuleScorer{}
	}
	return d
}

// Info reports which scorer is active.
func (d *Detector) Info() domain.ModelInfo {
	info := domain.ModelInfo{Method: d.scorer.Method()}
	if info.Method == domain.MethodModel {
		info.ModelLoaded = true
		info.ModelVersion = d.modelVersion
	}
	return info
}

// Detect scores txns and aggregates the batch. It does not fail: a model
// error scores the whole batch with the rule table instead.
func (d *Detector) Detect(ctx context.Context, txns []domain.Transaction) Detection {
	method := d.scorer.Method()
	assessments, err := d.scorer.Score(ctx, txns)
	var fallbackErr error
	if err != nil {
		fallbackErr = err
		method = d.rules.Method()
		assessments, _ = d.rules.Score(ctx, txns)
	}

	details := make([]domain.AnomalyResult, len(txns))
	for i, t := range txns {
		details[i] = BuildResult(i+1, t, assessments[i])
	}
	return Detection{
		Summary:     Summarize(details),
		Details:     details,
		Method:      method,
		FallbackErr: fallbackErr,
	}
}

// BuildResult renders one assessment. Risk level and flag come from the
// unrounded score; only the reported figure is rounded to three places.
func BuildResult(position int, t domain.Transaction, a Assessment) domain.AnomalyResult {
	score := clamp(a.Score)
	reasons := a.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return domain.AnomalyResult{
		TransactionID: position,
		Amount:        t.Amount,
		Merchant:      t.Merchant,
		Category:      t.Category,
		Date:          t.DateText(),
		AnomalyScore:  money.Round(score, 3),
		RiskLevel:     RiskLevelFor(score),
		Reasons:       reasons,
		Flagged:       score > domain.FlagThreshold,
	}
}

// RiskLevelFor buckets score. Boundaries are inclusive on the lower side.
func RiskLevelFor(score float64) domain.RiskLevel {
	switch {
	case score >= 0.7:
		return domain.RiskHigh
	case score >= 0.4:
		return domain.RiskMedium
	case score >= 0.2:
		return domain.RiskLow
	default:
		return domain.RiskNormal
	}
}

// Summarize aggregates results into batch counts.
func Summarize(details []domain.AnomalyResult) domain.AnomalySummary {
	s := domain.AnomalySummary{TotalTransactions: len(details)}
	var flaggedAmount float64
	for _, r := range details {
		switch r.RiskLevel {
		case domain.RiskHigh:
			s.HighRiskCount++
		case domain.RiskMedium:
			s.MediumRiskCount++
		case domain.RiskLow:
			s.LowRiskCount++
		}
		if r.Flagged {
			s.AnomalousTransactions++
			flaggedAmount += money.Abs(r.Amount)
		}
	}
	if s.TotalTransactions > 0 {
		s.AnomalyRate = money.Round(float64(s.AnomalousTransactions)/float64(s.TotalTransactions)*100, 2)
	}
	s.TotalFlaggedAmount = money.Round(flaggedAmount, 2)
	return s
}
