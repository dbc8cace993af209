package anomaly

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
)

// FeatureCount is the width of the model feature vector.
const FeatureCount = 8

// Feature vector layout.
const (
	FeatAmount = iota
	FeatAmountRatio
	FeatZScore
	FeatMerchantFreq
	FeatCategoryRisk
	FeatRoundAmount
	FeatMerchantLen
	FeatHighValue
)

// Features is one transaction's model input.
type Features [FeatureCount]float64

// Model-path reasons.
const (
	ReasonModelAmountRatio = "Transaction amount significantly above average"
	ReasonModelFirstSeen   = "First transaction with this merchant"
	ReasonModelCategory    = "High-risk transaction category"
	ReasonModelRound       = "Round amount transaction"
	ReasonModelHighValue   = "High-value transaction"
	ReasonModelMultiple    = "Multiple anomaly indicators detected"
)

// The model treats atm/cash as risky alongside gambling, unlike the rule table.
var modelRiskCategories = map[string]bool{"cash": true, "gambling": true, "casino": true, "atm": true}

// Model is an external decision function over feature vectors. Higher raw
// values mean more anomalous.
type Model interface {
	Decision(ctx context.Context, features []Features) ([]float64, error)
}

// ModelScorer scores transactions through a Model.
type ModelScorer struct {
	model Model
}

// NewModelScorer wraps m.
func NewModelScorer(m Model) *ModelScorer {
	return &ModelScorer{model: m}
}

// Method implements Scorer.
func (s *ModelScorer) Method() string { return domain.MethodModel }

// Score implements Scorer. The whole batch goes to the model in one call.
func (s *ModelScorer) Score(ctx context.Context, txns []domain.Transaction) ([]Assessment, error) {
	if len(txns) == 0 {
		return []Assessment{}, nil
	}
	stats := BatchStats(txns)
	feats := make([]Features, len(txns))
	for i, t := range txns {
		feats[i] = BuildFeatures(t, stats)
	}

	raw, err := s.model.Decision(ctx, feats)
	if err != nil {
		return nil, err
	}
	if len(raw) != len(feats) {
		return nil, fmt.Errorf("model returned %d scores for %d transactions", len(raw), len(feats))
	}

	out := make([]Assessment, len(txns))
	for i := range txns {
		score := NormalizeDecision(raw[i])
		out[i] = Assessment{Score: score, Reasons: ExplainFeatures(feats[i], score)}
	}
	return out, nil
}

// BuildFeatures computes the model input for t.
func BuildFeatures(t domain.Transaction, stats Stats) Features {
	amount := t.AbsAmount()
	var f Features
	f[FeatAmount] = amount
	if stats.Mean > 0 {
		f[FeatAmountRatio] = amount / stats.Mean
	}
	if stats.Std > 0 {
		f[FeatZScore] = (amount - stats.Mean) / stats.Std
	}
	f[FeatMerchantFreq] = float64(stats.MerchantCounts[merchantKey(t)])
	if modelRiskCategories[categoryKey(t)] {
		f[FeatCategoryRisk] = 1
	}
	if isRound(amount) {
		f[FeatRoundAmount] = 1
	}
	f[FeatMerchantLen] = float64(utf8.RuneCountInString(merchantKey(t)))
	if amount > 50000 {
		f[FeatHighValue] = 1
	}
	return f
}

// NormalizeDecision maps a raw decision value into [0, 1].
func NormalizeDecision(raw float64) float64 {
	return clamp((raw + 0.5) / 1.0)
}

// ExplainFeatures derives reasons from the feature components that crossed
// their thresholds.
func ExplainFeatures(f Features, score float64) []string {
	reasons := []string{}
	if f[FeatAmountRatio] > 2 {
		reasons = append(reasons, ReasonModelAmountRatio)
	}
	if f[FeatMerchantFreq] == 1 {
		reasons = append(reasons, ReasonModelFirstSeen)
	}
	if f[FeatCategoryRisk] == 1 {
		reasons = append(reasons, ReasonModelCategory)
	}
	if f[FeatRoundAmount] == 1 {
		reasons = append(reasons, ReasonModelRound)
	}
	if f[FeatHighValue] == 1 {
		reasons = append(reasons, ReasonModelHighValue)
	}
	if score > 0.7 {
		reasons = append(reasons, ReasonModelMultiple)
	}
	return reasons
}
