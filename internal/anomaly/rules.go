package anomaly

import (
	"context"
	"strings"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/money"
)

// Rule reasons, in the order they can appear.
const (
	ReasonUnusuallyHigh = "Unusually high transaction amount"
	ReasonAboveAverage  = "Above average transaction amount"
	ReasonFirstTimeHigh = "First-time high-value merchant"
	ReasonLargeCash     = "Large cash withdrawal"
	ReasonHighRiskCat   = "High-risk category transaction"
	ReasonWeekend       = "Weekend transaction"
	ReasonRoundAmount   = "Round amount transaction"
)

var (
	cashCategories     = map[string]bool{"cash": true, "atm": true, "withdrawal": true}
	highRiskCategories = map[string]bool{"gambling": true, "casino": true, "betting": true}
)

// Assessment is a scorer's raw verdict for one transaction.
type Assessment struct {
	Score   float64
	Reasons []string
}

// RuleScorer applies the fixed heuristic table. It is deterministic.
type RuleScorer struct{}

// Method implements Scorer.
func (RuleScorer) Method() string { return domain.MethodRuleBased }

// Score implements Scorer. It never fails.
func (RuleScorer) Score(_ context.Context, txns []domain.Transaction) ([]Assessment, error) {
	stats := BatchStats(txns)
	out := make([]Assessment, len(txns))
	for i, t := range txns {
		out[i] = ScoreRules(t, stats)
	}
	return out, nil
}

// ScoreRules scores one transaction against its batch statistics.
// Contributions add up and the sum is clamped to [0, 1]. Every contribution
// is a whole tenth, so the sum is rounded to drop float residue.
func ScoreRules(t domain.Transaction, stats Stats) Assessment {
	amount := t.AbsAmount()
	category := categoryKey(t)

	var score float64
	reasons := []string{}

	switch {
	case amount > stats.Mean+2*stats.Std:
		score += 0.4
		reasons = append(reasons, ReasonUnusuallyHigh)
	case amount > stats.Mean+stats.Std:
		score += 0.2
		reasons = append(reasons, ReasonAboveAverage)
	}

	if stats.MerchantCounts[merchantKey(t)] == 1 && amount > 10000 {
		score += 0.3
		reasons = append(reasons, ReasonFirstTimeHigh)
	}

	if cashCategories[category] && amount > 50000 {
		score += 0.5
		reasons = append(reasons, ReasonLargeCash)
	}

	if highRiskCategories[category] {
		score += 0.6
		reasons = append(reasons, ReasonHighRiskCat)
	}

	// Matches the date text as given; no weekday is computed.
	if strings.Contains(strings.ToLower(t.DateText()), "weekend") {
		score += 0.1
		reasons = append(reasons, ReasonWeekend)
	}

	if isRound(amount) && amount > 5000 {
		score += 0.2
		reasons = append(reasons, ReasonRoundAmount)
	}

	return Assessment{Score: clamp(money.Round(score, 3)), Reasons: reasons}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
