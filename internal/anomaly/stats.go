// Package anomaly scores transactions for unusualness relative to their batch.
//
// Two scorers share one contract: RuleScorer (the fixed heuristic table) and
// ModelScorer (an external decision function fed an 8-feature vector).
// Detector picks one at construction and aggregates the batch summary.
package anomaly

import (
	"math"
	"strings"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
)

// Stats are the batch-level figures every per-transaction rule reads.
type Stats struct {
	Mean           float64
	Std            float64 // population standard deviation of |amount|
	MerchantCounts map[string]int
}

// BatchStats computes mean and std of |amount| and lower-cased merchant counts.
func BatchStats(txns []domain.Transaction) Stats {
	s := Stats{MerchantCounts: make(map[string]int, len(txns))}
	if len(txns) == 0 {
		return s
	}

	var sum float64
	for _, t := range txns {
		sum += t.AbsAmount()
		s.MerchantCounts[merchantKey(t)]++
	}
	s.Mean = sum / float64(len(txns))

	var sq float64
	for _, t := range txns {
		d := t.AbsAmount() - s.Mean
		sq += d * d
	}
	s.Std = math.Sqrt(sq / float64(len(txns)))
	return s
}

func merchantKey(t domain.Transaction) string {
	return strings.ToLower(t.Merchant)
}

func categoryKey(t domain.Transaction) string {
	return strings.ToLower(strings.TrimSpace(t.Category))
}

func isRound(amount float64) bool {
	return math.Mod(amount, 1000) == 0
}
