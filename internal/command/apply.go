package command

import (
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/normalize"
)

// Apply returns the transactions that satisfy pred, in input order.
// A date range whose bounds do not parse is ignored.
func Apply(txns []domain.Transaction, pred domain.FilterPredicate) []domain.Transaction {
	typeFilter := ""
	if pred.TransactionType != nil && *pred.TransactionType != domain.FilterBoth {
		typeFilter = *pred.TransactionType
	}

	var dateFilter func(domain.Transaction) bool
	if pred.DateRange != nil {
		start := normalize.ParseDate(pred.DateRange.Start)
		end := normalize.ParseDate(pred.DateRange.End)
		if start != nil && end != nil {
			dateFilter = func(t domain.Transaction) bool {
				return t.Date != nil && !t.Date.Before(*start) && !t.Date.After(*end)
			}
		}
	}

	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if typeFilter != "" && string(t.Type) != typeFilter {
			continue
		}
		if pred.AmountFilter != nil && !matchAmount(t.AbsAmount(), *pred.AmountFilter) {
			continue
		}
		if dateFilter != nil && !dateFilter(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchAmount(amount float64, f domain.AmountFilter) bool {
	switch f.Kind {
	case domain.AmountAbove:
		return amount > f.Value
	case domain.AmountBelow:
		return amount < f.Value
	case domain.AmountEqual:
		return amount == f.Value
	default:
		return true
	}
}
