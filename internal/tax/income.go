package tax

import (
	"strings"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/money"
)

// Category groups shared by aggregation and per-transaction analysis.
var (
	salaryLike       = set("salary", "wages", "bonus")
	businessLike     = set("business", "consulting", "freelance")
	capitalGainsLike = set("investment", "stocks", "capital_gains")
	interestLike     = set("interest", "dividends")
	rentalLike       = set("rental", "property")
)

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

func categoryOf(t domain.Transaction) string {
	c := strings.ToLower(strings.TrimSpace(t.Category))
	if c == "" {
		return domain.DefaultCategory
	}
	return c
}

// AggregateIncome sums |amount| per income bucket.
//
// Transactions outside the named groups count toward "other" only when their
// signed amount is positive, but every transaction counts toward TotalIncome.
func AggregateIncome(txns []domain.Transaction) domain.IncomeBreakdown {
	by := map[string]float64{
		domain.IncomeSalary:       0,
		domain.IncomeBusiness:     0,
		domain.IncomeCapitalGains: 0,
		domain.IncomeInterest:     0,
		domain.IncomeRental:       0,
		domain.IncomeOther:        0,
	}

	var total float64
	for _, t := range txns {
		amount := t.AbsAmount()
		switch c := categoryOf(t); {
		case salaryLike[c]:
			by[domain.IncomeSalary] += amount
		case businessLike[c]:
			by[domain.IncomeBusiness] += amount
		case capitalGainsLike[c]:
			by[domain.IncomeCapitalGains] += amount
		case interestLike[c]:
			by[domain.IncomeInterest] += amount
		case rentalLike[c]:
			by[domain.IncomeRental] += amount
		default:
			if t.Amount > 0 {
				by[domain.IncomeOther] += amount
			}
		}
		total += amount
	}

	for k, v := range by {
		by[k] = money.Round(v, 2)
	}
	return domain.IncomeBreakdown{
		TotalIncome:      money.Round(total, 2),
		ByCategory:       by,
		TransactionCount: len(txns),
	}
}
