package normalize

import (
	"strconv"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
)

type fallbackRow struct {
	date        string
	description string
	credit      float64
	debit       float64
	balance     float64
}

var fallbackRows = []fallbackRow{
	{"2024-01-01", "Salary Credit", 50000, 0, 50000},
	{"2024-01-02", "ATM Withdrawal", 0, 2000, 48000},
	{"2024-01-03", "Online Transfer Credit", 15000, 0, 63000},
	{"2024-01-04", "Bill Payment", 0, 1500, 61500},
	{"2024-01-05", "Deposit", 25000, 0, 86500},
}

// FallbackDataset is the fixed demonstration table returned when an upload
// cannot be decoded or is empty. The reason is carried in the analysis.
func FallbackDataset(reason string) Result {
	txns := make([]domain.Transaction, len(fallbackRows))
	for i, r := range fallbackRows {
		d, _ := time.Parse("2006-01-02", r.date)
		credit, debit, balance := r.credit, r.debit, r.balance
		amount := credit - debit
		txns[i] = domain.Transaction{
			ID:          strconv.Itoa(i + 1),
			Date:        &d,
			RawDate:     r.date,
			Amount:      amount,
			Credit:      &credit,
			Debit:       &debit,
			Balance:     &balance,
			Description: r.description,
			Merchant:    domain.DefaultMerchant,
			Category:    domain.DefaultCategory,
			Currency:    domain.DefaultCurrency,
			Type:        typeFromSign(amount),
		}
	}

	return Result{
		Transactions: txns,
		Analysis: Analysis{
			TotalRows: len(txns),
			ColumnsFound: map[string]string{
				FieldDate:        FieldDate,
				FieldDescription: FieldDescription,
				FieldAmount:      FieldAmount,
				FieldCredit:      FieldCredit,
				FieldDebit:       FieldDebit,
			},
			DateRange:        &domain.DateRange{Start: "2024-01-01", End: "2024-01-05"},
			TransactionTypes: map[domain.TransactionType]int{domain.TypeCredit: 3, domain.TypeDebit: 2},
			Fallback:         true,
			FallbackReason:   reason,
		},
	}
}
