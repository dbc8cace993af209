// Package domain defines the canonical records shared by the normalizer,
// the anomaly scorer, the tax estimator and the command filter.
// These types carry no behaviour beyond small invariants and are safe to
// serialise as-is for persistence and export collaborators.
package domain

import "time"

// ============================================================
// Transactions
// ============================================================

// TransactionType is the derived credit/debit classification of a transaction.
type TransactionType string

const (
	TypeCredit  TransactionType = "credit"
	TypeDebit   TransactionType = "debit"
	TypeUnknown TransactionType = "unknown"
)

// Defaults applied by the normalizer when a field is absent.
const (
	DefaultMerchant = "general"
	DefaultCategory = "other"
	DefaultCurrency = "INR"
)

// Transaction is the canonical, post-normalization record.
// Amount is signed: positive = credit/income, negative = debit/expense.
type Transaction struct {
	ID          string          `json:"id"`
	Date        *time.Time      `json:"date,omitempty"`
	RawDate     string          `json:"raw_date,omitempty"` // date text as received
	Amount      float64         `json:"amount"`
	Credit      *float64        `json:"credit,omitempty"`
	Debit       *float64        `json:"debit,omitempty"`
	Balance     *float64        `json:"balance,omitempty"`
	Description string          `json:"description"`
	Merchant    string          `json:"merchant"`
	Category    string          `json:"category"`
	Currency    string          `json:"currency"`
	Type        TransactionType `json:"transaction_type"`
}

// AbsAmount returns |Amount|.
func (t Transaction) AbsAmount() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// DateText returns the date as it should be shown to users: the raw text if
// present, otherwise the parsed date as YYYY-MM-DD, otherwise "".
func (t Transaction) DateText() string {
	if t.RawDate != "" {
		return t.RawDate
	}
	if t.Date != nil {
		return t.Date.Format("2006-01-02")
	}
	return ""
}

// SignConsistent reports whether Amount agrees with Type.
// credit ⇒ amount ≥ 0, debit ⇒ amount ≤ 0; unknown is always consistent.
func (t Transaction) SignConsistent() bool {
	switch t.Type {
	case TypeCredit:
		return t.Amount >= 0
	case TypeDebit:
		return t.Amount <= 0
	default:
		return true
	}
}

// DateRange is an inclusive range of calendar dates rendered as YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
