package domain

// ============================================================
// Command filter
// ============================================================

// Filter target types. FilterBoth disables the type filter.
const (
	FilterCredit = "credit"
	FilterDebit  = "debit"
	FilterBoth   = "both"
)

// Amount comparison kinds.
const (
	AmountAbove = "above"
	AmountBelow = "below"
	AmountEqual = "equal"
)

// AmountFilter compares |amount| against Value.
type AmountFilter struct {
	Kind  string  `json:"type"`
	Value float64 `json:"value"`
}

// FilterPredicate is derived from one command string and consumed immediately.
// A nil TransactionType means no type constraint was expressed.
type FilterPredicate struct {
	TransactionType *string       `json:"transaction_type"`
	AmountFilter    *AmountFilter `json:"amount_filter"`
	DateRange       *DateRange    `json:"date_range"`
	SeparateOutput  bool          `json:"separate_output"`
	Description     string        `json:"description"`
}

// ExportFile is one generated CSV file.
type ExportFile struct {
	Filename string `json:"filename"`
	Size     int    `json:"size"`
	Rows     int    `json:"rows"`
	Content  []byte `json:"-"`
}
