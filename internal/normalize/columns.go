package normalize

import "strings"

// Canonical field names.
const (
	FieldID          = "id"
	FieldDate        = "date"
	FieldDescription = "description"
	FieldCredit      = "credit"
	FieldDebit       = "debit"
	FieldAmount      = "amount"
	FieldBalance     = "balance"
	FieldMerchant    = "merchant"
	FieldCategory    = "category"
	FieldCurrency    = "currency"
)

// resolveOrder fixes the binding order. Credit and debit bind before amount so
// that split-column statements never have their "credit_amount" column
// claimed by the amount field.
var resolveOrder = []string{
	FieldID,
	FieldDate,
	FieldDescription,
	FieldCredit,
	FieldDebit,
	FieldAmount,
	FieldBalance,
	FieldMerchant,
	FieldCategory,
	FieldCurrency,
}

// Synonyms maps a canonical field to the column-name fragments that identify it.
type Synonyms map[string][]string

// DefaultSynonyms is the synonym table for Indian bank statement exports.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		FieldID:          {"id"},
		FieldDate:        {"date", "transaction_date", "txn_date", "posting_date", "value_date"},
		FieldDescription: {"description", "particulars", "narration", "details", "transaction_details"},
		FieldAmount:      {"amount", "transaction_amount", "txn_amount"},
		FieldCredit:      {"credit", "credit_amount", "deposits", "cr"},
		FieldDebit:       {"debit", "debit_amount", "withdrawals", "dr"},
		FieldBalance:     {"balance", "running_balance", "available_balance"},
		FieldMerchant:    {"merchant", "vendor", "payee"},
		FieldCategory:    {"category"},
		FieldCurrency:    {"currency"},
	}
}

// exactOnly fields never bind by substring ("paid" must not become an id column).
var exactOnly = map[string]bool{FieldID: true}

// ResolveColumns binds each canonical field to one column of the header.
// Matching is case-insensitive. A first pass binds exact names; a second pass
// binds the first unclaimed column (in header order) containing any synonym.
// A column is bound to at most one field. Unmatched fields are absent.
func ResolveColumns(columns []string, syn Synonyms) map[string]string {
	lower := make([]string, len(columns))
	for i, c := range columns {
		lower[i] = strings.ToLower(strings.TrimSpace(c))
	}

	mapping := make(map[string]string)
	claimed := make(map[int]bool)

	bind := func(field string, match func(col, candidate string) bool) {
		if _, ok := mapping[field]; ok {
			return
		}
		for idx, col := range lower {
			if claimed[idx] {
				continue
			}
			for _, candidate := range syn[field] {
				if match(col, candidate) {
					mapping[field] = columns[idx]
					claimed[idx] = true
					return
				}
			}
		}
	}

	exact := func(col, candidate string) bool { return col == candidate }
	contains := func(col, candidate string) bool { return strings.Contains(col, candidate) }

	for _, field := range resolveOrder {
		bind(field, exact)
	}
	for _, field := range resolveOrder {
		if exactOnly[field] {
			continue
		}
		bind(field, contains)
	}
	return mapping
}
