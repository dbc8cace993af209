// Package normalize maps heterogeneous bank statement rows onto the canonical
// domain.Transaction record. It never fails: malformed cells coerce to
// defaults and undecodable uploads yield the fallback dataset, flagged in
// the returned Analysis.
package normalize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
)

// Table is a decoded sheet: one header row and string cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Record is one loosely-typed input row keyed by arbitrary column names.
type Record map[string]any

// Analysis summarises one normalization run.
type Analysis struct {
	TotalRows        int                            `json:"total_rows"`
	ColumnsFound     map[string]string              `json:"columns_found"`
	DateRange        *domain.DateRange              `json:"date_range"`
	TransactionTypes map[domain.TransactionType]int `json:"transaction_types"`
	Fallback         bool                           `json:"fallback"`
	FallbackReason   string                         `json:"fallback_reason,omitempty"`
}

// Result is the normalizer output.
type Result struct {
	Transactions []domain.Transaction `json:"transactions"`
	Analysis     Analysis             `json:"analysis"`
}

// Normalizer holds the synonym table. The zero value is not usable; use New.
type Normalizer struct {
	synonyms Synonyms
}

// New creates a normalizer. A nil table selects DefaultSynonyms.
func New(syn Synonyms) *Normalizer {
	if syn == nil {
		syn = DefaultSynonyms()
	}
	return &Normalizer{synonyms: syn}
}

// NormalizeTable canonicalises a decoded table.
func (n *Normalizer) NormalizeTable(t Table) Result {
	rows := make([][]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]any, len(r))
		for i, c := range r {
			row[i] = c
		}
		rows = append(rows, row)
	}
	return n.normalize(t.Header, rows)
}

// NormalizeRecords canonicalises a list of dictionaries. Keys are treated as
// columns in sorted order so that binding is deterministic. Records come from
// API callers, not uploads, so an empty list stays empty and never selects
// the fallback dataset.
func (n *Normalizer) NormalizeRecords(recs []Record) Result {
	seen := make(map[string]bool)
	var header []string
	for _, r := range recs {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	sort.Strings(header)

	rows := make([][]any, len(recs))
	for i, r := range recs {
		row := make([]any, len(header))
		for j, col := range header {
			row[j] = r[col]
		}
		rows[i] = row
	}
	return n.normalize(header, rows)
}

func (n *Normalizer) normalize(header []string, rows [][]any) Result {
	mapping := ResolveColumns(header, n.synonyms)

	index := make(map[string]int, len(mapping))
	for field, col := range mapping {
		for i, h := range header {
			if h == col {
				index[field] = i
				break
			}
		}
	}

	cell := func(row []any, field string) (any, bool) {
		i, ok := index[field]
		if !ok || i >= len(row) {
			return nil, ok
		}
		return row[i], true
	}

	_, hasCredit := index[FieldCredit]
	_, hasDebit := index[FieldDebit]
	_, hasAmount := index[FieldAmount]
	_, hasDesc := index[FieldDescription]

	txns := make([]domain.Transaction, 0, len(rows))
	for i, row := range rows {
		txn := domain.Transaction{
			ID:       strconv.Itoa(i + 1),
			Merchant: domain.DefaultMerchant,
			Category: domain.DefaultCategory,
			Currency: domain.DefaultCurrency,
			Type:     domain.TypeUnknown,
		}

		if v, _ := cell(row, FieldID); cellText(v) != "" {
			txn.ID = cellText(v)
		}
		if v, ok := cell(row, FieldDate); ok {
			txn.RawDate = cellText(v)
			txn.Date = ParseDate(v)
		}
		if v, ok := cell(row, FieldDescription); ok {
			txn.Description = cellText(v)
		}
		if v, _ := cell(row, FieldMerchant); cellText(v) != "" {
			txn.Merchant = cellText(v)
		}
		if v, _ := cell(row, FieldCategory); cellText(v) != "" {
			txn.Category = cellText(v)
		}
		if v, _ := cell(row, FieldCurrency); cellText(v) != "" {
			txn.Currency = strings.ToUpper(cellText(v))
		}
		if v, ok := cell(row, FieldBalance); ok && cellText(v) != "" {
			b := CleanAmount(v)
			txn.Balance = &b
		}

		switch {
		case hasCredit && hasDebit:
			cv, _ := cell(row, FieldCredit)
			dv, _ := cell(row, FieldDebit)
			credit, debit := CleanAmount(cv), CleanAmount(dv)
			txn.Credit, txn.Debit = &credit, &debit
			txn.Amount = credit - debit
			txn.Type = splitColumnType(credit, debit, txn.Amount)
		case hasAmount:
			v, _ := cell(row, FieldAmount)
			txn.Amount = CleanAmount(v)
			txn.Type = typeFromSign(txn.Amount)
		}

		// A zero amount carries no sign, so narration decides when it can.
		if txn.Type == domain.TypeUnknown && txn.Amount == 0 && hasDesc {
			txn.Type = ClassifyDescription(txn.Description)
		}

		txns = append(txns, txn)
	}

	return Result{
		Transactions: txns,
		Analysis: Analysis{
			TotalRows:        len(txns),
			ColumnsFound:     mapping,
			DateRange:        dateRange(txns),
			TransactionTypes: typeHistogram(txns),
		},
	}
}

// splitColumnType picks the type for credit/debit statements. A row with
// both columns filled follows the sign of credit-debit so that the sign
// invariant holds.
func splitColumnType(credit, debit, amount float64) domain.TransactionType {
	switch {
	case credit > 0 && debit > 0:
		return typeFromSign(amount)
	case credit > 0:
		return domain.TypeCredit
	case debit > 0:
		return domain.TypeDebit
	default:
		return domain.TypeUnknown
	}
}

func dateRange(txns []domain.Transaction) *domain.DateRange {
	var first, last string
	for _, t := range txns {
		if t.Date == nil {
			continue
		}
		d := t.Date.Format("2006-01-02")
		if first == "" || d < first {
			first = d
		}
		if last == "" || d > last {
			last = d
		}
	}
	if first == "" {
		return nil
	}
	return &domain.DateRange{Start: first, End: last}
}

func typeHistogram(txns []domain.Transaction) map[domain.TransactionType]int {
	h := make(map[domain.TransactionType]int)
	for _, t := range txns {
		h[t.Type]++
	}
	return h
}
