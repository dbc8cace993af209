package command

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
)

// Export file names for split output.
const (
	CreditsFile = "credits.csv"
	DebitsFile  = "debits.csv"
)

// ExportColumns is the header of every exported file.
var ExportColumns = []string{"date", "description", "amount", "transaction_type", "balance"}

// Export renders txns as CSV. Split output always yields both files, header
// only when a side is empty.
func Export(txns []domain.Transaction, pred domain.FilterPredicate) ([]domain.ExportFile, error) {
	if !pred.SeparateOutput {
		f, err := render(Filename(pred), txns)
		if err != nil {
			return nil, err
		}
		return []domain.ExportFile{f}, nil
	}

	var credits, debits []domain.Transaction
	for _, t := range txns {
		switch t.Type {
		case domain.TypeCredit:
			credits = append(credits, t)
		case domain.TypeDebit:
			debits = append(debits, t)
		}
	}
	cf, err := render(CreditsFile, credits)
	if err != nil {
		return nil, err
	}
	df, err := render(DebitsFile, debits)
	if err != nil {
		return nil, err
	}
	return []domain.ExportFile{cf, df}, nil
}

// Filename names a single-file export after the predicate, e.g.
// filtered_debit_above_2000.csv.
func Filename(pred domain.FilterPredicate) string {
	parts := []string{"filtered"}
	if pred.TransactionType != nil && *pred.TransactionType != domain.FilterBoth {
		parts = append(parts, *pred.TransactionType)
	}
	if pred.AmountFilter != nil {
		parts = append(parts, fmt.Sprintf("%s_%d", pred.AmountFilter.Kind, int64(pred.AmountFilter.Value)))
	}
	return strings.Join(parts, "_") + ".csv"
}

func render(name string, txns []domain.Transaction) (domain.ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ExportColumns); err != nil {
		return domain.ExportFile{}, fmt.Errorf("write %s header: %w", name, err)
	}
	for _, t := range txns {
		if err := w.Write(row(t)); err != nil {
			return domain.ExportFile{}, fmt.Errorf("write %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return domain.ExportFile{}, fmt.Errorf("flush %s: %w", name, err)
	}
	return domain.ExportFile{
		Filename: name,
		Size:     buf.Len(),
		Rows:     len(txns),
		Content:  buf.Bytes(),
	}, nil
}

func row(t domain.Transaction) []string {
	balance := ""
	if t.Balance != nil {
		balance = formatAmount(*t.Balance)
	}
	return []string{displayDate(t), t.Description, formatAmount(t.Amount), string(t.Type), balance}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// displayDate prefers the parsed date over the raw text.
func displayDate(t domain.Transaction) string {
	if t.Date != nil {
		return t.Date.Format("2006-01-02")
	}
	return t.RawDate
}
