package command

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
)

var printer = message.NewPrinter(language.English)

// Confirmation describes what a predicate matched and asks to proceed.
func Confirmation(pred domain.FilterPredicate, count int) string {
	var parts []string
	switch {
	case pred.TransactionType == nil:
		parts = append(parts, "transactions")
	case *pred.TransactionType == domain.FilterCredit:
		parts = append(parts, "credit transactions")
	case *pred.TransactionType == domain.FilterDebit:
		parts = append(parts, "debit transactions")
	default:
		parts = append(parts, "all transactions")
	}

	if f := pred.AmountFilter; f != nil {
		label := f.Kind
		if f.Kind == domain.AmountEqual {
			label = "equal to"
		}
		parts = append(parts, printer.Sprintf("%s ₹%.0f", label, f.Value))
	}
	if r := pred.DateRange; r != nil {
		parts = append(parts, "from "+r.Start+" to "+r.End)
	}

	desc := strings.Join(parts, " ")
	if pred.SeparateOutput {
		return printer.Sprintf("I found %d %s. I'll create separate files for credits and debits. Proceed?", count, desc)
	}
	return printer.Sprintf("I found %d %s. Generate CSV file?", count, desc)
}

// PreviewRow is the compact view of a transaction shown before export.
type PreviewRow struct {
	Date            *string  `json:"date"`
	Description     string   `json:"description"`
	Amount          float64  `json:"amount"`
	TransactionType string   `json:"transaction_type"`
	Balance         *float64 `json:"balance"`
}

// Preview returns up to limit rows.
func Preview(txns []domain.Transaction, limit int) []PreviewRow {
	if limit < 0 || limit > len(txns) {
		limit = len(txns)
	}
	rows := make([]PreviewRow, 0, limit)
	for _, t := range txns[:limit] {
		r := PreviewRow{
			Description:     t.Description,
			Amount:          t.Amount,
			TransactionType: string(t.Type),
			Balance:         t.Balance,
		}
		if d := displayDate(t); d != "" {
			r.Date = &d
		}
		rows = append(rows, r)
	}
	return rows
}
