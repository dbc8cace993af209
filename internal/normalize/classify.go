package normalize

import (
	"regexp"
	"strings"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
)

var (
	creditWords = regexp.MustCompile(`\b(credit|deposit|received|income|salary|transfer in)\b`)
	debitWords  = regexp.MustCompile(`\b(debit|withdrawal|payment|expense|transfer out|atm)\b`)
)

// ClassifyDescription derives a type from narration text alone.
// Credit vocabulary wins when both match.
func ClassifyDescription(desc string) domain.TransactionType {
	d := strings.ToLower(desc)
	switch {
	case d == "":
		return domain.TypeUnknown
	case creditWords.MatchString(d):
		return domain.TypeCredit
	case debitWords.MatchString(d):
		return domain.TypeDebit
	default:
		return domain.TypeUnknown
	}
}

// typeFromSign classifies a signed amount.
func typeFromSign(amount float64) domain.TransactionType {
	switch {
	case amount > 0:
		return domain.TypeCredit
	case amount < 0:
		return domain.TypeDebit
	default:
		return domain.TypeUnknown
	}
}
