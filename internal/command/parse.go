// Package command turns free-text filter requests into predicates and applies
// them to normalized transaction tables.
package command

import (
	"regexp"
	"strings"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/money"
)

const amountPattern = `\s*₹?\s*(\d+(?:,\d+)*(?:\.\d+)?)\b`

var (
	creditRe   = regexp.MustCompile(`\b(?:credit|credits|credited|deposit|deposits|deposited|income|received)\b`)
	debitRe    = regexp.MustCompile(`\b(?:debit|debits|debited|withdrawal|withdrawals|expense|expenses|spent|payment|payments)\b`)
	aboveRe    = regexp.MustCompile(`(?:\b(?:above|over|greater than|more than)|>)` + amountPattern)
	belowRe    = regexp.MustCompile(`(?:\b(?:below|under|less than)|<)` + amountPattern)
	equalRe    = regexp.MustCompile(`(?:\b(?:equal to|exactly)|=)` + amountPattern)
	bothRe     = regexp.MustCompile(`\b(?:both|all|everything|complete|full)\b`)
	separateRe = regexp.MustCompile(`\b(?:separate|separately|split|divide)\b`)
	dateRe     = regexp.MustCompile(`\b(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})\s*(?:to|and|-)\s*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})\b`)
)

var separateWords = []string{"both", "and", "separate", "split"}

// Parse derives a FilterPredicate from cmd. Each clause is matched
// independently; unmatched clauses stay unset.
func Parse(cmd string) domain.FilterPredicate {
	lower := strings.ToLower(cmd)
	pred := domain.FilterPredicate{Description: cmd}

	hasCredit := creditRe.MatchString(lower)
	hasDebit := debitRe.MatchString(lower)
	switch {
	case hasCredit && hasDebit:
		pred.TransactionType = ptr(domain.FilterBoth)
	case hasCredit:
		pred.TransactionType = ptr(domain.FilterCredit)
	case hasDebit:
		pred.TransactionType = ptr(domain.FilterDebit)
	case bothRe.MatchString(lower):
		pred.TransactionType = ptr(domain.FilterBoth)
	}

	for _, c := range []struct {
		kind string
		re   *regexp.Regexp
	}{
		{domain.AmountAbove, aboveRe},
		{domain.AmountBelow, belowRe},
		{domain.AmountEqual, equalRe},
	} {
		m := c.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if v, ok := money.Parse(strings.ReplaceAll(m[1], ",", "")); ok {
			pred.AmountFilter = &domain.AmountFilter{Kind: c.kind, Value: v}
			break
		}
	}

	pred.SeparateOutput = separateRe.MatchString(lower) || mentionsBothSides(lower)

	if m := dateRe.FindStringSubmatch(lower); m != nil {
		pred.DateRange = &domain.DateRange{Start: m[1], End: m[2]}
	}
	return pred
}

// mentionsBothSides is a plain substring test, so "credits and debits" counts.
func mentionsBothSides(lower string) bool {
	if !strings.Contains(lower, "credit") || !strings.Contains(lower, "debit") {
		return false
	}
	for _, w := range separateWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func ptr(s string) *string { return &s }
