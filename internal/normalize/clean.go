package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/money"
)

var amountStripper = strings.NewReplacer(
	"₹", "",
	"$", "",
	"€", "",
	"£", "",
	",", "",
	" ", "",
	"\u00a0", "",
)

// CleanAmount coerces a raw cell into a number.
// Currency symbols and thousands separators are stripped, "(1,500)" reads as
// -1500 and anything non-numeric becomes 0.
func CleanAmount(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case string:
		return cleanAmountText(v)
	default:
		return cleanAmountText(fmt.Sprint(v))
	}
}

func cleanAmountText(s string) float64 {
	s = amountStripper.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		s = "-" + strings.NewReplacer("(", "", ")", "").Replace(s)
		s = strings.Replace(s, "--", "-", 1)
	}
	v, ok := money.Parse(s)
	if !ok {
		return 0
	}
	return v
}

// dateLayouts are tried in order. Numeric day/month forms are read day-first,
// matching how the command filter reads "01/02/24". Month-first forms only
// match dates that cannot be read day-first, like "12/25/2024".
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2 Jan 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"2 January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"1/2/2006",
	"1-2-2006",
	"1/2/06",
	"1-2-06",
}

// ParseDate parses a date cell. Unparseable or empty input yields nil.
func ParseDate(raw any) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		d := truncateDay(v)
		return &d
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		d := truncateDay(*v)
		return &d
	}

	s := strings.TrimSpace(fmt.Sprint(raw))
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := truncateDay(t)
			return &d
		}
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// cellText renders a raw cell as trimmed text.
func cellText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
