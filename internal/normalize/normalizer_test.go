package normalize_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/normalize"
)

func TestResolveColumns_ExactAndSubstring(t *testing.T) {
	header := []string{"Txn Date", "Narration", "Withdrawals", "Deposits", "Closing Balance"}
	got := normalize.ResolveColumns(header, normalize.DefaultSynonyms())

	want := map[string]string{
		normalize.FieldDate:        "Txn Date",
		normalize.FieldDescription: "Narration",
		normalize.FieldDebit:       "Withdrawals",
		normalize.FieldCredit:      "Deposits",
		normalize.FieldBalance:     "Closing Balance",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d bindings, got %d: %v", len(want), len(got), got)
	}
	for field, col := range want {
		if got[field] != col {
			t.Errorf("field %s: expected %q, got %q", field, col, got[field])
		}
	}
}

func TestResolveColumns_DescriptionNotClaimedByCredit(t *testing.T) {
	header := []string{"Date", "Description", "Credit", "Debit"}
	got := normalize.ResolveColumns(header, normalize.DefaultSynonyms())

	if got[normalize.FieldCredit] != "Credit" {
		t.Errorf("expected credit bound to 'Credit', got %q", got[normalize.FieldCredit])
	}
	if got[normalize.FieldDescription] != "Description" {
		t.Errorf("expected description bound to 'Description', got %q", got[normalize.FieldDescription])
	}
	if _, ok := got[normalize.FieldAmount]; ok {
		t.Errorf("expected no amount binding, got %q", got[normalize.FieldAmount])
	}
}

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"rupee with separators", "₹1,500.50", 1500.5},
		{"dollar with space", "$ 300", 300},
		{"accounting negative", "(2,000)", -2000},
		{"plain negative", "-45.25", -45.25},
		{"non numeric", "abc", 0},
		{"empty", "", 0},
		{"nil", nil, 0},
		{"float passthrough", 42.5, 42.5},
		{"int passthrough", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize.CleanAmount(tt.in); got != tt.want {
				t.Errorf("CleanAmount(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	jan5 := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	xmas := time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in   string
		want *time.Time
	}{
		{"2024-01-05", &jan5},
		{"05/01/2024", &jan5},
		{"5-1-24", &jan5},
		{"05 Jan 2024", &jan5},
		{"2024-01-05 13:45:00", &jan5},
		{"12/25/2024", &xmas},
		{"01/31/2024", &jan31},
		{"12-25-24", &xmas},
		{"not a date", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := normalize.ParseDate(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("ParseDate(%q) = %v, want nil", tt.in, got)
		case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClassifyDescription(t *testing.T) {
	tests := []struct {
		in   string
		want domain.TransactionType
	}{
		{"Salary for January", domain.TypeCredit},
		{"NEFT TRANSFER IN from client", domain.TypeCredit},
		{"ATM cash", domain.TypeDebit},
		{"Electricity bill payment", domain.TypeDebit},
		{"Creditable performance", domain.TypeUnknown},
		{"Lunch", domain.TypeUnknown},
		{"", domain.TypeUnknown},
	}
	for _, tt := range tests {
		if got := normalize.ClassifyDescription(tt.in); got != tt.want {
			t.Errorf("ClassifyDescription(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTable_CreditDebitColumns(t *testing.T) {
	n := normalize.New(nil)
	res := n.NormalizeTable(normalize.Table{
		Header: []string{"Date", "Description", "Amount", "Credit", "Debit"},
		Rows: [][]string{
			{"2024-01-01", "Salary", "999", "50,000", ""},
			{"2024-01-02", "ATM", "999", "", "2,000"},
			{"2024-01-03", "Reversal", "999", "", ""},
			{"2024-01-04", "Netted", "999", "100", "300"},
		},
	})

	want := []struct {
		amount float64
		typ    domain.TransactionType
	}{
		{50000, domain.TypeCredit},
		{-2000, domain.TypeDebit},
		{0, domain.TypeUnknown},
		{-200, domain.TypeDebit},
	}
	if len(res.Transactions) != len(want) {
		t.Fatalf("expected %d transactions, got %d", len(want), len(res.Transactions))
	}
	for i, w := range want {
		got := res.Transactions[i]
		if got.Amount != w.amount || got.Type != w.typ {
			t.Errorf("row %d: expected (%v, %s), got (%v, %s)", i, w.amount, w.typ, got.Amount, got.Type)
		}
	}
	if res.Transactions[0].Credit == nil || *res.Transactions[0].Credit != 50000 {
		t.Errorf("expected credit column to be kept on row 0")
	}
}

func TestNormalizeTable_AmountColumnSign(t *testing.T) {
	n := normalize.New(nil)
	res := n.NormalizeTable(normalize.Table{
		Header: []string{"Transaction Date", "Particulars", "Transaction Amount"},
		Rows: [][]string{
			{"01/02/2024", "Refund", "1,250.00"},
			{"02/02/2024", "Groceries", "(300)"},
			{"03/02/2024", "Salary credit", "0"},
			{"bad date", "Nothing", "n/a"},
		},
	})

	types := []domain.TransactionType{domain.TypeCredit, domain.TypeDebit, domain.TypeCredit, domain.TypeUnknown}
	for i, typ := range types {
		if res.Transactions[i].Type != typ {
			t.Errorf("row %d: expected %s, got %s", i, typ, res.Transactions[i].Type)
		}
	}
	if res.Transactions[1].Amount != -300 {
		t.Errorf("expected -300, got %v", res.Transactions[1].Amount)
	}
	if res.Transactions[3].Date != nil {
		t.Errorf("expected nil date for unparseable input, got %v", res.Transactions[3].Date)
	}
	if res.Transactions[3].RawDate != "bad date" {
		t.Errorf("expected raw date to be kept, got %q", res.Transactions[3].RawDate)
	}
	if res.Analysis.DateRange == nil || res.Analysis.DateRange.Start != "2024-02-01" || res.Analysis.DateRange.End != "2024-02-03" {
		t.Errorf("unexpected date range: %+v", res.Analysis.DateRange)
	}
	if res.Analysis.TotalRows != 4 {
		t.Errorf("expected 4 rows, got %d", res.Analysis.TotalRows)
	}
}

func TestNormalizeTable_DescriptionOnly(t *testing.T) {
	n := normalize.New(nil)
	res := n.NormalizeTable(normalize.Table{
		Header: []string{"Narration"},
		Rows:   [][]string{{"Salary received"}, {"ATM cash"}, {"Lunch"}},
	})

	want := []domain.TransactionType{domain.TypeCredit, domain.TypeDebit, domain.TypeUnknown}
	for i, typ := range want {
		got := res.Transactions[i]
		if got.Type != typ {
			t.Errorf("row %d: expected %s, got %s", i, typ, got.Type)
		}
		if got.Amount != 0 {
			t.Errorf("row %d: expected amount 0, got %v", i, got.Amount)
		}
	}
	if res.Analysis.TransactionTypes[domain.TypeCredit] != 1 || res.Analysis.TransactionTypes[domain.TypeUnknown] != 1 {
		t.Errorf("unexpected histogram: %v", res.Analysis.TransactionTypes)
	}
}

func TestNormalizeTable_NoUsableColumns(t *testing.T) {
	n := normalize.New(nil)
	res := n.NormalizeTable(normalize.Table{
		Header: []string{"foo", "bar"},
		Rows:   [][]string{{"1", "2"}},
	})

	got := res.Transactions[0]
	if got.Amount != 0 || got.Type != domain.TypeUnknown {
		t.Errorf("expected (0, unknown), got (%v, %s)", got.Amount, got.Type)
	}
	if got.Merchant != domain.DefaultMerchant || got.Category != domain.DefaultCategory || got.Currency != domain.DefaultCurrency {
		t.Errorf("expected defaults, got merchant=%q category=%q currency=%q", got.Merchant, got.Category, got.Currency)
	}
	if got.ID != "1" {
		t.Errorf("expected sequence id '1', got %q", got.ID)
	}
}

func TestNormalize_SignAgreesWithType(t *testing.T) {
	n := normalize.New(nil)
	res := n.NormalizeTable(normalize.Table{
		Header: []string{"date", "description", "credit", "debit"},
		Rows: [][]string{
			{"2024-01-01", "a", "10", "0"},
			{"2024-01-01", "b", "0", "10"},
			{"2024-01-01", "c", "10", "10"},
			{"2024-01-01", "d", "(5)", "0"},
			{"2024-01-01", "e", "5", "20"},
			{"2024-01-01", "f", "x", "y"},
		},
	})
	for _, txn := range res.Transactions {
		switch txn.Type {
		case domain.TypeCredit, domain.TypeDebit, domain.TypeUnknown:
		default:
			t.Fatalf("unexpected type %q", txn.Type)
		}
		if !txn.SignConsistent() {
			t.Errorf("transaction %s: amount %v disagrees with type %s", txn.ID, txn.Amount, txn.Type)
		}
	}
}

func TestNormalize_RoundTripIsStable(t *testing.T) {
	n := normalize.New(nil)
	first := n.NormalizeTable(normalize.Table{
		Header: []string{"date", "amount", "description"},
		Rows: [][]string{
			{"2024-03-01", "1200", "Consulting income"},
			{"2024-03-02", "-450.5", "Fuel"},
			{"", "0", "Adjustment"},
		},
	})

	rows := make([][]string, len(first.Transactions))
	for i, txn := range first.Transactions {
		rows[i] = []string{txn.DateText(), strconv.FormatFloat(txn.Amount, 'f', -1, 64), txn.Description}
	}
	second := n.NormalizeTable(normalize.Table{Header: []string{"date", "amount", "description"}, Rows: rows})

	for i := range first.Transactions {
		a, b := first.Transactions[i], second.Transactions[i]
		if a.Amount != b.Amount || a.Type != b.Type || a.Description != b.Description || a.DateText() != b.DateText() {
			t.Errorf("row %d changed on reprocessing: %+v -> %+v", i, a, b)
		}
		if (a.Date == nil) != (b.Date == nil) {
			t.Errorf("row %d date presence changed", i)
		}
	}
}

func TestNormalizeRecords(t *testing.T) {
	n := normalize.New(nil)
	res := n.NormalizeRecords([]normalize.Record{
		{"date": "2024-02-01", "amount": -250.0, "description": "Grocery payment", "merchant": "BigBasket", "category": "groceries"},
		{"date": "2024-02-03", "amount": 5000, "description": "Dividend", "category": "dividends", "currency": "usd"},
	})

	if len(res.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(res.Transactions))
	}
	first := res.Transactions[0]
	if first.Merchant != "BigBasket" || first.Category != "groceries" || first.Type != domain.TypeDebit {
		t.Errorf("unexpected first transaction: %+v", first)
	}
	second := res.Transactions[1]
	if second.Merchant != domain.DefaultMerchant {
		t.Errorf("expected default merchant, got %q", second.Merchant)
	}
	if second.Currency != "USD" || second.Amount != 5000 || second.Type != domain.TypeCredit {
		t.Errorf("unexpected second transaction: %+v", second)
	}
}

func TestNormalizeRecords_EmptyStaysEmpty(t *testing.T) {
	res := normalize.New(nil).NormalizeRecords(nil)
	if res.Transactions == nil || len(res.Transactions) != 0 {
		t.Fatalf("expected empty non-nil transactions, got %v", res.Transactions)
	}
	if res.Analysis.Fallback || res.Analysis.TotalRows != 0 {
		t.Errorf("expected no fallback for an empty record list, got %+v", res.Analysis)
	}
}
