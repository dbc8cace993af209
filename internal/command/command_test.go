package command_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/command"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sample() []domain.Transaction {
	bal := 12000.5
	return []domain.Transaction{
		{ID: "1", Date: day(2024, 1, 1), Amount: 50000, Description: "Salary", Type: domain.TypeCredit, Balance: &bal},
		{ID: "2", Date: day(2024, 1, 5), Amount: -2500, Description: "Groceries", Type: domain.TypeDebit},
		{ID: "3", Date: day(2024, 1, 10), Amount: -1500, Description: "Fuel", Type: domain.TypeDebit},
		{ID: "4", Date: day(2024, 2, 1), Amount: 2000, Description: "Refund", Type: domain.TypeCredit},
		{ID: "5", RawDate: "sometime", Amount: -2000, Description: "Cash", Type: domain.TypeDebit},
	}
}

func ids(txns []domain.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParse_DebitsAbove(t *testing.T) {
	got := command.Parse("show debits above 2000")

	if got.TransactionType == nil || *got.TransactionType != domain.FilterDebit {
		t.Fatalf("expected debit, got %v", got.TransactionType)
	}
	if got.AmountFilter == nil || got.AmountFilter.Kind != domain.AmountAbove || got.AmountFilter.Value != 2000 {
		t.Errorf("expected above 2000, got %+v", got.AmountFilter)
	}
	if got.SeparateOutput {
		t.Error("expected separate_output false")
	}
	if got.DateRange != nil {
		t.Errorf("expected no date range, got %+v", got.DateRange)
	}
	if got.Description != "show debits above 2000" {
		t.Errorf("expected original command kept, got %q", got.Description)
	}
}

func TestParse_CreditsAndDebitsSeparately(t *testing.T) {
	got := command.Parse("give credits and debits separately")

	if got.TransactionType == nil || *got.TransactionType != domain.FilterBoth {
		t.Fatalf("expected both, got %v", got.TransactionType)
	}
	if !got.SeparateOutput {
		t.Error("expected separate_output true")
	}
	if got.AmountFilter != nil {
		t.Errorf("expected no amount filter, got %+v", got.AmountFilter)
	}
}

func TestParse_Clauses(t *testing.T) {
	tests := []struct {
		cmd      string
		typ      string
		kind     string
		value    float64
		separate bool
	}{
		{"Show only credit transactions", domain.FilterCredit, "", 0, false},
		{"list everything", domain.FilterBoth, "", 0, false},
		{"payments under ₹1,500.50", domain.FilterDebit, domain.AmountBelow, 1500.5, false},
		{"expenses exactly 999", domain.FilterDebit, domain.AmountEqual, 999, false},
		{"transactions > 5000", "", domain.AmountAbove, 5000, false},
		{"split the statement", "", "", 0, true},
		{"credit and debit", domain.FilterBoth, "", 0, true},
		{"over 100 but below 50", "", domain.AmountAbove, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			got := command.Parse(tt.cmd)
			gotType := ""
			if got.TransactionType != nil {
				gotType = *got.TransactionType
			}
			if gotType != tt.typ {
				t.Errorf("type: expected %q, got %q", tt.typ, gotType)
			}
			gotKind, gotValue := "", 0.0
			if got.AmountFilter != nil {
				gotKind, gotValue = got.AmountFilter.Kind, got.AmountFilter.Value
			}
			if gotKind != tt.kind || gotValue != tt.value {
				t.Errorf("amount: expected %s %v, got %s %v", tt.kind, tt.value, gotKind, gotValue)
			}
			if got.SeparateOutput != tt.separate {
				t.Errorf("separate: expected %v, got %v", tt.separate, got.SeparateOutput)
			}
		})
	}
}

func TestParse_DateRange(t *testing.T) {
	got := command.Parse("debits from 01/01/2024 to 15/01/2024")
	if got.DateRange == nil || got.DateRange.Start != "01/01/2024" || got.DateRange.End != "15/01/2024" {
		t.Fatalf("unexpected range %+v", got.DateRange)
	}
}

func TestApply(t *testing.T) {
	txns := sample()
	tests := []struct {
		cmd  string
		want []string
	}{
		{"show debits above 2000", []string{"2"}},
		{"show credits", []string{"1", "4"}},
		{"everything", []string{"1", "2", "3", "4", "5"}},
		{"amounts equal to 2000", []string{"4", "5"}},
		{"below 2000", []string{"3"}},
		{"debits 01/01/2024 to 10/01/2024", []string{"2", "3"}},
		{"all 1/2/2024 - 1/2/2024", []string{"4"}},
		{"all 99/99/2024 to 01/01/2025", []string{"1", "2", "3", "4", "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			got := ids(command.Apply(txns, command.Parse(tt.cmd)))
			if !equalIDs(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExport_SingleFile(t *testing.T) {
	pred := command.Parse("show debits above 2000")
	files, err := command.Export(command.Apply(sample(), pred), pred)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 || files[0].Filename != "filtered_debit_above_2000.csv" {
		t.Fatalf("unexpected files %+v", files)
	}
	records, err := csv.NewReader(bytes.NewReader(files[0].Content)).ReadAll()
	if err != nil {
		t.Fatalf("exported csv unreadable: %v", err)
	}
	want := [][]string{
		{"date", "description", "amount", "transaction_type", "balance"},
		{"2024-01-05", "Groceries", "-2500", "debit", ""},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Errorf("record %d col %d: expected %q, got %q", i, j, want[i][j], records[i][j])
			}
		}
	}
	if files[0].Rows != 1 || files[0].Size != len(files[0].Content) {
		t.Errorf("unexpected counters %+v", files[0])
	}
}

func TestExport_SeparateWritesHeaderOnlyWhenEmpty(t *testing.T) {
	pred := command.Parse("give credits and debits separately")
	onlyCredits := command.Apply(sample(), command.Parse("credits"))

	files, err := command.Export(onlyCredits, pred)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 || files[0].Filename != command.CreditsFile || files[1].Filename != command.DebitsFile {
		t.Fatalf("unexpected files %+v", files)
	}
	if files[0].Rows != 2 {
		t.Errorf("expected 2 credit rows, got %d", files[0].Rows)
	}
	if files[1].Rows != 0 || string(files[1].Content) != "date,description,amount,transaction_type,balance\n" {
		t.Errorf("expected header-only debits file, got %q", files[1].Content)
	}
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"everything":            "filtered.csv",
		"credits":               "filtered_credit.csv",
		"below 1500.75":         "filtered_below_1500.csv",
		"debits exactly 10,000": "filtered_debit_equal_10000.csv",
	}
	for cmd, want := range tests {
		if got := command.Filename(command.Parse(cmd)); got != want {
			t.Errorf("Filename(%q) = %q, want %q", cmd, got, want)
		}
	}
}

func TestConfirmation(t *testing.T) {
	tests := []struct {
		cmd   string
		count int
		want  string
	}{
		{"show debits above 2000", 1, "I found 1 debit transactions above ₹2,000. Generate CSV file?"},
		{"give credits and debits separately", 4, "I found 4 all transactions. I'll create separate files for credits and debits. Proceed?"},
		{"anything", 5, "I found 5 transactions. Generate CSV file?"},
		{"credits equal to 500 from 1/1/24 to 2/1/24", 0, "I found 0 credit transactions equal to ₹500 from 1/1/24 to 2/1/24. Generate CSV file?"},
	}
	for _, tt := range tests {
		if got := command.Confirmation(command.Parse(tt.cmd), tt.count); got != tt.want {
			t.Errorf("Confirmation(%q):\n got %q\nwant %q", tt.cmd, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	rows := command.Preview(sample(), 3)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Date == nil || *rows[0].Date != "2024-01-01" || rows[0].Balance == nil {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if all := command.Preview(sample(), 50); len(all) != 5 || *all[4].Date != "sometime" {
		t.Errorf("expected all rows with raw date fallback, got %+v", all)
	}
}
