package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/observability"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/session"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/normalize"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/service"

	"go.uber.org/zap"
)

const statement = "Date,Description,Credit,Debit,Balance\n" +
	"01/01/2024,Salary Credit,50000,,50000\n" +
	"02/01/2024,ATM Withdrawal,,2000,48000\n" +
	"03/01/2024,Rent,,15000,33000\n" +
	"04/01/2024,Refund,1500,,34500\n"

func newAgent(t *testing.T) (*service.AgentService, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics()
	return service.NewAgentService(
		normalize.New(nil),
		session.NewStore(time.Minute, zap.NewNop()),
		metrics,
		zap.NewNop(),
	), metrics
}

func upload(t *testing.T, svc *service.AgentService) string {
	t.Helper()
	res, err := svc.Upload(context.Background(), "statement.csv", []byte(statement))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return res.SessionID
}

func TestUpload(t *testing.T) {
	svc, _ := newAgent(t)

	res, err := svc.Upload(context.Background(), "statement.csv", []byte(statement))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.SessionID == "" {
		t.Fatal("expected session id")
	}
	if res.Analysis.TotalRows != 4 || res.Analysis.Fallback {
		t.Errorf("unexpected analysis: %+v", res.Analysis)
	}
	if len(res.Preview) != service.UploadPreviewRows {
		t.Errorf("expected %d preview rows, got %d", service.UploadPreviewRows, len(res.Preview))
	}
	if !strings.Contains(res.Message, "Found 4 transactions") || !strings.Contains(res.Message, "2 credits, 2 debits") {
		t.Errorf("unexpected summary:\n%s", res.Message)
	}
}

func TestUpload_RejectsExtension(t *testing.T) {
	svc, _ := newAgent(t)

	_, err := svc.Upload(context.Background(), "statement.pdf", []byte(statement))
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpload_UndecodableUsesSampleData(t *testing.T) {
	svc, metrics := newAgent(t)

	res, err := svc.Upload(context.Background(), "book.xlsx", []byte("not a workbook"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !res.Analysis.Fallback {
		t.Error("expected fallback analysis")
	}
	if metrics.GetAuditSnapshot().NormalizerFallbacks != 1 {
		t.Error("expected normalizer fallback counted")
	}
}

func TestCommand_FiltersAndStores(t *testing.T) {
	svc, _ := newAgent(t)
	id := upload(t, svc)

	res, err := svc.Command(context.Background(), id, "show debits above 2000")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Count != 1 || res.TypeBreakdown["debit"] != 1 {
		t.Errorf("expected the rent debit only, got %+v", res)
	}
	if !strings.HasPrefix(res.Message, "I found 1 debit transactions above ₹2,000") {
		t.Errorf("unexpected message: %q", res.Message)
	}
	if !strings.Contains(res.Message, "Transaction breakdown: debit: 1") {
		t.Errorf("expected breakdown in message: %q", res.Message)
	}
	if len(res.Files) != 0 {
		t.Error("expected no files without separate output")
	}

	files, err := svc.GenerateFiles(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(files.Files) != 1 || files.Files[0].Filename != "filtered_debit_above_2000.csv" {
		t.Fatalf("unexpected files: %+v", files.Files)
	}

	f, err := svc.File(context.Background(), id, "filtered_debit_above_2000.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(f.Content), "Rent") {
		t.Errorf("expected rent row in export:\n%s", f.Content)
	}
}

func TestCommand_SeparateAutoExports(t *testing.T) {
	svc, _ := newAgent(t)
	id := upload(t, svc)

	res, err := svc.Command(context.Background(), id, "give credits and debits separately")
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 4 {
		t.Errorf("expected all rows, got %d", res.Count)
	}
	if len(res.Files) != 2 || res.Files[0].Filename != "credits.csv" || res.Files[1].Filename != "debits.csv" {
		t.Errorf("expected credits.csv and debits.csv, got %+v", res.Files)
	}
	if !strings.Contains(res.Message, "Files generated") {
		t.Errorf("expected files note: %q", res.Message)
	}
}

func TestCommand_NoMatches(t *testing.T) {
	svc, _ := newAgent(t)
	id := upload(t, svc)

	_, err := svc.Command(context.Background(), id, "show credits above 1000000")
	var nm *domain.ErrNoMatches
	if !errors.As(err, &nm) {
		t.Fatalf("expected no-matches error, got %v", err)
	}
}

func TestCommand_UnknownSession(t *testing.T) {
	svc, _ := newAgent(t)

	_, err := svc.Command(context.Background(), "missing", "show credits")
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGenerateFiles_WithoutCommandSplitsUpload(t *testing.T) {
	svc, _ := newAgent(t)
	id := upload(t, svc)

	res, err := svc.GenerateFiles(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 2 || res.Files[0].Rows != 2 || res.Files[1].Rows != 2 {
		t.Errorf("unexpected files: %+v", res.Files)
	}
}

func TestInfoAndClose(t *testing.T) {
	svc, metrics := newAgent(t)
	id := upload(t, svc)

	info, err := svc.Info(id)
	if err != nil {
		t.Fatal(err)
	}
	if info.Filename != "statement.csv" || info.TotalRows != 4 || info.HasFilteredData {
		t.Errorf("unexpected info: %+v", info)
	}

	if err := svc.Close(id); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.File(context.Background(), id, "credits.csv"); err == nil {
		t.Error("expected closed session to be gone")
	}
	if err := svc.Close(id); err == nil {
		t.Error("expected second close to fail")
	}
	if rate := metrics.GetAuditSnapshot().SessionHitRate; rate <= 0 || rate >= 1 {
		t.Errorf("expected mixed session hit rate, got %v", rate)
	}
}
