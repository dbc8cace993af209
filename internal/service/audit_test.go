package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/anomaly"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/cache"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/observability"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/service"

	"go.uber.org/zap"
)

func scanBatch() []domain.Transaction {
	return []domain.Transaction{
		{ID: "1", Amount: -100000, Merchant: "ATM", Category: "cash", Type: domain.TypeDebit},
		{ID: "2", Amount: -500, Merchant: "Cafe", Category: "food", Type: domain.TypeDebit},
	}
}

func newAuditService(store *mockStore, model anomaly.Model, metrics *observability.Metrics) *service.AuditService {
	return service.NewAuditService(
		anomaly.NewDetector(model, "v1"),
		store,
		cache.New[[]domain.AnomalyReport](5*time.Minute),
		metrics,
		zap.NewNop(),
	)
}

func TestScan_PersistsReport(t *testing.T) {
	store := &mockStore{}
	metrics := observability.NewMetrics()
	svc := newAuditService(store, nil, metrics)

	report, err := svc.Scan(context.Background(), "user-1", []string{"doc-1"}, scanBatch())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.ID == "" || report.UserID != "user-1" {
		t.Errorf("unexpected identity: %+v", report)
	}
	if report.Method != domain.MethodRuleBased {
		t.Errorf("expected rule_based, got %s", report.Method)
	}
	if report.Summary.TotalTransactions != 2 || report.Summary.AnomalousTransactions != 1 {
		t.Errorf("unexpected summary: %+v", report.Summary)
	}
	if !report.Details[0].Flagged || report.Details[1].Flagged {
		t.Errorf("expected only the cash withdrawal flagged: %+v", report.Details)
	}
	if len(store.reports) != 1 || store.reports[0].ID != report.ID {
		t.Errorf("expected report persisted, got %+v", store.reports)
	}

	snap := metrics.GetAuditSnapshot()
	if snap.ScansTotal != 1 || snap.TransactionsScanned != 2 || snap.FlaggedTotal != 1 {
		t.Errorf("unexpected metrics: %+v", snap)
	}
}

func TestScan_StoreFailureStillReturnsReport(t *testing.T) {
	store := &mockStore{saveErr: errBackend}
	metrics := observability.NewMetrics()
	svc := newAuditService(store, nil, metrics)

	report, err := svc.Scan(context.Background(), "user-1", nil, scanBatch())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report == nil || len(report.Details) != 2 {
		t.Fatalf("expected full report, got %+v", report)
	}
	if report.DocumentIDs == nil {
		t.Error("expected empty document id list, got nil")
	}
	if got := metrics.GetAuditSnapshot().StoreErrors; got != 1 {
		t.Errorf("expected 1 store error, got %d", got)
	}
}

func TestScan_ModelFailureFallsBackToRules(t *testing.T) {
	metrics := observability.NewMetrics()
	svc := newAuditService(&mockStore{}, &mockModel{err: errBackend}, metrics)

	report, err := svc.Scan(context.Background(), "user-1", nil, scanBatch())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.Method != domain.MethodRuleBased {
		t.Errorf("expected rule_based after fallback, got %s", report.Method)
	}
	if got := metrics.GetAuditSnapshot().ModelFallbacks; got != 1 {
		t.Errorf("expected 1 model fallback, got %d", got)
	}
}

func TestScan_CancelledContext(t *testing.T) {
	svc := newAuditService(&mockStore{}, nil, observability.NewMetrics())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Scan(ctx, "user-1", nil, scanBatch()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestHistory_CachedAndInvalidatedOnScan(t *testing.T) {
	store := &mockStore{}
	svc := newAuditService(store, nil, observability.NewMetrics())
	ctx := context.Background()

	if _, err := svc.Scan(ctx, "user-1", nil, scanBatch()); err != nil {
		t.Fatal(err)
	}

	first, err := svc.History(ctx, "user-1", 0)
	if err != nil || len(first) != 1 {
		t.Fatalf("expected 1 report, got %d (%v)", len(first), err)
	}
	if _, err := svc.History(ctx, "user-1", 0); err != nil {
		t.Fatal(err)
	}
	if store.listHits != 1 {
		t.Errorf("expected second read served from cache, store hit %d times", store.listHits)
	}

	if _, err := svc.Scan(ctx, "user-1", nil, scanBatch()); err != nil {
		t.Fatal(err)
	}
	after, _ := svc.History(ctx, "user-1", 0)
	if len(after) != 2 {
		t.Errorf("expected cache invalidated after scan, got %d reports", len(after))
	}
}

func TestHistory_StoreError(t *testing.T) {
	svc := newAuditService(&mockStore{listErr: errBackend}, nil, observability.NewMetrics())

	if _, err := svc.History(context.Background(), "user-1", 5); err == nil {
		t.Fatal("expected error")
	}
}

func TestModelInfo(t *testing.T) {
	svc := newAuditService(&mockStore{}, &mockModel{}, observability.NewMetrics())

	info := svc.ModelInfo()
	if !info.ModelLoaded || info.Method != domain.MethodModel || info.ModelVersion != "v1" {
		t.Errorf("unexpected model info: %+v", info)
	}
}
