package supabase_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/resilience"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/supabase"
	"go.uber.org/zap"
)

func newClient(url string) *supabase.Client {
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: time.Millisecond}
	return supabase.NewClient(http.DefaultClient, url, "anon", "service", resilience.NewCircuitBreaker("test", zap.NewNop()), cfg, zap.NewNop())
}

func TestSaveAnomalyReport(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/anomaly_reports" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("apikey") != "anon" || r.Header.Get("Authorization") != "Bearer service" {
			t.Error("missing auth headers")
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	report := &domain.AnomalyReport{
		ID:      "r1",
		UserID:  "u1",
		Method:  domain.MethodRuleBased,
		Summary: domain.AnomalySummary{TotalTransactions: 2},
	}
	if err := newClient(srv.URL).SaveAnomalyReport(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["id"] != "r1" || got["method"] != domain.MethodRuleBased {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestListTaxRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("user_id") != "eq.u1" || q.Get("fiscal_year") != "eq.2024" || q.Get("order") != "created_at.desc" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"id":"t2","user_id":"u1","fiscal_year":"2024","predicted_tax":62500}]`))
	}))
	defer srv.Close()

	records, err := newClient(srv.URL).ListTaxRecords(context.Background(), "u1", "2024", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].PredictedTax != 62500 {
		t.Errorf("unexpected records %+v", records)
	}
}

func TestListAnomalyReports_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	reports, err := newClient(srv.URL).ListAnomalyReports(context.Background(), "u1", 5)
	if err != nil || reports == nil || len(reports) != 0 {
		t.Errorf("expected empty non-nil list, got %v, %v", reports, err)
	}
}

func TestSaveTaxRecord_ClientErrorIsExternal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"violates check"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newClient(srv.URL).SaveTaxRecord(context.Background(), &domain.TaxRecord{ID: "t1"})

	var ext *domain.ErrExternalService
	if !errors.As(err, &ext) || !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected external error with status, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected no retry on 400, got %d calls", calls)
	}
}
