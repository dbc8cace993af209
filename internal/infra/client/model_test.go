package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/anomaly"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/client"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/resilience"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/tax"
	"go.uber.org/zap"
)

func newClient(url string) *client.ModelClient {
	cfg := resilience.Config{MaxRetries: 2, InitialBackoff: time.Millisecond}
	return client.NewModelClient(http.DefaultClient, url, resilience.NewCircuitBreaker("test", zap.NewNop()), cfg)
}

func TestDecision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/anomaly/decision" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Features [][]float64 `json:"features"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if len(req.Features) != 2 || len(req.Features[0]) != anomaly.FeatureCount {
			t.Errorf("unexpected features %v", req.Features)
		}
		json.NewEncoder(w).Encode(map[string]any{"scores": []float64{0.1, -0.2}})
	}))
	defer srv.Close()

	scores, err := newClient(srv.URL).Decision(context.Background(), []anomaly.Features{{1}, {2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 2 || scores[1] != -0.2 {
		t.Errorf("unexpected scores %v", scores)
	}
}

func TestPredict_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"predicted_tax": 64000.5, "confidence": 0.8})
	}))
	defer srv.Close()

	p, err := newClient(srv.URL).Predict(context.Background(), tax.PredictorFeatures{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Tax != 64000.5 || p.Confidence == nil || *p.Confidence != 0.8 {
		t.Errorf("unexpected prediction %+v", p)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestPredict_MissingConfidenceIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"predicted_tax": 1200})
	}))
	defer srv.Close()

	p, err := newClient(srv.URL).Predict(context.Background(), tax.PredictorFeatures{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Confidence != nil {
		t.Errorf("expected no confidence, got %v", *p.Confidence)
	}
}

func TestPredict_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad features", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Predict(context.Background(), tax.PredictorFeatures{})

	var ext *domain.ErrExternalService
	if !errors.As(err, &ext) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	if err := newClient(srv.URL).Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
