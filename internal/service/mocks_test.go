package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/anomaly"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/tax"
)

// --- Mocks ---

type mockStore struct {
	mu       sync.Mutex
	reports  []domain.AnomalyReport
	records  []domain.TaxRecord
	saveErr  error
	listErr  error
	listHits int
}

func (m *mockStore) SaveAnomalyReport(_ context.Context, r *domain.AnomalyReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.reports = append(m.reports, *r)
	return nil
}

func (m *mockStore) ListAnomalyReports(_ context.Context, _ string, limit int) ([]domain.AnomalyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listHits++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []domain.AnomalyReport{}
	for i := len(m.reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.reports[i])
	}
	return out, nil
}

func (m *mockStore) SaveTaxRecord(_ context.Context, r *domain.TaxRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append(m.records, *r)
	return nil
}

func (m *mockStore) ListTaxRecords(_ context.Context, _, fiscalYear string, limit int) ([]domain.TaxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []domain.TaxRecord{}
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if fiscalYear == "" || m.records[i].FiscalYear == fiscalYear {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *mockStore) Ping(context.Context) error { return nil }

type mockModel struct {
	scores []float64
	err    error
}

func (m *mockModel) Decision(_ context.Context, f []anomaly.Features) ([]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.scores, nil
}

type mockPredictor struct {
	prediction tax.Prediction
	err        error
}

func (m *mockPredictor) Predict(context.Context, tax.PredictorFeatures) (tax.Prediction, error) {
	return m.prediction, m.err
}

var errBackend = errors.New("backend unavailable")
