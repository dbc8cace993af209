// Package memstore is the default ReportStore: process-local and lost on restart.
package memstore

import (
	"context"
	"sync"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
)

// Store keeps reports in insertion order per user.
type Store struct {
	mu      sync.RWMutex
	reports map[string][]domain.AnomalyReport
	records map[string][]domain.TaxRecord
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		reports: make(map[string][]domain.AnomalyReport),
		records: make(map[string][]domain.TaxRecord),
	}
}

func (s *Store) SaveAnomalyReport(_ context.Context, r *domain.AnomalyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.UserID] = append(s.reports[r.UserID], *r)
	return nil
}

func (s *Store) ListAnomalyReports(_ context.Context, userID string, limit int) ([]domain.AnomalyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.reports[userID]
	out := []domain.AnomalyReport{}
	for i := len(src) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, src[i])
	}
	return out, nil
}

func (s *Store) SaveTaxRecord(_ context.Context, r *domain.TaxRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.UserID] = append(s.records[r.UserID], *r)
	return nil
}

func (s *Store) ListTaxRecords(_ context.Context, userID, fiscalYear string, limit int) ([]domain.TaxRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.records[userID]
	out := []domain.TaxRecord{}
	for i := len(src) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if fiscalYear != "" && src[i].FiscalYear != fiscalYear {
			continue
		}
		out = append(out, src[i])
	}
	return out, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
