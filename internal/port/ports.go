// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/anomaly"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/tax"
)

// AnomalyModel is the external decision function behind the model scorer.
type AnomalyModel = anomaly.Model

// TaxPredictor is the external numeric tax model.
type TaxPredictor = tax.Predictor

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// ReportStore persists anomaly reports and tax records. Both are append-only:
// a new scan or prediction always creates a new row.
// Implemented by the in-memory, SQLite and Supabase adapters.
type ReportStore interface {
	SaveAnomalyReport(ctx context.Context, r *domain.AnomalyReport) error
	// ListAnomalyReports returns the user's reports, newest first.
	ListAnomalyReports(ctx context.Context, userID string, limit int) ([]domain.AnomalyReport, error)

	SaveTaxRecord(ctx context.Context, r *domain.TaxRecord) error
	// ListTaxRecords returns the user's records, newest first. An empty
	// fiscalYear matches every year.
	ListTaxRecords(ctx context.Context, userID, fiscalYear string, limit int) ([]domain.TaxRecord, error)

	Ping(ctx context.Context) error
}

// SessionStore holds CSV agent sessions keyed by a server-issued id.
type SessionStore interface {
	Put(s *domain.AgentSession)
	Get(id string) (*domain.AgentSession, bool)
	Delete(id string)
	Len() int
}
