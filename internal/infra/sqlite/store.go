// Package sqlite is a single-file ReportStore for local and self-hosted runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("sqlite")

// createdAtLayout is fixed width so created_at sorts correctly as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS anomaly_reports (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	method TEXT NOT NULL,
	created_at TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_anomaly_reports_user ON anomaly_reports(user_id, created_at);

CREATE TABLE IF NOT EXISTS tax_records (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	fiscal_year TEXT NOT NULL,
	created_at TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tax_records_user ON tax_records(user_id, fiscal_year, created_at);
`

// Store persists reports as JSON payloads keyed by id, with the filter
// columns broken out.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent scans.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	logger.Info("sqlite store ready", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveAnomalyReport inserts r. A duplicate id is an error.
func (s *Store) SaveAnomalyReport(ctx context.Context, r *domain.AnomalyReport) error {
	ctx, span := tracer.Start(ctx, "SQLite.SaveAnomalyReport")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", r.UserID))

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode anomaly report: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO anomaly_reports (id, user_id, method, created_at, payload) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Method, r.CreatedAt.UTC().Format(createdAtLayout), string(payload),
	)
	if err != nil {
		return &domain.ErrExternalService{Service: "sqlite", Err: err}
	}
	return nil
}

// ListAnomalyReports returns the user's reports, newest first.
func (s *Store) ListAnomalyReports(ctx context.Context, userID string, limit int) ([]domain.AnomalyReport, error) {
	ctx, span := tracer.Start(ctx, "SQLite.ListAnomalyReports")
	defer span.End()
	limit = sqlLimit(limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM anomaly_reports WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "sqlite", Err: err}
	}
	defer rows.Close()

	out := []domain.AnomalyReport{}
	for rows.Next() {
		var r domain.AnomalyReport
		if err := scanJSON(rows, &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveTaxRecord inserts r.
func (s *Store) SaveTaxRecord(ctx context.Context, r *domain.TaxRecord) error {
	ctx, span := tracer.Start(ctx, "SQLite.SaveTaxRecord")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", r.UserID), attribute.String("fiscal_year", r.FiscalYear))

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode tax record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tax_records (id, user_id, fiscal_year, created_at, payload) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.FiscalYear, r.CreatedAt.UTC().Format(createdAtLayout), string(payload),
	)
	if err != nil {
		return &domain.ErrExternalService{Service: "sqlite", Err: err}
	}
	return nil
}

// ListTaxRecords returns the user's records, newest first. An empty
// fiscalYear matches every year.
func (s *Store) ListTaxRecords(ctx context.Context, userID, fiscalYear string, limit int) ([]domain.TaxRecord, error) {
	ctx, span := tracer.Start(ctx, "SQLite.ListTaxRecords")
	defer span.End()
	limit = sqlLimit(limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM tax_records
		WHERE user_id = ? AND (? = '' OR fiscal_year = ?)
		ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		userID, fiscalYear, fiscalYear, limit,
	)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "sqlite", Err: err}
	}
	defer rows.Close()

	out := []domain.TaxRecord{}
	for rows.Next() {
		var r domain.TaxRecord
		if err := scanJSON(rows, &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanJSON(rows *sql.Rows, dst any) error {
	var payload string
	if err := rows.Scan(&payload); err != nil {
		return fmt.Errorf("scan payload: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// sqlLimit maps "no limit" (<= 0) to SQLite's LIMIT -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
