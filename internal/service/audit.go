package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/anomaly"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/observability"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// DefaultHistoryLimit is used when a history request does not name a limit.
const DefaultHistoryLimit = 10

// AuditService scans transaction batches for anomalies and keeps the reports.
type AuditService struct {
	detector *anomaly.Detector
	store    port.ReportStore
	history  port.Cache[[]domain.AnomalyReport]
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuditService creates the audit service with all dependencies injected.
func NewAuditService(
	detector *anomaly.Detector,
	store port.ReportStore,
	history port.Cache[[]domain.AnomalyReport],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *AuditService {
	return &AuditService{
		detector: detector,
		store:    store,
		history:  history,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Scan scores txns and persists a new report. A storage failure is logged
// and counted; the report is still returned.
func (s *AuditService) Scan(ctx context.Context, userID string, documentIDs []string, txns []domain.Transaction) (*domain.AnomalyReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "AuditService.Scan")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Int("transactions", len(txns)),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("audit_scan", time.Since(start))
	}()

	det := s.detector.Detect(ctx, txns)
	if det.FallbackErr != nil {
		s.logger.Warn("anomaly model failed, scored with rules",
			zap.String("user_id", userID),
			zap.Error(det.FallbackErr),
		)
		s.metrics.IncrFallback(observability.FallbackAnomalyModel)
	}

	if documentIDs == nil {
		documentIDs = []string{}
	}
	report := &domain.AnomalyReport{
		ID:           uuid.NewString(),
		UserID:       userID,
		DocumentIDs:  documentIDs,
		Summary:      det.Summary,
		Details:      det.Details,
		Method:       det.Method,
		ModelVersion: s.detector.Info().ModelVersion,
		CreatedAt:    s.now().UTC(),
	}
	s.metrics.RecordScan(det.Method, det.Summary)

	if err := s.store.SaveAnomalyReport(ctx, report); err != nil {
		s.logger.Error("failed to persist anomaly report",
			zap.String("user_id", userID),
			zap.String("report_id", report.ID),
			zap.Error(err),
		)
		s.metrics.IncrStoreError(observability.StoreOpSaveReport)
	}
	s.history.Delete(historyKey(userID))

	s.logger.Info("anomaly scan completed",
		zap.String("user_id", userID),
		zap.String("report_id", report.ID),
		zap.String("method", report.Method),
		zap.Int("total", report.Summary.TotalTransactions),
		zap.Int("flagged", report.Summary.AnomalousTransactions),
	)
	return report, nil
}

// History returns the user's reports, newest first. limit <= 0 selects
// DefaultHistoryLimit. Only the default page is cached.
func (s *AuditService) History(ctx context.Context, userID string, limit int) ([]domain.AnomalyReport, error) {
	ctx, span := tracer.Start(ctx, "AuditService.History")
	defer span.End()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	cacheable := limit == DefaultHistoryLimit
	if cacheable {
		if cached, ok := s.history.Get(historyKey(userID)); ok {
			s.metrics.IncrCacheHit("audit_history")
			return cached, nil
		}
		s.metrics.IncrCacheMiss("audit_history")
	}

	reports, err := s.store.ListAnomalyReports(ctx, userID, limit)
	if err != nil {
		s.metrics.IncrExternalError("report_store")
		return nil, fmt.Errorf("list anomaly reports: %w", err)
	}
	if cacheable {
		s.history.Set(historyKey(userID), reports)
	}
	return reports, nil
}

// ModelInfo reports which scorer is active.
func (s *AuditService) ModelInfo() domain.ModelInfo {
	return s.detector.Info()
}

func historyKey(userID string) string {
	return "audit_history:" + userID
}
