package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/observability"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/port"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/tax"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TaxService estimates tax liability and keeps one record per calculation run.
type TaxService struct {
	estimator    *tax.Estimator
	store        port.ReportStore
	metrics      *observability.Metrics
	logger       *zap.Logger
	defaultYear  string
	modelVersion string
	now          func() time.Time
}

// NewTaxService creates the tax service. An empty defaultYear selects the
// slab table's default.
func NewTaxService(
	estimator *tax.Estimator,
	store port.ReportStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
	defaultYear, modelVersion string,
) *TaxService {
	if defaultYear == "" {
		defaultYear = tax.DefaultYear
	}
	return &TaxService{
		estimator:    estimator,
		store:        store,
		metrics:      metrics,
		logger:       logger,
		defaultYear:  defaultYear,
		modelVersion: modelVersion,
		now:          time.Now,
	}
}

// Year returns fiscalYear, or the configured default when it is empty.
func (s *TaxService) Year(fiscalYear string) string {
	if fiscalYear == "" {
		return s.defaultYear
	}
	return fiscalYear
}

// Predict estimates the tax for txns and persists a new TaxRecord. Earlier
// records for the same year are left untouched.
func (s *TaxService) Predict(ctx context.Context, userID, fiscalYear string, txns []domain.Transaction, deductions map[string]float64) (*domain.TaxPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateDeductions(deductions); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "TaxService.Predict")
	defer span.End()
	year := s.Year(fiscalYear)
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("fiscal_year", year),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("tax_predict", time.Since(start))
	}()

	est := s.estimator.Estimate(ctx, txns, deductions, year)
	if est.FallbackErr != nil {
		s.logger.Warn("tax predictor failed, using slab tax",
			zap.String("user_id", userID),
			zap.Error(est.FallbackErr),
		)
		s.metrics.IncrFallback(observability.FallbackTaxPredictor)
	}
	e := est.Estimate
	s.metrics.IncrTaxPrediction(e.Method)

	if deductions == nil {
		deductions = map[string]float64{}
	}
	record := &domain.TaxRecord{
		ID:                   uuid.NewString(),
		UserID:               userID,
		FiscalYear:           year,
		TotalIncome:          e.TotalIncome,
		TotalDeductions:      e.TotalDeductions,
		TaxableIncome:        e.TaxableIncome,
		PredictedTax:         e.PredictedTax,
		ConfidenceScore:      e.Confidence,
		IncomeBreakdown:      e.IncomeBreakdown.ByCategory,
		DeductionBreakdown:   deductions,
		TransactionsAnalyzed: len(txns),
		ModelVersion:         s.modelVersion,
		CreatedAt:            s.now().UTC(),
	}
	if err := s.store.SaveTaxRecord(ctx, record); err != nil {
		s.logger.Error("failed to persist tax record",
			zap.String("user_id", userID),
			zap.String("record_id", record.ID),
			zap.Error(err),
		)
		s.metrics.IncrStoreError(observability.StoreOpSaveTaxRecord)
	}

	s.logger.Info("tax prediction completed",
		zap.String("user_id", userID),
		zap.String("fiscal_year", year),
		zap.String("method", e.Method),
		zap.Float64("predicted_tax", e.PredictedTax),
	)
	return &domain.TaxPrediction{RecordID: record.ID, Estimate: e}, nil
}

// Slabs returns the bands applied for fiscalYear. Unknown years resolve to
// the default table, matching the calculator.
func (s *TaxService) Slabs(fiscalYear string) []tax.Slab {
	return s.estimator.Calculator().Slabs(s.Year(fiscalYear))
}

// Savings compares tax on the current deductions with the additional ones applied.
func (s *TaxService) Savings(income float64, current, additional map[string]float64, fiscalYear string) (domain.TaxSavings, error) {
	if income < 0 {
		return domain.TaxSavings{}, &domain.ErrValidation{Field: "income", Message: "must not be negative"}
	}
	if err := validateDeductions(current); err != nil {
		return domain.TaxSavings{}, err
	}
	if err := validateDeductions(additional); err != nil {
		return domain.TaxSavings{}, err
	}
	return s.estimator.Calculator().Savings(income, current, additional, s.Year(fiscalYear)), nil
}

// History returns the user's tax records, newest first. An empty fiscalYear
// matches every year.
func (s *TaxService) History(ctx context.Context, userID, fiscalYear string, limit int) ([]domain.TaxRecord, error) {
	ctx, span := tracer.Start(ctx, "TaxService.History")
	defer span.End()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	records, err := s.store.ListTaxRecords(ctx, userID, fiscalYear, limit)
	if err != nil {
		s.metrics.IncrExternalError("report_store")
		return nil, fmt.Errorf("list tax records: %w", err)
	}
	return records, nil
}

// ModelInfo reports whether the numeric predictor is configured.
func (s *TaxService) ModelInfo() domain.ModelInfo {
	method := s.estimator.Method()
	return domain.ModelInfo{
		ModelLoaded:  method == domain.TaxMethodBlended,
		Method:       method,
		ModelVersion: s.modelVersion,
	}
}

func validateDeductions(d map[string]float64) error {
	for label, v := range d {
		if v < 0 {
			return &domain.ErrValidation{Field: "deductions." + label, Message: "must not be negative"}
		}
	}
	return nil
}
