package service

import (
	"context"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/resilience"

	"golang.org/x/sync/errgroup"
)

// AnalysisService runs the anomaly scan and the tax prediction over the
// same batch concurrently.
type AnalysisService struct {
	audit    *AuditService
	tax      *TaxService
	bulkhead *resilience.Bulkhead
}

// NewAnalysisService wires the two services. The bulkhead bounds how many
// analyses run at once.
func NewAnalysisService(audit *AuditService, taxSvc *TaxService, bulkhead *resilience.Bulkhead) *AnalysisService {
	return &AnalysisService{audit: audit, tax: taxSvc, bulkhead: bulkhead}
}

// Analyze returns both results, or the first error.
func (s *AnalysisService) Analyze(ctx context.Context, userID, fiscalYear string, documentIDs []string, txns []domain.Transaction, deductions map[string]float64) (*domain.AuditBundle, error) {
	ctx, span := tracer.Start(ctx, "AnalysisService.Analyze")
	defer span.End()

	if err := s.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.bulkhead.Release()

	var bundle domain.AuditBundle
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := s.audit.Scan(gCtx, userID, documentIDs, txns)
		if err != nil {
			return err
		}
		bundle.Anomaly = r
		return nil
	})

	g.Go(func() error {
		p, err := s.tax.Predict(gCtx, userID, fiscalYear, txns, deductions)
		if err != nil {
			return err
		}
		bundle.Tax = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &bundle, nil
}
