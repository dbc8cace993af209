package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// Tables. Nested report sections are stored as jsonb columns named after
// the domain JSON fields, so rows decode straight into domain types.
const (
	anomalyReportsTable = "anomaly_reports"
	taxRecordsTable     = "tax_records"
)

// SaveAnomalyReport inserts r. Reports are never updated.
func (c *Client) SaveAnomalyReport(ctx context.Context, r *domain.AnomalyReport) error {
	ctx, span := tracer.Start(ctx, "Supabase.SaveAnomalyReport")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", r.UserID), attribute.String("report.id", r.ID))

	return resilience.Call(ctx, c.cb, c.cfg, "supabase/anomaly_reports", func() error {
		_, err := c.doPost(ctx, anomalyReportsTable, r)
		return err
	})
}

// ListAnomalyReports fetches the user's reports, newest first.
func (c *Client) ListAnomalyReports(ctx context.Context, userID string, limit int) ([]domain.AnomalyReport, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListAnomalyReports")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var reports []domain.AnomalyReport
	err := resilience.Call(ctx, c.cb, c.cfg, "supabase/anomaly_reports", func() error {
		path := fmt.Sprintf("%s?user_id=eq.%s&order=created_at.desc&limit=%d",
			anomalyReportsTable, url.QueryEscape(userID), limit)
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		reports = []domain.AnomalyReport{}
		if body == nil {
			return nil
		}
		if err := json.Unmarshal(body, &reports); err != nil {
			return resilience.Permanent(fmt.Errorf("failed to decode anomaly reports: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// SaveTaxRecord inserts r. Earlier records for the same year are kept.
func (c *Client) SaveTaxRecord(ctx context.Context, r *domain.TaxRecord) error {
	ctx, span := tracer.Start(ctx, "Supabase.SaveTaxRecord")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", r.UserID), attribute.String("fiscal_year", r.FiscalYear))

	return resilience.Call(ctx, c.cb, c.cfg, "supabase/tax_records", func() error {
		_, err := c.doPost(ctx, taxRecordsTable, r)
		return err
	})
}

// ListTaxRecords fetches the user's tax records, newest first.
func (c *Client) ListTaxRecords(ctx context.Context, userID, fiscalYear string, limit int) ([]domain.TaxRecord, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTaxRecords")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("fiscal_year", fiscalYear))

	var records []domain.TaxRecord
	err := resilience.Call(ctx, c.cb, c.cfg, "supabase/tax_records", func() error {
		path := fmt.Sprintf("%s?user_id=eq.%s", taxRecordsTable, url.QueryEscape(userID))
		if fiscalYear != "" {
			path += "&fiscal_year=eq." + url.QueryEscape(fiscalYear)
		}
		path += fmt.Sprintf("&order=created_at.desc&limit=%d", limit)

		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		records = []domain.TaxRecord{}
		if body == nil {
			return nil
		}
		if err := json.Unmarshal(body, &records); err != nil {
			return resilience.Permanent(fmt.Errorf("failed to decode tax records: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Ping issues a minimal read against the reports table.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, anomalyReportsTable+"?select=id&limit=1")
	return err
}
