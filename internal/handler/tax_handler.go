package handler

import (
	"net/http"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/normalize"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/service"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/tax"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Tax: POST /v1/tax/predict
// ============================================================

type predictRequest struct {
	FiscalYear   string             `json:"fiscal_year"`
	Transactions []normalize.Record `json:"transactions"`
	Deductions   map[string]float64 `json:"deductions"`
}

func predictHandler(svc *service.TaxService, n *normalize.Normalizer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/tax/predict")
		defer span.End()

		var req predictRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		userID := UserIDFromContext(ctx)
		span.SetAttributes(attribute.String("user.id", userID), attribute.String("fiscal_year", req.FiscalYear))

		txns := n.NormalizeRecords(req.Transactions).Transactions
		pred, err := svc.Predict(ctx, userID, req.FiscalYear, txns, req.Deductions)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, pred)
	}
}

type slabsResponse struct {
	FiscalYear string     `json:"fiscal_year"`
	Slabs      []tax.Slab `json:"slabs"`
}

// GET /v1/tax/slabs/{fiscalYear}
func slabsHandler(svc *service.TaxService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year := chi.URLParam(r, "fiscalYear")
		writeJSON(w, http.StatusOK, slabsResponse{FiscalYear: svc.Year(year), Slabs: svc.Slabs(year)})
	}
}

type savingsRequest struct {
	Income               float64            `json:"income"`
	FiscalYear           string             `json:"fiscal_year"`
	CurrentDeductions    map[string]float64 `json:"current_deductions"`
	AdditionalDeductions map[string]float64 `json:"additional_deductions"`
}

// POST /v1/tax/savings
func savingsHandler(svc *service.TaxService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req savingsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res, err := svc.Savings(req.Income, req.CurrentDeductions, req.AdditionalDeductions, req.FiscalYear)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /v1/tax/history?fiscal_year=&limit=
func taxHistoryHandler(svc *service.TaxService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/tax/history")
		defer span.End()

		records, err := svc.History(ctx, UserIDFromContext(ctx), r.URL.Query().Get("fiscal_year"), parseLimit(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"records": records,
			"total":   len(records),
		})
	}
}

func taxModelHandler(svc *service.TaxService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.ModelInfo())
	}
}

// ============================================================
// Analysis: POST /v1/analysis
// ============================================================

type analysisRequest struct {
	FiscalYear   string             `json:"fiscal_year"`
	DocumentIDs  []string           `json:"document_ids"`
	Transactions []normalize.Record `json:"transactions"`
	Deductions   map[string]float64 `json:"deductions"`
}

func analysisHandler(svc *service.AnalysisService, n *normalize.Normalizer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/analysis")
		defer span.End()

		var req analysisRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		txns := n.NormalizeRecords(req.Transactions).Transactions
		bundle, err := svc.Analyze(ctx, UserIDFromContext(ctx), req.FiscalYear, req.DocumentIDs, txns, req.Deductions)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, bundle)
	}
}
