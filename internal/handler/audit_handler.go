package handler

import (
	"net/http"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/normalize"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Audit: POST /v1/audit/scan
// ============================================================

type scanRequest struct {
	DocumentIDs  []string           `json:"document_ids"`
	Transactions []normalize.Record `json:"transactions"`
}

func scanHandler(svc *service.AuditService, n *normalize.Normalizer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/audit/scan")
		defer span.End()

		var req scanRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Transactions == nil {
			handleServiceError(w, &domain.ErrValidation{Field: "transactions", Message: "is required"}, logger)
			return
		}

		userID := UserIDFromContext(ctx)
		span.SetAttributes(attribute.String("user.id", userID), attribute.Int("transactions", len(req.Transactions)))

		txns := n.NormalizeRecords(req.Transactions).Transactions
		report, err := svc.Scan(ctx, userID, req.DocumentIDs, txns)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// GET /v1/audit/history?limit=
func auditHistoryHandler(svc *service.AuditService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/audit/history")
		defer span.End()

		reports, err := svc.History(ctx, UserIDFromContext(ctx), parseLimit(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"reports": reports,
			"total":   len(reports),
		})
	}
}

func auditModelHandler(svc *service.AuditService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.ModelInfo())
	}
}
