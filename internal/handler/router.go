package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/observability"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/normalize"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("handler")

const healthCheckTimeout = 2 * time.Second

// HealthCheck is one collaborator probed by /healthz.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Services bundles what the router serves. The /v1 API is mounted only
// when Tokens is set.
type Services struct {
	Normalizer *normalize.Normalizer
	Audit      *service.AuditService
	Tax        *service.TaxService
	Analysis   *service.AnalysisService
	Agent      *service.AgentService
	Tokens     TokenVerifier

	UploadLimiter  *rate.Limiter
	UploadMaxBytes int64
	Checks         []HealthCheck
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(requestCounter(metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc.Checks))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	if svc.Tokens == nil {
		logger.Warn("no token verifier configured, /v1 API disabled")
		return r
	}
	if svc.Normalizer == nil {
		svc.Normalizer = normalize.New(nil)
	}
	if svc.UploadLimiter == nil {
		svc.UploadLimiter = rate.NewLimiter(rate.Inf, 0)
	}

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JWTAuthMiddleware(svc.Tokens, logger))

		// Audit
		r.Post("/audit/scan", scanHandler(svc.Audit, svc.Normalizer, logger))
		r.Get("/audit/history", auditHistoryHandler(svc.Audit, logger))
		r.Get("/audit/model", auditModelHandler(svc.Audit))

		// Tax
		r.Post("/tax/predict", predictHandler(svc.Tax, svc.Normalizer, logger))
		r.Get("/tax/slabs/{fiscalYear}", slabsHandler(svc.Tax))
		r.Post("/tax/savings", savingsHandler(svc.Tax, logger))
		r.Get("/tax/history", taxHistoryHandler(svc.Tax, logger))
		r.Get("/tax/model", taxModelHandler(svc.Tax))

		// Combined scan + tax
		r.Post("/analysis", analysisHandler(svc.Analysis, svc.Normalizer, logger))

		// CSV agent
		r.Route("/agent", func(r chi.Router) {
			r.With(RateLimitMiddleware(svc.UploadLimiter, "agent_upload", logger)).
				Post("/upload", uploadHandler(svc.Agent, svc.UploadMaxBytes, logger))
			r.Get("/{sessionId}", sessionInfoHandler(svc.Agent, logger))
			r.Delete("/{sessionId}", closeSessionHandler(svc.Agent, logger))
			r.Post("/{sessionId}/command", commandHandler(svc.Agent, logger))
			r.Post("/{sessionId}/files", generateFilesHandler(svc.Agent, logger))
			r.Get("/{sessionId}/files/{filename}", downloadHandler(svc.Agent, logger))
		})

		r.Get("/metrics/audit", auditMetricsHandler(metrics))
	})

	return r
}

// ============================================================
// Health & metrics
// ============================================================

func healthzHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := []domain.ServiceHealth{{Name: "assistant-api", Status: "healthy"}}

		overall := "healthy"
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			start := time.Now()
			err := c.Ping(ctx)
			cancel()

			h := domain.ServiceHealth{Name: c.Name, Status: "healthy", LatencyMs: time.Since(start).Milliseconds()}
			if err != nil {
				h.Status = "degraded"
				h.Detail = err.Error()
				overall = "degraded"
			}
			services = append(services, h)
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{Status: overall, Services: services})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func auditMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetAuditSnapshot())
	}
}
