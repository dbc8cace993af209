package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/anomaly"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/config"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/handler"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/cache"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/client"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/memstore"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/observability"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/resilience"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/session"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/sqlite"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/infra/supabase"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/normalize"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/port"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/service"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/tax"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_backend", cfg.StoreBackend),
		zap.Bool("anomaly_model", cfg.AnomalyModelEnabled),
		zap.Bool("tax_model", cfg.TaxModelEnabled),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Int("max_retries", cfg.MaxRetries),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "audit-tax-assistant")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var checks []handler.HealthCheck

	// --- Persistence ---
	store, closeStore, err := newReportStore(cfg, httpClient, resilienceCfg, logger)
	if err != nil {
		logger.Fatal("failed to open report store", zap.Error(err))
	}
	defer closeStore()
	checks = append(checks, handler.HealthCheck{Name: "report_store", Ping: store.Ping})

	// --- Model server ---
	var (
		anomalyModel port.AnomalyModel
		taxPredictor port.TaxPredictor
	)
	if cfg.AnomalyModelEnabled || cfg.TaxModelEnabled {
		modelClient := client.NewModelClient(httpClient, cfg.ModelAPIURL,
			resilience.NewCircuitBreaker("model-server", logger), resilienceCfg)
		if cfg.AnomalyModelEnabled {
			anomalyModel = modelClient
		}
		if cfg.TaxModelEnabled {
			taxPredictor = modelClient
		}
		checks = append(checks, handler.HealthCheck{Name: "model_server", Ping: modelClient.Ping})
		logger.Info("model server enabled", zap.String("url", cfg.ModelAPIURL))
	}

	// --- Tax slabs ---
	slabs := tax.DefaultSlabTable()
	if cfg.TaxSlabsFile != "" {
		slabs, err = tax.LoadSlabTable(cfg.TaxSlabsFile)
		if err != nil {
			logger.Fatal("failed to load tax slabs", zap.String("file", cfg.TaxSlabsFile), zap.Error(err))
		}
		logger.Info("tax slabs loaded", zap.String("file", cfg.TaxSlabsFile), zap.Int("years", len(slabs.Years)))
	}

	// --- Services ---
	normalizer := normalize.New(nil)
	auditSvc := service.NewAuditService(
		anomaly.NewDetector(anomalyModel, cfg.ModelVersion),
		store,
		cache.New[[]domain.AnomalyReport](cfg.CacheTTL),
		metrics,
		logger,
	)
	taxSvc := service.NewTaxService(
		tax.NewEstimator(tax.NewCalculator(slabs), taxPredictor),
		store,
		metrics,
		logger,
		cfg.DefaultFiscalYear,
		cfg.ModelVersion,
	)
	analysisSvc := service.NewAnalysisService(auditSvc, taxSvc, resilience.NewBulkhead(cfg.MaxConcurrency))
	agentSvc := service.NewAgentService(normalizer, session.NewStore(cfg.SessionTTL, logger), metrics, logger)

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Normalizer:     normalizer,
		Audit:          auditSvc,
		Tax:            taxSvc,
		Analysis:       analysisSvc,
		Agent:          agentSvc,
		Tokens:         service.NewTokenVerifier(cfg.JWTSecret),
		UploadLimiter:  rate.NewLimiter(rate.Limit(cfg.UploadRatePerSec), cfg.UploadBurst),
		UploadMaxBytes: cfg.UploadMaxBytes,
		Checks:         checks,
	}, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// newReportStore picks the persistence backend named by cfg.StoreBackend.
func newReportStore(cfg *config.Config, httpClient *http.Client, rcfg resilience.Config, logger *zap.Logger) (port.ReportStore, func(), error) {
	noop := func() {}

	switch cfg.StoreBackend {
	case config.StoreSupabase:
		if cfg.SupabaseURL == "" {
			return nil, noop, fmt.Errorf("STORE_BACKEND=supabase requires SUPABASE_URL")
		}
		logger.Info("using Supabase report store", zap.String("supabase_url", cfg.SupabaseURL))
		return supabase.NewClient(
			httpClient,
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseServiceKey,
			resilience.NewCircuitBreaker("supabase", logger),
			rcfg,
			logger,
		), noop, nil

	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { s.Close() }, nil

	case config.StoreMemory:
		logger.Warn("using in-memory report store, reports are lost on restart")
		return memstore.New(), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
