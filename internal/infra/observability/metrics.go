package observability

import (
	"time"

	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Fallback components.
const (
	FallbackAnomalyModel = "anomaly_model"
	FallbackTaxPredictor = "tax_predictor"
	FallbackNormalizer   = "normalizer"
)

// Store operations counted by IncrStoreError.
const (
	StoreOpSaveReport    = "save_anomaly_report"
	StoreOpSaveTaxRecord = "save_tax_record"
)

// Metrics holds all Prometheus metrics for the assistant.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration     *prometheus.HistogramVec
	externalErrors      *prometheus.CounterVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	scansTotal          *prometheus.CounterVec
	transactionsScanned prometheus.Counter
	flaggedTotal        *prometheus.CounterVec
	taxPredictions      *prometheus.CounterVec
	fallbacks           *prometheus.CounterVec
	storeErrors         *prometheus.CounterVec
	requestsTotal       *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		scansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_anomaly_scans_total",
				Help: "Total anomaly scans by scoring method.",
			},
			[]string{"method"},
		),
		transactionsScanned: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "assistant_transactions_scanned_total",
				Help: "Total transactions scored by the anomaly scorer.",
			},
		),
		flaggedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_flagged_transactions_total",
				Help: "Total flagged transactions by risk level.",
			},
			[]string{"risk_level"},
		),
		taxPredictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_tax_predictions_total",
				Help: "Total tax predictions by method.",
			},
			[]string{"method"},
		),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_fallbacks_total",
				Help: "Total fallbacks to the rule path or demonstration data.",
			},
			[]string{"component"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_store_errors_total",
				Help: "Total persistence failures by operation.",
			},
			[]string{"operation"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_requests_total",
				Help: "Total requests processed.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordScan records one anomaly scan and its flagged results.
func (m *Metrics) RecordScan(method string, summary domain.AnomalySummary) {
	m.scansTotal.WithLabelValues(method).Inc()
	m.transactionsScanned.Add(float64(summary.TotalTransactions))
	m.flaggedTotal.WithLabelValues(string(domain.RiskHigh)).Add(float64(summary.HighRiskCount))
	m.flaggedTotal.WithLabelValues(string(domain.RiskMedium)).Add(float64(summary.MediumRiskCount))
	// Low-risk results above the flag threshold are the remainder.
	low := summary.AnomalousTransactions - summary.HighRiskCount - summary.MediumRiskCount
	if low > 0 {
		m.flaggedTotal.WithLabelValues(string(domain.RiskLow)).Add(float64(low))
	}
}

// IncrTaxPrediction counts a tax prediction by method.
func (m *Metrics) IncrTaxPrediction(method string) {
	m.taxPredictions.WithLabelValues(method).Inc()
}

// IncrFallback counts a fallback taken by component.
func (m *Metrics) IncrFallback(component string) {
	m.fallbacks.WithLabelValues(component).Inc()
}

// IncrStoreError counts a persistence failure.
func (m *Metrics) IncrStoreError(operation string) {
	m.storeErrors.WithLabelValues(operation).Inc()
}

// IncrRequest increments the request counter with a status label.
func (m *Metrics) IncrRequest(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// GetAuditSnapshot returns a snapshot of scoring metrics suitable for the
// GET /v1/metrics/audit endpoint.
func (m *Metrics) GetAuditSnapshot() *domain.AuditMetrics {
	scans := getCounterValue(m.scansTotal, domain.MethodRuleBased) +
		getCounterValue(m.scansTotal, domain.MethodModel)
	scanned := readCounter(m.transactionsScanned)
	flagged := getCounterValue(m.flaggedTotal, string(domain.RiskHigh)) +
		getCounterValue(m.flaggedTotal, string(domain.RiskMedium)) +
		getCounterValue(m.flaggedTotal, string(domain.RiskLow))
	predictions := getCounterValue(m.taxPredictions, domain.TaxMethodSlab) +
		getCounterValue(m.taxPredictions, domain.TaxMethodBlended)
	modelFallbacks := getCounterValue(m.fallbacks, FallbackAnomalyModel) +
		getCounterValue(m.fallbacks, FallbackTaxPredictor)
	sessionHits := getCounterValue(m.cacheHits, "session")
	sessionMisses := getCounterValue(m.cacheMisses, "session")

	flagRate := float64(0)
	if scanned > 0 {
		flagRate = flagged / scanned
	}
	sessionHitRate := float64(0)
	if sessionHits+sessionMisses > 0 {
		sessionHitRate = sessionHits / (sessionHits + sessionMisses)
	}

	return &domain.AuditMetrics{
		ScansTotal:          int64(scans),
		TransactionsScanned: int64(scanned),
		FlaggedTotal:        int64(flagged),
		FlagRate:            flagRate,
		TaxPredictions:      int64(predictions),
		ModelFallbacks:      int64(modelFallbacks),
		NormalizerFallbacks: int64(getCounterValue(m.fallbacks, FallbackNormalizer)),
		StoreErrors: int64(getCounterValue(m.storeErrors, StoreOpSaveReport) +
			getCounterValue(m.storeErrors, StoreOpSaveTaxRecord)),
		SessionHitRate: sessionHitRate,
		Period:         "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	return readCounter(cv.WithLabelValues(label))
}

func readCounter(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
