package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual collaborator.
type ServiceHealth struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
	Detail    string `json:"detail,omitempty"`
}

// AuditMetrics is returned by GET /v1/metrics/audit.
type AuditMetrics struct {
	ScansTotal          int64   `json:"scansTotal"`
	TransactionsScanned int64   `json:"transactionsScanned"`
	FlaggedTotal        int64   `json:"flaggedTotal"`
	FlagRate            float64 `json:"flagRate"`
	TaxPredictions      int64   `json:"taxPredictions"`
	ModelFallbacks      int64   `json:"modelFallbacks"`
	NormalizerFallbacks int64   `json:"normalizerFallbacks"`
	StoreErrors         int64   `json:"storeErrors"`
	SessionHitRate      float64 `json:"sessionHitRate"`
	Period              string  `json:"period"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
