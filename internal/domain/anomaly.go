package domain

import "time"

// ============================================================
// Anomaly detection
// ============================================================

// RiskLevel buckets an anomaly score.
type RiskLevel string

const (
	RiskNormal RiskLevel = "Normal"
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// FlagThreshold is the score above which a transaction is flagged.
const FlagThreshold = 0.3

// AnomalyResult is the per-transaction outcome of a scan. Immutable once produced.
type AnomalyResult struct {
	TransactionID int       `json:"transaction_id"`
	Amount        float64   `json:"amount"`
	Merchant      string    `json:"merchant"`
	Category      string    `json:"category"`
	Date          string    `json:"date"`
	AnomalyScore  float64   `json:"anomaly_score"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Reasons       []string  `json:"reasons"`
	Flagged       bool      `json:"flagged"`
}

// AnomalySummary aggregates a batch of results.
type AnomalySummary struct {
	TotalTransactions     int     `json:"total_transactions"`
	AnomalousTransactions int     `json:"anomalous_transactions"`
	AnomalyRate           float64 `json:"anomaly_rate"` // percent
	HighRiskCount         int     `json:"high_risk_count"`
	MediumRiskCount       int     `json:"medium_risk_count"`
	LowRiskCount          int     `json:"low_risk_count"`
	TotalFlaggedAmount    float64 `json:"total_flagged_amount"`
}

// Detection methods.
const (
	MethodRuleBased = "rule_based"
	MethodModel     = "model"
)

// AnomalyReport is the unit of persistence for one scan invocation.
// A new scan always creates a new report; reports are never mutated.
type AnomalyReport struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	DocumentIDs  []string        `json:"document_ids"`
	Summary      AnomalySummary  `json:"summary"`
	Details      []AnomalyResult `json:"anomaly_details"`
	Method       string          `json:"method"`
	ModelVersion string          `json:"model_version"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ModelInfo describes which scorer/predictor is active.
type ModelInfo struct {
	ModelLoaded  bool   `json:"model_loaded"`
	Method       string `json:"method"`
	ModelVersion string `json:"model_version"`
}
