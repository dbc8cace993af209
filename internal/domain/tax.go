package domain

import "time"

// ============================================================
// Tax estimation
// ============================================================

// Income buckets used by the aggregation step.
const (
	IncomeSalary       = "salary"
	IncomeBusiness     = "business"
	IncomeCapitalGains = "capital_gains"
	IncomeInterest     = "interest"
	IncomeRental       = "rental"
	IncomeOther        = "other"
)

// IncomeBreakdown is the per-bucket income aggregation of a batch.
type IncomeBreakdown struct {
	TotalIncome      float64            `json:"total_income"`
	ByCategory       map[string]float64 `json:"by_category"`
	TransactionCount int                `json:"transaction_count"`
}

// SlabLine is one touched slab in a progressive calculation.
type SlabLine struct {
	Range         string  `json:"slab_range"`
	Rate          string  `json:"rate"`
	RateValue     float64 `json:"rate_value"`
	TaxableAmount float64 `json:"taxable_amount"`
	TaxAmount     float64 `json:"tax_amount"`
}

// SlabCalculation is the result of applying a slab table to an income.
type SlabCalculation struct {
	TotalIncome     float64    `json:"total_income"`
	TotalDeductions float64    `json:"total_deductions"`
	TaxableIncome   float64    `json:"taxable_income"`
	TotalTax        float64    `json:"total_tax"`
	EffectiveRate   float64    `json:"effective_rate"` // percent of total income
	Slabs           []SlabLine `json:"slab_calculations"`
}

// Explanation is one line of the explainability block.
type Explanation struct {
	Feature     string  `json:"feature"`
	Impact      float64 `json:"impact"`
	Value       float64 `json:"value,omitempty"`
	Description string  `json:"description,omitempty"`
}

// TransactionTaxAnalysis is the per-transaction tax/compliance annotation.
type TransactionTaxAnalysis struct {
	TransactionID   int      `json:"transaction_id"`
	Amount          float64  `json:"amount"`
	Category        string   `json:"category"`
	Type            string   `json:"type"`
	TaxRate         string   `json:"tax_rate"`
	TaxRateValue    float64  `json:"tax_rate_value"`
	TaxImpact       float64  `json:"tax_impact"`
	Deductible      bool     `json:"deductible"`
	ReceiptRequired bool     `json:"receipt_required"`
	ComplianceNotes []string `json:"compliance_notes"`
}

// ReceiptRequirement lists a transaction that needs documentary proof.
type ReceiptRequirement struct {
	TransactionID int     `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Reason        string  `json:"reason"`
}

// TransactionTaxSummary aggregates the per-transaction analysis.
type TransactionTaxSummary struct {
	TotalTransactions      int     `json:"total_transactions"`
	ReceiptRequiredCount   int     `json:"receipt_required_count"`
	TotalTaxImpact         float64 `json:"total_tax_impact"`
	DeductibleTransactions int     `json:"deductible_transactions"`
	AverageTaxRate         float64 `json:"average_tax_rate"` // percent
}

// TransactionTaxReport is the per-transaction section of an estimate.
type TransactionTaxReport struct {
	Transactions        []TransactionTaxAnalysis `json:"transactions"`
	ReceiptRequirements []ReceiptRequirement     `json:"receipt_requirements"`
	Summary             TransactionTaxSummary    `json:"summary"`
}

// Tax prediction methods.
const (
	TaxMethodSlab    = "slab"
	TaxMethodBlended = "blended"
)

// TaxEstimate is the full output of the estimator.
type TaxEstimate struct {
	FiscalYear      string               `json:"fiscal_year"`
	TotalIncome     float64              `json:"total_income"`
	TaxableIncome   float64              `json:"taxable_income"`
	TotalDeductions float64              `json:"total_deductions"`
	SlabTax         float64              `json:"slab_tax"`
	PredictedTax    float64              `json:"predicted_tax"`
	EffectiveRate   float64              `json:"effective_rate"`
	Confidence      float64              `json:"confidence"`
	Method          string               `json:"method"`
	SlabBreakdown   []SlabLine           `json:"slab_breakdown"`
	IncomeBreakdown IncomeBreakdown      `json:"income_breakdown"`
	Explainability  []Explanation        `json:"explainability"`
	Transactions    TransactionTaxReport `json:"transaction_analysis"`
}

// TaxRecord is the persisted unit: one per (user, fiscal year, calculation run).
// Later calculations for the same year supersede it by creating a new record.
type TaxRecord struct {
	ID                   string             `json:"id"`
	UserID               string             `json:"user_id"`
	FiscalYear           string             `json:"fiscal_year"`
	TotalIncome          float64            `json:"total_income"`
	TotalDeductions      float64            `json:"total_deductions"`
	TaxableIncome        float64            `json:"taxable_income"`
	PredictedTax         float64            `json:"predicted_tax"`
	ConfidenceScore      float64            `json:"confidence_score"`
	IncomeBreakdown      map[string]float64 `json:"income_breakdown"`
	DeductionBreakdown   map[string]float64 `json:"deduction_breakdown"`
	TransactionsAnalyzed int                `json:"transactions_analyzed"`
	ModelVersion         string             `json:"model_version"`
	CreatedAt            time.Time          `json:"created_at"`
}

// TaxSavings compares tax before and after additional deductions.
type TaxSavings struct {
	CurrentTax           float64 `json:"current_tax"`
	NewTax               float64 `json:"new_tax"`
	TaxSavings           float64 `json:"tax_savings"`
	AdditionalDeductions float64 `json:"additional_deductions"`
	SavingsPercentage    float64 `json:"savings_percentage"`
}

// TaxPrediction is what the tax service hands back to callers: the estimate
// plus the id of the record persisted for it.
type TaxPrediction struct {
	RecordID string      `json:"record_id"`
	Estimate TaxEstimate `json:"estimate"`
}

// AuditBundle merges an anomaly scan and a tax prediction run over the same batch.
type AuditBundle struct {
	Anomaly *AnomalyReport `json:"anomaly_report"`
	Tax     *TaxPrediction `json:"tax"`
}
