package tax

import (
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/domain"
	"github.com/Git-hub00/AI-AUDIT-AND-TAX-ASSISTANT/internal/money"
)

// Tax type labels.
const (
	LabelEmployment = "Employment Income"
	LabelBusiness   = "Business Income"
	LabelInvestment = "Investment Income"
	LabelRental     = "Rental Income"
	LabelOther      = "Other Income"
)

// Compliance notes.
const (
	NoteHighValue    = "High-value transaction - ensure proper documentation"
	NoteCashPAN      = "Cash transaction above ₹50,000 - may require PAN disclosure"
	NoteTDS          = "TDS may be applicable - verify deduction"
	NoteCapitalGains = "Capital gains tax implications - maintain purchase records"
)

// Receipt reasons.
const (
	ReceiptHighValue  = "High-value transaction requires documentation"
	ReceiptBusiness   = "Business expense deduction requires receipt"
	ReceiptHealth     = "Tax deduction under 80D requires receipt"
	ReceiptInvestment = "Investment proof required for 80C deduction"
	ReceiptGeneric    = "Documentation required for tax compliance"
)

var (
	receiptCategories    = set("investment", "insurance", "medical", "education")
	deductibleCategories = set("insurance", "medical", "education", "charity", "home_loan", "investment", "professional")
	cashLike             = set("cash", "cash_deposit")
	investmentLike       = set("investment", "mutual_fund")
	investmentLabel      = set("investment", "dividends", "capital_gains", "stocks")
)

// RateFor returns the per-transaction tax rate for a magnitude and category.
func RateFor(amount float64, category string) float64 {
	switch {
	case salaryLike[category]:
		if amount > 500000 {
			return 0.20
		}
		return 0.05
	case businessLike[category]:
		if amount > 1000000 {
			return 0.30
		}
		return 0.20
	case capitalGainsLike[category]:
		return 0.15
	default:
		return 0.10
	}
}

// ReceiptRequired reports whether a transaction needs documentary proof.
func ReceiptRequired(amount float64, category string) bool {
	switch {
	case amount > 50000:
		return true
	case businessLike[category]:
		return amount > 5000
	case receiptCategories[category]:
		return amount > 10000
	default:
		return false
	}
}

// Deductible reports whether category is in the deductible set.
func Deductible(category string) bool {
	return deductibleCategories[category]
}

// ComplianceNotes lists every note that applies; they are not exclusive.
func ComplianceNotes(amount float64, category string) []string {
	notes := []string{}
	if amount > 200000 {
		notes = append(notes, NoteHighValue)
	}
	if cashLike[category] && amount > 50000 {
		notes = append(notes, NoteCashPAN)
	}
	if businessLike[category] && amount > 30000 {
		notes = append(notes, NoteTDS)
	}
	if investmentLike[category] && amount > 100000 {
		notes = append(notes, NoteCapitalGains)
	}
	return notes
}

// TypeLabel names the tax treatment of category.
func TypeLabel(category string) string {
	switch {
	case salaryLike[category]:
		return LabelEmployment
	case businessLike[category]:
		return LabelBusiness
	case investmentLabel[category]:
		return LabelInvestment
	case rentalLike[category]:
		return LabelRental
	default:
		return LabelOther
	}
}

// ReceiptReason explains why a receipt is needed.
func ReceiptReason(amount float64, category string) string {
	switch {
	case amount > 50000:
		return ReceiptHighValue
	case businessLike[category] || category == "professional":
		return ReceiptBusiness
	case category == "medical" || category == "insurance":
		return ReceiptHealth
	case category == "investment":
		return ReceiptInvestment
	default:
		return ReceiptGeneric
	}
}

// AnalyzeTransactions annotates every transaction in input order.
func AnalyzeTransactions(txns []domain.Transaction) domain.TransactionTaxReport {
	report := domain.TransactionTaxReport{
		Transactions:        make([]domain.TransactionTaxAnalysis, 0, len(txns)),
		ReceiptRequirements: []domain.ReceiptRequirement{},
	}

	var totalImpact, totalAmount float64
	for i, t := range txns {
		amount := t.AbsAmount()
		category := categoryOf(t)
		rate := RateFor(amount, category)
		impact := money.Round(amount*rate, 2)
		needsReceipt := ReceiptRequired(amount, category)

		a := domain.TransactionTaxAnalysis{
			TransactionID:   i + 1,
			Amount:          amount,
			Category:        category,
			Type:            TypeLabel(category),
			TaxRate:         rateLabel(rate),
			TaxRateValue:    rate,
			TaxImpact:       impact,
			Deductible:      Deductible(category),
			ReceiptRequired: needsReceipt,
			ComplianceNotes: ComplianceNotes(amount, category),
		}
		report.Transactions = append(report.Transactions, a)

		if needsReceipt {
			report.ReceiptRequirements = append(report.ReceiptRequirements, domain.ReceiptRequirement{
				TransactionID: i + 1,
				Amount:        amount,
				Category:      category,
				Reason:        ReceiptReason(amount, category),
			})
		}
		if a.Deductible {
			report.Summary.DeductibleTransactions++
		}
		totalImpact += impact
		totalAmount += amount
	}

	report.Summary.TotalTransactions = len(txns)
	report.Summary.ReceiptRequiredCount = len(report.ReceiptRequirements)
	report.Summary.TotalTaxImpact = money.Round(totalImpact, 2)
	if totalAmount > 0 {
		report.Summary.AverageTaxRate = money.Round(totalImpact/totalAmount*100, 2)
	}
	return report
}
