package payroll

// Run lifecycle states.
const (
	RunStatusDraft     = "DRAFT"
	RunStatusPublished = "PUBLISHED"
	RunStatusApproved  = "APPROVED"
	RunStatusProcessed = "PROCESSED"
	RunStatusCancelled = "CANCELLED"
)

// Exception types.
const (
	ExceptionMissingBank      = "MISSING_BANK_DETAILS"
	ExceptionNegativeNetPay   = "NEGATIVE_NET_PAY"
	ExceptionExcessivePenalty = "EXCESSIVE_PENALTIES"
	ExceptionZeroBaseSalary   = "ZERO_BASE_SALARY"
	ExceptionCalculationError = "CALCULATION_ERROR"
)

// Exception severities. Only CRITICAL blocks publication outright.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
)

// Exception workflow states.
const (
	ExceptionStatusOpen       = "open"
	ExceptionStatusInProgress = "in_progress"
	ExceptionStatusResolved   = "resolved"
)

// Bank detail validity on a detail row.
const (
	BankStatusValid   = "valid"
	BankStatusMissing = "missing"
	BankStatusInvalid = "invalid"
)

// Payment status of a payslip.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Adjustment kinds. Bonus and benefit raise gross and are taxed; a
// deduction is applied after tax.
const (
	AdjustmentBonus     = "bonus"
	AdjustmentDeduction = "deduction"
	AdjustmentBenefit   = "benefit"
)

func ValidAdjustmentKind(kind string) bool {
	switch kind {
	case AdjustmentBonus, AdjustmentDeduction, AdjustmentBenefit:
		return true
	}
	return false
}
