package compensation

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindSigningBonus       = "SIGNING_BONUS"
	KindTerminationBenefit = "TERMINATION_BENEFIT"
	KindResignationBenefit = "RESIGNATION_BENEFIT"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Item is a one-off compensation grant tied to an HR event. Only approved
// items ever reach a pay computation; pending items block publication of any
// run that includes the employee.
type Item struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	Note       string          `json:"note,omitempty"`
	// ScheduledPaymentDate is the intended disbursement date; payroll does
	// not act on it, the payments team does.
	ScheduledPaymentDate *time.Time `json:"scheduledPaymentDate,omitempty"`
	DecidedBy            *string    `json:"decidedBy,omitempty"`
	DecidedAt            *time.Time `json:"decidedAt,omitempty"`
	DecisionNote         string     `json:"decisionNote,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func ValidKind(kind string) bool {
	switch kind {
	case KindSigningBonus, KindTerminationBenefit, KindResignationBenefit:
		return true
	}
	return false
}

// IsBenefit reports whether the kind lands in the benefit bucket of a pay
// computation rather than the bonus bucket.
func IsBenefit(kind string) bool {
	return kind == KindTerminationBenefit || kind == KindResignationBenefit
}
