package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// HR event tags set by the originating workflow. The tag is authoritative:
// bonus or benefit presence is display data, never used to infer the event.
const (
	EventNormal      = "NORMAL"
	EventNewHire     = "NEW_HIRE"
	EventResignation = "RESIGNATION"
	EventTermination = "TERMINATION"
)

// Snapshot is the immutable-for-the-run view of an employee that the payroll
// engine reads. Bank fields are nullable; everything else is normalized at
// the boundary.
type Snapshot struct {
	ID                string          `json:"id"`
	EmployeeNumber    string          `json:"employeeNumber"`
	FirstName         string          `json:"firstName"`
	LastName          string          `json:"lastName"`
	Email             string          `json:"email"`
	Department        string          `json:"department"`
	Position          string          `json:"position"`
	BaseSalary        decimal.Decimal `json:"baseSalary"`
	BankName          *string         `json:"bankName"`
	BankAccountNumber *string         `json:"bankAccountNumber"`
	HREvent           string          `json:"hrEvent"`
	Status            string          `json:"status"`
	WorkingDays       int             `json:"workingDays"`
	AbsentDays        int             `json:"absentDays"`
	OvertimeHours     float64         `json:"overtimeHours"`
	HireDate          *time.Time      `json:"hireDate,omitempty"`
}

func (s Snapshot) HasBankDetails() bool {
	return s.BankName != nil && strings.TrimSpace(*s.BankName) != "" &&
		s.BankAccountNumber != nil && strings.TrimSpace(*s.BankAccountNumber) != ""
}

type BankDetails struct {
	BankName          string `json:"bankName"`
	BankAccountNumber string `json:"bankAccountNumber"`
}
