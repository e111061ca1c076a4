package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Run is one payroll computation cycle for a period and entity. Totals are
// derived from the details and never hand-edited; Version guards concurrent
// aggregate recomputations.
type Run struct {
	ID             string          `json:"id"`
	RunID          string          `json:"runId"`
	PayrollPeriod  string          `json:"payrollPeriod"`
	Entity         string          `json:"entity"`
	Status         string          `json:"status"`
	EmployeeCount  int             `json:"employeeCount"`
	ExceptionCount int             `json:"exceptionCount"`
	TotalNetPay    decimal.Decimal `json:"totalNetPay"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	SpecialistID   string          `json:"specialistId"`
	PublishedBy    *string         `json:"publishedBy,omitempty"`
	ApprovedBy     *string         `json:"approvedBy,omitempty"`
	PaymentStatus  string          `json:"paymentStatus"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Detail is the computed pay breakdown for one employee within one run.
type Detail struct {
	ID              string          `json:"id"`
	RunID           string          `json:"runId"`
	EmployeeID      string          `json:"employeeId"`
	EmployeeNumber  string          `json:"employeeNumber"`
	EmployeeName    string          `json:"employeeName"`
	Department      string          `json:"department"`
	Position        string          `json:"position"`
	HREvent         string          `json:"hrEvent"`
	BaseSalary      decimal.Decimal `json:"baseSalary"`
	AllowancesTotal decimal.Decimal `json:"allowancesTotal"`
	Bonus           decimal.Decimal `json:"bonus"`
	Benefit         decimal.Decimal `json:"benefit"`
	GrossSalary     decimal.Decimal `json:"grossSalary"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	PenaltyTotal    decimal.Decimal `json:"penaltyTotal"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	DeductionsTotal decimal.Decimal `json:"deductionsTotal"`
	NetPay          decimal.Decimal `json:"netPay"`
	BankStatus      string          `json:"bankStatus"`
	WorkingDays     int             `json:"workingDays"`
	AbsentDays      int             `json:"absentDays"`
	OvertimeHours   float64         `json:"overtimeHours"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Exception is a flagged condition on a detail that requires human review.
// Its lifecycle is independent of the run's.
type Exception struct {
	ID             string     `json:"id"`
	RunID          string     `json:"runId"`
	EmployeeID     string     `json:"employeeId"`
	Type           string     `json:"type"`
	Severity       string     `json:"severity"`
	Message        string     `json:"message"`
	Status         string     `json:"status"`
	ResolutionNote string     `json:"resolutionNote,omitempty"`
	ResolvedBy     *string    `json:"resolvedBy,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	FlaggedAt      time.Time  `json:"flaggedAt"`
}

// Finding is a detected exception before persistence: type, severity, and
// message only. The store assigns workflow state when syncing.
type Finding struct {
	Type     string
	Severity string
	Message  string
}

// Adjustment is a manual correction applied during draft review; it folds
// into the next recomputation of the employee's detail.
type Adjustment struct {
	ID         string          `json:"id"`
	RunID      string          `json:"runId"`
	EmployeeID string          `json:"employeeId"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	CreatedBy  string          `json:"createdBy"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// PayslipLine is one itemized row on a payslip.
type PayslipLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Payslip is the employee-facing rendering of a detail. Regenerated on every
// recompute while the run is in draft, frozen once the run is processed.
type Payslip struct {
	ID               string          `json:"id"`
	RunID            string          `json:"runId"`
	EmployeeID       string          `json:"employeeId"`
	EmployeeName     string          `json:"employeeName"`
	Period           string          `json:"period"`
	Earnings         []PayslipLine   `json:"earnings"`
	Deductions       []PayslipLine   `json:"deductions"`
	TotalGrossSalary decimal.Decimal `json:"totalGrossSalary"`
	TotalDeductions  decimal.Decimal `json:"totalDeductions"`
	NetPay           decimal.Decimal `json:"netPay"`
	PaymentStatus    string          `json:"paymentStatus"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}
