package payroll

import (
	"github.com/shopspring/decimal"

	"hrpay/internal/domain/compensation"
	"hrpay/internal/domain/employee"
	"hrpay/internal/domain/payconfig"
	"hrpay/internal/domain/penalty"
)

var hundred = decimal.NewFromInt(100)

// Inputs is everything the pay computation reads. Compensation must already
// be filtered to approved items; pending and rejected items never reach the
// engine.
type Inputs struct {
	Employee     employee.Snapshot
	TaxRate      decimal.Decimal
	Allowances   []payconfig.Allowance
	Compensation []compensation.Item
	Penalties    []penalty.Reason
	Adjustments  []Adjustment
}

// Compute produces the pay breakdown for one employee. Pure and
// deterministic: same inputs, same detail. All currency amounts are rounded
// to two decimal places after multiplication; sums of already-rounded inputs
// need no further rounding.
//
// Net pay is never floored at zero. A negative result is a valid computed
// value that the exception detector flags.
func Compute(in Inputs) Detail {
	allowancesTotal := decimal.Zero
	for _, a := range in.Allowances {
		allowancesTotal = allowancesTotal.Add(a.Amount)
	}

	bonus := decimal.Zero
	benefit := decimal.Zero
	for _, item := range in.Compensation {
		if compensation.IsBenefit(item.Kind) {
			benefit = benefit.Add(item.Amount)
		} else {
			bonus = bonus.Add(item.Amount)
		}
	}

	otherDeductions := decimal.Zero
	for _, adj := range in.Adjustments {
		switch adj.Kind {
		case AdjustmentBonus:
			bonus = bonus.Add(adj.Amount)
		case AdjustmentBenefit:
			benefit = benefit.Add(adj.Amount)
		case AdjustmentDeduction:
			otherDeductions = otherDeductions.Add(adj.Amount)
		}
	}

	gross := in.Employee.BaseSalary.Add(allowancesTotal).Add(bonus).Add(benefit)
	tax := gross.Mul(in.TaxRate).Round(2)

	penaltyTotal := decimal.Zero
	for _, p := range in.Penalties {
		penaltyTotal = penaltyTotal.Add(p.Amount)
	}

	deductions := tax.Add(penaltyTotal).Add(otherDeductions)
	net := gross.Sub(deductions)

	snap := in.Employee
	return Detail{
		EmployeeID:      snap.ID,
		EmployeeNumber:  snap.EmployeeNumber,
		EmployeeName:    snap.FirstName + " " + snap.LastName,
		Department:      snap.Department,
		Position:        snap.Position,
		HREvent:         snap.HREvent,
		BaseSalary:      snap.BaseSalary,
		AllowancesTotal: allowancesTotal,
		Bonus:           bonus,
		Benefit:         benefit,
		GrossSalary:     gross,
		TaxAmount:       tax,
		PenaltyTotal:    penaltyTotal,
		OtherDeductions: otherDeductions,
		DeductionsTotal: deductions,
		NetPay:          net,
		BankStatus:      bankStatus(snap),
		WorkingDays:     snap.WorkingDays,
		AbsentDays:      snap.AbsentDays,
		OvertimeHours:   snap.OvertimeHours,
	}
}

func bankStatus(snap employee.Snapshot) string {
	if snap.BankName == nil && snap.BankAccountNumber == nil {
		return BankStatusMissing
	}
	if !snap.HasBankDetails() {
		return BankStatusInvalid
	}
	return BankStatusValid
}
