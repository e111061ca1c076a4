package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"hrpay/internal/domain/employee"
)

// Detect evaluates the exception rules over a computed detail and its
// snapshot. Rules fire independently; detection on unchanged input yields an
// identical finding set. penaltyThreshold is the fraction of gross above
// which penalties are considered excessive.
func Detect(detail Detail, snap employee.Snapshot, penaltyThreshold decimal.Decimal) []Finding {
	var findings []Finding

	if !snap.HasBankDetails() {
		findings = append(findings, Finding{
			Type:     ExceptionMissingBank,
			Severity: SeverityHigh,
			Message:  "employee has no usable bank name or account number on file",
		})
	}

	if detail.NetPay.IsNegative() {
		findings = append(findings, Finding{
			Type:     ExceptionNegativeNetPay,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("net pay is negative (%s): deductions exceed gross salary", detail.NetPay.StringFixed(2)),
		})
	}

	if detail.GrossSalary.IsPositive() &&
		detail.PenaltyTotal.GreaterThan(detail.GrossSalary.Mul(penaltyThreshold)) {
		findings = append(findings, Finding{
			Type:     ExceptionExcessivePenalty,
			Severity: SeverityMedium,
			Message: fmt.Sprintf("penalties %s exceed %s%% of gross salary %s",
				detail.PenaltyTotal.StringFixed(2),
				penaltyThreshold.Mul(hundred).String(),
				detail.GrossSalary.StringFixed(2)),
		})
	}

	if snap.Status == employee.StatusActive && detail.BaseSalary.IsZero() {
		findings = append(findings, Finding{
			Type:     ExceptionZeroBaseSalary,
			Severity: SeverityMedium,
			Message:  "active employee has a zero base salary",
		})
	}

	if finding, bad := reconcile(detail); bad {
		findings = append(findings, finding)
	}

	return findings
}

// reconcile cross-checks the detail's totals. A mismatch indicates a
// computation or concurrency defect, surfaced loudly rather than corrected.
func reconcile(detail Detail) (Finding, bool) {
	gross := detail.BaseSalary.Add(detail.AllowancesTotal).Add(detail.Bonus).Add(detail.Benefit)
	deductions := detail.TaxAmount.Add(detail.PenaltyTotal).Add(detail.OtherDeductions)
	net := detail.GrossSalary.Sub(detail.DeductionsTotal)

	switch {
	case !gross.Equal(detail.GrossSalary):
		return calcError("gross salary %s does not reconcile to component sum %s",
			detail.GrossSalary, gross), true
	case !deductions.Equal(detail.DeductionsTotal):
		return calcError("deductions total %s does not reconcile to component sum %s",
			detail.DeductionsTotal, deductions), true
	case !net.Equal(detail.NetPay):
		return calcError("net pay %s does not reconcile to gross minus deductions %s",
			detail.NetPay, net), true
	}
	return Finding{}, false
}

func calcError(format string, got, want decimal.Decimal) Finding {
	return Finding{
		Type:     ExceptionCalculationError,
		Severity: SeverityCritical,
		Message:  fmt.Sprintf(format, got.StringFixed(2), want.StringFixed(2)),
	}
}
