package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrpay/internal/domain/penalty"
)

func TestBuildPayslipReconcilesWithDetail(t *testing.T) {
	run := Run{ID: "run-1", RunID: "PR-2025-001", PayrollPeriod: "2025-01", TaxRate: dec("0.10")}
	in := Inputs{
		Employee:    snapshot("9000"),
		TaxRate:     run.TaxRate,
		Allowances:  standardAllowances(),
		Penalties:   []penalty.Reason{{Reason: "Policy violation", Amount: dec("150")}},
		Adjustments: []Adjustment{{Kind: AdjustmentDeduction, Amount: dec("50"), Reason: "meal card"}},
	}
	detail := Compute(in)

	slip := buildPayslip(run, detail, in)

	earningsSum := dec("0")
	for _, line := range slip.Earnings {
		earningsSum = earningsSum.Add(line.Amount)
	}
	deductionsSum := dec("0")
	for _, line := range slip.Deductions {
		deductionsSum = deductionsSum.Add(line.Amount)
	}

	assert.True(t, earningsSum.Equal(slip.TotalGrossSalary), "earnings %s != gross %s", earningsSum, slip.TotalGrossSalary)
	assert.True(t, deductionsSum.Equal(slip.TotalDeductions), "deductions %s != total %s", deductionsSum, slip.TotalDeductions)
	assert.True(t, slip.NetPay.Equal(detail.NetPay))
	assert.Equal(t, PaymentStatusPending, slip.PaymentStatus)
}

func TestRenderPayslipPDF(t *testing.T) {
	run := Run{ID: "run-1", RunID: "PR-2025-001", PayrollPeriod: "2025-01", TaxRate: dec("0.10")}
	in := Inputs{Employee: snapshot("15000"), TaxRate: run.TaxRate, Allowances: standardAllowances()}
	detail := Compute(in)
	slip := buildPayslip(run, detail, in)

	pdfBytes, err := RenderPayslipPDF(run, slip)
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}
