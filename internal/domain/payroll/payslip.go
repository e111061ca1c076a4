package payroll

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// buildPayslip renders a detail into its employee-facing form with itemized
// earnings and deductions. Lines come from the same inputs the computation
// used, so payslip totals always reconcile with the detail.
func buildPayslip(run Run, detail Detail, inputs Inputs) Payslip {
	var earnings []PayslipLine
	earnings = append(earnings, PayslipLine{Label: "Base Salary", Amount: detail.BaseSalary})
	for _, allowance := range inputs.Allowances {
		earnings = append(earnings, PayslipLine{Label: allowance.Name, Amount: allowance.Amount})
	}
	if detail.Bonus.IsPositive() {
		earnings = append(earnings, PayslipLine{Label: "Bonuses", Amount: detail.Bonus})
	}
	if detail.Benefit.IsPositive() {
		earnings = append(earnings, PayslipLine{Label: "Benefits", Amount: detail.Benefit})
	}

	var deductions []PayslipLine
	deductions = append(deductions, PayslipLine{
		Label:  fmt.Sprintf("Income Tax (%s%%)", run.TaxRate.Mul(hundred).String()),
		Amount: detail.TaxAmount,
	})
	for _, reason := range inputs.Penalties {
		deductions = append(deductions, PayslipLine{Label: "Penalty: " + reason.Reason, Amount: reason.Amount})
	}
	for _, adj := range inputs.Adjustments {
		if adj.Kind == AdjustmentDeduction {
			deductions = append(deductions, PayslipLine{Label: "Adjustment: " + adj.Reason, Amount: adj.Amount})
		}
	}

	return Payslip{
		RunID:            run.ID,
		EmployeeID:       detail.EmployeeID,
		EmployeeName:     detail.EmployeeName,
		Period:           run.PayrollPeriod,
		Earnings:         earnings,
		Deductions:       deductions,
		TotalGrossSalary: detail.GrossSalary,
		TotalDeductions:  detail.DeductionsTotal,
		NetPay:           detail.NetPay,
		PaymentStatus:    PaymentStatusPending,
	}
}

// RenderPayslipPDF produces the downloadable payslip document.
func RenderPayslipPDF(run Run, slip Payslip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Run: %s    Period: %s", run.RunID, slip.Period))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Employee: "+slip.EmployeeName)
	pdf.Ln(12)

	writeSection := func(title string, lines []PayslipLine) {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, title)
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
		for _, line := range lines {
			pdf.Cell(120, 6, line.Label)
			pdf.CellFormat(50, 6, line.Amount.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	writeSection("Earnings", slip.Earnings)
	writeSection("Deductions", slip.Deductions)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(120, 7, "Gross Salary")
	pdf.CellFormat(50, 7, slip.TotalGrossSalary.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(7)
	pdf.Cell(120, 7, "Total Deductions")
	pdf.CellFormat(50, 7, slip.TotalDeductions.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(7)
	pdf.Cell(120, 7, "Net Pay")
	pdf.CellFormat(50, 7, slip.NetPay.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(0, 6, "Payment status: "+slip.PaymentStatus)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
