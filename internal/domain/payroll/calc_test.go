package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrpay/internal/domain/compensation"
	"hrpay/internal/domain/employee"
	"hrpay/internal/domain/payconfig"
	"hrpay/internal/domain/penalty"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func strPtr(value string) *string { return &value }

func standardAllowances() []payconfig.Allowance {
	return []payconfig.Allowance{
		{Name: "Housing Allowance", Amount: dec("2000")},
		{Name: "Transport Allowance", Amount: dec("1000")},
	}
}

func snapshot(base string) employee.Snapshot {
	return employee.Snapshot{
		ID:                "emp-1",
		EmployeeNumber:    "E001",
		FirstName:         "Test",
		LastName:          "Employee",
		Status:            employee.StatusActive,
		BaseSalary:        dec(base),
		BankName:          strPtr("First Bank"),
		BankAccountNumber: strPtr("12345678"),
		HREvent:           employee.EventNormal,
	}
}

func TestComputeTerminationWithPenalty(t *testing.T) {
	snap := snapshot("9000")
	snap.HREvent = employee.EventTermination

	detail := Compute(Inputs{
		Employee:   snap,
		TaxRate:    dec("0.10"),
		Allowances: standardAllowances(),
		Compensation: []compensation.Item{
			{Kind: compensation.KindTerminationBenefit, Amount: dec("5000"), Status: compensation.StatusApproved},
		},
		Penalties: []penalty.Reason{{Reason: "Policy violation", Amount: dec("150")}},
	})

	assert.True(t, detail.GrossSalary.Equal(dec("17000")), "gross = %s", detail.GrossSalary)
	assert.True(t, detail.TaxAmount.Equal(dec("1700")), "tax = %s", detail.TaxAmount)
	assert.True(t, detail.DeductionsTotal.Equal(dec("1850")), "deductions = %s", detail.DeductionsTotal)
	assert.True(t, detail.NetPay.Equal(dec("15150")), "net = %s", detail.NetPay)
}

func TestComputeNewHireWithSigningBonus(t *testing.T) {
	snap := snapshot("15000")
	snap.HREvent = employee.EventNewHire

	detail := Compute(Inputs{
		Employee:   snap,
		TaxRate:    dec("0.10"),
		Allowances: standardAllowances(),
		Compensation: []compensation.Item{
			{Kind: compensation.KindSigningBonus, Amount: dec("5000"), Status: compensation.StatusApproved},
		},
	})

	assert.True(t, detail.GrossSalary.Equal(dec("23000")), "gross = %s", detail.GrossSalary)
	assert.True(t, detail.TaxAmount.Equal(dec("2300")), "tax = %s", detail.TaxAmount)
	assert.True(t, detail.NetPay.Equal(dec("20700")), "net = %s", detail.NetPay)
}

func TestComputeNegativeNetPayNotFloored(t *testing.T) {
	detail := Compute(Inputs{
		Employee:  snapshot("5000"),
		TaxRate:   dec("0.10"),
		Penalties: []penalty.Reason{{Reason: "Recovery", Amount: dec("6000")}},
	})

	require.True(t, detail.NetPay.IsNegative(), "net pay should stay negative, got %s", detail.NetPay)
	assert.True(t, detail.NetPay.Equal(dec("-1500")), "net = %s", detail.NetPay)
}

func TestComputeApprovedItemsCountedExactlyOnce(t *testing.T) {
	// Two items approved by two concurrent operators must each land once.
	detail := Compute(Inputs{
		Employee: snapshot("10000"),
		TaxRate:  dec("0.10"),
		Compensation: []compensation.Item{
			{Kind: compensation.KindSigningBonus, Amount: dec("2000"), Status: compensation.StatusApproved},
			{Kind: compensation.KindTerminationBenefit, Amount: dec("3000"), Status: compensation.StatusApproved},
		},
	})

	assert.True(t, detail.Bonus.Equal(dec("2000")), "bonus = %s", detail.Bonus)
	assert.True(t, detail.Benefit.Equal(dec("3000")), "benefit = %s", detail.Benefit)
	assert.True(t, detail.GrossSalary.Equal(dec("15000")), "gross = %s", detail.GrossSalary)
}

func TestComputeAdjustmentFolding(t *testing.T) {
	tests := []struct {
		name      string
		kind      string
		wantGross string
		wantNet   string
	}{
		// A bonus adjustment raises gross and is taxed.
		{"bonus adjustment taxed", AdjustmentBonus, "11000", "9900"},
		{"benefit adjustment taxed", AdjustmentBenefit, "11000", "9900"},
		// A deduction adjustment never touches gross or tax.
		{"deduction adjustment untaxed", AdjustmentDeduction, "10000", "8000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := Compute(Inputs{
				Employee:    snapshot("10000"),
				TaxRate:     dec("0.10"),
				Adjustments: []Adjustment{{Kind: tt.kind, Amount: dec("1000"), Reason: "correction"}},
			})
			assert.True(t, detail.GrossSalary.Equal(dec(tt.wantGross)), "gross = %s", detail.GrossSalary)
			assert.True(t, detail.NetPay.Equal(dec(tt.wantNet)), "net = %s", detail.NetPay)
		})
	}
}

func TestComputeDeterministic(t *testing.T) {
	inputs := Inputs{
		Employee:   snapshot("12000"),
		TaxRate:    dec("0.10"),
		Allowances: standardAllowances(),
		Compensation: []compensation.Item{
			{Kind: compensation.KindSigningBonus, Amount: dec("500"), Status: compensation.StatusApproved},
		},
		Penalties: []penalty.Reason{{Reason: "Late", Amount: dec("75.50")}},
	}

	first := Compute(inputs)
	second := Compute(inputs)
	assert.True(t, first.NetPay.Equal(second.NetPay))
	assert.True(t, first.GrossSalary.Equal(second.GrossSalary))
	assert.True(t, first.DeductionsTotal.Equal(second.DeductionsTotal))
}

func TestComputeEmptyInputsAreZero(t *testing.T) {
	detail := Compute(Inputs{Employee: snapshot("8000"), TaxRate: dec("0.10")})

	assert.True(t, detail.Bonus.IsZero())
	assert.True(t, detail.Benefit.IsZero())
	assert.True(t, detail.PenaltyTotal.IsZero())
	assert.True(t, detail.GrossSalary.Equal(dec("8000")))
	assert.True(t, detail.NetPay.Equal(dec("7200")))
}

func TestComputeTotalsReconcile(t *testing.T) {
	detail := Compute(Inputs{
		Employee:   snapshot("13333.33"),
		TaxRate:    dec("0.10"),
		Allowances: standardAllowances(),
		Penalties:  []penalty.Reason{{Reason: "Late", Amount: dec("12.34")}},
	})

	wantNet := detail.BaseSalary.Add(detail.AllowancesTotal).Add(detail.Bonus).Add(detail.Benefit).
		Sub(detail.TaxAmount).Sub(detail.PenaltyTotal)
	require.True(t, detail.NetPay.Equal(wantNet), "net %s != reconstructed %s", detail.NetPay, wantNet)

	_, bad := reconcile(detail)
	assert.False(t, bad, "freshly computed detail must reconcile")
}

func TestBankStatus(t *testing.T) {
	tests := []struct {
		name    string
		bank    *string
		account *string
		want    string
	}{
		{"both present", strPtr("Bank"), strPtr("123"), BankStatusValid},
		{"both missing", nil, nil, BankStatusMissing},
		{"account missing", strPtr("Bank"), nil, BankStatusInvalid},
		{"blank account", strPtr("Bank"), strPtr("  "), BankStatusInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshot("1000")
			snap.BankName = tt.bank
			snap.BankAccountNumber = tt.account
			assert.Equal(t, tt.want, Compute(Inputs{Employee: snap, TaxRate: dec("0.10")}).BankStatus)
		})
	}
}
