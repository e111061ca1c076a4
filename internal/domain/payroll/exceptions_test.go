package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrpay/internal/domain/employee"
	"hrpay/internal/domain/penalty"
)

func detect(t *testing.T, in Inputs) []Finding {
	t.Helper()
	return Detect(Compute(in), in.Employee, dec("0.25"))
}

func findingTypes(findings []Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Type)
	}
	return out
}

func TestDetectMissingBankDetails(t *testing.T) {
	snap := snapshot("9000")
	snap.BankName = nil
	snap.BankAccountNumber = nil

	findings := detect(t, Inputs{Employee: snap, TaxRate: dec("0.10")})

	require.Len(t, findings, 1, "exactly one finding expected, got %v", findingTypes(findings))
	assert.Equal(t, ExceptionMissingBank, findings[0].Type)
	assert.Equal(t, SeverityHigh, findings[0].Severity)
}

func TestDetectNegativeNetPay(t *testing.T) {
	findings := detect(t, Inputs{
		Employee:  snapshot("5000"),
		TaxRate:   dec("0.10"),
		Penalties: []penalty.Reason{{Reason: "Recovery", Amount: dec("6000")}},
	})

	types := findingTypes(findings)
	assert.Contains(t, types, ExceptionNegativeNetPay)
	// Penalties above a quarter of gross also fire independently.
	assert.Contains(t, types, ExceptionExcessivePenalty)
	for _, f := range findings {
		if f.Type == ExceptionNegativeNetPay {
			assert.Equal(t, SeverityCritical, f.Severity)
		}
	}
}

func TestDetectExcessivePenalties(t *testing.T) {
	findings := detect(t, Inputs{
		Employee:  snapshot("10000"),
		TaxRate:   dec("0.10"),
		Penalties: []penalty.Reason{{Reason: "Damages", Amount: dec("2501")}},
	})
	assert.Contains(t, findingTypes(findings), ExceptionExcessivePenalty)

	// At exactly the threshold nothing fires.
	findings = detect(t, Inputs{
		Employee:  snapshot("10000"),
		TaxRate:   dec("0.10"),
		Penalties: []penalty.Reason{{Reason: "Damages", Amount: dec("2500")}},
	})
	assert.NotContains(t, findingTypes(findings), ExceptionExcessivePenalty)
}

func TestDetectZeroBaseSalary(t *testing.T) {
	findings := detect(t, Inputs{Employee: snapshot("0"), TaxRate: dec("0.10")})
	assert.Contains(t, findingTypes(findings), ExceptionZeroBaseSalary)

	inactive := snapshot("0")
	inactive.Status = employee.StatusInactive
	findings = detect(t, Inputs{Employee: inactive, TaxRate: dec("0.10")})
	assert.NotContains(t, findingTypes(findings), ExceptionZeroBaseSalary)
}

func TestDetectCalculationError(t *testing.T) {
	in := Inputs{Employee: snapshot("9000"), TaxRate: dec("0.10")}
	detail := Compute(in)
	detail.NetPay = detail.NetPay.Add(dec("1"))

	findings := Detect(detail, in.Employee, dec("0.25"))
	require.Contains(t, findingTypes(findings), ExceptionCalculationError)
	for _, f := range findings {
		if f.Type == ExceptionCalculationError {
			assert.Equal(t, SeverityCritical, f.Severity)
		}
	}
}

func TestDetectCleanDetailHasNoFindings(t *testing.T) {
	findings := detect(t, Inputs{
		Employee:   snapshot("15000"),
		TaxRate:    dec("0.10"),
		Allowances: standardAllowances(),
	})
	assert.Empty(t, findings, "unexpected findings: %v", findingTypes(findings))
}

func TestDetectIdempotent(t *testing.T) {
	in := Inputs{
		Employee:  snapshot("5000"),
		TaxRate:   dec("0.10"),
		Penalties: []penalty.Reason{{Reason: "Recovery", Amount: dec("6000")}},
	}
	in.Employee.BankName = nil
	in.Employee.BankAccountNumber = nil

	first := detect(t, in)
	second := detect(t, in)
	assert.Equal(t, first, second, "detection on unchanged input must be identical")
}
