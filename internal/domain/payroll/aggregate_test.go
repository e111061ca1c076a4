package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTotalsMatchDetails(t *testing.T) {
	details := []Detail{
		{EmployeeID: "e1", NetPay: dec("15150.00")},
		{EmployeeID: "e2", NetPay: dec("20700.00")},
		{EmployeeID: "e3", NetPay: dec("-1500.00")},
	}
	exceptions := []Exception{
		{EmployeeID: "e1", Type: ExceptionMissingBank, Status: ExceptionStatusOpen},
		{EmployeeID: "e1", Type: ExceptionExcessivePenalty, Status: ExceptionStatusInProgress},
		{EmployeeID: "e3", Type: ExceptionNegativeNetPay, Status: ExceptionStatusOpen},
	}

	totals := runTotals(details, exceptions)

	assert.True(t, totals.TotalNetPay.Equal(dec("34350.00")),
		"total net pay %s must equal the detail sum", totals.TotalNetPay)
	assert.Equal(t, 3, totals.EmployeeCount)
	// Two exceptions on e1 still count the employee once.
	assert.Equal(t, 2, totals.ExceptionCount)
}

func TestRunTotalsIgnoreResolvedExceptions(t *testing.T) {
	details := []Detail{{EmployeeID: "e1", NetPay: dec("9000")}}
	exceptions := []Exception{
		{EmployeeID: "e1", Type: ExceptionMissingBank, Status: ExceptionStatusResolved},
	}

	totals := runTotals(details, exceptions)

	assert.Equal(t, 0, totals.ExceptionCount,
		"a fully resolved employee must not count toward the exception total")
	assert.True(t, totals.TotalNetPay.Equal(dec("9000")))
}

func TestRunTotalsEmptyRun(t *testing.T) {
	totals := runTotals(nil, nil)
	assert.True(t, totals.TotalNetPay.IsZero())
	assert.Equal(t, 0, totals.EmployeeCount)
	assert.Equal(t, 0, totals.ExceptionCount)
}

func TestPlanExceptionSyncDoesNotReopenResolved(t *testing.T) {
	existing := []Exception{
		{ID: "x1", Type: ExceptionMissingBank, Status: ExceptionStatusResolved},
	}
	findings := []Finding{
		{Type: ExceptionMissingBank, Severity: SeverityHigh},
	}

	plan := planExceptionSync(existing, findings)

	assert.Empty(t, plan.Upserts, "a resolved type must not be written again")
	assert.Empty(t, plan.Remove, "resolved rows are retained")
}

func TestPlanExceptionSyncRemovesClearedRows(t *testing.T) {
	existing := []Exception{
		{ID: "x1", Type: ExceptionZeroBaseSalary, Status: ExceptionStatusOpen},
		{ID: "x2", Type: ExceptionMissingBank, Status: ExceptionStatusResolved},
	}

	plan := planExceptionSync(existing, nil)

	require.Len(t, plan.Remove, 1)
	assert.Equal(t, "x1", plan.Remove[0])
	assert.Empty(t, plan.Upserts)
}

func TestPlanExceptionSyncRefreshesOpenRows(t *testing.T) {
	existing := []Exception{
		{ID: "x1", Type: ExceptionNegativeNetPay, Status: ExceptionStatusInProgress},
	}
	findings := []Finding{
		{Type: ExceptionNegativeNetPay, Severity: SeverityCritical, Message: "net pay is negative (-200.00)"},
		{Type: ExceptionExcessivePenalty, Severity: SeverityMedium},
	}

	plan := planExceptionSync(existing, findings)

	require.Len(t, plan.Upserts, 2)
	assert.Empty(t, plan.Remove)
}
