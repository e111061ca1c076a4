package payroll

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanDetail(employeeID, net string) Detail {
	return Detail{EmployeeID: employeeID, NetPay: dec(net), BankStatus: BankStatusValid}
}

func asGateError(t *testing.T, err error) *GateError {
	t.Helper()
	var gateErr *GateError
	require.True(t, errors.As(err, &gateErr), "expected GateError, got %v", err)
	return gateErr
}

func TestGatePassesCleanRun(t *testing.T) {
	in := GateInput{Details: []Detail{cleanDetail("emp-1", "15150"), cleanDetail("emp-2", "20700")}}
	assert.NoError(t, EvaluateGate(in, false))
}

func TestGateHardBlocksPendingCompensation(t *testing.T) {
	in := GateInput{
		Details:             []Detail{cleanDetail("emp-1", "15150")},
		PendingCompensation: []string{"emp-1"},
	}

	err := EvaluateGate(in, false)
	gateErr := asGateError(t, err)
	assert.True(t, gateErr.HardBlocked())
	assert.Equal(t, []string{"emp-1"}, gateErr.PendingCompensation)

	// An override never bypasses a hard block.
	assert.Error(t, EvaluateGate(in, true))
}

func TestGateHardBlocksNegativeNetPay(t *testing.T) {
	in := GateInput{Details: []Detail{
		cleanDetail("emp-1", "15150"),
		cleanDetail("emp-2", "-1500"),
	}}

	gateErr := asGateError(t, EvaluateGate(in, false))
	assert.True(t, gateErr.HardBlocked())
	assert.Equal(t, []string{"emp-2"}, gateErr.NegativeNetPay)
	assert.Error(t, EvaluateGate(in, true))
}

func TestGateMissingBankIsSoftWarning(t *testing.T) {
	missing := cleanDetail("emp-3", "8000")
	missing.BankStatus = BankStatusMissing
	in := GateInput{Details: []Detail{cleanDetail("emp-1", "15150"), missing}}

	gateErr := asGateError(t, EvaluateGate(in, false))
	assert.False(t, gateErr.HardBlocked())
	require.Len(t, gateErr.Warnings, 1)
	assert.Equal(t, ExceptionMissingBank, gateErr.Warnings[0].Type)
	assert.Equal(t, []string{"emp-3"}, gateErr.Warnings[0].EmployeeIDs)

	assert.NoError(t, EvaluateGate(in, true), "override must publish past soft warnings")
}

func TestGateOpenExceptionsAreSoftWarning(t *testing.T) {
	in := GateInput{
		Details:         []Detail{cleanDetail("emp-1", "15150")},
		OpenEmployeeIDs: []string{"emp-1"},
	}

	gateErr := asGateError(t, EvaluateGate(in, false))
	assert.False(t, gateErr.HardBlocked())
	require.Len(t, gateErr.Warnings, 1)
	assert.Equal(t, "OPEN_EXCEPTIONS", gateErr.Warnings[0].Type)

	assert.NoError(t, EvaluateGate(in, true))
}

func TestGateEnumeratesAllViolations(t *testing.T) {
	negative := cleanDetail("emp-2", "-10")
	noBank := cleanDetail("emp-3", "500")
	noBank.BankStatus = BankStatusInvalid
	in := GateInput{
		Details:             []Detail{cleanDetail("emp-1", "100"), negative, noBank},
		PendingCompensation: []string{"emp-1", "emp-3"},
		OpenEmployeeIDs:     []string{"emp-2"},
	}

	gateErr := asGateError(t, EvaluateGate(in, false))
	assert.Equal(t, []string{"emp-1", "emp-3"}, gateErr.PendingCompensation)
	assert.Equal(t, []string{"emp-2"}, gateErr.NegativeNetPay)
	assert.Len(t, gateErr.Warnings, 2)
}
