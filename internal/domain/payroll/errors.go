package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrRunNotFound       = errors.New("payroll run not found")
	ErrDetailNotFound    = errors.New("payroll detail not found")
	ErrExceptionNotFound = errors.New("payroll exception not found")
	ErrRunFrozen         = errors.New("payroll run is processed and frozen")
	ErrEmptyRoster       = errors.New("payroll run requires at least one employee")
	ErrMissingReason     = errors.New("a non-empty reason is required")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSelfApproval      = errors.New("a run cannot be approved by the actor who published it")
	ErrRunConflict       = errors.New("payroll run was modified concurrently")
)

// TransitionError reports an attempted lifecycle move that the state machine
// forbids, carrying the current state so the caller sees why.
type TransitionError struct {
	From, To string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition run from %s to %s", e.From, e.To)
}

// GateError is the structured outcome of a refused publish. Hard blocks list
// the violating employee IDs per condition; warnings are the soft conditions
// an override would have acknowledged.
type GateError struct {
	PendingCompensation []string      `json:"pendingCompensation,omitempty"`
	NegativeNetPay      []string      `json:"negativeNetPay,omitempty"`
	Warnings            []GateWarning `json:"warnings,omitempty"`
}

type GateWarning struct {
	Type        string   `json:"type"`
	EmployeeIDs []string `json:"employeeIds"`
}

func (e *GateError) Error() string {
	if e.HardBlocked() {
		return fmt.Sprintf("publish blocked: %d employees with pending compensation, %d with negative net pay",
			len(e.PendingCompensation), len(e.NegativeNetPay))
	}
	return fmt.Sprintf("publish requires confirmation: %d warnings", len(e.Warnings))
}

func (e *GateError) HardBlocked() bool {
	return len(e.PendingCompensation) > 0 || len(e.NegativeNetPay) > 0
}
