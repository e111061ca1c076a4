package payroll

// GateInput is the state the publish gate evaluates. It is assembled inside
// the publish transaction so a late adjustment cannot slip past the checks.
type GateInput struct {
	Details             []Detail
	PendingCompensation []string
	// OpenEmployeeIDs are employees with at least one open or in-progress
	// exception, in roster order.
	OpenEmployeeIDs []string
}

// EvaluateGate runs the ordered publish checks. Hard blocks (pending
// compensation, negative net pay) always refuse; soft warnings (missing bank
// details, open exceptions) refuse unless the caller set the override flag.
// The returned GateError enumerates violating employee IDs per condition.
func EvaluateGate(in GateInput, override bool) error {
	gateErr := &GateError{PendingCompensation: in.PendingCompensation}

	for _, detail := range in.Details {
		if detail.NetPay.IsNegative() {
			gateErr.NegativeNetPay = append(gateErr.NegativeNetPay, detail.EmployeeID)
		}
	}

	var missingBank []string
	for _, detail := range in.Details {
		if detail.BankStatus != BankStatusValid {
			missingBank = append(missingBank, detail.EmployeeID)
		}
	}
	if len(missingBank) > 0 {
		gateErr.Warnings = append(gateErr.Warnings, GateWarning{
			Type:        ExceptionMissingBank,
			EmployeeIDs: missingBank,
		})
	}
	if len(in.OpenEmployeeIDs) > 0 {
		gateErr.Warnings = append(gateErr.Warnings, GateWarning{
			Type:        "OPEN_EXCEPTIONS",
			EmployeeIDs: in.OpenEmployeeIDs,
		})
	}

	if gateErr.HardBlocked() {
		return gateErr
	}
	if len(gateErr.Warnings) > 0 && !override {
		return gateErr
	}
	return nil
}
