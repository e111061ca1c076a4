package payroll

// transitions is the run state machine. PUBLISHED back to DRAFT is the
// rejection-with-edit path; everything else is one-directional.
var transitions = map[string][]string{
	RunStatusDraft:     {RunStatusPublished, RunStatusCancelled},
	RunStatusPublished: {RunStatusApproved, RunStatusDraft, RunStatusCancelled},
	RunStatusApproved:  {RunStatusProcessed},
	RunStatusProcessed: {},
	RunStatusCancelled: {},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition returns a TransitionError when the move is forbidden.
func checkTransition(from, to string) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// Editable reports whether details, adjustments, and resolutions may still
// mutate the run.
func Editable(status string) bool {
	return status == RunStatusDraft
}

// writeGuard gates a detail write on the status read under the run row lock.
// A run that left DRAFT between the caller's check and the write aborts
// instead of landing numbers the publish gate never saw.
func writeGuard(status string) error {
	switch {
	case Editable(status):
		return nil
	case status == RunStatusProcessed:
		return ErrRunFrozen
	default:
		return ErrRunConflict
	}
}
