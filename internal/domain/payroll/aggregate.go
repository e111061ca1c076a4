package payroll

import "github.com/shopspring/decimal"

// RunTotals is the derived aggregate of a run: the net pay summed over every
// detail and the number of employees carrying an unresolved exception.
type RunTotals struct {
	TotalNetPay    decimal.Decimal
	EmployeeCount  int
	ExceptionCount int
}

func runTotals(details []Detail, exceptions []Exception) RunTotals {
	totals := RunTotals{
		TotalNetPay:   decimal.Zero,
		EmployeeCount: len(details),
	}
	for _, detail := range details {
		totals.TotalNetPay = totals.TotalNetPay.Add(detail.NetPay)
	}

	flagged := make(map[string]struct{})
	for _, exc := range exceptions {
		if exc.Status == ExceptionStatusResolved {
			continue
		}
		flagged[exc.EmployeeID] = struct{}{}
	}
	totals.ExceptionCount = len(flagged)
	return totals
}

// exceptionSyncPlan reconciles a fresh detection pass against the stored
// rows for one employee. Resolved rows are inert: never refreshed, never
// reopened, never removed.
type exceptionSyncPlan struct {
	// Upserts are findings to insert or refresh.
	Upserts []Finding
	// Remove holds IDs of unresolved rows whose condition no longer holds.
	Remove []string
}

func planExceptionSync(existing []Exception, findings []Finding) exceptionSyncPlan {
	resolved := make(map[string]bool)
	for _, exc := range existing {
		if exc.Status == ExceptionStatusResolved {
			resolved[exc.Type] = true
		}
	}

	var plan exceptionSyncPlan
	fresh := make(map[string]bool, len(findings))
	for _, finding := range findings {
		fresh[finding.Type] = true
		if resolved[finding.Type] {
			continue
		}
		plan.Upserts = append(plan.Upserts, finding)
	}
	for _, exc := range existing {
		if exc.Status == ExceptionStatusResolved || fresh[exc.Type] {
			continue
		}
		plan.Remove = append(plan.Remove, exc.ID)
	}
	return plan
}
