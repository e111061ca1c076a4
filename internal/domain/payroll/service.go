package payroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hrpay/internal/domain/compensation"
	"hrpay/internal/domain/employee"
	"hrpay/internal/domain/payconfig"
	"hrpay/internal/domain/penalty"
)

// Service orchestrates the pay computation engine, the exception detector,
// and the run lifecycle over persistent state.
type Service struct {
	DB        *pgxpool.Pool
	Employees *employee.Store
	Config    *payconfig.Store
	Comp      *compensation.Service
	Penalties *penalty.Store

	// PenaltyThreshold is the fraction of gross above which penalties are
	// flagged as excessive.
	PenaltyThreshold decimal.Decimal

	locks *detailLocks
}

func NewService(db *pgxpool.Pool, penaltyThreshold decimal.Decimal) *Service {
	return &Service{
		DB:               db,
		Employees:        employee.NewStore(db),
		Config:           payconfig.NewStore(db),
		Comp:             compensation.NewService(db),
		Penalties:        penalty.NewStore(db),
		PenaltyThreshold: penaltyThreshold,
		locks:            newDetailLocks(),
	}
}

type CreateRunInput struct {
	Period string
	Entity string
	// EmployeeIDs is the explicit roster. When empty the active employees of
	// the entity's department are enrolled.
	EmployeeIDs  []string
	SpecialistID string
}

// CreateRun opens a draft run and computes every enrolled employee. A
// missing or ambiguous tax configuration fails the whole run up front;
// nothing is persisted in that case.
func (s *Service) CreateRun(ctx context.Context, input CreateRunInput) (Run, error) {
	rule, err := s.Config.ActiveTaxRule(ctx)
	if err != nil {
		return Run{}, err
	}

	var roster []employee.Snapshot
	if len(input.EmployeeIDs) > 0 {
		roster, err = s.Employees.ListByIDs(ctx, input.EmployeeIDs)
	} else {
		roster, err = s.Employees.ListByDepartment(ctx, input.Entity)
	}
	if err != nil {
		return Run{}, err
	}
	if len(roster) == 0 {
		return Run{}, ErrEmptyRoster
	}
	if len(input.EmployeeIDs) > 0 && len(roster) != len(input.EmployeeIDs) {
		return Run{}, employee.ErrNotFound
	}

	run, err := s.insertRun(ctx, input, rule.Rate, len(roster))
	if err != nil {
		return Run{}, err
	}

	for _, snap := range roster {
		if _, err := s.computeAndStore(ctx, run, snap); err != nil {
			return Run{}, fmt.Errorf("compute employee %s: %w", snap.ID, err)
		}
	}

	if err := s.recomputeAggregate(ctx, run.ID); err != nil {
		return Run{}, err
	}
	return s.getRun(ctx, run.ID)
}

// EmployeeDetail pairs a detail with its current exception set for review.
type EmployeeDetail struct {
	Detail     Detail      `json:"detail"`
	Exceptions []Exception `json:"exceptions"`
}

type RunDraft struct {
	Run       Run              `json:"run"`
	Employees []EmployeeDetail `json:"employees"`
}

func (s *Service) GetRunDraft(ctx context.Context, runID string) (RunDraft, error) {
	run, err := s.getRun(ctx, runID)
	if err != nil {
		return RunDraft{}, err
	}
	details, err := s.listDetails(ctx, run.ID)
	if err != nil {
		return RunDraft{}, err
	}
	exceptions, err := s.listExceptions(ctx, run.ID, "")
	if err != nil {
		return RunDraft{}, err
	}

	byEmployee := make(map[string][]Exception)
	for _, exc := range exceptions {
		byEmployee[exc.EmployeeID] = append(byEmployee[exc.EmployeeID], exc)
	}

	draft := RunDraft{Run: run}
	for _, detail := range details {
		draft.Employees = append(draft.Employees, EmployeeDetail{
			Detail:     detail,
			Exceptions: byEmployee[detail.EmployeeID],
		})
	}
	return draft, nil
}

func (s *Service) GetRun(ctx context.Context, runID string) (Run, error) {
	return s.getRun(ctx, runID)
}

func (s *Service) ListRuns(ctx context.Context, status string, limit, offset int) ([]Run, int, error) {
	return s.listRuns(ctx, status, limit, offset)
}

func (s *Service) ListExceptions(ctx context.Context, runID, status string) ([]Exception, error) {
	run, err := s.getRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.listExceptions(ctx, run.ID, status)
}

func (s *Service) ListAdjustments(ctx context.Context, runID string) ([]Adjustment, error) {
	run, err := s.getRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.listAdjustments(ctx, run.ID)
}

func (s *Service) ListPayslips(ctx context.Context, runID string) ([]Payslip, error) {
	run, err := s.getRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return s.listPayslips(ctx, run.ID)
}

func (s *Service) GetPayslip(ctx context.Context, runID, employeeID string) (Payslip, error) {
	run, err := s.getRun(ctx, runID)
	if err != nil {
		return Payslip{}, err
	}
	return s.getPayslip(ctx, run.ID, employeeID)
}

type AdjustmentInput struct {
	EmployeeID string
	Kind       string
	Amount     decimal.Decimal
	Reason     string
	CreatedBy  string
}

// CreateAdjustment records a manual correction and recomputes only the
// affected employee.
func (s *Service) CreateAdjustment(ctx context.Context, runID string, input AdjustmentInput) (Detail, error) {
	if !ValidAdjustmentKind(input.Kind) {
		return Detail{}, fmt.Errorf("invalid adjustment kind %q", input.Kind)
	}
	if !input.Amount.IsPositive() {
		return Detail{}, ErrInvalidAmount
	}
	if strings.TrimSpace(input.Reason) == "" {
		return Detail{}, ErrMissingReason
	}

	run, err := s.getRun(ctx, runID)
	if err != nil {
		return Detail{}, err
	}
	if !Editable(run.Status) {
		if run.Status == RunStatusProcessed {
			return Detail{}, ErrRunFrozen
		}
		return Detail{}, &TransitionError{From: run.Status, To: RunStatusDraft}
	}
	if _, err := s.getDetail(ctx, run.ID, input.EmployeeID); err != nil {
		return Detail{}, err
	}

	if err := s.insertAdjustment(ctx, run.ID, input); err != nil {
		return Detail{}, err
	}
	return s.RecomputeEmployee(ctx, runID, input.EmployeeID)
}

// RecomputeEmployee recomputes a single employee's detail, payslip, and
// exception set under the per-(run, employee) lock, then refreshes the run
// aggregate.
func (s *Service) RecomputeEmployee(ctx context.Context, runID, employeeID string) (Detail, error) {
	run, err := s.getRun(ctx, runID)
	if err != nil {
		return Detail{}, err
	}
	if !Editable(run.Status) {
		if run.Status == RunStatusProcessed {
			return Detail{}, ErrRunFrozen
		}
		return Detail{}, &TransitionError{From: run.Status, To: RunStatusDraft}
	}

	snap, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return Detail{}, err
	}

	detail, err := s.computeAndStore(ctx, run, snap)
	if err != nil {
		return Detail{}, err
	}
	if err := s.recomputeAggregate(ctx, run.ID); err != nil {
		return Detail{}, err
	}
	return detail, nil
}

// RecomputeEmployeeEverywhere refreshes the employee in every draft run they
// appear in. Compensation decisions call this so approved amounts land
// without a full-run recompute.
func (s *Service) RecomputeEmployeeEverywhere(ctx context.Context, employeeID string) error {
	runIDs, err := s.draftRunIDsForEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	for _, runID := range runIDs {
		if _, err := s.RecomputeEmployee(ctx, runID, employeeID); err != nil {
			return err
		}
	}
	return nil
}

// computeAndStore runs the engine and detector for one employee and persists
// detail, payslip, and exception rows in one transaction. The whole
// computation either lands or it doesn't; no partial detail is persisted.
// The run row is share-locked for the duration of the write, so the result
// cannot commit into a run that is concurrently leaving DRAFT.
func (s *Service) computeAndStore(ctx context.Context, run Run, snap employee.Snapshot) (Detail, error) {
	unlock := s.locks.lock(run.ID, snap.ID)
	defer unlock()

	allowances, err := s.Config.ListApprovedAllowances(ctx)
	if err != nil {
		return Detail{}, err
	}
	approved, err := s.Comp.ListApprovedForEmployee(ctx, snap.ID)
	if err != nil {
		return Detail{}, err
	}
	penalties, err := s.Penalties.ListForEmployee(ctx, snap.ID)
	if err != nil {
		return Detail{}, err
	}
	adjustments, err := s.listAdjustmentsForEmployee(ctx, run.ID, snap.ID)
	if err != nil {
		return Detail{}, err
	}

	inputs := Inputs{
		Employee:     snap,
		TaxRate:      run.TaxRate,
		Allowances:   allowances,
		Compensation: approved,
		Penalties:    penalties,
		Adjustments:  adjustments,
	}
	detail := Compute(inputs)
	detail.RunID = run.ID
	findings := Detect(detail, snap, s.PenaltyThreshold)
	payslip := buildPayslip(run, detail, inputs)

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Detail{}, err
	}
	defer tx.Rollback(ctx)

	status, err := s.lockRunStatus(ctx, tx, run.ID)
	if err != nil {
		return Detail{}, err
	}
	if err := writeGuard(status); err != nil {
		return Detail{}, err
	}

	stored, err := s.upsertDetail(ctx, tx, detail)
	if err != nil {
		return Detail{}, err
	}
	if err := s.upsertPayslip(ctx, tx, payslip); err != nil {
		return Detail{}, err
	}
	if err := s.syncExceptions(ctx, tx, run.ID, snap.ID, findings); err != nil {
		return Detail{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Detail{}, err
	}
	return stored, nil
}

// recomputeAggregate rebuilds totalNetPay and exceptionCount from the
// current details. Optimistic versioning: if another writer bumped the run
// version mid-computation, recompute from fresh state and try again.
func (s *Service) recomputeAggregate(ctx context.Context, runUUID string) error {
	const maxAttempts = 5
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ok, err := s.tryRecomputeAggregate(ctx, runUUID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrRunConflict
}

// Publish moves DRAFT to PUBLISHED. The run row is locked and the gate
// evaluated against current state inside the same transaction, so the
// check and the transition commit atomically.
func (s *Service) Publish(ctx context.Context, runID, actorID string, override bool) (Run, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback(ctx)

	run, err := s.getRunForUpdate(ctx, tx, runID)
	if err != nil {
		return Run{}, err
	}
	if err := checkTransition(run.Status, RunStatusPublished); err != nil {
		return Run{}, err
	}

	gateIn, err := s.gateInput(ctx, tx, run.ID)
	if err != nil {
		return Run{}, err
	}
	if err := EvaluateGate(gateIn, override); err != nil {
		return Run{}, err
	}

	updated, err := s.transitionRun(ctx, tx, run.ID, run.Status, RunStatusPublished, map[string]any{
		"published_by": actorID,
		"published_at": time.Now(),
	})
	if err != nil {
		return Run{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Run{}, err
	}
	return updated, nil
}

// ApproveRun requires a different actor than the one who published.
func (s *Service) ApproveRun(ctx context.Context, runID, actorID string) (Run, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback(ctx)

	run, err := s.getRunForUpdate(ctx, tx, runID)
	if err != nil {
		return Run{}, err
	}
	if err := checkTransition(run.Status, RunStatusApproved); err != nil {
		return Run{}, err
	}
	if run.PublishedBy != nil && *run.PublishedBy == actorID {
		return Run{}, ErrSelfApproval
	}

	updated, err := s.transitionRun(ctx, tx, run.ID, run.Status, RunStatusApproved, map[string]any{
		"approved_by": actorID,
		"approved_at": time.Now(),
	})
	if err != nil {
		return Run{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Run{}, err
	}
	return updated, nil
}

// RejectRun sends a published run back to draft for edits.
func (s *Service) RejectRun(ctx context.Context, runID, actorID string) (Run, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback(ctx)

	run, err := s.getRunForUpdate(ctx, tx, runID)
	if err != nil {
		return Run{}, err
	}
	if err := checkTransition(run.Status, RunStatusDraft); err != nil {
		return Run{}, err
	}

	updated, err := s.transitionRun(ctx, tx, run.ID, run.Status, RunStatusDraft, map[string]any{
		"published_by": nil,
		"published_at": nil,
	})
	if err != nil {
		return Run{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Run{}, err
	}
	return updated, nil
}

// MarkProcessed records disbursement. Payslips flip to paid except those
// whose employee still has no valid bank details; those stay pending and
// unpayable. The run freezes: no further adjustments or recomputes.
func (s *Service) MarkProcessed(ctx context.Context, runID, actorID string) (Run, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback(ctx)

	run, err := s.getRunForUpdate(ctx, tx, runID)
	if err != nil {
		return Run{}, err
	}
	if err := checkTransition(run.Status, RunStatusProcessed); err != nil {
		return Run{}, err
	}

	updated, err := s.transitionRun(ctx, tx, run.ID, run.Status, RunStatusProcessed, map[string]any{
		"payment_status": PaymentStatusPaid,
		"processed_at":   time.Now(),
	})
	if err != nil {
		return Run{}, err
	}
	if err := s.markPayslipsPaid(ctx, tx, run.ID); err != nil {
		return Run{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Run{}, err
	}
	return updated, nil
}

func (s *Service) CancelRun(ctx context.Context, runID, actorID string) (Run, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback(ctx)

	run, err := s.getRunForUpdate(ctx, tx, runID)
	if err != nil {
		return Run{}, err
	}
	if err := checkTransition(run.Status, RunStatusCancelled); err != nil {
		return Run{}, err
	}

	updated, err := s.transitionRun(ctx, tx, run.ID, run.Status, RunStatusCancelled, nil)
	if err != nil {
		return Run{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Run{}, err
	}
	return updated, nil
}

type ResolveExceptionInput struct {
	ExceptionID string
	Note        string
	BankDetails *employee.BankDetails
	ResolvedBy  string
}

// ResolveException closes an exception with a mandatory note. When bank
// details accompany the resolution, the employee record update and the
// exception transition commit in one transaction; the employee is then
// recomputed. Resolving an already-resolved exception is a no-op.
func (s *Service) ResolveException(ctx context.Context, runID string, input ResolveExceptionInput) (Detail, error) {
	if strings.TrimSpace(input.Note) == "" {
		return Detail{}, ErrMissingReason
	}

	run, err := s.getRun(ctx, runID)
	if err != nil {
		return Detail{}, err
	}
	exc, err := s.getException(ctx, run.ID, input.ExceptionID)
	if err != nil {
		return Detail{}, err
	}
	if exc.Status == ExceptionStatusResolved {
		return s.getDetail(ctx, run.ID, exc.EmployeeID)
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Detail{}, err
	}
	defer tx.Rollback(ctx)

	if input.BankDetails != nil {
		if err := s.Employees.UpdateBankDetailsTx(ctx, tx, exc.EmployeeID, *input.BankDetails); err != nil {
			return Detail{}, err
		}
	}
	if err := s.resolveExceptionTx(ctx, tx, exc.ID, input.Note, input.ResolvedBy); err != nil {
		return Detail{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Detail{}, err
	}

	if Editable(run.Status) {
		return s.RecomputeEmployee(ctx, runID, exc.EmployeeID)
	}
	if err := s.recomputeAggregate(ctx, run.ID); err != nil {
		return Detail{}, err
	}
	return s.getDetail(ctx, run.ID, exc.EmployeeID)
}

// MarkExceptionInProgress moves an open exception into in_progress so other
// reviewers see it is being worked.
func (s *Service) MarkExceptionInProgress(ctx context.Context, runID, exceptionID string) (Exception, error) {
	run, err := s.getRun(ctx, runID)
	if err != nil {
		return Exception{}, err
	}
	return s.markExceptionInProgress(ctx, run.ID, exceptionID)
}

func errIsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
