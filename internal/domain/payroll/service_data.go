package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"hrpay/internal/domain/compensation"
)

const runColumns = `
  id, run_id, payroll_period, entity, status, employee_count, exception_count,
  total_net_pay, tax_rate, specialist_id, published_by, approved_by,
  payment_status, version, created_at, updated_at
`

func scanRun(row pgx.Row) (Run, error) {
	var run Run
	err := row.Scan(
		&run.ID, &run.RunID, &run.PayrollPeriod, &run.Entity, &run.Status,
		&run.EmployeeCount, &run.ExceptionCount, &run.TotalNetPay, &run.TaxRate,
		&run.SpecialistID, &run.PublishedBy, &run.ApprovedBy,
		&run.PaymentStatus, &run.Version, &run.CreatedAt, &run.UpdatedAt,
	)
	return run, err
}

// insertRun assigns the next human-readable run identifier (PR-<year>-<seq>)
// for the period's year and creates the draft row. run_id carries a unique
// constraint, so a racing creation fails instead of duplicating.
func (s *Service) insertRun(ctx context.Context, input CreateRunInput, taxRate decimal.Decimal, employeeCount int) (Run, error) {
	year := time.Now().Year()
	if len(input.Period) >= 7 {
		if parsed, err := time.Parse("2006-01", input.Period[:7]); err == nil {
			year = parsed.Year()
		}
	}
	prefix := fmt.Sprintf("PR-%d-", year)

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback(ctx)

	var seq int
	err = tx.QueryRow(ctx, `
    SELECT COALESCE(MAX(CAST(SPLIT_PART(run_id, '-', 3) AS INT)), 0) + 1
    FROM payroll_runs WHERE run_id LIKE $1
  `, prefix+"%").Scan(&seq)
	if err != nil {
		return Run{}, err
	}

	run, err := scanRun(tx.QueryRow(ctx, `
    INSERT INTO payroll_runs
      (run_id, payroll_period, entity, status, employee_count, exception_count,
       total_net_pay, tax_rate, specialist_id, payment_status, version)
    VALUES ($1, $2, $3, $4, $5, 0, 0, $6, $7, $8, 1)
    RETURNING `+runColumns,
		fmt.Sprintf("%s%03d", prefix, seq), input.Period, input.Entity,
		RunStatusDraft, employeeCount, taxRate, input.SpecialistID, PaymentStatusPending))
	if err != nil {
		return Run{}, err
	}
	return run, tx.Commit(ctx)
}

// getRun accepts either the row UUID or the human-readable run identifier.
func (s *Service) getRun(ctx context.Context, runID string) (Run, error) {
	run, err := scanRun(s.DB.QueryRow(ctx,
		"SELECT "+runColumns+" FROM payroll_runs WHERE id::text = $1 OR run_id = $1", runID))
	if errIsNoRows(err) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// lockRunStatus takes a share lock on the run row inside the caller's
// transaction. Publish holds FOR UPDATE on the same row, so a detail write
// and a status transition cannot commit interleaved.
func (s *Service) lockRunStatus(ctx context.Context, tx pgx.Tx, runUUID string) (string, error) {
	var status string
	err := tx.QueryRow(ctx,
		"SELECT status FROM payroll_runs WHERE id = $1 FOR SHARE", runUUID).Scan(&status)
	if errIsNoRows(err) {
		return "", ErrRunNotFound
	}
	return status, err
}

func (s *Service) getRunForUpdate(ctx context.Context, tx pgx.Tx, runID string) (Run, error) {
	run, err := scanRun(tx.QueryRow(ctx,
		"SELECT "+runColumns+" FROM payroll_runs WHERE id::text = $1 OR run_id = $1 FOR UPDATE", runID))
	if errIsNoRows(err) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

func (s *Service) listRuns(ctx context.Context, status string, limit, offset int) ([]Run, int, error) {
	where := " FROM payroll_runs WHERE 1=1"
	var args []any
	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, status)
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + runColumns + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, run)
	}
	return out, total, rows.Err()
}

// transitionRun flips the status with the previous status in the WHERE
// clause, so a concurrent transition loses cleanly instead of overwriting.
func (s *Service) transitionRun(ctx context.Context, tx pgx.Tx, runUUID, from, to string, extra map[string]any) (Run, error) {
	query := "UPDATE payroll_runs SET status = $3, version = version + 1, updated_at = now()"
	args := []any{runUUID, from, to}

	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, extra[key])
		query += fmt.Sprintf(", %s = $%d", key, len(args))
	}
	query += " WHERE id = $1 AND status = $2 RETURNING " + runColumns

	run, err := scanRun(tx.QueryRow(ctx, query, args...))
	if errIsNoRows(err) {
		return Run{}, ErrRunConflict
	}
	return run, err
}

// tryRecomputeAggregate derives the run totals from the current detail and
// exception rows, then writes them back against the version observed up
// front. A losing write reports false so the caller retries from fresh rows.
func (s *Service) tryRecomputeAggregate(ctx context.Context, runUUID string) (bool, error) {
	var version int
	err := s.DB.QueryRow(ctx,
		"SELECT version FROM payroll_runs WHERE id = $1", runUUID).Scan(&version)
	if errIsNoRows(err) {
		return false, ErrRunNotFound
	}
	if err != nil {
		return false, err
	}

	details, err := s.listDetails(ctx, runUUID)
	if err != nil {
		return false, err
	}
	exceptions, err := s.listExceptions(ctx, runUUID, "")
	if err != nil {
		return false, err
	}
	totals := runTotals(details, exceptions)

	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_runs
    SET total_net_pay = $2, employee_count = $3, exception_count = $4,
        version = version + 1, updated_at = now()
    WHERE id = $1 AND version = $5
  `, runUUID, totals.TotalNetPay, totals.EmployeeCount, totals.ExceptionCount, version)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const detailColumns = `
  id, run_id, employee_id, employee_number, employee_name, department, position,
  hr_event, base_salary, allowances_total, bonus, benefit, gross_salary,
  tax_amount, penalty_total, other_deductions, deductions_total, net_pay,
  bank_status, working_days, absent_days, overtime_hours, created_at, updated_at
`

func scanDetail(row pgx.Row) (Detail, error) {
	var d Detail
	err := row.Scan(
		&d.ID, &d.RunID, &d.EmployeeID, &d.EmployeeNumber, &d.EmployeeName,
		&d.Department, &d.Position, &d.HREvent, &d.BaseSalary, &d.AllowancesTotal,
		&d.Bonus, &d.Benefit, &d.GrossSalary, &d.TaxAmount, &d.PenaltyTotal,
		&d.OtherDeductions, &d.DeductionsTotal, &d.NetPay, &d.BankStatus,
		&d.WorkingDays, &d.AbsentDays, &d.OvertimeHours, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func (s *Service) upsertDetail(ctx context.Context, tx pgx.Tx, detail Detail) (Detail, error) {
	return scanDetail(tx.QueryRow(ctx, `
    INSERT INTO payroll_details
      (run_id, employee_id, employee_number, employee_name, department, position,
       hr_event, base_salary, allowances_total, bonus, benefit, gross_salary,
       tax_amount, penalty_total, other_deductions, deductions_total, net_pay,
       bank_status, working_days, absent_days, overtime_hours)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
    ON CONFLICT (run_id, employee_id) DO UPDATE SET
      employee_number = EXCLUDED.employee_number,
      employee_name = EXCLUDED.employee_name,
      department = EXCLUDED.department,
      position = EXCLUDED.position,
      hr_event = EXCLUDED.hr_event,
      base_salary = EXCLUDED.base_salary,
      allowances_total = EXCLUDED.allowances_total,
      bonus = EXCLUDED.bonus,
      benefit = EXCLUDED.benefit,
      gross_salary = EXCLUDED.gross_salary,
      tax_amount = EXCLUDED.tax_amount,
      penalty_total = EXCLUDED.penalty_total,
      other_deductions = EXCLUDED.other_deductions,
      deductions_total = EXCLUDED.deductions_total,
      net_pay = EXCLUDED.net_pay,
      bank_status = EXCLUDED.bank_status,
      working_days = EXCLUDED.working_days,
      absent_days = EXCLUDED.absent_days,
      overtime_hours = EXCLUDED.overtime_hours,
      updated_at = now()
    RETURNING `+detailColumns,
		detail.RunID, detail.EmployeeID, detail.EmployeeNumber, detail.EmployeeName,
		detail.Department, detail.Position, detail.HREvent, detail.BaseSalary,
		detail.AllowancesTotal, detail.Bonus, detail.Benefit, detail.GrossSalary,
		detail.TaxAmount, detail.PenaltyTotal, detail.OtherDeductions,
		detail.DeductionsTotal, detail.NetPay, detail.BankStatus,
		detail.WorkingDays, detail.AbsentDays, detail.OvertimeHours))
}

func (s *Service) getDetail(ctx context.Context, runUUID, employeeID string) (Detail, error) {
	detail, err := scanDetail(s.DB.QueryRow(ctx,
		"SELECT "+detailColumns+" FROM payroll_details WHERE run_id = $1 AND employee_id = $2",
		runUUID, employeeID))
	if errIsNoRows(err) {
		return Detail{}, ErrDetailNotFound
	}
	return detail, err
}

func (s *Service) listDetails(ctx context.Context, runUUID string) ([]Detail, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+detailColumns+" FROM payroll_details WHERE run_id = $1 ORDER BY employee_number", runUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		detail, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}
	return out, rows.Err()
}

func (s *Service) listDetailsTx(ctx context.Context, tx pgx.Tx, runUUID string) ([]Detail, error) {
	rows, err := tx.Query(ctx,
		"SELECT "+detailColumns+" FROM payroll_details WHERE run_id = $1 ORDER BY employee_number", runUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Detail
	for rows.Next() {
		detail, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}
	return out, rows.Err()
}

const exceptionColumns = `
  id, run_id, employee_id, type, severity, message, status,
  COALESCE(resolution_note, ''), resolved_by, resolved_at, flagged_at
`

func scanException(row pgx.Row) (Exception, error) {
	var exc Exception
	err := row.Scan(
		&exc.ID, &exc.RunID, &exc.EmployeeID, &exc.Type, &exc.Severity,
		&exc.Message, &exc.Status, &exc.ResolutionNote, &exc.ResolvedBy,
		&exc.ResolvedAt, &exc.FlaggedAt,
	)
	return exc, err
}

func (s *Service) listExceptions(ctx context.Context, runUUID, status string) ([]Exception, error) {
	query := "SELECT " + exceptionColumns + " FROM payroll_exceptions WHERE run_id = $1"
	args := []any{runUUID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY flagged_at, employee_id"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exception
	for rows.Next() {
		exc, err := scanException(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exc)
	}
	return out, rows.Err()
}

func (s *Service) getException(ctx context.Context, runUUID, exceptionID string) (Exception, error) {
	exc, err := scanException(s.DB.QueryRow(ctx,
		"SELECT "+exceptionColumns+" FROM payroll_exceptions WHERE run_id = $1 AND id = $2",
		runUUID, exceptionID))
	if errIsNoRows(err) {
		return Exception{}, ErrExceptionNotFound
	}
	return exc, err
}

// syncExceptions reconciles the stored exception rows for one employee with
// a fresh detection pass. Resolved rows are retained untouched for audit; a
// resolved type is not reopened. Open rows whose condition no longer holds
// are removed. The guard on the upsert backstops a resolution racing the
// in-transaction read.
func (s *Service) syncExceptions(ctx context.Context, tx pgx.Tx, runUUID, employeeID string, findings []Finding) error {
	existing, err := s.listEmployeeExceptionsTx(ctx, tx, runUUID, employeeID)
	if err != nil {
		return err
	}
	plan := planExceptionSync(existing, findings)

	for _, finding := range plan.Upserts {
		_, err := tx.Exec(ctx, `
      INSERT INTO payroll_exceptions (run_id, employee_id, type, severity, message, status)
      VALUES ($1, $2, $3, $4, $5, $6)
      ON CONFLICT (run_id, employee_id, type) DO UPDATE
        SET severity = EXCLUDED.severity, message = EXCLUDED.message
        WHERE payroll_exceptions.status <> $7
    `, runUUID, employeeID, finding.Type, finding.Severity, finding.Message,
			ExceptionStatusOpen, ExceptionStatusResolved)
		if err != nil {
			return err
		}
	}

	if len(plan.Remove) == 0 {
		return nil
	}
	_, err = tx.Exec(ctx, `
    DELETE FROM payroll_exceptions
    WHERE id = ANY($1) AND status <> $2
  `, plan.Remove, ExceptionStatusResolved)
	return err
}

func (s *Service) listEmployeeExceptionsTx(ctx context.Context, tx pgx.Tx, runUUID, employeeID string) ([]Exception, error) {
	rows, err := tx.Query(ctx,
		"SELECT "+exceptionColumns+" FROM payroll_exceptions WHERE run_id = $1 AND employee_id = $2",
		runUUID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exception
	for rows.Next() {
		exc, err := scanException(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, exc)
	}
	return out, rows.Err()
}

func (s *Service) resolveExceptionTx(ctx context.Context, tx pgx.Tx, exceptionID, note, resolvedBy string) error {
	tag, err := tx.Exec(ctx, `
    UPDATE payroll_exceptions
    SET status = $2, resolution_note = $3, resolved_by = $4, resolved_at = now()
    WHERE id = $1 AND status <> $2
  `, exceptionID, ExceptionStatusResolved, note, resolvedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExceptionNotFound
	}
	return nil
}

func (s *Service) markExceptionInProgress(ctx context.Context, runUUID, exceptionID string) (Exception, error) {
	exc, err := scanException(s.DB.QueryRow(ctx, `
    UPDATE payroll_exceptions
    SET status = $3
    WHERE run_id = $1 AND id = $2 AND status = $4
    RETURNING `+exceptionColumns,
		runUUID, exceptionID, ExceptionStatusInProgress, ExceptionStatusOpen))
	if errIsNoRows(err) {
		return Exception{}, ErrExceptionNotFound
	}
	return exc, err
}

// insertAdjustment re-checks the run status in the statement itself: an
// adjustment that races a publish inserts zero rows and surfaces a conflict.
func (s *Service) insertAdjustment(ctx context.Context, runUUID string, input AdjustmentInput) error {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_adjustments (run_id, employee_id, kind, amount, reason, created_by)
    SELECT $1, $2, $3, $4, $5, $6
    WHERE EXISTS (SELECT 1 FROM payroll_runs WHERE id = $1 AND status = $7)
  `, runUUID, input.EmployeeID, input.Kind, input.Amount, input.Reason,
		input.CreatedBy, RunStatusDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRunConflict
	}
	return nil
}

const adjustmentColumns = "id, run_id, employee_id, kind, amount, reason, created_by, created_at"

func scanAdjustment(row pgx.Row) (Adjustment, error) {
	var adj Adjustment
	err := row.Scan(&adj.ID, &adj.RunID, &adj.EmployeeID, &adj.Kind,
		&adj.Amount, &adj.Reason, &adj.CreatedBy, &adj.CreatedAt)
	return adj, err
}

func (s *Service) listAdjustments(ctx context.Context, runUUID string) ([]Adjustment, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+adjustmentColumns+" FROM payroll_adjustments WHERE run_id = $1 ORDER BY created_at", runUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAdjustments(rows)
}

func (s *Service) listAdjustmentsForEmployee(ctx context.Context, runUUID, employeeID string) ([]Adjustment, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+adjustmentColumns+` FROM payroll_adjustments
     WHERE run_id = $1 AND employee_id = $2 ORDER BY created_at`, runUUID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAdjustments(rows)
}

func collectAdjustments(rows pgx.Rows) ([]Adjustment, error) {
	var out []Adjustment
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, adj)
	}
	return out, rows.Err()
}

const payslipColumns = `
  id, run_id, employee_id, employee_name, period, earnings, deductions,
  total_gross_salary, total_deductions, net_pay, payment_status, created_at, updated_at
`

func scanPayslip(row pgx.Row) (Payslip, error) {
	var slip Payslip
	var earnings, deductions []byte
	err := row.Scan(
		&slip.ID, &slip.RunID, &slip.EmployeeID, &slip.EmployeeName, &slip.Period,
		&earnings, &deductions, &slip.TotalGrossSalary, &slip.TotalDeductions,
		&slip.NetPay, &slip.PaymentStatus, &slip.CreatedAt, &slip.UpdatedAt,
	)
	if err != nil {
		return Payslip{}, err
	}
	if err := json.Unmarshal(earnings, &slip.Earnings); err != nil {
		return Payslip{}, err
	}
	if err := json.Unmarshal(deductions, &slip.Deductions); err != nil {
		return Payslip{}, err
	}
	return slip, nil
}

// upsertPayslip regenerates the payslip on every recompute; the stored
// payment status survives regeneration so an override-published run keeps
// its pending flags.
func (s *Service) upsertPayslip(ctx context.Context, tx pgx.Tx, slip Payslip) error {
	earnings, err := json.Marshal(slip.Earnings)
	if err != nil {
		return err
	}
	deductions, err := json.Marshal(slip.Deductions)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
    INSERT INTO payslips
      (run_id, employee_id, employee_name, period, earnings, deductions,
       total_gross_salary, total_deductions, net_pay, payment_status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    ON CONFLICT (run_id, employee_id) DO UPDATE SET
      employee_name = EXCLUDED.employee_name,
      period = EXCLUDED.period,
      earnings = EXCLUDED.earnings,
      deductions = EXCLUDED.deductions,
      total_gross_salary = EXCLUDED.total_gross_salary,
      total_deductions = EXCLUDED.total_deductions,
      net_pay = EXCLUDED.net_pay,
      updated_at = now()
  `, slip.RunID, slip.EmployeeID, slip.EmployeeName, slip.Period,
		earnings, deductions, slip.TotalGrossSalary, slip.TotalDeductions,
		slip.NetPay, slip.PaymentStatus)
	return err
}

func (s *Service) listPayslips(ctx context.Context, runUUID string) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+payslipColumns+" FROM payslips WHERE run_id = $1 ORDER BY employee_name", runUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payslip
	for rows.Next() {
		slip, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, slip)
	}
	return out, rows.Err()
}

func (s *Service) getPayslip(ctx context.Context, runUUID, employeeID string) (Payslip, error) {
	slip, err := scanPayslip(s.DB.QueryRow(ctx,
		"SELECT "+payslipColumns+" FROM payslips WHERE run_id = $1 AND employee_id = $2",
		runUUID, employeeID))
	if errIsNoRows(err) {
		return Payslip{}, ErrDetailNotFound
	}
	return slip, err
}

// markPayslipsPaid flips payslips to paid for employees with valid bank
// details; the rest stay pending and unpayable.
func (s *Service) markPayslipsPaid(ctx context.Context, tx pgx.Tx, runUUID string) error {
	_, err := tx.Exec(ctx, `
    UPDATE payslips p
    SET payment_status = $2, updated_at = now()
    FROM payroll_details d
    WHERE p.run_id = $1 AND d.run_id = p.run_id
      AND d.employee_id = p.employee_id AND d.bank_status = $3
  `, runUUID, PaymentStatusPaid, BankStatusValid)
	return err
}

// gateInput assembles the publish-gate view inside the caller's transaction.
func (s *Service) gateInput(ctx context.Context, tx pgx.Tx, runUUID string) (GateInput, error) {
	details, err := s.listDetailsTx(ctx, tx, runUUID)
	if err != nil {
		return GateInput{}, err
	}

	pending, err := collectIDs(ctx, tx, `
    SELECT DISTINCT ci.employee_id
    FROM compensation_items ci
    JOIN payroll_details d ON d.employee_id = ci.employee_id
    WHERE d.run_id = $1 AND ci.status = $2
    ORDER BY ci.employee_id
  `, runUUID, compensation.StatusPending)
	if err != nil {
		return GateInput{}, err
	}

	open, err := collectIDs(ctx, tx, `
    SELECT DISTINCT employee_id
    FROM payroll_exceptions
    WHERE run_id = $1 AND status <> $2
    ORDER BY employee_id
  `, runUUID, ExceptionStatusResolved)
	if err != nil {
		return GateInput{}, err
	}

	return GateInput{
		Details:             details,
		PendingCompensation: pending,
		OpenEmployeeIDs:     open,
	}, nil
}

func (s *Service) draftRunIDsForEmployee(ctx context.Context, employeeID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id
    FROM payroll_runs r
    JOIN payroll_details d ON d.run_id = r.id
    WHERE d.employee_id = $1 AND r.status = $2
    ORDER BY r.created_at
  `, employeeID, RunStatusDraft)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func collectIDs(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
