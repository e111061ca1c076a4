package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("employee not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const snapshotColumns = `
  id, employee_number, first_name, last_name, email, department, position,
  base_salary, bank_name, bank_account_number, hr_event, status,
  working_days, absent_days, overtime_hours, hire_date
`

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var snap Snapshot
	err := row.Scan(
		&snap.ID, &snap.EmployeeNumber, &snap.FirstName, &snap.LastName,
		&snap.Email, &snap.Department, &snap.Position,
		&snap.BaseSalary, &snap.BankName, &snap.BankAccountNumber,
		&snap.HREvent, &snap.Status,
		&snap.WorkingDays, &snap.AbsentDays, &snap.OvertimeHours, &snap.HireDate,
	)
	return snap, err
}

func (s *Store) Get(ctx context.Context, id string) (Snapshot, error) {
	snap, err := scanSnapshot(s.DB.QueryRow(ctx,
		"SELECT "+snapshotColumns+" FROM employees WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	return snap, err
}

func (s *Store) ListByIDs(ctx context.Context, ids []string) ([]Snapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx,
		"SELECT "+snapshotColumns+" FROM employees WHERE id = ANY($1) ORDER BY employee_number", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSnapshots(rows)
}

func (s *Store) ListByDepartment(ctx context.Context, department string) ([]Snapshot, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+snapshotColumns+` FROM employees
     WHERE department = $1 AND status = $2 ORDER BY employee_number`,
		department, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSnapshots(rows)
}

func (s *Store) List(ctx context.Context, search string, limit, offset int) ([]Snapshot, int, error) {
	where := " FROM employees WHERE 1=1"
	var args []any
	if search != "" {
		where += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR employee_number ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1)"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + snapshotColumns + where +
		fmt.Sprintf(" ORDER BY employee_number LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectSnapshots(rows)
	return out, total, err
}

// UpdateBankDetailsTx runs inside the caller's transaction so the employee
// update and the exception resolution commit or roll back together.
func (s *Store) UpdateBankDetailsTx(ctx context.Context, tx pgx.Tx, id string, details BankDetails) error {
	tag, err := tx.Exec(ctx, `
    UPDATE employees SET bank_name = $2, bank_account_number = $3, updated_at = now()
    WHERE id = $1
  `, id, details.BankName, details.BankAccountNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectSnapshots(rows pgx.Rows) ([]Snapshot, error) {
	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
