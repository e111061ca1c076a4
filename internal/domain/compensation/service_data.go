package compensation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const itemColumns = `
  id, employee_id, kind, amount, status, note, scheduled_payment_date,
  decided_by, decided_at, COALESCE(decision_note, ''), created_at, updated_at
`

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(
		&item.ID, &item.EmployeeID, &item.Kind, &item.Amount, &item.Status, &item.Note,
		&item.ScheduledPaymentDate, &item.DecidedBy, &item.DecidedAt, &item.DecisionNote,
		&item.CreatedAt, &item.UpdatedAt,
	)
	return item, err
}

func (s *Service) insertItem(ctx context.Context, input CreateInput) (Item, error) {
	return scanItem(s.DB.QueryRow(ctx, `
    INSERT INTO compensation_items (employee_id, kind, amount, status, note, scheduled_payment_date)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING `+itemColumns,
		input.EmployeeID, input.Kind, input.Amount, StatusPending, input.Note,
		input.ScheduledPaymentDate))
}

func (s *Service) getItem(ctx context.Context, id string) (Item, error) {
	item, err := scanItem(s.DB.QueryRow(ctx,
		"SELECT "+itemColumns+" FROM compensation_items WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	return item, err
}

func (s *Service) decideItem(ctx context.Context, id, status, actorID, note string) (Item, error) {
	// The status guard in the WHERE clause makes concurrent decisions safe:
	// only one transition out of PENDING can win.
	item, err := scanItem(s.DB.QueryRow(ctx, `
    UPDATE compensation_items
    SET status = $2, decided_by = $3, decided_at = now(), decision_note = $4, updated_at = now()
    WHERE id = $1 AND status = $5
    RETURNING `+itemColumns,
		id, status, actorID, note, StatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotPending
	}
	return item, err
}

func (s *Service) updateItem(ctx context.Context, item Item) (Item, error) {
	updated, err := scanItem(s.DB.QueryRow(ctx, `
    UPDATE compensation_items
    SET amount = $2, note = $3, scheduled_payment_date = $4, updated_at = now()
    WHERE id = $1 AND status = $5
    RETURNING `+itemColumns,
		item.ID, item.Amount, item.Note, item.ScheduledPaymentDate, StatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrNotPending
	}
	return updated, err
}

func (s *Service) listByStatus(ctx context.Context, status string) ([]Item, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+itemColumns+" FROM compensation_items WHERE status = $1 ORDER BY created_at", status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (s *Service) listForEmployee(ctx context.Context, employeeID, status string) ([]Item, error) {
	query := "SELECT " + itemColumns + " FROM compensation_items WHERE employee_id = $1"
	args := []any{employeeID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY created_at"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (s *Service) pendingEmployeeIDs(ctx context.Context, employeeIDs []string) ([]string, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT employee_id
    FROM compensation_items
    WHERE status = $1 AND employee_id = ANY($2)
    ORDER BY employee_id
  `, StatusPending, employeeIDs)
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

func collectItems(rows pgx.Rows) ([]Item, error) {
	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
