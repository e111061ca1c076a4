// Package penalty exposes read access to employee penalties. Penalties are
// recorded by disciplinary workflows elsewhere; payroll only sums them into
// deductions.
package penalty

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Reason struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employeeId"`
	Reason     string          `json:"reason"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID string) ([]Reason, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, reason, amount, created_at
    FROM employee_penalties WHERE employee_id = $1 ORDER BY created_at
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reason
	for rows.Next() {
		var r Reason
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.Reason, &r.Amount, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
