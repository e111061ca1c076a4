// Package payconfig holds the pay-policy reference data the payroll engine
// reads: tax rules and recurring allowances. Both are maintained outside the
// run lifecycle and snapshotted per detail at computation time.
package payconfig

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoActiveTaxRule blocks run creation outright: computing with an
	// implicit zero rate would silently understate deductions.
	ErrNoActiveTaxRule        = errors.New("no active tax rule configured")
	ErrMultipleActiveTaxRules = errors.New("multiple active tax rules configured")
)

type TaxRule struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
}

const (
	AllowanceStatusApproved = "APPROVED"
	AllowanceStatusDraft    = "DRAFT"
)

type Allowance struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ActiveTaxRule(ctx context.Context) (TaxRule, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, rate, active, created_at
    FROM tax_rules WHERE active = true
  `)
	if err != nil {
		return TaxRule{}, err
	}
	defer rows.Close()

	var rules []TaxRule
	for rows.Next() {
		var rule TaxRule
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.Rate, &rule.Active, &rule.CreatedAt); err != nil {
			return TaxRule{}, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return TaxRule{}, err
	}

	switch len(rules) {
	case 0:
		return TaxRule{}, ErrNoActiveTaxRule
	case 1:
		return rules[0], nil
	default:
		return TaxRule{}, ErrMultipleActiveTaxRules
	}
}

func (s *Store) ListApprovedAllowances(ctx context.Context) ([]Allowance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, amount, status
    FROM allowances WHERE status = $1 ORDER BY name
  `, AllowanceStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Allowance
	for rows.Next() {
		var a Allowance
		if err := rows.Scan(&a.ID, &a.Name, &a.Amount, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
