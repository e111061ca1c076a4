package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/auth"
	"hrpay/internal/platform/config"
)

// Seed provisions roles, permissions, back-office users, pay configuration,
// and a demo roster. Every step is idempotent so the server can run it on
// each boot.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensurePermissions(ctx, pool); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	if err := ensureRoles(ctx, pool); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := ensureUser(ctx, pool, cfg.SeedSpecialistEmail, cfg.SeedSpecialistPass, auth.RoleSpecialist); err != nil {
		return fmt.Errorf("seed specialist user: %w", err)
	}
	if err := ensureUser(ctx, pool, cfg.SeedManagerEmail, cfg.SeedManagerPass, auth.RoleManager); err != nil {
		return fmt.Errorf("seed manager user: %w", err)
	}
	if err := ensurePayConfig(ctx, pool); err != nil {
		return fmt.Errorf("seed pay config: %w", err)
	}
	if cfg.Environment != "production" {
		if err := ensureDemoRoster(ctx, pool); err != nil {
			return fmt.Errorf("seed demo roster: %w", err)
		}
	}
	return nil
}

func ensurePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, key := range auth.DefaultPermissions {
		if _, err := pool.Exec(ctx,
			"INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", key); err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, pool *pgxpool.Pool) error {
	for role, perms := range auth.RolePermissions {
		if _, err := pool.Exec(ctx,
			"INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", role); err != nil {
			return err
		}
		for _, perm := range perms {
			_, err := pool.Exec(ctx, `
        INSERT INTO role_permissions (role_id, permission_id)
        SELECT r.id, p.id FROM roles r, permissions p
        WHERE r.name = $1 AND p.key = $2
        ON CONFLICT DO NOTHING
      `, role, perm)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, password, role string) error {
	if email == "" {
		return nil
	}
	if password == "" {
		// Development fallback; production requires an explicit password.
		password = "changeme"
	}

	var count int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, role_id)
    SELECT $1, $2, r.id FROM roles r WHERE r.name = $3
  `, email, hash, role)
	if err == nil {
		log.Printf("seeded user %s with role %s", email, role)
	}
	return err
}

func ensurePayConfig(ctx context.Context, pool *pgxpool.Pool) error {
	var taxRules int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM tax_rules").Scan(&taxRules); err != nil {
		return err
	}
	if taxRules == 0 {
		if _, err := pool.Exec(ctx,
			"INSERT INTO tax_rules (name, rate, active) VALUES ($1, $2, true)",
			"Income Tax", "0.10"); err != nil {
			return err
		}
	}

	allowances := []struct {
		name   string
		amount string
	}{
		{"Housing Allowance", "2000"},
		{"Transport Allowance", "1000"},
	}
	for _, a := range allowances {
		if _, err := pool.Exec(ctx, `
      INSERT INTO allowances (name, amount, status) VALUES ($1, $2, 'APPROVED')
      ON CONFLICT (name) DO NOTHING
    `, a.name, a.amount); err != nil {
			return err
		}
	}
	return nil
}

// ensureDemoRoster loads a small review scenario: a new hire with an
// approved signing bonus, a regular employee with a pending benefit, and a
// terminated employee with a penalty and no bank details on file.
func ensureDemoRoster(ctx context.Context, pool *pgxpool.Pool) error {
	type demoEmployee struct {
		number     string
		first      string
		last       string
		email      string
		department string
		position   string
		salary     string
		bankName   *string
		bankAcct   *string
		hrEvent    string
	}

	bank := func(name, acct string) (*string, *string) { return &name, &acct }
	linaBank, linaAcct := bank("First National", "1100220033")
	ericBank, ericAcct := bank("Union Bank", "2200330044")

	roster := []demoEmployee{
		{"E001", "Lina", "Haddad", "lina@company.com", "Engineering", "Software Engineer", "15000", linaBank, linaAcct, "NEW_HIRE"},
		{"E002", "Eric", "Mwangi", "eric@company.com", "Engineering", "Senior Engineer", "14000", ericBank, ericAcct, "NORMAL"},
		{"E003", "Charlie", "Osei", "charlie@company.com", "Sales", "Account Executive", "9000", nil, nil, "TERMINATION"},
	}
	for _, emp := range roster {
		if _, err := pool.Exec(ctx, `
      INSERT INTO employees
        (employee_number, first_name, last_name, email, department, position,
         base_salary, bank_name, bank_account_number, hr_event, working_days)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,22)
      ON CONFLICT (employee_number) DO NOTHING
    `, emp.number, emp.first, emp.last, emp.email, emp.department, emp.position,
			emp.salary, emp.bankName, emp.bankAcct, emp.hrEvent); err != nil {
			return err
		}
	}

	var items int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM compensation_items").Scan(&items); err != nil {
		return err
	}
	if items == 0 {
		seedItems := []struct {
			number string
			kind   string
			amount string
			status string
		}{
			{"E001", "SIGNING_BONUS", "5000", "APPROVED"},
			{"E003", "TERMINATION_BENEFIT", "5000", "APPROVED"},
			{"E002", "RESIGNATION_BENEFIT", "2000", "PENDING"},
		}
		for _, item := range seedItems {
			if _, err := pool.Exec(ctx, `
        INSERT INTO compensation_items (employee_id, kind, amount, status, scheduled_payment_date)
        SELECT e.id, $2, $3, $4, date_trunc('month', now()) + interval '1 month - 1 day'
        FROM employees e WHERE e.employee_number = $1
      `, item.number, item.kind, item.amount, item.status); err != nil {
				return err
			}
		}
	}

	var penalties int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM employee_penalties").Scan(&penalties); err != nil {
		return err
	}
	if penalties == 0 {
		if _, err := pool.Exec(ctx, `
      INSERT INTO employee_penalties (employee_id, reason, amount)
      SELECT e.id, 'Unreturned equipment', 150 FROM employees e WHERE e.employee_number = 'E003'
    `); err != nil {
			return err
		}
	}
	return nil
}
