package compensation

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Service struct {
	DB *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

type CreateInput struct {
	EmployeeID           string
	Kind                 string
	Amount               decimal.Decimal
	Note                 string
	ScheduledPaymentDate *time.Time
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Item, error) {
	if !ValidKind(input.Kind) {
		return Item{}, ErrInvalidKind
	}
	if !input.Amount.IsPositive() {
		return Item{}, ErrInvalidAmount
	}
	return s.insertItem(ctx, input)
}

// Approve is idempotent: approving an approved item is a no-op so retried
// requests cannot double-apply. A rejected item is terminal.
func (s *Service) Approve(ctx context.Context, id, actorID, note string) (Item, error) {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return Item{}, err
	}
	switch item.Status {
	case StatusApproved:
		return item, nil
	case StatusRejected:
		return Item{}, ErrAlreadyRejected
	}
	return s.decideItem(ctx, id, StatusApproved, actorID, note)
}

func (s *Service) Reject(ctx context.Context, id, actorID, note string) (Item, error) {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return Item{}, err
	}
	switch item.Status {
	case StatusRejected:
		return item, nil
	case StatusApproved:
		return Item{}, ErrNotPending
	}
	return s.decideItem(ctx, id, StatusRejected, actorID, note)
}

type EditInput struct {
	Amount               *decimal.Decimal
	ScheduledPaymentDate *time.Time
	Note                 *string
}

// Edit only applies to pending items; decided items are immutable.
func (s *Service) Edit(ctx context.Context, id string, input EditInput) (Item, error) {
	item, err := s.getItem(ctx, id)
	if err != nil {
		return Item{}, err
	}
	edited, err := applyEdit(item, input)
	if err != nil {
		return Item{}, err
	}
	return s.updateItem(ctx, edited)
}

// applyEdit validates an edit and folds it into the item. Nil fields leave
// the stored value untouched.
func applyEdit(item Item, input EditInput) (Item, error) {
	if item.Status != StatusPending {
		return Item{}, ErrNotPending
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return Item{}, ErrInvalidAmount
		}
		item.Amount = *input.Amount
	}
	if input.ScheduledPaymentDate != nil {
		item.ScheduledPaymentDate = input.ScheduledPaymentDate
	}
	if input.Note != nil {
		item.Note = *input.Note
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	return s.getItem(ctx, id)
}

func (s *Service) ListPending(ctx context.Context) ([]Item, error) {
	return s.listByStatus(ctx, StatusPending)
}

func (s *Service) ListForEmployee(ctx context.Context, employeeID string) ([]Item, error) {
	return s.listForEmployee(ctx, employeeID, "")
}

// ListApprovedForEmployee feeds the pay computation: it returns only items
// the manager has signed off on.
func (s *Service) ListApprovedForEmployee(ctx context.Context, employeeID string) ([]Item, error) {
	return s.listForEmployee(ctx, employeeID, StatusApproved)
}

// PendingEmployeeIDs returns the set of employees with at least one pending
// item, used by the publish gate.
func (s *Service) PendingEmployeeIDs(ctx context.Context, employeeIDs []string) ([]string, error) {
	return s.pendingEmployeeIDs(ctx, employeeIDs)
}
