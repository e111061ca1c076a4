package compensation

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidKind(t *testing.T) {
	for _, kind := range []string{KindSigningBonus, KindTerminationBenefit, KindResignationBenefit} {
		if !ValidKind(kind) {
			t.Fatalf("expected %s to be valid", kind)
		}
	}
	if ValidKind("HOLIDAY_BONUS") {
		t.Fatal("unexpected kind accepted")
	}
	if ValidKind("") {
		t.Fatal("empty kind accepted")
	}
}

func TestApplyEditUpdatesPendingItem(t *testing.T) {
	item := Item{Status: StatusPending, Amount: decimal.NewFromInt(2000), Note: "initial"}
	amount := decimal.NewFromInt(2500)
	date := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	note := "adjusted after review"

	edited, err := applyEdit(item, EditInput{Amount: &amount, ScheduledPaymentDate: &date, Note: &note})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !edited.Amount.Equal(amount) {
		t.Fatalf("amount not applied: got %s", edited.Amount)
	}
	if edited.ScheduledPaymentDate == nil || !edited.ScheduledPaymentDate.Equal(date) {
		t.Fatalf("scheduled payment date not applied: got %v", edited.ScheduledPaymentDate)
	}
	if edited.Note != note {
		t.Fatalf("note not applied: got %q", edited.Note)
	}
}

func TestApplyEditKeepsOmittedFields(t *testing.T) {
	date := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	item := Item{Status: StatusPending, Amount: decimal.NewFromInt(2000), ScheduledPaymentDate: &date}

	edited, err := applyEdit(item, EditInput{})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if !edited.Amount.Equal(item.Amount) || edited.ScheduledPaymentDate != item.ScheduledPaymentDate {
		t.Fatal("omitted fields must keep their stored values")
	}
}

func TestApplyEditRejectsDecidedItems(t *testing.T) {
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	for _, status := range []string{StatusApproved, StatusRejected} {
		_, err := applyEdit(Item{Status: status}, EditInput{ScheduledPaymentDate: &date})
		if !errors.Is(err, ErrNotPending) {
			t.Fatalf("status %s: expected ErrNotPending, got %v", status, err)
		}
	}
}

func TestApplyEditRejectsNonPositiveAmount(t *testing.T) {
	zero := decimal.Zero
	_, err := applyEdit(Item{Status: StatusPending}, EditInput{Amount: &zero})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestIsBenefit(t *testing.T) {
	if IsBenefit(KindSigningBonus) {
		t.Fatal("signing bonus is not a benefit")
	}
	if !IsBenefit(KindTerminationBenefit) || !IsBenefit(KindResignationBenefit) {
		t.Fatal("termination and resignation benefits must land in the benefit bucket")
	}
}
