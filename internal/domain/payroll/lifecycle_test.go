package payroll

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{RunStatusDraft, RunStatusPublished, true},
		{RunStatusDraft, RunStatusCancelled, true},
		{RunStatusDraft, RunStatusApproved, false},
		{RunStatusDraft, RunStatusProcessed, false},
		{RunStatusPublished, RunStatusApproved, true},
		{RunStatusPublished, RunStatusDraft, true},
		{RunStatusPublished, RunStatusCancelled, true},
		{RunStatusPublished, RunStatusProcessed, false},
		{RunStatusApproved, RunStatusProcessed, true},
		{RunStatusApproved, RunStatusDraft, false},
		{RunStatusApproved, RunStatusCancelled, false},
		{RunStatusProcessed, RunStatusDraft, false},
		{RunStatusProcessed, RunStatusCancelled, false},
		{RunStatusCancelled, RunStatusDraft, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCheckTransitionError(t *testing.T) {
	err := checkTransition(RunStatusProcessed, RunStatusDraft)
	require.Error(t, err)

	var trErr *TransitionError
	require.True(t, errors.As(err, &trErr))
	assert.Equal(t, RunStatusProcessed, trErr.From)
	assert.Equal(t, RunStatusDraft, trErr.To)

	assert.NoError(t, checkTransition(RunStatusDraft, RunStatusPublished))
}

// A detail write re-reads the run status under the row lock; anything that
// left DRAFT in the meantime must abort the write.
func TestWriteGuard(t *testing.T) {
	assert.NoError(t, writeGuard(RunStatusDraft))

	require.ErrorIs(t, writeGuard(RunStatusProcessed), ErrRunFrozen)
	for _, status := range []string{RunStatusPublished, RunStatusApproved, RunStatusCancelled} {
		assert.ErrorIs(t, writeGuard(status), ErrRunConflict, "status %s", status)
	}
}

func TestEditable(t *testing.T) {
	assert.True(t, Editable(RunStatusDraft))
	assert.False(t, Editable(RunStatusPublished))
	assert.False(t, Editable(RunStatusApproved))
	assert.False(t, Editable(RunStatusProcessed))
	assert.False(t, Editable(RunStatusCancelled))
}
