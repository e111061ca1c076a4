package compensation

import "errors"

var (
	ErrNotFound        = errors.New("compensation item not found")
	ErrAlreadyRejected = errors.New("compensation item already rejected")
	ErrNotPending      = errors.New("compensation item is not pending")
	ErrInvalidKind     = errors.New("invalid compensation kind")
	ErrInvalidAmount   = errors.New("compensation amount must be positive")
)
