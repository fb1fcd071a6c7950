package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Validation errors
	ErrMsgInvalidSlotNumber = "invalid slot number"
	ErrMsgInvalidSchedule   = "invalid schedule"
	ErrMsgInvalidStock      = "invalid stock"
	ErrMsgInvalidUser       = "invalid user"
	ErrMsgInvalidTime       = "invalid time"

	// Concurrency errors
	ErrMsgConflict = "concurrent modification, retry"

	// Database/System errors
	ErrMsgStoreUnavailable = "store unavailable"
	ErrMsgTxClosed         = "tx is closed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrInvalidSlotNumber = errors.New(ErrMsgInvalidSlotNumber)
	ErrInvalidSchedule   = errors.New(ErrMsgInvalidSchedule)
	ErrInvalidStock      = errors.New(ErrMsgInvalidStock)
	ErrInvalidUser       = errors.New(ErrMsgInvalidUser)
	ErrInvalidTime       = errors.New(ErrMsgInvalidTime)

	// ErrConflict is retryable: a compare-and-set lost a race or the store aborted a transaction
	ErrConflict = errors.New(ErrMsgConflict)

	// ErrStoreUnavailable is fatal for the request and must never be reported as success
	ErrStoreUnavailable = errors.New(ErrMsgStoreUnavailable)
)

// IsValidation reports whether err is a caller input error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidSlotNumber) ||
		errors.Is(err, ErrInvalidSchedule) ||
		errors.Is(err, ErrInvalidStock) ||
		errors.Is(err, ErrInvalidUser) ||
		errors.Is(err, ErrInvalidTime)
}
