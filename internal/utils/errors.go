package utils

import "errors"

// Failure taxonomy shared by the engine, repositories and handlers. Business
// rule failures (not found, invalid transition, forbidden, validation) must
// never be retried; persistence failures may be retried by the caller.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidationFailed  = errors.New("validation failed")
	ErrForbidden         = errors.New("operation not permitted")
	ErrPersistence       = errors.New("persistence failure")
)

// IsRetryable reports whether the caller may retry the failed operation.
// Only transient persistence failures qualify.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistence)
}
