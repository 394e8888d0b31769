package types

import "errors"

var (
	// ErrNotFound is the sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is the sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ValidationError carries the human-readable reason a connection was
// rejected by the rule set. It is never retried and never fatal.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a connection-rule rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
