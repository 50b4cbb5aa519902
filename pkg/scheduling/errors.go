package scheduling

import (
	"errors"
	"fmt"
)

// Sentinel errors for schedule and template operations.
var (
	ErrTemplateNotFound = errors.New("job template not found")
	ErrScheduleNotFound = errors.New("job schedule not found")

	// ErrInvalidFrequencyValue is returned when a custom frequency is
	// configured without a month count of at least 1.
	ErrInvalidFrequencyValue = errors.New("custom frequency requires a value of at least 1")
)

// ValidationError reports malformed or inconsistent input on a create
// or update operation. It is always surfaced to the caller and never
// retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
