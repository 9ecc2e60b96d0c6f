package reminder

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every *ValidationError through errors.Is.
var ErrValidation = errors.New("validation error")

// ValidationError reports a habit specification that cannot be expanded.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
