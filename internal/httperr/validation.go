package httperr

import (
	"errors"
	"fmt"
)

// ValidationError rejects input before any transaction begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func ErrValidation(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
