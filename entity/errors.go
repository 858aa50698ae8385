package entity

import (
	"errors"
	"fmt"
)

// ValidationError reports a payload rejected by a lifecycle hook. It aborts
// the enclosing operation and propagates to the caller unchanged.
type ValidationError struct {
	Entity  string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("entitykit/entity: %s: invalid %s: %s", e.Entity, e.Field, e.Message)
	}
	return fmt.Sprintf("entitykit/entity: %s: %s", e.Entity, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
