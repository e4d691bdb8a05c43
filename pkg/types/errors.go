package types

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports missing or out-of-range required trade fields.
// It is the only error class surfaced to callers; every other failure is
// absorbed into degraded defaults.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trade: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError creates a ValidationError naming the problem fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
