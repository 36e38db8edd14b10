package model

import (
	"errors"
	"fmt"
)

// InvalidAssumptionError reports an assumption field outside its allowed range.
type InvalidAssumptionError struct {
	Field  string
	Reason string
}

func (e *InvalidAssumptionError) Error() string {
	return fmt.Sprintf("invalid assumption %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &InvalidAssumptionError{Field: field, Reason: reason}
}

// IsInvalidAssumption reports whether err wraps an *InvalidAssumptionError.
func IsInvalidAssumption(err error) bool {
	var ia *InvalidAssumptionError
	return errors.As(err, &ia)
}
