package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by every lookup whose target does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a request before it touches the database.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
