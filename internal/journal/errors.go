package journal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested record does not exist in the store.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput indicates a payload that violates the trade or settings rules.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports which field was rejected and a message suitable for the user.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap lets callers match any validation failure with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
