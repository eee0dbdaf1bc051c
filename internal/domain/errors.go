package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrValidation           = errors.New("validation error")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNoNextLevel          = errors.New("no next level")
	ErrInsufficientProgress = errors.New("insufficient progress")
	ErrGenerationMalformed  = errors.New("generator output malformed")
)

// InsufficientProgressError is a policy violation, not a system fault.
// It carries the counts the caller needs to render actionable UI.
type InsufficientProgressError struct {
	Level    Level
	Required int
	Current  int
}

func (e *InsufficientProgressError) Error() string {
	return fmt.Sprintf("insufficient progress at %s: %d of %d words learned (%d remaining)",
		e.Level, e.Current, e.Required, e.Remaining())
}

func (e *InsufficientProgressError) Unwrap() error { return ErrInsufficientProgress }

// Remaining returns the number of words still needed, clamped at zero.
func (e *InsufficientProgressError) Remaining() int {
	if e.Current >= e.Required {
		return 0
	}
	return e.Required - e.Current
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}
