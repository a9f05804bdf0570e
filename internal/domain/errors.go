package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrFeatureUnavailable = errors.New("feature unavailable")
	ErrPayloadTooLarge    = errors.New("payload too large")
	ErrInvalidSnapshot    = errors.New("invalid snapshot")
)

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

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ConflictError reports a concurrency-token mismatch or a uniqueness
// conflict, carrying the conflicting current state so the caller can
// resync without re-guessing.
type ConflictError struct {
	// Field names the conflicting attribute: "version", "slug" or "name".
	Field string
	// CurrentVersion is the stored token for version conflicts.
	CurrentVersion int
	// ConflictingID identifies the row holding the contested value.
	ConflictingID uuid.UUID
	// Value is the contested slug or name.
	Value string
}

func (e *ConflictError) Error() string {
	if e.Field == "version" {
		return fmt.Sprintf("conflict: version mismatch, current version is %d", e.CurrentVersion)
	}
	return fmt.Sprintf("conflict: %s %q already taken", e.Field, e.Value)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NewVersionConflict creates a ConflictError for a stale concurrency token.
func NewVersionConflict(current int) *ConflictError {
	return &ConflictError{Field: "version", CurrentVersion: current}
}

// NewValueConflict creates a ConflictError for a contested unique value
// (slug or tag name) held by another row.
func NewValueConflict(field, value string, holder uuid.UUID) *ConflictError {
	return &ConflictError{Field: field, Value: value, ConflictingID: holder}
}
