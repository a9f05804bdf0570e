package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("title", "required")

	if got := err.Error(); got != "validation: title: required" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "title", Message: "required"},
		{Field: "fileOps[0].path", Message: "path traversal is not allowed"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
	if len(err.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors))
	}
}

func TestConflictError_Version(t *testing.T) {
	t.Parallel()

	err := NewVersionConflict(7)

	if !errors.Is(err, ErrConflict) {
		t.Fatal("errors.Is(err, ErrConflict) = false")
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatal("errors.As(*ConflictError) = false")
	}
	if conflict.CurrentVersion != 7 {
		t.Fatalf("CurrentVersion = %d, want 7", conflict.CurrentVersion)
	}
	if got := err.Error(); got != "conflict: version mismatch, current version is 7" {
		t.Fatalf("unexpected Error(): %q", got)
	}
}

func TestConflictError_Value(t *testing.T) {
	t.Parallel()

	holder := uuid.New()
	err := NewValueConflict("name", "nlp", holder)

	if !errors.Is(err, ErrConflict) {
		t.Fatal("errors.Is(err, ErrConflict) = false")
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatal("errors.As(*ConflictError) = false")
	}
	if conflict.ConflictingID != holder {
		t.Fatalf("ConflictingID = %s, want %s", conflict.ConflictingID, holder)
	}
	if got := err.Error(); got != `conflict: name "nlp" already taken` {
		t.Fatalf("unexpected Error(): %q", got)
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrValidation, ErrConflict,
		ErrFeatureUnavailable, ErrPayloadTooLarge, ErrInvalidSnapshot,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}
