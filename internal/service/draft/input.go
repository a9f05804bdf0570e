package draft

import (
	"regexp"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// MaxKeyLength bounds draft keys; keys act as client-chosen identifiers.
const MaxKeyLength = 128

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// validKey reports whether key satisfies the charset and length rules.
func validKey(key string) bool {
	return key != "" && len(key) <= MaxKeyLength && keyPattern.MatchString(key)
}

// GetDraftInput holds the parameters for fetching a draft.
type GetDraftInput struct {
	Key string
}

// Validate checks all fields and collects all errors.
func (i GetDraftInput) Validate() error {
	if !validKey(i.Key) {
		return domain.NewValidationError("key", "must be 1-128 characters of [A-Za-z0-9._-]")
	}
	return nil
}

// PutDraftInput holds the parameters for creating or updating a draft.
type PutDraftInput struct {
	Key             string
	Mode            domain.DraftMode
	RecordID        *uuid.UUID
	Payload         map[string]any
	ExpectedVersion *int
}

// Validate checks all fields and collects all errors.
func (i PutDraftInput) Validate() error {
	var errs []domain.FieldError

	if !validKey(i.Key) {
		errs = append(errs, domain.FieldError{Field: "key", Message: "must be 1-128 characters of [A-Za-z0-9._-]"})
	}
	if !i.Mode.IsValid() {
		errs = append(errs, domain.FieldError{Field: "mode", Message: "must be one of: new, edit"})
	}
	if i.Mode == domain.DraftModeEdit && i.RecordID == nil {
		errs = append(errs, domain.FieldError{Field: "record_id", Message: "required for edit mode"})
	}
	if i.RecordID != nil && *i.RecordID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "record_id", Message: "must not be the zero id"})
	}
	if i.Payload == nil {
		errs = append(errs, domain.FieldError{Field: "payload", Message: "must be a JSON object"})
	}
	if i.ExpectedVersion != nil && *i.ExpectedVersion < 1 {
		errs = append(errs, domain.FieldError{Field: "expected_version", Message: "must be >= 1"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteDraftInput holds the parameters for deleting a draft.
type DeleteDraftInput struct {
	Key string
}

// Validate checks all fields and collects all errors.
func (i DeleteDraftInput) Validate() error {
	if !validKey(i.Key) {
		return domain.NewValidationError("key", "must be 1-128 characters of [A-Za-z0-9._-]")
	}
	return nil
}
