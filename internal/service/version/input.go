package version

import (
	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// MaxReasonLength bounds rollback reasons.
const MaxReasonLength = 500

// ListVersionsInput holds the parameters for listing a skill's history.
// Page and Limit are normalized, not rejected: out-of-range values clamp.
type ListVersionsInput struct {
	SkillID uuid.UUID
	Page    int
	Limit   int
}

// Validate checks all fields and collects all errors.
func (i ListVersionsInput) Validate() error {
	if i.SkillID == uuid.Nil {
		return domain.NewValidationError("skill_id", "required")
	}
	return nil
}

// GetVersionInput holds the parameters for fetching one ledger entry.
type GetVersionInput struct {
	SkillID   uuid.UUID
	VersionID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i GetVersionInput) Validate() error {
	var errs []domain.FieldError

	if i.SkillID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "skill_id", Message: "required"})
	}
	if i.VersionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "version_id", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RollbackInput holds the parameters for restoring a past version.
type RollbackInput struct {
	SkillID   uuid.UUID
	VersionID uuid.UUID
	Reason    *string
}

// Validate checks all fields and collects all errors.
func (i RollbackInput) Validate() error {
	var errs []domain.FieldError

	if i.SkillID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "skill_id", Message: "required"})
	}
	if i.VersionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "version_id", Message: "required"})
	}
	if i.Reason != nil && len(*i.Reason) > MaxReasonLength {
		errs = append(errs, domain.FieldError{Field: "reason", Message: "max 500 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
