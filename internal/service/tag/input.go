package tag

import (
	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// RenameTagInput holds the parameters for renaming a tag.
type RenameTagInput struct {
	TagID uuid.UUID
	Name  string
}

// Validate checks all fields and collects all errors.
func (i RenameTagInput) Validate() error {
	var errs []domain.FieldError

	if i.TagID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tag_id", Message: "required"})
	}
	if domain.NormalizeTag(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "normalizes to empty"})
	}
	if len(i.Name) > 100 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 100 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteTagInput holds the parameters for deleting a tag.
type DeleteTagInput struct {
	TagID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DeleteTagInput) Validate() error {
	if i.TagID == uuid.Nil {
		return domain.NewValidationError("tag_id", "required")
	}
	return nil
}

// MergeTagsInput holds the parameters for merging one tag into another.
type MergeTagsInput struct {
	SourceID uuid.UUID
	TargetID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i MergeTagsInput) Validate() error {
	var errs []domain.FieldError

	if i.SourceID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "source_tag_id", Message: "required"})
	}
	if i.TargetID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "target_tag_id", Message: "required"})
	}
	if i.SourceID != uuid.Nil && i.SourceID == i.TargetID {
		errs = append(errs, domain.FieldError{Field: "target_tag_id", Message: "must differ from source"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
