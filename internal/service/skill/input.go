package skill

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// MaxTitleLength bounds skill titles.
const MaxTitleLength = 200

// ContentInput is the full materialized content field set shared by create
// and update. Draft payloads are application-opaque, so commit is client
// driven: the caller supplies every field, absent ones as zero values.
type ContentInput struct {
	Title      string
	Summary    *string
	Inputs     *string
	Outputs    *string
	Risks      *string
	Steps      []domain.Step
	Triggers   []string
	Guardrails domain.GuardrailPolicy
	TestCases  []domain.TestCase
	Tags       []string
}

// violations checks the shared content rules and collects all errors.
func (i ContentInput) violations() []domain.FieldError {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}
	if len(i.Title) > MaxTitleLength {
		errs = append(errs, domain.FieldError{Field: "title", Message: "max 200 characters"})
	}
	for idx, step := range i.Steps {
		if strings.TrimSpace(step.Title) == "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("steps[%d].title", idx), Message: "required"})
		}
	}
	for idx, tc := range i.TestCases {
		if strings.TrimSpace(tc.Name) == "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("test_cases[%d].name", idx), Message: "required"})
		}
	}

	return errs
}

// toSkill builds a fresh draft skill from the content fields. Slug, tags,
// and files are the caller's responsibility.
func (i ContentInput) toSkill() *domain.Skill {
	return &domain.Skill{
		ID:         uuid.New(),
		Status:     domain.SkillStatusDraft,
		Title:      i.Title,
		Summary:    i.Summary,
		Inputs:     i.Inputs,
		Outputs:    i.Outputs,
		Risks:      i.Risks,
		Steps:      i.Steps,
		Triggers:   i.Triggers,
		Guardrails: i.Guardrails,
		TestCases:  i.TestCases,
	}
}

// overwrite replaces every content field of an existing skill. Slug and
// status are untouched.
func (i ContentInput) overwrite(s *domain.Skill) {
	s.Title = i.Title
	s.Summary = i.Summary
	s.Inputs = i.Inputs
	s.Outputs = i.Outputs
	s.Risks = i.Risks
	s.Steps = i.Steps
	s.Triggers = i.Triggers
	s.Guardrails = i.Guardrails
	s.TestCases = i.TestCases
}

// CreateSkillInput holds the parameters for creating a skill.
type CreateSkillInput struct {
	ContentInput
}

// Validate checks all fields and collects all errors.
func (i CreateSkillInput) Validate() error {
	if errs := i.violations(); len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateSkillInput holds the parameters for a full-overwrite update.
type UpdateSkillInput struct {
	SkillID uuid.UUID
	ContentInput
}

// Validate checks all fields and collects all errors.
func (i UpdateSkillInput) Validate() error {
	var errs []domain.FieldError
	if i.SkillID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "skill_id", Message: "required"})
	}
	errs = append(errs, i.violations()...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// GetSkillInput holds the parameters for fetching one skill.
type GetSkillInput struct {
	SkillID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i GetSkillInput) Validate() error {
	if i.SkillID == uuid.Nil {
		return domain.NewValidationError("skill_id", "required")
	}
	return nil
}

// DeleteSkillInput holds the parameters for deleting a skill.
type DeleteSkillInput struct {
	SkillID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DeleteSkillInput) Validate() error {
	if i.SkillID == uuid.Nil {
		return domain.NewValidationError("skill_id", "required")
	}
	return nil
}

// DuplicateSkillInput holds the parameters for duplicating a skill.
type DuplicateSkillInput struct {
	SkillID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DuplicateSkillInput) Validate() error {
	if i.SkillID == uuid.Nil {
		return domain.NewValidationError("skill_id", "required")
	}
	return nil
}

// ListFilesInput holds the parameters for listing a skill's files.
type ListFilesInput struct {
	SkillID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i ListFilesInput) Validate() error {
	if i.SkillID == uuid.Nil {
		return domain.NewValidationError("skill_id", "required")
	}
	return nil
}

// ListSkillsInput holds the filter and pagination for a skill listing.
// Page and Limit are normalized, not rejected: out-of-range values clamp.
type ListSkillsInput struct {
	Status *domain.SkillStatus
	Tag    *string
	Search *string
	Page   int
	Limit  int
}

// Validate checks all fields and collects all errors.
func (i ListSkillsInput) Validate() error {
	if i.Status != nil && !i.Status.IsValid() {
		return domain.NewValidationError("status", "must be one of: draft, published")
	}
	return nil
}
