package publication

import (
	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// PublishInput holds the parameters for releasing a skill. The note length
// limit is configured, so Publish checks it separately.
type PublishInput struct {
	SkillID uuid.UUID
	Note    *string
}

// Validate checks all fields and collects all errors.
func (i PublishInput) Validate() error {
	if i.SkillID == uuid.Nil {
		return domain.NewValidationError("skill_id", "required")
	}
	return nil
}

// ListPublicationsInput holds the parameters for listing a skill's releases.
type ListPublicationsInput struct {
	SkillID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i ListPublicationsInput) Validate() error {
	if i.SkillID == uuid.Nil {
		return domain.NewValidationError("skill_id", "required")
	}
	return nil
}
