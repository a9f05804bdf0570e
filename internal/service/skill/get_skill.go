package skill

import (
	"context"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// GetSkill returns the fully materialized skill: content fields plus its
// tag and file associations.
func (s *Service) GetSkill(ctx context.Context, input GetSkillInput) (*domain.Skill, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	return s.reload(ctx, input.SkillID)
}
