package publication

import (
	"context"
	"fmt"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// ListPublications returns the skill's releases newest-first, each
// annotated with the referenced version number. The skill must exist; a
// skill that was never published yields an empty list.
func (s *Service) ListPublications(ctx context.Context, input ListPublicationsInput) ([]*domain.PublicationWithVersion, error) {
	if !s.versioning {
		return nil, fmt.Errorf("publication register: %w", domain.ErrFeatureUnavailable)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.skills.GetByID(ctx, input.SkillID); err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}

	pubs, err := s.pubs.ListBySkill(ctx, input.SkillID)
	if err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}

	return pubs, nil
}
