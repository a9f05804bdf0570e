package skill

import (
	"context"
	"errors"
	"fmt"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// ListFiles returns the skill's supporting files ordered by path. The skill
// must exist; an empty file set is not an error.
func (s *Service) ListFiles(ctx context.Context, input ListFilesInput) ([]*domain.SkillFile, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.skills.GetByID(ctx, input.SkillID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get skill: %w", err)
	}

	files, err := s.files.ListBySkill(ctx, input.SkillID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	return files, nil
}
