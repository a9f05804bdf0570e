package skill

import (
	"context"
	"fmt"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// defaultPageSize applies when a listing request names no limit.
const defaultPageSize = 20

// SkillPage is one page of a skill listing. Rows are lean: no tag or file
// associations are attached.
type SkillPage struct {
	Skills []*domain.Skill
	Total  int
	Page   int
	Limit  int
}

// ListSkills returns skills matching the filter, newest-updated first. Page
// and limit are clamped rather than rejected.
func (s *Service) ListSkills(ctx context.Context, input ListSkillsInput) (*SkillPage, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}

	filter := domain.SkillFilter{
		Status: input.Status,
		Search: input.Search,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if input.Tag != nil {
		// Stored tag names are normalized; match against the same form.
		normalized := domain.NormalizeTag(*input.Tag)
		filter.Tag = &normalized
	}

	skills, total, err := s.skills.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	return &SkillPage{
		Skills: skills,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}
