package version

import (
	"context"
	"fmt"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// defaultPageSize applies when a listing request names no limit.
const defaultPageSize = 20

// HistoryPage is one page of a skill's version history, newest number
// first.
type HistoryPage struct {
	Versions []*domain.Version
	Total    int
	Page     int
	Limit    int
}

// ListVersions returns the skill's ledger entries ordered by version number
// descending. The skill must exist; a skill with no entries yields an empty
// page.
func (s *Service) ListVersions(ctx context.Context, input ListVersionsInput) (*HistoryPage, error) {
	if !s.versioning {
		return nil, fmt.Errorf("version ledger: %w", domain.ErrFeatureUnavailable)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.skills.GetByID(ctx, input.SkillID); err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
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

	versions, total, err := s.versions.List(ctx, input.SkillID, domain.VersionPage{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}

	return &HistoryPage{
		Versions: versions,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}
