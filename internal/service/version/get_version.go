package version

import (
	"context"
	"fmt"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// GetVersion returns one ledger entry scoped to the skill. A version id
// belonging to a different skill reports ErrNotFound, never the foreign
// entry.
func (s *Service) GetVersion(ctx context.Context, input GetVersionInput) (*domain.Version, error) {
	if !s.versioning {
		return nil, fmt.Errorf("version ledger: %w", domain.ErrFeatureUnavailable)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	v, err := s.versions.Get(ctx, input.SkillID, input.VersionID)
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}

	return v, nil
}
