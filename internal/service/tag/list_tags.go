package tag

import (
	"context"
	"fmt"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// ListTags returns all tags ordered by name.
func (s *Service) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
