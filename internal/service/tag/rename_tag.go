package tag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// RenameTag renames a tag. The candidate name is normalized first; if a
// different tag already holds the normalized name, the call fails with a
// conflict carrying that tag's id.
func (s *Service) RenameTag(ctx context.Context, input RenameTagInput) (*domain.Tag, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	normalized := domain.NormalizeTag(input.Name)

	tag, err := s.tags.GetByID(ctx, input.TagID)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}

	holder, err := s.tags.GetByName(ctx, normalized)
	switch {
	case err == nil:
		if holder.ID != tag.ID {
			return nil, domain.NewValueConflict("name", normalized, holder.ID)
		}
	case errors.Is(err, domain.ErrNotFound):
		// Name is free.
	default:
		return nil, fmt.Errorf("check name holder: %w", err)
	}

	if tag.Name == normalized {
		return tag, nil
	}

	renamed, err := s.tags.Rename(ctx, input.TagID, normalized)
	if err != nil {
		return nil, fmt.Errorf("rename tag: %w", err)
	}

	s.log.InfoContext(ctx, "tag renamed",
		slog.String("tag_id", tag.ID.String()),
		slog.String("old_name", tag.Name),
		slog.String("new_name", normalized),
	)

	return renamed, nil
}
