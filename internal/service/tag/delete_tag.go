package tag

import (
	"context"
	"fmt"
	"log/slog"
)

// DeleteTag removes a tag and all its skill associations. Deleting a tag
// that does not exist reports ErrNotFound.
func (s *Service) DeleteTag(ctx context.Context, input DeleteTagInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	tag, err := s.tags.GetByID(ctx, input.TagID)
	if err != nil {
		return fmt.Errorf("get tag: %w", err)
	}

	links, err := s.tags.CountLinks(ctx, input.TagID)
	if err != nil {
		return fmt.Errorf("count tag links: %w", err)
	}

	if err := s.tags.Delete(ctx, input.TagID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	s.log.InfoContext(ctx, "tag deleted",
		slog.String("tag_id", input.TagID.String()),
		slog.String("name", tag.Name),
		slog.Int("links_removed", links),
	)

	return nil
}
