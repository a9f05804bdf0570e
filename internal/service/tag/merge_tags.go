package tag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// MergeTags moves every skill association of the source tag to the target
// tag (skipping pairs the target already has), then deletes the source.
// Reassignment and deletion run in one transaction.
func (s *Service) MergeTags(ctx context.Context, input MergeTagsInput) (*domain.Tag, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	source, err := s.tags.GetByID(ctx, input.SourceID)
	if err != nil {
		return nil, fmt.Errorf("get source tag: %w", err)
	}
	target, err := s.tags.GetByID(ctx, input.TargetID)
	if err != nil {
		return nil, fmt.Errorf("get target tag: %w", err)
	}

	var moved int
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var reassignErr error
		moved, reassignErr = s.tags.ReassignLinks(txCtx, source.ID, target.ID)
		if reassignErr != nil {
			return fmt.Errorf("reassign links: %w", reassignErr)
		}

		if deleteErr := s.tags.Delete(txCtx, source.ID); deleteErr != nil {
			return fmt.Errorf("delete source tag: %w", deleteErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "tags merged",
		slog.String("source_tag_id", source.ID.String()),
		slog.String("source_name", source.Name),
		slog.String("target_tag_id", target.ID.String()),
		slog.String("target_name", target.Name),
		slog.Int("links_moved", moved),
	)

	return target, nil
}
