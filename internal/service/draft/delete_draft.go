package draft

import (
	"context"
	"fmt"
	"log/slog"
)

// DeleteDraft removes the draft stored under key. Deleting a key that never
// existed reports ErrNotFound.
func (s *Service) DeleteDraft(ctx context.Context, input DeleteDraftInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	if err := s.drafts.Delete(ctx, input.Key); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}

	s.log.InfoContext(ctx, "draft deleted", slog.String("key", input.Key))

	return nil
}
