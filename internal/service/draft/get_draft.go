package draft

import (
	"context"
	"fmt"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// GetDraft returns the draft stored under key.
func (s *Service) GetDraft(ctx context.Context, input GetDraftInput) (*domain.Draft, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	draft, err := s.drafts.Get(ctx, input.Key)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	return draft, nil
}
