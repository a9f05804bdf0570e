package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// PutDraft creates or replaces the draft stored under the input key.
//
// When the key is absent the draft is created at version 1 and any supplied
// expected version is ignored. When the key exists and an expected version
// is supplied, the write succeeds only if it matches the stored version
// (the version then increments by exactly 1); a mismatch fails with a
// conflict carrying the current version and changes nothing. When the key
// exists and no expected version is supplied, the write force-overwrites.
func (s *Service) PutDraft(ctx context.Context, input PutDraftInput) (*domain.Draft, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(input.Payload)
	if err != nil {
		return nil, domain.NewValidationError("payload", "not serializable as JSON")
	}
	if limit := s.cfg.MaxDraftPayloadBytes; len(encoded) > limit {
		return nil, fmt.Errorf("payload is %d bytes, limit %d: %w", len(encoded), limit, domain.ErrPayloadTooLarge)
	}

	if input.RecordID != nil {
		if _, err := s.skills.GetByID(ctx, *input.RecordID); err != nil {
			return nil, fmt.Errorf("resolve record: %w", err)
		}
	}

	draft := &domain.Draft{
		Key:     input.Key,
		Mode:    input.Mode,
		SkillID: input.RecordID,
		Payload: input.Payload,
	}

	var stored *domain.Draft
	if input.ExpectedVersion != nil {
		stored, err = s.drafts.PutCAS(ctx, draft, *input.ExpectedVersion)
	} else {
		stored, err = s.drafts.Put(ctx, draft)
	}
	if err != nil {
		return nil, fmt.Errorf("put draft: %w", err)
	}

	s.log.InfoContext(ctx, "draft stored",
		slog.String("key", stored.Key),
		slog.String("mode", stored.Mode.String()),
		slog.Int("version", stored.Version),
	)

	return stored, nil
}
