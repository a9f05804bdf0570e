package publication

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// Publish marks the skill's latest version as released. When the ledger is
// still empty it first synthesizes version 1 from the skill's current
// state, so a publication always references a concrete ledger entry. The
// version resolution, the publication row, and the status flip to
// published commit or roll back together. Publishing again appends another
// register row; nothing is rewritten.
func (s *Service) Publish(ctx context.Context, input PublishInput) (*domain.PublicationWithVersion, error) {
	if !s.versioning {
		return nil, fmt.Errorf("publication register: %w", domain.ErrFeatureUnavailable)
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if limit := s.cfg.MaxPublishNoteBytes; input.Note != nil && len(*input.Note) > limit {
		return nil, domain.NewValidationError("note", fmt.Sprintf("max %d bytes", limit))
	}

	var result *domain.PublicationWithVersion
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		skill, err := s.skills.GetForUpdate(txCtx, input.SkillID)
		if err != nil {
			return fmt.Errorf("lock skill: %w", err)
		}

		latest, err := s.versions.GetLatest(txCtx, skill.ID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			latest, err = s.synthesizeVersion(txCtx, skill)
			if err != nil {
				return err
			}
		case err != nil:
			return fmt.Errorf("get latest version: %w", err)
		}

		created, err := s.pubs.Create(txCtx, &domain.Publication{
			ID:        uuid.New(),
			SkillID:   skill.ID,
			VersionID: latest.ID,
			Note:      input.Note,
		})
		if err != nil {
			return fmt.Errorf("create publication: %w", err)
		}

		if err := s.skills.SetStatus(txCtx, skill.ID, domain.SkillStatusPublished); err != nil {
			return fmt.Errorf("set status: %w", err)
		}

		event := domain.AuditEvent{
			EntityType: domain.EntityTypeSkill,
			EntityID:   skill.ID,
			Action:     domain.AuditActionPublished,
			Detail: map[string]any{
				"version": latest.Number,
				"note":    input.Note,
			},
		}
		if err := s.audit.Log(txCtx, event); err != nil {
			return fmt.Errorf("log audit event: %w", err)
		}

		result = &domain.PublicationWithVersion{
			Publication:   *created,
			VersionNumber: latest.Number,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "skill published",
		slog.String("skill_id", input.SkillID.String()),
		slog.Int("version", result.VersionNumber),
	)

	return result, nil
}

// synthesizeVersion appends version 1 from the skill's current state and
// tag set. Only called while holding the skill's row lock.
func (s *Service) synthesizeVersion(ctx context.Context, skill *domain.Skill) (*domain.Version, error) {
	tags, err := s.tags.ListBySkill(ctx, skill.ID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}

	created, err := s.versions.Create(ctx, skill.ID, domain.SnapshotOf(skill, names))
	if err != nil {
		return nil, fmt.Errorf("synthesize version: %w", err)
	}

	return created, nil
}
