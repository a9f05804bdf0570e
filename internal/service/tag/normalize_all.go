package tag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// NormalizeAll sweeps the whole tag table: tags whose name normalizes to
// empty are deleted outright; the rest are grouped by normalized name, and
// within each group every duplicate is merged into the first member, which
// is then renamed to the normalized form if its stored name differs.
//
// Each group runs in its own transaction. A failing group is logged and
// skipped; groups already processed stay committed, so the sweep is safe to
// re-run until clean.
func (s *Service) NormalizeAll(ctx context.Context) (*NormalizeResult, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	result := &NormalizeResult{Scanned: len(tags)}

	// Group in list order so the keeper choice is deterministic.
	groupOrder := []string{}
	groups := map[string][]*domain.Tag{}
	for _, t := range tags {
		normalized := domain.NormalizeTag(t.Name)
		if normalized == "" {
			if err := s.tags.Delete(ctx, t.ID); err != nil {
				s.log.WarnContext(ctx, "normalize sweep: delete empty tag failed",
					slog.String("tag_id", t.ID.String()),
					slog.String("error", err.Error()),
				)
				continue
			}
			result.RemovedEmpty++
			continue
		}
		if _, seen := groups[normalized]; !seen {
			groupOrder = append(groupOrder, normalized)
		}
		groups[normalized] = append(groups[normalized], t)
	}
	result.Groups = len(groupOrder)

	for _, normalized := range groupOrder {
		members := groups[normalized]
		keeper := members[0]
		needsRename := keeper.Name != normalized

		if len(members) == 1 && !needsRename {
			continue
		}

		err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			// Duplicates go first; the keeper rename must wait until no
			// other row holds the normalized name.
			for _, dup := range members[1:] {
				if _, err := s.tags.ReassignLinks(txCtx, dup.ID, keeper.ID); err != nil {
					return fmt.Errorf("reassign links of %s: %w", dup.ID, err)
				}
				if err := s.tags.Delete(txCtx, dup.ID); err != nil {
					return fmt.Errorf("delete duplicate %s: %w", dup.ID, err)
				}
			}

			if needsRename {
				if _, err := s.tags.Rename(txCtx, keeper.ID, normalized); err != nil {
					return fmt.Errorf("rename keeper %s: %w", keeper.ID, err)
				}
			}

			return nil
		})
		if err != nil {
			s.log.WarnContext(ctx, "normalize sweep: group failed",
				slog.String("normalized_name", normalized),
				slog.Int("members", len(members)),
				slog.String("error", err.Error()),
			)
			continue
		}

		result.Merged += len(members) - 1
		if needsRename {
			result.Renamed++
		}
	}

	s.log.InfoContext(ctx, "tag normalize sweep finished",
		slog.Int("scanned", result.Scanned),
		slog.Int("groups", result.Groups),
		slog.Int("merged", result.Merged),
		slog.Int("renamed", result.Renamed),
		slog.Int("removed_empty", result.RemovedEmpty),
	)

	return result, nil
}
