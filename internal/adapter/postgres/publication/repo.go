// Package publication implements the publication register repository using
// PostgreSQL. The register's read model is a flat join projection (each row
// annotated with the referenced version number), scanned with scany instead
// of a hand-written scanner.
package publication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	postgres "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// Repo provides publication persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new publication repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const publicationColumns = `id, skill_id, version_id, note, published_at`

const createSQL = `
INSERT INTO publications (id, skill_id, version_id, note, published_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + publicationColumns

// listBySkillSQL orders by publish time with the version number as a
// tiebreak, since rows published inside one transaction share now().
const listBySkillSQL = `
SELECT p.id, p.skill_id, p.version_id, p.note, p.published_at, v.version AS version_number
FROM publications p
JOIN skill_versions v ON v.id = p.version_id
WHERE p.skill_id = $1
ORDER BY p.published_at DESC, v.version DESC`

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Create records a publication of the given version. The referenced version
// must exist; a dangling version id reports ErrNotFound.
func (r *Repo) Create(ctx context.Context, pub *domain.Publication) (*domain.Publication, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL,
		pub.ID, pub.SkillID, pub.VersionID, pub.Note, now)

	created, err := scanPublication(row)
	if err != nil {
		return nil, mapError(err, "publication", pub.ID)
	}

	return created, nil
}

// ListBySkill returns the skill's publications newest-first, each annotated
// with the number of the version it references.
func (r *Repo) ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.PublicationWithVersion, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	var rows []publicationWithVersionRow
	if err := pgxscan.Select(ctx, querier, &rows, listBySkillSQL, skillID); err != nil {
		return nil, mapError(err, "list publications of skill", skillID)
	}

	out := make([]*domain.PublicationWithVersion, len(rows))
	for i, row := range rows {
		out[i] = &domain.PublicationWithVersion{
			Publication: domain.Publication{
				ID:          row.ID,
				SkillID:     row.SkillID,
				VersionID:   row.VersionID,
				Note:        row.Note,
				PublishedAt: row.PublishedAt,
			},
			VersionNumber: row.VersionNumber,
		}
	}

	return out, nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

// publicationWithVersionRow is the scany destination for the join projection.
type publicationWithVersionRow struct {
	ID            uuid.UUID `db:"id"`
	SkillID       uuid.UUID `db:"skill_id"`
	VersionID     uuid.UUID `db:"version_id"`
	Note          *string   `db:"note"`
	PublishedAt   time.Time `db:"published_at"`
	VersionNumber int       `db:"version_number"`
}

func scanPublication(row pgx.Row) (*domain.Publication, error) {
	var (
		id          uuid.UUID
		skillID     uuid.UUID
		versionID   uuid.UUID
		note        *string
		publishedAt time.Time
	)

	if err := row.Scan(&id, &skillID, &versionID, &note, &publishedAt); err != nil {
		return nil, err
	}

	return &domain.Publication{
		ID:          id,
		SkillID:     skillID,
		VersionID:   versionID,
		Note:        note,
		PublishedAt: publishedAt,
	}, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
