// Package tag implements the Tag repository using PostgreSQL, including the
// skill_tags join table. Link reassignment keeps the (skill, tag) pair unique
// via ON CONFLICT DO NOTHING, so merges never produce duplicate rows.
package tag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	postgres "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// Repo provides tag persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new tag repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const tagColumns = `id, name, created_at`

const createSQL = `
INSERT INTO tags (id, name, created_at)
VALUES ($1, $2, $3)
RETURNING ` + tagColumns

const getByIDSQL = `
SELECT ` + tagColumns + `
FROM tags
WHERE id = $1`

const getByNameSQL = `
SELECT ` + tagColumns + `
FROM tags
WHERE name = $1`

const listSQL = `
SELECT ` + tagColumns + `
FROM tags
ORDER BY name`

const listBySkillSQL = `
SELECT t.id, t.name, t.created_at
FROM skill_tags st
JOIN tags t ON st.tag_id = t.id
WHERE st.skill_id = $1
ORDER BY t.name`

const renameSQL = `
UPDATE tags SET name = $2 WHERE id = $1
RETURNING ` + tagColumns

const deleteSQL = `
DELETE FROM tags WHERE id = $1`

const ensureByNamesSQL = `
INSERT INTO tags (id, name, created_at)
SELECT unnest($1::uuid[]), unnest($2::text[]), $3
ON CONFLICT (name) DO NOTHING`

const getByNamesSQL = `
SELECT ` + tagColumns + `
FROM tags
WHERE name = ANY($1::text[])`

const reassignLinksSQL = `
INSERT INTO skill_tags (skill_id, tag_id)
SELECT skill_id, $2 FROM skill_tags WHERE tag_id = $1
ON CONFLICT DO NOTHING`

const deleteSkillLinksSQL = `
DELETE FROM skill_tags WHERE skill_id = $1`

const linkSkillTagsSQL = `
INSERT INTO skill_tags (skill_id, tag_id)
SELECT $1, unnest($2::uuid[])
ON CONFLICT DO NOTHING`

const countLinksSQL = `
SELECT count(*) FROM skill_tags WHERE tag_id = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a tag by primary key.
// Returns domain.ErrNotFound if the tag does not exist.
func (r *Repo) GetByID(ctx context.Context, tagID uuid.UUID) (*domain.Tag, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, getByIDSQL, tagID)

	tag, err := scanTag(row)
	if err != nil {
		return nil, mapError(err, "tag", tagID)
	}

	return tag, nil
}

// GetByName returns a tag by its unique stored name (exact match, callers
// normalize first).
// Returns domain.ErrNotFound if no tag has the name.
func (r *Repo) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, getByNameSQL, name)

	tag, err := scanTag(row)
	if err != nil {
		return nil, mapError(err, "tag", uuid.Nil)
	}

	return tag, nil
}

// List returns all tags ordered by name.
// Returns an empty slice (not nil) when there are no tags.
func (r *Repo) List(ctx context.Context) ([]*domain.Tag, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := querier.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags, err := scanTags(rows)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return tags, nil
}

// ListBySkill returns all tags linked to a skill ordered by name.
// Returns an empty slice (not nil) when no tags are linked.
func (r *Repo) ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.Tag, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := querier.Query(ctx, listBySkillSQL, skillID)
	if err != nil {
		return nil, fmt.Errorf("list tags by skill: %w", err)
	}
	defer rows.Close()

	tags, err := scanTags(rows)
	if err != nil {
		return nil, fmt.Errorf("list tags by skill: %w", err)
	}

	return tags, nil
}

// CountLinks returns the number of skills linked to a tag.
func (r *Repo) CountLinks(ctx context.Context, tagID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	var count int
	if err := querier.QueryRow(ctx, countLinksSQL, tagID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tag links: %w", err)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new tag and returns the persisted domain.Tag.
// Returns domain.ErrAlreadyExists if the name is already taken.
func (r *Repo) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL, tag.ID, tag.Name, now)

	created, err := scanTag(row)
	if err != nil {
		return nil, mapError(err, "tag", tag.ID)
	}

	return created, nil
}

// EnsureByNames creates any missing tags and returns one tag per input name,
// in input order. Names must already be normalized and deduplicated.
func (r *Repo) EnsureByNames(ctx context.Context, names []string) ([]*domain.Tag, error) {
	if len(names) == 0 {
		return []*domain.Tag{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.db)

	ids := make([]uuid.UUID, len(names))
	for i := range names {
		ids[i] = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)

	if _, err := querier.Exec(ctx, ensureByNamesSQL, ids, names, now); err != nil {
		return nil, mapError(err, "tag", uuid.Nil)
	}

	rows, err := querier.Query(ctx, getByNamesSQL, names)
	if err != nil {
		return nil, fmt.Errorf("get tags by names: %w", err)
	}
	defer rows.Close()

	fetched, err := scanTags(rows)
	if err != nil {
		return nil, fmt.Errorf("get tags by names: %w", err)
	}

	byName := make(map[string]*domain.Tag, len(fetched))
	for _, t := range fetched {
		byName[t.Name] = t
	}

	tags := make([]*domain.Tag, len(names))
	for i, name := range names {
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("tag %q: %w", name, domain.ErrNotFound)
		}
		tags[i] = t
	}

	return tags, nil
}

// Rename updates a tag's name.
// Returns domain.ErrNotFound if the tag does not exist and
// domain.ErrAlreadyExists if the new name is taken by another tag.
func (r *Repo) Rename(ctx context.Context, tagID uuid.UUID, name string) (*domain.Tag, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, renameSQL, tagID, name)

	renamed, err := scanTag(row)
	if err != nil {
		return nil, mapError(err, "tag", tagID)
	}

	return renamed, nil
}

// Delete removes a tag. CASCADE deletes its skill_tags rows.
// Returns domain.ErrNotFound if the tag does not exist.
func (r *Repo) Delete(ctx context.Context, tagID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	ct, err := querier.Exec(ctx, deleteSQL, tagID)
	if err != nil {
		return mapError(err, "tag", tagID)
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("tag %s: %w", tagID, domain.ErrNotFound)
	}

	return nil
}

// ReassignLinks copies every (skill, source) link to (skill, target), skipping
// pairs that already exist. Returns the number of new links created. The
// source tag and its links are left untouched.
func (r *Repo) ReassignLinks(ctx context.Context, sourceID, targetID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	ct, err := querier.Exec(ctx, reassignLinksSQL, sourceID, targetID)
	if err != nil {
		return 0, mapError(err, "skill_tag", targetID)
	}

	return int(ct.RowsAffected()), nil
}

// ReplaceSkillTags replaces the full tag set of a skill with the given tag
// IDs. An empty slice clears all links.
func (r *Repo) ReplaceSkillTags(ctx context.Context, skillID uuid.UUID, tagIDs []uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := querier.Exec(ctx, deleteSkillLinksSQL, skillID); err != nil {
		return mapError(err, "skill_tag", skillID)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	if _, err := querier.Exec(ctx, linkSkillTagsSQL, skillID, tagIDs); err != nil {
		return mapError(err, "skill_tag", skillID)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanTag scans a single tag row from pgx.Row.
func scanTag(row pgx.Row) (*domain.Tag, error) {
	var (
		id        uuid.UUID
		name      string
		createdAt time.Time
	)

	if err := row.Scan(&id, &name, &createdAt); err != nil {
		return nil, err
	}

	return &domain.Tag{ID: id, Name: name, CreatedAt: createdAt}, nil
}

// scanTags scans multiple tag rows from pgx.Rows into a []*domain.Tag slice.
func scanTags(rows pgx.Rows) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
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
