// Package file implements the skill supporting-file repository using
// PostgreSQL. Rows are keyed by (skill_id, path) and carry exactly one
// content representation, text or binary; the other column stays NULL.
package file

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

// Repo provides skill file persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new file repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const fileColumns = `id, skill_id, path, mime, content_text, content_bytes, created_at, updated_at`

const listBySkillSQL = `
SELECT ` + fileColumns + `
FROM skill_files
WHERE skill_id = $1
ORDER BY path`

const getByPathSQL = `
SELECT ` + fileColumns + `
FROM skill_files
WHERE skill_id = $1 AND path = $2`

// upsertSQL keeps created_at from the existing row on the conflict branch;
// updated_at is bumped by the table trigger.
const upsertSQL = `
INSERT INTO skill_files (id, skill_id, path, mime, content_text, content_bytes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (skill_id, path) DO UPDATE
SET mime          = EXCLUDED.mime,
    content_text  = EXCLUDED.content_text,
    content_bytes = EXCLUDED.content_bytes
RETURNING ` + fileColumns

const deleteSQL = `
DELETE FROM skill_files
WHERE skill_id = $1 AND path = $2`

// copyAllSQL duplicates every file row of one skill under another, minting
// fresh ids in the database.
const copyAllSQL = `
INSERT INTO skill_files (id, skill_id, path, mime, content_text, content_bytes, created_at, updated_at)
SELECT gen_random_uuid(), $2, path, mime, content_text, content_bytes, $3, $3
FROM skill_files
WHERE skill_id = $1`

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// ListBySkill returns the skill's files ordered by path.
func (r *Repo) ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.SkillFile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := querier.Query(ctx, listBySkillSQL, skillID)
	if err != nil {
		return nil, mapError(err, "list files of skill", skillID.String())
	}
	defer rows.Close()

	files, err := scanFiles(rows)
	if err != nil {
		return nil, mapError(err, "list files of skill", skillID.String())
	}

	return files, nil
}

// GetByPath returns one file by its (skill, path) key.
func (r *Repo) GetByPath(ctx context.Context, skillID uuid.UUID, path string) (*domain.SkillFile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, getByPathSQL, skillID, path)
	f, err := scanFile(row)
	if err != nil {
		return nil, mapError(err, "file", path)
	}

	return f, nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Upsert creates or overwrites the row keyed by (skill_id, path). Exactly
// one of ContentText / ContentBytes must be set; the stored row's other
// representation is cleared on overwrite. The existing row's id and
// created_at survive an overwrite.
func (r *Repo) Upsert(ctx context.Context, f *domain.SkillFile) (*domain.SkillFile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, upsertSQL,
		f.ID, f.SkillID, f.Path, f.MIME, f.ContentText, f.ContentBytes, now)

	stored, err := scanFile(row)
	if err != nil {
		return nil, mapError(err, "file", f.Path)
	}

	return stored, nil
}

// Delete removes the row at (skill_id, path). Reports ErrNotFound when no
// such row exists; callers that treat absence as success check for it.
func (r *Repo) Delete(ctx context.Context, skillID uuid.UUID, path string) error {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := querier.Exec(ctx, deleteSQL, skillID, path)
	if err != nil {
		return mapError(err, "file", path)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", path, domain.ErrNotFound)
	}

	return nil
}

// CopyAll duplicates every file of fromSkill under toSkill and returns the
// number of rows copied. Paths collide only if toSkill already has files, so
// callers copy into freshly created skills.
func (r *Repo) CopyAll(ctx context.Context, fromSkillID, toSkillID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	tag, err := querier.Exec(ctx, copyAllSQL, fromSkillID, toSkillID, now)
	if err != nil {
		return 0, mapError(err, "copy files of skill", fromSkillID.String())
	}

	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanFile(row pgx.Row) (*domain.SkillFile, error) {
	var (
		id           uuid.UUID
		skillID      uuid.UUID
		path         string
		mime         *string
		contentText  *string
		contentBytes []byte
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(&id, &skillID, &path, &mime, &contentText, &contentBytes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return &domain.SkillFile{
		ID:           id,
		SkillID:      skillID,
		Path:         path,
		MIME:         mime,
		ContentText:  contentText,
		ContentBytes: contentBytes,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func scanFiles(rows pgx.Rows) ([]*domain.SkillFile, error) {
	files := []*domain.SkillFile{}

	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return files, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func mapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, key, err)
}
