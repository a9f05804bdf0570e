// Package draft implements the Draft repository using PostgreSQL.
// The draft version column is a server-side concurrency token: compare-and-swap
// writes are a single conditional UPDATE, never a read-modify-write cycle.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	postgres "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// Repo provides draft persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new draft repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const draftColumns = `key, mode, skill_id, payload, version, created_at, updated_at`

const getSQL = `
SELECT ` + draftColumns + `
FROM drafts
WHERE key = $1`

const getVersionSQL = `
SELECT version FROM drafts WHERE key = $1`

const createSQL = `
INSERT INTO drafts (key, mode, skill_id, payload, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, 1, $5, $5)
RETURNING ` + draftColumns

const putSQL = `
INSERT INTO drafts (key, mode, skill_id, payload, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, 1, $5, $5)
ON CONFLICT (key) DO UPDATE
SET mode = EXCLUDED.mode, skill_id = EXCLUDED.skill_id, payload = EXCLUDED.payload,
    version = drafts.version + 1
RETURNING ` + draftColumns

const casUpdateSQL = `
UPDATE drafts
SET mode = $2, skill_id = $3, payload = $4, version = version + 1
WHERE key = $1 AND version = $5
RETURNING ` + draftColumns

const deleteSQL = `
DELETE FROM drafts WHERE key = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns a draft by key.
// Returns domain.ErrNotFound if no draft has the key.
func (r *Repo) Get(ctx context.Context, key string) (*domain.Draft, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, getSQL, key)

	draft, err := scanDraft(row)
	if err != nil {
		return nil, mapError(err, key)
	}

	return draft, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Put writes a draft unconditionally: absent keys are created at version 1,
// existing keys are overwritten with the version incremented by exactly 1.
func (r *Repo) Put(ctx context.Context, draft *domain.Draft) (*domain.Draft, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	payload, err := marshalPayload(draft.Payload)
	if err != nil {
		return nil, fmt.Errorf("draft %s: %w", draft.Key, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, putSQL,
		draft.Key, string(draft.Mode), draft.SkillID, payload, now)

	saved, err := scanDraft(row)
	if err != nil {
		return nil, mapError(err, draft.Key)
	}

	return saved, nil
}

// PutCAS writes a draft guarded by the caller's version token. The write is a
// single conditional UPDATE: it succeeds only when the stored version still
// equals expectedVersion, and increments it by exactly 1. A stale token yields
// a domain.ConflictError carrying the current stored version. An absent key is
// created at version 1 regardless of the token.
func (r *Repo) PutCAS(ctx context.Context, draft *domain.Draft, expectedVersion int) (*domain.Draft, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	payload, err := marshalPayload(draft.Payload)
	if err != nil {
		return nil, fmt.Errorf("draft %s: %w", draft.Key, err)
	}

	row := querier.QueryRow(ctx, casUpdateSQL,
		draft.Key, string(draft.Mode), draft.SkillID, payload, expectedVersion)

	saved, err := scanDraft(row)
	if err == nil {
		return saved, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, mapError(err, draft.Key)
	}

	// Zero rows matched: either the token is stale or the key does not exist.
	var current int
	err = querier.QueryRow(ctx, getVersionSQL, draft.Key).Scan(&current)
	switch {
	case err == nil:
		return nil, fmt.Errorf("draft %s: %w", draft.Key, domain.NewVersionConflict(current))
	case errors.Is(err, pgx.ErrNoRows):
		// Absent key: create at version 1.
	default:
		return nil, mapError(err, draft.Key)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	row = querier.QueryRow(ctx, createSQL,
		draft.Key, string(draft.Mode), draft.SkillID, payload, now)

	created, err := scanDraft(row)
	if err != nil {
		mapped := mapError(err, draft.Key)
		if !errors.Is(mapped, domain.ErrAlreadyExists) {
			return nil, mapped
		}
		// Lost a create race; report the winner's version as the conflict.
		if verr := querier.QueryRow(ctx, getVersionSQL, draft.Key).Scan(&current); verr == nil {
			return nil, fmt.Errorf("draft %s: %w", draft.Key, domain.NewVersionConflict(current))
		}
		return nil, mapped
	}

	return created, nil
}

// Delete removes a draft by key.
// Returns domain.ErrNotFound if no draft has the key.
func (r *Repo) Delete(ctx context.Context, key string) error {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	ct, err := querier.Exec(ctx, deleteSQL, key)
	if err != nil {
		return mapError(err, key)
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("draft %s: %w", key, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanDraft scans a single draft row from pgx.Row.
func scanDraft(row pgx.Row) (*domain.Draft, error) {
	var (
		key        string
		mode       string
		skillID    *uuid.UUID
		rawPayload []byte
		version    int
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(&key, &mode, &skillID, &rawPayload, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	payload, err := unmarshalPayload(rawPayload)
	if err != nil {
		return nil, fmt.Errorf("draft %s: %w", key, err)
	}

	return &domain.Draft{
		Key:       key,
		Mode:      domain.DraftMode(mode),
		SkillID:   skillID,
		Payload:   payload,
		Version:   version,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// ---------------------------------------------------------------------------
// JSONB serialization helpers for the payload column
// ---------------------------------------------------------------------------

// marshalPayload converts the opaque payload object to JSONB bytes.
// Nil maps are stored as empty objects.
func marshalPayload(payload map[string]any) ([]byte, error) {
	if payload == nil {
		payload = map[string]any{}
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	return b, nil
}

// unmarshalPayload converts JSONB bytes back to the opaque payload object.
func unmarshalPayload(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload == nil {
		payload = map[string]any{}
	}

	return payload, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors. Drafts are keyed by
// string, not uuid.
func mapError(err error, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("draft %s: %w", key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("draft %s: %w", key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("draft %s: %w", key, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("draft %s: %w", key, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("draft %s: %w", key, domain.ErrValidation)
		}
	}

	return fmt.Errorf("draft %s: %w", key, err)
}
