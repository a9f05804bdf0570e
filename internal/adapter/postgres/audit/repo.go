// Package audit implements the append-only audit event repository using
// PostgreSQL. Events are written inside the transaction of the mutation
// they record and are never updated or deleted.
package audit

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

// Repo provides audit event persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const auditColumns = `id, entity_type, entity_id, action, detail, created_at`

const createSQL = `
INSERT INTO audit_events (id, entity_type, entity_id, action, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + auditColumns

const listByEntitySQL = `
SELECT ` + auditColumns + `
FROM audit_events
WHERE entity_type = $1 AND entity_id = $2
ORDER BY created_at DESC
LIMIT $3`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Log appends an audit event. The id and timestamp are assigned here; the
// caller supplies entity, action, and detail.
func (r *Repo) Log(ctx context.Context, event domain.AuditEvent) error {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	detail, err := marshalDetail(event.Detail)
	if err != nil {
		return fmt.Errorf("audit event: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL,
		uuid.New(), string(event.EntityType), event.EntityID, string(event.Action), detail, now)

	if _, err := scanEvent(row); err != nil {
		return mapError(err, "audit event for", event.EntityID)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByEntity returns the newest events for one entity, newest first,
// limited to limit rows.
func (r *Repo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]*domain.AuditEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := querier.Query(ctx, listByEntitySQL, string(entityType), entityID, limit)
	if err != nil {
		return nil, mapError(err, "list audit events of", entityID)
	}
	defer rows.Close()

	events := []*domain.AuditEvent{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, mapError(err, "list audit events of", entityID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list audit events of", entityID)
	}

	return events, nil
}

// ---------------------------------------------------------------------------
// Row scanning and JSONB helpers
// ---------------------------------------------------------------------------

func scanEvent(row pgx.Row) (*domain.AuditEvent, error) {
	var (
		id         uuid.UUID
		entityType string
		entityID   uuid.UUID
		action     string
		rawDetail  []byte
		createdAt  time.Time
	)

	if err := row.Scan(&id, &entityType, &entityID, &action, &rawDetail, &createdAt); err != nil {
		return nil, err
	}

	event := &domain.AuditEvent{
		ID:         id,
		EntityType: domain.EntityType(entityType),
		EntityID:   entityID,
		Action:     domain.AuditAction(action),
		CreatedAt:  createdAt,
	}

	if len(rawDetail) > 0 {
		detail := map[string]any{}
		if err := json.Unmarshal(rawDetail, &detail); err != nil {
			return nil, fmt.Errorf("audit event %s: unmarshal detail: %w", id, err)
		}
		event.Detail = detail
	}

	return event, nil
}

func marshalDetail(detail map[string]any) ([]byte, error) {
	if detail == nil {
		detail = map[string]any{}
	}

	b, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("marshal detail: %w", err)
	}

	return b, nil
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
