// Package version implements the append-only version ledger repository
// using PostgreSQL. Version numbers are assigned inside the insert statement
// itself (max + 1 per skill) and callers serialize assignment by locking the
// owning skill row, so concurrent writers against one skill never draw the
// same number; UNIQUE(skill_id, version) is the storage-level backstop.
package version

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

// Repo provides version ledger persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new version repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const versionColumns = `id, skill_id, version, snapshot, created_at`

// lockSkillSQL serializes number assignment per skill. The row lock is held
// until the surrounding transaction ends, so Create must run inside one.
const lockSkillSQL = `
SELECT id
FROM skills
WHERE id = $1
FOR UPDATE`

// createSQL computes the next number and inserts in a single statement. The
// aggregate subquery returns exactly one row even for a skill with no
// versions yet, defaulting the number to 1.
const createSQL = `
INSERT INTO skill_versions (id, skill_id, version, snapshot, created_at)
SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3, $4
FROM skill_versions
WHERE skill_id = $2
RETURNING ` + versionColumns

const getSQL = `
SELECT ` + versionColumns + `
FROM skill_versions
WHERE skill_id = $1 AND id = $2`

const getLatestSQL = `
SELECT ` + versionColumns + `
FROM skill_versions
WHERE skill_id = $1
ORDER BY version DESC
LIMIT 1`

const listSQL = `
SELECT ` + versionColumns + `
FROM skill_versions
WHERE skill_id = $1
ORDER BY version DESC
LIMIT $2 OFFSET $3`

const countSQL = `
SELECT COUNT(*)
FROM skill_versions
WHERE skill_id = $1`

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Get returns one version scoped to the given skill. A version id that
// belongs to a different skill reports ErrNotFound.
func (r *Repo) Get(ctx context.Context, skillID, versionID uuid.UUID) (*domain.Version, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, getSQL, skillID, versionID)
	v, err := scanVersion(row)
	if err != nil {
		return nil, mapError(err, "version", versionID)
	}

	return v, nil
}

// GetLatest returns the version with the highest number for the skill.
func (r *Repo) GetLatest(ctx context.Context, skillID uuid.UUID) (*domain.Version, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, getLatestSQL, skillID)
	v, err := scanVersion(row)
	if err != nil {
		return nil, mapError(err, "latest version of skill", skillID)
	}

	return v, nil
}

// List returns versions for the skill ordered by number descending, plus the
// total count for pagination. Limit and offset arrive pre-clamped from the
// service layer.
func (r *Repo) List(ctx context.Context, skillID uuid.UUID, page domain.VersionPage) ([]*domain.Version, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	var total int
	if err := querier.QueryRow(ctx, countSQL, skillID).Scan(&total); err != nil {
		return nil, 0, mapError(err, "count versions of skill", skillID)
	}

	rows, err := querier.Query(ctx, listSQL, skillID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, mapError(err, "list versions of skill", skillID)
	}
	defer rows.Close()

	versions, err := scanVersions(rows)
	if err != nil {
		return nil, 0, mapError(err, "list versions of skill", skillID)
	}

	return versions, total, nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// Create appends a ledger entry for the skill at (current max + 1),
// defaulting to 1. It locks the skill row first, so concurrent creators for
// the same skill queue up rather than racing the aggregate; the caller must
// therefore run Create inside a transaction. A missing skill reports
// ErrNotFound.
func (r *Repo) Create(ctx context.Context, skillID uuid.UUID, snapshot domain.SkillSnapshot) (*domain.Version, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	var locked uuid.UUID
	if err := querier.QueryRow(ctx, lockSkillSQL, skillID).Scan(&locked); err != nil {
		return nil, mapError(err, "skill", skillID)
	}

	raw, err := marshalSnapshot(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot for skill %s: %w", skillID, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL, uuid.New(), skillID, raw, now)
	v, err := scanVersion(row)
	if err != nil {
		return nil, mapError(err, "create version for skill", skillID)
	}

	return v, nil
}

// ---------------------------------------------------------------------------
// Row scanning
// ---------------------------------------------------------------------------

func scanVersion(row pgx.Row) (*domain.Version, error) {
	var (
		id        uuid.UUID
		skillID   uuid.UUID
		number    int
		raw       []byte
		createdAt time.Time
	)

	if err := row.Scan(&id, &skillID, &number, &raw, &createdAt); err != nil {
		return nil, err
	}

	snapshot, err := unmarshalSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("version %s: %w", id, err)
	}

	return &domain.Version{
		ID:        id,
		SkillID:   skillID,
		Number:    number,
		Snapshot:  snapshot,
		CreatedAt: createdAt,
	}, nil
}

func scanVersions(rows pgx.Rows) ([]*domain.Version, error) {
	versions := []*domain.Version{}

	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return versions, nil
}

// ---------------------------------------------------------------------------
// JSONB helpers
// ---------------------------------------------------------------------------

type stepJSON struct {
	Title  string  `json:"title"`
	Detail *string `json:"detail,omitempty"`
}

type testCaseJSON struct {
	Name     string `json:"name"`
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

type guardrailPolicyJSON struct {
	Always   []string `json:"always,omitempty"`
	Never    []string `json:"never,omitempty"`
	AskFirst []string `json:"ask_first,omitempty"`
}

type snapshotJSON struct {
	Title      string              `json:"title"`
	Summary    *string             `json:"summary,omitempty"`
	Inputs     *string             `json:"inputs,omitempty"`
	Outputs    *string             `json:"outputs,omitempty"`
	Risks      *string             `json:"risks,omitempty"`
	Steps      []stepJSON          `json:"steps"`
	Triggers   []string            `json:"triggers"`
	Guardrails guardrailPolicyJSON `json:"guardrails"`
	TestCases  []testCaseJSON      `json:"test_cases"`
	Tags       []string            `json:"tags"`
}

func marshalSnapshot(s domain.SkillSnapshot) ([]byte, error) {
	steps := make([]stepJSON, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = stepJSON{Title: step.Title, Detail: step.Detail}
	}

	cases := make([]testCaseJSON, len(s.TestCases))
	for i, tc := range s.TestCases {
		cases[i] = testCaseJSON{Name: tc.Name, Input: tc.Input, Expected: tc.Expected}
	}

	triggers := s.Triggers
	if triggers == nil {
		triggers = []string{}
	}
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}

	return json.Marshal(snapshotJSON{
		Title:    s.Title,
		Summary:  s.Summary,
		Inputs:   s.Inputs,
		Outputs:  s.Outputs,
		Risks:    s.Risks,
		Steps:    steps,
		Triggers: triggers,
		Guardrails: guardrailPolicyJSON{
			Always:   s.Guardrails.Always,
			Never:    s.Guardrails.Never,
			AskFirst: s.Guardrails.AskFirst,
		},
		TestCases: cases,
		Tags:      tags,
	})
}

// unmarshalSnapshot decodes and shape-checks stored snapshot bytes. Rows
// written by older or foreign tooling may hold arbitrary JSON, so every read
// path validates before any caller trusts the result; failures report
// ErrInvalidSnapshot rather than propagating a decode panic into a rollback.
func unmarshalSnapshot(raw []byte) (domain.SkillSnapshot, error) {
	var s snapshotJSON
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.SkillSnapshot{}, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}

	steps := make([]domain.Step, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = domain.Step{Title: step.Title, Detail: step.Detail}
	}

	cases := make([]domain.TestCase, len(s.TestCases))
	for i, tc := range s.TestCases {
		cases[i] = domain.TestCase{Name: tc.Name, Input: tc.Input, Expected: tc.Expected}
	}

	snapshot := domain.SkillSnapshot{
		Title:    s.Title,
		Summary:  s.Summary,
		Inputs:   s.Inputs,
		Outputs:  s.Outputs,
		Risks:    s.Risks,
		Steps:    steps,
		Triggers: s.Triggers,
		Guardrails: domain.GuardrailPolicy{
			Always:   s.Guardrails.Always,
			Never:    s.Guardrails.Never,
			AskFirst: s.Guardrails.AskFirst,
		},
		TestCases: cases,
		Tags:      s.Tags,
	}
	if snapshot.Triggers == nil {
		snapshot.Triggers = []string{}
	}
	if snapshot.Tags == nil {
		snapshot.Tags = []string{}
	}

	if err := snapshot.Validate(); err != nil {
		return domain.SkillSnapshot{}, err
	}

	return snapshot, nil
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
