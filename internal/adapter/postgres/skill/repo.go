// Package skill implements the Skill repository using PostgreSQL.
// All queries use raw SQL (no query builder) except List, whose filter set is
// dynamic; content columns are JSONB requiring custom marshal/unmarshal logic.
package skill

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	postgres "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// Repo provides skill persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new skill repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// psql builds dynamic queries with PostgreSQL placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const skillColumns = `id, slug, status, title, summary, inputs, outputs, risks, steps, triggers, guardrails, test_cases, created_at, updated_at`

const createSQL = `
INSERT INTO skills (id, slug, status, title, summary, inputs, outputs, risks, steps, triggers, guardrails, test_cases, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + skillColumns

const getByIDSQL = `
SELECT ` + skillColumns + `
FROM skills
WHERE id = $1`

const getBySlugSQL = `
SELECT ` + skillColumns + `
FROM skills
WHERE slug = $1`

const getForUpdateSQL = `
SELECT ` + skillColumns + `
FROM skills
WHERE id = $1
FOR UPDATE`

const updateSQL = `
UPDATE skills
SET slug = $2, title = $3, summary = $4, inputs = $5, outputs = $6, risks = $7,
    steps = $8, triggers = $9, guardrails = $10, test_cases = $11
WHERE id = $1
RETURNING ` + skillColumns

const setStatusSQL = `
UPDATE skills SET status = $2 WHERE id = $1`

const deleteSQL = `
DELETE FROM skills WHERE id = $1`

const listSlugsSQL = `
SELECT slug FROM skills WHERE slug = $1 OR slug LIKE $2`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a skill by primary key.
// Returns domain.ErrNotFound if the skill does not exist.
func (r *Repo) GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, getByIDSQL, skillID)

	skill, err := scanSkill(row)
	if err != nil {
		return nil, mapError(err, "skill", skillID)
	}

	return skill, nil
}

// GetBySlug returns a skill by its unique slug.
// Returns domain.ErrNotFound if no skill has the slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Skill, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, getBySlugSQL, slug)

	skill, err := scanSkill(row)
	if err != nil {
		return nil, mapError(err, "skill", uuid.Nil)
	}

	return skill, nil
}

// GetForUpdate returns a skill by primary key with a row lock held until the
// surrounding transaction ends. Serializes version-number assignment and
// change-set application against the same skill.
func (r *Repo) GetForUpdate(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	row := querier.QueryRow(ctx, getForUpdateSQL, skillID)

	skill, err := scanSkill(row)
	if err != nil {
		return nil, mapError(err, "skill", skillID)
	}

	return skill, nil
}

// List returns skills matching the filter ordered by updated_at DESC,
// plus the total count for the same filter.
func (r *Repo) List(ctx context.Context, filter domain.SkillFilter) ([]*domain.Skill, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	countQuery := applySkillFilter(psql.Select("count(*)").From("skills s"), filter)

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count skills: %w", err)
	}

	listQuery := applySkillFilter(psql.Select(
		"s.id", "s.slug", "s.status", "s.title", "s.summary", "s.inputs", "s.outputs", "s.risks",
		"s.steps", "s.triggers", "s.guardrails", "s.test_cases", "s.created_at", "s.updated_at",
	).From("skills s"), filter).
		OrderBy("s.updated_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	listSQL, listArgs, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := querier.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	skills, err := scanSkills(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list skills: %w", err)
	}

	return skills, total, nil
}

// applySkillFilter adds WHERE clauses (and the tag join when needed) shared
// by the count and page queries.
func applySkillFilter(q squirrel.SelectBuilder, filter domain.SkillFilter) squirrel.SelectBuilder {
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"s.status": string(*filter.Status)})
	}
	if filter.Search != nil && *filter.Search != "" {
		q = q.Where(squirrel.ILike{"s.title": "%" + *filter.Search + "%"})
	}
	if filter.Tag != nil && *filter.Tag != "" {
		q = q.Join("skill_tags st ON st.skill_id = s.id").
			Join("tags t ON t.id = st.tag_id").
			Where(squirrel.Eq{"t.name": *filter.Tag})
	}
	return q
}

// ListSlugs returns every slug equal to base or starting with base plus a
// dash. Used to pick a free suffix when duplicating a skill.
func (r *Repo) ListSlugs(ctx context.Context, base string) ([]string, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := querier.Query(ctx, listSlugsSQL, base, base+"-%")
	if err != nil {
		return nil, fmt.Errorf("list slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("list slugs: %w", err)
		}
		slugs = append(slugs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list slugs: %w", err)
	}

	if slugs == nil {
		slugs = []string{}
	}

	return slugs, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new skill and returns the persisted domain.Skill.
// Returns domain.ErrAlreadyExists if the slug is already taken.
func (r *Repo) Create(ctx context.Context, skill *domain.Skill) (*domain.Skill, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	content, err := marshalContent(skill)
	if err != nil {
		return nil, fmt.Errorf("skill %s: %w", skill.ID, err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL,
		skill.ID,
		skill.Slug,
		string(skill.Status),
		skill.Title,
		skill.Summary,
		skill.Inputs,
		skill.Outputs,
		skill.Risks,
		content.steps,
		content.triggers,
		content.guardrails,
		content.testCases,
		now,
		now,
	)

	created, err := scanSkill(row)
	if err != nil {
		return nil, mapError(err, "skill", skill.ID)
	}

	return created, nil
}

// Update overwrites the skill's slug and content fields and returns the fresh
// row. updated_at is maintained by a database trigger.
// Returns domain.ErrNotFound if the skill does not exist and
// domain.ErrAlreadyExists if the new slug is taken by another skill.
func (r *Repo) Update(ctx context.Context, skill *domain.Skill) (*domain.Skill, error) {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	content, err := marshalContent(skill)
	if err != nil {
		return nil, fmt.Errorf("skill %s: %w", skill.ID, err)
	}

	row := querier.QueryRow(ctx, updateSQL,
		skill.ID,
		skill.Slug,
		skill.Title,
		skill.Summary,
		skill.Inputs,
		skill.Outputs,
		skill.Risks,
		content.steps,
		content.triggers,
		content.guardrails,
		content.testCases,
	)

	updated, err := scanSkill(row)
	if err != nil {
		return nil, mapError(err, "skill", skill.ID)
	}

	return updated, nil
}

// SetStatus updates the skill's status.
// Returns domain.ErrNotFound if the skill does not exist.
func (r *Repo) SetStatus(ctx context.Context, skillID uuid.UUID, status domain.SkillStatus) error {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	ct, err := querier.Exec(ctx, setStatusSQL, skillID, string(status))
	if err != nil {
		return mapError(err, "skill", skillID)
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("skill %s: %w", skillID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a skill. CASCADE deletes files, tag links, versions, and
// publications; drafts referencing it keep their key with skill_id nulled.
// Returns domain.ErrNotFound if the skill does not exist.
func (r *Repo) Delete(ctx context.Context, skillID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.db)

	ct, err := querier.Exec(ctx, deleteSQL, skillID)
	if err != nil {
		return mapError(err, "skill", skillID)
	}

	if ct.RowsAffected() == 0 {
		return fmt.Errorf("skill %s: %w", skillID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanSkill scans a single skill row from pgx.Row.
func scanSkill(row pgx.Row) (*domain.Skill, error) {
	var (
		id           uuid.UUID
		slug         string
		status       string
		title        string
		summary      *string
		inputs       *string
		outputs      *string
		risks        *string
		rawSteps     []byte
		rawTriggers  []byte
		rawGuardrail []byte
		rawTestCases []byte
		createdAt    time.Time
		updatedAt    time.Time
	)

	if err := row.Scan(&id, &slug, &status, &title, &summary, &inputs, &outputs, &risks,
		&rawSteps, &rawTriggers, &rawGuardrail, &rawTestCases, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	skill := &domain.Skill{
		ID:        id,
		Slug:      slug,
		Status:    domain.SkillStatus(status),
		Title:     title,
		Summary:   summary,
		Inputs:    inputs,
		Outputs:   outputs,
		Risks:     risks,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}

	if err := unmarshalContent(skill, rawSteps, rawTriggers, rawGuardrail, rawTestCases); err != nil {
		return nil, fmt.Errorf("skill %s: %w", id, err)
	}

	return skill, nil
}

// scanSkills scans multiple skill rows from pgx.Rows into a []*domain.Skill slice.
func scanSkills(rows pgx.Rows) ([]*domain.Skill, error) {
	var skills []*domain.Skill
	for rows.Next() {
		skill, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if skills == nil {
		skills = []*domain.Skill{}
	}

	return skills, nil
}

// ---------------------------------------------------------------------------
// JSONB serialization helpers for content columns
// ---------------------------------------------------------------------------

// Domain types have no json tags, so the repo layer handles serialization.

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

// contentColumns carries the marshaled JSONB column values for one skill.
type contentColumns struct {
	steps      []byte
	triggers   []byte
	guardrails []byte
	testCases  []byte
}

// marshalContent converts the skill's structured content fields to JSONB
// column bytes. Nil slices are stored as empty JSON arrays.
func marshalContent(skill *domain.Skill) (contentColumns, error) {
	var c contentColumns

	steps := make([]stepJSON, len(skill.Steps))
	for i, s := range skill.Steps {
		steps[i] = stepJSON{Title: s.Title, Detail: s.Detail}
	}
	b, err := json.Marshal(steps)
	if err != nil {
		return c, fmt.Errorf("marshal steps: %w", err)
	}
	c.steps = b

	triggers := skill.Triggers
	if triggers == nil {
		triggers = []string{}
	}
	b, err = json.Marshal(triggers)
	if err != nil {
		return c, fmt.Errorf("marshal triggers: %w", err)
	}
	c.triggers = b

	b, err = json.Marshal(guardrailPolicyJSON{
		Always:   skill.Guardrails.Always,
		Never:    skill.Guardrails.Never,
		AskFirst: skill.Guardrails.AskFirst,
	})
	if err != nil {
		return c, fmt.Errorf("marshal guardrails: %w", err)
	}
	c.guardrails = b

	cases := make([]testCaseJSON, len(skill.TestCases))
	for i, tc := range skill.TestCases {
		cases[i] = testCaseJSON{Name: tc.Name, Input: tc.Input, Expected: tc.Expected}
	}
	b, err = json.Marshal(cases)
	if err != nil {
		return c, fmt.Errorf("marshal test cases: %w", err)
	}
	c.testCases = b

	return c, nil
}

// unmarshalContent fills the skill's structured content fields from JSONB
// column bytes. Slices come back empty (not nil).
func unmarshalContent(skill *domain.Skill, rawSteps, rawTriggers, rawGuardrail, rawTestCases []byte) error {
	var steps []stepJSON
	if err := json.Unmarshal(rawSteps, &steps); err != nil {
		return fmt.Errorf("unmarshal steps: %w", err)
	}
	skill.Steps = make([]domain.Step, len(steps))
	for i, s := range steps {
		skill.Steps[i] = domain.Step{Title: s.Title, Detail: s.Detail}
	}

	if err := json.Unmarshal(rawTriggers, &skill.Triggers); err != nil {
		return fmt.Errorf("unmarshal triggers: %w", err)
	}
	if skill.Triggers == nil {
		skill.Triggers = []string{}
	}

	var guardrails guardrailPolicyJSON
	if err := json.Unmarshal(rawGuardrail, &guardrails); err != nil {
		return fmt.Errorf("unmarshal guardrails: %w", err)
	}
	skill.Guardrails = domain.GuardrailPolicy{
		Always:   guardrails.Always,
		Never:    guardrails.Never,
		AskFirst: guardrails.AskFirst,
	}

	var cases []testCaseJSON
	if err := json.Unmarshal(rawTestCases, &cases); err != nil {
		return fmt.Errorf("unmarshal test cases: %w", err)
	}
	skill.TestCases = make([]domain.TestCase, len(cases))
	for i, tc := range cases {
		skill.TestCases[i] = domain.TestCase{Name: tc.Name, Input: tc.Input, Expected: tc.Expected}
	}

	return nil
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
