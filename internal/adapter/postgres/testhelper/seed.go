package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedSkill creates a draft skill with a unique slug and minimal content.
// Returns a filled domain.Skill (without tags or files).
func SeedSkill(t *testing.T, pool *pgxpool.Pool) domain.Skill {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	summary := "Seeded summary " + suffix
	detail := "Seeded step detail " + suffix

	skill := domain.Skill{
		ID:      uuid.New(),
		Slug:    "seeded-skill-" + suffix,
		Status:  domain.SkillStatusDraft,
		Title:   "Seeded Skill " + suffix,
		Summary: &summary,
		Steps: []domain.Step{
			{Title: "Step one " + suffix, Detail: &detail},
			{Title: "Step two " + suffix},
		},
		Triggers:   []string{"trigger-" + suffix},
		Guardrails: domain.GuardrailPolicy{Always: []string{"log actions"}},
		TestCases: []domain.TestCase{
			{Name: "case-" + suffix, Input: "in", Expected: "out"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	insertSkillRow(t, pool, ctx, skill)

	skill.Tags = []domain.Tag{}
	skill.Files = []domain.SkillFile{}
	return skill
}

// SeedPublishedSkill creates a skill with status published.
func SeedPublishedSkill(t *testing.T, pool *pgxpool.Pool) domain.Skill {
	t.Helper()

	skill := SeedSkill(t, pool)
	_, err := pool.Exec(context.Background(),
		`UPDATE skills SET status = 'published' WHERE id = $1`, skill.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedPublishedSkill update status: %v", err)
	}
	skill.Status = domain.SkillStatusPublished
	return skill
}

// SeedTag creates a tag with a unique normalized name.
func SeedTag(t *testing.T, pool *pgxpool.Pool) domain.Tag {
	t.Helper()
	return SeedTagNamed(t, pool, "seeded-tag-"+uniqueSuffix())
}

// SeedTagNamed creates a tag with the given name (stored as-is; callers that
// need normalization apply domain.NormalizeTag themselves).
func SeedTagNamed(t *testing.T, pool *pgxpool.Pool, name string) domain.Tag {
	t.Helper()
	ctx := context.Background()

	tag := domain.Tag{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO tags (id, name, created_at) VALUES ($1, $2, $3)`,
		tag.ID, tag.Name, tag.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTagNamed insert tag: %v", err)
	}

	return tag
}

// LinkTag attaches a tag to a skill via the skill_tags join table.
func LinkTag(t *testing.T, pool *pgxpool.Pool, skillID, tagID uuid.UUID) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO skill_tags (skill_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		skillID, tagID,
	)
	if err != nil {
		t.Fatalf("testhelper: LinkTag insert skill_tag: %v", err)
	}
}

// SeedDraft creates a draft in new mode at version 1 with a small payload.
func SeedDraft(t *testing.T, pool *pgxpool.Pool) domain.Draft {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	draft := domain.Draft{
		Key:       "seeded-draft-" + uniqueSuffix(),
		Mode:      domain.DraftModeNew,
		Payload:   map[string]any{"title": "Draft title"},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	payload, err := json.Marshal(draft.Payload)
	if err != nil {
		t.Fatalf("testhelper: SeedDraft marshal payload: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO drafts (key, mode, skill_id, payload, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		draft.Key, string(draft.Mode), draft.SkillID, payload, draft.Version, draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDraft insert draft: %v", err)
	}

	return draft
}

// SeedVersion appends a version row for the skill with the given number.
// The snapshot is derived from the skill's current content.
func SeedVersion(t *testing.T, pool *pgxpool.Pool, skill domain.Skill, number int) domain.Version {
	t.Helper()
	ctx := context.Background()

	snapshot := domain.SnapshotOf(&skill, skill.TagNames())
	raw, err := json.Marshal(snapshotSeedJSON{
		Title:      snapshot.Title,
		Summary:    snapshot.Summary,
		Inputs:     snapshot.Inputs,
		Outputs:    snapshot.Outputs,
		Risks:      snapshot.Risks,
		Steps:      stepsSeedJSON(snapshot.Steps),
		Triggers:   snapshot.Triggers,
		Guardrails: guardrailsSeedJSON(snapshot.Guardrails),
		TestCases:  testCasesSeedJSON(snapshot.TestCases),
		Tags:       snapshot.Tags,
	})
	if err != nil {
		t.Fatalf("testhelper: SeedVersion marshal snapshot: %v", err)
	}

	version := domain.Version{
		ID:        uuid.New(),
		SkillID:   skill.ID,
		Number:    number,
		Snapshot:  snapshot,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO skill_versions (id, skill_id, version, snapshot, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		version.ID, version.SkillID, version.Number, raw, version.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedVersion insert skill_version: %v", err)
	}

	return version
}

// SeedPublication records a publication of the given version.
func SeedPublication(t *testing.T, pool *pgxpool.Pool, version domain.Version, note *string) domain.Publication {
	t.Helper()
	ctx := context.Background()

	pub := domain.Publication{
		ID:          uuid.New(),
		SkillID:     version.SkillID,
		VersionID:   version.ID,
		Note:        note,
		PublishedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO publications (id, skill_id, version_id, note, published_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		pub.ID, pub.SkillID, pub.VersionID, pub.Note, pub.PublishedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPublication insert publication: %v", err)
	}

	return pub
}

// SeedTextFile attaches a text file to the skill at the given path.
func SeedTextFile(t *testing.T, pool *pgxpool.Pool, skillID uuid.UUID, path, content string) domain.SkillFile {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	mime := "text/plain"
	file := domain.SkillFile{
		ID:          uuid.New(),
		SkillID:     skillID,
		Path:        path,
		MIME:        &mime,
		ContentText: &content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO skill_files (id, skill_id, path, mime, content_text, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		file.ID, file.SkillID, file.Path, file.MIME, file.ContentText, file.CreatedAt, file.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTextFile insert skill_file: %v", err)
	}

	return file
}

// insertSkillRow writes a skill row with JSONB content columns.
func insertSkillRow(t *testing.T, pool *pgxpool.Pool, ctx context.Context, skill domain.Skill) {
	t.Helper()

	steps, err := json.Marshal(stepsSeedJSON(skill.Steps))
	if err != nil {
		t.Fatalf("testhelper: marshal steps: %v", err)
	}
	triggers, err := json.Marshal(skill.Triggers)
	if err != nil {
		t.Fatalf("testhelper: marshal triggers: %v", err)
	}
	guardrails, err := json.Marshal(guardrailsSeedJSON(skill.Guardrails))
	if err != nil {
		t.Fatalf("testhelper: marshal guardrails: %v", err)
	}
	testCases, err := json.Marshal(testCasesSeedJSON(skill.TestCases))
	if err != nil {
		t.Fatalf("testhelper: marshal test cases: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO skills (id, slug, status, title, summary, inputs, outputs, risks,
		                     steps, triggers, guardrails, test_cases, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		skill.ID, skill.Slug, string(skill.Status), skill.Title,
		skill.Summary, skill.Inputs, skill.Outputs, skill.Risks,
		steps, triggers, guardrails, testCases,
		skill.CreatedAt, skill.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: insert skill: %v", err)
	}
}

// Seed-side JSONB shapes. These mirror the repository layer's column encoding
// so seeded rows scan cleanly through the repositories under test.

type stepSeedItem struct {
	Title  string  `json:"title"`
	Detail *string `json:"detail,omitempty"`
}

type testCaseSeedItem struct {
	Name     string `json:"name"`
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

type guardrailSeedObj struct {
	Always   []string `json:"always,omitempty"`
	Never    []string `json:"never,omitempty"`
	AskFirst []string `json:"ask_first,omitempty"`
}

type snapshotSeedJSON struct {
	Title      string             `json:"title"`
	Summary    *string            `json:"summary,omitempty"`
	Inputs     *string            `json:"inputs,omitempty"`
	Outputs    *string            `json:"outputs,omitempty"`
	Risks      *string            `json:"risks,omitempty"`
	Steps      []stepSeedItem     `json:"steps"`
	Triggers   []string           `json:"triggers"`
	Guardrails guardrailSeedObj   `json:"guardrails"`
	TestCases  []testCaseSeedItem `json:"test_cases"`
	Tags       []string           `json:"tags"`
}

func stepsSeedJSON(steps []domain.Step) []stepSeedItem {
	out := make([]stepSeedItem, len(steps))
	for i, s := range steps {
		out[i] = stepSeedItem{Title: s.Title, Detail: s.Detail}
	}
	return out
}

func testCasesSeedJSON(cases []domain.TestCase) []testCaseSeedItem {
	out := make([]testCaseSeedItem, len(cases))
	for i, c := range cases {
		out[i] = testCaseSeedItem{Name: c.Name, Input: c.Input, Expected: c.Expected}
	}
	return out
}

func guardrailsSeedJSON(g domain.GuardrailPolicy) guardrailSeedObj {
	return guardrailSeedObj{Always: g.Always, Never: g.Never, AskFirst: g.AskFirst}
}
