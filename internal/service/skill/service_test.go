package skill

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/config"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockSkillRepo struct {
	CreateFunc       func(ctx context.Context, skill *domain.Skill) (*domain.Skill, error)
	GetByIDFunc      func(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	GetBySlugFunc    func(ctx context.Context, slug string) (*domain.Skill, error)
	GetForUpdateFunc func(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	ListFunc         func(ctx context.Context, filter domain.SkillFilter) ([]*domain.Skill, int, error)
	ListSlugsFunc    func(ctx context.Context, base string) ([]string, error)
	UpdateFunc       func(ctx context.Context, skill *domain.Skill) (*domain.Skill, error)
	DeleteFunc       func(ctx context.Context, skillID uuid.UUID) error
}

func (m *mockSkillRepo) Create(ctx context.Context, skill *domain.Skill) (*domain.Skill, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, skill)
	}
	return skill, nil
}

func (m *mockSkillRepo) GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, skillID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSkillRepo) GetBySlug(ctx context.Context, slug string) (*domain.Skill, error) {
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSkillRepo) GetForUpdate(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, skillID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockSkillRepo) List(ctx context.Context, filter domain.SkillFilter) ([]*domain.Skill, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*domain.Skill{}, 0, nil
}

func (m *mockSkillRepo) ListSlugs(ctx context.Context, base string) ([]string, error) {
	if m.ListSlugsFunc != nil {
		return m.ListSlugsFunc(ctx, base)
	}
	return []string{}, nil
}

func (m *mockSkillRepo) Update(ctx context.Context, skill *domain.Skill) (*domain.Skill, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, skill)
	}
	return skill, nil
}

func (m *mockSkillRepo) Delete(ctx context.Context, skillID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, skillID)
	}
	return nil
}

type mockTagRepo struct {
	ListBySkillFunc      func(ctx context.Context, skillID uuid.UUID) ([]*domain.Tag, error)
	EnsureByNamesFunc    func(ctx context.Context, names []string) ([]*domain.Tag, error)
	ReplaceSkillTagsFunc func(ctx context.Context, skillID uuid.UUID, tagIDs []uuid.UUID) error
}

func (m *mockTagRepo) ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.Tag, error) {
	if m.ListBySkillFunc != nil {
		return m.ListBySkillFunc(ctx, skillID)
	}
	return []*domain.Tag{}, nil
}

func (m *mockTagRepo) EnsureByNames(ctx context.Context, names []string) ([]*domain.Tag, error) {
	if m.EnsureByNamesFunc != nil {
		return m.EnsureByNamesFunc(ctx, names)
	}
	tags := make([]*domain.Tag, len(names))
	for i, name := range names {
		tags[i] = &domain.Tag{ID: uuid.New(), Name: name}
	}
	return tags, nil
}

func (m *mockTagRepo) ReplaceSkillTags(ctx context.Context, skillID uuid.UUID, tagIDs []uuid.UUID) error {
	if m.ReplaceSkillTagsFunc != nil {
		return m.ReplaceSkillTagsFunc(ctx, skillID, tagIDs)
	}
	return nil
}

type mockFileRepo struct {
	ListBySkillFunc func(ctx context.Context, skillID uuid.UUID) ([]*domain.SkillFile, error)
	CopyAllFunc     func(ctx context.Context, fromSkillID, toSkillID uuid.UUID) (int, error)
}

func (m *mockFileRepo) ListBySkill(ctx context.Context, skillID uuid.UUID) ([]*domain.SkillFile, error) {
	if m.ListBySkillFunc != nil {
		return m.ListBySkillFunc(ctx, skillID)
	}
	return []*domain.SkillFile{}, nil
}

func (m *mockFileRepo) CopyAll(ctx context.Context, fromSkillID, toSkillID uuid.UUID) (int, error) {
	if m.CopyAllFunc != nil {
		return m.CopyAllFunc(ctx, fromSkillID, toSkillID)
	}
	return 0, nil
}

type mockVersionRepo struct {
	CreateFunc func(ctx context.Context, skillID uuid.UUID, snapshot domain.SkillSnapshot) (*domain.Version, error)
}

func (m *mockVersionRepo) Create(ctx context.Context, skillID uuid.UUID, snapshot domain.SkillSnapshot) (*domain.Version, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, skillID, snapshot)
	}
	return &domain.Version{ID: uuid.New(), SkillID: skillID, Number: 1, Snapshot: snapshot}, nil
}

type mockAuditRepo struct {
	LogFunc func(ctx context.Context, event domain.AuditEvent) error
}

func (m *mockAuditRepo) Log(ctx context.Context, event domain.AuditEvent) error {
	if m.LogFunc != nil {
		return m.LogFunc(ctx, event)
	}
	return nil
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

type testDeps struct {
	skills   *mockSkillRepo
	tags     *mockTagRepo
	files    *mockFileRepo
	versions *mockVersionRepo
	audit    *mockAuditRepo
	tx       *mockTxManager
}

func newTestService(versioning bool) (*Service, *testDeps) {
	deps := &testDeps{
		skills:   &mockSkillRepo{},
		tags:     &mockTagRepo{},
		files:    &mockFileRepo{},
		versions: &mockVersionRepo{},
		audit:    &mockAuditRepo{},
		tx:       &mockTxManager{},
	}
	cfg := config.VaultConfig{
		MaxDraftPayloadBytes: 1 << 20,
		MaxPublishNoteBytes:  500,
		MaxPageSize:          100,
	}
	svc := NewService(slog.Default(), deps.skills, deps.tags, deps.files,
		deps.versions, deps.audit, deps.tx, cfg, versioning)
	return svc, deps
}

// trackCreated routes reloads to whatever Create stored last.
func trackCreated(deps *testDeps) *domain.Skill {
	var stored domain.Skill
	deps.skills.CreateFunc = func(_ context.Context, sk *domain.Skill) (*domain.Skill, error) {
		stored = *sk
		return &stored, nil
	}
	deps.skills.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*domain.Skill, error) {
		if stored.ID == id {
			return &stored, nil
		}
		return nil, domain.ErrNotFound
	}
	return &stored
}

func validCreateInput() CreateSkillInput {
	return CreateSkillInput{ContentInput: ContentInput{
		Title:   "Deploy Canary",
		Summary: ptr("Ship a canary release"),
		Steps:   []domain.Step{{Title: "Build"}, {Title: "Ship"}},
		Tags:    []string{"Release", "release", " DevOps "},
	}}
}

// ===========================================================================
// 1. CreateSkill tests
// ===========================================================================

func TestService_CreateSkill_Success(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(true)

	stored := trackCreated(deps)

	var ensured []string
	deps.tags.EnsureByNamesFunc = func(_ context.Context, names []string) ([]*domain.Tag, error) {
		ensured = names
		tags := make([]*domain.Tag, len(names))
		for i, name := range names {
			tags[i] = &domain.Tag{ID: uuid.New(), Name: name}
		}
		return tags, nil
	}

	var snapshotted bool
	deps.versions.CreateFunc = func(_ context.Context, id uuid.UUID, snapshot domain.SkillSnapshot) (*domain.Version, error) {
		snapshotted = true
		assert.Equal(t, "Deploy Canary", snapshot.Title)
		return &domain.Version{ID: uuid.New(), SkillID: id, Number: 1, Snapshot: snapshot}, nil
	}

	got, err := svc.CreateSkill(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, "deploy-canary", stored.Slug)
	assert.Equal(t, domain.SkillStatusDraft, stored.Status)
	assert.Equal(t, []string{"release", "devops"}, ensured, "tags normalized and deduplicated")
	assert.True(t, snapshotted, "initial snapshot appended while versioning is on")
	assert.Equal(t, got.ID, stored.ID)
}

func TestService_CreateSkill_CollectsAllFieldErrors(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(false)

	input := CreateSkillInput{ContentInput: ContentInput{
		Title:     "",
		Steps:     []domain.Step{{Title: ""}},
		TestCases: []domain.TestCase{{Name: ""}},
	}}
	_, err := svc.CreateSkill(context.Background(), input)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 3)
	assert.Equal(t, "title", verr.Errors[0].Field)
	assert.Equal(t, "steps[0].title", verr.Errors[1].Field)
	assert.Equal(t, "test_cases[0].name", verr.Errors[2].Field)
}

func TestService_CreateSkill_SlugConflict(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	holderID := uuid.New()
	deps.skills.GetBySlugFunc = func(_ context.Context, slug string) (*domain.Skill, error) {
		return &domain.Skill{ID: holderID, Slug: slug}, nil
	}
	deps.skills.CreateFunc = func(_ context.Context, _ *domain.Skill) (*domain.Skill, error) {
		t.Error("insert must not run when the slug is taken")
		return nil, nil
	}

	_, err := svc.CreateSkill(context.Background(), validCreateInput())

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "slug", conflict.Field)
	assert.Equal(t, "deploy-canary", conflict.Value)
	assert.Equal(t, holderID, conflict.ConflictingID)
}

func TestService_CreateSkill_NoSnapshotWhenVersioningOff(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	trackCreated(deps)
	deps.versions.CreateFunc = func(_ context.Context, _ uuid.UUID, _ domain.SkillSnapshot) (*domain.Version, error) {
		t.Error("no snapshot may be appended while versioning is off")
		return nil, nil
	}

	_, err := svc.CreateSkill(context.Background(), validCreateInput())
	require.NoError(t, err)
}

// ===========================================================================
// 2. GetSkill / ListFiles tests
// ===========================================================================

func TestService_GetSkill_Materializes(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	skillID := uuid.New()
	deps.skills.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*domain.Skill, error) {
		return &domain.Skill{ID: id, Slug: "deploy-canary", Title: "Deploy Canary"}, nil
	}
	deps.tags.ListBySkillFunc = func(_ context.Context, _ uuid.UUID) ([]*domain.Tag, error) {
		return []*domain.Tag{{ID: uuid.New(), Name: "release"}}, nil
	}
	deps.files.ListBySkillFunc = func(_ context.Context, _ uuid.UUID) ([]*domain.SkillFile, error) {
		return []*domain.SkillFile{{ID: uuid.New(), Path: "scripts/run.sh", ContentText: ptr("#!/bin/sh")}}, nil
	}

	got, err := svc.GetSkill(context.Background(), GetSkillInput{SkillID: skillID})
	require.NoError(t, err)

	require.Len(t, got.Tags, 1)
	assert.Equal(t, "release", got.Tags[0].Name)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "scripts/run.sh", got.Files[0].Path)
}

func TestService_GetSkill_NotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(false)

	_, err := svc.GetSkill(context.Background(), GetSkillInput{SkillID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_ListFiles_RequiresExistingSkill(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	deps.files.ListBySkillFunc = func(_ context.Context, _ uuid.UUID) ([]*domain.SkillFile, error) {
		t.Error("files must not be listed for a missing skill")
		return nil, nil
	}

	_, err := svc.ListFiles(context.Background(), ListFilesInput{SkillID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ===========================================================================
// 3. ListSkills tests
// ===========================================================================

func TestService_ListSkills_ClampsAndPaginates(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	var gotFilter domain.SkillFilter
	deps.skills.ListFunc = func(_ context.Context, filter domain.SkillFilter) ([]*domain.Skill, int, error) {
		gotFilter = filter
		return []*domain.Skill{}, 42, nil
	}

	page, err := svc.ListSkills(context.Background(), ListSkillsInput{Page: 3, Limit: 500})
	require.NoError(t, err)

	assert.Equal(t, 100, gotFilter.Limit, "limit clamps to the configured maximum")
	assert.Equal(t, 200, gotFilter.Offset)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 100, page.Limit)
}

func TestService_ListSkills_Defaults(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	var gotFilter domain.SkillFilter
	deps.skills.ListFunc = func(_ context.Context, filter domain.SkillFilter) ([]*domain.Skill, int, error) {
		gotFilter = filter
		return []*domain.Skill{}, 0, nil
	}

	page, err := svc.ListSkills(context.Background(), ListSkillsInput{Page: 0, Limit: 0})
	require.NoError(t, err)

	assert.Equal(t, defaultPageSize, gotFilter.Limit)
	assert.Equal(t, 0, gotFilter.Offset)
	assert.Equal(t, 1, page.Page)
}

func TestService_ListSkills_NormalizesTagFilter(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	var gotFilter domain.SkillFilter
	deps.skills.ListFunc = func(_ context.Context, filter domain.SkillFilter) ([]*domain.Skill, int, error) {
		gotFilter = filter
		return []*domain.Skill{}, 0, nil
	}

	_, err := svc.ListSkills(context.Background(), ListSkillsInput{Tag: ptr("  Machine   Learning ")})
	require.NoError(t, err)

	require.NotNil(t, gotFilter.Tag)
	assert.Equal(t, "machine learning", *gotFilter.Tag)
}

func TestService_ListSkills_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(false)

	status := domain.SkillStatus("archived")
	_, err := svc.ListSkills(context.Background(), ListSkillsInput{Status: &status})
	require.ErrorIs(t, err, domain.ErrValidation)
}

// ===========================================================================
// 4. UpdateSkill tests
// ===========================================================================

func TestService_UpdateSkill_OverwritesAndRederivesSlug(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(true)

	skill := &domain.Skill{
		ID:     uuid.New(),
		Slug:   "deploy-canary",
		Status: domain.SkillStatusPublished,
		Title:  "Deploy Canary",
		Risks:  ptr("may page the on-call"),
	}
	deps.skills.GetForUpdateFunc = func(_ context.Context, id uuid.UUID) (*domain.Skill, error) {
		if id != skill.ID {
			return nil, domain.ErrNotFound
		}
		return skill, nil
	}
	deps.skills.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*domain.Skill, error) {
		return skill, nil
	}

	var updated *domain.Skill
	deps.skills.UpdateFunc = func(_ context.Context, sk *domain.Skill) (*domain.Skill, error) {
		updated = sk
		return sk, nil
	}

	input := UpdateSkillInput{
		SkillID: skill.ID,
		ContentInput: ContentInput{
			Title: "Deploy Canary Safely",
			Steps: []domain.Step{{Title: "Check dashboards first"}},
		},
	}
	got, err := svc.UpdateSkill(context.Background(), input)
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.Equal(t, "deploy-canary-safely", updated.Slug)
	assert.Equal(t, "Deploy Canary Safely", updated.Title)
	assert.Nil(t, updated.Risks, "full overwrite clears fields absent from the input")
	assert.Equal(t, domain.SkillStatusPublished, got.Status, "update does not change status")
}

func TestService_UpdateSkill_ReplacesTagSet(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	skill := &domain.Skill{ID: uuid.New(), Slug: "deploy-canary", Title: "Deploy Canary"}
	deps.skills.GetForUpdateFunc = func(_ context.Context, _ uuid.UUID) (*domain.Skill, error) {
		return skill, nil
	}
	deps.skills.GetByIDFunc = func(_ context.Context, _ uuid.UUID) (*domain.Skill, error) {
		return skill, nil
	}

	var replaced bool
	deps.tags.ReplaceSkillTagsFunc = func(_ context.Context, id uuid.UUID, tagIDs []uuid.UUID) error {
		replaced = true
		assert.Empty(t, tagIDs, "an empty tag list clears every association")
		return nil
	}

	_, err := svc.UpdateSkill(context.Background(), UpdateSkillInput{
		SkillID:      skill.ID,
		ContentInput: ContentInput{Title: "Deploy Canary"},
	})
	require.NoError(t, err)
	assert.True(t, replaced)
}

func TestService_UpdateSkill_MissingSkill(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(false)

	_, err := svc.UpdateSkill(context.Background(), UpdateSkillInput{
		SkillID:      uuid.New(),
		ContentInput: ContentInput{Title: "Anything"},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ===========================================================================
// 5. DeleteSkill tests
// ===========================================================================

func TestService_DeleteSkill_Success(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	skillID := uuid.New()
	deps.skills.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*domain.Skill, error) {
		return &domain.Skill{ID: id, Slug: "deploy-canary", Title: "Deploy Canary"}, nil
	}

	var deleted uuid.UUID
	deps.skills.DeleteFunc = func(_ context.Context, id uuid.UUID) error {
		deleted = id
		return nil
	}

	var logged *domain.AuditEvent
	deps.audit.LogFunc = func(_ context.Context, event domain.AuditEvent) error {
		logged = &event
		return nil
	}

	require.NoError(t, svc.DeleteSkill(context.Background(), DeleteSkillInput{SkillID: skillID}))
	assert.Equal(t, skillID, deleted)
	require.NotNil(t, logged)
	assert.Equal(t, domain.AuditActionDeleted, logged.Action)
	assert.Equal(t, "deploy-canary", logged.Detail["slug"])
}

func TestService_DeleteSkill_MissingSkill(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(false)

	err := svc.DeleteSkill(context.Background(), DeleteSkillInput{SkillID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ===========================================================================
// 6. DuplicateSkill tests
// ===========================================================================

func TestService_DuplicateSkill_FreshCopySlug(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(true)

	source := &domain.Skill{
		ID:     uuid.New(),
		Slug:   "deploy-canary",
		Status: domain.SkillStatusPublished,
		Title:  "Deploy Canary",
		Steps:  []domain.Step{{Title: "Ship"}},
	}
	deps.skills.GetForUpdateFunc = func(_ context.Context, id uuid.UUID) (*domain.Skill, error) {
		if id != source.ID {
			return nil, domain.ErrNotFound
		}
		return source, nil
	}

	stored := trackCreated(deps)

	sourceTagID := uuid.New()
	deps.tags.ListBySkillFunc = func(_ context.Context, id uuid.UUID) ([]*domain.Tag, error) {
		if id == source.ID {
			return []*domain.Tag{{ID: sourceTagID, Name: "release"}}, nil
		}
		return []*domain.Tag{}, nil
	}

	var linkedTags []uuid.UUID
	deps.tags.ReplaceSkillTagsFunc = func(_ context.Context, _ uuid.UUID, tagIDs []uuid.UUID) error {
		linkedTags = tagIDs
		return nil
	}

	var copiedFrom, copiedTo uuid.UUID
	deps.files.CopyAllFunc = func(_ context.Context, from, to uuid.UUID) (int, error) {
		copiedFrom, copiedTo = from, to
		return 2, nil
	}

	got, err := svc.DuplicateSkill(context.Background(), DuplicateSkillInput{SkillID: source.ID})
	require.NoError(t, err)

	assert.Equal(t, "deploy-canary-copy", stored.Slug)
	assert.Equal(t, domain.SkillStatusDraft, stored.Status, "copies always start as drafts")
	assert.Equal(t, source.Title, stored.Title)
	assert.NotEqual(t, source.ID, stored.ID)
	assert.Equal(t, []uuid.UUID{sourceTagID}, linkedTags, "tag links copied as-is")
	assert.Equal(t, source.ID, copiedFrom)
	assert.Equal(t, stored.ID, copiedTo)
	assert.Equal(t, got.ID, stored.ID)
}

func TestService_DuplicateSkill_SuffixSkipsTakenSlugs(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	source := &domain.Skill{ID: uuid.New(), Slug: "deploy-canary", Title: "Deploy Canary"}
	deps.skills.GetForUpdateFunc = func(_ context.Context, _ uuid.UUID) (*domain.Skill, error) {
		return source, nil
	}
	deps.skills.ListSlugsFunc = func(_ context.Context, base string) ([]string, error) {
		assert.Equal(t, "deploy-canary-copy", base)
		return []string{"deploy-canary-copy", "deploy-canary-copy-2"}, nil
	}

	stored := trackCreated(deps)

	_, err := svc.DuplicateSkill(context.Background(), DuplicateSkillInput{SkillID: source.ID})
	require.NoError(t, err)

	assert.Equal(t, "deploy-canary-copy-3", stored.Slug)
}

func TestService_DuplicateSkill_MissingSource(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(false)

	_, err := svc.DuplicateSkill(context.Background(), DuplicateSkillInput{SkillID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ===========================================================================
// 7. Failure propagation
// ===========================================================================

func TestService_CreateSkill_TagFailureAbortsTx(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(false)

	trackCreated(deps)

	boom := errors.New("tags table on fire")
	deps.tags.EnsureByNamesFunc = func(_ context.Context, _ []string) ([]*domain.Tag, error) {
		return nil, boom
	}

	_, err := svc.CreateSkill(context.Background(), validCreateInput())
	require.ErrorIs(t, err, boom)
}
