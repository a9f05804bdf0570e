//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/audit"
	draftrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/draft"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/file"
	publicationrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/publication"
	skillrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/skill"
	tagrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/tag"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/testhelper"
	versionrepo "github.com/TianMeet/quant-skill-vault-sub001/internal/adapter/postgres/version"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/config"
	changesetsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/changeset"
	draftsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/draft"
	publicationsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/publication"
	skillsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/skill"
	tagsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/tag"
	versionsvc "github.com/TianMeet/quant-skill-vault-sub001/internal/service/version"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/transport/middleware"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	ts, caps := newTestServer(t, pool)
	require.True(t, caps.Versioning, "migrations should provision the versioning schema")
	return ts
}

// newTestServer wires repositories, services, and the router over the given
// pool, detecting capabilities the way cmd/server does. Tests that provision
// a partial schema use it directly.
func newTestServer(t *testing.T, pool *pgxpool.Pool) (*testServer, postgres.Capabilities) {
	t.Helper()

	// 1. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	caps, err := postgres.DetectCapabilities(t.Context(), pool)
	require.NoError(t, err)

	vaultCfg := config.VaultConfig{
		MaxDraftPayloadBytes: 1 << 20,
		MaxPublishNoteBytes:  500,
		MaxPageSize:          100,
	}

	// 2. Repositories.
	auditRepo := audit.New(pool)
	draftRepo := draftrepo.New(pool)
	fileRepo := file.New(pool)
	publicationRepo := publicationrepo.New(pool)
	skillRepo := skillrepo.New(pool)
	tagRepo := tagrepo.New(pool)
	versionRepo := versionrepo.New(pool)

	// 3. Services.
	draftService := draftsvc.NewService(logger, draftRepo, skillRepo, vaultCfg)
	skillService := skillsvc.NewService(
		logger, skillRepo, tagRepo, fileRepo, versionRepo, auditRepo, txm,
		vaultCfg, caps.Versioning,
	)
	tagService := tagsvc.NewService(logger, tagRepo, txm)
	versionService := versionsvc.NewService(
		logger, versionRepo, skillRepo, tagRepo, fileRepo, auditRepo, txm,
		vaultCfg, caps.Versioning,
	)
	publicationService := publicationsvc.NewService(
		logger, publicationRepo, versionRepo, skillRepo, tagRepo, auditRepo, txm,
		vaultCfg, caps.Versioning,
	)
	changesetService := changesetsvc.NewService(
		logger, skillRepo, tagRepo, fileRepo, versionRepo, auditRepo, txm,
		caps.Versioning,
	)

	// 4. Handlers and router.
	mux := rest.NewRouter(rest.Handlers{
		Health:      rest.NewHealthHandler(pool, "e2e-test", caps.Versioning),
		Draft:       rest.NewDraftHandler(draftService, logger),
		Skill:       rest.NewSkillHandler(skillService, logger),
		Version:     rest.NewVersionHandler(versionService, logger),
		Publication: rest.NewPublicationHandler(publicationService, logger),
		Tag:         rest.NewTagHandler(tagService, logger),
		Changeset:   rest.NewChangesetHandler(changesetService, logger),
	})

	// 5. Middleware chain.
	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowedHeaders: "Content-Type,X-Request-Id",
			MaxAge:         86400,
		}),
	)(mux)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
	}, caps
}

// ---------------------------------------------------------------------------
// REST helpers.
// ---------------------------------------------------------------------------

// doJSON sends a request with an optional JSON body and decodes the JSON
// response, if any.
func (ts *testServer) doJSON(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if len(raw) == 0 {
		return resp.StatusCode, nil
	}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	return resp.StatusCode, decoded
}

// createSkill creates a minimal skill through the API and returns its
// response body.
func (ts *testServer) createSkill(t *testing.T, title string, tags []string) map[string]any {
	t.Helper()

	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/skills", map[string]any{
		"title": title,
		"steps": []map[string]any{
			{"title": "first step"},
		},
		"triggers": []string{"when asked"},
		"guardrails": map[string]any{
			"never": []string{"skip review"},
		},
		"test_cases": []map[string]any{
			{"name": "basic", "input": "in", "expected": "out"},
		},
		"tags": tags,
	})
	require.Equal(t, http.StatusCreated, status, "create skill: %v", body)
	return body
}

// skillID extracts the id field from a skill response body.
func skillID(t *testing.T, body map[string]any) string {
	t.Helper()
	id, ok := body["id"].(string)
	require.True(t, ok, "expected skill id in %v", body)
	return id
}

// seedBareSkill inserts a skill row directly, bypassing the API, so the
// record exists without any ledger entries. Returns its id.
func seedBareSkill(t *testing.T, ts *testServer) string {
	t.Helper()
	return testhelper.SeedSkill(t, ts.Pool).ID.String()
}

// fieldNames collects the "field" values from a validation response.
func fieldNames(t *testing.T, body map[string]any) []string {
	t.Helper()
	rawFields, ok := body["fields"].([]any)
	require.True(t, ok, "expected fields array in %v", body)

	names := make([]string, 0, len(rawFields))
	for _, f := range rawFields {
		m, ok := f.(map[string]any)
		require.True(t, ok)
		names = append(names, fmt.Sprintf("%v", m["field"]))
	}
	return names
}
