//go:build e2e

package e2e_test

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_ChangesetGate_CollectsEveryViolation sends a change-set breaking
// several rules at once and expects the complete list back, with nothing
// written.
func TestE2E_ChangesetGate_CollectsEveryViolation(t *testing.T) {
	ts := setupTestServer(t)

	id := skillID(t, ts.createSkill(t, "Gate Subject", nil))

	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/skills/"+id+"/changeset", map[string]any{
		"change_set": map[string]any{
			"fields": map[string]any{},
			"file_ops": []map[string]any{
				{"op": "rename", "path": "/etc/passwd"},
				{"op": "upsert", "path": "scripts/../secrets.txt", "content_text": "x"},
				{"op": "upsert", "path": "references/SKILL.md", "content_text": "x"},
				{"op": "upsert", "path": "docs/readme.md", "content_text": "x", "content_base64": "eA=="},
			},
		},
	})
	require.Equal(t, http.StatusBadRequest, status, "%v", body)
	assert.Equal(t, "validation failed", body["error"])

	fields := fieldNames(t, body)
	assert.Contains(t, fields, "file_ops[0].op")
	assert.Contains(t, fields, "file_ops[0].path")
	assert.Contains(t, fields, "file_ops[1].path")
	assert.Contains(t, fields, "file_ops[2].path")
	assert.Contains(t, fields, "file_ops[3].path")
	assert.Contains(t, fields, "file_ops[3].content")

	// The gate rejected before any write.
	status, body = ts.doJSON(t, http.MethodGet, "/api/v1/skills/"+id+"/files", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["files"])
}

// TestE2E_ChangesetAtomicity verifies a failure halfway through the apply
// rolls everything back: the field patch, the file writes, and the ledger
// append all vanish together.
func TestE2E_ChangesetAtomicity(t *testing.T) {
	ts := setupTestServer(t)

	skillID(t, ts.createSkill(t, "Atomic Holder", nil))
	victim := skillID(t, ts.createSkill(t, "Atomic Victim", nil))

	// The title patch passes the gate but collides on the derived slug
	// inside the transaction, after the summary patch already applied
	// in memory.
	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/skills/"+victim+"/changeset", map[string]any{
		"change_set": map[string]any{
			"fields": map[string]any{
				"title":   "Atomic Holder",
				"summary": "should never persist",
			},
			"file_ops": []map[string]any{
				{"op": "upsert", "path": "scripts/run.sh", "content_text": "echo hi"},
			},
		},
	})
	require.Equal(t, http.StatusConflict, status, "%v", body)
	assert.Equal(t, "slug", body["field"])

	// Nothing stuck.
	status, body = ts.doJSON(t, http.MethodGet, "/api/v1/skills/"+victim, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Atomic Victim", body["title"])
	assert.Nil(t, body["summary"])

	status, body = ts.doJSON(t, http.MethodGet, "/api/v1/skills/"+victim+"/files", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["files"])

	status, body = ts.doJSON(t, http.MethodGet, "/api/v1/skills/"+victim+"/versions", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["total"], "no ledger entry from the failed apply")
}

// TestE2E_ChangesetGuardrailMerge verifies the guardrail patch merges per
// key: a present list replaces, an absent list survives.
func TestE2E_ChangesetGuardrailMerge(t *testing.T) {
	ts := setupTestServer(t)

	id := skillID(t, ts.createSkill(t, "Guarded Subject", nil))

	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/skills/"+id+"/changeset", map[string]any{
		"change_set": map[string]any{
			"fields": map[string]any{
				"guardrails": map[string]any{"always": []string{"log every action"}},
			},
			"file_ops": []map[string]any{},
		},
	})
	require.Equal(t, http.StatusOK, status, "%v", body)

	guardrails := body["guardrails"].(map[string]any)
	assert.Equal(t, []any{"log every action"}, guardrails["always"])
	assert.Equal(t, []any{"skip review"}, guardrails["never"], "untouched key survives the merge")
}

// TestE2E_ChangesetFileOps verifies upsert-then-delete sequencing, binary
// round-tripping, and that deleting an absent path is accepted.
func TestE2E_ChangesetFileOps(t *testing.T) {
	ts := setupTestServer(t)

	id := skillID(t, ts.createSkill(t, "File Ops Subject", nil))

	payload := base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47})
	mime := "image/png"

	status, body := ts.doJSON(t, http.MethodPost, "/api/v1/skills/"+id+"/changeset", map[string]any{
		"change_set": map[string]any{
			"fields": map[string]any{},
			"file_ops": []map[string]any{
				{"op": "upsert", "path": "assets/logo.png", "mime": mime, "content_base64": payload},
				{"op": "upsert", "path": "scripts/tmp.sh", "content_text": "transient"},
				{"op": "delete", "path": "scripts/tmp.sh"},
				{"op": "delete", "path": "references/never-existed.md"},
			},
		},
	})
	require.Equal(t, http.StatusOK, status, "%v", body)

	status, body = ts.doJSON(t, http.MethodGet, "/api/v1/skills/"+id+"/files", nil)
	require.Equal(t, http.StatusOK, status)
	files := body["files"].([]any)
	require.Len(t, files, 1, "the upsert-then-delete pair cancels out")

	file := files[0].(map[string]any)
	assert.Equal(t, "assets/logo.png", file["path"])
	assert.Equal(t, "binary", file["kind"])
	assert.Equal(t, mime, file["mime"])
	assert.Equal(t, payload, file["content_base64"])
	assert.Equal(t, float64(4), file["size"])
	assert.Nil(t, file["content_text"])
}

// TestE2E_ChangesetUpsertOverwrites verifies a second upsert on the same
// path replaces the stored content instead of erroring.
func TestE2E_ChangesetUpsertOverwrites(t *testing.T) {
	ts := setupTestServer(t)

	id := skillID(t, ts.createSkill(t, "Overwrite Subject", nil))

	for _, content := range []string{"first", "second"} {
		status, body := ts.doJSON(t, http.MethodPost, "/api/v1/skills/"+id+"/changeset", map[string]any{
			"change_set": map[string]any{
				"fields":   map[string]any{},
				"file_ops": []map[string]any{{"op": "upsert", "path": "references/notes.md", "content_text": content}},
			},
		})
		require.Equal(t, http.StatusOK, status, "%v", body)
	}

	status, body := ts.doJSON(t, http.MethodGet, "/api/v1/skills/"+id+"/files", nil)
	require.Equal(t, http.StatusOK, status)
	files := body["files"].([]any)
	require.Len(t, files, 1)
	assert.Equal(t, "second", files[0].(map[string]any)["content_text"])
}
