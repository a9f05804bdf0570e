package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/service/tag"
)

// tagService defines the minimal interface needed by TagHandler.
type tagService interface {
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	RenameTag(ctx context.Context, input tag.RenameTagInput) (*domain.Tag, error)
	DeleteTag(ctx context.Context, input tag.DeleteTagInput) error
	MergeTags(ctx context.Context, input tag.MergeTagsInput) (*domain.Tag, error)
	NormalizeAll(ctx context.Context) (*tag.NormalizeResult, error)
}

// TagHandler serves tag REST endpoints.
type TagHandler struct {
	svc tagService
	log *slog.Logger
}

// NewTagHandler creates a TagHandler.
func NewTagHandler(svc tagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{svc: svc, log: logger.With("handler", "tag")}
}

type tagsResponse struct {
	Tags []tagJSON `json:"tags"`
}

type renameTagRequest struct {
	Name string `json:"name"`
}

type mergeTagsRequest struct {
	SourceTagID uuid.UUID `json:"source_tag_id"`
	TargetTagID uuid.UUID `json:"target_tag_id"`
}

type normalizeResponse struct {
	Scanned      int `json:"scanned"`
	Groups       int `json:"groups"`
	Merged       int `json:"merged"`
	Renamed      int `json:"renamed"`
	RemovedEmpty int `json:"removed_empty"`
}

// List handles GET /api/v1/tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, tagsResponse{Tags: toTagsJSON(tags)})
}

// Rename handles PATCH /api/v1/tags/{id}.
func (h *TagHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	var req renameTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.svc.RenameTag(r.Context(), tag.RenameTagInput{TagID: id, Name: req.Name})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTagJSON(t))
}

// Delete handles DELETE /api/v1/tags/{id}.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tag id")
		return
	}

	if err := h.svc.DeleteTag(r.Context(), tag.DeleteTagInput{TagID: id}); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Merge handles POST /api/v1/tags/merge. Returns the surviving target tag.
func (h *TagHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req mergeTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.svc.MergeTags(r.Context(), tag.MergeTagsInput{
		SourceID: req.SourceTagID,
		TargetID: req.TargetTagID,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTagJSON(t))
}

// Normalize handles POST /api/v1/admin/tags/normalize.
func (h *TagHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.NormalizeAll(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, normalizeResponse{
		Scanned:      result.Scanned,
		Groups:       result.Groups,
		Merged:       result.Merged,
		Renamed:      result.Renamed,
		RemovedEmpty: result.RemovedEmpty,
	})
}
