package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/service/draft"
)

// draftService defines the minimal interface needed by DraftHandler.
type draftService interface {
	PutDraft(ctx context.Context, input draft.PutDraftInput) (*domain.Draft, error)
	GetDraft(ctx context.Context, input draft.GetDraftInput) (*domain.Draft, error)
	DeleteDraft(ctx context.Context, input draft.DeleteDraftInput) error
}

// DraftHandler serves draft REST endpoints.
type DraftHandler struct {
	svc draftService
	log *slog.Logger
}

// NewDraftHandler creates a DraftHandler.
func NewDraftHandler(svc draftService, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{svc: svc, log: logger.With("handler", "draft")}
}

type putDraftRequest struct {
	Mode            string         `json:"mode"`
	RecordID        *uuid.UUID     `json:"record_id"`
	Payload         map[string]any `json:"payload"`
	ExpectedVersion *int           `json:"expected_version"`
}

// Put handles PUT /api/v1/drafts/{key}.
func (h *DraftHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req putDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.svc.PutDraft(r.Context(), draft.PutDraftInput{
		Key:             r.PathValue("key"),
		Mode:            domain.DraftMode(req.Mode),
		RecordID:        req.RecordID,
		Payload:         req.Payload,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDraftJSON(d))
}

// Get handles GET /api/v1/drafts/{key}.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDraft(r.Context(), draft.GetDraftInput{Key: r.PathValue("key")})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDraftJSON(d))
}

// Delete handles DELETE /api/v1/drafts/{key}.
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteDraft(r.Context(), draft.DeleteDraftInput{Key: r.PathValue("key")})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
