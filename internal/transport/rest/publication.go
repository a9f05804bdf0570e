package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/TianMeet/quant-skill-vault-sub001/internal/domain"
	"github.com/TianMeet/quant-skill-vault-sub001/internal/service/publication"
)

// publicationService defines the minimal interface needed by
// PublicationHandler.
type publicationService interface {
	Publish(ctx context.Context, input publication.PublishInput) (*domain.PublicationWithVersion, error)
	ListPublications(ctx context.Context, input publication.ListPublicationsInput) ([]*domain.PublicationWithVersion, error)
}

// PublicationHandler serves publication REST endpoints.
type PublicationHandler struct {
	svc publicationService
	log *slog.Logger
}

// NewPublicationHandler creates a PublicationHandler.
func NewPublicationHandler(svc publicationService, logger *slog.Logger) *PublicationHandler {
	return &PublicationHandler{svc: svc, log: logger.With("handler", "publication")}
}

type publishRequest struct {
	Note *string `json:"note"`
}

type publishResponse struct {
	Version     int       `json:"version"`
	Note        *string   `json:"note,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Status      string    `json:"status"`
}

type publicationsResponse struct {
	Publications []publicationJSON `json:"publications"`
}

// Publish handles POST /api/v1/skills/{id}/publish.
func (h *PublicationHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pub, err := h.svc.Publish(r.Context(), publication.PublishInput{
		SkillID: id,
		Note:    req.Note,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, publishResponse{
		Version:     pub.VersionNumber,
		Note:        pub.Note,
		PublishedAt: pub.PublishedAt,
		Status:      domain.SkillStatusPublished.String(),
	})
}

// List handles GET /api/v1/skills/{id}/publications.
func (h *PublicationHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid skill id")
		return
	}

	pubs, err := h.svc.ListPublications(r.Context(), publication.ListPublicationsInput{SkillID: id})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, publicationsResponse{Publications: toPublicationsJSON(pubs)})
}
