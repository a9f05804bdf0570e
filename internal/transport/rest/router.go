package rest

import "net/http"

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health      *HealthHandler
	Draft       *DraftHandler
	Skill       *SkillHandler
	Version     *VersionHandler
	Publication *PublicationHandler
	Tag         *TagHandler
	Changeset   *ChangesetHandler
}

// NewRouter mounts all REST endpoints on a fresh ServeMux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("GET /api/v1/drafts/{key}", h.Draft.Get)
	mux.HandleFunc("PUT /api/v1/drafts/{key}", h.Draft.Put)
	mux.HandleFunc("DELETE /api/v1/drafts/{key}", h.Draft.Delete)

	mux.HandleFunc("POST /api/v1/skills", h.Skill.Create)
	mux.HandleFunc("GET /api/v1/skills", h.Skill.List)
	mux.HandleFunc("GET /api/v1/skills/{id}", h.Skill.Get)
	mux.HandleFunc("PATCH /api/v1/skills/{id}", h.Skill.Update)
	mux.HandleFunc("DELETE /api/v1/skills/{id}", h.Skill.Delete)
	mux.HandleFunc("POST /api/v1/skills/{id}/duplicate", h.Skill.Duplicate)
	mux.HandleFunc("GET /api/v1/skills/{id}/files", h.Skill.Files)

	mux.HandleFunc("GET /api/v1/skills/{id}/versions", h.Version.List)
	mux.HandleFunc("GET /api/v1/skills/{id}/versions/{versionID}", h.Version.Get)
	mux.HandleFunc("POST /api/v1/skills/{id}/rollback", h.Version.Rollback)

	mux.HandleFunc("POST /api/v1/skills/{id}/publish", h.Publication.Publish)
	mux.HandleFunc("GET /api/v1/skills/{id}/publications", h.Publication.List)

	mux.HandleFunc("GET /api/v1/tags", h.Tag.List)
	mux.HandleFunc("PATCH /api/v1/tags/{id}", h.Tag.Rename)
	mux.HandleFunc("DELETE /api/v1/tags/{id}", h.Tag.Delete)
	mux.HandleFunc("POST /api/v1/tags/merge", h.Tag.Merge)
	mux.HandleFunc("POST /api/v1/admin/tags/normalize", h.Tag.Normalize)

	mux.HandleFunc("POST /api/v1/skills/{id}/changeset", h.Changeset.Apply)

	return mux
}
