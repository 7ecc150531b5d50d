// Package api implements the JSON manuscript API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/codex/internal/archive"
)

// SlugPattern is the chi route pattern accepted for single-manuscript routes.
const SlugPattern = "{slug:[a-z0-9_-]+}"

// Handler holds API route handlers.
type Handler struct {
	svc *archive.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *archive.Service) *Handler {
	return &Handler{svc: svc}
}

// ListManuscripts handles GET /api/manuscripts.
func (h *Handler) ListManuscripts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ListItems(h.svc.Listing()))
}

// GetManuscript handles GET /api/manuscripts/{slug}.
func (h *Handler) GetManuscript(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.svc.Manuscript(chi.URLParam(r, "slug"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("Manuscript not found"))
		return
	}
	writeJSON(w, http.StatusOK, ManuscriptDetail{Slug: entry.Slug, Metadata: entry.Metadata})
}
