package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/codex/internal/archive"
)

// NewRouter creates a chi router with all API routes, meant to be mounted
// at /api. sseHandler, if non-nil, is served at GET /events.
func NewRouter(svc *archive.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Get("/manuscripts", h.ListManuscripts)
	r.Get("/manuscripts/"+SlugPattern, h.GetManuscript)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	})
	return r
}
