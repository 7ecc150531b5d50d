// Package web serves the HTML catalog, search and manuscript pages.
package web

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/codex/internal/apperr"
	"github.com/starford/codex/internal/archive"
	"github.com/starford/codex/internal/checksum"
	"github.com/starford/codex/internal/models"
	"github.com/starford/codex/internal/site"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// SlugPattern is the chi route pattern for manuscript slugs.
const SlugPattern = "{slug:[a-z0-9_-]+}"

// Site holds the chrome shared by every page.
type Site struct {
	Title       string
	Subtitle    string
	LiveUpdates bool
}

type errorInfo struct {
	Heading string
	Message string
}

type page struct {
	Title    string
	Site     Site
	Intro    site.Intro
	Query    string
	Entries  []models.Entry
	Document template.HTML
	Error    errorInfo
}

// Handler renders HTML pages over the archive service.
type Handler struct {
	svc    *archive.Service
	site   Site
	intro  site.Intro
	logger *slog.Logger
	pages  map[string]*template.Template
}

// NewHandler parses the embedded templates once.
func NewHandler(svc *archive.Service, s Site, intro site.Intro, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if s.Title == "" {
		s.Title = "TEI Manuscript Viewer"
	}
	pages := make(map[string]*template.Template, 3)
	for _, name := range []string{"catalog", "view", "error"} {
		pages[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return &Handler{svc: svc, site: s, intro: intro, logger: logger, pages: pages}
}

// Register mounts the HTML routes and the static assets on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/search", h.Search)
	r.Get("/view/"+SlugPattern, h.View)

	assets, _ := fs.Sub(staticFS, "static")
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assets))))
}

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusOK, "catalog", page{
		Title:   h.site.Title,
		Intro:   h.intro,
		Entries: h.svc.Listing(),
	})
}

// Search handles GET /search?q=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	h.render(w, http.StatusOK, "catalog", page{
		Title:   "Search — " + h.site.Title,
		Query:   q,
		Entries: h.svc.Search(q),
	})
}

// View handles GET /view/{slug}.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	entry, html, err := h.svc.Render(slug)
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrDocumentNotFound):
		h.NotFound(w, r)
		return
	default:
		h.logger.Error("render manuscript failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()),
		)
		h.render(w, http.StatusInternalServerError, "error", page{
			Title: "Error",
			Error: errorInfo{Heading: "Transformation Error", Message: err.Error()},
		})
		return
	}

	etag := checksum.ETag([]byte(html))
	w.Header().Set("ETag", etag)
	if checksum.MatchETag(r.Header.Values("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	title := entry.Metadata.Title
	if title == "" {
		title = "Untitled"
	}
	h.render(w, http.StatusOK, "view", page{
		Title:    title + " — " + h.site.Title,
		Document: template.HTML(html),
	})
}

// NotFound serves the 404 page for unknown manuscripts and unmatched paths.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	h.render(w, http.StatusNotFound, "error", page{
		Title: "404 — Manuscript Not Found",
		Error: errorInfo{
			Heading: "Manuscript Not Found",
			Message: "The requested manuscript could not be located in the archive.",
		},
	})
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, p page) {
	p.Site = h.site
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.pages[name].ExecuteTemplate(w, "layout", p); err != nil {
		h.logger.Error("template execute failed",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
	}
}
