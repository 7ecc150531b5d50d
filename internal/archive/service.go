// Package archive is the request-facing service over the catalog and the
// transformer. Handlers and the MCP server go through it.
package archive

import (
	"errors"
	"fmt"
	"time"

	"github.com/starford/codex/internal/apperr"
	"github.com/starford/codex/internal/metrics"
	"github.com/starford/codex/internal/models"
)

// Catalog is the read side of the manuscript index.
type Catalog interface {
	All() []models.Entry
	FindBySlug(slug string) (models.Entry, bool)
	Search(query string) []models.Entry
	Source(slug string) ([]byte, error)
}

// Renderer turns one document into an HTML fragment.
type Renderer interface {
	Transform(documentPath string) (string, error)
}

// Service coordinates catalog lookups and document rendering.
type Service struct {
	catalog  Catalog
	renderer Renderer
	recorder metrics.Recorder
}

// NewService creates a new archive service. A nil recorder disables metrics.
func NewService(catalog Catalog, renderer Renderer, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Service{catalog: catalog, renderer: renderer, recorder: recorder}
}

// Listing returns the full catalog in title order.
func (s *Service) Listing() []models.Entry {
	return s.catalog.All()
}

// Search filters the catalog by a substring query; empty returns everything.
func (s *Service) Search(query string) []models.Entry {
	s.recorder.IncSearch(query == "")
	return s.catalog.Search(query)
}

// Manuscript looks up a single entry.
func (s *Service) Manuscript(slug string) (models.Entry, bool) {
	return s.catalog.FindBySlug(slug)
}

// Source returns the raw TEI XML behind slug.
func (s *Service) Source(slug string) ([]byte, error) {
	return s.catalog.Source(slug)
}

// Render transforms the document behind slug. Unknown slugs yield
// apperr.ErrNotFound; transformer failures are returned as they are.
func (s *Service) Render(slug string) (models.Entry, string, error) {
	start := time.Now()
	entry, ok := s.catalog.FindBySlug(slug)
	if !ok {
		s.recorder.ObserveRender(time.Since(start), metrics.OutcomeNotFound)
		return models.Entry{}, "", fmt.Errorf("manuscript %q: %w", slug, apperr.ErrNotFound)
	}
	html, err := s.renderer.Transform(entry.Path)
	s.recorder.ObserveRender(time.Since(start), outcome(err))
	if err != nil {
		return entry, "", err
	}
	return entry, html, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, apperr.ErrDocumentNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, apperr.ErrParse):
		return metrics.OutcomeParse
	case errors.Is(err, apperr.ErrTransform):
		return metrics.OutcomeTransform
	default:
		return metrics.OutcomeError
	}
}
