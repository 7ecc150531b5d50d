package api

import "github.com/starford/codex/internal/models"

// ManuscriptListItem is one element of GET /api/manuscripts.
type ManuscriptListItem struct {
	Slug     string          `json:"slug"`
	Metadata models.Metadata `json:"metadata"`
	URL      string          `json:"url"`
}

// ManuscriptDetail is the body of GET /api/manuscripts/{slug}.
type ManuscriptDetail struct {
	Slug     string          `json:"slug"`
	Metadata models.Metadata `json:"metadata"`
}

// ViewURL returns the HTML view path for a slug.
func ViewURL(slug string) string {
	return "/view/" + slug
}

// ListItems projects catalog entries onto the listing shape.
func ListItems(entries []models.Entry) []ManuscriptListItem {
	items := make([]ManuscriptListItem, len(entries))
	for i, e := range entries {
		items[i] = ManuscriptListItem{Slug: e.Slug, Metadata: e.Metadata, URL: ViewURL(e.Slug)}
	}
	return items
}
