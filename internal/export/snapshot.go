package export

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/starford/codex/internal/api"
	"github.com/starford/codex/internal/apperr"
	"github.com/starford/codex/internal/index"
	"github.com/starford/codex/internal/models"
)

// OpenSnapshot opens an existing SQLite snapshot written by WriteSQLite.
// A missing file is apperr.ErrConfig rather than a new empty database.
func OpenSnapshot(path string) (*index.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: snapshot not found: %s", apperr.ErrConfig, path)
		}
		return nil, fmt.Errorf("export: stat %s: %w", path, err)
	}
	return index.Open(path)
}

// PrintList writes every stored manuscript in the /api/manuscripts shape.
func PrintList(snap index.Snapshot, w io.Writer) error {
	rows, err := snap.List()
	if err != nil {
		return err
	}
	entries := make([]models.Entry, len(rows))
	for i, r := range rows {
		entries[i] = models.Entry{Slug: r.Slug, Filename: r.Filename, Metadata: r.Metadata}
	}
	return encode(w, api.ListItems(entries))
}

// PrintManuscript writes one stored manuscript in the
// /api/manuscripts/{slug} shape.
func PrintManuscript(snap index.Snapshot, slug string, w io.Writer) error {
	r, err := snap.Get(slug)
	if err != nil {
		return err
	}
	return encode(w, api.ManuscriptDetail{Slug: r.Slug, Metadata: r.Metadata})
}

// PrintSearch writes up to limit search hits for query.
func PrintSearch(snap index.Snapshot, query string, limit int, w io.Writer) error {
	hits, err := snap.Search(query, limit)
	if err != nil {
		return err
	}
	if hits == nil {
		hits = []index.SearchResult{}
	}
	return encode(w, hits)
}
