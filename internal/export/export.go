// Package export writes catalog snapshots to disk as JSON or SQLite.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/starford/codex/internal/api"
	"github.com/starford/codex/internal/apperr"
	"github.com/starford/codex/internal/index"
	"github.com/starford/codex/internal/models"
)

// Supported formats.
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Source is the catalog view an export reads from.
type Source interface {
	All() []models.Entry
	Files() ([]models.DocumentFile, error)
}

// Run writes the catalog in format to out.
func Run(src Source, format, out string, logger *slog.Logger) error {
	entries := src.All()
	var err error
	switch strings.ToLower(format) {
	case FormatJSON:
		err = WriteJSON(out, entries)
	case FormatSQLite:
		var files []models.DocumentFile
		files, err = src.Files()
		if err == nil {
			var d Diff
			d, err = WriteSQLite(out, Rows(entries, files))
			if err == nil {
				logger.Info("export: snapshot changes",
					slog.Int("added", d.Added),
					slog.Int("changed", d.Changed),
					slog.Int("removed", d.Removed),
					slog.Int("unchanged", d.Unchanged),
				)
			}
		}
	default:
		return fmt.Errorf("%w: unknown export format %q", apperr.ErrConfig, format)
	}
	if err != nil {
		return err
	}
	logger.Info("export: written",
		slog.String("format", format),
		slog.String("out", out),
		slog.Int("manuscripts", len(entries)),
	)
	return nil
}

// WriteJSON atomically writes entries in the /api/manuscripts shape.
func WriteJSON(path string, entries []models.Entry) error {
	var buf bytes.Buffer
	if err := encode(&buf, api.ListItems(entries)); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("export: encode: %w", err)
	}
	return nil
}

// Diff counts how a new snapshot differs from the one it replaced, keyed by
// slug and compared by file checksum.
type Diff struct {
	Added     int
	Changed   int
	Removed   int
	Unchanged int
}

// WriteSQLite replaces the snapshot stored in the database at path and
// reports what changed. The stored row count is checked after the write.
func WriteSQLite(path string, rows []index.ManuscriptRow) (Diff, error) {
	db, err := index.Open(path)
	if err != nil {
		return Diff{}, err
	}
	defer db.Close()
	return replace(db, rows)
}

func replace(snap index.Snapshot, rows []index.ManuscriptRow) (Diff, error) {
	previous, err := snap.AllChecksums()
	if err != nil {
		return Diff{}, err
	}
	if err := snap.ReplaceAll(rows); err != nil {
		return Diff{}, err
	}
	n, err := snap.Count()
	if err != nil {
		return Diff{}, err
	}
	if n != len(rows) {
		return Diff{}, fmt.Errorf("export: snapshot holds %d manuscripts, wrote %d", n, len(rows))
	}
	return diff(previous, rows), nil
}

func diff(previous map[string]string, rows []index.ManuscriptRow) Diff {
	var d Diff
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		seen[r.Slug] = true
		sum, ok := previous[r.Slug]
		switch {
		case !ok:
			d.Added++
		case sum != r.Checksum:
			d.Changed++
		default:
			d.Unchanged++
		}
	}
	for slug := range previous {
		if !seen[slug] {
			d.Removed++
		}
	}
	return d
}

// Rows joins catalog entries with the checksums of their files.
func Rows(entries []models.Entry, files []models.DocumentFile) []index.ManuscriptRow {
	sums := make(map[string]string, len(files))
	for _, f := range files {
		sums[f.Filename] = f.Checksum
	}
	rows := make([]index.ManuscriptRow, len(entries))
	for i, e := range entries {
		rows[i] = index.ManuscriptRow{
			Slug:     e.Slug,
			Filename: e.Filename,
			Checksum: sums[e.Filename],
			Metadata: e.Metadata,
		}
	}
	return rows
}
