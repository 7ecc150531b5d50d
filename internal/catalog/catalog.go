// Package catalog indexes a directory of TEI documents into a sorted,
// searchable list of entries.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/codex/internal/apperr"
	"github.com/starford/codex/internal/metrics"
	"github.com/starford/codex/internal/models"
	"github.com/starford/codex/internal/storage"
)

// DefaultExtension is the document file extension scanned by default.
const DefaultExtension = ".xml"

// MetadataExtractor reads the header fields of one document.
type MetadataExtractor interface {
	ExtractMetadata(documentPath string) (models.Metadata, error)
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// WithExtension sets the document extension (including the leading dot).
func WithExtension(ext string) Option {
	return func(c *Catalog) { c.ext = ext }
}

// WithWorkers bounds the number of concurrent metadata extractions.
func WithWorkers(n int) Option {
	return func(c *Catalog) { c.workers = n }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Catalog) { c.recorder = r }
}

// Catalog is built once on first access and immutable afterwards.
type Catalog struct {
	store     storage.Provider
	extractor MetadataExtractor
	logger    *slog.Logger
	recorder  metrics.Recorder
	ext       string
	workers   int

	once    sync.Once
	entries []models.Entry
	skipped int
}

// New creates a catalog over dir. It fails with apperr.ErrConfig when dir is
// missing or not a directory. No scanning happens here.
func New(dir string, extractor MetadataExtractor, opts ...Option) (*Catalog, error) {
	store, err := storage.NewFS(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: data directory not found: %s: %v", apperr.ErrConfig, dir, err)
	}
	c := &Catalog{
		store:     store,
		extractor: extractor,
		logger:    slog.Default(),
		recorder:  metrics.NoopRecorder{},
		ext:       DefaultExtension,
		workers:   4,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 1 {
		c.workers = 1
	}
	return c, nil
}

// Dir returns the absolute documents directory.
func (c *Catalog) Dir() string {
	return c.store.Root()
}

// Extension returns the document file extension, including the dot.
func (c *Catalog) Extension() string {
	return c.ext
}

// Files lists the document files currently on disk, with checksums. A file
// that cannot be read is logged and left out.
func (c *Catalog) Files() ([]models.DocumentFile, error) {
	files, err := c.store.List(c.ext)
	if err != nil {
		return nil, err
	}
	out := files[:0]
	for _, f := range files {
		sum, err := c.store.Checksum(f.Filename)
		if err != nil {
			c.logger.Warn("catalog: checksum failed",
				slog.String("file", f.Filename),
				slog.String("error", err.Error()))
			continue
		}
		f.Checksum = sum
		out = append(out, f)
	}
	return out, nil
}

// Warm runs the scan now if it has not happened yet.
func (c *Catalog) Warm() {
	c.All()
}

// All returns every entry sorted by title. The scan runs once; later calls
// return the same slice, which callers must not modify.
func (c *Catalog) All() []models.Entry {
	c.once.Do(func() {
		c.entries, c.skipped = c.scan()
	})
	return c.entries
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.All())
}

// Skipped returns how many documents were excluded by the scan.
func (c *Catalog) Skipped() int {
	c.All()
	return c.skipped
}

// FindBySlug returns the entry with exactly this slug.
func (c *Catalog) FindBySlug(slug string) (models.Entry, bool) {
	for _, e := range c.All() {
		if e.Slug == slug {
			return e, true
		}
	}
	return models.Entry{}, false
}

// Source returns the raw XML of the document with this slug. Unknown slugs
// yield apperr.ErrNotFound; a file gone since the scan yields
// apperr.ErrDocumentNotFound.
func (c *Catalog) Source(slug string) ([]byte, error) {
	e, ok := c.FindBySlug(slug)
	if !ok {
		return nil, fmt.Errorf("manuscript %q: %w", slug, apperr.ErrNotFound)
	}
	data, err := c.store.Read(e.Filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", apperr.ErrDocumentNotFound, e.Filename)
	}
	return data, err
}

// FilePath returns the filesystem path of the document with this slug.
func (c *Catalog) FilePath(slug string) (string, bool) {
	e, ok := c.FindBySlug(slug)
	if !ok {
		return "", false
	}
	return e.Path, true
}

// Search returns entries whose title, subtitle, description or author
// contain query, case-insensitively, in catalog order. An empty query
// returns All.
func (c *Catalog) Search(query string) []models.Entry {
	if query == "" {
		return c.All()
	}
	q := lower(strings.TrimSpace(query))
	var out []models.Entry
	for _, e := range c.All() {
		if strings.Contains(searchable(e.Metadata), q) {
			out = append(out, e)
		}
	}
	return out
}

func searchable(m models.Metadata) string {
	return lower(strings.Join([]string{m.Title, m.Subtitle, m.Description, m.Author}, " "))
}

// lower folds s to lower case. A Caser keeps state, so one is made per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// scan lists the documents, extracts metadata on a bounded worker pool and
// sorts the survivors by title. Documents whose extraction fails are left
// out without surfacing an error.
func (c *Catalog) scan() ([]models.Entry, int) {
	start := time.Now()

	files, err := c.store.List(c.ext)
	if err != nil {
		c.logger.Warn("catalog: list failed", slog.String("dir", c.store.Root()), slog.String("error", err.Error()))
		c.recorder.ObserveScan(time.Since(start), 0, 0)
		return []models.Entry{}, 0
	}

	results := make([]*models.Entry, len(files))
	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, f := range files {
		g.Go(func() error {
			md, err := c.extractor.ExtractMetadata(f.Path)
			if err != nil {
				c.logger.Debug("catalog: skipped document",
					slog.String("file", f.Filename),
					slog.String("error", err.Error()))
				return nil
			}
			results[i] = &models.Entry{
				Slug:     strings.TrimSuffix(f.Filename, c.ext),
				Filename: f.Filename,
				Path:     f.Path,
				Metadata: md,
			}
			return nil
		})
	}
	_ = g.Wait()

	entries := make([]models.Entry, 0, len(results))
	for _, r := range results {
		if r != nil {
			entries = append(entries, *r)
		}
	}
	slices.SortStableFunc(entries, func(a, b models.Entry) int {
		return strings.Compare(lower(a.Metadata.Title), lower(b.Metadata.Title))
	})

	skipped := len(files) - len(entries)
	c.recorder.ObserveScan(time.Since(start), len(entries), skipped)
	c.logger.Info("catalog: scan complete",
		slog.String("dir", c.store.Root()),
		slog.Int("indexed", len(entries)),
		slog.Int("skipped", skipped),
		slog.Duration("took", time.Since(start)))
	return entries, skipped
}
