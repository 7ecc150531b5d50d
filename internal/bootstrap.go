package internal

import (
	"fmt"
	"log/slog"

	"github.com/starford/codex/internal/archive"
	"github.com/starford/codex/internal/catalog"
	"github.com/starford/codex/internal/metrics"
	"github.com/starford/codex/internal/tei"
)

// Archive bundles the long-lived components every command needs.
type Archive struct {
	Transformer *tei.Transformer
	Catalog     *catalog.Catalog
	Service     *archive.Service
}

// OpenArchive compiles the stylesheet, builds the catalog and scans it once.
// Configuration problems are reported as apperr.ErrConfig.
func OpenArchive(cfg *Config, logger *slog.Logger, recorder metrics.Recorder) (*Archive, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	tr, err := tei.New(cfg.Archive.Stylesheet)
	if err != nil {
		return nil, fmt.Errorf("init transformer: %w", err)
	}

	cat, err := catalog.New(cfg.Archive.Documents, tr,
		catalog.WithLogger(logger),
		catalog.WithExtension(cfg.Archive.Extension),
		catalog.WithWorkers(cfg.Archive.ScanWorkers),
		catalog.WithRecorder(recorder),
	)
	if err != nil {
		tr.Close()
		return nil, fmt.Errorf("init catalog: %w", err)
	}
	cat.Warm()

	logger.Info("archive opened",
		slog.String("stylesheet", tr.StylesheetPath()),
		slog.String("documents", cat.Dir()),
		slog.Int("manuscripts", cat.Len()),
		slog.Int("skipped", cat.Skipped()))

	return &Archive{
		Transformer: tr,
		Catalog:     cat,
		Service:     archive.NewService(cat, tr, recorder),
	}, nil
}

// Close releases the compiled stylesheet.
func (a *Archive) Close() {
	a.Transformer.Close()
}
