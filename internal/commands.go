package internal

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/starford/codex/internal/export"
	"github.com/starford/codex/internal/index"
	"github.com/starford/codex/internal/mcpserver"
)

// RunMCP serves the archive over MCP on stdin/stdout.
func RunMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts, os.Stderr)
	if err != nil {
		return err
	}
	arc, err := OpenArchive(app.config, app.logger, nil)
	if err != nil {
		return err
	}
	defer arc.Close()

	app.logger.Info("MCP server starting", slog.Int("manuscripts", arc.Catalog.Len()))
	return mcpserver.New(arc.Service, Version).ServeStdio()
}

// Export writes a catalog snapshot in format ("json" or "sqlite") to out.
func Export(_ context.Context, format, out string, opts ...Option) error {
	app, err := newApplication(opts, os.Stderr)
	if err != nil {
		return err
	}
	arc, err := OpenArchive(app.config, app.logger, nil)
	if err != nil {
		return err
	}
	defer arc.Close()

	return export.Run(arc.Catalog, format, out, app.logger)
}

// Render writes the HTML fragment of one manuscript to w.
func Render(_ context.Context, slug string, w io.Writer, opts ...Option) error {
	app, err := newApplication(opts, os.Stderr)
	if err != nil {
		return err
	}
	arc, err := OpenArchive(app.config, app.logger, nil)
	if err != nil {
		return err
	}
	defer arc.Close()

	_, html, err := arc.Service.Render(slug)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, html)
	return err
}

// Snapshot opens the SQLite snapshot at path and hands it to fn. No archive
// or stylesheet is loaded.
func Snapshot(_ context.Context, path string, fn func(index.Snapshot) error) error {
	db, err := export.OpenSnapshot(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
