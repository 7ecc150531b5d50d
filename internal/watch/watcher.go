// Package watch reports document changes in the archive directory. It never
// modifies the catalog: a running server keeps serving the snapshot it built
// at startup, and changes are only surfaced as notices.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Change kinds passed to EventCallback.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// EventCallback is called for every document change.
// kind is one of Created, Updated, Deleted; filename has no directory part.
type EventCallback func(kind string, filename string)

// Watch starts an fsnotify watcher on dir and reports changes to files
// ending in ext until ctx is cancelled. Subdirectories are not watched,
// matching the single-level catalog scan.
func Watch(ctx context.Context, dir, ext string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", dir), slog.String("extension", ext))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ext) {
				continue
			}

			kind := classify(ev.Op)
			if kind == "" {
				continue
			}
			logger.Info("watcher: document changed, restart to pick up changes",
				slog.String("filename", name),
				slog.String("op", kind))
			if cb != nil {
				cb(kind, name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// classify maps an fsnotify op to a change kind. fsnotify fires Rename on the
// old path only; the new path arrives as a separate Create.
func classify(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return Created
	case op&fsnotify.Write != 0:
		return Updated
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return Deleted
	default:
		return ""
	}
}
