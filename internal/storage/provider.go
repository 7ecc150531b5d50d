// Package storage defines the read-only document directory abstraction.
package storage

import "github.com/starford/codex/internal/models"

// Provider is the interface for document directory access.
type Provider interface {
	// Root returns the absolute path of the documents directory.
	Root() string
	// List returns every regular file directly under the root whose name ends
	// with ext, sorted by filename. Subdirectories are not descended into and
	// file contents are not read.
	List(ext string) ([]models.DocumentFile, error)
	// Read returns the raw bytes of the named file (relative to root).
	Read(name string) ([]byte, error)
	// Checksum returns the SHA-256 hex digest of the named file.
	Checksum(name string) (string, error)
}
