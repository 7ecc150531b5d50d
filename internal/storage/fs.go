package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/codex/internal/checksum"
	"github.com/starford/codex/internal/models"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the documents directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute documents directory.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves a name against the root and rejects anything that is
// not a plain file name directly inside it.
func (f *FS) safePath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: empty name")
	}
	cleaned := filepath.Clean(name)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", name)
	}
	if cleaned != filepath.Base(cleaned) || cleaned == ".." {
		return "", fmt.Errorf("storage: path escapes documents root: %s", name)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes documents root: %s", name)
	}
	return abs, nil
}

// List returns every file with extension ext in the root, sorted by name.
// Symlinks are followed. Entries that resolve to something other than a
// regular file are left out; an entry that cannot be stat'ed is kept so the
// caller decides what to do with it. Contents are not read, so Checksum is
// empty; see Checksum.
func (f *FS) List(ext string) ([]models.DocumentFile, error) {
	dirents, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []models.DocumentFile
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			continue
		}
		p := filepath.Join(f.root, d.Name())
		file := models.DocumentFile{Filename: d.Name(), Path: p}
		if info, err := os.Stat(p); err == nil {
			if !info.Mode().IsRegular() {
				continue
			}
			file.Size = info.Size()
			file.ModTime = info.ModTime()
		}
		out = append(out, file)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

// Checksum returns the content digest of a document file.
func (f *FS) Checksum(name string) (string, error) {
	data, err := f.Read(name)
	if err != nil {
		return "", err
	}
	return checksum.Sum(data), nil
}

// Read returns the raw bytes of a document file.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}
