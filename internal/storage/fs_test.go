package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/codex/internal/checksum"
)

func tempDocs(t *testing.T) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return dir, fs
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestList_FiltersByExtension(t *testing.T) {
	dir, s := tempDocs(t)
	write(t, filepath.Join(dir, "b.xml"), "<b/>")
	write(t, filepath.Join(dir, "a.xml"), "<a/>")
	write(t, filepath.Join(dir, "readme.txt"), "not xml")

	items, err := s.List(".xml")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Filename != "a.xml" || items[1].Filename != "b.xml" {
		t.Errorf("order = %s, %s", items[0].Filename, items[1].Filename)
	}
	if items[0].Path != filepath.Join(s.Root(), "a.xml") {
		t.Errorf("path = %q", items[0].Path)
	}
	if items[0].Size != 4 || items[0].Checksum != "" {
		t.Errorf("size = %d, checksum = %q", items[0].Size, items[0].Checksum)
	}
}

func TestList_FollowsSymlinks(t *testing.T) {
	dir, s := tempDocs(t)
	outside := t.TempDir()
	write(t, filepath.Join(dir, "plain.xml"), "<plain/>")
	write(t, filepath.Join(outside, "real.xml"), "<real/>")
	if err := os.Symlink(filepath.Join(outside, "real.xml"), filepath.Join(dir, "linked.xml")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Mkdir(filepath.Join(outside, "folder.xml"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "folder.xml"), filepath.Join(dir, "folder.xml")); err != nil {
		t.Fatal(err)
	}

	items, err := s.List(".xml")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].Filename != "linked.xml" || items[1].Filename != "plain.xml" {
		t.Fatalf("items = %+v, want linked.xml and plain.xml", items)
	}
	if items[0].Size != int64(len("<real/>")) {
		t.Errorf("linked size = %d, want target size", items[0].Size)
	}
	got, err := s.Read("linked.xml")
	if err != nil || string(got) != "<real/>" {
		t.Errorf("Read(linked.xml) = %q, %v", got, err)
	}
}

func TestList_KeepsDanglingLinks(t *testing.T) {
	dir, s := tempDocs(t)
	write(t, filepath.Join(dir, "good.xml"), "<good/>")
	if err := os.Symlink(filepath.Join(dir, "nowhere.xml.bak"), filepath.Join(dir, "gone.xml")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	items, err := s.List(".xml")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].Filename != "gone.xml" || items[1].Filename != "good.xml" {
		t.Errorf("items = %+v, want gone.xml and good.xml", items)
	}
}

func TestList_DoesNotReadContents(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	dir, s := tempDocs(t)
	write(t, filepath.Join(dir, "good.xml"), "<good/>")
	locked := filepath.Join(dir, "locked.xml")
	write(t, locked, "<locked/>")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}

	items, err := s.List(".xml")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}
	if _, err := s.Checksum("locked.xml"); err == nil {
		t.Error("expected checksum error for unreadable file")
	}
}

func TestChecksum(t *testing.T) {
	dir, s := tempDocs(t)
	write(t, filepath.Join(dir, "doc.xml"), "<doc/>")

	got, err := s.Checksum("doc.xml")
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if got != checksum.Sum([]byte("<doc/>")) {
		t.Errorf("checksum = %q", got)
	}
	if _, err := s.Checksum("ghost.xml"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestList_NoRecursion(t *testing.T) {
	dir, s := tempDocs(t)
	if err := os.MkdirAll(filepath.Join(dir, "nested.xml"), 0o755); err != nil {
		t.Fatal(err)
	}
	write(t, filepath.Join(dir, "nested.xml", "deep.xml"), "<deep/>")
	write(t, filepath.Join(dir, "top.xml"), "<top/>")

	items, err := s.List(".xml")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Filename != "top.xml" {
		t.Errorf("items = %+v, want only top.xml", items)
	}
}

func TestRead(t *testing.T) {
	dir, s := tempDocs(t)
	write(t, filepath.Join(dir, "doc.xml"), "<doc/>")
	got, err := s.Read("doc.xml")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "<doc/>" {
		t.Errorf("content = %q", got)
	}
}

func TestRead_Missing(t *testing.T) {
	_, s := tempDocs(t)
	_, err := s.Read("ghost.xml")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestTraversalBlocked(t *testing.T) {
	_, s := tempDocs(t)
	for _, p := range []string{"../../etc/passwd", "../outside.xml", "/etc/shadow", "sub/doc.xml", ""} {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/codex-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "codex-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
