package site

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/codex/internal/apperr"
)

func TestRender_FrontmatterAndBody(t *testing.T) {
	in := []byte("---\ntitle: About the archive\n---\nLetters and *diaries*.\n")
	intro, err := Render(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intro.Title != "About the archive" {
		t.Errorf("title = %q", intro.Title)
	}
	if !strings.Contains(string(intro.HTML), "<em>diaries</em>") {
		t.Errorf("html = %q", intro.HTML)
	}
	if strings.Contains(string(intro.HTML), "title:") {
		t.Error("frontmatter leaked into body")
	}
}

func TestRender_TitleFromHeading(t *testing.T) {
	intro, err := Render([]byte("# Welcome\nSome text.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intro.Title != "Welcome" {
		t.Errorf("title = %q, want Welcome", intro.Title)
	}
}

func TestRender_InvalidYAMLFallback(t *testing.T) {
	intro, err := Render([]byte("---\n: invalid: yaml: {{{\n---\nBody\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intro.Title != "" {
		t.Errorf("title = %q, want empty", intro.Title)
	}
	if !strings.Contains(string(intro.HTML), "Body") {
		t.Errorf("html = %q", intro.HTML)
	}
}

func TestRender_GFMTable(t *testing.T) {
	intro, err := Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(intro.HTML), "<table>") {
		t.Errorf("expected table, got %q", intro.HTML)
	}
}

func TestLoadIntro_EmptyPath(t *testing.T) {
	intro, err := LoadIntro("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !intro.Empty() {
		t.Errorf("expected empty intro, got %+v", intro)
	}
}

func TestLoadIntro_Missing(t *testing.T) {
	_, err := LoadIntro(filepath.Join(t.TempDir(), "nope.md"))
	if !errors.Is(err, apperr.ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
}

func TestLoadIntro_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "intro.md")
	if err := os.WriteFile(p, []byte("# Ruskin papers\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	intro, err := LoadIntro(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intro.Title != "Ruskin papers" || intro.Empty() {
		t.Errorf("intro = %+v", intro)
	}
}
