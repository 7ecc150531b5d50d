// Package site loads the optional Markdown introduction shown above the
// catalog listing.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/starford/codex/internal/apperr"
)

// Intro is a rendered introduction page.
type Intro struct {
	Title string
	HTML  template.HTML
}

// Empty reports whether there is nothing to show.
func (i Intro) Empty() bool {
	return i.Title == "" && i.HTML == ""
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
)

// LoadIntro reads and renders the Markdown file at path. An empty path
// yields an empty Intro.
func LoadIntro(path string) (Intro, error) {
	if path == "" {
		return Intro{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Intro{}, fmt.Errorf("%w: intro file %s not found", apperr.ErrConfig, path)
		}
		return Intro{}, fmt.Errorf("read intro: %w", err)
	}
	return Render(data)
}

// Render converts raw Markdown with optional YAML frontmatter into an Intro.
func Render(data []byte) (Intro, error) {
	fm, body := splitFrontmatter(data)

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return Intro{}, fmt.Errorf("render intro: %w", err)
	}
	return Intro{
		Title: deriveTitle(fm, body),
		HTML:  template.HTML(buf.String()),
	}, nil
}

type frontmatter struct {
	Title string `yaml:"title"`
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (frontmatter, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return frontmatter{}, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return frontmatter{}, string(data)
	}

	yamlBlock := rest[:idx]
	body := strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")

	var fm frontmatter
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML: keep the whole file as body.
		return frontmatter{}, string(data)
	}
	return fm, body
}

// deriveTitle returns the frontmatter title, otherwise the first H1 heading.
func deriveTitle(fm frontmatter, body string) string {
	if t := strings.TrimSpace(fm.Title); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
