package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/codex/internal/apperr"
	"github.com/starford/codex/internal/catalog"
	"github.com/starford/codex/internal/metrics"
	"github.com/starford/codex/internal/testutil"
)

type spyRecorder struct {
	renders  []string
	searches []bool
}

func (s *spyRecorder) ObserveScan(time.Duration, int, int) {}
func (s *spyRecorder) ObserveRender(_ time.Duration, outcome string) {
	s.renders = append(s.renders, outcome)
}
func (s *spyRecorder) IncSearch(empty bool) { s.searches = append(s.searches, empty) }

func newService(t *testing.T, xsl string, extra map[string]string) (*Service, *spyRecorder, string) {
	t.Helper()
	files := testutil.Ruskin()
	for k, v := range extra {
		files[k] = v
	}
	dir := testutil.DocumentsDir(t, files)
	tr := testutil.Transformer(t, xsl)
	cat, err := catalog.New(dir, tr)
	require.NoError(t, err)
	rec := &spyRecorder{}
	return NewService(cat, tr, rec), rec, dir
}

func TestRender(t *testing.T) {
	svc, rec, _ := newService(t, testutil.Stylesheet, nil)

	entry, html, err := svc.Render("ruskin-letter-1")
	require.NoError(t, err)
	assert.Equal(t, "Letter on Art", entry.Metadata.Title)
	assert.Contains(t, html, "My dear father.")
	assert.Equal(t, []string{metrics.OutcomeSuccess}, rec.renders)
}

func TestRender_UnknownSlug(t *testing.T) {
	svc, rec, _ := newService(t, testutil.Stylesheet, nil)

	_, _, err := svc.Render("unknown-slug")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, []string{metrics.OutcomeNotFound}, rec.renders)
}

func TestRender_TransformFailureSurfaces(t *testing.T) {
	svc, rec, _ := newService(t, testutil.FailingStylesheet, nil)

	entry, _, err := svc.Render("ruskin-diary")
	assert.ErrorIs(t, err, apperr.ErrTransform)
	assert.Equal(t, "ruskin-diary", entry.Slug)
	assert.Equal(t, []string{metrics.OutcomeTransform}, rec.renders)
}

func TestRender_FileRemovedAfterScan(t *testing.T) {
	svc, _, dir := newService(t, testutil.Stylesheet, nil)
	svc.Listing()
	require.NoError(t, os.Remove(filepath.Join(dir, "ruskin-diary.xml")))

	_, _, err := svc.Render("ruskin-diary")
	assert.ErrorIs(t, err, apperr.ErrDocumentNotFound)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
}

func TestSearchAndListing(t *testing.T) {
	svc, rec, _ := newService(t, testutil.Stylesheet, nil)

	assert.Len(t, svc.Listing(), 2)
	assert.Equal(t, svc.Listing(), svc.Search(""))
	hits := svc.Search("art")
	require.Len(t, hits, 1)
	assert.Equal(t, "ruskin-letter-1", hits[0].Slug)
	assert.Equal(t, []bool{true, false}, rec.searches)
}

func TestManuscript(t *testing.T) {
	svc, _, _ := newService(t, testutil.Stylesheet, nil)

	e, ok := svc.Manuscript("ruskin-diary")
	require.True(t, ok)
	assert.Equal(t, "Diary Entries", e.Metadata.Title)

	_, ok = svc.Manuscript("nope")
	assert.False(t, ok)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeParse, outcome(fmt.Errorf("x: %w", apperr.ErrParse)))
	assert.Equal(t, metrics.OutcomeError, outcome(errors.New("other")))
}
