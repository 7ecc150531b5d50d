package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) record(kind, filename string) {
	r.mu.Lock()
	r.events = append(r.events, kind+":"+filename)
	r.mu.Unlock()
}

func (r *recorder) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func startWatch(t *testing.T, dir string) *recorder {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	rec := &recorder{}
	go func() {
		defer close(done)
		if err := Watch(ctx, dir, ".xml", logger, rec.record); err != nil {
			t.Errorf("Watch: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(100 * time.Millisecond)
	return rec
}

func TestWatcher_Created(t *testing.T) {
	dir := t.TempDir()
	rec := startWatch(t, dir)

	_ = os.WriteFile(filepath.Join(dir, "ruskin-letter-2.xml"), []byte("<TEI/>"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:ruskin-letter-2.xml")
	}, "created event not reported")
}

func TestWatcher_UpdatedAndDeleted(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "ruskin-diary.xml")
	_ = os.WriteFile(p, []byte("<TEI/>"), 0o644)
	rec := startWatch(t, dir)

	_ = os.WriteFile(p, []byte("<TEI><teiHeader/></TEI>"), 0o644)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("updated:ruskin-diary.xml")
	}, "updated event not reported")

	_ = os.Remove(p)
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("deleted:ruskin-diary.xml")
	}, "deleted event not reported")
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	rec := startWatch(t, dir)

	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "marker.xml"), []byte("<TEI/>"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("created:marker.xml")
	}, "marker event not reported")
	for _, e := range rec.snapshot() {
		if e == "created:notes.txt" || e == "updated:notes.txt" {
			t.Errorf("unexpected event %s", e)
		}
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "gone"), ".xml", logger, nil)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestClassify(t *testing.T) {
	cases := map[fsnotify.Op]string{
		fsnotify.Create:                  Created,
		fsnotify.Write:                   Updated,
		fsnotify.Create | fsnotify.Write: Created,
		fsnotify.Remove:                  Deleted,
		fsnotify.Rename:                  Deleted,
		fsnotify.Chmod:                   "",
	}
	for op, want := range cases {
		if got := classify(op); got != want {
			t.Errorf("classify(%v) = %q, want %q", op, got, want)
		}
	}
}
