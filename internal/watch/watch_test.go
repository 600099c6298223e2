package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testDebounce = 20 * time.Millisecond

func newWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New(testDebounce)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func expectChange(t *testing.T, w *Watcher, want string) {
	t.Helper()
	select {
	case got := <-w.Changes():
		if got != want {
			t.Errorf("changed %q, want %q", got, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("no change reported for %s", want)
	}
}

func expectQuiet(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case got := <-w.Changes():
		t.Errorf("unexpected change %q", got)
	case <-time.After(10 * testDebounce):
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.png")
	writeFile(t, path, "a")

	w := newWatcher(t)
	if err := w.Add(path); err != nil {
		t.Fatal(err)
	}

	// A burst of writes settles into one change.
	for i := 0; i < 5; i++ {
		writeFile(t, path, "burst")
	}
	expectChange(t, w, path)
	expectQuiet(t, w)
}

func TestWatcherFollowsRenameSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "a")

	w := newWatcher(t)
	if err := w.Add(path); err != nil {
		t.Fatal(err)
	}

	tmp := filepath.Join(dir, ".config.yaml.swp")
	writeFile(t, tmp, "b")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	expectChange(t, w, path)
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.png")
	writeFile(t, path, "a")

	w := newWatcher(t)
	if err := w.Add(path); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "other.png"), "b")
	expectQuiet(t, w)
}

func TestWatcherRemove(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writeFile(t, a, "a")
	writeFile(t, b, "b")

	w := newWatcher(t)
	for _, p := range []string{a, b} {
		if err := w.Add(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Remove(a); err != nil {
		t.Fatal(err)
	}

	// The directory stays watched for b.
	writeFile(t, a, "changed")
	writeFile(t, b, "changed")
	expectChange(t, w, b)
	expectQuiet(t, w)
}

func TestWatcherAddMissingDir(t *testing.T) {
	w := newWatcher(t)
	if err := w.Add(filepath.Join(t.TempDir(), "missing", "cover.png")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestCloseClosesChanges(t *testing.T) {
	w, err := New(0)
	if err != nil {
		t.Fatal(err)
	}
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v", w.debounce)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Error("Changes still open after Close")
	}
}
