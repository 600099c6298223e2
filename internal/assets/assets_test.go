package assets

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// countingDecoder returns a fresh 1x1 image per call and counts calls.
func countingDecoder(calls *int) Decoder {
	return func(path string) (image.Image, error) {
		*calls++
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}
}

func TestResolve(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()
	writeFile(t, filepath.Join(low, "a.png"), "low")
	writeFile(t, filepath.Join(low, "only-low.png"), "low")
	writeFile(t, filepath.Join(high, "a.png"), "high")

	m := NewManager(nil)
	if err := m.AddRoot(low); err != nil {
		t.Fatal(err)
	}
	if err := m.AddRoot(high); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"last root wins", "a.png", filepath.Join(high, "a.png")},
		{"falls back to earlier root", "only-low.png", filepath.Join(low, "only-low.png")},
		{"absolute", filepath.Join(low, "a.png"), filepath.Join(low, "a.png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Resolve(tt.path)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := m.Resolve("nowhere.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := m.Resolve(filepath.Join(low, "nowhere.png")); err == nil {
		t.Error("expected an error for a missing absolute path")
	}
}

func TestImageCachesUntilChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cover.png")
	writeFile(t, path, "v1")

	calls := 0
	m := NewManager(countingDecoder(&calls))

	first, abs, err := m.Image(path)
	if err != nil {
		t.Fatal(err)
	}
	if abs != path {
		t.Errorf("abs = %q, want %q", abs, path)
	}
	second, _, err := m.Image(path)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || first != second {
		t.Errorf("decoded %d times, want 1 with the cached image reused", calls)
	}

	// A rewrite changes the stamp.
	writeFile(t, path, "version two")
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Image(path); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("decoded %d times after the file changed, want 2", calls)
	}

	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("stats = %d hits %d misses, want 1 and 2", hits, misses)
	}
}

func TestImageDecodeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.png")
	writeFile(t, path, "x")

	boom := errors.New("boom")
	m := NewManager(func(string) (image.Image, error) { return nil, boom })
	if _, _, err := m.Image(path); !errors.Is(err, boom) {
		t.Errorf("Image() error = %v, want %v", err, boom)
	}
	if m.Cache().Len() != 0 {
		t.Error("failed decode was cached")
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2)
	stamp := Stamp{Size: 1}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	c.Set("a", stamp, img)
	c.Set("b", stamp, img)
	c.Set("a", stamp, img) // refresh moves a to newest
	c.Set("c", stamp, img)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("b", stamp); ok {
		t.Error("oldest entry b should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k, stamp); !ok {
			t.Errorf("entry %s missing", k)
		}
	}
	if _, ok := c.Get("a", Stamp{Size: 2}); ok {
		t.Error("stale stamp should miss")
	}

	c.Clear()
	if hits, misses := c.Stats(); c.Len() != 0 || hits != 0 || misses != 0 {
		t.Error("Clear did not reset the cache")
	}
}
