// Package assets resolves the image files the viewer loads by path and
// caches their decoded form.
package assets

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultCacheSize is how many decoded images a Manager keeps.
const DefaultCacheSize = 8

// ErrNotFound is returned when no root holds a relative path.
var ErrNotFound = errors.New("asset not found")

// Decoder turns a file into an image.
type Decoder func(path string) (image.Image, error)

// Manager resolves relative paths against a set of roots and caches the
// decoded images.
type Manager struct {
	roots  []string
	decode Decoder
	cache  *Cache
	mu     sync.RWMutex
}

// NewManager creates a manager that decodes with decode.
func NewManager(decode Decoder) *Manager {
	return &Manager{
		decode: decode,
		cache:  NewCache(DefaultCacheSize),
	}
}

// AddRoot adds a directory relative paths are looked up in.
// Roots are searched in reverse order (last added = highest priority),
// then the working directory.
func (m *Manager) AddRoot(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("root %s: %w", dir, err)
	}

	m.mu.Lock()
	m.roots = append(m.roots, abs)
	m.mu.Unlock()

	return nil
}

// Resolve returns the absolute path of an existing file.
func (m *Manager) Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return filepath.Clean(path), nil
	}

	m.mu.RLock()
	candidates := make([]string, 0, len(m.roots)+1)
	for i := len(m.roots) - 1; i >= 0; i-- {
		candidates = append(candidates, filepath.Join(m.roots[i], path))
	}
	m.mu.RUnlock()
	if abs, err := filepath.Abs(path); err == nil {
		candidates = append(candidates, abs)
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Image resolves and decodes path, reusing the cached image while the
// file is unchanged. It returns the resolved absolute path.
func (m *Manager) Image(path string) (image.Image, string, error) {
	abs, err := m.Resolve(path)
	if err != nil {
		return nil, "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, abs, err
	}
	stamp := Stamp{ModTime: info.ModTime(), Size: info.Size()}

	if img, ok := m.cache.Get(abs, stamp); ok {
		return img, abs, nil
	}
	img, err := m.decode(abs)
	if err != nil {
		return nil, abs, err
	}
	m.cache.Set(abs, stamp, img)
	return img, abs, nil
}

// Cache returns the decoded image cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Stamp identifies one version of a file.
type Stamp struct {
	ModTime time.Time
	Size    int64
}

type cacheEntry struct {
	stamp Stamp
	img   image.Image
}

// Cache is a small in-memory cache of decoded images. Entries whose stamp
// no longer matches the file are misses.
type Cache struct {
	max   int
	data  map[string]cacheEntry
	order []string // oldest first
	mu    sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a cache holding at most max images.
func NewCache(max int) *Cache {
	return &Cache{
		max:  max,
		data: make(map[string]cacheEntry),
	}
}

// Get retrieves an image stored under key with the same stamp.
func (c *Cache) Get(key string, stamp Stamp) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if ok && e.stamp.Size == stamp.Size && e.stamp.ModTime.Equal(stamp.ModTime) {
		c.hits++
		return e.img, true
	}
	c.misses++
	return nil, false
}

// Set stores an image, evicting the oldest entry when full.
func (c *Cache) Set(key string, stamp Stamp, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[key]; ok {
		c.remove(key)
	}
	for c.max > 0 && len(c.order) >= c.max {
		c.remove(c.order[0])
	}
	c.data[key] = cacheEntry{stamp: stamp, img: img}
	c.order = append(c.order, key)
}

func (c *Cache) remove(key string) {
	delete(c.data, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]cacheEntry)
	c.order = nil
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
