// Package watch reports edits to individual files, used to hot-reload the
// cover image and the config while the viewer runs.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/bookmock/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches files through their parent directories, so files replaced
// by rename (as most editors and image tools save) keep being tracked.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	files   map[string]bool
	dirs    map[string]int
	pending map[string]*time.Timer

	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup
	timers  sync.WaitGroup // armed or running debounce callbacks
}

// New starts a watcher. A debounce of zero uses DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		fs:       fsw,
		debounce: debounce,
		log:      logger.Named("watch"),
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		pending:  make(map[string]*time.Timer),
		changes:  make(chan string, 8),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Changes delivers the cleaned absolute path of each file that settled
// after a write, create or rename.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Add starts tracking path. Adding a tracked file is a no-op.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	w.log.Debug("watching", zap.String("path", abs))
	return nil
}

// Remove stops tracking path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)
	if t, ok := w.pending[abs]; ok {
		w.stop(t)
		delete(w.pending, abs)
	}
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	return w.fs.Remove(dir)
}

// Close stops the watcher and closes Changes.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()

	w.mu.Lock()
	for _, t := range w.pending {
		w.stop(t)
	}
	w.pending = nil
	w.mu.Unlock()

	w.timers.Wait()
	close(w.changes)
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.touch(filepath.Clean(event.Name))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// touch (re)arms the debounce timer of a tracked file.
func (w *Watcher) touch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[path] || w.pending == nil {
		return
	}
	if t, ok := w.pending[path]; ok && t.Stop() {
		t.Reset(w.debounce)
		return
	}

	var t *time.Timer
	w.timers.Add(1)
	t = time.AfterFunc(w.debounce, func() {
		defer w.timers.Done()

		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		select {
		case w.changes <- path:
			w.log.Debug("file changed", zap.String("path", path))
		case <-w.done:
		}
	})
	w.pending[path] = t
}

// stop disarms t, releasing its callback slot if it had not started.
// Callers hold mu.
func (w *Watcher) stop(t *time.Timer) {
	if t.Stop() {
		w.timers.Done()
	}
}
