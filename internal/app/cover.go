package app

import (
	"errors"
	"image"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/bookmock/internal/assets"
	"github.com/Faultbox/bookmock/internal/engine/texture"
	"github.com/Faultbox/bookmock/internal/logger"
)

// coverResult is a decoded cover handed back to the render loop.
type coverResult struct {
	Path  string // absolute
	Image image.Image
	Err   error
}

// coverLoader decodes cover images off the render loop. Results are
// drained once per frame; the book is never touched from here.
type coverLoader struct {
	assets  *assets.Manager
	results chan coverResult
	picked  chan string
	done    chan struct{}
	wg      sync.WaitGroup

	dialogOpen atomic.Bool
}

// newCoverLoader decodes covers no larger than maxSize, resolving relative
// paths against roots in priority order, lowest first.
func newCoverLoader(maxSize int, roots ...string) *coverLoader {
	m := assets.NewManager(func(path string) (image.Image, error) {
		return texture.LoadCover(path, maxSize)
	})
	for _, r := range roots {
		if err := m.AddRoot(r); err != nil {
			logger.Warn("skipping cover root", zap.Error(err))
		}
	}
	return &coverLoader{
		assets:  m,
		results: make(chan coverResult, 4),
		picked:  make(chan string, 1),
		done:    make(chan struct{}),
	}
}

// Load decodes path in the background. Unchanged files come from the cache.
func (l *coverLoader) Load(path string) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		img, abs, err := l.assets.Image(path)
		if abs == "" {
			abs = path
		}
		select {
		case l.results <- coverResult{Path: abs, Image: img, Err: err}:
		case <-l.done:
		}
	}()
}

// Results delivers finished decodes.
func (l *coverLoader) Results() <-chan coverResult {
	return l.results
}

// Picked delivers paths chosen in the file dialog.
func (l *coverLoader) Picked() <-chan string {
	return l.picked
}

// OpenDialog shows the native file picker unless one is already up.
// The dialog blocks, so it runs on its own goroutine.
func (l *coverLoader) OpenDialog() {
	if !l.dialogOpen.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer l.dialogOpen.Store(false)

		exts := make([]string, len(texture.Extensions))
		for i, e := range texture.Extensions {
			exts[i] = strings.TrimPrefix(e, ".")
		}
		filename, err := dialog.File().
			Filter("Images", exts...).
			Filter("All Files", "*").
			Title("Choose cover image").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Warn("file dialog failed", zap.Error(err))
			}
			return
		}

		select {
		case l.picked <- filename:
		default:
			logger.Debug("dropping dialog pick, one is already queued", zap.String("path", filename))
		}
	}()
}

// Close abandons pending decodes and waits for their goroutines.
func (l *coverLoader) Close() {
	close(l.done)
	l.wg.Wait()
}
