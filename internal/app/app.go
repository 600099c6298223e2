// Package app implements the interactive book viewer: the frame loop, the
// keyboard and mouse control surface, and cover loading.
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/internal/config"
	"github.com/Faultbox/bookmock/internal/engine/audio"
	"github.com/Faultbox/bookmock/internal/engine/camera"
	"github.com/Faultbox/bookmock/internal/engine/debug"
	"github.com/Faultbox/bookmock/internal/engine/input"
	"github.com/Faultbox/bookmock/internal/engine/picking"
	"github.com/Faultbox/bookmock/internal/engine/renderer"
	"github.com/Faultbox/bookmock/internal/engine/texture"
	"github.com/Faultbox/bookmock/internal/engine/window"
	"github.com/Faultbox/bookmock/internal/logger"
	"github.com/Faultbox/bookmock/internal/watch"
)

// clickSlop is how far, in points, the mouse may travel before a press
// counts as a drag instead of a click.
const clickSlop = 4

// maxFrameDt caps the tick after a stall (window drag, dialog) so the
// hinge does not jump.
const maxFrameDt = 0.1

// drag tracks one held mouse button.
type drag struct {
	button  uint8
	startX  int
	startY  int
	moved   bool
	pressed bool
}

// App is the viewer instance.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	camera   *camera.OrbitCamera
	book     *book.Book
	controls *Controls
	panel    *panel

	covers      *coverLoader
	coverPath   string
	watcher     *watch.Watcher
	screenshots *debug.ScreenshotCapture

	// sounds is nil when audio is disabled or no device opened.
	sounds  *audio.Manager
	muted   bool
	landing landing

	drag  drag
	title string

	// Screenshot requested this frame, taken once the frame is drawn.
	shotPending   bool
	shotOffscreen bool
}

// New creates the window, GL renderer and book from cfg.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	spec, err := cfg.Book.Spec()
	if err != nil {
		return nil, err
	}
	background, err := cfg.Render.BackgroundColor()
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:         cfg,
		input:       input.New(),
		camera:      camera.NewOrbitCamera(),
		controls:    NewControls(spec),
		covers:      newCoverLoader(cfg.Render.MaxTextureSize, coverRoots(cfg)...),
		screenshots: debug.NewScreenshotCapture(cfg.Viewer.ScreenshotDir, "bookmock"),
		muted:       cfg.Audio.Muted,
	}
	a.book = book.New(a.controls.Spec(), book.WithHingeSpeed(cfg.Animation.HingeSpeed))

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      "bookmock",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	w, h := a.window.GetDrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:         w,
		Height:        h,
		VSync:         cfg.Window.VSync,
		Background:    background,
		ShadowMapSize: cfg.Render.ShadowMapSize,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.renderer.Resize(w, h)
	a.renderer.Sun = cfg.Render.Sun()
	a.renderer.ShowBounds = cfg.Render.ShowBounds

	a.panel, err = newPanel(a.window.GetSize())
	if err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, err
	}

	a.frameBook()

	if cfg.Viewer.WatchFiles {
		a.watcher, err = watch.New(0)
		if err != nil {
			logger.Warn("file watching disabled", zap.Error(err))
		} else if cfg.Path() != "" {
			if err := a.watcher.Add(cfg.Path()); err != nil {
				logger.Warn("cannot watch config", zap.Error(err))
			}
		}
	}

	if cfg.Book.CoverImage != "" {
		a.covers.Load(cfg.Book.CoverImage)
	}

	if cfg.Audio.Enabled {
		a.sounds = initSounds(cfg.Audio)
	}

	logger.Info("viewer initialized successfully")
	return a, nil
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for a.running {
		frameStart := time.Now()
		dt := min(frameStart.Sub(lastTime).Seconds(), maxFrameDt)
		lastTime = frameStart

		// 1. Process input
		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}

		// 2. Collect background results
		a.drain()

		// 3. Apply the spec, then advance the hinge
		a.book.Frame(a.controls.Spec(), dt)
		a.playLanding()
		a.updateTitle()

		// 4. Render and present
		a.render()
		if a.shotPending {
			a.screenshot(a.shotOffscreen)
			a.shotPending = false
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if limit := a.cfg.Window.FPSLimit; limit > 0 {
			budget := time.Second / time.Duration(limit)
			if spent := time.Since(frameStart); spent < budget {
				time.Sleep(budget - spent)
			}
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logger.Warn("closing watcher", zap.Error(err))
		}
	}
	a.covers.Close()
	if a.sounds != nil {
		a.sounds.Close()
	}
	if a.panel != nil {
		a.panel.close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) render() {
	w, h := a.renderer.Size()
	a.renderer.Begin()
	a.renderer.DrawBook(a.book, a.camera, float32(w)/float32(max(1, h)))
	a.panel.draw(a)
}

func (a *App) handleEvent(e input.Event) {
	if a.panel.feed(e) {
		return
	}

	switch e.Type {
	case input.EventWindowResize:
		w, h := a.window.GetDrawableSize()
		a.renderer.Resize(w, h)
		a.panel.resize(a.window.GetSize())
	case input.EventKeyDown:
		a.handleKey(e)
	case input.EventMouseDown:
		a.drag = drag{button: e.Button, startX: e.MouseX, startY: e.MouseY, pressed: true}
	case input.EventMouseMove:
		a.handleMotion(e)
	case input.EventMouseUp:
		if a.drag.pressed && a.drag.button == e.Button && !a.drag.moved && e.Button == sdl.BUTTON_LEFT {
			a.click(e.MouseX, e.MouseY)
		}
		a.drag = drag{}
	case input.EventMouseWheel:
		if sdl.GetModState()&sdl.KMOD_CTRL != 0 {
			a.controls.NudgeOpen(float64(e.Wheel))
		} else {
			a.camera.HandleZoom(e.Wheel)
		}
	case input.EventDropFile:
		a.openCover(e.Path)
	}
}

func (a *App) handleKey(e input.Event) {
	if e.Ctrl() && e.Key == sdl.SCANCODE_S {
		if !e.Repeat {
			a.saveSettings()
		}
		return
	}

	steps := 1.0
	if e.Shift() {
		steps = CoarseFactor
	}

	switch e.Key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
	case sdl.SCANCODE_W:
		a.controls.Nudge(DimWidth, steps)
	case sdl.SCANCODE_S:
		a.controls.Nudge(DimWidth, -steps)
	case sdl.SCANCODE_E:
		a.controls.Nudge(DimHeight, steps)
	case sdl.SCANCODE_D:
		a.controls.Nudge(DimHeight, -steps)
	case sdl.SCANCODE_R:
		a.controls.Nudge(DimSpine, steps)
	case sdl.SCANCODE_F:
		a.controls.Nudge(DimSpine, -steps)
	case sdl.SCANCODE_UP:
		a.controls.NudgeOpen(steps)
	case sdl.SCANCODE_DOWN:
		a.controls.NudgeOpen(-steps)
	}

	// The rest are one-shot actions.
	if e.Repeat {
		return
	}
	switch e.Key {
	case sdl.SCANCODE_SPACE:
		a.controls.ToggleOpen()
	case sdl.SCANCODE_P:
		a.controls.TogglePages()
	case sdl.SCANCODE_B:
		a.controls.ToggleBinding()
	case sdl.SCANCODE_C:
		c := a.controls.CycleColor()
		logger.Debug("cover colour", zap.String("color", book.HexColor(c)))
	case sdl.SCANCODE_X:
		a.clearCover()
	case sdl.SCANCODE_O:
		a.covers.OpenDialog()
	case sdl.SCANCODE_H:
		a.panel.toggle()
	case sdl.SCANCODE_M:
		a.muted = !a.muted
		logger.Debug("sound", zap.Bool("muted", a.muted))
	case sdl.SCANCODE_HOME:
		a.frameBook()
	case sdl.SCANCODE_F3:
		a.renderer.ShowBounds = !a.renderer.ShowBounds
	case sdl.SCANCODE_F4:
		a.renderer.Shadows = !a.renderer.Shadows
	case sdl.SCANCODE_F12:
		a.shotPending, a.shotOffscreen = true, e.Shift()
	}
}

func (a *App) handleMotion(e input.Event) {
	if !a.drag.pressed {
		return
	}
	dx, dy := e.MouseX-a.drag.startX, e.MouseY-a.drag.startY
	if !a.drag.moved && dx*dx+dy*dy > clickSlop*clickSlop {
		a.drag.moved = true
	}
	if !a.drag.moved {
		return
	}
	switch a.drag.button {
	case sdl.BUTTON_LEFT:
		a.camera.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
	case sdl.BUTTON_RIGHT, sdl.BUTTON_MIDDLE:
		a.camera.HandlePan(float32(e.DeltaX), float32(e.DeltaY))
	}
}

// click toggles the book open or shut when a part is under the cursor.
func (a *App) click(x, y int) {
	w, h := a.window.GetSize()
	aspect := float32(w) / float32(max(1, h))
	invViewProj := a.camera.ProjectionMatrix(aspect).Mul(a.camera.ViewMatrix()).Inverse()

	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), invViewProj)
	hit, ok := picking.PickPart(ray, a.book.Parts())
	if !ok {
		return
	}
	logger.Debug("picked", zap.String("part", hit.Part.Name), zap.Float32("distance", hit.Distance))
	a.controls.ToggleOpen()
}

// frameBook points the camera at the fully opened book, the widest pose.
func (a *App) frameBook() {
	lo, hi := a.book.Assembly().Bounds(book.TargetHinge(1))
	a.camera.FitToBounds(lo, hi)
}

// drain applies everything background goroutines produced since last frame.
func (a *App) drain() {
	for {
		select {
		case res := <-a.covers.Results():
			a.applyCover(res)
		case path := <-a.covers.Picked():
			a.openCover(path)
		case path := <-a.watchChanges():
			a.reload(path)
		default:
			return
		}
	}
}

// watchChanges is nil, and so never ready, without a watcher.
func (a *App) watchChanges() <-chan string {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Changes()
}

func (a *App) openCover(path string) {
	if !texture.IsSupported(path) {
		logger.Warn("not a supported image", zap.String("path", path))
		return
	}
	a.covers.Load(path)
}

// clearCover drops the cover image and its file watch.
func (a *App) clearCover() {
	a.setCoverPath("")
	a.controls.SetCover(nil)
}

func (a *App) applyCover(res coverResult) {
	if res.Err != nil {
		// Keep whatever cover is showing.
		logger.Warn("cover not loaded", zap.String("path", res.Path), zap.Error(res.Err))
		return
	}
	a.controls.SetCover(res.Image)
	a.setCoverPath(res.Path)
	b := res.Image.Bounds()
	logger.Info("cover loaded",
		zap.String("path", res.Path),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
	)
}

// setCoverPath moves the file watch to the new cover.
func (a *App) setCoverPath(path string) {
	if path == a.coverPath {
		return
	}
	if a.watcher != nil {
		if a.coverPath != "" {
			if err := a.watcher.Remove(a.coverPath); err != nil {
				logger.Warn("cannot unwatch cover", zap.Error(err))
			}
		}
		if path != "" {
			if err := a.watcher.Add(path); err != nil {
				logger.Warn("cannot watch cover", zap.Error(err))
			}
		}
	}
	a.coverPath = path
}

func (a *App) reload(path string) {
	if path == a.coverPath {
		logger.Info("cover changed on disk, reloading", zap.String("path", path))
		a.covers.Load(path)
		return
	}
	if a.cfg.Path() == "" {
		return
	}
	if cfgPath, err := filepath.Abs(a.cfg.Path()); err == nil && path == cfgPath {
		a.reloadConfig()
	}
}

// reloadConfig picks up render settings. The book preset is ignored so
// edits made in the viewer survive, and the hinge speed is fixed for the
// lifetime of the book.
func (a *App) reloadConfig() {
	cfg, err := config.LoadFile(a.cfg.Path())
	if err != nil {
		logger.Warn("config not reloaded", zap.Error(err))
		return
	}
	background, _ := cfg.Render.BackgroundColor()
	a.renderer.SetBackground(background)
	a.renderer.Sun = cfg.Render.Sun()
	a.renderer.ShowBounds = cfg.Render.ShowBounds
	a.screenshots.SetOutputDir(cfg.Viewer.ScreenshotDir)
	if a.sounds != nil {
		a.sounds.SetVolume(cfg.Audio.Volume)
	}

	cfg.Book = a.cfg.Book
	cfg.Animation = a.cfg.Animation
	cfg.Audio.Enabled = a.cfg.Audio.Enabled
	cfg.Audio.Muted = a.muted
	a.cfg = cfg
	logger.Info("config reloaded", zap.String("path", cfg.Path()))
}

// screenshot saves the window, or with offscreen set, a render at the
// configured snapshot size.
func (a *App) screenshot(offscreen bool) {
	var (
		path string
		err  error
	)
	if offscreen {
		img, cerr := a.renderer.Capture(a.book, a.camera, a.cfg.Render.SnapshotWidth, a.cfg.Render.SnapshotHeight)
		if cerr != nil {
			logger.Warn("offscreen capture failed", zap.Error(cerr))
			return
		}
		path, err = a.screenshots.CaptureFromImage(img)
	} else {
		w, h := a.renderer.Size()
		path, err = a.screenshots.CaptureFromPixels(a.renderer.ReadPixels(), w, h)
	}
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

func (a *App) updateTitle() {
	if title := a.controls.Status(); title != a.title {
		a.title = title
		a.window.SetTitle(title)
	}
}

// initSounds opens the speaker and loads any replacement sounds. A viewer
// without a sound device runs silent.
func initSounds(cfg config.AudioConfig) *audio.Manager {
	m := audio.New(cfg.Volume)
	for s, path := range map[audio.Sound]string{
		audio.SoundOpen:  cfg.OpenSound,
		audio.SoundClose: cfg.CloseSound,
	} {
		if path == "" {
			continue
		}
		if err := m.LoadFile(s, path); err != nil {
			logger.Warn("using built-in sound", zap.String("sound", string(s)), zap.Error(err))
		}
	}
	if err := m.Init(); err != nil {
		logger.Warn("audio disabled", zap.Error(err))
		return nil
	}
	return m
}

// playLanding knocks when the covers come to rest shut or flat.
func (a *App) playLanding() {
	s, ok := a.landing.update(a.book.Hinge(), a.book.Target(), a.controls.Spec().OpenRatio)
	if !ok || a.sounds == nil || a.muted {
		return
	}
	if err := a.sounds.Play(s); err != nil {
		logger.Debug("sound not played", zap.Error(err))
	}
}

// saveSettings writes the viewer settings, with the current window size
// and toggles, back to the config file the viewer started from, or to the
// user config directory when it started from defaults.
func (a *App) saveSettings() {
	w, h := a.window.GetSize()
	cfg := viewerSettings(a.cfg, w, h, a.renderer.ShowBounds, a.muted)

	path := cfg.Path()
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.yaml")
	}
	if err := cfg.SaveTo(path); err != nil {
		logger.Warn("settings not saved", zap.String("path", path), zap.Error(err))
		return
	}
	logger.Info("settings saved", zap.String("path", path))
}

// viewerSettings returns a copy of cfg carrying the live viewer state. A
// fullscreen window keeps the configured windowed size.
func viewerSettings(cfg *config.Config, width, height int, showBounds, muted bool) *config.Config {
	out := *cfg
	if !out.Window.Fullscreen && width > 0 && height > 0 {
		out.Window.Width, out.Window.Height = width, height
	}
	out.Render.ShowBounds = showBounds
	out.Audio.Muted = muted
	return &out
}

// coverRoots lets a config name its cover relative to itself.
func coverRoots(cfg *config.Config) []string {
	if cfg.Path() == "" {
		return nil
	}
	return []string{filepath.Dir(cfg.Path())}
}
