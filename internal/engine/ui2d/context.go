package ui2d

import (
	"fmt"
	"math"
)

// Layout metrics in points.
const (
	titleBarHeight = 24
	padding        = 8
	spacing        = 4
	checkboxSize   = 18
)

// Context holds the overlay state between frames: windows, the widget
// being dragged, the pointer and the theme.
type Context struct {
	renderer *Renderer
	pointer  *Pointer
	theme    Theme

	// Widget holding the pointer until release.
	active string

	windows map[string]*WindowState
	window  *WindowState

	// Layout cursor inside the current window.
	cursorX, cursorY float32
	rowH             float32
}

// WindowState is a window's placement and visibility.
type WindowState struct {
	ID   string
	Rect Rect
	Open bool

	moving bool
	// Dragged windows stay where the user left them.
	dragged bool
}

// NewContext creates the overlay. A GL context must be current.
func NewContext(width, height int) (*Context, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	return &Context{
		renderer: r,
		pointer:  &Pointer{},
		theme:    DefaultTheme(),
		windows:  make(map[string]*WindowState),
	}, nil
}

// Close releases GL resources.
func (c *Context) Close() {
	c.renderer.Close()
}

// Resize follows the window size.
func (c *Context) Resize(width, height int) {
	c.renderer.Resize(width, height)
}

// ScreenSize returns the window size in points.
func (c *Context) ScreenSize() (float32, float32) {
	w, h := c.renderer.ScreenSize()
	return float32(w), float32(h)
}

// Pointer returns the pointer state the host feeds.
func (c *Context) Pointer() *Pointer {
	return c.pointer
}

// Theme returns the colours widgets draw with.
func (c *Context) Theme() Theme {
	return c.theme
}

// SetTheme replaces the colours from the next widget on.
func (c *Context) SetTheme(t Theme) {
	c.theme = t
}

// Begin starts a frame.
func (c *Context) Begin() {
	c.pointer.Update()
	c.renderer.Begin()
}

// End draws the frame.
func (c *Context) End() {
	c.renderer.End()
	c.pointer.EndFrame()
}

// BeginWindow starts a window placed at r unless the user has dragged it,
// and reports whether it is open. Widgets lay out inside it until
// EndWindow.
func (c *Context) BeginWindow(id string, r Rect, title string) bool {
	ws, ok := c.windows[id]
	if !ok {
		ws = &WindowState{ID: id, Rect: r, Open: true}
		c.windows[id] = ws
	} else if !ws.dragged {
		ws.Rect = r
	}
	if !ws.Open {
		return false
	}
	c.window = ws

	p := c.pointer
	bar := Rect{ws.Rect.X, ws.Rect.Y, ws.Rect.W, titleBarHeight}
	titleID := id + "/title"
	if p.Pressed && p.Over(bar) {
		ws.moving = true
		c.active = titleID
	}
	if ws.moving && p.Down {
		ws.Rect.X += p.DX
		ws.Rect.Y += p.DY
		ws.dragged = true
	}
	if p.Released {
		ws.moving = false
		c.release(titleID)
	}

	t := c.theme
	c.renderer.Frame(ws.Rect, t.Panel, t.Border, 1)
	bar = Rect{ws.Rect.X + 1, ws.Rect.Y + 1, ws.Rect.W - 2, titleBarHeight - 1}
	c.renderer.Fill(bar, t.Title)
	_, th := c.renderer.MeasureText(title)
	c.renderer.Text(ws.Rect.X+padding, ws.Rect.Y+(titleBarHeight-th)/2, title, t.Text)

	c.cursorX = ws.Rect.X + padding
	c.cursorY = ws.Rect.Y + titleBarHeight + padding
	c.rowH = 0
	return true
}

// EndWindow closes the current window.
func (c *Context) EndWindow() {
	c.window = nil
}

// SetWindowOpen shows or hides a window by id.
func (c *Context) SetWindowOpen(id string, open bool) {
	if ws, ok := c.windows[id]; ok {
		ws.Open = open
	}
}

// WantsMouse reports whether the overlay owns the pointer at (x, y): it is
// over an open window, or a widget is mid-drag.
func (c *Context) WantsMouse(x, y float32) bool {
	if c.active != "" {
		return true
	}
	for _, ws := range c.windows {
		if ws.Open && ws.Rect.Contains(x, y) {
			return true
		}
	}
	return false
}

// Row moves the cursor to a new row of the given height.
func (c *Context) Row(height float32) {
	if c.window == nil {
		return
	}
	c.cursorX = c.window.Rect.X + padding
	c.cursorY += c.rowH + spacing
	c.rowH = height
}

// next reserves a widget of width w (0 fills the row) and height h (0 uses
// the row height, or fallback) at the cursor and advances it.
func (c *Context) next(w, h, fallback float32) Rect {
	if h == 0 {
		h = c.rowH
	}
	if h == 0 {
		h = fallback
	}
	if w == 0 {
		w = c.window.Rect.X + c.window.Rect.W - padding - c.cursorX
	}
	r := Rect{c.cursorX, c.cursorY, w, h}
	c.cursorX += w + spacing
	return r
}

func (c *Context) widgetID(id string) string {
	return c.window.ID + "/" + id
}

func (c *Context) release(id string) {
	if c.active == id {
		c.active = ""
	}
}

// Label draws text in the theme's text colour.
func (c *Context) Label(text string) {
	c.LabelColored(text, c.theme.Text)
}

// LabelColored draws text in col.
func (c *Context) LabelColored(text string, col Color) {
	if c.window == nil {
		return
	}
	c.renderer.Text(c.cursorX, c.cursorY, text, col)
	w, _ := c.renderer.MeasureText(text)
	c.cursorX += w + spacing
}

// Separator ends the row and draws a rule across the window.
func (c *Context) Separator() {
	if c.window == nil {
		return
	}
	c.cursorY += c.rowH + spacing
	c.rowH = 0
	c.cursorX = c.window.Rect.X + padding
	c.renderer.Fill(Rect{c.cursorX, c.cursorY, c.window.Rect.W - 2*padding, 1}, c.theme.Border)
	c.cursorY += padding
}

// Button draws a push button and reports a click. Buttons fire on press.
func (c *Context) Button(id string, width float32, label string) bool {
	if c.window == nil {
		return false
	}
	r := c.next(width, 0, 28)
	fullID := c.widgetID(id)
	p := c.pointer

	clicked := p.take(r)
	if clicked {
		c.active = fullID
	}
	if p.Released {
		c.release(fullID)
	}

	t := c.theme
	fill := t.Button
	switch {
	case c.active == fullID:
		fill = t.ButtonActive
	case p.Over(r):
		fill = t.ButtonHover
	}
	c.renderer.Frame(r, fill, t.Border, 1)
	c.renderer.TextCentered(r, label, t.Text)
	return clicked
}

// ButtonDisabled draws a button that ignores the pointer.
func (c *Context) ButtonDisabled(width float32, label string) {
	if c.window == nil {
		return
	}
	r := c.next(width, 0, 28)
	t := c.theme
	c.renderer.Frame(r, t.Button.Darken(0.3), t.Border.Darken(0.3), 1)
	c.renderer.TextCentered(r, label, t.TextDim)
}

// Checkbox draws a labelled box and returns the possibly toggled value.
func (c *Context) Checkbox(id string, label string, checked bool) bool {
	if c.window == nil {
		return checked
	}
	lw, lh := c.renderer.MeasureText(label)
	box := Rect{c.cursorX, c.cursorY, checkboxSize, checkboxSize}
	hit := Rect{box.X, box.Y, checkboxSize + padding + lw, checkboxSize}
	c.cursorX += hit.W + padding

	fullID := c.widgetID(id)
	p := c.pointer
	if p.take(hit) {
		c.active = fullID
		checked = !checked
	}
	if p.Released {
		c.release(fullID)
	}

	t := c.theme
	fill := t.Well
	if p.Over(hit) {
		fill = t.ButtonHover
	}
	c.renderer.Frame(box, fill, t.Border, 1)
	if checked {
		c.renderer.Fill(box.Inset(4), t.Accent)
	}
	c.renderer.Text(box.X+checkboxSize+padding, box.Y+(checkboxSize-lh)/2, label, t.Text)
	return checked
}

// ProgressBar draws a read-only bar filled to fraction, with an optional
// centred label. It ends the row.
func (c *Context) ProgressBar(fraction float32, width, height float32, label string) {
	if c.window == nil {
		return
	}
	r := c.next(width, height, 20)
	c.renderer.Bar(r, fraction, c.theme, c.theme.Accent)
	if label != "" {
		c.renderer.TextCentered(r, label, c.theme.Text)
	}
	c.cursorX = c.window.Rect.X + padding
	c.cursorY += r.H + spacing
	c.rowH = 0
}

// Slider draws a horizontal slider over [lo, hi] and returns the value and
// whether the user changed it this frame. Values snap to step when step > 0.
func (c *Context) Slider(id string, width float32, value, lo, hi, step float64) (float64, bool) {
	if c.window == nil {
		return value, false
	}
	r := c.next(width, 0, 20)
	fullID := c.widgetID(id)
	p := c.pointer

	if p.take(r) {
		c.active = fullID
	}
	changed := false
	if c.active == fullID {
		if v := SliderValue(p.X, r.X, r.W, lo, hi, step); v != value {
			value, changed = v, true
		}
		if !p.Down {
			c.release(fullID)
		}
	}

	t := c.theme
	frac := SliderFraction(value, lo, hi)
	c.renderer.Bar(r, frac, t, t.ButtonActive)

	const grabW = 6
	gx := r.X + 1 + frac*(r.W-2) - grabW/2
	gx = max(r.X, min(gx, r.X+r.W-grabW))
	grab := t.Accent
	if c.active == fullID || p.Over(r) {
		grab = grab.Lighten(0.3)
	}
	c.renderer.Fill(Rect{gx, r.Y, grabW, r.H}, grab)
	return value, changed
}

// SliderFraction maps value in [lo, hi] to [0, 1].
func SliderFraction(value, lo, hi float64) float32 {
	if hi <= lo {
		return 0
	}
	f := (value - lo) / (hi - lo)
	return float32(math.Max(0, math.Min(1, f)))
}

// SliderValue maps a pointer x over a track at trackX of width w back to a
// value in [lo, hi], snapped to step.
func SliderValue(pointerX, trackX, w float32, lo, hi, step float64) float64 {
	if w <= 0 {
		return lo
	}
	f := math.Max(0, math.Min(1, float64((pointerX-trackX)/w)))
	v := lo + f*(hi-lo)
	if step > 0 {
		v = lo + math.Round((v-lo)/step)*step
	}
	return math.Max(lo, math.Min(hi, v))
}

// Swatch draws a colour square and reports a click. The selected swatch
// gets a heavier border in the text colour.
func (c *Context) Swatch(id string, size float32, col Color, selected bool) bool {
	if c.window == nil {
		return false
	}
	if size == 0 {
		size = 20
	}
	r := c.next(size, size, size)
	fullID := c.widgetID(id)
	p := c.pointer

	clicked := p.take(r)
	if clicked {
		c.active = fullID
	}
	if p.Released {
		c.release(fullID)
	}

	t := c.theme
	border, thickness := t.Border, float32(1)
	switch {
	case selected:
		border, thickness = t.Text, 2
	case p.Over(r):
		border = t.Accent
	}
	c.renderer.Frame(r, col, border, thickness)
	return clicked
}
