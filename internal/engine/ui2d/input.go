package ui2d

// Pointer is the overlay's view of the mouse. The host writes X, Y, Down
// and Clicked from events; Update derives the edges once per frame.
type Pointer struct {
	X, Y float32
	Down bool
	// Clicked latches a press event so a press and release inside one
	// frame still reaches a widget. The first widget under it consumes it.
	Clicked bool

	DX, DY   float32
	Pressed  bool
	Released bool

	prevDown     bool
	prevX, prevY float32
}

// Update derives deltas and press/release edges from the raw state.
func (p *Pointer) Update() {
	p.DX = p.X - p.prevX
	p.DY = p.Y - p.prevY
	p.Pressed = p.Down && !p.prevDown
	p.Released = !p.Down && p.prevDown

	p.prevDown = p.Down
	p.prevX, p.prevY = p.X, p.Y
}

// EndFrame drops the latched click.
func (p *Pointer) EndFrame() {
	p.Clicked = false
}

// Over reports whether the pointer is inside r.
func (p *Pointer) Over(r Rect) bool {
	return r.Contains(p.X, p.Y)
}

// take reports a fresh press inside r and consumes the latched click.
func (p *Pointer) take(r Rect) bool {
	if !p.Over(r) || !(p.Pressed || p.Clicked) {
		return false
	}
	p.Clicked = false
	return true
}

// Rect is an axis-aligned rectangle in window points, origin top-left.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether (x, y) lies inside r, right and bottom edges
// excluded.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float32) Rect {
	return Rect{r.X + d, r.Y + d, max(0, r.W-2*d), max(0, r.H-2*d)}
}

// Left returns the leftmost fraction f of r, f clamped to [0, 1].
func (r Rect) Left(f float32) Rect {
	f = max(0, min(1, f))
	return Rect{r.X, r.Y, r.W * f, r.H}
}
