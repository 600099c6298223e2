package ui2d

import (
	"image"
	"testing"

	"golang.org/x/image/font/basicfont"
)

// newTestContext builds a context whose renderer only batches vertices, so
// widgets can run without a GL context. End must not be called on it.
func newTestContext() *Context {
	f := newFontAtlas(basicfont.Face7x13)
	return &Context{
		renderer: &Renderer{width: 800, height: 600, font: f, batch: newBatch(f.SolidUV())},
		pointer:  &Pointer{},
		theme:    DefaultTheme(),
		windows:  make(map[string]*WindowState),
	}
}

// frame runs one overlay frame with draw between Begin and the end of the
// frame.
func frame(c *Context, draw func()) {
	c.Begin()
	c.BeginWindow("w", Rect{0, 0, 200, 300}, "Test")
	draw()
	c.EndWindow()
	c.pointer.EndFrame()
}

func TestFontAtlas(t *testing.T) {
	f := newFontAtlas(basicfont.Face7x13)

	gw, gh := f.GlyphSize()
	if gw != 7 || gh != 13 {
		t.Fatalf("GlyphSize() = %dx%d, want 7x13", gw, gh)
	}
	if got := f.atlas.Bounds().Size(); got != image.Pt(16*7, 6*13) {
		t.Errorf("atlas size = %v, want %v", got, image.Pt(16*7, 6*13))
	}

	inked := func(col, row int) bool {
		for y := row * gh; y < (row+1)*gh; y++ {
			for x := col * gw; x < (col+1)*gw; x++ {
				if f.atlas.RGBAAt(x, y).A != 0 {
					return true
				}
			}
		}
		return false
	}
	if !inked(f.cell('A')) {
		t.Error("glyph 'A' has no pixels")
	}
	if inked(f.cell(' ')) {
		t.Error("space glyph has pixels")
	}
}

func TestSolidUV(t *testing.T) {
	f := newFontAtlas(basicfont.Face7x13)
	uv := f.SolidUV()
	if uv[0] != uv[2] || uv[1] != uv[3] {
		t.Errorf("SolidUV() = %v, want a single texel", uv)
	}

	b := f.atlas.Bounds()
	x := int(uv[0] * float32(b.Dx()))
	y := int(uv[1] * float32(b.Dy()))
	if c := f.atlas.RGBAAt(x, y); c.A != 0xff || c.R != 0xff {
		t.Errorf("solid texel (%d, %d) = %v, want opaque white", x, y, c)
	}
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		g := f.GlyphUV(r)
		if uv[0] >= g[0] && uv[0] < g[2] && uv[1] >= g[1] && uv[1] < g[3] {
			t.Fatalf("solid texel falls inside glyph %q", r)
		}
	}
}

func TestGlyphUV(t *testing.T) {
	f := newFontAtlas(basicfont.Face7x13)

	sp := f.GlyphUV(' ')
	if sp[0] != 0 || sp[1] != 0 {
		t.Errorf("space starts at (%v, %v), want (0, 0)", sp[0], sp[1])
	}
	if sp[2] <= sp[0] || sp[3] <= sp[1] {
		t.Errorf("space UV is empty: %v", sp)
	}

	for _, r := range []rune{'A', 'z', '~'} {
		uv := f.GlyphUV(r)
		if uv[0] < 0 || uv[1] < 0 || uv[2] > 1 || uv[3] > 1 {
			t.Errorf("GlyphUV(%q) out of range: %v", r, uv)
		}
	}

	if f.GlyphUV('?') != f.GlyphUV('é') {
		t.Error("non-ASCII rune should fall back to '?'")
	}
}

func TestMeasureText(t *testing.T) {
	f := newFontAtlas(basicfont.Face7x13)

	tests := []struct {
		text string
		w, h float32
	}{
		{"", 0, 0},
		{"abc", 21, 13},
		{"ab\nabcd", 28, 26},
	}
	for _, tt := range tests {
		w, h := f.MeasureText(tt.text)
		if w != tt.w || h != tt.h {
			t.Errorf("MeasureText(%q) = %v, %v, want %v, %v", tt.text, w, h, tt.w, tt.h)
		}
	}
}

func TestBatch(t *testing.T) {
	solid := [4]float32{0.5, 0.5, 0.5, 0.5}
	b := newBatch(solid)
	red := Color{1, 0, 0, 1}

	b.fill(Rect{10, 20, 30, 40}, red)
	if got := b.vertexCount(); got != 6 {
		t.Fatalf("fill queued %d vertices, want 6", got)
	}
	// Second vertex is the top-right corner.
	v := b.verts[vertexFloats : 2*vertexFloats]
	if v[0] != 40 || v[1] != 20 || v[2] != 0.5 || v[4] != 1 || v[7] != 1 {
		t.Errorf("top-right vertex = %v", v)
	}

	b.fill(Rect{0, 0, 0, 10}, red)
	if got := b.vertexCount(); got != 6 {
		t.Errorf("empty rect queued vertices, count = %d", got)
	}

	b.reset()
	b.outline(Rect{0, 0, 10, 10}, 1, red)
	if got := b.vertexCount(); got != 24 {
		t.Errorf("outline queued %d vertices, want 24", got)
	}
}

func TestTextQueuesGlyphs(t *testing.T) {
	c := newTestContext()
	c.renderer.Text(0, 0, "ab\nc", Color{1, 1, 1, 1})
	if got := c.renderer.batch.vertexCount(); got != 18 {
		t.Errorf("queued %d vertices for three glyphs, want 18", got)
	}
}

func TestNewTheme(t *testing.T) {
	paper := Color{0.99, 0.99, 0.99, 1}

	tests := []struct {
		name   string
		accent Color
	}{
		{"white cover", Color{1, 1, 1, 1}},
		{"navy cover", RGBA(0x1f, 0x2a, 0x44, 0xff)},
		{"black cover", Color{0, 0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := NewTheme(tt.accent, paper)
			if th.Accent.Luminance() < minAccentLuminance {
				t.Errorf("accent luminance %v below %v", th.Accent.Luminance(), minAccentLuminance)
			}
			if th.Accent.A != 1 || th.Border.A != 1 {
				t.Error("accent and border should be opaque")
			}
			if th.Text != paper {
				t.Errorf("Text = %v, want the paper tone", th.Text)
			}
			if th.TextDim.Luminance() >= th.Text.Luminance() {
				t.Error("TextDim should be darker than Text")
			}
			if th.Panel != panelBase {
				t.Errorf("Panel = %v, want %v", th.Panel, panelBase)
			}
		})
	}

	// A bright accent is kept as is.
	gold := Color{0.9, 0.7, 0.2, 1}
	if got := NewTheme(gold, paper).Accent; got != gold {
		t.Errorf("Accent = %v, want %v", got, gold)
	}
}

func TestColorHelpers(t *testing.T) {
	c := RGBA(255, 0, 51, 255)
	if c.R != 1 || c.G != 0 || c.B != 0.2 || c.A != 1 {
		t.Errorf("RGBA() = %+v", c)
	}
	if got := c.WithAlpha(0.5).A; got != 0.5 {
		t.Errorf("WithAlpha alpha = %v", got)
	}
	if got := (Color{1, 1, 1, 1}).Darken(0.25); got.R != 0.75 || got.A != 1 {
		t.Errorf("Darken() = %+v", got)
	}
	if got := (Color{0, 0, 0, 1}).Lighten(0.5); got.G != 0.5 {
		t.Errorf("Lighten() = %+v", got)
	}
	if got := (Color{0, 0, 0, 0}).Mix(Color{1, 1, 1, 1}, 0.5); got != (Color{0.5, 0.5, 0.5, 0.5}) {
		t.Errorf("Mix() = %+v", got)
	}
}

func TestPointerEdges(t *testing.T) {
	var p Pointer

	p.X, p.Y = 10, 20
	p.Down = true
	p.Update()
	if !p.Pressed || p.Released {
		t.Errorf("after press: pressed=%v released=%v", p.Pressed, p.Released)
	}
	if p.DX != 10 || p.DY != 20 {
		t.Errorf("delta = %v, %v, want 10, 20", p.DX, p.DY)
	}

	p.Update()
	if p.Pressed {
		t.Error("held button reported as pressed again")
	}

	p.Down = false
	p.Update()
	if !p.Released {
		t.Error("release not detected")
	}

	p.Clicked = true
	p.EndFrame()
	if p.Clicked {
		t.Error("EndFrame kept the click")
	}
}

func TestPointerTakeConsumesClick(t *testing.T) {
	p := Pointer{X: 5, Y: 5, Clicked: true}
	r := Rect{0, 0, 10, 10}

	if !p.take(r) {
		t.Fatal("click inside the rect not taken")
	}
	if p.take(r) {
		t.Error("the same click was taken twice")
	}

	p.Clicked = true
	if p.take(Rect{20, 20, 10, 10}) {
		t.Error("click outside the rect taken")
	}
	if !p.Clicked {
		t.Error("a miss consumed the click")
	}
}

func TestRect(t *testing.T) {
	r := Rect{10, 10, 20, 20}
	tests := []struct {
		x, y float32
		want bool
	}{
		{10, 10, true},
		{29.9, 29.9, true},
		{30, 20, false},
		{5, 15, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	if got := r.Inset(2); got != (Rect{12, 12, 16, 16}) {
		t.Errorf("Inset(2) = %v", got)
	}
	if got := r.Inset(15); got.W != 0 || got.H != 0 {
		t.Errorf("Inset past the centre = %v, want empty", got)
	}
	if got := r.Left(0.25); got != (Rect{10, 10, 5, 20}) {
		t.Errorf("Left(0.25) = %v", got)
	}
	if got := r.Left(2); got.W != 20 {
		t.Errorf("Left(2) width = %v, want clamped to 20", got.W)
	}
}

func TestSliderValue(t *testing.T) {
	tests := []struct {
		name     string
		pointerX float32
		lo, hi   float64
		step     float64
		want     float64
	}{
		{"left edge", 100, 0, 1, 0, 0},
		{"right edge", 300, 0, 1, 0, 1},
		{"middle", 200, 0, 1, 0, 0.5},
		{"left of track clamps", 50, 5, 100, 1, 5},
		{"right of track clamps", 400, 5, 100, 1, 100},
		{"snaps to step", 201, 100, 300, 10, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SliderValue(tt.pointerX, 100, 200, tt.lo, tt.hi, tt.step)
			if got != tt.want {
				t.Errorf("SliderValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSliderFraction(t *testing.T) {
	tests := []struct {
		value, lo, hi float64
		want          float32
	}{
		{0.25, 0, 1, 0.25},
		{150, 100, 200, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{1, 1, 1, 0},
	}
	for _, tt := range tests {
		if got := SliderFraction(tt.value, tt.lo, tt.hi); got != tt.want {
			t.Errorf("SliderFraction(%v, %v, %v) = %v, want %v", tt.value, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestSliderDrag(t *testing.T) {
	c := newTestContext()
	p := c.Pointer()
	value := 0.0

	// Row layout puts the slider at x 8..192 below the title bar.
	slide := func() (changed bool) {
		frame(c, func() {
			c.Row(20)
			value, changed = c.Slider("s", 0, value, 0, 1, 0.01)
		})
		return changed
	}

	slide()
	p.X, p.Y = 100, 40
	p.Down, p.Clicked = true, true
	if !slide() {
		t.Fatal("press on the track did not change the value")
	}
	if value < 0.45 || value > 0.55 {
		t.Errorf("value = %v, want about 0.5", value)
	}
	if !c.WantsMouse(700, 500) {
		t.Error("overlay should hold the pointer while dragging")
	}

	// Dragging past the end clamps even outside the window.
	p.X, p.Y = 600, 300
	slide()
	if value != 1 {
		t.Errorf("value = %v, want 1", value)
	}

	p.Down = false
	slide()
	if c.WantsMouse(700, 500) {
		t.Error("overlay kept the pointer after release")
	}
}

func TestButtonAndCheckbox(t *testing.T) {
	c := newTestContext()
	p := c.Pointer()
	checked := false
	var clicked bool

	draw := func() {
		frame(c, func() {
			c.Row(24)
			clicked = c.Button("b", 0, "Go")
			c.Row(20)
			checked = c.Checkbox("c", "Pages", checked)
		})
	}

	draw()
	if clicked || checked {
		t.Fatal("widgets fired without a click")
	}

	// Button row spans y 36..60.
	p.X, p.Y, p.Down, p.Clicked = 50, 45, true, true
	draw()
	if !clicked || checked {
		t.Errorf("button click: clicked=%v checked=%v", clicked, checked)
	}

	p.Down = false
	draw()
	// Checkbox row starts at y 64; the label is part of the target.
	p.X, p.Y, p.Down, p.Clicked = 40, 70, true, true
	draw()
	if clicked || !checked {
		t.Errorf("checkbox click: clicked=%v checked=%v", clicked, checked)
	}
}

func TestWindowDragSticks(t *testing.T) {
	c := newTestContext()
	p := c.Pointer()
	at := Rect{0, 0, 200, 300}

	step := func() {
		c.Begin()
		c.BeginWindow("w", at, "Test")
		c.EndWindow()
		c.pointer.EndFrame()
	}

	p.X, p.Y = 10, 10
	step()
	p.Down = true
	step()
	p.X, p.Y = 60, 30
	step()
	p.Down = false
	step()

	got := c.windows["w"].Rect
	if got.X != 50 || got.Y != 20 {
		t.Fatalf("window at %v, want moved by (50, 20)", got)
	}

	// Later placements no longer override a dragged window.
	at = Rect{500, 500, 200, 300}
	step()
	if c.windows["w"].Rect.X != 50 {
		t.Error("dragged window snapped back to its anchor")
	}

	c.SetWindowOpen("w", false)
	if c.BeginWindow("w", at, "Test") {
		t.Error("hidden window reported open")
	}
	if c.WantsMouse(60, 30) {
		t.Error("hidden window still wants the mouse")
	}
}
