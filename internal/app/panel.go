package app

import (
	"fmt"
	"image/color"
	gomath "math"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/internal/engine/input"
	"github.com/Faultbox/bookmock/internal/engine/ui2d"
)

// Panel geometry in window points.
const (
	panelID     = "controls"
	panelWidth  = 240
	panelHeight = 448
	panelMargin = 12
)

var panelDimensions = []Dimension{DimWidth, DimHeight, DimSpine}

// panel is the on-screen control surface. It edits the same Controls the
// keyboard does.
type panel struct {
	ui      *ui2d.Context
	visible bool
	// The overlay took the current left press.
	owned bool
}

func newPanel(width, height int) (*panel, error) {
	ui, err := ui2d.NewContext(width, height)
	if err != nil {
		return nil, fmt.Errorf("create overlay: %w", err)
	}
	return &panel{ui: ui, visible: true}, nil
}

func (p *panel) close() {
	p.ui.Close()
}

func (p *panel) resize(width, height int) {
	p.ui.Resize(width, height)
}

func (p *panel) toggle() {
	p.visible = !p.visible
	p.ui.SetWindowOpen(panelID, p.visible)
}

// feed mirrors a pointer event into the overlay and reports whether the
// overlay consumed it.
func (p *panel) feed(e input.Event) bool {
	ptr := p.ui.Pointer()
	x, y := float32(e.MouseX), float32(e.MouseY)

	switch e.Type {
	case input.EventMouseMove:
		ptr.X, ptr.Y = x, y
		return p.owned
	case input.EventMouseDown:
		ptr.X, ptr.Y = x, y
		if !p.visible || !p.ui.WantsMouse(x, y) {
			return false
		}
		if e.Button == sdl.BUTTON_LEFT {
			ptr.Down = true
			ptr.Clicked = true
			p.owned = true
		}
		return true
	case input.EventMouseUp:
		ptr.X, ptr.Y = x, y
		if e.Button != sdl.BUTTON_LEFT || !p.owned {
			return false
		}
		ptr.Down = false
		p.owned = false
		return true
	case input.EventMouseWheel:
		return p.visible && p.ui.WantsMouse(ptr.X, ptr.Y)
	}
	return false
}

// draw lays out the panel for this frame and applies any edits to a.
func (p *panel) draw(a *App) {
	if !p.visible {
		return
	}
	ui := p.ui
	c := a.controls
	spec := c.Spec()

	ui.SetTheme(panelTheme(spec))
	ui.Begin()
	defer ui.End()

	w, _ := ui.ScreenSize()
	r := ui2d.Rect{X: w - panelWidth - panelMargin, Y: panelMargin, W: panelWidth, H: panelHeight}
	if !ui.BeginWindow(panelID, r, "Book") {
		return
	}
	defer ui.EndWindow()

	for _, d := range panelDimensions {
		ui.Row(16)
		ui.Label(fmt.Sprintf("%-7s %4.0f mm", d, c.Dimension(d)))
		ui.Row(18)
		lo, hi := d.Range()
		if v, ok := ui.Slider("dim_"+d.String(), 0, c.Dimension(d), lo, hi, DimensionStepMm); ok {
			c.SetDimension(d, v)
		}
	}

	ui.Row(16)
	ui.Label(fmt.Sprintf("Open    %4.2f", spec.OpenRatio))
	ui.Row(18)
	if v, ok := ui.Slider("open", 0, spec.OpenRatio, 0, 1, OpenStep); ok {
		c.SetOpen(v)
	}
	ui.Row(10)
	ui.ProgressBar(hingeOpenness(a.book.Hinge()), 0, 6, "")

	ui.Row(20)
	if ui.Checkbox("pages", "Pages", spec.ShowPages) != spec.ShowPages {
		c.TogglePages()
	}

	ui.Row(24)
	if ui.Button("binding", 0, "Binding: "+spec.Binding.String()) {
		c.ToggleBinding()
	}

	ui.Row(20)
	for i, col := range Palette {
		if ui.Swatch(fmt.Sprintf("colour_%d", i), 20, overlayColor(col), i == c.ColorIndex()) {
			c.SetColor(i)
		}
	}

	ui.Row(24)
	half := float32(panelWidth-16-4) / 2
	if ui.Button("cover", half, "Cover...") {
		a.covers.OpenDialog()
	}
	if book.IsBlank(spec.Cover) {
		ui.ButtonDisabled(half, "Clear")
	} else if ui.Button("clear", half, "Clear") {
		a.clearCover()
	}

	ui.Separator()
	dim := ui.Theme().TextDim
	ui.Row(14)
	ui.LabelColored("drag rotate  wheel zoom", dim)
	ui.Row(14)
	ui.LabelColored("space open  H hide  F12 shot", dim)
	ui.Row(14)
	ui.LabelColored("M mute  ctrl+S save", dim)
}

// hingeOpenness is how far the front cover has travelled from shut (0)
// to flat (1).
func hingeOpenness(h book.HingeState) float32 {
	closed := book.SideFront.ClosedAngle()
	if closed == 0 {
		return 1
	}
	f := 1 - h.Front/closed
	return float32(gomath.Max(0, gomath.Min(1, f)))
}

// panelTheme accents the panel with the cover colour and writes in the
// page paper tone.
func panelTheme(s book.Spec) ui2d.Theme {
	return ui2d.NewTheme(overlayColor(s.CoverColor), overlayColor(book.PaperWhite))
}

func overlayColor(c color.RGBA) ui2d.Color {
	return ui2d.RGBA(c.R, c.G, c.B, c.A)
}
