package app

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/pkg/math"
)

// Control surface steps.
const (
	DimensionStepMm = 1.0
	OpenStep        = 0.01
	// CoarseFactor multiplies a step while shift is held.
	CoarseFactor = 10
)

// Dimension selects the measurement a nudge edits.
type Dimension int

const (
	DimWidth Dimension = iota
	DimHeight
	DimSpine
)

func (d Dimension) String() string {
	switch d {
	case DimWidth:
		return "Width"
	case DimHeight:
		return "Height"
	default:
		return "Spine"
	}
}

// Range is the clamp range of d in millimetres.
func (d Dimension) Range() (lo, hi float64) {
	switch d {
	case DimWidth:
		return book.MinWidthMm, book.MaxWidthMm
	case DimHeight:
		return book.MinHeightMm, book.MaxHeightMm
	default:
		return book.MinSpineMm, book.MaxSpineMm
	}
}

// Palette is the set of cover colours C cycles through.
var Palette = []color.RGBA{
	book.DefaultCoverColor,
	{R: 0x8b, G: 0x1e, B: 0x3f, A: 0xff},
	{R: 0x1e, G: 0x3a, B: 0x8b, A: 0xff},
	{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff},
	{R: 0xc4, G: 0x9a, B: 0x2c, A: 0xff},
	{R: 0x22, G: 0x22, B: 0x22, A: 0xff},
}

// Controls holds the parameter tuple the viewer hands the book each frame.
// Every edit leaves the spec clamped to the control ranges.
type Controls struct {
	spec   book.Spec
	colour int
}

// NewControls starts from spec, clamped.
func NewControls(spec book.Spec) *Controls {
	c := &Controls{spec: spec.Clamp()}
	c.colour = -1
	for i, p := range Palette {
		if p == c.spec.CoverColor {
			c.colour = i
			break
		}
	}
	return c
}

// Spec returns the current tuple.
func (c *Controls) Spec() book.Spec {
	return c.spec
}

// Nudge moves one measurement by steps millimetres.
func (c *Controls) Nudge(d Dimension, steps float64) {
	delta := steps * DimensionStepMm
	switch d {
	case DimWidth:
		c.spec.WidthMm += delta
	case DimHeight:
		c.spec.HeightMm += delta
	case DimSpine:
		c.spec.SpineMm += delta
	}
	c.spec = c.spec.Clamp()
}

// Dimension returns the current value of d in millimetres.
func (c *Controls) Dimension(d Dimension) float64 {
	switch d {
	case DimWidth:
		return c.spec.WidthMm
	case DimHeight:
		return c.spec.HeightMm
	default:
		return c.spec.SpineMm
	}
}

// SetDimension sets d to mm, clamped to its range.
func (c *Controls) SetDimension(d Dimension, mm float64) {
	c.Nudge(d, (mm-c.Dimension(d))/DimensionStepMm)
}

// NudgeOpen moves the open ratio by steps of OpenStep, staying on the grid.
func (c *Controls) NudgeOpen(steps float64) {
	c.SetOpen(c.spec.OpenRatio + steps*OpenStep)
}

// SetOpen sets the open ratio, snapped to OpenStep.
func (c *Controls) SetOpen(ratio float64) {
	c.spec.OpenRatio = math.Snap(ratio, OpenStep)
	c.spec = c.spec.Clamp()
}

// ToggleOpen closes a mostly open book and opens a mostly closed one.
func (c *Controls) ToggleOpen() {
	if c.spec.OpenRatio > 0.5 {
		c.spec.OpenRatio = 0
	} else {
		c.spec.OpenRatio = 1
	}
}

// TogglePages shows or hides the page block.
func (c *Controls) TogglePages() {
	c.spec.ShowPages = !c.spec.ShowPages
}

// ToggleBinding switches between swiss and classic.
func (c *Controls) ToggleBinding() {
	c.spec.Binding = c.spec.Binding.Toggle()
}

// CycleColor advances to the next palette colour and returns it.
func (c *Controls) CycleColor() color.RGBA {
	c.colour = (c.colour + 1) % len(Palette)
	c.spec.CoverColor = Palette[c.colour]
	return c.spec.CoverColor
}

// SetColor picks palette entry i. Out of range indexes are ignored.
func (c *Controls) SetColor(i int) {
	if i < 0 || i >= len(Palette) {
		return
	}
	c.colour = i
	c.spec.CoverColor = Palette[i]
}

// ColorIndex is the palette entry in use, or -1 for a custom colour.
func (c *Controls) ColorIndex() int {
	return c.colour
}

// SetCover replaces the cover image; nil returns to flat colour.
func (c *Controls) SetCover(img image.Image) {
	c.spec.Cover = img
}

// Status is the one-line summary shown in the title bar.
func (c *Controls) Status() string {
	s := c.spec
	pages := "no pages"
	if s.ShowPages {
		pages = "pages"
	}
	cover := book.HexColor(s.CoverColor)
	if !book.IsBlank(s.Cover) {
		cover = "image"
	}
	return fmt.Sprintf("bookmock  %.0f x %.0f x %.0f mm  open %.2f  %s  %s  %s",
		s.WidthMm, s.HeightMm, s.SpineMm, s.OpenRatio, s.Binding, pages, cover)
}
