package ui2d

// Color is a straight-alpha colour with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGBA converts 8-bit components.
func RGBA(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// WithAlpha returns c with alpha a.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Darken moves c toward black by factor.
func (c Color) Darken(factor float32) Color {
	return Color{c.R * (1 - factor), c.G * (1 - factor), c.B * (1 - factor), c.A}
}

// Lighten moves c toward white by factor.
func (c Color) Lighten(factor float32) Color {
	return Color{c.R + (1-c.R)*factor, c.G + (1-c.G)*factor, c.B + (1-c.B)*factor, c.A}
}

// Mix blends c toward o by t, alpha included.
func (c Color) Mix(o Color, t float32) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Luminance is the Rec. 709 relative luminance of c.
func (c Color) Luminance() float32 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// minAccentLuminance keeps the accent readable on the dark panel.
const minAccentLuminance = 0.3

// panelBase is the background every theme is derived from.
var panelBase = Color{0.08, 0.08, 0.11, 0.94}

// Theme is the set of colours widgets draw with.
type Theme struct {
	Panel  Color
	Border Color
	Title  Color

	Button       Color
	ButtonHover  Color
	ButtonActive Color

	// Well is the trough behind sliders, progress bars and checkboxes.
	Well   Color
	Accent Color

	Text    Color
	TextDim Color
}

// NewTheme derives a theme from an accent (the cover colour) and a paper
// tone used for text.
func NewTheme(accent, paper Color) Theme {
	accent = accent.WithAlpha(1)
	for i := 0; i < 4 && accent.Luminance() < minAccentLuminance; i++ {
		accent = accent.Lighten(0.35)
	}
	opaque := panelBase.WithAlpha(1)

	return Theme{
		Panel:        panelBase,
		Border:       opaque.Mix(accent, 0.35),
		Title:        opaque.Mix(accent, 0.15),
		Button:       opaque.Lighten(0.08),
		ButtonHover:  opaque.Mix(accent, 0.3),
		ButtonActive: opaque.Mix(accent, 0.55),
		Well:         opaque.Darken(0.4),
		Accent:       accent,
		Text:         paper.WithAlpha(1),
		TextDim:      paper.WithAlpha(1).Mix(opaque, 0.45),
	}
}

// DefaultTheme is the theme before the host sets one.
func DefaultTheme() Theme {
	return NewTheme(Color{0.2, 0.6, 0.9, 1}, Color{0.9, 0.9, 0.9, 1})
}
