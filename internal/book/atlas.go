package book

import (
	"image"
)

// Panel identifies one of the three outer surfaces sharing the cover image.
type Panel int

const (
	PanelFront Panel = iota
	PanelSpine
	PanelBack
)

// Panels lists the panels in atlas order, left to right.
var Panels = [3]Panel{PanelFront, PanelSpine, PanelBack}

func (p Panel) String() string {
	switch p {
	case PanelFront:
		return "front"
	case PanelSpine:
		return "spine"
	case PanelBack:
		return "back"
	}
	return "unknown"
}

// UVTransform is the horizontal slice of the atlas drawn by one panel.
// A face coordinate u in [0,1] samples the image at OffsetX + u*RepeatX.
type UVTransform struct {
	OffsetX float64
	RepeatX float64
}

// Apply maps a face UV into atlas space. V is left untouched.
func (t UVTransform) Apply(u, v float64) (float64, float64) {
	return t.OffsetX + u*t.RepeatX, v
}

// TextureMap holds one UVTransform per panel, indexed by Panel.
type TextureMap [3]UVTransform

// MapAtlas proportions the image across [front | spine | back] by physical width.
func MapAtlas(width, spine float64) TextureMap {
	total := 2*width + spine
	return TextureMap{
		PanelFront: {OffsetX: 0, RepeatX: width / total},
		PanelSpine: {OffsetX: width / total, RepeatX: spine / total},
		PanelBack:  {OffsetX: (width + spine) / total, RepeatX: width / total},
	}
}

// Placeholder is the 1x1 transparent image hosts pass when nothing was uploaded.
var Placeholder image.Image = image.NewNRGBA(image.Rect(0, 0, 1, 1))

// IsBlank reports whether img stands for "no cover image".
func IsBlank(img image.Image) bool {
	if img == nil || img == Placeholder {
		return true
	}
	b := img.Bounds()
	if b.Dx() != 1 || b.Dy() != 1 {
		return false
	}
	_, _, _, a := img.At(b.Min.X, b.Min.Y).RGBA()
	return a == 0
}

// TextureView is one panel's window onto the shared cover image.
// Views hold the image by reference; pixels are never copied.
type TextureView struct {
	Panel Panel
	Image image.Image
	UVTransform
}

// TextureViews is the per-panel view set. A nil *TextureViews means the book
// is drawn in flat colour.
type TextureViews [3]TextureView

// NewTextureViews builds three independent views over cover. It returns nil
// when cover is blank, in which case mapping is skipped entirely.
func NewTextureViews(cover image.Image, tm TextureMap) *TextureViews {
	if IsBlank(cover) {
		return nil
	}
	var views TextureViews
	for _, p := range Panels {
		views[p] = TextureView{Panel: p, Image: cover, UVTransform: tm[p]}
	}
	return &views
}

// View returns the view for p, or nil when the book has no cover image.
func (tv *TextureViews) View(p Panel) *TextureView {
	if tv == nil {
		return nil
	}
	return &tv[p]
}
