// Package book models a parametric hardcover book: physical dimensions become
// a hinged box assembly, one cover image is sliced across front, spine and
// back, and the covers ease toward the angle implied by an open ratio.
package book

import (
	"image"
	"image/color"
	"image/draw"
	"reflect"

	"github.com/Faultbox/bookmock/pkg/math"
)

// Control-surface limits, in millimetres.
const (
	MinWidthMm  = 100.0
	MaxWidthMm  = 435.0
	MinHeightMm = 100.0
	MaxHeightMm = 605.0
	MinSpineMm  = 5.0
	MaxSpineMm  = 100.0

	// OpenRatioStep is the resolution of the open slider.
	OpenRatioStep = 0.01
)

// Spec is the parameter tuple a host hands the book each frame.
type Spec struct {
	WidthMm  float64
	HeightMm float64
	SpineMm  float64

	// OpenRatio is 0 for a closed book and 1 for covers lying flat.
	OpenRatio float64
	ShowPages bool
	Binding   Binding

	// Cover is the decoded wrap image laid out [front | spine | back].
	// Nil or Placeholder means flat colour. Covers compare by identity, so
	// the image must be a pointer type such as *image.RGBA.
	Cover      image.Image
	CoverColor color.RGBA
}

// DefaultSpec is a 150 x 220 mm book with a 25 mm spine, closed, pages shown.
func DefaultSpec() Spec {
	return Spec{
		WidthMm:    150,
		HeightMm:   220,
		SpineMm:    25,
		OpenRatio:  0,
		ShowPages:  true,
		Binding:    Classic,
		CoverColor: DefaultCoverColor,
	}
}

// Clamp limits every measurement to the control-surface ranges and snaps
// OpenRatio to OpenRatioStep.
func (s Spec) Clamp() Spec {
	s.WidthMm = math.Clamp(s.WidthMm, MinWidthMm, MaxWidthMm)
	s.HeightMm = math.Clamp(s.HeightMm, MinHeightMm, MaxHeightMm)
	s.SpineMm = math.Clamp(s.SpineMm, MinSpineMm, MaxSpineMm)
	s.OpenRatio = math.Snap(math.Clamp(s.OpenRatio, 0, 1), OpenRatioStep)
	return s
}

// Dimensions normalizes the spec's measurements.
func (s Spec) Dimensions() Dimensions {
	return Normalize(s.WidthMm, s.HeightMm, s.SpineMm)
}

// SameGeometry reports whether s and o build the same assembly. OpenRatio is
// excluded: it only moves the hinge targets.
func (s Spec) SameGeometry(o Spec) bool {
	return s.WidthMm == o.WidthMm &&
		s.HeightMm == o.HeightMm &&
		s.SpineMm == o.SpineMm &&
		s.ShowPages == o.ShowPages &&
		s.Binding == o.Binding &&
		sameCover(s.Cover, o.Cover) &&
		s.CoverColor == o.CoverColor
}

// Equal reports whether every field matches. Covers compare by identity.
func (s Spec) Equal(o Spec) bool {
	return s.SameGeometry(o) && s.OpenRatio == o.OpenRatio
}

// sameCover compares covers by identity. Images of a type that cannot be
// compared never match.
func sameCover(a, b image.Image) bool {
	if a == nil || b == nil {
		return a == b
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}

// comparableCover returns img, or an *image.RGBA copy when img's type
// cannot be compared or used as a map key.
func comparableCover(img image.Image) image.Image {
	if img == nil || reflect.TypeOf(img).Comparable() {
		return img
	}
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}
