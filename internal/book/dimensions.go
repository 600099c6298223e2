package book

// Scale converts physical millimetres into model units (100 mm = 1 unit).
const Scale = 100.0

const (
	// CoverThickness is the board thickness of each cover and of the spine, in units.
	CoverThickness = 0.05
	// PageInset is how far the page block sits inside the cover edges (the "squares").
	PageInset = 0.02
	// MinPageBlockThickness keeps the page block a visible slab for very thin spines.
	MinPageBlockThickness = 0.01
)

// Dimensions is the model-space geometry derived from a Spec.
type Dimensions struct {
	Width  float64
	Height float64
	Spine  float64

	CoverThickness     float64
	PageInset          float64
	PageBlockThickness float64
}

// Normalize converts millimetre measurements into model units and derives the
// page block. It is total over positive inputs and has no side effects.
func Normalize(widthMm, heightMm, spineMm float64) Dimensions {
	spine := spineMm / Scale
	return Dimensions{
		Width:              widthMm / Scale,
		Height:             heightMm / Scale,
		Spine:              spine,
		CoverThickness:     CoverThickness,
		PageInset:          PageInset,
		PageBlockThickness: max(MinPageBlockThickness, spine-2*CoverThickness),
	}
}

// TotalWidth is the unfolded width of the wrap: front + spine + back.
func (d Dimensions) TotalWidth() float64 {
	return 2*d.Width + d.Spine
}

// PageBlockSize returns the page block box extents.
func (d Dimensions) PageBlockSize() Vec {
	return Vec{
		X: d.Width - 2*d.PageInset,
		Y: d.Height - 2*d.PageInset,
		Z: d.PageBlockThickness,
	}
}
