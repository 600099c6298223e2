package book

import (
	"go.uber.org/zap"

	"github.com/Faultbox/bookmock/internal/logger"
)

// Option configures a Book.
type Option func(*Book)

// WithHingeSpeed overrides DefaultHingeSpeed. Non-positive speeds are ignored.
func WithHingeSpeed(speed float64) Option {
	return func(b *Book) {
		if speed > 0 {
			b.animator.Speed = speed
		}
	}
}

// Book owns the derived state of one rendered book. Geometry is rebuilt
// whenever the spec changes; the hinge state persists across frames and is
// only advanced by Tick. A Book is not safe for concurrent use; it belongs to
// the render loop.
type Book struct {
	spec     Spec
	dims     Dimensions
	atlas    TextureMap
	views    *TextureViews
	assembly *Assembly

	hinge    HingeState
	animator Animator

	rebuilds int
	log      *zap.Logger
}

// New builds the assembly for spec with both covers closed.
func New(spec Spec, opts ...Option) *Book {
	b := &Book{
		spec:     spec,
		hinge:    ClosedHinge(),
		animator: Animator{Speed: DefaultHingeSpeed},
		log:      logger.Named("book"),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.rebuild()
	return b
}

func (b *Book) rebuild() {
	b.spec.Cover = comparableCover(b.spec.Cover)
	b.dims = b.spec.Dimensions()
	b.atlas = MapAtlas(b.dims.Width, b.dims.Spine)
	b.views = NewTextureViews(b.spec.Cover, b.atlas)
	b.assembly = Build(b.spec, b.dims, b.views)
	b.rebuilds++

	b.log.Debug("assembly rebuilt",
		zap.Float64("width", b.dims.Width),
		zap.Float64("height", b.dims.Height),
		zap.Float64("spine", b.dims.Spine),
		zap.Float64("page_block", b.dims.PageBlockThickness),
		zap.Stringer("binding", b.spec.Binding),
		zap.Bool("pages", b.spec.ShowPages),
		zap.Bool("textured", b.views != nil),
	)
}

// Apply installs a new spec. Geometry is rebuilt only when something other
// than the open ratio changed; it reports whether a rebuild happened.
func (b *Book) Apply(spec Spec) bool {
	if spec.SameGeometry(b.spec) {
		b.spec.OpenRatio = spec.OpenRatio
		return false
	}
	b.spec = spec
	b.rebuild()
	return true
}

// Tick eases the covers toward the current open ratio by dt seconds.
func (b *Book) Tick(dt float64) {
	b.hinge = b.animator.Step(b.hinge, b.Target(), dt)
}

// Frame applies spec and then ticks, so hinge targets never lag the spec.
func (b *Book) Frame(spec Spec, dt float64) {
	b.Apply(spec)
	b.Tick(dt)
}

// Spec returns the spec currently in effect.
func (b *Book) Spec() Spec { return b.spec }

// Dimensions returns the normalized geometry.
func (b *Book) Dimensions() Dimensions { return b.dims }

// TextureMap returns the atlas slices of the current dimensions.
func (b *Book) TextureMap() TextureMap { return b.atlas }

// Views returns the per-panel texture views, or nil for a flat-coloured book.
func (b *Book) Views() *TextureViews { return b.views }

// Assembly returns the current geometry graph.
func (b *Book) Assembly() *Assembly { return b.assembly }

// Hinge returns the current cover angles.
func (b *Book) Hinge() HingeState { return b.hinge }

// Target returns the angles implied by the current open ratio.
func (b *Book) Target() HingeState { return TargetHinge(b.spec.OpenRatio) }

// Rebuilds counts assembly rebuilds since New, including the first.
func (b *Book) Rebuilds() int { return b.rebuilds }

// Parts places the assembly at the current hinge state.
func (b *Book) Parts() []Part {
	return b.assembly.Parts(b.hinge)
}
