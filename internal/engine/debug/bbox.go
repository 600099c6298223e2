package debug

import "github.com/Faultbox/bookmock/pkg/math"

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding keeps the outline off the book's surface, in model units.
const DefaultBBoxPadding = 0.01

// BoundsWireframe creates GL_LINES vertices outlining the box lo-hi grown by
// padding on every side. Format: [x, y, z] per vertex.
func BoundsWireframe(lo, hi math.Vec3, padding float32) []float32 {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	lo, hi = lo.Min(hi).Sub(pad), hi.Max(lo).Add(pad)

	corner := func(i int) [3]float32 {
		c := lo
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		return c.Array()
	}

	// Corners differing in exactly one bit share an edge.
	out := make([]float32, 0, BBoxWireframeVertexCount*3)
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit != 0 {
				continue
			}
			a, b := corner(i), corner(i|bit)
			out = append(out, a[0], a[1], a[2], b[0], b[1], b[2])
		}
	}
	return out
}
