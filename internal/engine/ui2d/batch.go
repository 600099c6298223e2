package ui2d

// Each vertex is x, y, u, v, r, g, b, a.
const vertexFloats = 8

// batch collects one frame of overlay quads. Shapes sample the atlas's
// solid cell, so shapes and text go out in a single draw call and keep
// their painter's order.
type batch struct {
	verts []float32
	solid [4]float32
}

func newBatch(solid [4]float32) *batch {
	return &batch{verts: make([]float32, 0, 4096), solid: solid}
}

func (b *batch) reset() {
	b.verts = b.verts[:0]
}

// vertexCount is the number of vertices queued.
func (b *batch) vertexCount() int32 {
	return int32(len(b.verts) / vertexFloats)
}

func (b *batch) quad(r Rect, uv [4]float32, c Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	u0, v0, u1, v1 := uv[0], uv[1], uv[2], uv[3]
	b.verts = append(b.verts,
		x0, y0, u0, v0, c.R, c.G, c.B, c.A,
		x1, y0, u1, v0, c.R, c.G, c.B, c.A,
		x1, y1, u1, v1, c.R, c.G, c.B, c.A,
		x0, y0, u0, v0, c.R, c.G, c.B, c.A,
		x1, y1, u1, v1, c.R, c.G, c.B, c.A,
		x0, y1, u0, v1, c.R, c.G, c.B, c.A,
	)
}

func (b *batch) fill(r Rect, c Color) {
	b.quad(r, b.solid, c)
}

// outline draws a border of thickness t inside r.
func (b *batch) outline(r Rect, t float32, c Color) {
	b.fill(Rect{r.X, r.Y, r.W, t}, c)
	b.fill(Rect{r.X, r.Y + r.H - t, r.W, t}, c)
	b.fill(Rect{r.X, r.Y + t, t, r.H - 2*t}, c)
	b.fill(Rect{r.X + r.W - t, r.Y + t, t, r.H - 2*t}, c)
}
