// Package picking provides ray casting against the book's parts.
package picking

import (
	gomath "math"

	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    [3]float32
	Direction [3]float32 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return Ray{Origin: near.Array(), Direction: far.Sub(near).Normalize().Array()}
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	if w[3] != 0 {
		return math.Vec3{X: w[0] / w[3], Y: w[1] / w[3], Z: w[2] / w[3]}
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// Transform moves the ray by m. The direction is renormalized, so distances
// along the result are in the target frame's units.
func (r Ray) Transform(m math.Mat4) Ray {
	d := m.TransformDirection(r.Direction)
	return Ray{
		Origin:    m.TransformPoint(r.Origin),
		Direction: math.Vec3{X: d[0], Y: d[1], Z: d[2]}.Normalize().Array(),
	}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) [3]float32 {
	return [3]float32{
		r.Origin[0] + t*r.Direction[0],
		r.Origin[1] + t*r.Direction[1],
		r.Origin[2] + t*r.Direction[2],
	}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// CenteredAABB returns the box of the given size centred at the origin.
func CenteredAABB(size book.Vec) AABB {
	h := size.F32().Scale(0.5)
	return AABB{Min: h.Neg().Array(), Max: h.Array()}
}

// Hit is the nearest part under a ray.
type Hit struct {
	Part     book.Part
	Distance float32 // World units along the ray
	Point    [3]float32
}

// PickPart returns the closest part the ray hits. Each part is tested in
// its own frame, so rotated covers pick exactly.
func PickPart(r Ray, parts []book.Part) (Hit, bool) {
	var best Hit
	found := false
	for _, p := range parts {
		local := r.Transform(p.World.Inverse())
		t, ok := local.IntersectAABB(CenteredAABB(p.Size))
		if !ok {
			continue
		}
		world := p.World.TransformPoint(local.At(t))
		dist := math.Vec3{X: world[0], Y: world[1], Z: world[2]}.
			Sub(math.Vec3{X: r.Origin[0], Y: r.Origin[1], Z: r.Origin[2]}).Length()
		if !found || dist < best.Distance {
			best = Hit{Part: p, Distance: dist, Point: world}
			found = true
		}
	}
	return best, found
}
