package shadow

import (
	gomath "math"

	"github.com/Faultbox/bookmock/pkg/math"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the center point of the AABB.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Radius returns the distance from center to corner (half-diagonal).
func (b AABB) Radius() float32 {
	return b.Max.Sub(b.Min).Length() / 2
}

// LightMatrix computes the view-projection of a directional light that
// sees all of bounds. lightDir points towards the light.
func LightMatrix(lightDir math.Vec3, bounds AABB) math.Mat4 {
	center := bounds.Center()
	radius := max(bounds.Radius(), 1e-3)
	dir := lightDir.Normalize()

	// Position light far enough to encompass the whole book
	lightDistance := radius * 2
	lightPos := center.Add(dir.Scale(lightDistance))

	// Choose an up vector not parallel with the light
	up := math.Vec3{Y: 1}
	if gomath.Abs(float64(dir.Y)) > 0.99 {
		up = math.Vec3{Z: 1}
	}
	view := math.LookAt(lightPos, center, up)

	// Padding keeps the silhouette off the map border
	halfSize := radius * 1.1
	near := lightDistance - halfSize
	far := lightDistance + halfSize
	proj := math.Ortho(-halfSize, halfSize, -halfSize, halfSize, near, far)

	return proj.Mul(view)
}
