// Package camera provides the orbit camera used to inspect the book.
package camera

import (
	gomath "math"

	"github.com/Faultbox/bookmock/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians), 0 looks from +Z

	// Lens
	FovY      float32 // Vertical field of view, degrees
	NearPlane float32
	FarPlane  float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a camera at (0, 2, 8) looking at the origin with a
// 45 degree lens, the framing a 150 x 220 mm book reads well in.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        float32(gomath.Hypot(2, 8)),
		RotationX:       float32(gomath.Atan2(2, 8)),
		RotationY:       0.0,
		FovY:            45,
		NearPlane:       0.05,
		FarPlane:        200,
		MinDistance:     1.0,
		MaxDistance:     60.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Center returns the orbit center.
func (c *OrbitCamera) Center() math.Vec3 {
	return math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center(), up)
}

// ProjectionMatrix returns the perspective projection for the given aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	fov := float32(float64(c.FovY) * gomath.Pi / 180)
	return math.Perspective(fov, aspect, c.NearPlane, c.FarPlane)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandlePan moves the center in the camera's screen plane.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.002

	yaw := float64(c.RotationY)
	rightX := float32(gomath.Cos(yaw))
	rightZ := float32(-gomath.Sin(yaw))

	c.CenterX -= rightX * deltaX * speed
	c.CenterZ -= rightZ * deltaX * speed
	c.CenterY += deltaY * speed
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(x, y, z float32) {
	c.CenterX = x
	c.CenterY = y
	c.CenterZ = z
}

// FitToBounds centers on the box and backs off until its bounding sphere
// fills the vertical field of view. Orientation is kept.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	c.SetCenter((lo.X+hi.X)/2, (lo.Y+hi.Y)/2, (lo.Z+hi.Z)/2)

	radius := float64(hi.Sub(lo).Length()) / 2
	half := float64(c.FovY) * gomath.Pi / 360
	dist := float32(radius / gomath.Sin(half) * 1.1)

	c.Distance = max(c.MinDistance, min(c.MaxDistance, dist))
}
