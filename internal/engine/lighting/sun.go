// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/bookmock/pkg/math"
)

// Sun is a directional light described by compass angles.
type Sun struct {
	Azimuth   float64 // Rotation around Y in degrees, 0 = +Z
	Elevation float64 // Degrees above the horizon
	Ambient   float32 // Ambient term, 0-1
	Diffuse   float32 // Diffuse term, 0-1
}

// DefaultSun lights the book from the upper front right.
func DefaultSun() Sun {
	return Sun{Azimuth: 35, Elevation: 50, Ambient: 0.45, Diffuse: 0.65}
}

// Direction returns the normalized vector pointing towards the sun.
func (s Sun) Direction() math.Vec3 {
	d := SunDirection(s.Azimuth, s.Elevation)
	return math.Vec3{X: d[0], Y: d[1], Z: d[2]}
}

// SunDirection converts azimuth/elevation angles to a light direction vector.
// Azimuth is rotation around Y axis (0-360), elevation is angle from horizon (0-90).
// Returns a normalized direction vector pointing towards the sun.
func SunDirection(azimuth, elevation float64) [3]float32 {
	azRad := azimuth * gomath.Pi / 180.0
	elRad := elevation * gomath.Pi / 180.0

	x := float32(gomath.Cos(elRad) * gomath.Sin(azRad))
	y := float32(gomath.Sin(elRad))
	z := float32(gomath.Cos(elRad) * gomath.Cos(azRad))

	return [3]float32{x, y, z}
}
