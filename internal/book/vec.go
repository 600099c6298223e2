package book

import "github.com/Faultbox/bookmock/pkg/math"

// Vec is a model-space vector in units.
type Vec struct {
	X, Y, Z float64
}

// F32 converts to the renderer vector type.
func (v Vec) F32() math.Vec3 {
	return math.V3(v.X, v.Y, v.Z)
}
