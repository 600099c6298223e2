package shadow

import (
	"testing"

	"github.com/Faultbox/bookmock/pkg/math"
)

func TestAABB(t *testing.T) {
	b := AABB{Min: math.Vec3{X: -1, Y: -2, Z: -2}, Max: math.Vec3{X: 1, Y: 2, Z: 2}}
	if c := b.Center(); c != (math.Vec3{}) {
		t.Errorf("Center() = %v, want origin", c)
	}
	if r := b.Radius(); r != 3 {
		t.Errorf("Radius() = %v, want 3", r)
	}
}

func TestLightMatrixCoversBounds(t *testing.T) {
	// Roughly an open book: wide, tall, thin.
	bounds := AABB{Min: math.Vec3{X: -1.8, Y: -1.1, Z: -0.1}, Max: math.Vec3{X: 1.8, Y: 1.1, Z: 0.15}}
	lights := []math.Vec3{
		{X: 0.3, Y: 0.8, Z: 0.5},
		{Y: 1},
		{X: -1, Y: 0.1},
	}

	for _, dir := range lights {
		m := LightMatrix(dir, bounds)
		for i := range 8 {
			corner := [3]float32{bounds.Min.X, bounds.Min.Y, bounds.Min.Z}
			if i&1 != 0 {
				corner[0] = bounds.Max.X
			}
			if i&2 != 0 {
				corner[1] = bounds.Max.Y
			}
			if i&4 != 0 {
				corner[2] = bounds.Max.Z
			}
			p := m.TransformPoint(corner)
			for axis, v := range p {
				if v < -1 || v > 1 {
					t.Errorf("light %v: corner %v axis %d at %v, outside the map", dir, corner, axis, v)
				}
			}
		}

		// The centre lands mid-map.
		c := m.TransformPoint(bounds.Center().Array())
		if abs(c[0]) > 1e-4 || abs(c[1]) > 1e-4 {
			t.Errorf("light %v: centre maps to %v", dir, c)
		}
	}
}

func TestLightMatrixNearerIsShallower(t *testing.T) {
	bounds := AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	m := LightMatrix(math.Vec3{Y: 1}, bounds)

	top := m.TransformPoint([3]float32{0, 1, 0})
	bottom := m.TransformPoint([3]float32{0, -1, 0})
	if top[2] >= bottom[2] {
		t.Errorf("depth of the lit top %v should be less than the bottom %v", top[2], bottom[2])
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
