package book

import (
	gomath "math"

	"github.com/Faultbox/bookmock/pkg/math"
)

// DefaultHingeSpeed is the easing rate of the covers, in 1/s.
const DefaultHingeSpeed = 5.0

// HingeState is the current rotation of each cover about its hinge, in radians.
type HingeState struct {
	Front float64
	Back  float64
}

// ClosedHinge is the state of a shut book.
func ClosedHinge() HingeState {
	return HingeState{Front: SideFront.ClosedAngle(), Back: SideBack.ClosedAngle()}
}

// TargetHinge maps an open ratio to the angles the covers ease toward.
func TargetHinge(openRatio float64) HingeState {
	return HingeState{
		Front: math.Lerp(SideFront.ClosedAngle(), SideFront.OpenAngle(), openRatio),
		Back:  math.Lerp(SideBack.ClosedAngle(), SideBack.OpenAngle(), openRatio),
	}
}

// Angle returns the rotation of one cover.
func (h HingeState) Angle(s Side) float64 {
	if s == SideBack {
		return h.Back
	}
	return h.Front
}

// Distance is the larger of the two per-cover angle gaps to target.
func (h HingeState) Distance(target HingeState) float64 {
	return max(gomath.Abs(h.Front-target.Front), gomath.Abs(h.Back-target.Back))
}

// Animator eases hinge angles toward their targets at a fixed rate.
type Animator struct {
	Speed float64
}

// Step advances state toward target by dt seconds. The blend factor is
// min(1, Speed*dt), so the covers never overshoot. Negative dt is a no-op.
func (a Animator) Step(state, target HingeState, dt float64) HingeState {
	if dt <= 0 {
		return state
	}
	k := a.Speed * dt
	if k >= 1 {
		return target
	}
	return HingeState{
		Front: math.Lerp(state.Front, target.Front, k),
		Back:  math.Lerp(state.Back, target.Back, k),
	}
}

// Tick advances state toward target at DefaultHingeSpeed.
func Tick(state, target HingeState, dt float64) HingeState {
	return Animator{Speed: DefaultHingeSpeed}.Step(state, target, dt)
}
