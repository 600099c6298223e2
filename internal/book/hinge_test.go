package book

import (
	"math"
	"testing"
)

func TestClosedHingeFoldsBothCovers(t *testing.T) {
	h := ClosedHinge()
	if h.Front != -math.Pi/2 {
		t.Errorf("front closed: got %v, want -pi/2", h.Front)
	}
	if h.Back != math.Pi/2 {
		t.Errorf("back closed: got %v, want +pi/2", h.Back)
	}
}

func TestTargetHinge(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		front float64
		back  float64
	}{
		{"closed", 0, -math.Pi / 2, math.Pi / 2},
		{"half", 0.5, -math.Pi / 4, math.Pi / 4},
		{"open", 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TargetHinge(tt.ratio)
			if !approx(got.Front, tt.front, 1e-12) || !approx(got.Back, tt.back, 1e-12) {
				t.Errorf("TargetHinge(%v) = %+v, want {%v %v}", tt.ratio, got, tt.front, tt.back)
			}
		})
	}
}

func TestTargetHingeMirrored(t *testing.T) {
	for r := 0.0; r <= 1; r += 0.05 {
		h := TargetHinge(r)
		if !approx(h.Front, -h.Back, 1e-12) {
			t.Fatalf("ratio %v: covers not mirrored: %+v", r, h)
		}
	}
}

func TestStepSingleFrame(t *testing.T) {
	// Scenario D: closed book, ratio 1, one 60 Hz frame.
	dt := 1.0 / 60
	got := Tick(ClosedHinge(), TargetHinge(1), dt)

	k := 5 * dt
	want := -math.Pi/2 + (0-(-math.Pi/2))*k
	if !approx(got.Front, want, 1e-9) {
		t.Errorf("front after one frame: got %.4f, want %.4f", got.Front, want)
	}
	if !approx(got.Front, -1.4399, 1e-4) {
		t.Errorf("front after one frame: got %.4f, want about -1.4399", got.Front)
	}
	if !approx(got.Back, -got.Front, 1e-12) {
		t.Errorf("back should mirror front: %+v", got)
	}
}

func TestStepConverges(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
	}{
		{"opening", 0, 1},
		{"closing", 1, 0},
		{"half open", 0.2, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := TargetHinge(tt.from)
			target := TargetHinge(tt.to)
			prev := state.Distance(target)

			for i := 0; i < 600; i++ {
				state = Tick(state, target, 1.0/60)
				d := state.Distance(target)
				// Below 1e-9 the lerp may stall on float resolution.
				if d > prev || (prev > 1e-9 && d >= prev) {
					t.Fatalf("frame %d: distance went from %v to %v", i, prev, d)
				}
				prev = d
			}
			if prev > 1e-6 {
				t.Errorf("not converged after 10s: distance %v", prev)
			}
		})
	}
}

func TestStepNeverOvershoots(t *testing.T) {
	target := TargetHinge(0.3)
	for _, dt := range []float64{0.001, 0.016, 0.1, 0.199, 0.2, 0.5, 3} {
		state := ClosedHinge()
		for i := 0; i < 50; i++ {
			state = Tick(state, target, dt)
			// Front rises from -pi/2 toward its target, back falls from +pi/2.
			if state.Front > target.Front+1e-12 || state.Back < target.Back-1e-12 {
				t.Fatalf("dt=%v frame %d: overshoot %+v past %+v", dt, i, state, target)
			}
		}
	}
}

func TestStepLargeDtSnaps(t *testing.T) {
	target := TargetHinge(0.7)
	got := Tick(ClosedHinge(), target, 0.5)
	if got != target {
		t.Errorf("Speed*dt >= 1 should land on target: got %+v, want %+v", got, target)
	}
}

func TestStepNonPositiveDt(t *testing.T) {
	state := ClosedHinge()
	for _, dt := range []float64{0, -0.016} {
		if got := Tick(state, TargetHinge(1), dt); got != state {
			t.Errorf("dt=%v moved the hinge: %+v", dt, got)
		}
	}
}

func TestAnimatorSpeed(t *testing.T) {
	slow := Animator{Speed: 1}.Step(ClosedHinge(), TargetHinge(1), 0.1)
	fast := Animator{Speed: 5}.Step(ClosedHinge(), TargetHinge(1), 0.1)
	if !(slow.Front < fast.Front) {
		t.Errorf("faster animator should move further: slow %v fast %v", slow.Front, fast.Front)
	}
}
