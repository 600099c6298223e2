package math

// Lerp linearly interpolates from a to b by t. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Snap rounds x to the nearest multiple of step. A non-positive step returns x.
func Snap(x, step float64) float64 {
	if step <= 0 {
		return x
	}
	n := x / step
	if n < 0 {
		return float64(int64(n-0.5)) * step
	}
	return float64(int64(n+0.5)) * step
}
