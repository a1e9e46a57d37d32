package math

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 limits x to [0, 1].
func Clamp01(x float32) float32 {
	return Clamp(x, 0, 1)
}

// Lerp interpolates between a and b. t is not clamped.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// InverseLerp returns where x lies between a and b, clamped to [0, 1].
// Returns 0 when a == b.
func InverseLerp(a, b, x float32) float32 {
	if a == b {
		return 0
	}
	return Clamp01((x - a) / (b - a))
}

// QuadBezier evaluates the quadratic Bezier curve p0, p1, p2 at t.
func QuadBezier(p0, p1, p2 Vec3, t float32) Vec3 {
	u := 1 - t
	return p0.Scale(u * u).Add(p1.Scale(2 * u * t)).Add(p2.Scale(t * t))
}

// QuadBezierTangent returns the first derivative of the quadratic Bezier at t.
func QuadBezierTangent(p0, p1, p2 Vec3, t float32) Vec3 {
	return p1.Sub(p0).Scale(2 * (1 - t)).Add(p2.Sub(p1).Scale(2 * t))
}
