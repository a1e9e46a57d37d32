package main

import pmath "github.com/Faultbox/tubemesh/pkg/math"

// appendPosition continues the path past its last point in the direction
// of the last segment, one step further.
func appendPosition(points []pmath.Vec3, step float32) pmath.Vec3 {
	n := len(points)
	last := points[n-1]
	dir := pmath.Forward
	if n >= 2 {
		if d := last.Sub(points[n-2]); d.LengthSq() > 0 {
			dir = d.Normalize()
		}
	}
	return last.Add(dir.Scale(step))
}

// insertPosition returns where a point inserted after index i goes: the
// middle of the segment i..i+1, or past the end for the last point.
func insertPosition(points []pmath.Vec3, i int, step float32) (at int, pos pmath.Vec3) {
	if i >= len(points)-1 {
		return len(points), appendPosition(points, step)
	}
	return i + 1, points[i].Lerp(points[i+1], 0.5)
}

// wrapIndex steps i by delta around n entries.
func wrapIndex(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}
