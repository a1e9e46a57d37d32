package modifier

import (
	"sort"

	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// Keyframe is one control point of a Curve.
type Keyframe struct {
	T     float32
	Value float32
}

// Curve is a piecewise curve over keyframes, clamped outside its range.
type Curve struct {
	keys   []Keyframe
	smooth bool
}

// NewCurve builds a curve from keys in any order. With smooth set, segments
// ease in and out instead of interpolating linearly.
func NewCurve(keys []Keyframe, smooth bool) Curve {
	sorted := append([]Keyframe(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].T < sorted[j].T })
	return Curve{keys: sorted, smooth: smooth}
}

// LinearFalloff runs from 1 at t=0 to 0 at t=1.
func LinearFalloff() Curve {
	return NewCurve([]Keyframe{{T: 0, Value: 1}, {T: 1, Value: 0}}, false)
}

// Evaluate returns the curve value at t. An empty curve is constant 1.
func (c Curve) Evaluate(t float32) float32 {
	switch {
	case len(c.keys) == 0:
		return 1
	case t <= c.keys[0].T:
		return c.keys[0].Value
	case t >= c.keys[len(c.keys)-1].T:
		return c.keys[len(c.keys)-1].Value
	}

	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].T > t })
	a, b := c.keys[i-1], c.keys[i]
	u := pmath.InverseLerp(a.T, b.T, t)
	if c.smooth {
		u = u * u * (3 - 2*u)
	}
	return pmath.Lerp(a.Value, b.Value, u)
}
