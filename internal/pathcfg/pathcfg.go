// Package pathcfg holds the editable description of a tube: its anchor
// points, cross-section and the set of edits not yet applied to the mesh.
package pathcfg

import (
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

const (
	// DefaultFaceCount is used when no face count is configured.
	DefaultFaceCount = 8
	// MinFaceCount is the smallest cross-section that still encloses a volume.
	MinFaceCount = 4
	// DefaultRadius is used when the configured radius is not positive.
	DefaultRadius float32 = 0.1
)

// defaultPoints fill paths configured with fewer than two points.
var defaultPoints = []pmath.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}}

// Config is the path a tube is built along. It always holds at least two
// points and knows nothing about geometry.
//
// Config is not safe for concurrent use.
type Config struct {
	points    []pmath.Vec3
	faceCount int
	radius    float32

	dirty          []Change
	lastStructural int
	shapeChanged   bool
}

// New creates a path from points. Fewer than two points are padded, an odd
// face count is rounded up and a non-positive radius falls back to DefaultRadius.
func New(points []pmath.Vec3, faceCount int, radius float32) *Config {
	c := &Config{
		points:    padPoints(points),
		faceCount: faceCount,
		radius:    DefaultRadius,
	}
	if radius > 0 {
		c.radius = radius
	}
	return c
}

func padPoints(points []pmath.Vec3) []pmath.Vec3 {
	out := make([]pmath.Vec3, len(points), max(len(points), 2))
	copy(out, points)
	switch len(out) {
	case 0:
		out = append(out, defaultPoints...)
	case 1:
		out = append(out, out[0].Add(pmath.Forward))
	}
	return out
}

// FaceCount returns the number of faces around the tube. The result is
// always even and at least MinFaceCount.
func (c *Config) FaceCount() int {
	n := c.faceCount
	if n <= 0 {
		n = DefaultFaceCount
	}
	if n < MinFaceCount {
		n = MinFaceCount
	}
	if n%2 != 0 {
		n++
	}
	return n
}

// SetFaceCount changes the cross-section resolution. The whole tube becomes dirty.
func (c *Config) SetFaceCount(n int) {
	if n == c.faceCount {
		return
	}
	c.faceCount = n
	c.shapeChanged = true
}

// Radius returns the tube radius.
func (c *Config) Radius() float32 {
	return c.radius
}

// SetRadius changes the tube radius. Non-positive values are ignored.
func (c *Config) SetRadius(r float32) bool {
	if r <= 0 {
		return false
	}
	if r != c.radius {
		c.radius = r
		c.shapeChanged = true
	}
	return true
}

// PointCount returns the number of anchor points.
func (c *Config) PointCount() int {
	return len(c.points)
}

// SegmentCount returns the number of segments the path produces.
func (c *Config) SegmentCount() int {
	return len(c.points) - 1
}

// GetPoint returns the point at index.
func (c *Config) GetPoint(index int) (pmath.Vec3, bool) {
	if index < 0 || index >= len(c.points) {
		return pmath.Vec3{}, false
	}
	return c.points[index], true
}

// Points returns a copy of all anchor points.
func (c *Config) Points() []pmath.Vec3 {
	out := make([]pmath.Vec3, len(c.points))
	copy(out, c.points)
	return out
}

// AddPoint appends a point to the end of the path.
func (c *Config) AddPoint(pos pmath.Vec3) {
	c.points = append(c.points, pos)
	c.record(Inserted{Index: len(c.points) - 2})
}

// InsertPoint inserts pos before index. index == PointCount() appends.
func (c *Config) InsertPoint(index int, pos pmath.Vec3) bool {
	if index < 0 || index > len(c.points) {
		return false
	}
	if index == len(c.points) {
		c.AddPoint(pos)
		return true
	}
	c.points = append(c.points, pmath.Vec3{})
	copy(c.points[index+1:], c.points[index:])
	c.points[index] = pos

	// The new segment runs from pos to the point that used to sit at index;
	// the segment before it now ends at pos.
	c.record(Inserted{Index: index})
	if index > 0 {
		c.record(PositionChanged{Index: index - 1})
	}
	return true
}

// RemovePoint removes the point at index. It is a no-op when the path would
// drop below two points.
func (c *Config) RemovePoint(index int) bool {
	n := len(c.points)
	if index < 0 || index >= n || n <= 2 {
		return false
	}
	c.points = append(c.points[:index], c.points[index+1:]...)

	// Removing the last point drops the last segment; otherwise the segment
	// starting at index goes and its predecessor is stretched over the gap.
	c.record(Removed{Index: min(index, n-2)})
	if index > 0 && index < n-1 {
		c.record(PositionChanged{Index: index - 1})
	}
	return true
}

// UpdatePointPosition moves the point at index.
func (c *Config) UpdatePointPosition(index int, pos pmath.Vec3) bool {
	if index < 0 || index >= len(c.points) {
		return false
	}
	c.points[index] = pos
	c.record(PositionChanged{Index: index})
	if index > 0 {
		c.record(PositionChanged{Index: index - 1})
	}
	return true
}

// record appends ch to the dirty set. A position change already recorded
// since the last structural change is not repeated.
func (c *Config) record(ch Change) {
	if pc, ok := ch.(PositionChanged); ok {
		for _, prev := range c.dirty[c.lastStructural:] {
			if prev == Change(pc) {
				return
			}
		}
	}
	c.dirty = append(c.dirty, ch)
	if IsStructural(ch) {
		c.lastStructural = len(c.dirty) - 1
	}
}

// Dirty returns the changes recorded since the last ClearDirty, in order.
func (c *Config) Dirty() []Change {
	out := make([]Change, len(c.dirty))
	copy(out, c.dirty)
	return out
}

// HasDirty reports whether any change is pending.
func (c *Config) HasDirty() bool {
	return len(c.dirty) > 0 || c.shapeChanged
}

// ShapeChanged reports whether face count or radius changed since the last ClearDirty.
func (c *Config) ShapeChanged() bool {
	return c.shapeChanged
}

// ClearDirty forgets all pending changes.
func (c *Config) ClearDirty() {
	c.dirty = c.dirty[:0]
	c.lastStructural = 0
	c.shapeChanged = false
}
