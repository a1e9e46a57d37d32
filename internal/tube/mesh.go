package tube

import (
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// Mesh holds the flattened buffers of a tube, ready for upload.
type Mesh struct {
	Vertices  []pmath.Vec3
	Normals   []pmath.Vec3
	UVs       []pmath.Vec2
	Triangles []uint32
	Bounds    Bounds
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min pmath.Vec3
	Max pmath.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() pmath.Vec3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Size returns the extent along each axis.
func (b Bounds) Size() pmath.Vec3 {
	return b.Max.Sub(b.Min)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Target receives every committed mesh, e.g. a GPU buffer owner.
type Target interface {
	Commit(m *Mesh)
}

// TargetFunc adapts a function to Target.
type TargetFunc func(m *Mesh)

// Commit calls f(m).
func (f TargetFunc) Commit(m *Mesh) { f(m) }

func (m *Mesh) updateBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
		return
	}
	b := Bounds{
		Min: pmath.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: pmath.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
	for _, v := range m.Vertices {
		b.Min.X = min(b.Min.X, v.X)
		b.Min.Y = min(b.Min.Y, v.Y)
		b.Min.Z = min(b.Min.Z, v.Z)
		b.Max.X = max(b.Max.X, v.X)
		b.Max.Y = max(b.Max.Y, v.Y)
		b.Max.Z = max(b.Max.Z, v.Z)
	}
	m.Bounds = b
}

// Clone returns a copy of m that shares no buffers with it.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices:  append([]pmath.Vec3(nil), m.Vertices...),
		Normals:   append([]pmath.Vec3(nil), m.Normals...),
		UVs:       append([]pmath.Vec2(nil), m.UVs...),
		Triangles: append([]uint32(nil), m.Triangles...),
		Bounds:    m.Bounds,
	}
}
