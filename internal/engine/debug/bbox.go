// Package debug builds line geometry for viewer overlays and saves screenshots.
package debug

import pmath "github.com/Faultbox/tubemesh/pkg/math"

// BoxVertexCount is the number of line vertices in a box wireframe (12 edges × 2).
const BoxVertexCount = 24

// BoxLines returns line vertices for the edges of an axis-aligned box,
// expanded by padding on every side. Format: x, y, z per vertex.
func BoxLines(lo, hi pmath.Vec3, padding float32) []float32 {
	minX, minY, minZ := lo.X-padding, lo.Y-padding, lo.Z-padding
	maxX, maxY, maxZ := hi.X+padding, hi.Y+padding, hi.Z+padding
	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// PolylineLines returns line vertices joining consecutive points.
func PolylineLines(points []pmath.Vec3) []float32 {
	if len(points) < 2 {
		return nil
	}
	out := make([]float32, 0, (len(points)-1)*6)
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		out = append(out, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}
	return out
}

// MarkerLines returns a three-axis cross of half-width size at each point.
func MarkerLines(points []pmath.Vec3, size float32) []float32 {
	out := make([]float32, 0, len(points)*18)
	for _, p := range points {
		out = append(out,
			p.X-size, p.Y, p.Z, p.X+size, p.Y, p.Z,
			p.X, p.Y-size, p.Z, p.X, p.Y+size, p.Z,
			p.X, p.Y, p.Z-size, p.X, p.Y, p.Z+size,
		)
	}
	return out
}
