package tube

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/tubemesh/internal/pathcfg"
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

const eps = 1e-4

func bentPath() []pmath.Vec3 {
	return []pmath.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 3},
		{X: 2, Y: 1, Z: 3},
		{X: 2, Y: 4, Z: 5},
		{X: -1, Y: 4, Z: 5},
		{X: -1, Y: 2, Z: 9},
	}
}

func fullMesh(t *testing.T, points []pmath.Vec3, faceCount int, radius float32, opts ...Option) *Mesh {
	t.Helper()
	b := NewBuilder(pathcfg.New(points, faceCount, radius), opts...)
	b.FullRebuild()
	return b.Mesh().Clone()
}

func assertMeshEqual(t *testing.T, got, want *Mesh) {
	t.Helper()
	if len(got.Vertices) != len(want.Vertices) || len(got.Triangles) != len(want.Triangles) ||
		len(got.Normals) != len(want.Normals) || len(got.UVs) != len(want.UVs) {
		t.Fatalf("mesh sizes = v%d n%d uv%d t%d, want v%d n%d uv%d t%d",
			len(got.Vertices), len(got.Normals), len(got.UVs), len(got.Triangles),
			len(want.Vertices), len(want.Normals), len(want.UVs), len(want.Triangles))
	}
	for i := range want.Vertices {
		if !got.Vertices[i].ApproxEqual(want.Vertices[i], eps) {
			t.Fatalf("vertex %d = %v, want %v", i, got.Vertices[i], want.Vertices[i])
		}
		if !got.Normals[i].ApproxEqual(want.Normals[i], eps) {
			t.Fatalf("normal %d = %v, want %v", i, got.Normals[i], want.Normals[i])
		}
		if got.UVs[i] != want.UVs[i] {
			t.Fatalf("uv %d = %v, want %v", i, got.UVs[i], want.UVs[i])
		}
	}
	for i := range want.Triangles {
		if got.Triangles[i] != want.Triangles[i] {
			t.Fatalf("triangle index %d = %d, want %d", i, got.Triangles[i], want.Triangles[i])
		}
	}
}

func hasNaN(v pmath.Vec3) bool {
	return math32.IsNaN(v.X) || math32.IsNaN(v.Y) || math32.IsNaN(v.Z)
}

func newPath(points []pmath.Vec3) *pathcfg.Config {
	return pathcfg.New(points, 8, 0.25)
}
