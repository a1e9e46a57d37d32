package tube

import (
	"testing"

	"github.com/Faultbox/tubemesh/internal/pathcfg"
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

func TestFullRebuildCounts(t *testing.T) {
	tests := []struct {
		name   string
		points int
		faces  int
	}{
		{"two points", 2, 4},
		{"three points", 3, 8},
		{"six points", 6, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(pathcfg.New(bentPath()[:tt.points], tt.faces, 0.2))
			b.FullRebuild()
			m := b.Mesh()

			n := b.Path().FaceCount()
			segs := tt.points - 1
			if got, want := m.VertexCount(), segs*n*2; got != want {
				t.Errorf("VertexCount() = %d, want %d", got, want)
			}
			if got, want := len(m.Triangles), segs*n*6; got != want {
				t.Errorf("len(Triangles) = %d, want %d", got, want)
			}
			if len(m.Normals) != m.VertexCount() || len(m.UVs) != m.VertexCount() {
				t.Errorf("normals %d uvs %d, want %d", len(m.Normals), len(m.UVs), m.VertexCount())
			}
			for i, idx := range m.Triangles {
				if int(idx) >= m.VertexCount() {
					t.Fatalf("Triangles[%d] = %d out of range", i, idx)
				}
			}
			if b.SegmentCount() != segs {
				t.Errorf("SegmentCount() = %d, want %d", b.SegmentCount(), segs)
			}
		})
	}
}

func TestFullRebuildWinding(t *testing.T) {
	points := bentPath()
	b := NewBuilder(pathcfg.New(points, 8, 0.3))
	b.FullRebuild()
	m := b.Mesh()
	perSegment := 8 * 6

	for t0 := 0; t0 < len(m.Triangles); t0 += 3 {
		k := t0 / perSegment
		start, end := points[k], points[k+1]
		axis := end.Sub(start).Normalize()

		a := m.Vertices[m.Triangles[t0]]
		bb := m.Vertices[m.Triangles[t0+1]]
		c := m.Vertices[m.Triangles[t0+2]]
		normal := bb.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(bb).Add(c).Scale(1.0 / 3)
		onAxis := start.Add(axis.Scale(centroid.Sub(start).Dot(axis)))

		if normal.Dot(centroid.Sub(onAxis)) <= 0 {
			t.Fatalf("triangle %d of segment %d faces inward", t0/3, k)
		}
	}
}

func TestFullRebuildIdempotent(t *testing.T) {
	b := NewBuilder(pathcfg.New(bentPath(), 8, 0.25))
	b.FullRebuild()
	first := b.Mesh().Clone()
	b.FullRebuild()
	assertMeshEqual(t, b.Mesh(), first)
}

func TestFullRebuildBounds(t *testing.T) {
	b := NewBuilder(pathcfg.New([]pmath.Vec3{{}, {Z: 10}}, 8, 1))
	b.FullRebuild()
	got := b.Mesh().Bounds
	want := Bounds{Min: pmath.Vec3{X: -1, Y: -1, Z: 0}, Max: pmath.Vec3{X: 1, Y: 1, Z: 10}}
	if !got.Min.ApproxEqual(want.Min, eps) || !got.Max.ApproxEqual(want.Max, eps) {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}

func TestFullRebuildDegeneratePair(t *testing.T) {
	points := []pmath.Vec3{{}, {Z: 2}, {Z: 2}, {X: 2, Z: 2}}
	b := NewBuilder(pathcfg.New(points, 8, 0.5))
	b.FullRebuild()

	if b.SegmentCount() != 3 {
		t.Fatalf("SegmentCount() = %d, want 3", b.SegmentCount())
	}
	s, _ := b.GetSegmentInfo(1)
	if !s.Collapsed {
		t.Error("segment over coincident points is not collapsed")
	}
	for i, v := range b.Mesh().Vertices {
		if hasNaN(v) {
			t.Fatalf("vertex %d is NaN", i)
		}
	}
}

func TestIncrementalMatchesFull(t *testing.T) {
	edits := []struct {
		name string
		edit func(c *pathcfg.Config)
	}{
		{"move middle", func(c *pathcfg.Config) { c.UpdatePointPosition(2, pmath.Vec3{X: 3, Y: -1, Z: 2}) }},
		{"move first", func(c *pathcfg.Config) { c.UpdatePointPosition(0, pmath.Vec3{X: -1}) }},
		{"move last", func(c *pathcfg.Config) { c.UpdatePointPosition(c.PointCount()-1, pmath.Vec3{Y: 9}) }},
		{"insert", func(c *pathcfg.Config) { c.InsertPoint(3, pmath.Vec3{X: 5, Y: 5, Z: 5}) }},
		{"insert front", func(c *pathcfg.Config) { c.InsertPoint(0, pmath.Vec3{Z: -4}) }},
		{"append", func(c *pathcfg.Config) { c.AddPoint(pmath.Vec3{X: 7, Z: 7}) }},
		{"remove middle", func(c *pathcfg.Config) { c.RemovePoint(2) }},
		{"remove first", func(c *pathcfg.Config) { c.RemovePoint(0) }},
		{"remove last", func(c *pathcfg.Config) { c.RemovePoint(c.PointCount() - 1) }},
		{"vertical", func(c *pathcfg.Config) {
			p, _ := c.GetPoint(1)
			c.UpdatePointPosition(2, p.Add(pmath.Vec3{Y: 3}))
		}},
	}

	path := pathcfg.New(bentPath(), 8, 0.25)
	b := NewBuilder(path)
	b.FullRebuild()

	for _, e := range edits {
		t.Run(e.name, func(t *testing.T) {
			e.edit(path)
			b.IncrementalUpdate()
			if path.HasDirty() {
				t.Error("dirty set not cleared after update")
			}
			want := fullMesh(t, path.Points(), 8, 0.25)
			assertMeshEqual(t, b.Mesh(), want)
		})
	}
}

func TestIncrementalBatchedEdits(t *testing.T) {
	points := append(bentPath(), pmath.Vec3{X: 4, Y: 4, Z: 4}, pmath.Vec3{X: 6, Z: 1})
	path := pathcfg.New(points, 6, 0.1)
	b := NewBuilder(path)
	b.FullRebuild()

	path.InsertPoint(2, pmath.Vec3{X: 1, Y: 1, Z: 1})
	path.UpdatePointPosition(3, pmath.Vec3{X: 2, Y: 2, Z: 2})
	path.RemovePoint(5)
	if len(path.Dirty()) >= path.PointCount() {
		t.Fatalf("test needs fewer changes (%d) than points (%d)", len(path.Dirty()), path.PointCount())
	}
	b.IncrementalUpdate()

	assertMeshEqual(t, b.Mesh(), fullMesh(t, path.Points(), 6, 0.1))
}

func TestInsertRemoveRoundTrip(t *testing.T) {
	points := bentPath()[:4]
	path := pathcfg.New(points, 8, 0.2)
	b := NewBuilder(path)
	b.FullRebuild()
	original := b.Mesh().Clone()

	path.InsertPoint(2, pmath.Vec3{X: 9, Y: 9, Z: 9})
	b.IncrementalUpdate()
	path.RemovePoint(2)
	b.IncrementalUpdate()

	assertMeshEqual(t, b.Mesh(), original)
}

func TestIncrementalShapeChange(t *testing.T) {
	path := pathcfg.New(bentPath(), 8, 0.2)
	b := NewBuilder(path)
	b.FullRebuild()

	path.SetFaceCount(11)
	b.IncrementalUpdate()
	if got, want := b.Mesh().VertexCount(), 5*12*2; got != want {
		t.Errorf("VertexCount() after face change = %d, want %d", got, want)
	}
}

func TestIncrementalWithoutChanges(t *testing.T) {
	path := pathcfg.New(bentPath(), 8, 0.2)
	var commits int
	b := NewBuilder(path, WithTarget(TargetFunc(func(*Mesh) { commits++ })))

	b.IncrementalUpdate() // first call builds
	b.IncrementalUpdate()
	if commits != 1 {
		t.Errorf("commits = %d, want 1", commits)
	}
}

func TestQueries(t *testing.T) {
	path := pathcfg.New(bentPath(), 8, 0.2)
	b := NewBuilder(path)
	b.FullRebuild()

	if b.PointCount() != 6 {
		t.Errorf("PointCount() = %d, want 6", b.PointCount())
	}
	if p, ok := b.GetPoint(1); !ok || p != bentPath()[1] {
		t.Errorf("GetPoint(1) = %v, %v", p, ok)
	}
	if b.IsSegmentIndexValid(5) || b.IsSegmentIndexValid(-1) || !b.IsSegmentIndexValid(4) {
		t.Error("IsSegmentIndexValid() bounds wrong")
	}

	info, ok := b.GetSegmentInfo(2)
	if !ok {
		t.Fatal("GetSegmentInfo(2) ok = false")
	}
	if info.StartCenter != bentPath()[2] || info.EndCenter != bentPath()[3] {
		t.Errorf("segment 2 centers = %v..%v", info.StartCenter, info.EndCenter)
	}
	if k, ok := b.SegmentIndex(info.ID); !ok || k != 2 {
		t.Errorf("SegmentIndex(%d) = %d, %v; want 2", info.ID, k, ok)
	}

	info.Vertices[0] = pmath.Vec3{X: 1000}
	if b.Mesh().Vertices[2*8*2].X == 1000 {
		t.Error("GetSegmentInfo() returned shared buffers")
	}
}
