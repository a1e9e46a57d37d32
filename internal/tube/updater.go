package tube

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/tubemesh/internal/pathcfg"
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// regionUpdater replays dirty records against the base segment list and
// patches the flattened buffers in place. Only dirty segments are rebuilt;
// structural changes splice the buffers and renumber the tail's triangles.
type regionUpdater struct {
	segments []*Segment
	mesh     *Mesh
	points   []pmath.Vec3
	n        int
	radius   float32
	log      *zap.Logger

	fresh      map[SegmentID]bool
	stale      map[SegmentID]bool
	tail       int
	structural bool
}

func newRegionUpdater(segments []*Segment, mesh *Mesh, points []pmath.Vec3, faceCount int, radius float32, log *zap.Logger) *regionUpdater {
	return &regionUpdater{
		segments: segments,
		mesh:     mesh,
		points:   points,
		n:        faceCount,
		radius:   radius,
		log:      log,
		fresh:    make(map[SegmentID]bool),
		stale:    make(map[SegmentID]bool),
		tail:     len(segments),
	}
}

// apply replays changes in order. It returns false when the result does not
// line up with the path, in which case the caller must rebuild from scratch.
func (u *regionUpdater) apply(changes []pathcfg.Change) bool {
	for _, ch := range changes {
		k := ch.SegmentIndex()
		switch ch.(type) {
		case pathcfg.PositionChanged:
			if k < 0 || k >= len(u.segments) {
				// The last point has no segment of its own.
				continue
			}
			u.stale[u.segments[k].ID] = true
		case pathcfg.Inserted:
			if k < 0 || k > len(u.segments) {
				u.log.Warn("skipping insert outside segment range", zap.Stringer("change", ch))
				continue
			}
			u.insert(k)
		case pathcfg.Removed:
			if k < 0 || k >= len(u.segments) {
				u.log.Warn("skipping removal outside segment range", zap.Stringer("change", ch))
				continue
			}
			u.remove(k)
		}
	}

	if len(u.segments) != len(u.points)-1 {
		u.log.Warn("segment count diverged from path",
			zap.Int("segments", len(u.segments)),
			zap.Int("points", len(u.points)))
		return false
	}

	for k, s := range u.segments {
		switch {
		case u.fresh[s.ID]:
			u.rebuild(k)
		case u.stale[s.ID]:
			u.reshape(k)
		}
	}
	u.renumber()
	return true
}

func (u *regionUpdater) stride() (verts, tris int) {
	return u.n * 2, u.n * 6
}

func (u *regionUpdater) insert(k int) {
	v, t := u.stride()
	placeholder := newSegment(u.n)
	u.segments = slices.Insert(u.segments, k, placeholder)
	u.fresh[placeholder.ID] = true

	m := u.mesh
	m.Vertices = slices.Insert(m.Vertices, k*v, make([]pmath.Vec3, v)...)
	m.Normals = slices.Insert(m.Normals, k*v, make([]pmath.Vec3, v)...)
	m.UVs = slices.Insert(m.UVs, k*v, make([]pmath.Vec2, v)...)
	m.Triangles = slices.Insert(m.Triangles, k*t, make([]uint32, t)...)
	u.tail = min(u.tail, k)
	u.structural = true
}

func (u *regionUpdater) remove(k int) {
	v, t := u.stride()
	id := u.segments[k].ID
	delete(u.fresh, id)
	delete(u.stale, id)
	u.segments = slices.Delete(u.segments, k, k+1)

	m := u.mesh
	m.Vertices = slices.Delete(m.Vertices, k*v, (k+1)*v)
	m.Normals = slices.Delete(m.Normals, k*v, (k+1)*v)
	m.UVs = slices.Delete(m.UVs, k*v, (k+1)*v)
	m.Triangles = slices.Delete(m.Triangles, k*t, (k+1)*t)
	u.tail = min(u.tail, k)
	u.structural = true
}

// rebuild generates a segment that did not exist before this update.
func (u *regionUpdater) rebuild(k int) {
	start, end := u.points[k], u.points[k+1]
	s, ok := BuildSegment(start, end, k, u.n, u.radius)
	if !ok {
		u.log.Warn("degenerate segment", zap.Int("index", k))
		s = collapsedSegment(start, k, u.n, u.radius)
	}
	u.segments[k] = s

	v, _ := u.stride()
	copy(u.mesh.Vertices[k*v:], s.Vertices)
	copy(u.mesh.Normals[k*v:], s.Normals)
	copy(u.mesh.UVs[k*v:], s.UVs)
}

// reshape moves an existing segment onto its new endpoints. UVs and
// triangles are unaffected.
func (u *regionUpdater) reshape(k int) {
	s := u.segments[k]
	start, end := u.points[k], u.points[k+1]
	if !s.reshape(start, end, u.n, u.radius) {
		u.log.Warn("degenerate segment", zap.Int("index", k))
		s.collapse(start, u.n, u.radius)
	}

	v, _ := u.stride()
	copy(u.mesh.Vertices[k*v:], s.Vertices)
	copy(u.mesh.Normals[k*v:], s.Normals)
}

// renumber regenerates triangle indices from the first structurally changed
// segment onward.
func (u *regionUpdater) renumber() {
	_, t := u.stride()
	for k := u.tail; k < len(u.segments); k++ {
		s := u.segments[k]
		s.setBase(k, u.n)
		copy(u.mesh.Triangles[k*t:], s.Triangles)
	}
}
