// Package tube builds and incrementally maintains a tube mesh swept along a
// path of anchor points.
package tube

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/jinzhu/copier"

	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// SegmentID identifies a segment across insertions, removals and splits.
type SegmentID uint64

var lastSegmentID atomic.Uint64

func nextSegmentID() SegmentID {
	return SegmentID(lastSegmentID.Add(1))
}

const (
	// singularDot is the |dot(direction, up)| above which the world up axis
	// is too close to the segment direction to build a frame from.
	singularDot = 0.9999
	// minLengthSq is the squared length below which two points coincide.
	minLengthSq = 1e-10
)

// Segment is one cylinder between two consecutive anchor points.
//
// Vertices, Normals and UVs hold two vertices per face, interleaved: local
// vertex 2f lies on the start ring and 2f+1 on the end ring. StartRing and
// EndRing hold the same vertices as indices into the flattened mesh.
type Segment struct {
	ID SegmentID

	StartCenter pmath.Vec3
	EndCenter   pmath.Vec3
	// Centers as built, before any modifier moved the rings.
	InitStartCenter pmath.Vec3
	InitEndCenter   pmath.Vec3

	Orientation pmath.Quat
	StartRing   []int
	EndRing     []int
	FlipUV      bool
	// Collapsed marks a zero-length placeholder for coincident points.
	Collapsed bool

	Vertices  []pmath.Vec3
	Normals   []pmath.Vec3
	UVs       []pmath.Vec2
	Triangles []uint32
}

// BuildSegment generates the cylinder between start and end for segment
// number segIndex. ok is false when start and end coincide.
func BuildSegment(start, end pmath.Vec3, segIndex, faceCount int, radius float32) (*Segment, bool) {
	s := newSegment(faceCount)
	if !s.reshape(start, end, faceCount, radius) {
		return nil, false
	}
	s.writeUVs(faceCount)
	s.setBase(segIndex, faceCount)
	return s, true
}

// collapsedSegment keeps the slot of a degenerate point pair so the
// per-segment buffer layout stays uniform. All its triangles have zero area.
func collapsedSegment(at pmath.Vec3, segIndex, faceCount int, radius float32) *Segment {
	s := newSegment(faceCount)
	s.collapse(at, faceCount, radius)
	s.writeUVs(faceCount)
	s.setBase(segIndex, faceCount)
	return s
}

func newSegment(faceCount int) *Segment {
	return &Segment{
		ID:        nextSegmentID(),
		StartRing: make([]int, faceCount),
		EndRing:   make([]int, faceCount),
		Vertices:  make([]pmath.Vec3, faceCount*2),
		Normals:   make([]pmath.Vec3, faceCount*2),
		UVs:       make([]pmath.Vec2, faceCount*2),
		Triangles: make([]uint32, faceCount*6),
	}
}

// Orientation returns the frame of a segment running along direction: +Z
// follows the direction and +Y is the world up axis made orthogonal to it.
// Near-vertical directions use world forward as the reference instead.
func Orientation(direction pmath.Vec3) pmath.Quat {
	d := direction.Normalize()
	var up pmath.Vec3
	if math32.Abs(d.Dot(pmath.Up)) > singularDot {
		right := d.Cross(pmath.Forward).Normalize()
		up = right.Cross(d).Normalize()
	} else {
		right := pmath.Up.Cross(d).Normalize()
		up = d.Cross(right).Normalize()
	}
	return pmath.QuatLookRotation(d, up)
}

// RingOffset returns the offset of face f from the ring center before rotation.
func RingOffset(f, faceCount int, radius float32) pmath.Vec3 {
	theta := 2 * math32.Pi * float32(f) / float32(faceCount)
	return pmath.Vec3{X: radius * math32.Cos(theta), Y: radius * math32.Sin(theta)}
}

// RingU folds the ring so u runs 0..1..0 around the circumference, keeping
// the texture seamless where the last face meets the first.
func RingU(f, faceCount int) float32 {
	if f <= faceCount/2 {
		return float32(f) / float32(faceCount) * 2
	}
	return 2 - float32(f)/float32(faceCount)*2
}

// reshape recomputes frame, centers, vertices and normals for a new pair of
// endpoints. It reports false and leaves s untouched for coincident points.
func (s *Segment) reshape(start, end pmath.Vec3, faceCount int, radius float32) bool {
	dir := end.Sub(start)
	if dir.LengthSq() < minLengthSq {
		return false
	}
	s.Collapsed = false
	s.Orientation = Orientation(dir)
	s.setCenters(start, end)
	s.fillRings(faceCount, radius)
	return true
}

func (s *Segment) collapse(at pmath.Vec3, faceCount int, radius float32) {
	s.Collapsed = true
	s.Orientation = pmath.QuatIdentity()
	s.setCenters(at, at)
	s.fillRings(faceCount, radius)
}

func (s *Segment) setCenters(start, end pmath.Vec3) {
	s.StartCenter, s.EndCenter = start, end
	s.InitStartCenter, s.InitEndCenter = start, end
}

func (s *Segment) fillRings(faceCount int, radius float32) {
	for f := 0; f < faceCount; f++ {
		off := s.Orientation.Rotate(RingOffset(f, faceCount, radius))
		normal := off.Normalize()
		s.Vertices[2*f] = s.StartCenter.Add(off)
		s.Vertices[2*f+1] = s.EndCenter.Add(off)
		s.Normals[2*f] = normal
		s.Normals[2*f+1] = normal
	}
}

func (s *Segment) writeUVs(faceCount int) {
	startV, endV := float32(0), float32(1)
	if s.FlipUV {
		startV, endV = endV, startV
	}
	for f := 0; f < faceCount; f++ {
		u := RingU(f, faceCount)
		s.UVs[2*f] = pmath.Vec2{X: u, Y: startV}
		s.UVs[2*f+1] = pmath.Vec2{X: u, Y: endV}
	}
}

// setBase places the segment at position segIndex of the flattened mesh,
// regenerating ring indices and triangles.
func (s *Segment) setBase(segIndex, faceCount int) {
	base := segIndex * faceCount * 2
	for f := 0; f < faceCount; f++ {
		s.StartRing[f] = base + 2*f
		s.EndRing[f] = base + 2*f + 1

		current := uint32(base + 2*f)
		next := uint32(base + ((f+1)%faceCount)*2)
		t := s.Triangles[f*6 : f*6+6]
		t[0], t[1], t[2] = current, next, current+1
		t[3], t[4], t[5] = next, next+1, current+1
	}
}

// SetFlipUV sets the texture direction along the segment and rewrites its UVs.
func (s *Segment) SetFlipUV(flip bool) {
	s.FlipUV = flip
	s.writeUVs(len(s.StartRing))
}

// FaceCount returns the number of faces around the segment.
func (s *Segment) FaceCount() int {
	return len(s.StartRing)
}

// Length returns the current distance between the ring centers.
func (s *Segment) Length() float32 {
	return s.StartCenter.Distance(s.EndCenter)
}

// Direction returns the unit vector from start to end center.
func (s *Segment) Direction() pmath.Vec3 {
	return s.EndCenter.Sub(s.StartCenter).Normalize()
}

// Drift returns how far modifiers moved either center from where it was built.
func (s *Segment) Drift() float32 {
	return max(s.StartCenter.Distance(s.InitStartCenter), s.EndCenter.Distance(s.InitEndCenter))
}

// MoveStart translates the start ring and its center by delta.
func (s *Segment) MoveStart(delta pmath.Vec3) {
	s.StartCenter = s.StartCenter.Add(delta)
	for f := range s.StartRing {
		s.Vertices[2*f] = s.Vertices[2*f].Add(delta)
	}
}

// MoveEnd translates the end ring and its center by delta.
func (s *Segment) MoveEnd(delta pmath.Vec3) {
	s.EndCenter = s.EndCenter.Add(delta)
	for f := range s.EndRing {
		s.Vertices[2*f+1] = s.Vertices[2*f+1].Add(delta)
	}
}

// Clone returns a deep copy of s. It runs on every update that has modifiers,
// so it copies the buffers directly.
func (s *Segment) Clone() *Segment {
	c := *s
	c.StartRing = slices.Clone(s.StartRing)
	c.EndRing = slices.Clone(s.EndRing)
	c.Vertices = slices.Clone(s.Vertices)
	c.Normals = slices.Clone(s.Normals)
	c.UVs = slices.Clone(s.UVs)
	c.Triangles = slices.Clone(s.Triangles)
	return &c
}

// Snapshot returns a deep copy of s for callers outside the builder.
func (s *Segment) Snapshot() (*Segment, error) {
	c := &Segment{}
	if err := copier.CopyWithOption(c, s, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("snapshot segment %d: %w", s.ID, err)
	}
	return c, nil
}

func cloneSegments(segments []*Segment) []*Segment {
	out := make([]*Segment, len(segments))
	for i, s := range segments {
		out[i] = s.Clone()
	}
	return out
}
