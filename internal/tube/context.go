package tube

import (
	"slices"

	"go.uber.org/zap"

	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// AttachmentKind tells what a modifier added.
type AttachmentKind int

const (
	JointAttachment AttachmentKind = iota
	CapAttachment
)

func (k AttachmentKind) String() string {
	switch k {
	case JointAttachment:
		return "joint"
	case CapAttachment:
		return "cap"
	}
	return "unknown"
}

// RingRef addresses one vertex of a segment ring. Refs follow the ring when
// the segment is split later in the pipeline.
type RingRef struct {
	Segment SegmentID
	End     bool
	Face    int
}

// Attachment is geometry a modifier adds next to the segments. Triangle
// indices >= 0 address the attachment's own vertices; negative indices
// address Refs (see RefIndex).
type Attachment struct {
	Kind      AttachmentKind
	Vertices  []pmath.Vec3
	Normals   []pmath.Vec3
	UVs       []pmath.Vec2
	Refs      []RingRef
	Triangles []int
}

// RefIndex returns the triangle index that addresses Refs[i].
func RefIndex(i int) int {
	return -(i + 1)
}

// AddVertex appends a vertex and returns its triangle index.
func (a *Attachment) AddVertex(pos, normal pmath.Vec3, uv pmath.Vec2) int {
	a.Vertices = append(a.Vertices, pos)
	a.Normals = append(a.Normals, normal)
	a.UVs = append(a.UVs, uv)
	return len(a.Vertices) - 1
}

// AddRef borrows a ring vertex and returns its triangle index.
func (a *Attachment) AddRef(ref RingRef) int {
	a.Refs = append(a.Refs, ref)
	return RefIndex(len(a.Refs) - 1)
}

// AddTriangle appends one triangle.
func (a *Attachment) AddTriangle(i0, i1, i2 int) {
	a.Triangles = append(a.Triangles, i0, i1, i2)
}

// BuildContext is the mutable state handed through the modifier pipeline:
// the segment list, the geometry added so far and an id to index table.
type BuildContext struct {
	FaceCount   int
	Radius      float32
	Segments    []*Segment
	Attachments []*Attachment
	Log         *zap.Logger

	index map[SegmentID]int
}

// NewBuildContext wraps segments, which the context takes ownership of.
func NewBuildContext(segments []*Segment, faceCount int, radius float32) *BuildContext {
	c := &BuildContext{
		FaceCount: faceCount,
		Radius:    radius,
		Segments:  segments,
		Log:       zap.NewNop(),
		index:     make(map[SegmentID]int, len(segments)),
	}
	c.reindex(0)
	return c
}

// reindex refreshes buffer placement and the id table from segment from onward.
func (c *BuildContext) reindex(from int) {
	for k := from; k < len(c.Segments); k++ {
		s := c.Segments[k]
		s.setBase(k, c.FaceCount)
		c.index[s.ID] = k
	}
}

// IndexOf returns the current position of segment id.
func (c *BuildContext) IndexOf(id SegmentID) (int, bool) {
	k, ok := c.index[id]
	return k, ok
}

// Segment returns the segment with the given id.
func (c *BuildContext) Segment(id SegmentID) (*Segment, bool) {
	k, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.Segments[k], true
}

// InsertSegment places s at position at, shifting later segments.
func (c *BuildContext) InsertSegment(at int, s *Segment) {
	c.Segments = slices.Insert(c.Segments, at, s)
	c.reindex(at)
}

// AddAttachment queues extra geometry for the assembled mesh.
func (c *BuildContext) AddAttachment(a *Attachment) {
	c.Attachments = append(c.Attachments, a)
}

// Split bisects segment id at its midpoint. The first half keeps the id; the
// second half is returned. The shared ring sits halfway between the old
// start and end rings, so modifier deformation is preserved.
func (c *BuildContext) Split(id SegmentID) (SegmentID, bool) {
	k, ok := c.index[id]
	if !ok || c.Segments[k].Collapsed {
		return 0, false
	}
	s := c.Segments[k]
	n := c.FaceCount

	next := newSegment(n)
	next.StartCenter = s.StartCenter.Lerp(s.EndCenter, 0.5)
	next.EndCenter = s.EndCenter
	next.InitStartCenter = s.InitStartCenter.Lerp(s.InitEndCenter, 0.5)
	next.InitEndCenter = s.InitEndCenter
	next.Orientation = s.Orientation
	next.FlipUV = !s.FlipUV

	for f := 0; f < n; f++ {
		mid := s.Vertices[2*f].Lerp(s.Vertices[2*f+1], 0.5)
		midNormal := s.Normals[2*f].Add(s.Normals[2*f+1]).Normalize()

		next.Vertices[2*f] = mid
		next.Vertices[2*f+1] = s.Vertices[2*f+1]
		next.Normals[2*f] = midNormal
		next.Normals[2*f+1] = s.Normals[2*f+1]

		s.Vertices[2*f+1] = mid
		s.Normals[2*f+1] = midNormal
	}
	next.writeUVs(n)
	s.EndCenter = next.StartCenter
	s.InitEndCenter = next.InitStartCenter

	// The old end ring now belongs to the second half.
	for _, a := range c.Attachments {
		for i, ref := range a.Refs {
			if ref.End && ref.Segment == id {
				a.Refs[i].Segment = next.ID
			}
		}
	}

	c.InsertSegment(k+1, next)
	return next.ID, true
}

// Bisect splits segment id levels times over, giving up to 2^levels pieces
// in path order. UV direction alternates along the run starting from the
// original segment's, so tiling mirrors at each cut instead of jumping.
func (c *BuildContext) Bisect(id SegmentID, levels int) []SegmentID {
	run := []SegmentID{id}
	first, ok := c.Segment(id)
	if !ok {
		return nil
	}
	flip := first.FlipUV

	for l := 0; l < levels; l++ {
		next := make([]SegmentID, 0, len(run)*2)
		for _, sid := range run {
			next = append(next, sid)
			if nid, ok := c.Split(sid); ok {
				next = append(next, nid)
			}
		}
		if len(next) == len(run) {
			break
		}
		run = next
	}

	for i, sid := range run {
		if s, ok := c.Segment(sid); ok {
			s.SetFlipUV(flip != (i%2 == 1))
		}
	}
	return run
}

// ringVertex resolves ref to an index into the flattened mesh.
func (c *BuildContext) ringVertex(ref RingRef) (int, bool) {
	k, ok := c.index[ref.Segment]
	if !ok || ref.Face < 0 || ref.Face >= c.FaceCount {
		return 0, false
	}
	if ref.End {
		return c.Segments[k].EndRing[ref.Face], true
	}
	return c.Segments[k].StartRing[ref.Face], true
}
