package tube

import (
	"go.uber.org/zap"

	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// flattenSegments concatenates the per-segment buffers. Segment k's
// vertices land at k*faceCount*2, matching the indices setBase wrote.
func flattenSegments(segments []*Segment, faceCount int) *Mesh {
	m := &Mesh{
		Vertices:  make([]pmath.Vec3, 0, len(segments)*faceCount*2),
		Normals:   make([]pmath.Vec3, 0, len(segments)*faceCount*2),
		UVs:       make([]pmath.Vec2, 0, len(segments)*faceCount*2),
		Triangles: make([]uint32, 0, len(segments)*faceCount*6),
	}
	for _, s := range segments {
		m.Vertices = append(m.Vertices, s.Vertices...)
		m.Normals = append(m.Normals, s.Normals...)
		m.UVs = append(m.UVs, s.UVs...)
		m.Triangles = append(m.Triangles, s.Triangles...)
	}
	return m
}

// Flatten assembles segments and attachments into one mesh. Triangles of an
// attachment that reference a segment no longer present are dropped.
func (c *BuildContext) Flatten() *Mesh {
	m := flattenSegments(c.Segments, c.FaceCount)

	dropped := 0
	for _, a := range c.Attachments {
		offset := len(m.Vertices)
		m.Vertices = append(m.Vertices, a.Vertices...)
		m.Normals = append(m.Normals, a.Normals...)
		m.UVs = append(m.UVs, a.UVs...)

		for t := 0; t+2 < len(a.Triangles); t += 3 {
			var tri [3]uint32
			ok := true
			for j := 0; j < 3 && ok; j++ {
				idx := a.Triangles[t+j]
				if idx >= 0 {
					tri[j] = uint32(offset + idx)
					continue
				}
				var v int
				v, ok = c.ringVertex(a.Refs[-idx-1])
				tri[j] = uint32(v)
			}
			if !ok {
				dropped++
				continue
			}
			m.Triangles = append(m.Triangles, tri[:]...)
		}
	}
	if dropped > 0 {
		c.Log.Warn("dropped attachment triangles with dangling ring refs", zap.Int("count", dropped))
	}
	return m
}
