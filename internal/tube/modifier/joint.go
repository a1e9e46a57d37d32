package modifier

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tubemesh/internal/tube"
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// JointConfig configures a JointConnector.
type JointConfig struct {
	Enabled bool
	// Distance each segment end pulls back from a corner. Values below the
	// tube radius fold the inner bend; 0 uses the radius.
	Distance float32
	// PointsPerCurve is the number of rings sampled along each connector,
	// including the two borrowed from the neighboring segments.
	PointsPerCurve int
	// BlendRange is the fraction of the curve at each end over which the
	// ring frame blends from the neighbor's orientation.
	BlendRange float32
	// CornerTolerance is the minimum |sin| of the turn angle that counts as a corner.
	CornerTolerance float32
}

// DefaultJointConfig returns the settings used when none are configured.
func DefaultJointConfig() JointConfig {
	return JointConfig{
		Enabled:         true,
		PointsPerCurve:  8,
		BlendRange:      0.25,
		CornerTolerance: 1e-4,
	}
}

// JointConnector shortens segments that meet at a corner and bridges the
// gap with a tube swept along a quadratic Bezier curve.
type JointConnector struct {
	cfg JointConfig
}

// NewJointConnector creates a connector stage.
func NewJointConnector(cfg JointConfig) *JointConnector {
	if cfg.PointsPerCurve < 2 {
		cfg.PointsPerCurve = 2
	}
	if cfg.BlendRange <= 0 {
		cfg.BlendRange = DefaultJointConfig().BlendRange
	}
	return &JointConnector{cfg: cfg}
}

func (j *JointConnector) Name() string  { return "joint" }
func (j *JointConnector) Enabled() bool { return j.cfg.Enabled }

func (j *JointConnector) Access() tube.Access {
	return tube.ReadsSegments | tube.MovesRings | tube.AddsGeometry
}

// IsCorner reports whether the path turns at b. Short segments are not
// filtered out; a connector on them may overlap its neighbors.
func IsCorner(a, b, c pmath.Vec3, tolerance float32) bool {
	ab := b.Sub(a).Normalize()
	bc := c.Sub(b).Normalize()
	return ab.Cross(bc).LengthSq() > tolerance*tolerance
}

// BulgeFactor maps the angle at a corner, in degrees, to how far the curve
// control point is pushed outward: 1 for a hairpin, 0 for a straight line.
func BulgeFactor(angle float32) float32 {
	if angle < 0 {
		angle = -angle
	}
	return pmath.Lerp(1, 0, pmath.InverseLerp(0, 180, angle))
}

// SignedCornerAngle returns the angle in degrees between the legs b→a and
// b→c, signed by the world up axis.
func SignedCornerAngle(a, b, c pmath.Vec3) float32 {
	return pmath.SignedAngle(a.Sub(b).Normalize(), c.Sub(b).Normalize(), pmath.Up)
}

// Apply shortens cornered segments and adds one connector per corner.
func (j *JointConnector) Apply(ctx *tube.BuildContext) {
	segs := ctx.Segments
	if len(segs) < 2 {
		return
	}

	// corner[k] is the junction at the start of segment k.
	corner := make([]bool, len(segs)+1)
	corners := 0
	for k := 1; k < len(segs); k++ {
		prev, cur := segs[k-1], segs[k]
		if prev.Collapsed || cur.Collapsed {
			continue
		}
		if IsCorner(prev.InitStartCenter, prev.InitEndCenter, cur.InitEndCenter, j.cfg.CornerTolerance) {
			corner[k] = true
			corners++
		}
	}
	if corners == 0 {
		return
	}

	minLength := 2 * ctx.Radius
	for k, s := range segs {
		if !s.Collapsed {
			j.shorten(ctx, s, corner[k], corner[k+1], minLength)
		}
	}

	for k := 1; k < len(segs); k++ {
		if corner[k] {
			ctx.AddAttachment(j.connect(ctx, segs[k-1], segs[k]))
		}
	}
}

func (j *JointConnector) distance(ctx *tube.BuildContext) float32 {
	if j.cfg.Distance > 0 {
		return j.cfg.Distance
	}
	return ctx.Radius
}

// shorten pulls the cornered ends of s back by the configured distance,
// scaled down proportionally when s would drop below minLength.
func (j *JointConnector) shorten(ctx *tube.BuildContext, s *tube.Segment, atStart, atEnd bool, minLength float32) {
	ends := 0
	if atStart {
		ends++
	}
	if atEnd {
		ends++
	}
	each := j.distance(ctx)
	if ends == 0 || each <= 0 {
		return
	}

	length := s.Length()
	if length-each*float32(ends) < minLength {
		available := length - minLength
		if available <= 0 {
			ctx.Log.Debug("segment too short to make room for corner",
				zap.Uint64("segment", uint64(s.ID)),
				zap.Float32("length", length))
			return
		}
		each = available / float32(ends)
		ctx.Log.Debug("corner distance clamped",
			zap.Uint64("segment", uint64(s.ID)),
			zap.Float32("distance", each))
	}

	dir := s.Direction()
	if atStart {
		s.MoveStart(dir.Scale(each))
	}
	if atEnd {
		s.MoveEnd(dir.Scale(-each))
	}
}

// connect sweeps rings from the end of prev to the start of cur. The first
// and last rings are the segments' own, so the strip is welded to both.
func (j *JointConnector) connect(ctx *tube.BuildContext, prev, cur *tube.Segment) *tube.Attachment {
	a, b, c := prev.InitStartCenter, prev.InitEndCenter, cur.InitEndCenter
	p0, p2 := prev.EndCenter, cur.StartCenter

	toA := a.Sub(b).Normalize()
	toC := c.Sub(b).Normalize()
	outward := toA.Lerp(toC, 0.5).Negate().Normalize()
	bulge := BulgeFactor(SignedCornerAngle(a, b, c))
	control := p0.Lerp(p2, 0.5).Add(outward.Scale(j.distance(ctx) * bulge))

	n := ctx.FaceCount
	count := j.cfg.PointsPerCurve
	att := &tube.Attachment{Kind: tube.JointAttachment}
	rings := make([][]int, count)

	for p := 0; p < count; p++ {
		ring := make([]int, n)
		switch p {
		case 0:
			for f := range ring {
				ring[f] = att.AddRef(tube.RingRef{Segment: prev.ID, End: true, Face: f})
			}
		case count - 1:
			for f := range ring {
				ring[f] = att.AddRef(tube.RingRef{Segment: cur.ID, Face: f})
			}
		default:
			t := float32(p) / float32(count-1)
			center := pmath.QuadBezier(p0, control, p2, t)
			tangent := pmath.QuadBezierTangent(p0, control, p2, t)
			rot := j.blend(prev.Orientation, cur.Orientation, tangent, t)
			for f := range ring {
				off := rot.Rotate(tube.RingOffset(f, n, ctx.Radius))
				uv := pmath.Vec2{X: tube.RingU(f, n), Y: 1 - t}
				ring[f] = att.AddVertex(center.Add(off), off.Normalize(), uv)
			}
		}
		rings[p] = ring
	}

	for p := 0; p+1 < count; p++ {
		for f := 0; f < n; f++ {
			g := (f + 1) % n
			att.AddTriangle(rings[p][f], rings[p][g], rings[p+1][f])
			att.AddTriangle(rings[p+1][f], rings[p][g], rings[p+1][g])
		}
	}
	return att
}

// blend eases the ring frame out of from over the first BlendRange of the
// curve and into to over the last, following the tangent in between.
func (j *JointConnector) blend(from, to pmath.Quat, tangent pmath.Vec3, t float32) pmath.Quat {
	along := tube.Orientation(tangent)
	r := j.cfg.BlendRange
	if t < 0.5 {
		return from.Slerp(along, pmath.Clamp01(t/r))
	}
	return along.Slerp(to, pmath.Clamp01((t-(1-r))/r))
}
