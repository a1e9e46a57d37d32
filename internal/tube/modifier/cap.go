package modifier

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/tubemesh/internal/tube"
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// CapType selects the cap geometry.
type CapType string

const (
	// RoundCap closes an end with a hemisphere.
	RoundCap CapType = "round"
	// SpikeCap tapers the end segment to a point.
	SpikeCap CapType = "spike"
)

// CapConfig configures a CapGenerator.
type CapConfig struct {
	Enabled bool
	Type    CapType
	Start   bool
	End     bool
	// SplitLevels is how many times a spike's end segment is bisected.
	SplitLevels int
	// Falloff curves map 0 at the junction to 1 at the tip onto a ring scale.
	StartCurve Curve
	EndCurve   Curve
}

// DefaultCapConfig returns round caps on both ends.
func DefaultCapConfig() CapConfig {
	return CapConfig{
		Enabled:     true,
		Type:        RoundCap,
		Start:       true,
		End:         true,
		SplitLevels: 3,
		StartCurve:  LinearFalloff(),
		EndCurve:    LinearFalloff(),
	}
}

// CapGenerator closes the open ends of the tube.
type CapGenerator struct {
	cfg CapConfig
}

// NewCapGenerator creates a cap stage.
func NewCapGenerator(cfg CapConfig) *CapGenerator {
	if cfg.SplitLevels < 0 {
		cfg.SplitLevels = 0
	}
	return &CapGenerator{cfg: cfg}
}

func (g *CapGenerator) Name() string  { return "cap" }
func (g *CapGenerator) Enabled() bool { return g.cfg.Enabled && (g.cfg.Start || g.cfg.End) }

func (g *CapGenerator) Access() tube.Access {
	if g.cfg.Type == SpikeCap {
		return tube.ReadsSegments | tube.InsertsSegments | tube.MovesRings
	}
	return tube.ReadsSegments | tube.AddsGeometry
}

// Apply caps the first and last segments that have a length.
func (g *CapGenerator) Apply(ctx *tube.BuildContext) {
	switch g.cfg.Type {
	case SpikeCap:
		first, last := firstSegment(ctx), lastSegment(ctx)
		if first == nil {
			return
		}
		startID, endID := first.ID, last.ID
		if g.cfg.Start && g.cfg.End && first == last {
			// One segment carries both tips; give each spike its own half.
			half, ok := ctx.Split(first.ID)
			if !ok {
				return
			}
			endID = half
		}
		if g.cfg.Start {
			g.spike(ctx, startID, true)
		}
		if g.cfg.End {
			g.spike(ctx, endID, false)
		}
	case RoundCap:
		if s := firstSegment(ctx); g.cfg.Start && s != nil {
			ctx.AddAttachment(Hemisphere(s.StartCenter, s.StartCenter.Sub(s.EndCenter), ctx.FaceCount, ctx.Radius, true))
		}
		if s := lastSegment(ctx); g.cfg.End && s != nil {
			ctx.AddAttachment(Hemisphere(s.EndCenter, s.EndCenter.Sub(s.StartCenter), ctx.FaceCount, ctx.Radius, false))
		}
	default:
		ctx.Log.Warn("unknown cap type", zap.String("type", string(g.cfg.Type)))
	}
}

func firstSegment(ctx *tube.BuildContext) *tube.Segment {
	for _, s := range ctx.Segments {
		if !s.Collapsed {
			return s
		}
	}
	return nil
}

func lastSegment(ctx *tube.BuildContext) *tube.Segment {
	for i := len(ctx.Segments) - 1; i >= 0; i-- {
		if s := ctx.Segments[i]; !s.Collapsed {
			return s
		}
	}
	return nil
}

// Hemisphere builds a dome of faceCount/2 rings by faceCount/2 slices whose
// pole points along out and whose rim lies in the plane through center.
func Hemisphere(center, out pmath.Vec3, faceCount int, radius float32, start bool) *tube.Attachment {
	rings := max(faceCount/2, 1)
	slices := max(faceCount/2, 1)

	roll := math32.Pi / 2
	if start {
		roll = -roll
	}
	rot := tube.Orientation(out).Mul(pmath.QuatFromAxisAngle(pmath.Forward, roll))

	att := &tube.Attachment{Kind: tube.CapAttachment}
	for r := 0; r <= rings; r++ {
		theta := math32.Pi * float32(r) / float32(rings)
		sinT, cosT := math32.Sin(theta), math32.Cos(theta)
		v := float32(r) / float32(rings)
		if start {
			v = 1 - v
		}
		for s := 0; s <= slices; s++ {
			phi := math32.Pi * float32(s) / float32(slices)
			local := pmath.Vec3{
				X: radius * sinT * math32.Cos(phi),
				Y: radius * cosT,
				Z: radius * sinT * math32.Sin(phi),
			}
			off := rot.Rotate(local)
			att.AddVertex(center.Add(off), off.Normalize(), pmath.Vec2{X: float32(s) / float32(slices), Y: v})
		}
	}

	for r := 0; r < rings; r++ {
		for s := 0; s < slices; s++ {
			cur := r*(slices+1) + s
			next := cur + slices + 1
			att.AddTriangle(cur, cur+1, next)
			att.AddTriangle(next, cur+1, next+1)
		}
	}
	return att
}

// spike bisects the end segment and pulls each ring of the run toward its
// center by the falloff curve, reaching the tip at the path end.
func (g *CapGenerator) spike(ctx *tube.BuildContext, id tube.SegmentID, atStart bool) {
	run := ctx.Bisect(id, g.cfg.SplitLevels)
	curve := g.cfg.EndCurve
	if atStart {
		curve = g.cfg.StartCurve
	}

	k := float32(len(run))
	for q, sid := range run {
		s, ok := ctx.Segment(sid)
		if !ok {
			continue
		}
		// 0 at the junction with the rest of the tube, 1 at the tip.
		s0, s1 := float32(q)/k, float32(q+1)/k
		if atStart {
			s0, s1 = 1-s0, 1-s1
		}
		taper(s, false, curve.Evaluate(s0))
		taper(s, true, curve.Evaluate(s1))
	}
}

// taper scales one ring of s about its center.
func taper(s *tube.Segment, end bool, scale float32) {
	center, side := s.StartCenter, 0
	if end {
		center, side = s.EndCenter, 1
	}
	for f := 0; f < s.FaceCount(); f++ {
		i := 2*f + side
		s.Vertices[i] = center.Lerp(s.Vertices[i], scale)
	}
}
