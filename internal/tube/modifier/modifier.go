// Package modifier provides the post-processing stages of the tube
// pipeline: corner connectors, end caps and texture-length splitting.
package modifier

import (
	"fmt"

	"github.com/Faultbox/tubemesh/internal/config"
	"github.com/Faultbox/tubemesh/internal/tube"
)

// FromConfig builds the pipeline described by cfg, in cfg.Order. Disabled
// stages are kept so they can be toggled without rebuilding the pipeline.
func FromConfig(cfg config.ModifiersConfig) (tube.Pipeline, error) {
	var p tube.Pipeline
	for _, name := range cfg.Order {
		switch name {
		case config.ModifierJoint:
			j := cfg.Joint
			p = append(p, NewJointConnector(JointConfig{
				Enabled:         j.Enabled,
				Distance:        j.Distance,
				PointsPerCurve:  j.PointsPerCurve,
				BlendRange:      j.BlendRange,
				CornerTolerance: j.CornerTolerance,
			}))
		case config.ModifierCap:
			c := cfg.Cap
			p = append(p, NewCapGenerator(CapConfig{
				Enabled:     c.Enabled,
				Type:        CapType(c.Type),
				Start:       c.Start,
				End:         c.End,
				SplitLevels: c.SplitLevels,
				StartCurve:  curveFromConfig(c.StartCurve, c.Smooth),
				EndCurve:    curveFromConfig(c.EndCurve, c.Smooth),
			}))
		case config.ModifierSplitter:
			p = append(p, NewSegmentSplitter(SplitterConfig{
				Enabled:         cfg.Splitter.Enabled,
				TextureTileSize: cfg.Splitter.TextureTileSize,
			}))
		default:
			return nil, fmt.Errorf("unknown modifier %q", name)
		}
	}
	return p, nil
}

func curveFromConfig(keys []config.Keyframe, smooth bool) Curve {
	if len(keys) == 0 {
		return LinearFalloff()
	}
	out := make([]Keyframe, len(keys))
	for i, k := range keys {
		out[i] = Keyframe{T: k.T, Value: k.Value}
	}
	return NewCurve(out, smooth)
}
