package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	t := c.Tube
	if t.Radius <= 0 {
		err = multierr.Append(err, fmt.Errorf("tube.radius must be positive, got %v", t.Radius))
	}
	if t.FaceCount < 0 {
		err = multierr.Append(err, fmt.Errorf("tube.face_count must not be negative, got %d", t.FaceCount))
	}

	m := c.Modifiers
	seen := make(map[string]bool, len(m.Order))
	for _, name := range m.Order {
		switch name {
		case ModifierJoint, ModifierCap, ModifierSplitter:
		default:
			err = multierr.Append(err, fmt.Errorf("modifiers.order: unknown modifier %q", name))
			continue
		}
		if seen[name] {
			err = multierr.Append(err, fmt.Errorf("modifiers.order: %q listed twice", name))
		}
		seen[name] = true
	}

	if j := m.Joint; j.Enabled {
		if j.Distance < 0 {
			err = multierr.Append(err, fmt.Errorf("modifiers.joint.distance must not be negative, got %v", j.Distance))
		}
		if j.PointsPerCurve < 2 {
			err = multierr.Append(err, fmt.Errorf("modifiers.joint.points_per_curve must be at least 2, got %d", j.PointsPerCurve))
		}
		if j.BlendRange <= 0 || j.BlendRange > 0.5 {
			err = multierr.Append(err, fmt.Errorf("modifiers.joint.blend_range must be in (0, 0.5], got %v", j.BlendRange))
		}
		if j.CornerTolerance < 0 {
			err = multierr.Append(err, fmt.Errorf("modifiers.joint.corner_tolerance must not be negative, got %v", j.CornerTolerance))
		}
	}

	if cp := m.Cap; cp.Enabled {
		if cp.Type != "round" && cp.Type != "spike" {
			err = multierr.Append(err, fmt.Errorf("modifiers.cap.type must be round or spike, got %q", cp.Type))
		}
		if cp.SplitLevels < 0 || cp.SplitLevels > 5 {
			err = multierr.Append(err, fmt.Errorf("modifiers.cap.split_levels must be in [0, 5], got %d", cp.SplitLevels))
		}
		err = multierr.Append(err, validateCurve("modifiers.cap.start_curve", cp.StartCurve))
		err = multierr.Append(err, validateCurve("modifiers.cap.end_curve", cp.EndCurve))
	}

	if s := m.Splitter; s.Enabled && s.TextureTileSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("modifiers.splitter.texture_tile_size must be positive, got %v", s.TextureTileSize))
	}

	if c.Viewer.Width < 0 || c.Viewer.Height < 0 {
		err = multierr.Append(err, fmt.Errorf("viewer size must not be negative, got %dx%d", c.Viewer.Width, c.Viewer.Height))
	}
	return err
}

func validateCurve(key string, keys []Keyframe) error {
	for i := 1; i < len(keys); i++ {
		if keys[i].T <= keys[i-1].T {
			return fmt.Errorf("%s: keyframe %d t=%v not after t=%v", key, i, keys[i].T, keys[i-1].T)
		}
	}
	return nil
}
