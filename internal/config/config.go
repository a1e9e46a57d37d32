// Package config handles tube and viewer configuration loading and management.
package config

import pmath "github.com/Faultbox/tubemesh/pkg/math"

// Config holds all settings.
type Config struct {
	Tube      TubeConfig      `yaml:"tube"`
	Modifiers ModifiersConfig `yaml:"modifiers"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TubeConfig describes the path and its cross-section.
type TubeConfig struct {
	FaceCount int          `yaml:"face_count"`
	Radius    float32      `yaml:"radius"`
	Points    [][3]float32 `yaml:"points"`
}

// Vec3Points returns the configured points as vectors.
func (t TubeConfig) Vec3Points() []pmath.Vec3 {
	out := make([]pmath.Vec3, len(t.Points))
	for i, p := range t.Points {
		out[i] = pmath.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	return out
}

// ModifiersConfig holds the post-processing stages and their order.
type ModifiersConfig struct {
	Order    []string       `yaml:"order"`
	Joint    JointConfig    `yaml:"joint"`
	Cap      CapConfig      `yaml:"cap"`
	Splitter SplitterConfig `yaml:"splitter"`
}

// Modifier names accepted in ModifiersConfig.Order.
const (
	ModifierJoint    = "joint"
	ModifierCap      = "cap"
	ModifierSplitter = "splitter"
)

// JointConfig configures the corner connector. A zero Distance follows the
// tube radius.
type JointConfig struct {
	Enabled         bool    `yaml:"enabled"`
	Distance        float32 `yaml:"distance"`
	PointsPerCurve  int     `yaml:"points_per_curve"`
	BlendRange      float32 `yaml:"blend_range"`
	CornerTolerance float32 `yaml:"corner_tolerance"`
}

// CapConfig configures end caps.
type CapConfig struct {
	Enabled     bool       `yaml:"enabled"`
	Type        string     `yaml:"type"` // round or spike
	Start       bool       `yaml:"start"`
	End         bool       `yaml:"end"`
	SplitLevels int        `yaml:"split_levels"`
	StartCurve  []Keyframe `yaml:"start_curve"`
	EndCurve    []Keyframe `yaml:"end_curve"`
	Smooth      bool       `yaml:"smooth"`
}

// Keyframe is one point of a spike falloff curve.
type Keyframe struct {
	T     float32 `yaml:"t"`
	Value float32 `yaml:"value"`
}

// SplitterConfig configures texture-length splitting.
type SplitterConfig struct {
	Enabled         bool    `yaml:"enabled"`
	TextureTileSize float32 `yaml:"texture_tile_size"`
}

// ViewerConfig holds window and interaction settings for tubeview.
type ViewerConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	MoveStep   float32 `yaml:"move_step"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tube: TubeConfig{
			FaceCount: 8,
			Radius:    0.1,
			Points: [][3]float32{
				{0, 0, 0},
				{0, 0, 2},
				{1.5, 0, 2},
				{1.5, 1.5, 3},
			},
		},
		Modifiers: ModifiersConfig{
			Order: []string{ModifierJoint, ModifierCap, ModifierSplitter},
			Joint: JointConfig{
				Enabled:         true,
				PointsPerCurve:  8,
				BlendRange:      0.25,
				CornerTolerance: 1e-4,
			},
			Cap: CapConfig{
				Enabled:     true,
				Type:        "round",
				Start:       true,
				End:         true,
				SplitLevels: 3,
				StartCurve:  []Keyframe{{T: 0, Value: 1}, {T: 1, Value: 0}},
				EndCurve:    []Keyframe{{T: 0, Value: 1}, {T: 1, Value: 0}},
			},
			Splitter: SplitterConfig{
				Enabled:         false,
				TextureTileSize: 2,
			},
		},
		Viewer: ViewerConfig{
			Width:    1280,
			Height:   720,
			VSync:    true,
			MoveStep: 0.1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
