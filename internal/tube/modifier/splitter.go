package modifier

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/tubemesh/internal/tube"
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// Texture tile sizes outside this range are clamped.
const (
	MinTileSize float32 = 0.1
	MaxTileSize float32 = 10

	maxSplitLevels = 16
)

// SplitterConfig configures a SegmentSplitter.
type SplitterConfig struct {
	Enabled         bool
	TextureTileSize float32
}

// SegmentSplitter bisects segments longer than one texture tile so the
// texture keeps its scale along the tube. Pieces alternate UV direction.
type SegmentSplitter struct {
	cfg SplitterConfig
}

// NewSegmentSplitter creates a splitter stage.
func NewSegmentSplitter(cfg SplitterConfig) *SegmentSplitter {
	cfg.TextureTileSize = pmath.Clamp(cfg.TextureTileSize, MinTileSize, MaxTileSize)
	return &SegmentSplitter{cfg: cfg}
}

func (s *SegmentSplitter) Name() string  { return "splitter" }
func (s *SegmentSplitter) Enabled() bool { return s.cfg.Enabled }

func (s *SegmentSplitter) Access() tube.Access {
	return tube.ReadsSegments | tube.InsertsSegments
}

// Apply splits every segment until none is longer than the tile size.
func (s *SegmentSplitter) Apply(ctx *tube.BuildContext) {
	tile := s.cfg.TextureTileSize
	for k := 0; k < len(ctx.Segments); {
		seg := ctx.Segments[k]
		length := seg.Length()
		if seg.Collapsed || length <= tile {
			k++
			continue
		}

		levels := int(math32.Ceil(math32.Log2(length / tile)))
		if levels > maxSplitLevels {
			ctx.Log.Warn("segment too long for texture tile, capping splits",
				zap.Float32("length", length),
				zap.Float32("tile", tile))
			levels = maxSplitLevels
		}
		run := ctx.Bisect(seg.ID, max(levels, 1))
		k += max(len(run), 1)
	}
}
