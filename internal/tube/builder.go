package tube

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tubemesh/internal/logger"
	"github.com/Faultbox/tubemesh/internal/pathcfg"
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// Builder owns the mesh of one path. The host mutates the path, then calls
// IncrementalUpdate once per frame; only the touched segments are rebuilt.
//
// The base tube (one segment per point pair) is kept up to date in place.
// When modifiers are configured they run on a copy of it on every commit,
// so incremental and full rebuilds always produce the same mesh.
//
// Builder is not safe for concurrent use.
type Builder struct {
	path     *pathcfg.Config
	pipeline Pipeline
	target   Target
	log      *zap.Logger

	segments []*Segment
	index    map[SegmentID]int
	base     *Mesh
	mesh     *Mesh

	built     bool
	faceCount int
	radius    float32
}

// Option configures a Builder.
type Option func(*Builder)

// WithModifiers sets the post-processing stages, run in the given order.
func WithModifiers(mods ...Modifier) Option {
	return func(b *Builder) {
		b.pipeline = append(Pipeline(nil), mods...)
	}
}

// WithTarget sets where committed meshes are sent.
func WithTarget(t Target) Option {
	return func(b *Builder) {
		b.target = t
	}
}

// WithLogger overrides the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		b.log = l
	}
}

// NewBuilder creates a builder for path. Nothing is generated until the
// first FullRebuild or IncrementalUpdate.
func NewBuilder(path *pathcfg.Config, opts ...Option) *Builder {
	b := &Builder{
		path: path,
		log:  logger.Named("tube"),
		mesh: &Mesh{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Path returns the path the builder reads from.
func (b *Builder) Path() *pathcfg.Config {
	return b.path
}

// Pipeline returns the configured modifier stages.
func (b *Builder) Pipeline() Pipeline {
	return b.pipeline
}

// FullRebuild regenerates every segment from the path and commits the result.
func (b *Builder) FullRebuild() {
	n := b.path.FaceCount()
	r := b.path.Radius()
	points := b.path.Points()

	segments := make([]*Segment, 0, len(points)-1)
	for k := 0; k+1 < len(points); k++ {
		s, ok := BuildSegment(points[k], points[k+1], k, n, r)
		if !ok {
			b.log.Warn("degenerate segment", zap.Int("index", k))
			s = collapsedSegment(points[k], k, n, r)
		}
		segments = append(segments, s)
	}

	b.segments = segments
	b.reindex()
	b.base = flattenSegments(segments, n)
	b.built = true
	b.faceCount, b.radius = n, r

	b.log.Debug("full rebuild",
		zap.Int("points", len(points)),
		zap.Int("faces", n))
	b.commit()
	b.path.ClearDirty()
}

// IncrementalUpdate applies the path's pending changes. It falls back to a
// full rebuild before the first build, after a shape change, when every
// point is dirty, or when the changes cannot be replayed.
func (b *Builder) IncrementalUpdate() {
	if !b.path.HasDirty() && b.built {
		return
	}
	if !b.built || b.path.ShapeChanged() ||
		b.path.FaceCount() != b.faceCount || b.path.Radius() != b.radius {
		b.FullRebuild()
		return
	}

	changes := b.path.Dirty()
	if len(changes) >= b.path.PointCount() {
		b.log.Debug("every point dirty, rebuilding", zap.Int("changes", len(changes)))
		b.FullRebuild()
		return
	}

	u := newRegionUpdater(b.segments, b.base, b.path.Points(), b.faceCount, b.radius, b.log)
	if !u.apply(changes) {
		b.log.Warn("incremental update failed, rebuilding", zap.Int("changes", len(changes)))
		b.FullRebuild()
		return
	}
	b.segments = u.segments
	if u.structural {
		b.reindex()
	}

	b.log.Debug("incremental update",
		zap.Int("changes", len(changes)),
		zap.Int("rebuilt", len(u.fresh)+len(u.stale)))
	b.commit()
	b.path.ClearDirty()
}

// commit hands the current geometry to the target. Without modifiers the
// patched base buffers are committed as they are; otherwise the pipeline
// runs on a copy of the base segments and the result is re-flattened.
func (b *Builder) commit() {
	if b.pipeline.Active() {
		b.assemble()
	} else {
		b.applyPatched()
	}
	b.mesh.updateBounds()
	b.log.Debug("mesh committed",
		zap.Int("vertices", b.mesh.VertexCount()),
		zap.Int("triangles", b.mesh.TriangleCount()))
	if b.target != nil {
		b.target.Commit(b.mesh)
	}
}

func (b *Builder) applyPatched() {
	b.mesh = b.base
}

func (b *Builder) assemble() {
	ctx := NewBuildContext(cloneSegments(b.segments), b.faceCount, b.radius)
	ctx.Log = b.log
	b.pipeline.Run(ctx)
	b.mesh = ctx.Flatten()
}

func (b *Builder) reindex() {
	b.index = make(map[SegmentID]int, len(b.segments))
	for k, s := range b.segments {
		b.index[s.ID] = k
	}
}

// Mesh returns the last committed mesh. The buffers are reused by later
// updates; Clone them to keep a snapshot.
func (b *Builder) Mesh() *Mesh {
	return b.mesh
}

// PointCount returns the number of anchor points.
func (b *Builder) PointCount() int {
	return b.path.PointCount()
}

// GetPoint returns anchor point i.
func (b *Builder) GetPoint(i int) (pmath.Vec3, bool) {
	return b.path.GetPoint(i)
}

// SegmentCount returns the number of base segments.
func (b *Builder) SegmentCount() int {
	return len(b.segments)
}

// IsSegmentIndexValid reports whether i addresses a base segment.
func (b *Builder) IsSegmentIndexValid(i int) bool {
	return i >= 0 && i < len(b.segments)
}

// GetSegmentInfo returns a copy of base segment i.
func (b *Builder) GetSegmentInfo(i int) (*Segment, bool) {
	if !b.IsSegmentIndexValid(i) {
		return nil, false
	}
	s, err := b.segments[i].Snapshot()
	if err != nil {
		b.log.Warn("segment snapshot failed", zap.Int("segment", i), zap.Error(err))
		return nil, false
	}
	return s, true
}

// SegmentIndex returns the current position of the base segment with id.
func (b *Builder) SegmentIndex(id SegmentID) (int, bool) {
	k, ok := b.index[id]
	return k, ok
}
