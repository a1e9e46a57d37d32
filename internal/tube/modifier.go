package tube

import (
	"strings"

	"go.uber.org/zap"
)

// Access declares what a modifier stage touches in the build context.
type Access uint8

const (
	// ReadsSegments stages only inspect the segment list.
	ReadsSegments Access = 1 << iota
	// MovesRings stages translate ring vertices of existing segments.
	MovesRings
	// InsertsSegments stages change the segment count or order.
	InsertsSegments
	// AddsGeometry stages append attachments.
	AddsGeometry
)

func (a Access) String() string {
	var parts []string
	for _, p := range []struct {
		flag Access
		name string
	}{
		{ReadsSegments, "read"},
		{MovesRings, "move"},
		{InsertsSegments, "insert"},
		{AddsGeometry, "add"},
	} {
		if a&p.flag != 0 {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "|")
}

// Modifier is one stage of post-processing over the generated segments.
type Modifier interface {
	Name() string
	Enabled() bool
	Access() Access
	Apply(ctx *BuildContext)
}

// Pipeline runs modifiers in order.
type Pipeline []Modifier

// Active reports whether any stage is enabled.
func (p Pipeline) Active() bool {
	for _, m := range p {
		if m.Enabled() {
			return true
		}
	}
	return false
}

// Run applies every enabled stage to ctx.
func (p Pipeline) Run(ctx *BuildContext) {
	for _, m := range p {
		if !m.Enabled() {
			continue
		}
		segments, attachments := len(ctx.Segments), len(ctx.Attachments)
		m.Apply(ctx)

		access := m.Access()
		if access&InsertsSegments == 0 && len(ctx.Segments) != segments {
			ctx.Log.Warn("modifier changed segment count without declaring it",
				zap.String("modifier", m.Name()),
				zap.Int("before", segments),
				zap.Int("after", len(ctx.Segments)))
			ctx.reindex(0)
		}
		ctx.Log.Debug("modifier applied",
			zap.String("modifier", m.Name()),
			zap.Stringer("access", access),
			zap.Int("segments", len(ctx.Segments)),
			zap.Int("attachments", len(ctx.Attachments)-attachments))
	}
}
