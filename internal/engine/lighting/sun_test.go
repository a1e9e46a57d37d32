package lighting

import (
	"testing"

	"github.com/chewxy/math32"

	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name               string
		azimuth, elevation float32
		want               pmath.Vec3
	}{
		{"zenith", 0, 90, pmath.Vec3{Y: 1}},
		{"front horizon", 0, 0, pmath.Vec3{Z: 1}},
		{"right horizon", 90, 0, pmath.Vec3{X: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elevation)
			if !got.ApproxEqual(tt.want, 1e-5) {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
			}
			if l := got.Length(); math32.Abs(l-1) > 1e-5 {
				t.Errorf("length = %v, want 1", l)
			}
		})
	}
}
