package picking

import (
	"testing"

	"github.com/chewxy/math32"

	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

func TestScreenToRayCenter(t *testing.T) {
	eye := pmath.Vec3{Z: 5}
	view := pmath.LookAt(eye, pmath.Vec3{}, pmath.Up)
	proj := pmath.Perspective(math32.Pi/4, 1, 0.1, 100)
	inv, ok := proj.Mul(view).Inverse()
	if !ok {
		t.Fatal("view-projection not invertible")
	}

	r := ScreenToRay(50, 50, 100, 100, inv)
	if !r.Direction.ApproxEqual(pmath.Vec3{Z: -1}, 1e-3) {
		t.Errorf("Direction = %v, want (0, 0, -1)", r.Direction)
	}
	if d, _ := r.DistanceToPoint(pmath.Vec3{}); d > 1e-3 {
		t.Errorf("ray misses the look-at target by %v", d)
	}
}

func TestDistanceToPoint(t *testing.T) {
	r := Ray{Direction: pmath.Vec3{Z: 1}}
	tests := []struct {
		name      string
		p         pmath.Vec3
		wantDist  float32
		wantAlong float32
	}{
		{"on ray", pmath.Vec3{Z: 3}, 0, 3},
		{"beside", pmath.Vec3{X: 2, Z: 1}, 2, 1},
		{"behind", pmath.Vec3{Z: -4}, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, along := r.DistanceToPoint(tt.p)
			if math32.Abs(dist-tt.wantDist) > 1e-5 || math32.Abs(along-tt.wantAlong) > 1e-5 {
				t.Errorf("DistanceToPoint(%v) = %v, %v, want %v, %v", tt.p, dist, along, tt.wantDist, tt.wantAlong)
			}
		})
	}
}

func TestIntersectPlane(t *testing.T) {
	r := Ray{Origin: pmath.Vec3{Y: 5}, Direction: pmath.Vec3{Y: -1}}
	hit, ok := r.IntersectPlane(pmath.Vec3{Y: 1}, pmath.Up)
	if !ok || !hit.ApproxEqual(pmath.Vec3{Y: 1}, 1e-6) {
		t.Errorf("IntersectPlane() = %v, %v, want (0, 1, 0), true", hit, ok)
	}
	if _, ok := r.IntersectPlane(pmath.Vec3{Y: 10}, pmath.Up); ok {
		t.Error("plane behind the ray reported a hit")
	}
	side := Ray{Direction: pmath.Vec3{X: 1}}
	if _, ok := side.IntersectPlane(pmath.Vec3{Y: 1}, pmath.Up); ok {
		t.Error("parallel ray reported a hit")
	}
}

func TestIntersectAABB(t *testing.T) {
	lo, hi := pmath.Vec3{X: -1, Y: -1, Z: -1}, pmath.Vec3{X: 1, Y: 1, Z: 1}
	tests := []struct {
		name  string
		ray   Ray
		wantT float32
		hit   bool
	}{
		{"front", Ray{Origin: pmath.Vec3{Z: 5}, Direction: pmath.Vec3{Z: -1}}, 4, true},
		{"inside", Ray{Direction: pmath.Vec3{X: 1}}, 1, true},
		{"miss", Ray{Origin: pmath.Vec3{Y: 3, Z: 5}, Direction: pmath.Vec3{Z: -1}}, 0, false},
		{"away", Ray{Origin: pmath.Vec3{Z: 5}, Direction: pmath.Vec3{Z: 1}}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(lo, hi)
			if hit != tt.hit || (hit && math32.Abs(got-tt.wantT) > 1e-5) {
				t.Errorf("IntersectAABB() = %v, %v, want %v, %v", got, hit, tt.wantT, tt.hit)
			}
		})
	}
}

func TestPickPoint(t *testing.T) {
	r := Ray{Origin: pmath.Vec3{Z: 10}, Direction: pmath.Vec3{Z: -1}}
	points := []pmath.Vec3{
		{X: 5},
		{X: 0.05, Z: -2},
		{X: -0.05, Z: 1},
	}
	got, ok := PickPoint(r, points, 0.1)
	if !ok || got != 2 {
		t.Errorf("PickPoint() = %d, %v, want 2, true", got, ok)
	}
	if _, ok := PickPoint(r, points[:1], 0.1); ok {
		t.Error("PickPoint() picked a point off the ray")
	}
}
