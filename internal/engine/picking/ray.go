// Package picking casts rays from the screen to select and drag anchor points.
package picking

import (
	"github.com/chewxy/math32"

	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    pmath.Vec3
	Direction pmath.Vec3 // Normalized direction
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj pmath.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := invViewProj.MulVec4(pmath.Vec4{ndcX, ndcY, -1, 1}).Project()
	far := invViewProj.MulVec4(pmath.Vec4{ndcX, ndcY, 1, 1}).Project()

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) pmath.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// DistanceToPoint returns how far p lies from the ray and the distance along
// the ray of its closest approach. Points behind the origin measure to the origin.
func (r Ray) DistanceToPoint(p pmath.Vec3) (dist, t float32) {
	t = max(p.Sub(r.Origin).Dot(r.Direction), 0)
	return p.Distance(r.At(t)), t
}

// IntersectPlane intersects the ray with the plane through point with the
// given normal. ok is false when the ray is parallel or the plane is behind.
func (r Ray) IntersectPlane(point, normal pmath.Vec3) (hit pmath.Vec3, ok bool) {
	denom := r.Direction.Dot(normal)
	if math32.Abs(denom) < 1e-6 {
		return pmath.Vec3{}, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return pmath.Vec3{}, false
	}
	return r.At(t), true
}

// IntersectAABB tests the ray against a box by the slab method and returns
// the entry distance, or the exit distance when the ray starts inside.
func (r Ray) IntersectAABB(lo, hi pmath.Vec3) (t float32, hit bool) {
	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	bmin := [3]float32{lo.X, lo.Y, lo.Z}
	bmax := [3]float32{hi.X, hi.Y, hi.Z}

	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < bmin[axis] || origin[axis] > bmax[axis] {
				return 0, false
			}
			continue
		}
		t1 := (bmin[axis] - origin[axis]) / dir[axis]
		t2 := (bmax[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// PickPoint returns the index of the point closest to the camera among those
// within radius of the ray.
func PickPoint(r Ray, points []pmath.Vec3, radius float32) (int, bool) {
	best, bestT := -1, float32(math32.MaxFloat32)
	for i, p := range points {
		dist, t := r.DistanceToPoint(p)
		if dist <= radius && t < bestT {
			best, bestT = i, t
		}
	}
	return best, best >= 0
}
