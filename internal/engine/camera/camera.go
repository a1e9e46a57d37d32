// Package camera provides the orbit camera used by the tube viewer.
package camera

import (
	"github.com/chewxy/math32"

	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center pmath.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	FovY float32
	Near float32
	Far  float32
}

// NewOrbitCamera creates an orbit camera sized for a path a few units across.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5,
		Pitch:           0.5,
		MinDistance:     0.05,
		MaxDistance:     1000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            math32.Pi / 4,
		Near:            0.01,
		Far:             2000,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() pmath.Vec3 {
	cp := math32.Cos(c.Pitch)
	return c.Center.Add(pmath.Vec3{
		X: c.Distance * cp * math32.Sin(c.Yaw),
		Y: c.Distance * math32.Sin(c.Pitch),
		Z: c.Distance * cp * math32.Cos(c.Yaw),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() pmath.Mat4 {
	return pmath.LookAt(c.Position(), c.Center, pmath.Up)
}

// ProjectionMatrix returns the perspective projection for a viewport.
func (c *OrbitCamera) ProjectionMatrix(width, height int) pmath.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return pmath.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection(width, height int) pmath.Mat4 {
	return c.ProjectionMatrix(width, height).Mul(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = pmath.Clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = pmath.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitBounds centers the camera on a box and backs off until it fits the view.
func (c *OrbitCamera) FitBounds(lo, hi pmath.Vec3) {
	c.Center = lo.Lerp(hi, 0.5)
	radius := hi.Sub(lo).Length() / 2
	if radius <= 0 {
		radius = 1
	}
	c.Distance = pmath.Clamp(radius/math32.Sin(c.FovY/2), c.MinDistance, c.MaxDistance)
}
