// Package lighting provides the directional light used by the tube shader.
package lighting

import (
	"github.com/chewxy/math32"

	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// Light is a directional light with an ambient term.
type Light struct {
	Direction pmath.Vec3 // towards the light
	Ambient   [3]float32
	Diffuse   [3]float32
}

// DefaultLight is a white key light above and in front of the origin.
func DefaultLight() Light {
	return Light{
		Direction: SunDirection(35, 50),
		Ambient:   [3]float32{0.25, 0.25, 0.3},
		Diffuse:   [3]float32{0.85, 0.85, 0.8},
	}
}

// SunDirection converts azimuth around +Y and elevation above the horizon,
// both in degrees, to a unit vector pointing towards the light.
func SunDirection(azimuth, elevation float32) pmath.Vec3 {
	az := azimuth * math32.Pi / 180
	el := elevation * math32.Pi / 180
	return pmath.Vec3{
		X: math32.Cos(el) * math32.Sin(az),
		Y: math32.Sin(el),
		Z: math32.Cos(el) * math32.Cos(az),
	}
}
