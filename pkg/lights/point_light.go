package lights

import (
	"github.com/golang/geo/r3"
)

// PointLight is an isotropic point light with RGB intensity
type PointLight struct {
	Origin    r3.Vector
	Intensity r3.Vector
}

// NewPointLight creates a point light at origin
func NewPointLight(origin, intensity r3.Vector) *PointLight {
	return &PointLight{Origin: origin, Intensity: intensity}
}

// Sample returns the direction and squared distance from point to the light.
// A point at the light position yields a zero direction.
func (l *PointLight) Sample(point r3.Vector) LightSample {
	toLight := l.Origin.Sub(point)
	return LightSample{
		Direction: toLight.Normalize(),
		Distance2: toLight.Norm2(),
		Intensity: l.Intensity,
	}
}
