package integrator

import (
	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// CastRay returns the radiance arriving along ray. depth is the number of
	// bounces already taken; primary rays start at 0.
	CastRay(ray core.Ray, sc *scene.Scene, depth int) r3.Vector
}

// RayCounts tallies the rays an integrator has cast
type RayCounts struct {
	Primary   int64 // Camera rays (depth 0)
	Secondary int64 // Reflection and refraction rays
	Shadow    int64 // Occlusion tests toward lights
}

// Add returns the sum of two tallies
func (c RayCounts) Add(other RayCounts) RayCounts {
	return RayCounts{
		Primary:   c.Primary + other.Primary,
		Secondary: c.Secondary + other.Secondary,
		Shadow:    c.Shadow + other.Shadow,
	}
}

// Total returns the number of rays of every kind
func (c RayCounts) Total() int64 {
	return c.Primary + c.Secondary + c.Shadow
}
