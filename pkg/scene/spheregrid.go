package scene

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) r3.Vector {
	hRad := core.DegreesToRadians(h)

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS, cubed
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.Clamp(core.NewVec3(r, g, blue), 0, 1)
}

// NewSphereGridScene creates a grid of spheres on a checkered floor. Colors
// sweep the OKLCH hue wheel; every third sphere is glass and every fifth a mirror.
func NewSphereGridScene(configOverrides ...Config) *Scene {
	config := DefaultConfig()
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}
	s := New(config)

	const (
		gridSize = 5
		spacing  = 2.2
		radius   = 0.8
		floorY   = -3.0
	)

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := (float64(i) - float64(gridSize-1)/2) * spacing
			z := -8 - float64(j)*spacing
			center := core.NewVec3(x, floorY+radius, z)

			hue := float64(i*gridSize+j) / float64(gridSize*gridSize) * 360
			lightness := 0.7 + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, 0.15, hue)

			surface := geometry.DefaultSurface()
			switch n := i*gridSize + j; {
			case n%5 == 4:
				surface.MaterialType = material.Reflection
				surface.RefractiveIndex = 12
			case n%3 == 2:
				surface.MaterialType = material.ReflectionAndRefraction
				surface.RefractiveIndex = 1.5
			}

			s.AddPrimitive(geometry.NewSphere(center, radius, surface, color))
		}
	}

	s.AddPrimitive(NewGroundQuad(-8, 8, floorY, -5, -22, geometry.DefaultSurface()))

	s.AddLight(lights.NewPointLight(core.NewVec3(-20, 70, 20), core.Splat(0.5)))
	s.AddLight(lights.NewPointLight(core.NewVec3(30, 50, -12), core.Splat(0.5)))

	return s
}
