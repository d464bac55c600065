package scene

import (
	"github.com/golang/geo/r2"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var unitSquareST = []r2.Point{
	core.NewVec2(0, 0),
	core.NewVec2(1, 0),
	core.NewVec2(1, 1),
	core.NewVec2(0, 1),
}

// NewDefaultScene creates the demo scene: a glossy sphere, a glass sphere
// in front of it and a checkered floor, lit by two point lights
func NewDefaultScene(configOverrides ...Config) *Scene {
	config := DefaultConfig()
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}
	s := New(config)

	glossy := geometry.DefaultSurface()
	glossy.RefractiveIndex = 1.3
	glossy.Phong = material.SpecularProperties{Shininess: 25, DiffuseWeight: 0.8, SpecularWeight: 0.2}
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(-1, 0, -12), 2, glossy, core.NewVec3(0.6, 0.7, 0.8)))

	glass := geometry.DefaultSurface()
	glass.MaterialType = material.ReflectionAndRefraction
	glass.RefractiveIndex = 1.5
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0.5, -0.5, -8), 1.5, glass, core.Splat(0.2)))

	s.AddPrimitive(NewGroundQuad(-5, 5, -3, -6, -16, glossy))

	s.AddLight(lights.NewPointLight(core.NewVec3(-20, 70, 20), core.Splat(0.5)))
	s.AddLight(lights.NewPointLight(core.NewVec3(30, 50, -12), core.Splat(0.5)))

	return s
}

// NewPlaneScene creates a single textured floor triangle under one light
func NewPlaneScene(configOverrides ...Config) *Scene {
	config := DefaultConfig()
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}
	s := New(config)

	tri := geometry.Triangle{
		V0: core.NewVec3(5, -3, -6),
		V1: core.NewVec3(5, -3, -16),
		V2: core.NewVec3(-5, -3, -16),
		S0: core.NewVec2(0.8, 0),
		S1: core.NewVec2(0, 0.8),
		S2: core.NewVec2(1, 1),
	}
	s.AddPrimitive(geometry.NewMesh([]geometry.Triangle{tri}, geometry.DefaultSurface()))
	s.AddLight(lights.NewPointLight(core.NewVec3(3, 3, 5), core.Splat(0.5)))

	return s
}

// NewEmptyScene creates a scene with no primitives; every pixel is background
func NewEmptyScene(configOverrides ...Config) *Scene {
	config := DefaultConfig()
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}
	return New(config)
}
