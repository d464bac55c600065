package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewMirrorScene creates a mirror sphere flanked by a glass and a glossy
// sphere over a wide checkered floor
func NewMirrorScene(configOverrides ...Config) *Scene {
	config := DefaultConfig()
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}
	s := New(config)

	mirror := geometry.DefaultSurface()
	mirror.MaterialType = material.Reflection
	mirror.RefractiveIndex = 12
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, -0.5, -11), 2.5, mirror, core.Splat(0)))

	glass := geometry.DefaultSurface()
	glass.MaterialType = material.ReflectionAndRefraction
	glass.RefractiveIndex = 1.5
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(-3.2, -2, -8), 1, glass, core.Splat(0.2)))

	glossy := geometry.DefaultSurface()
	glossy.Phong.Shininess = 80
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(3.2, -2, -8), 1, glossy, core.NewVec3(0.9, 0.25, 0.2)))

	s.AddPrimitive(NewGroundQuad(-12, 12, -3, -4, -24, geometry.DefaultSurface()))

	s.AddLight(lights.NewPointLight(core.NewVec3(-20, 70, 20), core.Splat(0.5)))
	s.AddLight(lights.NewPointLight(core.NewVec3(30, 50, -12), core.Splat(0.5)))

	return s
}
