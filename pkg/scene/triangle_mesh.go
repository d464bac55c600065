package scene

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewPyramidScene creates a square pyramid mesh turned 45 degrees about its
// vertical axis, standing on a checkered floor
func NewPyramidScene(configOverrides ...Config) *Scene {
	config := DefaultConfig()
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}
	s := New(config)

	s.AddPrimitive(newPyramid())
	s.AddPrimitive(NewGroundQuad(-8, 8, -3, -4, -20, geometry.DefaultSurface()))

	s.AddLight(lights.NewPointLight(core.NewVec3(-10, 20, 5), core.Splat(0.6)))
	s.AddLight(lights.NewPointLight(core.NewVec3(15, 10, -5), core.Splat(0.3)))

	return s
}

func newPyramid() *geometry.TriangleMesh {
	vertices := []r3.Vector{
		core.NewVec3(-2, -3, -8),
		core.NewVec3(2, -3, -8),
		core.NewVec3(2, -3, -12),
		core.NewVec3(-2, -3, -12),
		core.NewVec3(0, 0, -10), // apex
	}
	// Winding chosen so the faces toward the camera pass the one-sided triangle test
	faces := []int{
		4, 0, 1,
		4, 1, 2,
		0, 4, 3,
		4, 3, 2,
	}

	rotation := core.NewVec3(0, math.Pi/4, 0)
	center := core.NewVec3(0, -3, -10)

	surface := geometry.DefaultSurface()
	surface.Phong = material.SpecularProperties{Shininess: 60, DiffuseWeight: 0.7, SpecularWeight: 0.4}

	mesh, err := geometry.NewTriangleMesh(vertices, faces, surface, &geometry.TriangleMeshOptions{
		Texture:  material.NewSolidColor(core.NewVec3(0.86, 0.72, 0.45)),
		Rotation: &rotation,
		Center:   &center,
	})
	if err != nil {
		panic(err)
	}
	return mesh
}
