package geometry

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Intersection describes where a ray first meets a primitive
type Intersection struct {
	T     float64  // Ray parameter of the hit, finite and >= 0
	Index int      // Sub-element hit (triangle index for meshes, 0 for spheres)
	UV    r2.Point // Barycentric (b1, b2) for meshes, zero for spheres
}

// Primitive is a renderable surface. The set of implementations is closed:
// *Sphere and *TriangleMesh.
type Primitive interface {
	// Intersect returns the nearest hit with t >= 0
	Intersect(ray core.Ray) (Intersection, bool)
	// SurfaceProperties returns the unit normal and texture coordinates at a hit point
	SurfaceProperties(point, incoming r3.Vector, index int, uv r2.Point) (normal r3.Vector, st r2.Point)
	// DiffuseColorAt returns the diffuse albedo at texture coordinates st
	DiffuseColorAt(st r2.Point) r3.Vector

	Material() material.Material
	IOR() float64
	Specular() material.SpecularProperties

	primitive()
}

// Surface holds the per-primitive shading attributes shared by every variant
type Surface struct {
	MaterialType    material.Material
	RefractiveIndex float64
	Phong           material.SpecularProperties
}

// DefaultSurface returns a diffuse surface with IOR 1.3 and default Phong parameters
func DefaultSurface() Surface {
	return Surface{
		MaterialType:    material.DiffuseAndGlossy,
		RefractiveIndex: 1.3,
		Phong:           material.DefaultSpecular(),
	}
}

// Material returns the shading model
func (s Surface) Material() material.Material { return s.MaterialType }

// IOR returns the index of refraction
func (s Surface) IOR() float64 { return s.RefractiveIndex }

// Specular returns the Phong parameters
func (s Surface) Specular() material.SpecularProperties { return s.Phong }

// defaultPattern colors surfaces without their own color source
var defaultPattern = material.DefaultCheckerboard()
