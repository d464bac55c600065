package geometry

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Triangle represents a single triangle defined by three vertices and their
// texture coordinates
type Triangle struct {
	V0, V1, V2 r3.Vector // The three vertices
	S0, S1, S2 r2.Point  // Per-vertex texture coordinates
}

// NewTriangle creates a new triangle with zero texture coordinates
func NewTriangle(v0, v1, v2 r3.Vector) Triangle {
	return Triangle{V0: v0, V1: v1, V2: v2}
}

// Intersect tests the ray against the triangle. Only the side facing the
// ray with D·e2 >= 0 is hit. Returns the ray parameter and barycentric
// coordinates (b1, b2) of the hit.
func (tri Triangle) Intersect(ray core.Ray) (t, b1, b2 float64, ok bool) {
	e1 := tri.V1.Sub(tri.V0)
	e2 := tri.V2.Sub(tri.V0)

	det := ray.Direction.Dot(e2)
	if det < 0 {
		return 0, 0, 0, false
	}

	s := ray.Origin.Sub(tri.V0)
	s1 := ray.Direction.Cross(e2)
	b1Num := s1.Dot(s)
	if b1Num < 0 {
		return 0, 0, 0, false
	}

	s2 := s.Cross(e1)
	tNum := s2.Dot(e2)
	if tNum < 0 {
		return 0, 0, 0, false
	}

	inv := 1 / s1.Dot(e1)
	t = tNum * inv
	b1 = b1Num * inv
	b2 = det * inv
	if 1-b1-b2 < 0 {
		return 0, 0, 0, false
	}
	if !core.IsFinite(t) || t < 0 {
		return 0, 0, 0, false
	}

	return t, b1, b2, true
}

// Normal returns the unit face normal
func (tri Triangle) Normal() r3.Vector {
	e0 := tri.V1.Sub(tri.V0).Normalize()
	e1 := tri.V2.Sub(tri.V1).Normalize()
	return e0.Cross(e1).Normalize()
}

// TexCoord interpolates the vertex texture coordinates at barycentric (u, v)
func (tri Triangle) TexCoord(u, v float64) r2.Point {
	return tri.S0.Mul(1 - u - v).Add(tri.S1.Mul(u)).Add(tri.S2.Mul(v))
}
