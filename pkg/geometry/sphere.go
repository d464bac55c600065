package geometry

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Surface
	Center r3.Vector
	Color  r3.Vector // Constant diffuse color

	radius  float64
	radius2 float64 // Cached radius*radius
}

// NewSphere creates a new sphere
func NewSphere(center r3.Vector, radius float64, surface Surface, color r3.Vector) *Sphere {
	return &Sphere{
		Surface: surface,
		Center:  center,
		Color:   color,
		radius:  radius,
		radius2: radius * radius,
	}
}

// Radius returns the sphere radius
func (s *Sphere) Radius() float64 {
	return s.radius
}

// SolveQuadratic solves a*x² + b*x + c = 0 and returns the real roots with
// x0 <= x1. Uses the cancellation-free form q = -(b + sign(b)*sqrt(d))/2.
func SolveQuadratic(a, b, c float64) (x0, x1 float64, ok bool) {
	discr := b*b - 4*a*c
	if discr < 0 {
		return 0, 0, false
	}
	if discr == 0 {
		x := -0.5 * b / a
		return x, x, true
	}

	var q float64
	if b > 0 {
		q = -0.5 * (b + math.Sqrt(discr))
	} else {
		q = -0.5 * (b - math.Sqrt(discr))
	}
	x0, x1 = q/a, c/q
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	return x0, x1, true
}

// Intersect tests if a ray intersects with the sphere. A ray starting inside
// the sphere hits the far side.
func (s *Sphere) Intersect(ray core.Ray) (Intersection, bool) {
	// Quadratic equation coefficients: at² + bt + c = 0
	l := ray.Origin.Sub(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(l)
	c := l.Dot(l) - s.radius2

	t0, t1, ok := SolveQuadratic(a, b, c)
	if !ok || t1 < 0 {
		return Intersection{}, false
	}

	t := t0
	if t0 < 0 {
		t = t1
	}
	if !core.IsFinite(t) {
		return Intersection{}, false
	}

	return Intersection{T: t}, true
}

// SurfaceProperties returns the outward normal; spheres carry no texture coordinates
func (s *Sphere) SurfaceProperties(point, incoming r3.Vector, index int, uv r2.Point) (r3.Vector, r2.Point) {
	return point.Sub(s.Center).Normalize(), r2.Point{}
}

// DiffuseColorAt returns the sphere's constant color
func (s *Sphere) DiffuseColorAt(st r2.Point) r3.Vector {
	return s.Color
}

func (s *Sphere) primitive() {}
