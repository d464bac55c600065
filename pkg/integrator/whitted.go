package integrator

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// WhittedConfig controls the shading model of a WhittedIntegrator
type WhittedConfig struct {
	// LegacyLastLight reproduces the historical diffuse shading: the color is
	// rewritten on every light iteration, specular highlights ignore
	// occlusion, and a diffuse hit in a scene without lights keeps the
	// background color.
	LegacyLastLight bool
}

// WhittedIntegrator implements recursive Whitted-style ray tracing with
// point-light shadows, Phong highlights, mirror reflection and Fresnel
// weighted refraction. An integrator keeps ray counters and must not be
// shared between goroutines.
type WhittedIntegrator struct {
	config WhittedConfig
	counts RayCounts
}

// NewWhittedIntegrator creates a new Whitted integrator
func NewWhittedIntegrator(config WhittedConfig) *WhittedIntegrator {
	return &WhittedIntegrator{config: config}
}

// Counts returns the rays cast since creation or the last Reset
func (w *WhittedIntegrator) Counts() RayCounts {
	return w.counts
}

// Reset zeroes the ray counters
func (w *WhittedIntegrator) Reset() {
	w.counts = RayCounts{}
}

// CastRay computes the color seen along ray
func (w *WhittedIntegrator) CastRay(ray core.Ray, sc *scene.Scene, depth int) r3.Vector {
	if depth == 0 {
		w.counts.Primary++
	} else {
		w.counts.Secondary++
	}

	// Past the bounce limit no more light is gathered
	if depth > sc.MaxDepth {
		return r3.Vector{}
	}

	hit, ok := Trace(ray, sc.Primitives())
	if !ok {
		return sc.BackgroundColor
	}

	prim := hit.Primitive
	point := ray.At(hit.TNear)
	normal, st := prim.SurfaceProperties(point, ray.Direction, hit.Index, hit.UV)

	switch prim.Material() {
	case material.ReflectionAndRefraction:
		return w.shadeDielectric(ray, sc, depth, point, normal, prim.IOR())
	case material.Reflection:
		return w.shadeMirror(ray, sc, depth, point, normal, prim.IOR())
	default:
		return w.shadeDiffuse(ray, sc, hit, point, normal, st)
	}
}

// shadeDielectric blends reflection and refraction by the Fresnel term
func (w *WhittedIntegrator) shadeDielectric(ray core.Ray, sc *scene.Scene, depth int, point, normal r3.Vector, ior float64) r3.Vector {
	kr := material.Fresnel(ray.Direction, normal, ior)

	reflectDir := material.Reflect(ray.Direction, normal).Normalize()
	reflectRay := core.NewRay(offsetAlong(point, normal, reflectDir, sc.Epsilon), reflectDir)
	color := w.CastRay(reflectRay, sc, depth+1).Mul(kr)

	// Total internal reflection sends nothing through the surface
	if kr < 1 {
		refractDir := material.Refract(ray.Direction, normal, ior).Normalize()
		refractRay := core.NewRay(offsetAlong(point, normal, refractDir, sc.Epsilon), refractDir)
		color = color.Add(w.CastRay(refractRay, sc, depth+1).Mul(1 - kr))
	}

	return color
}

// shadeMirror follows the reflected ray only
func (w *WhittedIntegrator) shadeMirror(ray core.Ray, sc *scene.Scene, depth int, point, normal r3.Vector, ior float64) r3.Vector {
	kr := material.Fresnel(ray.Direction, normal, ior)
	reflectDir := material.Reflect(ray.Direction, normal)
	reflectRay := core.NewRay(offsetAlong(point, normal, reflectDir, sc.Epsilon), reflectDir)
	return w.CastRay(reflectRay, sc, depth+1).Mul(kr)
}

// shadeDiffuse evaluates shadowed diffuse plus Phong specular lighting
func (w *WhittedIntegrator) shadeDiffuse(ray core.Ray, sc *scene.Scene, hit HitPayload, point, normal r3.Vector, st r2.Point) r3.Vector {
	prim := hit.Primitive
	phong := prim.Specular()

	// The shadow origin sits on the side the camera ray came from
	shadowOrigin := point.Add(normal.Mul(sc.Epsilon))
	if ray.Direction.Dot(normal) >= 0 {
		shadowOrigin = point.Sub(normal.Mul(sc.Epsilon))
	}

	var lightAmt, specular r3.Vector
	color := sc.BackgroundColor
	for _, light := range sc.Lights() {
		sample := light.Sample(point)

		w.counts.Shadow++
		shadowHit, blocked := Trace(core.NewRay(shadowOrigin, sample.Direction), sc.Primitives())
		occluded := blocked && shadowHit.TNear*shadowHit.TNear < sample.Distance2

		if !occluded {
			lightAmt = lightAmt.Add(sample.Intensity.Mul(math.Max(0, sample.Direction.Dot(normal))))
		}
		if !occluded || w.config.LegacyLastLight {
			reflectDir := material.Reflect(sample.Direction.Mul(-1), normal)
			highlight := math.Pow(math.Max(0, -reflectDir.Dot(ray.Direction)), phong.Shininess)
			specular = specular.Add(sample.Intensity.Mul(highlight))
		}

		if w.config.LegacyLastLight {
			color = combine(lightAmt, specular, prim.DiffuseColorAt(st), phong)
		}
	}

	if w.config.LegacyLastLight {
		return color
	}
	return combine(lightAmt, specular, prim.DiffuseColorAt(st), phong)
}

func combine(lightAmt, specular, diffuseColor r3.Vector, phong material.SpecularProperties) r3.Vector {
	diffuse := core.MulVec(lightAmt, diffuseColor).Mul(phong.DiffuseWeight)
	return diffuse.Add(specular.Mul(phong.SpecularWeight))
}

// offsetAlong moves point by epsilon along normal onto the side dir leaves through
func offsetAlong(point, normal, dir r3.Vector, epsilon float64) r3.Vector {
	if dir.Dot(normal) < 0 {
		return point.Sub(normal.Mul(epsilon))
	}
	return point.Add(normal.Mul(epsilon))
}
