package integrator

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const tolerance = 1e-9

func vecNear(a, b r3.Vector, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// newTestScene creates a scene with a grey diffuse sphere at (0,0,-5)
func newTestScene() *scene.Scene {
	sc := scene.New(scene.DefaultConfig())
	sc.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0, -5), 1, geometry.DefaultSurface(), core.Splat(0.5)))
	return sc
}

func forward() core.Ray {
	return core.NewRay(r3.Vector{}, core.NewVec3(0, 0, -1))
}

func TestCastRayDepthTermination(t *testing.T) {
	sc := newTestScene()
	sc.AddLight(lights.NewPointLight(r3.Vector{}, core.Splat(1)))
	w := NewWhittedIntegrator(WhittedConfig{})

	if color := w.CastRay(forward(), sc, sc.MaxDepth+1); color != (r3.Vector{}) {
		t.Errorf("Expected black past max depth, got %v", color)
	}
	if color := w.CastRay(forward(), sc, sc.MaxDepth); color == (r3.Vector{}) {
		t.Error("Expected a lit color at max depth")
	}
}

func TestCastRayMissReturnsBackground(t *testing.T) {
	sc := newTestScene()
	w := NewWhittedIntegrator(WhittedConfig{})

	ray := core.NewRay(r3.Vector{}, core.NewVec3(0, 1, 0))
	if color := w.CastRay(ray, sc, 0); color != sc.BackgroundColor {
		t.Errorf("Expected background %v, got %v", sc.BackgroundColor, color)
	}
}

func TestTraceNearest(t *testing.T) {
	far := geometry.NewSphere(core.NewVec3(0, 0, -10), 1, geometry.DefaultSurface(), core.Splat(0.1))
	near := geometry.NewSphere(core.NewVec3(0, 0, -5), 1, geometry.DefaultSurface(), core.Splat(0.9))

	hit, ok := Trace(forward(), []geometry.Primitive{far, near})
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.Primitive != geometry.Primitive(near) {
		t.Error("Expected the nearer sphere to be reported")
	}
	if math.Abs(hit.TNear-4) > tolerance {
		t.Errorf("Expected t=4, got %v", hit.TNear)
	}
}

func TestTraceTieKeepsFirst(t *testing.T) {
	first := geometry.NewSphere(core.NewVec3(0, 0, -5), 1, geometry.DefaultSurface(), core.Splat(0.1))
	second := geometry.NewSphere(core.NewVec3(0, 0, -5), 1, geometry.DefaultSurface(), core.Splat(0.9))

	hit, ok := Trace(forward(), []geometry.Primitive{first, second})
	if !ok || hit.Primitive != geometry.Primitive(first) {
		t.Error("Expected the first of two coincident spheres")
	}
}

func TestTraceEmpty(t *testing.T) {
	if _, ok := Trace(forward(), nil); ok {
		t.Error("Expected no hit without primitives")
	}
}

func TestCastRayDiffuse(t *testing.T) {
	tests := []struct {
		name     string
		lights   []*lights.PointLight
		blocker  bool
		legacy   bool
		expected r3.Vector
	}{
		{
			name:     "single light",
			lights:   []*lights.PointLight{lights.NewPointLight(core.NewVec3(0, 0, 5), core.Splat(1))},
			expected: core.Splat(0.6),
		},
		{
			name: "two half lights accumulate",
			lights: []*lights.PointLight{
				lights.NewPointLight(core.NewVec3(0, 0, 5), core.Splat(0.5)),
				lights.NewPointLight(core.NewVec3(0, 0, 5), core.Splat(0.5)),
			},
			expected: core.Splat(0.6),
		},
		{
			name:     "occluded light",
			lights:   []*lights.PointLight{lights.NewPointLight(core.NewVec3(0, 0, 5), core.Splat(1))},
			blocker:  true,
			expected: r3.Vector{},
		},
		{
			name:     "occluded light legacy keeps highlight",
			lights:   []*lights.PointLight{lights.NewPointLight(core.NewVec3(0, 0, 5), core.Splat(1))},
			blocker:  true,
			legacy:   true,
			expected: core.Splat(0.2),
		},
		{
			name:     "no lights",
			expected: r3.Vector{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestScene()
			if tt.blocker {
				// Behind the camera, between the hit point and the light
				sc.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0, 2), 0.5, geometry.DefaultSurface(), core.Splat(1)))
			}
			for _, l := range tt.lights {
				sc.AddLight(l)
			}

			w := NewWhittedIntegrator(WhittedConfig{LegacyLastLight: tt.legacy})
			color := w.CastRay(forward(), sc, 0)
			if !vecNear(color, tt.expected, 1e-6) {
				t.Errorf("Expected %v, got %v", tt.expected, color)
			}
		})
	}
}

func TestCastRayLegacyNoLightsKeepsBackground(t *testing.T) {
	sc := newTestScene()
	w := NewWhittedIntegrator(WhittedConfig{LegacyLastLight: true})

	if color := w.CastRay(forward(), sc, 0); color != sc.BackgroundColor {
		t.Errorf("Expected background %v, got %v", sc.BackgroundColor, color)
	}
}

func TestCastRayMirror(t *testing.T) {
	sc := scene.New(scene.DefaultConfig())
	mirror := geometry.Surface{MaterialType: material.Reflection, RefractiveIndex: 12, Phong: material.DefaultSpecular()}
	sc.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0, -5), 1, mirror, core.Splat(1)))

	w := NewWhittedIntegrator(WhittedConfig{})
	color := w.CastRay(forward(), sc, 0)

	// Normal incidence: kr = ((n-1)/(n+1))²
	kr := (11.0 / 13.0) * (11.0 / 13.0)
	expected := sc.BackgroundColor.Mul(kr)
	if !vecNear(color, expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, color)
	}

	counts := w.Counts()
	if counts.Primary != 1 || counts.Secondary != 1 || counts.Shadow != 0 {
		t.Errorf("Unexpected ray counts %+v", counts)
	}
}

func TestCastRayGlassConservesBackground(t *testing.T) {
	sc := scene.New(scene.DefaultConfig())
	glass := geometry.Surface{MaterialType: material.ReflectionAndRefraction, RefractiveIndex: 1.5, Phong: material.DefaultSpecular()}
	sc.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0, -5), 1, glass, core.Splat(1)))

	w := NewWhittedIntegrator(WhittedConfig{})
	color := w.CastRay(forward(), sc, 0)

	// Only rays trapped inside past the depth limit lose energy
	if !vecNear(color, sc.BackgroundColor, 1e-3) {
		t.Errorf("Expected approximately %v, got %v", sc.BackgroundColor, color)
	}
	if color.X > sc.BackgroundColor.X+1e-12 || color.Z > sc.BackgroundColor.Z+1e-12 {
		t.Errorf("Glass should not add energy: %v", color)
	}
}

func TestRayCounts(t *testing.T) {
	sc := newTestScene()
	sc.AddLight(lights.NewPointLight(core.NewVec3(0, 0, 5), core.Splat(0.5)))
	sc.AddLight(lights.NewPointLight(core.NewVec3(5, 5, 0), core.Splat(0.5)))

	w := NewWhittedIntegrator(WhittedConfig{})
	w.CastRay(forward(), sc, 0)

	counts := w.Counts()
	expected := RayCounts{Primary: 1, Shadow: 2}
	if counts != expected {
		t.Errorf("Expected %+v, got %+v", expected, counts)
	}
	if counts.Total() != 3 {
		t.Errorf("Expected 3 rays in total, got %d", counts.Total())
	}

	sum := counts.Add(RayCounts{Secondary: 4})
	if sum.Secondary != 4 || sum.Total() != 7 {
		t.Errorf("Unexpected sum %+v", sum)
	}

	w.Reset()
	if w.Counts() != (RayCounts{}) {
		t.Error("Expected counters to reset")
	}
}
