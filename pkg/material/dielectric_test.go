package material

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

const tolerance = 1e-9

func TestReflect(t *testing.T) {
	tests := []struct {
		name     string
		incident r3.Vector
		normal   r3.Vector
		expected r3.Vector
	}{
		{"45 degrees", core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 1, 0)},
		{"head on", core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1)},
		{"grazing", core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Reflect(tt.incident, tt.normal)
			if result.Sub(tt.expected).Norm() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestRefractNormalIncidence(t *testing.T) {
	// A ray hitting the surface head on passes straight through
	dir := core.NewVec3(0, 0, -1)
	n := core.NewVec3(0, 0, 1)

	for _, ior := range []float64{1.0, 1.3, 1.5, 2.4} {
		result := Refract(dir, n, ior)
		if result.Sub(dir).Norm() > tolerance {
			t.Errorf("ior %v: expected %v, got %v", ior, dir, result)
		}
	}
}

func TestRefractSnellsLaw(t *testing.T) {
	ior := 1.5
	n := core.NewVec3(0, 1, 0)
	dir := core.NewVec3(1, -1, 0).Normalize() // 45 degrees entering from above

	result := Refract(dir, n, ior).Normalize()

	sinI := math.Sqrt(0.5)
	sinT := result.X
	if math.Abs(sinI-ior*sinT) > tolerance {
		t.Errorf("Snell's law violated: sinI=%v, ior*sinT=%v", sinI, ior*sinT)
	}
	if result.Y >= 0 {
		t.Errorf("Refracted ray should continue below the surface, got %v", result)
	}
}

func TestRefractExitingMedium(t *testing.T) {
	// Leaving glass: the direction points along the normal
	n := core.NewVec3(0, 1, 0)
	dir := core.NewVec3(0.2, 1, 0).Normalize()

	result := Refract(dir, n, 1.5)
	if result.Y <= 0 {
		t.Errorf("Exiting ray should continue upward, got %v", result)
	}
	if result.X <= dir.X {
		t.Errorf("Exiting ray should bend away from the normal: in %v, out %v", dir, result)
	}
}

func TestTotalInternalReflection(t *testing.T) {
	n := core.NewVec3(0, 0, 1)
	// 60 degrees from the normal, inside a medium of index 1.5 (critical angle ~41.8)
	dir := core.NewVec3(math.Sin(math.Pi/3), 0, math.Cos(math.Pi/3))

	if result := Refract(dir, n, 1.5); result != (r3.Vector{}) {
		t.Errorf("Expected zero vector on total internal reflection, got %v", result)
	}
	if kr := Fresnel(dir, n, 1.5); kr != 1 {
		t.Errorf("Expected Fresnel 1 on total internal reflection, got %v", kr)
	}
}

func TestFresnel(t *testing.T) {
	n := core.NewVec3(0, 0, 1)

	t.Run("normal incidence", func(t *testing.T) {
		kr := Fresnel(core.NewVec3(0, 0, -1), n, 1.5)
		// ((n1-n2)/(n1+n2))^2
		if math.Abs(kr-0.04) > tolerance {
			t.Errorf("Expected 0.04, got %v", kr)
		}
	})

	t.Run("matched index", func(t *testing.T) {
		kr := Fresnel(core.NewVec3(1, 0, -1).Normalize(), n, 1.0)
		if math.Abs(kr) > tolerance {
			t.Errorf("Expected no reflection between equal media, got %v", kr)
		}
	})

	t.Run("grows toward grazing", func(t *testing.T) {
		previous := 0.0
		for _, angle := range []float64{0, 20, 40, 60, 80, 89} {
			rad := core.DegreesToRadians(angle)
			dir := core.NewVec3(math.Sin(rad), 0, -math.Cos(rad))
			kr := Fresnel(dir, n, 1.5)
			if kr < previous-tolerance || kr < 0 || kr > 1 {
				t.Errorf("angle %v: kr=%v not monotonic in [0,1] (previous %v)", angle, kr, previous)
			}
			previous = kr
		}
	})
}
