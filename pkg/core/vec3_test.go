package core

import (
	"math"
	"testing"
)

func TestMulVec(t *testing.T) {
	result := MulVec(NewVec3(1, 2, 3), NewVec3(4, -5, 0.5))
	expected := NewVec3(4, -10, 1.5)
	if result != expected {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"below range", -0.5, 0},
		{"in range", 0.25, 0.25},
		{"above range", 3, 1},
		{"lower bound", 0, 0},
		{"upper bound", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampFloat(tt.input, 0, 1); got != tt.expected {
				t.Errorf("ClampFloat(%v) = %v, want %v", tt.input, got, tt.expected)
			}
			v := Clamp(Splat(tt.input), 0, 1)
			if v != Splat(tt.expected) {
				t.Errorf("Clamp(%v) = %v, want %v", tt.input, v, Splat(tt.expected))
			}
		})
	}
}

func TestLerp(t *testing.T) {
	a := NewVec3(0, 0, 0)
	b := NewVec3(2, 4, 6)

	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp at 0: expected %v, got %v", a, got)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp at 1: expected %v, got %v", b, got)
	}
	if got := Lerp(a, b, 0.5); got != NewVec3(1, 2, 3) {
		t.Errorf("Lerp at 0.5: expected (1,2,3), got %v", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Error("1.5 should be finite")
	}
	if IsFinite(math.NaN()) {
		t.Error("NaN should not be finite")
	}
	if IsFinite(math.Inf(-1)) {
		t.Error("-Inf should not be finite")
	}
}

func TestRayAt(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -1))
	point := ray.At(2.5)

	const tolerance = 1e-12
	if point.Sub(NewVec3(1, 2, 0.5)).Norm() > tolerance {
		t.Errorf("Expected (1,2,0.5), got %v", point)
	}
}

func TestDegreesToRadians(t *testing.T) {
	if got := DegreesToRadians(180); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("Expected pi, got %v", got)
	}
}
