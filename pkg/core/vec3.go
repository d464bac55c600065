package core

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// NewVec3 creates a new r3.Vector
func NewVec3(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// NewVec2 creates a new r2.Point
func NewVec2(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

// Splat returns a vector with all three components set to v
func Splat(v float64) r3.Vector {
	return r3.Vector{X: v, Y: v, Z: v}
}

// MulVec returns the component-wise product of two vectors
func MulVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// Clamp returns a vector with components clamped to [minVal, maxVal]
func Clamp(v r3.Vector, minVal, maxVal float64) r3.Vector {
	return r3.Vector{
		X: ClampFloat(v.X, minVal, maxVal),
		Y: ClampFloat(v.Y, minVal, maxVal),
		Z: ClampFloat(v.Z, minVal, maxVal),
	}
}

// ClampFloat clamps x to [lo, hi]
func ClampFloat(x, lo, hi float64) float64 {
	return max(lo, min(hi, x))
}

// Lerp linearly interpolates between a and b
func Lerp(a, b r3.Vector, t float64) r3.Vector {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// IsFinite reports whether x is neither NaN nor infinite
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DegreesToRadians converts an angle in degrees to radians
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
