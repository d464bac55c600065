package material

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// ColorSource provides spatially-varying diffuse colors
type ColorSource interface {
	// Evaluate returns the color at surface texture coordinates st
	Evaluate(st r2.Point) r3.Vector
}

// SolidColor provides a uniform color
type SolidColor struct {
	Color r3.Vector
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color r3.Vector) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of st
func (s *SolidColor) Evaluate(st r2.Point) r3.Vector {
	return s.Color
}
