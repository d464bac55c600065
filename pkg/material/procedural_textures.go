package material

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Default checkerboard colors
var (
	CheckerRed    = core.NewVec3(0.815, 0.235, 0.031)
	CheckerYellow = core.NewVec3(0.937, 0.937, 0.231)
)

// DefaultCheckerScale is the number of checks per unit of texture space
const DefaultCheckerScale = 5.0

// Checkerboard is a procedural two-color checker pattern over texture space
type Checkerboard struct {
	Scale  float64
	Color1 r3.Vector // returned where both fractional parts fall on the same side of 0.5
	Color2 r3.Vector
}

// NewCheckerboard creates a checkerboard with the given scale and colors
func NewCheckerboard(scale float64, color1, color2 r3.Vector) *Checkerboard {
	return &Checkerboard{Scale: scale, Color1: color1, Color2: color2}
}

// DefaultCheckerboard returns the red/yellow pattern used for untextured surfaces
func DefaultCheckerboard() *Checkerboard {
	return NewCheckerboard(DefaultCheckerScale, CheckerRed, CheckerYellow)
}

// Evaluate returns Color1 or Color2 depending on which check st falls in.
// The fractional part keeps the sign of its argument, so negative
// coordinates never exceed 0.5.
func (c *Checkerboard) Evaluate(st r2.Point) r3.Vector {
	s := math.Mod(st.X*c.Scale, 1) > 0.5
	t := math.Mod(st.Y*c.Scale, 1) > 0.5

	pattern := 0.0
	if s != t {
		pattern = 1.0
	}
	return core.Lerp(c.Color1, c.Color2, pattern)
}
