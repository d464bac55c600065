package renderer

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Camera is a pinhole camera at the origin looking down -Z with +Y up
type Camera struct {
	width, height int
	scale         float64 // tan(fov/2)
	aspect        float64 // width / height
}

// NewCamera creates a camera for the image size and field of view in config
func NewCamera(config scene.Config) *Camera {
	return &Camera{
		width:  config.Width,
		height: config.Height,
		scale:  math.Tan(core.DegreesToRadians(config.FOV * 0.5)),
		aspect: float64(config.Width) / float64(config.Height),
	}
}

// GetRay returns the primary ray through the center of pixel (i, j), where
// j = 0 is the top row
func (c *Camera) GetRay(i, j int) core.Ray {
	x := ((float64(i)+0.5)*2/float64(c.width) - 1) * c.scale * c.aspect
	y := ((float64(j)+0.5)*2/float64(c.height) - 1) * -c.scale
	return core.NewRay(r3.Vector{}, core.NewVec3(x, y, -1).Normalize())
}
