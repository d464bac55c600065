package lights

import "github.com/golang/geo/r3"

// LightSample describes the light arriving at a shading point from one light
type LightSample struct {
	Direction r3.Vector // Unit direction FROM the shading point TO the light
	Distance2 float64   // Squared distance to the light
	Intensity r3.Vector // Radiant intensity, not attenuated by distance
}
