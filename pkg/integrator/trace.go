package integrator

import (
	"github.com/golang/geo/r2"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// HitPayload records the nearest intersection found by Trace
type HitPayload struct {
	TNear     float64            // Ray parameter of the hit
	Index     int                // Triangle index for meshes, 0 for spheres
	UV        r2.Point           // Barycentric coordinates for meshes
	Primitive geometry.Primitive // The primitive that was hit
}

// Trace scans prims in order and returns the hit with the smallest t.
// When two primitives report the same t the earlier one wins.
func Trace(ray core.Ray, prims []geometry.Primitive) (HitPayload, bool) {
	var payload HitPayload
	found := false

	for _, p := range prims {
		hit, ok := p.Intersect(ray)
		if !ok {
			continue
		}
		if !found || hit.T < payload.TNear {
			payload = HitPayload{TNear: hit.T, Index: hit.Index, UV: hit.UV, Primitive: p}
			found = true
		}
	}

	return payload, found
}
