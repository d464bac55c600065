package renderer

import (
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// TileRenderer renders rectangular regions of the image with its own integrator
type TileRenderer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator *integrator.WhittedIntegrator
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(sc *scene.Scene, camera *Camera, integratorInst *integrator.WhittedIntegrator) *TileRenderer {
	return &TileRenderer{
		scene:      sc,
		camera:     camera,
		integrator: integratorInst,
	}
}

// RenderTileBounds casts one primary ray per pixel in bounds and stores the result in fb.
// Distinct bounds write disjoint parts of fb, so tiles may render concurrently.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, fb *FrameBuffer) {
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ray := tr.camera.GetRay(i, j)
			fb.Set(i, j, tr.integrator.CastRay(ray, tr.scene, 0))
		}
	}
}

// Counts returns the rays cast by this renderer's integrator
func (tr *TileRenderer) Counts() integrator.RayCounts {
	return tr.integrator.Counts()
}
