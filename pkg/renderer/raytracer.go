package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var logger = log.New("renderer")

// Options contains configuration for a render
type Options struct {
	TileSize        int                   // Size of each square tile in pixels
	NumWorkers      int                   // Number of parallel workers (0 = use CPU count)
	LegacyLastLight bool                  // Use the historical per-light diffuse shading
	Progress        func(done, total int) // Called after each finished tile; may be nil
}

// DefaultOptions returns sensible default values
func DefaultOptions() Options {
	return Options{
		TileSize:   32,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// Raytracer renders a scene into a frame buffer
type Raytracer struct {
	scene   *scene.Scene
	options Options
	camera  *Camera
}

// NewRaytracer creates a raytracer for sc. The scene must not be modified
// until rendering has finished.
func NewRaytracer(sc *scene.Scene, options Options) (*Raytracer, error) {
	if sc.Width <= 0 || sc.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, sc.Width, sc.Height)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	return &Raytracer{
		scene:   sc,
		options: options,
		camera:  NewCamera(sc.Config),
	}, nil
}

// Camera returns the camera used for primary rays
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Render traces one primary ray per pixel and returns the finished frame
// buffer. Rendering stops early with a wrapped ctx.Err() when ctx is cancelled.
func (rt *Raytracer) Render(ctx context.Context) (*FrameBuffer, RenderStats, error) {
	start := time.Now()
	width, height := rt.scene.Width, rt.scene.Height

	fb := NewFrameBuffer(width, height)
	tiles := NewTileGrid(width, height, rt.options.TileSize)
	pool := NewWorkerPool(rt.scene, rt.camera, integrator.WhittedConfig{
		LegacyLastLight: rt.options.LegacyLastLight,
	}, rt.options.NumWorkers)

	logger.Infof("Rendering %dx%d with %d primitives, %d lights, %d tiles on %d workers",
		width, height, rt.scene.PrimitiveCount(), len(rt.scene.Lights()), len(tiles), pool.NumWorkers())

	done := make(chan int, len(tiles))
	errCh := make(chan error, 1)
	go func() {
		errCh <- pool.Run(ctx, tiles, fb, done)
	}()

	completed := 0
	for range done {
		completed++
		if rt.options.Progress != nil {
			rt.options.Progress(completed, len(tiles))
		}
	}

	if err := <-errCh; err != nil {
		logger.Warningf("Render stopped after %d of %d tiles: %v", completed, len(tiles), err)
		return nil, RenderStats{}, fmt.Errorf("renderer: render cancelled: %w", err)
	}

	stats := RenderStats{
		Width:    width,
		Height:   height,
		Pixels:   width * height,
		Tiles:    len(tiles),
		Workers:  pool.NumWorkers(),
		Rays:     pool.Counts(),
		Duration: time.Since(start),
	}
	logger.Infof("Render finished in %v (%d rays)", stats.Duration, stats.Rays.Total())

	return fb, stats, nil
}
