package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Worker renders tiles with a private integrator
type Worker struct {
	ID       int
	renderer *TileRenderer
}

// WorkerPool runs tile tasks on a fixed number of workers
type WorkerPool struct {
	workers []*Worker
	idle    chan *Worker
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// numWorkers <= 0 uses one worker per CPU.
func NewWorkerPool(sc *scene.Scene, camera *Camera, config integrator.WhittedConfig, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{idle: make(chan *Worker, numWorkers)}
	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:       i,
			renderer: NewTileRenderer(sc, camera, integrator.NewWhittedIntegrator(config)),
		}
		wp.workers = append(wp.workers, worker)
		wp.idle <- worker
	}

	return wp
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return len(wp.workers)
}

// Run renders every tile into fb. done receives each tile ID as it finishes
// and is closed once all tasks have returned; it must have room for every tile.
// The first error, including cancellation of ctx, stops the remaining tiles.
func (wp *WorkerPool) Run(ctx context.Context, tiles []Tile, fb *FrameBuffer, done chan<- int) error {
	defer close(done)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(wp.workers))

	for _, tile := range tiles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			worker := <-wp.idle
			defer func() { wp.idle <- worker }()

			worker.renderer.RenderTileBounds(tile.Bounds, fb)
			done <- tile.ID
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// Cancellation may land after the last task was scheduled
	return ctx.Err()
}

// Counts returns the rays cast by all workers
func (wp *WorkerPool) Counts() integrator.RayCounts {
	var total integrator.RayCounts
	for _, w := range wp.workers {
		total = total.Add(w.renderer.Counts())
	}
	return total
}
