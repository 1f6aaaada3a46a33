package integrator

import (
	"context"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/df07/go-pathcore/pkg/geometry"
	"github.com/df07/go-pathcore/pkg/log"
	"github.com/df07/go-pathcore/pkg/material"
	"github.com/df07/go-pathcore/pkg/scene"
	"golang.org/x/sync/errgroup"
)

// PathTracer advances a batch of path segments one bounce at a time.
// Segments are independent, so a bounce is stepped in parallel chunks.
type PathTracer struct {
	scene  *scene.Scene
	config Config
	logger log.Logger
}

// NewPathTracer creates a path tracer for a built scene
func NewPathTracer(s *scene.Scene, config Config) *PathTracer {
	return &PathTracer{
		scene:  s,
		config: config.normalize(),
		logger: log.New("integrator"),
	}
}

// Config returns the effective settings
func (pt *PathTracer) Config() Config {
	return pt.config
}

// Trace steps every segment until it has terminated or MaxDepth bounces
// have been taken. Paths still active afterwards are black.
func (pt *PathTracer) Trace(ctx context.Context, segs []core.PathSegment, iteration int) error {
	for depth := 1; depth <= pt.config.MaxDepth; depth++ {
		active := countActive(segs)
		if active == 0 {
			return nil
		}
		pt.logger.Debugf("iteration %d depth %d: %d active paths", iteration, depth, active)

		if err := pt.Step(ctx, segs, iteration, depth); err != nil {
			return err
		}
	}

	for i := range segs {
		if segs[i].Active() {
			segs[i].Color = core.Vec3{}
			segs[i].Terminate()
		}
	}
	return nil
}

// Step advances every active segment by one bounce. The random stream of
// each segment is derived from (pixel, iteration, depth), so the result does
// not depend on how segments are split between workers. Cancellation is
// checked between chunks.
func (pt *PathTracer) Step(ctx context.Context, segs []core.PathSegment, iteration, depth int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pt.config.Workers)

	for start := 0; start < len(segs); start += pt.config.ChunkSize {
		chunk := segs[start:min(start+pt.config.ChunkSize, len(segs))]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := range chunk {
				if chunk[i].Active() {
					pt.shade(&chunk[i], iteration, depth)
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// shade intersects one segment with the scene and scatters it
func (pt *PathTracer) shade(seg *core.PathSegment, iteration, depth int) {
	hit, ok := geometry.Intersect(seg.Ray, &pt.scene.World)
	if !ok {
		seg.Color = core.Vec3{}
		seg.Terminate()
		return
	}

	m := pt.scene.Material(hit)
	stream := core.NewStream(seg.PixelIndex, iteration, depth)
	material.Scatter(seg, hit, m, pt.scene.Textures, stream)
	if m.Kind() == material.KindEmissive {
		return
	}

	seg.RemainingBounces--
	if seg.RemainingBounces <= 0 {
		// Budget spent without reaching a light
		seg.Color = core.Vec3{}
		seg.Terminate()
	}
}

func countActive(segs []core.PathSegment) int {
	n := 0
	for i := range segs {
		if segs[i].Active() {
			n++
		}
	}
	return n
}
