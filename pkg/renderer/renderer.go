package renderer

import (
	"context"
	"image"
	"time"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/df07/go-pathcore/pkg/integrator"
	"github.com/df07/go-pathcore/pkg/log"
	"github.com/df07/go-pathcore/pkg/scene"
	"golang.org/x/xerrors"
)

// Config contains the image and path tracing settings of a render
type Config struct {
	Width      int
	Height     int
	Integrator integrator.Config
}

// DefaultConfig returns the settings stored in the scene
func DefaultConfig(s *scene.Scene) Config {
	ic := integrator.DefaultConfig()
	if s.SamplingConfig.MaxDepth > 0 {
		ic.MaxDepth = s.SamplingConfig.MaxDepth
	}
	return Config{
		Width:      s.SamplingConfig.Width,
		Height:     s.SamplingConfig.Height,
		Integrator: ic,
	}
}

// IterationCallback is invoked after every completed iteration
type IterationCallback func(iteration int, film *Film)

// Renderer traces one path per pixel per iteration and accumulates the
// results on its film. Successive Render calls continue the same image.
type Renderer struct {
	config    Config
	camera    *Camera
	tracer    *integrator.PathTracer
	film      *Film
	segments  []core.PathSegment
	iteration int
	logger    log.Logger

	// Optional hook for progressive display
	OnIteration IterationCallback
}

// NewRenderer creates a renderer for a built scene
func NewRenderer(s *scene.Scene, config Config) (*Renderer, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, xerrors.Errorf("invalid resolution %dx%d", config.Width, config.Height)
	}

	tracer := integrator.NewPathTracer(s, config.Integrator)
	config.Integrator = tracer.Config()

	return &Renderer{
		config:   config,
		camera:   NewCamera(s.Camera, config.Width, config.Height),
		tracer:   tracer,
		film:     NewFilm(config.Width, config.Height),
		segments: make([]core.PathSegment, config.Width*config.Height),
		logger:   log.New("renderer"),
	}, nil
}

// Film returns the accumulation film
func (r *Renderer) Film() *Film {
	return r.film
}

// Render runs the given number of iterations. On cancellation the film keeps
// every iteration that completed before it.
func (r *Renderer) Render(ctx context.Context, iterations int) (RenderStats, error) {
	start := time.Now()
	done := 0

	for i := 0; i < iterations; i++ {
		if err := r.renderIteration(ctx); err != nil {
			return r.stats(done, time.Since(start)), xerrors.Errorf("iteration %d: %w", r.iteration, err)
		}
		done++
		if r.OnIteration != nil {
			r.OnIteration(r.iteration, r.film)
		}
		r.iteration++
	}

	stats := r.stats(done, time.Since(start))
	r.logger.Infof("rendered %d iterations in %v (%.0f samples/s)", done, stats.Elapsed, stats.SamplesPerSecond())
	return stats, nil
}

// renderIteration traces one sample for every pixel. The film is only
// updated once the whole batch has been traced.
func (r *Renderer) renderIteration(ctx context.Context) error {
	width, depth := r.config.Width, r.config.Integrator.MaxDepth
	for y := 0; y < r.config.Height; y++ {
		for x := 0; x < width; x++ {
			ray := r.camera.PrimaryRay(x, y, r.iteration)
			r.segments[y*width+x] = core.NewPathSegment(ray, y*width+x, depth)
		}
	}

	if err := r.tracer.Trace(ctx, r.segments, r.iteration); err != nil {
		return err
	}

	for i := range r.segments {
		r.film.AddSample(r.segments[i].PixelIndex, r.segments[i].Color)
	}
	return nil
}

// Image resolves the film
func (r *Renderer) Image(ctx context.Context) (*image.RGBA, error) {
	return r.film.Image(ctx, r.config.Integrator.Workers)
}

func (r *Renderer) stats(iterations int, elapsed time.Duration) RenderStats {
	pixels := r.config.Width * r.config.Height
	total := r.film.TotalSamples()
	return RenderStats{
		TotalPixels:    pixels,
		TotalSamples:   total,
		Iterations:     iterations,
		AverageSamples: float64(total) / float64(pixels),
		Elapsed:        elapsed,
	}
}
