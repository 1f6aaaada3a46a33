package cmd

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"

	"github.com/df07/go-pathcore/pkg/renderer"
	"github.com/df07/go-pathcore/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	sc, err := scene.Load(ctx.String("scene"))
	if err != nil {
		return err
	}

	// Flags override the scene's own settings when set
	config := renderer.DefaultConfig(sc)
	if w := ctx.Int("width"); w > 0 {
		config.Width = w
	}
	if h := ctx.Int("height"); h > 0 {
		config.Height = h
	}
	if d := ctx.Int("depth"); d > 0 {
		config.Integrator.MaxDepth = d
	}
	if n := ctx.Int("workers"); n > 0 {
		config.Integrator.Workers = n
	}
	iterations := sc.SamplingConfig.SamplesPerPixel
	if n := ctx.Int("iterations"); n > 0 {
		iterations = n
	}

	r, err := renderer.NewRenderer(sc, config)
	if err != nil {
		return err
	}
	r.OnIteration = func(iteration int, _ *renderer.Film) {
		logger.Debugf("completed iteration %d/%d", iteration+1, iterations)
	}

	// Interrupting keeps the iterations rendered so far
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %q at %dx%d, %d iterations", ctx.String("scene"), config.Width, config.Height, iterations)
	stats, renderErr := r.Render(renderCtx, iterations)
	if renderErr != nil && !xerrors.Is(renderErr, context.Canceled) {
		return renderErr
	}

	img, err := r.Image(context.Background())
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if err := writePNG(out, img); err != nil {
		return err
	}

	displayFrameStats(stats, renderer.CalculateAverageLuminance(img))
	logger.Noticef("frame saved to %s", out)
	return nil
}

// writePNG encodes img to path, including close failures in the error.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("create %s: %w", path, err)
	}

	if err := png.Encode(f, img); err != nil {
		f.Close()
		return xerrors.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return xerrors.Errorf("close %s: %w", path, err)
	}
	return nil
}

func displayFrameStats(stats renderer.RenderStats, luminance float64) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pixels", "Iterations", "Samples", "Avg spp", "Avg luminance", "Samples/s"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.TotalPixels),
		fmt.Sprintf("%d", stats.Iterations),
		fmt.Sprintf("%d", stats.TotalSamples),
		fmt.Sprintf("%.1f", stats.AverageSamples),
		fmt.Sprintf("%.4f", luminance),
		fmt.Sprintf("%.0f", stats.SamplesPerSecond()),
	})
	table.SetFooter([]string{"", "", "", "", "TOTAL", stats.Elapsed.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
