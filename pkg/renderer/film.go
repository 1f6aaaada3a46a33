package renderer

import (
	"context"
	"image"
	"image/color"

	"github.com/df07/go-pathcore/pkg/core"
	"golang.org/x/sync/errgroup"
)

// DisplayGamma is the gamma applied when resolving the film to an image
const DisplayGamma = 2.2

// Film accumulates per-pixel sample sums. Pixels are stored row-major with
// row 0 at the top.
type Film struct {
	Width, Height int
	pixels        []PixelStats
}

// NewFilm creates an empty film
func NewFilm(width, height int) *Film {
	return &Film{
		Width:  width,
		Height: height,
		pixels: make([]PixelStats, width*height),
	}
}

// AddSample adds a color sample to the pixel with the given row-major index
func (f *Film) AddSample(index int, color core.Vec3) {
	f.pixels[index].AddSample(color)
}

// Pixel returns the statistics of pixel (x, y)
func (f *Film) Pixel(x, y int) PixelStats {
	return f.pixels[y*f.Width+x]
}

// TotalSamples returns the number of samples added so far
func (f *Film) TotalSamples() int {
	total := 0
	for i := range f.pixels {
		total += f.pixels[i].SampleCount
	}
	return total
}

// Image resolves the film into a gamma-corrected 8-bit image. Rows are
// converted in parallel.
func (f *Film) Image(ctx context.Context, workers int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for y := 0; y < f.Height; y++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < f.Width; x++ {
				img.SetRGBA(x, y, toRGBA(f.pixels[y*f.Width+x].GetColor()))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

// toRGBA clamps a linear color to [0, 1] and gamma-encodes it
func toRGBA(c core.Vec3) color.RGBA {
	c = c.Clamp(0, 1).GammaCorrect(DisplayGamma)
	return color.RGBA{
		R: uint8(c.X*255 + 0.5),
		G: uint8(c.Y*255 + 0.5),
		B: uint8(c.Z*255 + 0.5),
		A: 255,
	}
}
