package renderer

import (
	"math"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/df07/go-pathcore/pkg/scene"
)

// Camera generates primary rays for a pinhole camera
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	width, height   int
}

// NewCamera creates a camera looking from config.Center toward config.LookAt
// for an image of width x height pixels. The viewport aspect follows the
// image so pixels stay square.
func NewCamera(config scene.CameraConfig, width, height int) *Camera {
	aspectRatio := config.AspectRatio
	if width > 0 && height > 0 {
		aspectRatio = float64(width) / float64(height)
	}

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := aspectRatio * viewportHeight

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		origin:          config.Center,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
		width:           width,
		height:          height,
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1
// and (0, 0) is the lower left corner
func (c *Camera) GetRay(s, t float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// PrimaryRay generates the jittered ray through pixel (x, y), with row 0 at
// the top of the image. The jitter comes from the pixel's depth 0 stream.
func (c *Camera) PrimaryRay(x, y, iteration int) core.Ray {
	jitter := core.NewStream(y*c.width+x, iteration, 0).Get2D()
	s := (float64(x) + jitter.X) / float64(c.width)
	t := 1.0 - (float64(y)+jitter.Y)/float64(c.height)
	return c.GetRay(s, t)
}
