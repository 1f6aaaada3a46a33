package scene

import (
	"math"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/df07/go-pathcore/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	// Convert hue from degrees to radians
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// Convert from OKLAB to linear RGB
	// Using simplified approximation for OKLAB to RGB conversion
	// This is not perfectly accurate but good enough for our purposes

	// First convert to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	// Cube the values
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// Convert LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	// Clamp to [0, 1] range
	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// NewSphereGridScene creates a grid of colored spheres on a ground slab,
// alternating diffuse and mirror materials, lit by a large emissive sphere.
func NewSphereGridScene(gridSize int) (*Scene, error) {
	b := NewBuilder()
	b.SetCamera(CameraConfig{
		Center:      core.NewVec3(4.5, 6, 18),
		LookAt:      core.NewVec3(4.5, 0.8, 4.5),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	})
	b.SetSampling(SamplingConfig{Width: 640, Height: 360, SamplesPerPixel: 128, MaxDepth: 8})

	noRotation := core.Vec3{}

	sun := b.AddMaterial(material.NewEmissive(core.NewVec3(1.0, 0.96, 0.83), 12))
	b.AddSphere(core.NewTRS(core.NewVec3(20, 25, 20), noRotation, core.NewVec3(16, 16, 16)), sun)

	ground := b.AddMaterial(material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))
	b.AddBox(core.NewTRS(core.NewVec3(4.5, -0.5, 4.5), noRotation, core.NewVec3(40, 1, 40)), ground)

	if gridSize < 2 {
		gridSize = 2
	}

	// Fit the grid into a fixed 9x9 area
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	radius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	// OKLCH parameters for color variation
	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, radius, z)

			// Hue varies across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			var m material.Material
			if (i+j)%2 == 0 {
				m = material.NewSpecular(color)
			} else {
				m = material.NewDiffuse(color)
			}

			diameter := 2 * radius
			b.AddSphere(core.NewTRS(position, noRotation, core.NewVec3(diameter, diameter, diameter)), b.AddMaterial(m))
		}
	}

	return b.Build()
}
