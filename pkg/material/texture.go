package material

import (
	"math"

	"github.com/df07/go-pathcore/pkg/core"
)

// TextureSampler looks up a bound texture by handle at normalized (u, v).
type TextureSampler interface {
	Sample(handle int, uv core.Vec2) core.Vec3
}

// Returned for handles with no texture so broken bindings stand out
var missingTexture = core.NewVec3(1, 0, 1)

// Texture provides color from a 2D image
type Texture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x], row 0 at the top
}

// NewTexture creates a new image texture
func NewTexture(width, height int, pixels []core.Vec3) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Valid reports whether the pixel buffer matches the dimensions
func (t *Texture) Valid() bool {
	return t != nil && t.Width > 0 && t.Height > 0 && len(t.Pixels) == t.Width*t.Height
}

// texel returns the pixel at (x, y) with wrap addressing
func (t *Texture) texel(x, y int) core.Vec3 {
	x %= t.Width
	if x < 0 {
		x += t.Width
	}
	y %= t.Height
	if y < 0 {
		y += t.Height
	}
	return t.Pixels[y*t.Width+x]
}

// Evaluate samples the texture at uv with wrap addressing and bilinear
// filtering between the four nearest texel centers. V=0 is the bottom row.
func (t *Texture) Evaluate(uv core.Vec2) core.Vec3 {
	fx := uv.X*float64(t.Width) - 0.5
	fy := (1.0-uv.Y)*float64(t.Height) - 0.5

	x0 := math.Floor(fx)
	y0 := math.Floor(fy)
	tx := fx - x0
	ty := fy - y0
	ix, iy := int(x0), int(y0)

	top := t.texel(ix, iy).Multiply(1 - tx).Add(t.texel(ix+1, iy).Multiply(tx))
	bottom := t.texel(ix, iy+1).Multiply(1 - tx).Add(t.texel(ix+1, iy+1).Multiply(tx))
	return top.Multiply(1 - ty).Add(bottom.Multiply(ty))
}

// TextureSet is the scene's texture table. Handles are indices in insertion order.
type TextureSet struct {
	textures []*Texture
}

// NewTextureSet creates a texture table from existing textures
func NewTextureSet(textures ...*Texture) *TextureSet {
	return &TextureSet{textures: textures}
}

// Add appends a texture and returns its handle
func (s *TextureSet) Add(t *Texture) int {
	s.textures = append(s.textures, t)
	return len(s.textures) - 1
}

// Len returns the number of textures
func (s *TextureSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.textures)
}

// Get returns the texture for a handle, or nil
func (s *TextureSet) Get(handle int) *Texture {
	if s == nil || handle < 0 || handle >= len(s.textures) {
		return nil
	}
	return s.textures[handle]
}

// Sample implements TextureSampler
func (s *TextureSet) Sample(handle int, uv core.Vec2) core.Vec3 {
	t := s.Get(handle)
	if t == nil || !t.Valid() {
		return missingTexture
	}
	return t.Evaluate(uv)
}
