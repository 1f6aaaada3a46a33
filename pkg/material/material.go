package material

import (
	"github.com/df07/go-pathcore/pkg/core"
)

// Kind is the scattering model a material resolves to.
type Kind uint8

const (
	// KindDiffuse scatters into the cosine-weighted hemisphere.
	KindDiffuse Kind = iota
	// KindSpecular is a perfect mirror.
	KindSpecular
	// KindTransmissive always refracts, reflecting only on total internal reflection.
	KindTransmissive
	// KindDielectric chooses between reflection and refraction by Schlick's approximation.
	KindDielectric
	// KindEmissive ends the path, weighting it by the emitted light.
	KindEmissive
)

func (k Kind) String() string {
	switch k {
	case KindDiffuse:
		return "diffuse"
	case KindSpecular:
		return "specular"
	case KindTransmissive:
		return "transmissive"
	case KindDielectric:
		return "dielectric"
	case KindEmissive:
		return "emissive"
	default:
		return "unknown"
	}
}

// Material describes a surface. Materials are plain values shared by index
// from the scene's material table and never modified during rendering.
type Material struct {
	Color      core.Vec3 // Base color, used when no texture is bound
	Reflective bool
	Refractive bool
	IOR        float64 // Index of refraction of the interior medium
	Emittance  float64 // Light emitted per unit of Color; > 0 makes the material a light
	Textured   bool    // Set when TextureID names a bound texture
	TextureID  int     // Texture handle, read only when Textured
}

// NewDiffuse creates a matte material
func NewDiffuse(color core.Vec3) Material {
	return Material{Color: color}
}

// NewSpecular creates a mirror tinted by color
func NewSpecular(color core.Vec3) Material {
	return Material{Color: color, Reflective: true}
}

// NewDielectric creates a glass-like material that both reflects and refracts
func NewDielectric(color core.Vec3, ior float64) Material {
	return Material{Color: color, Reflective: true, Refractive: true, IOR: ior}
}

// NewTransmissive creates a material that only refracts
func NewTransmissive(color core.Vec3, ior float64) Material {
	return Material{Color: color, Refractive: true, IOR: ior}
}

// NewEmissive creates a light source
func NewEmissive(color core.Vec3, emittance float64) Material {
	return Material{Color: color, Emittance: emittance}
}

// WithTexture returns a copy of the material bound to a texture handle
func (m Material) WithTexture(handle int) Material {
	m.Textured = true
	m.TextureID = handle
	return m
}

// Kind classifies the material. Emission takes priority, then the
// reflective/refractive flags decide the scattering model.
func (m Material) Kind() Kind {
	switch {
	case m.Emittance > 0:
		return KindEmissive
	case !m.Reflective && !m.Refractive:
		return KindDiffuse
	case m.Reflective && !m.Refractive:
		return KindSpecular
	case !m.Reflective && m.Refractive:
		return KindTransmissive
	default:
		return KindDielectric
	}
}

// SurfaceColor returns the texture sample at uv when a texture is bound and a
// sampler is available, and the flat color otherwise.
func (m Material) SurfaceColor(uv core.Vec2, textures TextureSampler) core.Vec3 {
	if m.Textured && textures != nil {
		return textures.Sample(m.TextureID, uv)
	}
	return m.Color
}
