package material

import (
	"github.com/df07/go-pathcore/pkg/core"
	"github.com/df07/go-pathcore/pkg/geometry"
)

// ScatterEpsilon offsets new ray origins off the surface so the next
// intersection does not report the surface just left.
const ScatterEpsilon = 1e-4

// Index of refraction of the medium surrounding every object.
const airIOR = 1.0

// Scatter continues a path at a confirmed hit. The segment's ray is replaced
// by the scattered ray and its throughput multiplied by the surface color.
// Emissive surfaces end the path instead, weighting it by the emitted light.
// Scatter never decrements the bounce budget; that is left to the caller.
func Scatter(seg *core.PathSegment, hit geometry.HitRecord, m Material, textures TextureSampler, sampler core.Sampler) {
	color := m.SurfaceColor(hit.UV, textures)

	switch m.Kind() {
	case KindEmissive:
		seg.Color = seg.Color.MultiplyVec(color.Multiply(m.Emittance))
		seg.Terminate()
	case KindDiffuse:
		direction := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D()).Normalize()
		seg.Ray = core.NewRay(hit.Point.Add(hit.Normal.Multiply(ScatterEpsilon)), direction)
		seg.Color = seg.Color.MultiplyVec(color)
	case KindSpecular:
		reflectAbout(seg, hit.Point, hit.Normal, color)
	case KindTransmissive:
		scatterRefractive(seg, hit, m.IOR, color, nil)
	case KindDielectric:
		scatterRefractive(seg, hit, m.IOR, color, sampler)
	}
}

// reflectAbout mirrors the segment's ray about normal, which must face the
// incoming ray.
func reflectAbout(seg *core.PathSegment, point, normal, color core.Vec3) {
	direction := core.Reflect(seg.Ray.Direction, normal).Normalize()
	seg.Ray = core.NewRay(point.Add(normal.Multiply(ScatterEpsilon)), direction)
	seg.Color = seg.Color.MultiplyVec(color)
}

// scatterRefractive crosses the interface of a medium with index ior. With a
// sampler it draws u and refracts only when u >= the Schlick reflectance;
// without one it always refracts. Total internal reflection reflects.
func scatterRefractive(seg *core.PathSegment, hit geometry.HitRecord, ior float64, color core.Vec3, sampler core.Sampler) {
	d := seg.Ray.Direction

	// Orient by the outward normal: n1 is the medium the ray travels in
	normal := hit.Normal
	if !hit.Outside {
		normal = normal.Negate()
	}
	n1, n2 := airIOR, ior
	cosTheta := normal.Dot(d.Negate())
	if cosTheta < 0 {
		normal = normal.Negate()
		n1, n2 = n2, n1
		cosTheta = -cosTheta
	}
	cosTheta = min(cosTheta, 1)

	refract := true
	if sampler != nil {
		u := sampler.Get1D()
		// Matching indices form no interface and reflect nothing
		reflectance := 0.0
		if n1 != n2 {
			reflectance = core.Schlick(cosTheta, n1, n2)
		}
		refract = u >= reflectance
	}

	if refract {
		if direction, ok := core.Refract(d, normal, n1/n2); ok {
			direction = direction.Normalize()
			seg.Ray = core.NewRay(hit.Point.Add(direction.Multiply(ScatterEpsilon)), direction)
			seg.Color = seg.Color.MultiplyVec(color)
			return
		}
	}

	// Fresnel reflection or total internal reflection
	reflectAbout(seg, hit.Point, normal, color)
}
