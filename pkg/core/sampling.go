package core

import (
	"math"
)

// sqrtOneThird is the largest value the smallest |component| of a unit vector can take
const sqrtOneThird = 0.5773502691896257

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// SampleCosineHemisphere generates a cosine-weighted direction in the
// hemisphere around normal. sample.X drives the inclination
// (cos(theta) = sqrt(u1)) and sample.Y the azimuth (phi = 2*pi*u2).
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	up := math.Sqrt(sample.X)
	over := math.Sqrt(math.Max(0, 1-up*up))
	around := sample.Y * 2.0 * math.Pi

	tangent, bitangent := OrthonormalBasis(normal)

	return normal.Multiply(up).
		Add(tangent.Multiply(math.Cos(around) * over)).
		Add(bitangent.Multiply(math.Sin(around) * over))
}

// OrthonormalBasis returns two unit vectors perpendicular to normal and to each
// other. The helper axis is the first world axis whose component in normal is
// smaller than sqrt(1/3), so it is never close to parallel with normal.
func OrthonormalBasis(normal Vec3) (Vec3, Vec3) {
	var notNormal Vec3
	switch {
	case math.Abs(normal.X) < sqrtOneThird:
		notNormal = NewVec3(1, 0, 0)
	case math.Abs(normal.Y) < sqrtOneThird:
		notNormal = NewVec3(0, 1, 0)
	default:
		notNormal = NewVec3(0, 0, 1)
	}

	tangent := normal.Cross(notNormal).Normalize()
	bitangent := normal.Cross(tangent).Normalize()
	return tangent, bitangent
}
