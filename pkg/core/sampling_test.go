package core

import (
	"math"
	"testing"
)

func TestSampleCosineHemisphere_StaysInHemisphere(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(0, 0, -1),
		NewVec3(1, 1, 1).Normalize(),
		NewVec3(-0.3, 0.2, 0.9).Normalize(),
	}

	stream := NewStream(7, 3, 1)
	for _, normal := range normals {
		for i := 0; i < 500; i++ {
			dir := SampleCosineHemisphere(normal, stream.Get2D())
			if math.Abs(dir.Length()-1) > 1e-9 {
				t.Fatalf("Expected unit direction, got length %f", dir.Length())
			}
			if dir.Dot(normal) < -1e-12 {
				t.Fatalf("Direction %v points below surface with normal %v", dir, normal)
			}
		}
	}
}

func TestSampleCosineHemisphere_Extremes(t *testing.T) {
	normal := NewVec3(0, 0, 1)

	// u1 = 1 gives cos(theta) = 1: straight along the normal
	dir := SampleCosineHemisphere(normal, NewVec2(1, 0.37))
	if math.Abs(dir.Dot(normal)-1) > 1e-12 {
		t.Errorf("Expected direction along normal, got %v", dir)
	}

	// u1 = 0 gives a grazing direction
	dir = SampleCosineHemisphere(normal, NewVec2(0, 0.25))
	if math.Abs(dir.Dot(normal)) > 1e-12 {
		t.Errorf("Expected grazing direction, got %v", dir)
	}
}

func TestSampleCosineHemisphere_MeanCosine(t *testing.T) {
	// For a cosine-weighted distribution E[cos(theta)] = 2/3
	normal := NewVec3(0, 1, 0)
	stream := NewStream(1, 1, 1)
	const n = 20000

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += SampleCosineHemisphere(normal, stream.Get2D()).Dot(normal)
	}
	mean := sum / n
	if math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("Expected mean cosine near 2/3, got %f", mean)
	}
}

func TestOrthonormalBasis(t *testing.T) {
	normals := []Vec3{
		NewVec3(1, 0, 0),
		NewVec3(0, 1, 0),
		NewVec3(0, 0, 1),
		NewVec3(1, 1, 1).Normalize(),
		NewVec3(-1, -1, -1).Normalize(),
	}

	for _, n := range normals {
		tangent, bitangent := OrthonormalBasis(n)
		if math.Abs(tangent.Dot(n)) > 1e-12 || math.Abs(bitangent.Dot(n)) > 1e-12 || math.Abs(tangent.Dot(bitangent)) > 1e-12 {
			t.Errorf("Basis for %v is not orthogonal: %v %v", n, tangent, bitangent)
		}
		if math.Abs(tangent.Length()-1) > 1e-12 || math.Abs(bitangent.Length()-1) > 1e-12 {
			t.Errorf("Basis for %v is not normalized", n)
		}
	}
}
