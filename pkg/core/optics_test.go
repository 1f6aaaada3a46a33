package core

import (
	"math"
	"testing"
)

func TestSchlick_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		cosTheta float64
		n1, n2   float64
		expected float64
	}{
		{"normal incidence air to glass", 1, 1.0, 1.5, 0.04},
		{"normal incidence glass to air", 1, 1.5, 1.0, 0.04},
		{"grazing", 0, 1.0, 1.5, 1.0},
		{"matched indices normal", 1, 1.0, 1.0, 0},
		{"matched indices oblique", 0.3, 1.0, 1.0, math.Pow(0.7, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Schlick(tt.cosTheta, tt.n1, tt.n2)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestReflect(t *testing.T) {
	v := NewVec3(1, -1, 0).Normalize()
	r := Reflect(v, NewVec3(0, 1, 0))
	want := NewVec3(1, 1, 0).Normalize()
	if r.Subtract(want).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", want, r)
	}
}

func TestRefract(t *testing.T) {
	normal := NewVec3(0, 1, 0)

	// Matched indices pass straight through
	v := NewVec3(1, -1, 0).Normalize()
	out, ok := Refract(v, normal, 1.0)
	if !ok || out.Subtract(v).Length() > 1e-12 {
		t.Errorf("Expected unchanged direction, got %v ok=%t", out, ok)
	}

	// Snell's law: sin(theta_t) = eta * sin(theta_i)
	eta := 1.0 / 1.5
	out, ok = Refract(v, normal, eta)
	if !ok {
		t.Fatal("Unexpected total internal reflection entering glass")
	}
	sinI := math.Sqrt(1 - math.Pow(v.Dot(normal), 2))
	sinT := math.Sqrt(1 - math.Pow(out.Dot(normal), 2))
	if math.Abs(sinT-eta*sinI) > 1e-12 {
		t.Errorf("Snell's law violated: sinT=%f expected %f", sinT, eta*sinI)
	}
	if math.Abs(out.Length()-1) > 1e-12 {
		t.Errorf("Refracted direction not unit length: %f", out.Length())
	}

	// Steep exit from glass totally internally reflects
	steep := NewVec3(1, -0.2, 0).Normalize()
	if _, ok := Refract(steep, normal, 1.5); ok {
		t.Error("Expected total internal reflection")
	}
}
