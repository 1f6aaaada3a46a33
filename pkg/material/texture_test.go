package material

import (
	"testing"

	"github.com/df07/go-pathcore/pkg/core"
	"github.com/google/go-cmp/cmp"
)

func TestTexture_Evaluate(t *testing.T) {
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	// Row 0 is the top of the image
	texture := NewTexture(2, 2, []core.Vec3{
		white, black,
		black, white,
	})

	tests := []struct {
		name     string
		uv       core.Vec2
		expected core.Vec3
	}{
		{"top-left texel center", core.NewVec2(0.25, 0.75), white},
		{"top-right texel center", core.NewVec2(0.75, 0.75), black},
		{"bottom-left texel center", core.NewVec2(0.25, 0.25), black},
		{"bottom-right texel center", core.NewVec2(0.75, 0.25), white},
		{"center blends all four", core.NewVec2(0.5, 0.5), core.NewVec3(0.5, 0.5, 0.5)},
		{"halfway along the top row", core.NewVec2(0.5, 0.75), core.NewVec3(0.5, 0.5, 0.5)},
		{"wraps past one", core.NewVec2(1.25, 0.75), white},
		{"wraps below zero", core.NewVec2(-0.75, -0.25), white},
		{"edge blends with the opposite side", core.NewVec2(0, 0.75), core.NewVec3(0.5, 0.5, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texture.Evaluate(tt.uv)
			if diff := cmp.Diff(tt.expected, got, approx); diff != "" {
				t.Errorf("Evaluate(%v) mismatch (-want +got):\n%s", tt.uv, diff)
			}
		})
	}
}

func TestTextureSet_Sample(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	set := NewTextureSet()
	handle := set.Add(NewTexture(1, 1, []core.Vec3{red}))
	broken := set.Add(NewTexture(2, 2, []core.Vec3{red}))

	if handle != 0 || broken != 1 || set.Len() != 2 {
		t.Fatalf("Unexpected handles %d, %d for %d textures", handle, broken, set.Len())
	}

	tests := []struct {
		name     string
		handle   int
		expected core.Vec3
	}{
		{"valid handle", handle, red},
		{"pixel buffer too short", broken, missingTexture},
		{"negative handle", -1, missingTexture},
		{"handle past the end", 7, missingTexture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := set.Sample(tt.handle, core.NewVec2(0.5, 0.5))
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Sample() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProceduralTextures(t *testing.T) {
	a := core.NewVec3(1, 0, 0)
	b := core.NewVec3(0, 0, 1)

	checker := NewCheckerboardTexture(4, 4, 2, a, b)
	if !checker.Valid() {
		t.Fatal("Checkerboard texture has an invalid pixel buffer")
	}
	if checker.Pixels[0] != a || checker.Pixels[2] != b || checker.Pixels[2*4] != b || checker.Pixels[2*4+2] != a {
		t.Errorf("Unexpected checkerboard layout: %v", checker.Pixels)
	}

	debug := NewUVDebugTexture(8, 8)
	got := debug.Evaluate(core.NewVec2(0.3, 0.6))
	if diff := cmp.Diff(core.NewVec3(0.3, 0.6, 0), got, approx); diff != "" {
		t.Errorf("UV debug texture should reproduce uv (-want +got):\n%s", diff)
	}

	gradient := NewGradientTexture(1, 3, a, b)
	if diff := cmp.Diff(core.NewVec3(0.5, 0, 0.5), gradient.Pixels[1], approx); diff != "" {
		t.Errorf("Gradient midpoint mismatch (-want +got):\n%s", diff)
	}
}
