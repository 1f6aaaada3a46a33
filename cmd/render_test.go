package cmd

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestWritePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := writePNG(path, img); err != nil {
		t.Fatalf("writePNG() error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Expected a complete png: %v", err)
	}
	if got := color.RGBAModel.Convert(decoded.At(1, 1)); got != (color.RGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("Expected the written pixel, got %v", got)
	}
}

func TestWritePNG_Errors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	tests := []struct {
		name string
		path string
		img  image.Image
	}{
		{"missing directory", filepath.Join(t.TempDir(), "missing", "frame.png"), img},
		{"empty image", filepath.Join(t.TempDir(), "empty.png"), image.NewRGBA(image.Rect(0, 0, 0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := writePNG(tt.path, tt.img); err == nil {
				t.Errorf("Expected an error writing %s", tt.path)
			}
		})
	}
}
