package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func writeTestImage(t *testing.T, path string, encode func(*os.File, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	img.Set(3, 1, color.RGBA{B: 255, A: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTexture_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	writeTestImage(t, path, func(f *os.File, img image.Image) error { return png.Encode(f, img) })

	texture, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}
	if texture.Width != 4 || texture.Height != 2 {
		t.Fatalf("Expected 4x2 texture, got %dx%d", texture.Width, texture.Height)
	}
	if texture.Pixels[0] != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected red, got %v", texture.Pixels[0])
	}
	if texture.Pixels[7] != core.NewVec3(0, 0, 1) {
		t.Errorf("Expected blue, got %v", texture.Pixels[7])
	}
}

func TestLoadTexture_TIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.tiff")
	writeTestImage(t, path, func(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) })

	texture, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}
	if texture.Width != 4 || texture.Height != 2 {
		t.Errorf("Expected 4x2 texture, got %dx%d", texture.Width, texture.Height)
	}
}

func TestLoadTexture_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadTexture(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTexture(garbage); err == nil {
		t.Error("Expected error for undecodable file")
	}
}

func TestTextureLoader_Cache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	writeTestImage(t, path, func(f *os.File, img image.Image) error { return png.Encode(f, img) })

	loader, err := NewTextureLoader(2)
	if err != nil {
		t.Fatal(err)
	}

	first, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if first != second {
		t.Error("Expected the cached texture on the second load")
	}
	if loader.Len() != 1 {
		t.Errorf("Expected 1 cached texture, got %d", loader.Len())
	}

	if _, err := NewTextureLoader(0); err == nil {
		t.Error("Expected error for zero cache size")
	}
}
