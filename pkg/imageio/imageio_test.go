package imageio

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/bmp"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

func testBuffer() *renderer.FrameBuffer {
	fb := renderer.NewFrameBuffer(2, 2)
	fb.Set(0, 0, core.NewVec3(1, 0, 0))
	fb.Set(1, 0, core.NewVec3(0, 1, 0))
	fb.Set(0, 1, core.NewVec3(0, 0, 1))
	fb.Set(1, 1, core.NewVec3(0.5, 2, -1))
	return fb
}

func TestWritePPMExactBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, testBuffer()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := append([]byte("P6\n2 2\n255\n"),
		255, 0, 0,
		0, 255, 0,
		0, 0, 255,
		127, 255, 0,
	)
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Errorf("Expected %v, got %v", expected, buf.Bytes())
	}
}

func TestWritePPMBackgroundOnly(t *testing.T) {
	fb := renderer.NewFrameBuffer(3, 1)
	bg := core.NewVec3(0.235294, 0.67451, 0.843137)
	for i := range fb.Pixels {
		fb.Pixels[i] = bg
	}

	var buf bytes.Buffer
	if err := WritePPM(&buf, fb); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	header := "P6\n3 1\n255\n"
	data := buf.Bytes()[len(header):]
	if string(buf.Bytes()[:len(header)]) != header || len(data) != 9 {
		t.Fatalf("Unexpected output %q", buf.Bytes())
	}
	// 0.235294*255 = 59.99997, truncated
	for i := 0; i < 9; i += 3 {
		if data[i] != 59 || data[i+1] != 172 || data[i+2] != 214 {
			t.Errorf("Unexpected pixel %v", data[i:i+3])
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		expected Format
	}{
		{".ppm", PPM},
		{"PNG", PNG},
		{".jpg", JPEG},
		{"jpeg", JPEG},
		{".bmp", BMP},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.name)
		if err != nil || got != tt.expected {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.name, got, err)
		}
	}

	if _, err := ParseFormat(".gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWriteFileFormats(t *testing.T) {
	dir := t.TempDir()
	fb := testBuffer()

	for _, name := range []string{"out.png", "out.jpg", "out.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(path, fb); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer f.Close()

			var img image.Image
			if filepath.Ext(name) == ".bmp" {
				img, err = bmp.Decode(f)
			} else {
				img, _, err = image.Decode(f)
			}
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
				t.Errorf("Unexpected bounds %v", img.Bounds())
			}
		})
	}
}

func TestWriteFilePNGPixels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := WriteFile(path, testBuffer()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 127 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("Unexpected pixel (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestWriteFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := WriteFile(path, testBuffer()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("No file should be created for an unsupported format")
	}
}

func TestFormatContentType(t *testing.T) {
	if PNG.ContentType() != "image/png" || PPM.ContentType() != "image/x-portable-pixmap" {
		t.Error("Unexpected content types")
	}
}
