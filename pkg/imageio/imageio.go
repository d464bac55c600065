// Package imageio encodes rendered frame buffers as PPM, PNG, JPEG or BMP.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// ErrUnsupportedFormat is returned for an unknown output format or file extension
var ErrUnsupportedFormat = errors.New("imageio: unsupported format")

// Format identifies an output encoding
type Format string

const (
	PPM  Format = "ppm"
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
)

// ParseFormat maps a format name or file extension (with or without the dot) to a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "ppm":
		return PPM, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case BMP:
		return "image/bmp"
	default:
		return "image/x-portable-pixmap"
	}
}

// WritePPM writes fb as a binary PPM: the header "P6\n<w> <h>\n255\n"
// followed by RGB bytes, row-major from the top row
func WritePPM(w io.Writer, fb *renderer.FrameBuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return fmt.Errorf("imageio: write ppm header: %w", err)
	}

	for _, p := range fb.Pixels {
		pixel := [3]byte{renderer.ToByte(p.X), renderer.ToByte(p.Y), renderer.ToByte(p.Z)}
		if _, err := bw.Write(pixel[:]); err != nil {
			return fmt.Errorf("imageio: write ppm pixels: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("imageio: write ppm pixels: %w", err)
	}
	return nil
}

// Encode writes fb to w in the given format
func Encode(w io.Writer, fb *renderer.FrameBuffer, format Format) error {
	var err error
	switch format {
	case PPM:
		return WritePPM(w, fb)
	case PNG:
		err = png.Encode(w, fb.ToRGBA())
	case JPEG:
		err = jpeg.Encode(w, fb.ToRGBA(), &jpeg.Options{Quality: 95})
	case BMP:
		err = bmp.Encode(w, fb.ToRGBA())
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %s: %w", format, err)
	}
	return nil
}

// WriteFile encodes fb to path, choosing the format from the file extension
func WriteFile(path string, fb *renderer.FrameBuffer) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}

	if err := Encode(f, fb, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("imageio: close %s: %w", path, err)
	}
	return nil
}
