package renderer

import (
	"image"
	"image/color"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// FrameBuffer holds linear RGB radiance for every pixel, row-major from the top row
type FrameBuffer struct {
	Width  int
	Height int
	Pixels []r3.Vector // Pixels[j*Width + i]
}

// NewFrameBuffer creates a black frame buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]r3.Vector, width*height),
	}
}

// At returns the color of pixel (i, j)
func (fb *FrameBuffer) At(i, j int) r3.Vector {
	return fb.Pixels[j*fb.Width+i]
}

// Set stores the color of pixel (i, j)
func (fb *FrameBuffer) Set(i, j int, c r3.Vector) {
	fb.Pixels[j*fb.Width+i] = c
}

// ToByte converts a channel value to 8 bits. Values are clamped to [0,1]
// and truncated, not rounded.
func ToByte(v float64) uint8 {
	return uint8(core.ClampFloat(v, 0, 1) * 255)
}

// ToRGBA converts the buffer to an opaque 8-bit image
func (fb *FrameBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for j := 0; j < fb.Height; j++ {
		for i := 0; i < fb.Width; i++ {
			c := fb.At(i, j)
			img.SetRGBA(i, j, color.RGBA{R: ToByte(c.X), G: ToByte(c.Y), B: ToByte(c.Z), A: 255})
		}
	}
	return img
}
