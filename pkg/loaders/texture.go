package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"path/filepath"

	"github.com/echoflaresat/tiff"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/mmap"
	_ "golang.org/x/image/tiff" // TIFF fallback decoder for image.Decode

	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var logger = log.New("loaders")

// DefaultTextureCacheSize is the number of decoded textures kept by DefaultTextures
const DefaultTextureCacheSize = 32

// DefaultTextures is the shared texture loader used by scene presets
var DefaultTextures = MustNewTextureLoader(DefaultTextureCacheSize)

// TextureLoader decodes image files into textures and keeps the most
// recently used ones in memory. Safe for concurrent use.
type TextureLoader struct {
	cache *lru.Cache // absolute path -> *material.ImageTexture
}

// NewTextureLoader creates a loader caching up to size textures
func NewTextureLoader(size int) (*TextureLoader, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("loaders: texture cache: %w", err)
	}
	return &TextureLoader{cache: cache}, nil
}

// MustNewTextureLoader is like NewTextureLoader but panics on an invalid size
func MustNewTextureLoader(size int) *TextureLoader {
	tl, err := NewTextureLoader(size)
	if err != nil {
		panic(err)
	}
	return tl
}

// Load returns the texture for a TIFF, PNG or JPEG file
func (tl *TextureLoader) Load(filename string) (*material.ImageTexture, error) {
	key, err := filepath.Abs(filename)
	if err != nil {
		key = filename
	}
	if cached, ok := tl.cache.Get(key); ok {
		return cached.(*material.ImageTexture), nil
	}

	texture, err := LoadTexture(filename)
	if err != nil {
		return nil, err
	}
	tl.cache.Add(key, texture)

	logger.Debugf("loaded texture %s (%dx%d)", filename, texture.Width, texture.Height)
	return texture, nil
}

// Len returns the number of cached textures
func (tl *TextureLoader) Len() int {
	return tl.cache.Len()
}

// LoadTexture memory-maps an image file and decodes it into a texture,
// trying TIFF first and falling back to the registered image codecs. The
// decoded image may read from the mapping, so pixels are copied out before
// it is unmapped.
func LoadTexture(filename string) (*material.ImageTexture, error) {
	reader, err := mmap.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer reader.Close()

	size := int64(reader.Len())
	img, err := tiff.Decode(io.NewSectionReader(reader, 0, size))
	if err != nil {
		img, _, err = image.Decode(io.NewSectionReader(reader, 0, size))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return material.NewImageTextureFromImage(img), nil
}
