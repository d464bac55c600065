package scene

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// ErrInvalidConfig is returned by Validate for unusable render settings
var ErrInvalidConfig = errors.New("scene: invalid config")

// Config contains the render settings carried by a scene
type Config struct {
	Width           int       // Image width in pixels
	Height          int       // Image height in pixels
	FOV             float64   // Vertical field of view in degrees
	BackgroundColor r3.Vector // Color of rays that escape the scene
	MaxDepth        int       // Maximum recursion depth of reflection and refraction rays
	Epsilon         float64   // Offset applied to secondary ray origins
}

// DefaultConfig returns the standard render settings
func DefaultConfig() Config {
	return Config{
		Width:           1280,
		Height:          960,
		FOV:             90,
		BackgroundColor: core.NewVec3(0.235294, 0.67451, 0.843137),
		MaxDepth:        5,
		Epsilon:         0.00001,
	}
}

// MergeConfig returns base with every non-zero field of override applied
func MergeConfig(base, override Config) Config {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.FOV != 0 {
		result.FOV = override.FOV
	}
	if override.BackgroundColor != (r3.Vector{}) {
		result.BackgroundColor = override.BackgroundColor
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Epsilon != 0 {
		result.Epsilon = override.Epsilon
	}
	return result
}

// Validate reports whether the config can be rendered
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("%w: field of view %v must be in (0, 180)", ErrInvalidConfig, c.FOV)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: negative max depth %d", ErrInvalidConfig, c.MaxDepth)
	case c.Epsilon < 0:
		return fmt.Errorf("%w: negative epsilon %v", ErrInvalidConfig, c.Epsilon)
	}
	return nil
}

// Scene contains all the elements needed for rendering. Primitives and
// lights are only ever appended; a scene must not be modified while it is
// being rendered.
type Scene struct {
	Config

	primitives []geometry.Primitive
	lights     []*lights.PointLight
}

// New creates an empty scene with the given config
func New(config Config) *Scene {
	return &Scene{Config: config}
}

// AddPrimitive appends a primitive; it is tested after all earlier ones
func (s *Scene) AddPrimitive(p geometry.Primitive) {
	s.primitives = append(s.primitives, p)
}

// AddLight appends a point light
func (s *Scene) AddLight(l *lights.PointLight) {
	s.lights = append(s.lights, l)
}

// Primitives returns the scene primitives in insertion order. The slice must not be modified.
func (s *Scene) Primitives() []geometry.Primitive {
	return s.primitives
}

// Lights returns the scene lights in insertion order. The slice must not be modified.
func (s *Scene) Lights() []*lights.PointLight {
	return s.lights
}

// PrimitiveCount returns the total number of spheres and triangles in the scene
func (s *Scene) PrimitiveCount() int {
	count := 0
	for _, p := range s.primitives {
		switch obj := p.(type) {
		case *geometry.TriangleMesh:
			count += obj.TriangleCount()
		default:
			count++
		}
	}
	return count
}

// NewGroundQuad creates a horizontal two-triangle quad at height y spanning
// [xMin, xMax] and [zFar, zNear], with texture coordinates running 0..1 over it
func NewGroundQuad(xMin, xMax, y, zNear, zFar float64, surface geometry.Surface) *geometry.TriangleMesh {
	mesh, err := geometry.NewTriangleMesh(
		[]r3.Vector{
			core.NewVec3(xMin, y, zNear),
			core.NewVec3(xMax, y, zNear),
			core.NewVec3(xMax, y, zFar),
			core.NewVec3(xMin, y, zFar),
		},
		[]int{0, 1, 3, 1, 2, 3},
		surface,
		&geometry.TriangleMeshOptions{TexCoords: unitSquareST},
	)
	if err != nil {
		// Indices are constant and in range
		panic(err)
	}
	return mesh
}
