package material

import (
	"fmt"
	"strings"
)

// Material selects the shading model applied at a surface hit
type Material int

const (
	// DiffuseAndGlossy is shaded with direct lighting: Lambert diffuse plus Phong specular
	DiffuseAndGlossy Material = iota
	// ReflectionAndRefraction is a dielectric; reflection and refraction are blended by Fresnel
	ReflectionAndRefraction
	// Reflection is a mirror weighted by Fresnel reflectance
	Reflection
)

// String returns the material name used in scene files and the CLI
func (m Material) String() string {
	switch m {
	case DiffuseAndGlossy:
		return "diffuse"
	case ReflectionAndRefraction:
		return "glass"
	case Reflection:
		return "mirror"
	default:
		return fmt.Sprintf("Material(%d)", int(m))
	}
}

// ParseMaterial converts a material name back into a Material
func ParseMaterial(name string) (Material, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "diffuse", "diffuse_and_glossy":
		return DiffuseAndGlossy, nil
	case "glass", "reflection_and_refraction":
		return ReflectionAndRefraction, nil
	case "mirror", "reflection":
		return Reflection, nil
	}
	return DiffuseAndGlossy, fmt.Errorf("material: unknown material %q", name)
}

// SpecularProperties are the Phong parameters of a DiffuseAndGlossy surface
type SpecularProperties struct {
	Shininess      float64 // Phong exponent
	DiffuseWeight  float64 // Kd
	SpecularWeight float64 // Ks
}

// DefaultSpecular returns the parameters used when a primitive does not set any
func DefaultSpecular() SpecularProperties {
	return SpecularProperties{
		Shininess:      25,
		DiffuseWeight:  0.8,
		SpecularWeight: 0.2,
	}
}
