package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// PBRTGroup is the group name of scenes discovered from .pbrt files
const PBRTGroup = "PBRT Scenes"

// NewPBRTScene loads a scene described in the supported PBRT subset.
// Film, Camera and Integrator settings replace the defaults; non-zero
// fields of configOverrides replace those in turn.
func NewPBRTScene(path string, configOverrides ...Config) (*Scene, error) {
	pbrt, err := loaders.LoadPBRT(path)
	if err != nil {
		return nil, err
	}

	s, err := BuildPBRTScene(pbrt, configOverrides...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// BuildPBRTScene converts parsed PBRT statements into a scene
func BuildPBRTScene(pbrt *loaders.PBRTScene, configOverrides ...Config) (*Scene, error) {
	config := pbrtConfig(pbrt)
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}
	s := New(config)

	for _, light := range pbrt.LightSources {
		switch light.Subtype {
		case "point":
			from, _ := light.GetVectorParam("from")
			intensity, ok := light.GetVectorParam("I")
			if !ok {
				intensity = core.Splat(1)
			}
			s.AddLight(lights.NewPointLight(from.Add(light.Translation), intensity))
		case "infinite":
			// Handled by pbrtConfig
		default:
			return nil, fmt.Errorf("%w: unsupported light %q", loaders.ErrInvalidPBRT, light.Subtype)
		}
	}

	for i := range pbrt.Shapes {
		shape := &pbrt.Shapes[i]
		surface, color, err := pbrtSurface(pbrt, shape.MaterialIndex)
		if err != nil {
			return nil, err
		}

		switch shape.Subtype {
		case "sphere":
			radius, ok := shape.GetFloatParam("radius")
			if !ok {
				radius = 1
			}
			if radius <= 0 {
				return nil, fmt.Errorf("%w: sphere radius %v", loaders.ErrInvalidPBRT, radius)
			}
			s.AddPrimitive(geometry.NewSphere(shape.Translation, radius, surface, color))

		case "trianglemesh":
			mesh, err := pbrtTriangleMesh(shape, surface, color, shape.MaterialIndex >= 0)
			if err != nil {
				return nil, err
			}
			s.AddPrimitive(mesh)

		default:
			return nil, fmt.Errorf("%w: unsupported shape %q", loaders.ErrInvalidPBRT, shape.Subtype)
		}
	}

	return s, nil
}

func pbrtConfig(pbrt *loaders.PBRTScene) Config {
	config := DefaultConfig()
	if pbrt.Film != nil {
		if w, ok := pbrt.Film.GetIntParam("xresolution"); ok {
			config.Width = w
		}
		if h, ok := pbrt.Film.GetIntParam("yresolution"); ok {
			config.Height = h
		}
	}
	if pbrt.Camera != nil {
		if fov, ok := pbrt.Camera.GetFloatParam("fov"); ok {
			config.FOV = fov
		}
	}
	if pbrt.Integrator != nil {
		if depth, ok := pbrt.Integrator.GetIntParam("maxdepth"); ok {
			config.MaxDepth = depth
		}
	}
	for _, light := range pbrt.LightSources {
		if light.Subtype != "infinite" {
			continue
		}
		if l, ok := light.GetVectorParam("L"); ok {
			config.BackgroundColor = l
		}
	}
	return config
}

// pbrtSurface maps a PBRT material onto a Whitted surface and its diffuse color.
// index -1 selects the default diffuse surface.
func pbrtSurface(pbrt *loaders.PBRTScene, index int) (geometry.Surface, r3.Vector, error) {
	surface := geometry.DefaultSurface()
	color := core.Splat(0.5)
	if index < 0 {
		return surface, color, nil
	}

	mat := &pbrt.Materials[index]
	switch mat.Subtype {
	case "diffuse", "matte":
		surface.MaterialType = material.DiffuseAndGlossy
		if c, ok := mat.GetVectorParam("reflectance"); ok {
			color = c
		} else if c, ok := mat.GetVectorParam("Kd"); ok {
			color = c
		}
	case "dielectric", "glass":
		surface.MaterialType = material.ReflectionAndRefraction
		surface.RefractiveIndex = 1.5
	case "conductor", "mirror":
		surface.MaterialType = material.Reflection
	default:
		return surface, color, fmt.Errorf("%w: unsupported material %q", loaders.ErrInvalidPBRT, mat.Subtype)
	}

	if eta, ok := mat.GetFloatParam("eta"); ok {
		surface.RefractiveIndex = eta
	}
	if v, ok := mat.GetFloatParam("shininess"); ok {
		surface.Phong.Shininess = v
	}
	if v, ok := mat.GetFloatParam("kd"); ok {
		surface.Phong.DiffuseWeight = v
	}
	if v, ok := mat.GetFloatParam("ks"); ok {
		surface.Phong.SpecularWeight = v
	}
	return surface, color, nil
}

// pbrtTriangleMesh builds a mesh from "point3 P", "integer indices" and an optional "point2 uv".
// Meshes without a material keep the checkerboard pattern.
func pbrtTriangleMesh(shape *loaders.PBRTStatement, surface geometry.Surface, color r3.Vector, solid bool) (*geometry.TriangleMesh, error) {
	points, err := shape.GetPoint3Array("P")
	if err != nil {
		return nil, err
	}
	indices, err := shape.GetIntArray("indices")
	if err != nil {
		return nil, err
	}
	uvs, err := shape.GetPoint2Array("uv")
	if err != nil {
		return nil, err
	}

	for i := range points {
		points[i] = points[i].Add(shape.Translation)
	}

	options := &geometry.TriangleMeshOptions{TexCoords: uvs}
	if solid {
		options.Texture = material.NewSolidColor(color)
	}
	return geometry.NewTriangleMesh(points, indices, surface, options)
}

// ListPBRTScenes scans dir for .pbrt scene files. A missing directory yields no scenes.
func ListPBRTScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.pbrt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		scenes = append(scenes, SceneInfo{
			ID:          "pbrt:" + filePath,
			DisplayName: titleCase(name),
			Description: "PBRT scene " + filepath.Base(filePath),
			Group:       PBRTGroup,
			Type:        "pbrt",
			FilePath:    filePath,
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}
