package scene

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// ErrUnknownScene is returned by Create for IDs that are not registered
var ErrUnknownScene = errors.New("scene: unknown scene")

// BuiltInGroup is the group name of the scenes compiled into the binary
const BuiltInGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Unique identifier, passed to Create
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Group       string `json:"group"`              // Grouping category
	Type        string `json:"type"`               // "builtin", "ply" or "pbrt"
	FilePath    string `json:"filePath,omitempty"` // Path to the scene file (ply and pbrt types only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtInScene struct {
	info  SceneInfo
	build func(...Config) *Scene
}

var builtInScenes = []builtInScene{
	{SceneInfo{ID: "default", Description: "Glossy and glass spheres over a checkered floor"}, NewDefaultScene},
	{SceneInfo{ID: "plane", Description: "A single textured triangle under one light"}, NewPlaneScene},
	{SceneInfo{ID: "mirror", Description: "Mirror sphere between glass and glossy spheres"}, NewMirrorScene},
	{SceneInfo{ID: "sphere-grid", Description: "Grid of colored diffuse, glass and mirror spheres"}, NewSphereGridScene},
	{SceneInfo{ID: "pyramid", Description: "Rotated pyramid triangle mesh"}, NewPyramidScene},
	{SceneInfo{ID: "empty", Description: "No geometry; renders the background color"}, NewEmptyScene},
}

func init() {
	for i := range builtInScenes {
		info := &builtInScenes[i].info
		info.DisplayName = titleCase(info.ID)
		info.Group = BuiltInGroup
		info.Type = "builtin"
	}
}

// ListBuiltInScenes returns the compiled-in scene presets
func ListBuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtInScenes))
	for i, s := range builtInScenes {
		scenes[i] = s.info
	}
	return scenes
}

// ListPLYScenes scans dir for .ply meshes. A missing directory yields no scenes.
func ListPLYScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.ply"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		info := SceneInfo{
			ID:          "ply:" + filePath,
			DisplayName: titleCase(name),
			Description: "PLY mesh " + filepath.Base(filePath),
			Group:       "PLY Meshes",
			Type:        "ply",
			FilePath:    filePath,
		}
		if tex := findTexture(filePath); tex != "" {
			info.Description += " textured with " + filepath.Base(tex)
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ListAllScenes returns the built-in scenes plus the PLY meshes and PBRT
// scenes found in sceneDir, grouped by category
func ListAllScenes(sceneDir string) (ScenesResponse, error) {
	var response ScenesResponse

	plyScenes, err := ListPLYScenes(sceneDir)
	if err != nil {
		return response, fmt.Errorf("failed to list PLY scenes: %w", err)
	}
	pbrtScenes, err := ListPBRTScenes(sceneDir)
	if err != nil {
		return response, fmt.Errorf("failed to list PBRT scenes: %w", err)
	}

	response.Groups = append(response.Groups, SceneGroup{Name: BuiltInGroup, Scenes: ListBuiltInScenes()})
	if len(plyScenes) > 0 {
		response.Groups = append(response.Groups, SceneGroup{Name: plyScenes[0].Group, Scenes: plyScenes})
	}
	if len(pbrtScenes) > 0 {
		response.Groups = append(response.Groups, SceneGroup{Name: PBRTGroup, Scenes: pbrtScenes})
	}

	return response, nil
}

// Create builds the scene with the given ID. Non-zero fields of override
// replace the scene's default config.
func Create(id string, override Config) (*Scene, error) {
	if path, ok := strings.CutPrefix(id, "ply:"); ok {
		return NewPLYScene(path, override)
	}
	if path, ok := strings.CutPrefix(id, "pbrt:"); ok {
		return NewPBRTScene(path, override)
	}
	for _, s := range builtInScenes {
		if s.info.ID == id {
			return s.build(override), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// NewPLYScene loads a PLY mesh, fits it into a 4-unit box in front of the
// camera and places it on a checkered floor. An image next to the mesh with
// the same base name (.tif, .tiff, .png, .jpg) is used as its texture.
func NewPLYScene(path string, configOverrides ...Config) (*Scene, error) {
	config := DefaultConfig()
	if len(configOverrides) > 0 {
		config = MergeConfig(config, configOverrides[0])
	}

	data, err := loaders.LoadPLY(path)
	if err != nil {
		return nil, err
	}
	fitVertices(data.Vertices, core.NewVec3(0, -1, -10), 4)

	options := &geometry.TriangleMeshOptions{}
	if tex := findTexture(path); tex != "" {
		texture, err := loaders.DefaultTextures.Load(tex)
		if err != nil {
			return nil, err
		}
		options.Texture = texture
	}

	mesh, err := data.TriangleMesh(geometry.DefaultSurface(), options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s := New(config)
	s.AddPrimitive(mesh)
	s.AddPrimitive(NewGroundQuad(-8, 8, -3, -4, -20, geometry.DefaultSurface()))
	s.AddLight(lights.NewPointLight(core.NewVec3(-20, 70, 20), core.Splat(0.5)))
	s.AddLight(lights.NewPointLight(core.NewVec3(30, 50, -12), core.Splat(0.5)))
	return s, nil
}

// fitVertices uniformly scales and translates vertices in place so their
// bounding box is centered on center with its largest side equal to size
func fitVertices(vertices []r3.Vector, center r3.Vector, size float64) {
	if len(vertices) == 0 {
		return
	}

	lo, hi := vertices[0], vertices[0]
	for _, v := range vertices[1:] {
		lo = core.NewVec3(math.Min(lo.X, v.X), math.Min(lo.Y, v.Y), math.Min(lo.Z, v.Z))
		hi = core.NewVec3(math.Max(hi.X, v.X), math.Max(hi.Y, v.Y), math.Max(hi.Z, v.Z))
	}

	extent := hi.Sub(lo)
	largest := math.Max(extent.X, math.Max(extent.Y, extent.Z))
	scale := 1.0
	if largest > 0 {
		scale = size / largest
	}
	mid := lo.Add(hi).Mul(0.5)

	for i, v := range vertices {
		vertices[i] = v.Sub(mid).Mul(scale).Add(center)
	}
}

// findTexture returns the first image file sharing the mesh's base name
func findTexture(meshPath string) string {
	base := strings.TrimSuffix(meshPath, filepath.Ext(meshPath))
	for _, ext := range []string{".tif", ".tiff", ".png", ".jpg", ".jpeg"} {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext
		}
	}
	return ""
}

// titleCase converts a filename-style string to title case
// e.g., "sphere-grid" -> "Sphere Grid"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
