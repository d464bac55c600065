package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Color        [3]float64             `json:"color"` // Shaded color of the pixel
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractSurfaceInfo describes the shading attributes of a primitive
func extractSurfaceInfo(p geometry.Primitive) map[string]interface{} {
	phong := p.Specular()
	return map[string]interface{}{
		"ior":            p.IOR(),
		"shininess":      phong.Shininess,
		"diffuseWeight":  phong.DiffuseWeight,
		"specularWeight": phong.SpecularWeight,
	}
}

// extractGeometryInfo describes the hit primitive and the part of it that was hit
func extractGeometryInfo(hit integrator.HitPayload) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := hit.Primitive.(type) {
	case *geometry.Sphere:
		properties["center"] = vec(geom.Center)
		properties["radius"] = geom.Radius()
		c := geom.Color
		properties["color"] = fmt.Sprintf("#%02x%02x%02x",
			renderer.ToByte(c.X), renderer.ToByte(c.Y), renderer.ToByte(c.Z))
		return "sphere", properties

	case *geometry.TriangleMesh:
		tri := geom.Triangles()[hit.Index]
		properties["triangleCount"] = geom.TriangleCount()
		properties["triangleIndex"] = hit.Index
		properties["vertices"] = [3][3]float64{vec(tri.V0), vec(tri.V1), vec(tri.V2)}
		properties["barycentric"] = [2]float64{hit.UV.X, hit.UV.Y}
		properties["textured"] = geom.Texture != nil
		return "mesh", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts the primary ray of pixel (x, y) and reports the first primitive hit
func inspectPixel(sceneObj *scene.Scene, x, y int) InspectResponse {
	camera := renderer.NewCamera(sceneObj.Config)
	ray := camera.GetRay(x, y)

	color := integrator.NewWhittedIntegrator(integrator.WhittedConfig{}).CastRay(ray, sceneObj, 0)

	hit, ok := integrator.Trace(ray, sceneObj.Primitives())
	if !ok {
		return InspectResponse{Hit: false, Color: vec(color)}
	}

	point := ray.At(hit.TNear)
	normal, _ := hit.Primitive.SurfaceProperties(point, ray.Direction, hit.Index, hit.UV)
	geometryType, geometryProps := extractGeometryInfo(hit)

	return InspectResponse{
		Hit:          true,
		MaterialType: hit.Primitive.Material().String(),
		GeometryType: geometryType,
		Point:        vec(point),
		Normal:       vec(normal),
		Distance:     hit.TNear,
		FrontFace:    ray.Direction.Dot(normal) < 0,
		Color:        vec(color),
		Properties: map[string]interface{}{
			"surface":  extractSurfaceInfo(hit.Primitive),
			"geometry": geometryProps,
		},
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.sceneForRequest(req)
	if err != nil {
		s.writeRenderError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, pixelX, pixelY))
}

func vec(v r3.Vector) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
