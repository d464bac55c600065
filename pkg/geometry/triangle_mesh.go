package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrInvalidMesh is returned when mesh indices or attributes are inconsistent
var ErrInvalidMesh = errors.New("geometry: invalid triangle mesh")

// TriangleMesh represents a collection of triangles sharing one surface.
// Triangles are tested linearly; the mesh owns them.
type TriangleMesh struct {
	Surface
	Texture material.ColorSource // Optional; defaults to the checkerboard pattern

	triangles []Triangle
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	TexCoords []r2.Point           // Optional per-vertex texture coordinates
	Texture   material.ColorSource // Optional diffuse color source
	Rotation  *r3.Vector           // Optional rotation (radians around X, Y, Z) to apply to vertices
	Center    *r3.Vector           // Optional center point for rotation
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices.
// Each group of 3 indices in faces forms a triangle.
func NewTriangleMesh(vertices []r3.Vector, faces []int, surface Surface, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%w: %d face indices is not a multiple of 3", ErrInvalidMesh, len(faces))
	}

	var texCoords []r2.Point
	if options != nil && options.TexCoords != nil {
		if len(options.TexCoords) != len(vertices) {
			return nil, fmt.Errorf("%w: %d texture coordinates for %d vertices",
				ErrInvalidMesh, len(options.TexCoords), len(vertices))
		}
		texCoords = options.TexCoords
	}

	workingVertices := vertices
	if options != nil && options.Rotation != nil {
		workingVertices = make([]r3.Vector, len(vertices))
		for i, vertex := range vertices {
			// Translate to center, rotate, then translate back
			if options.Center != nil {
				vertex = vertex.Sub(*options.Center)
			}
			vertex = rotateVertex(vertex, *options.Rotation)
			if options.Center != nil {
				vertex = vertex.Add(*options.Center)
			}
			workingVertices[i] = vertex
		}
	}

	numTriangles := len(faces) / 3
	triangles := make([]Triangle, numTriangles)
	for i := 0; i < numTriangles; i++ {
		idx := [3]int{faces[i*3], faces[i*3+1], faces[i*3+2]}
		for _, k := range idx {
			if k < 0 || k >= len(workingVertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrInvalidMesh, i, k, len(workingVertices))
			}
		}

		tri := NewTriangle(workingVertices[idx[0]], workingVertices[idx[1]], workingVertices[idx[2]])
		if texCoords != nil {
			tri.S0, tri.S1, tri.S2 = texCoords[idx[0]], texCoords[idx[1]], texCoords[idx[2]]
		}
		triangles[i] = tri
	}

	mesh := NewMesh(triangles, surface)
	if options != nil {
		mesh.Texture = options.Texture
	}
	return mesh, nil
}

// NewMesh creates a mesh that takes ownership of the given triangles
func NewMesh(triangles []Triangle, surface Surface) *TriangleMesh {
	return &TriangleMesh{
		Surface:   surface,
		triangles: triangles,
	}
}

// Intersect returns the nearest triangle hit, its index and barycentric coordinates
func (tm *TriangleMesh) Intersect(ray core.Ray) (Intersection, bool) {
	closest := Intersection{T: math.Inf(1)}
	hitAnything := false

	for i := range tm.triangles {
		t, b1, b2, ok := tm.triangles[i].Intersect(ray)
		if ok && t < closest.T {
			closest = Intersection{T: t, Index: i, UV: r2.Point{X: b1, Y: b2}}
			hitAnything = true
		}
	}

	return closest, hitAnything
}

// SurfaceProperties returns the face normal of triangle index and the
// interpolated texture coordinates at barycentric uv
func (tm *TriangleMesh) SurfaceProperties(point, incoming r3.Vector, index int, uv r2.Point) (r3.Vector, r2.Point) {
	tri := tm.triangles[index]
	return tri.Normal(), tri.TexCoord(uv.X, uv.Y)
}

// DiffuseColorAt samples the mesh texture, or the checkerboard when there is none
func (tm *TriangleMesh) DiffuseColorAt(st r2.Point) r3.Vector {
	if tm.Texture != nil {
		return tm.Texture.Evaluate(st)
	}
	return defaultPattern.Evaluate(st)
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

// Triangles returns the mesh triangles. The slice must not be modified.
func (tm *TriangleMesh) Triangles() []Triangle {
	return tm.triangles
}

func (tm *TriangleMesh) primitive() {}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation r3.Vector) r3.Vector {
	if rotation.X != 0 {
		cos, sin := math.Cos(rotation.X), math.Sin(rotation.X)
		vertex = r3.Vector{X: vertex.X, Y: vertex.Y*cos - vertex.Z*sin, Z: vertex.Y*sin + vertex.Z*cos}
	}
	if rotation.Y != 0 {
		cos, sin := math.Cos(rotation.Y), math.Sin(rotation.Y)
		vertex = r3.Vector{X: vertex.X*cos + vertex.Z*sin, Y: vertex.Y, Z: -vertex.X*sin + vertex.Z*cos}
	}
	if rotation.Z != 0 {
		cos, sin := math.Cos(rotation.Z), math.Sin(rotation.Z)
		vertex = r3.Vector{X: vertex.X*cos - vertex.Y*sin, Y: vertex.X*sin + vertex.Y*cos, Z: vertex.Z}
	}
	return vertex
}
