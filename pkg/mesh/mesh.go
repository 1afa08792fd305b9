// Package mesh turns loaded models into render-ready mesh groups with
// texture coordinates for the baked overlay.
package mesh

import (
	"math"

	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/philipparndt/gostamp/pkg/stl"
)

// MaxTrianglesPerMesh keeps every mesh within 16-bit vertex indexing
const MaxTrianglesPerMesh = 65535 / 3

// Mesh is an unindexed triangle list. Positions and Normals hold three
// floats per vertex, UVs two, Colors four bytes of baked light.
type Mesh struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Colors    []uint8
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles
func (m *Mesh) TriangleCount() int {
	return m.VertexCount() / 3
}

// Group is everything loaded from one model file. The baked texture is
// applied to all of its meshes.
type Group struct {
	Name   string
	Source string
	Meshes []*Mesh
	Bounds geometry.BoundingBox
}

// TriangleCount returns the number of triangles over all meshes
func (g *Group) TriangleCount() int {
	n := 0
	for _, m := range g.Meshes {
		n += m.TriangleCount()
	}
	return n
}

var lightDir = geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

// FromModel converts a model into a group, splitting it into meshes of at
// most MaxTrianglesPerMesh triangles. UVs are a planar projection onto the
// XY plane of the model bounds, so the texture covers the front of the model
// with its top edge at the highest Y.
func FromModel(model *stl.Model) *Group {
	g := &Group{Name: model.Name, Bounds: model.BoundingBox()}
	if model.TriangleCount() == 0 {
		return g
	}

	for start := 0; start < len(model.Triangles); start += MaxTrianglesPerMesh {
		end := min(start+MaxTrianglesPerMesh, len(model.Triangles))
		g.Meshes = append(g.Meshes, buildMesh(model.Triangles[start:end], g.Bounds))
	}
	return g
}

func buildMesh(triangles []geometry.Triangle, bounds geometry.BoundingBox) *Mesh {
	vertexCount := len(triangles) * 3
	m := &Mesh{
		Positions: make([]float32, 0, vertexCount*3),
		Normals:   make([]float32, 0, vertexCount*3),
		UVs:       make([]float32, 0, vertexCount*2),
		Colors:    make([]uint8, 0, vertexCount*4),
	}

	size := bounds.Size()
	for _, t := range triangles {
		normal := t.CalculateNormal()

		// Grey so the texture colours pass through unchanged, min 30% ambient
		shade := uint8(255 * math.Max(0.3, -normal.Dot(lightDir)))

		for _, v := range t.Vertices() {
			u, w := PlanarUV(v, bounds.Min, size)
			m.Positions = append(m.Positions, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(normal.X), float32(normal.Y), float32(normal.Z))
			m.UVs = append(m.UVs, u, w)
			m.Colors = append(m.Colors, shade, shade, shade, 255)
		}
	}
	return m
}

// PlanarUV projects v onto the XY plane of a box starting at origin with the
// given size. A flat axis maps to the middle of the texture.
func PlanarUV(v, origin, size geometry.Vector3) (float32, float32) {
	u, w := 0.5, 0.5
	if size.X > 0 {
		u = (v.X - origin.X) / size.X
	}
	if size.Y > 0 {
		w = 1 - (v.Y-origin.Y)/size.Y
	}
	return float32(u), float32(w)
}
