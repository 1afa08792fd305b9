package mesh

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/philipparndt/gostamp/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() *stl.Model {
	m := stl.NewModel("panel")
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(10, 0, 0)
	c := geometry.NewVector3(10, 20, 0)
	d := geometry.NewVector3(0, 20, 0)
	n := geometry.NewVector3(0, 0, 1)
	m.AddTriangle(geometry.NewTriangle(n, a, b, c))
	m.AddTriangle(geometry.NewTriangle(n, a, c, d))
	return m
}

func TestFromModelBuildsOneMesh(t *testing.T) {
	g := FromModel(quad())

	assert.Equal(t, "panel", g.Name)
	require.Len(t, g.Meshes, 1)

	m := g.Meshes[0]
	assert.Equal(t, 6, m.VertexCount())
	assert.Equal(t, 2, m.TriangleCount())
	assert.Len(t, m.Normals, 18)
	assert.Len(t, m.UVs, 12)
	assert.Len(t, m.Colors, 24)
}

func TestFromModelPlanarUVs(t *testing.T) {
	m := FromModel(quad()).Meshes[0]

	// First triangle: (0,0) (10,0) (10,20)
	assert.InDelta(t, 0.0, m.UVs[0], 1e-6)
	assert.InDelta(t, 1.0, m.UVs[1], 1e-6, "bottom of the model is the bottom of the texture")
	assert.InDelta(t, 1.0, m.UVs[2], 1e-6)
	assert.InDelta(t, 1.0, m.UVs[3], 1e-6)
	assert.InDelta(t, 1.0, m.UVs[4], 1e-6)
	assert.InDelta(t, 0.0, m.UVs[5], 1e-6, "top of the model is the top of the texture")
}

func TestPlanarUVFlatAxis(t *testing.T) {
	u, v := PlanarUV(geometry.NewVector3(3, 3, 3), geometry.Vector3{}, geometry.Vector3{})
	assert.Equal(t, float32(0.5), u)
	assert.Equal(t, float32(0.5), v)
}

func TestFromModelSplitsLargeModels(t *testing.T) {
	m := stl.NewModel("big")
	tri := quad().Triangles[0]
	for i := 0; i < MaxTrianglesPerMesh+10; i++ {
		m.AddTriangle(tri)
	}

	g := FromModel(m)
	require.Len(t, g.Meshes, 2)
	assert.Equal(t, MaxTrianglesPerMesh, g.Meshes[0].TriangleCount())
	assert.Equal(t, 10, g.Meshes[1].TriangleCount())
	assert.Equal(t, MaxTrianglesPerMesh+10, g.TriangleCount())
}

func TestFromModelEmpty(t *testing.T) {
	g := FromModel(stl.NewModel("empty"))
	assert.Empty(t, g.Meshes)
	assert.Equal(t, 0, g.TriangleCount())
}

func TestLoadSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tee.stl")
	content := "solid\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nendfacet\nendsolid\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	g, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "tee.stl", g.Name)
	assert.Equal(t, path, g.Source)
	assert.Equal(t, 1, g.TriangleCount())
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load(context.Background(), "shirt.glb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.STL"))
	assert.True(t, Supported("b.scad"))
	assert.False(t, Supported("c.obj"))
}

func TestWatchList(t *testing.T) {
	files, err := WatchList("model.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"model.stl"}, files)

	dir := t.TempDir()
	main := filepath.Join(dir, "shirt.scad")
	require.NoError(t, os.WriteFile(main, []byte("use <sleeve.scad>\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sleeve.scad"), []byte(""), 0o644))

	files, err = WatchList(main)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
