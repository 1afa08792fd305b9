package analysis

import (
	"testing"

	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/philipparndt/gostamp/pkg/stl"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	m := stl.NewModel("tee")
	o := geometry.NewVector3(0, 0, 0)
	x := geometry.NewVector3(3, 0, 0)
	y := geometry.NewVector3(0, 4, 0)

	// Counter-clockwise seen from +Z faces front, the reverse faces back
	m.AddTriangle(geometry.NewTriangle(geometry.Vector3{}, o, x, y))
	m.AddTriangle(geometry.NewTriangle(geometry.Vector3{}, o, y, x))
	m.AddTriangle(geometry.NewTriangle(geometry.Vector3{}, o, o, x))

	s := Summarize(m)

	assert.Equal(t, "tee", s.Name)
	assert.Equal(t, 3, s.TriangleCount)
	assert.InDelta(t, 12.0, s.SurfaceArea, 1e-9)
	assert.InDelta(t, 6.0, s.FrontArea, 1e-9)
	assert.InDelta(t, 0.5, s.FrontCoverage(), 1e-9)
	assert.Equal(t, 1, s.DegenerateCount)
	assert.InDelta(t, 0.0, s.MinEdgeLength, 1e-9)
	assert.InDelta(t, 5.0, s.MaxEdgeLength, 1e-9)
	assert.InDelta(t, 4.0, s.Dimensions.Y, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(stl.NewModel(""))

	assert.Equal(t, 0, s.TriangleCount)
	assert.Equal(t, 0.0, s.FrontCoverage())
	assert.Equal(t, 0.0, s.AvgEdgeLength)
}

func TestFormatVector(t *testing.T) {
	assert.Equal(t, "(1.000, -2.500, 0.125)", FormatVector(geometry.NewVector3(1, -2.5, 0.125)))
}
