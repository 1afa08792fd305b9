// Package analysis summarizes a model for the info command and status bar.
package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/philipparndt/gostamp/pkg/stl"
)

// Summary describes a model's size and how much of it the front projection covers
type Summary struct {
	Name          string
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	SurfaceArea   float64
	TriangleCount int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64

	// FrontArea is the area of triangles facing +Z, the side the planar UVs
	// are projected from
	FrontArea float64
	// DegenerateCount counts zero-area triangles
	DegenerateCount int
}

// FrontCoverage returns FrontArea as a share of the surface area
func (s *Summary) FrontCoverage() float64 {
	if s.SurfaceArea == 0 {
		return 0
	}
	return s.FrontArea / s.SurfaceArea
}

// Summarize walks every triangle of model once
func Summarize(model *stl.Model) *Summary {
	s := &Summary{
		Name:          model.Name,
		BoundingBox:   model.BoundingBox(),
		TriangleCount: model.TriangleCount(),
	}
	if s.TriangleCount == 0 {
		return s
	}
	s.Dimensions = s.BoundingBox.Size()

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0

	for _, t := range model.Triangles {
		area := t.Area()
		s.SurfaceArea += area
		if area < 1e-12 {
			s.DegenerateCount++
		} else if t.CalculateNormal().Z > 0 {
			s.FrontArea += area
		}

		for _, l := range [3]float64{t.V1.Distance(t.V2), t.V2.Distance(t.V3), t.V3.Distance(t.V1)} {
			totalLength += l
			minLength = math.Min(minLength, l)
			maxLength = math.Max(maxLength, l)
		}
	}

	s.MinEdgeLength = minLength
	s.MaxEdgeLength = maxLength
	s.AvgEdgeLength = totalLength / float64(s.TriangleCount*3)
	return s
}

// FormatVector formats a vector for display
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
