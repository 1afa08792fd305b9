// Package compositor rasterizes the layer stack and bakes it over the base
// pattern into the texture handed to the 3D view.
package compositor

import (
	"image"
	"math"

	"github.com/philipparndt/gostamp/pkg/geometry"
)

// Surface is an RGBA backing store addressed in logical units. Scale is the
// device pixel ratio: one logical unit covers Scale pixels.
type Surface struct {
	width, height int
	scale         float64
	img           *image.RGBA
}

// NewSurface allocates a surface of width×height logical units
func NewSurface(width, height int, scale float64) *Surface {
	s := &Surface{}
	s.Resize(width, height, scale)
	return s
}

// Resize changes the logical size or scale. Pixels are reallocated only when
// the pixel size changes.
func (s *Surface) Resize(width, height int, scale float64) {
	if scale <= 0 {
		scale = 1
	}
	s.width, s.height, s.scale = max(width, 0), max(height, 0), scale

	pw, ph := s.PixelSize()
	if s.img == nil || s.img.Bounds().Dx() != pw || s.img.Bounds().Dy() != ph {
		s.img = image.NewRGBA(image.Rect(0, 0, pw, ph))
	}
}

// LogicalSize returns the size in logical units
func (s *Surface) LogicalSize() (int, int) {
	return s.width, s.height
}

// PixelSize returns the size of the backing image
func (s *Surface) PixelSize() (int, int) {
	return int(math.Round(float64(s.width) * s.scale)), int(math.Round(float64(s.height) * s.scale))
}

// Scale returns the device pixel ratio
func (s *Surface) Scale() float64 {
	return s.scale
}

// Image returns the backing image. It is overwritten by the next Render.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// ToLogical converts a device pixel position to logical coordinates
func (s *Surface) ToLogical(px, py float64) geometry.Point {
	return geometry.Pt(px/s.scale, py/s.scale)
}
