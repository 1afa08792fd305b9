package compositor

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/philipparndt/gostamp/pkg/overlay"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// SelectionColor is used for the dashed outline and the handles
var SelectionColor = color.RGBA{R: 0x2b, G: 0x6d, B: 0xf6, A: 0xff}

const (
	dashOn  = 6.0
	dashOff = 4.0
)

// RenderOptions tunes Render. The zero value draws on a transparent surface
// with bilinear resampling.
type RenderOptions struct {
	Background   color.Color
	Interpolator xdraw.Interpolator
}

// Render redraws the whole surface: background, then every layer bottom to
// top, then the selection outline and handles of selectedID if it is set.
// Only the surface is mutated.
func Render(s *Surface, layers []overlay.Layer, selectedID overlay.LayerID, opts RenderOptions) {
	dst := s.Image()
	bg := opts.Background
	if bg == nil {
		bg = color.Transparent
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	interp := opts.Interpolator
	if interp == nil {
		interp = xdraw.ApproxBiLinear
	}

	var selected *overlay.Layer
	for i := range layers {
		drawLayer(dst, layers[i], s.Scale(), interp)
		if selectedID != "" && layers[i].ID == selectedID {
			selected = &layers[i]
		}
	}

	// Chrome goes on top of every layer so a covered selection stays grabbable
	if selected != nil {
		drawSelection(dst, *selected, s.Scale())
	}
}

// drawLayer maps the bitmap onto the layer rect. A negative W or H mirrors
// the bitmap around the anchor, the same as scale(-1) after translate(x, y).
func drawLayer(dst *image.RGBA, l overlay.Layer, scale float64, interp xdraw.Transformer) {
	if l.Source == nil {
		return
	}
	sr := l.Source.Bounds()
	if sr.Empty() {
		return
	}
	absW, absH := math.Abs(l.W)*scale, math.Abs(l.H)*scale
	if absW < 1e-9 || absH < 1e-9 {
		return
	}

	kx := absW / float64(sr.Dx())
	ky := absH / float64(sr.Dy())
	if l.W < 0 {
		kx = -kx
	}
	if l.H < 0 {
		ky = -ky
	}

	m := f64.Aff3{
		kx, 0, l.X*scale - kx*float64(sr.Min.X),
		0, ky, l.Y*scale - ky*float64(sr.Min.Y),
	}
	interp.Transform(dst, m, l.Source, sr, xdraw.Over, nil)
}

func drawSelection(dst *image.RGBA, l overlay.Layer, scale float64) {
	b := l.Bounds()
	x0 := int(math.Round(b.X * scale))
	y0 := int(math.Round(b.Y * scale))
	x1 := int(math.Round((b.X + b.W) * scale))
	y1 := int(math.Round((b.Y + b.H) * scale))

	on := max(1, int(math.Round(dashOn*scale)))
	off := max(1, int(math.Round(dashOff*scale)))
	thickness := max(1, int(math.Round(scale)))

	for t := 0; t < thickness; t++ {
		drawDashedLine(dst, x0, y0+t, x1, y0+t, on, off, SelectionColor)
		drawDashedLine(dst, x1-t, y0, x1-t, y1, on, off, SelectionColor)
		drawDashedLine(dst, x1, y1-t, x0, y1-t, on, off, SelectionColor)
		drawDashedLine(dst, x0+t, y1, x0+t, y0, on, off, SelectionColor)
	}

	fill := image.NewUniform(SelectionColor)
	for _, h := range overlay.ResizeHandles() {
		r := overlay.HandleRect(l.Rect(), h)
		px := image.Rect(
			int(math.Round(r.X*scale)),
			int(math.Round(r.Y*scale)),
			int(math.Round((r.X+r.W)*scale)),
			int(math.Round((r.Y+r.H)*scale)),
		)
		draw.Draw(dst, px, fill, image.Point{}, draw.Src)
	}
}

// drawDashedLine draws a line with Bresenham's algorithm, painting the first
// on pixels of every on+off run
func drawDashedLine(img *image.RGBA, x1, y1, x2, y2, on, off int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	period := on + off

	for step := 0; ; step++ {
		if step%period < on && image.Pt(x1, y1).In(bounds) {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
