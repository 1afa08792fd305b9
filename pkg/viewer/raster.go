package viewer

import (
	"image"
	"image/color"
	"math"
)

// Vertex is a projected vertex with its texture coordinate
type Vertex struct {
	X, Y, Z float64
	U, V    float64
}

// Framebuffer is a color image with a depth buffer
type Framebuffer struct {
	img   *image.RGBA
	depth []float64
}

// NewFramebuffer allocates a w×h framebuffer
func NewFramebuffer(w, h int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(w, h)
	return fb
}

// Resize reallocates when the size changes
func (fb *Framebuffer) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if fb.img != nil && fb.img.Bounds().Dx() == w && fb.img.Bounds().Dy() == h {
		return
	}
	fb.img = image.NewRGBA(image.Rect(0, 0, w, h))
	fb.depth = make([]float64, w*h)
}

// Clear fills the image with bg and resets the depth buffer
func (fb *Framebuffer) Clear(bg color.RGBA) {
	for i := 0; i < len(fb.img.Pix); i += 4 {
		fb.img.Pix[i+0] = bg.R
		fb.img.Pix[i+1] = bg.G
		fb.img.Pix[i+2] = bg.B
		fb.img.Pix[i+3] = bg.A
	}
	for i := range fb.depth {
		fb.depth[i] = math.Inf(1)
	}
}

// Image returns the color buffer
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}

func edge(a, b Vertex, px, py float64) float64 {
	return (px-a.X)*(b.Y-a.Y) - (py-a.Y)*(b.X-a.X)
}

// DrawTriangle fills a triangle with depth testing. UVs are interpolated
// perspective-correct and sampled nearest from tex; without a texture base
// is used. The color is multiplied by shade.
func (fb *Framebuffer) DrawTriangle(a, b, c Vertex, tex *image.RGBA, base color.RGBA, shade float64) {
	area := edge(a, b, c.X, c.Y)
	if math.Abs(area) < 1e-9 {
		return
	}

	bounds := fb.img.Bounds()
	minX := max(int(math.Floor(math.Min(a.X, math.Min(b.X, c.X)))), 0)
	maxX := min(int(math.Ceil(math.Max(a.X, math.Max(b.X, c.X)))), bounds.Max.X-1)
	minY := max(int(math.Floor(math.Min(a.Y, math.Min(b.Y, c.Y)))), 0)
	maxY := min(int(math.Ceil(math.Max(a.Y, math.Max(b.Y, c.Y)))), bounds.Max.Y-1)

	width := bounds.Dx()
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			l0 := edge(b, c, px, py) / area
			l1 := edge(c, a, px, py) / area
			l2 := edge(a, b, px, py) / area
			if l0 < 0 || l1 < 0 || l2 < 0 {
				continue
			}

			iz := l0/a.Z + l1/b.Z + l2/c.Z
			z := 1 / iz

			// Depth test - draw if closer (smaller z)
			idx := y*width + x
			if z >= fb.depth[idx] {
				continue
			}
			fb.depth[idx] = z

			col := base
			if tex != nil {
				u := (l0*a.U/a.Z + l1*b.U/b.Z + l2*c.U/c.Z) * z
				v := (l0*a.V/a.Z + l1*b.V/b.Z + l2*c.V/c.Z) * z
				col = sample(tex, u, v)
			}
			fb.img.SetRGBA(x, y, applyShade(col, shade))
		}
	}
}

func sample(tex *image.RGBA, u, v float64) color.RGBA {
	b := tex.Bounds()
	tx := b.Min.X + clampInt(int(u*float64(b.Dx())), 0, b.Dx()-1)
	ty := b.Min.Y + clampInt(int(v*float64(b.Dy())), 0, b.Dy()-1)
	return tex.RGBAAt(tx, ty)
}

func applyShade(c color.RGBA, shade float64) color.RGBA {
	if shade >= 1 {
		c.A = 255
		return c
	}
	return color.RGBA{
		R: uint8(float64(c.R) * shade),
		G: uint8(float64(c.G) * shade),
		B: uint8(float64(c.B) * shade),
		A: 255,
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
