package viewer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	black = color.RGBA{A: 255}
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// square covers the whole framebuffer with two triangles at depth z
func square(fb *Framebuffer, z float64, tex *image.RGBA, base color.RGBA) {
	w, h := float64(fb.Image().Bounds().Dx()), float64(fb.Image().Bounds().Dy())
	a := Vertex{X: 0, Y: 0, Z: z, U: 0, V: 0}
	b := Vertex{X: w, Y: 0, Z: z, U: 1, V: 0}
	c := Vertex{X: w, Y: h, Z: z, U: 1, V: 1}
	d := Vertex{X: 0, Y: h, Z: z, U: 0, V: 1}
	fb.DrawTriangle(a, b, c, tex, base, 1)
	fb.DrawTriangle(a, c, d, tex, base, 1)
}

func TestClearResetsColor(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(blue)
	assert.Equal(t, blue, fb.Image().RGBAAt(3, 3))
}

func TestDrawTriangleUsesBaseColorWithoutTexture(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.Clear(black)
	square(fb, 1, nil, red)

	for _, p := range []image.Point{{0, 0}, {7, 0}, {4, 4}, {0, 7}, {7, 7}} {
		assert.Equal(t, red, fb.Image().RGBAAt(p.X, p.Y), "pixel %v", p)
	}
}

func TestDrawTriangleSamplesTexture(t *testing.T) {
	// Left half red, right half blue
	tex := image.NewRGBA(image.Rect(0, 0, 2, 1))
	tex.SetRGBA(0, 0, red)
	tex.SetRGBA(1, 0, blue)

	fb := NewFramebuffer(10, 10)
	fb.Clear(black)
	square(fb, 1, tex, black)

	assert.Equal(t, red, fb.Image().RGBAAt(1, 5))
	assert.Equal(t, blue, fb.Image().RGBAAt(8, 5))
}

func TestDepthTestKeepsNearest(t *testing.T) {
	fb := NewFramebuffer(6, 6)
	fb.Clear(black)
	square(fb, 1, nil, blue)
	square(fb, 5, nil, red)
	assert.Equal(t, blue, fb.Image().RGBAAt(3, 3))

	square(fb, 0.5, nil, red)
	assert.Equal(t, red, fb.Image().RGBAAt(3, 3))
}

func TestShadeDarkens(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(black)
	a := Vertex{X: 0, Y: 0, Z: 1}
	b := Vertex{X: 4, Y: 0, Z: 1}
	c := Vertex{X: 0, Y: 4, Z: 1}
	fb.DrawTriangle(a, b, c, solid(1, 1, red), black, 0.5)

	assert.Equal(t, color.RGBA{R: 127, A: 255}, fb.Image().RGBAAt(0, 0))
}

func TestDegenerateTriangleIsSkipped(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(black)
	a := Vertex{X: 0, Y: 0, Z: 1}
	fb.DrawTriangle(a, a, Vertex{X: 4, Y: 4, Z: 1}, nil, red, 1)
	assert.Equal(t, black, fb.Image().RGBAAt(0, 0))
}

func TestResizeKeepsBufferForSameSize(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	img := fb.Image()
	fb.Resize(4, 4)
	assert.Same(t, img, fb.Image())

	fb.Resize(0, -1)
	assert.Equal(t, image.Rect(0, 0, 1, 1), fb.Image().Bounds())
}
