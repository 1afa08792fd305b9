package viewer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/philipparndt/gostamp/pkg/mesh"
)

var (
	previewBackground = color.RGBA{R: 30, G: 30, B: 35, A: 255}
	untexturedColor   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// MeshPreview is a fyne widget that renders a mesh group with the baked
// overlay texture in software. It accepts textures from any goroutine.
type MeshPreview struct {
	widget.BaseWidget

	mu      sync.Mutex
	group   *mesh.Group
	texture *image.RGBA
	camera  *Camera
	fb      *Framebuffer

	raster *canvas.Raster
}

// NewMeshPreview creates an empty preview
func NewMeshPreview() *MeshPreview {
	p := &MeshPreview{fb: NewFramebuffer(1, 1)}
	p.raster = canvas.NewRaster(p.render)
	p.raster.SetMinSize(fyne.NewSize(320, 320))
	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *MeshPreview) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.raster)
}

// SetGroup replaces the displayed model and frames the camera on it
func (p *MeshPreview) SetGroup(g *mesh.Group) {
	p.mu.Lock()
	p.group = g
	if g != nil {
		p.camera = NewCamera(g.Bounds)
	} else {
		p.camera = nil
	}
	p.mu.Unlock()
	p.Refresh()
}

// ApplyTexture decodes a baked PNG and shows it on the model
func (p *MeshPreview) ApplyTexture(data []byte) error {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode texture: %w", err)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)

	p.mu.Lock()
	p.texture = rgba
	p.mu.Unlock()

	fyne.Do(p.Refresh)
	return nil
}

// Texture returns the texture currently shown
func (p *MeshPreview) Texture() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.texture
}

// Dragged orbits the camera
func (p *MeshPreview) Dragged(ev *fyne.DragEvent) {
	p.mu.Lock()
	if p.camera != nil {
		p.camera.Rotate(float64(ev.Dragged.DY)*0.01, -float64(ev.Dragged.DX)*0.01)
	}
	p.mu.Unlock()
	p.Refresh()
}

// DragEnd implements fyne.Draggable
func (p *MeshPreview) DragEnd() {}

// Scrolled zooms the camera
func (p *MeshPreview) Scrolled(ev *fyne.ScrollEvent) {
	p.mu.Lock()
	if p.camera != nil {
		p.camera.Zoom(-float64(ev.Scrolled.DY) * 0.01)
	}
	p.mu.Unlock()
	p.Refresh()
}

// ResetView frames the model again
func (p *MeshPreview) ResetView() {
	p.mu.Lock()
	if p.camera != nil && p.group != nil {
		p.camera.Frame(p.group.Bounds)
	}
	p.mu.Unlock()
	p.Refresh()
}

func (p *MeshPreview) render(w, h int) image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fb.Resize(w, h)
	p.fb.Clear(previewBackground)
	if p.group == nil || p.camera == nil {
		return p.fb.Image()
	}

	fw, fh := float64(w), float64(h)
	for _, m := range p.group.Meshes {
		for t := 0; t < m.TriangleCount(); t++ {
			var vs [3]Vertex
			visible := true
			for k := 0; k < 3; k++ {
				i := t*3 + k
				pos := geometry.NewVector3(
					float64(m.Positions[i*3]), float64(m.Positions[i*3+1]), float64(m.Positions[i*3+2]))
				x, y, z, ok := p.camera.Project(pos, fw, fh)
				if !ok {
					visible = false
					break
				}
				vs[k] = Vertex{X: x, Y: y, Z: z, U: float64(m.UVs[i*2]), V: float64(m.UVs[i*2+1])}
			}
			if !visible {
				continue
			}
			shade := float64(m.Colors[t*12]) / 255
			p.fb.DrawTriangle(vs[0], vs[1], vs[2], p.texture, untexturedColor, shade)
		}
	}
	return p.fb.Image()
}
