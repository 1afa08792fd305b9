package viewer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/philipparndt/gostamp/pkg/compositor"
	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/philipparndt/gostamp/pkg/overlay"
)

var panelColor = color.RGBA{R: 45, G: 45, B: 50, A: 255}

// EditorCanvas is a fyne widget that shows an overlay editor's canvas and
// feeds it pointer input. The canvas is letterboxed into the widget.
type EditorCanvas struct {
	widget.BaseWidget

	editor        *overlay.Editor
	width, height int
	Background    color.Color

	surface *compositor.Surface
	raster  *canvas.Raster
	held    bool
	cursor  desktop.Cursor
}

// NewEditorCanvas creates a widget for a width×height logical canvas
func NewEditorCanvas(editor *overlay.Editor, width, height int) *EditorCanvas {
	c := &EditorCanvas{
		editor:     editor,
		width:      width,
		height:     height,
		Background: color.White,
		surface:    compositor.NewSurface(width, height, 1),
		cursor:     desktop.DefaultCursor,
	}
	c.raster = canvas.NewRaster(c.render)
	c.raster.SetMinSize(fyne.NewSize(float32(width)/2, float32(height)/2))
	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget
func (c *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

// fit returns the scale and offset that letterbox the canvas into w×h
func (c *EditorCanvas) fit(w, h float64) (scale, ox, oy float64) {
	scale = math.Min(w/float64(c.width), h/float64(c.height))
	if scale <= 0 {
		scale = 1
	}
	ox = (w - float64(c.width)*scale) / 2
	oy = (h - float64(c.height)*scale) / 2
	return scale, ox, oy
}

func (c *EditorCanvas) render(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(out, out.Bounds(), image.NewUniform(panelColor), image.Point{}, draw.Src)

	scale, ox, oy := c.fit(float64(w), float64(h))
	c.surface.Resize(c.width, c.height, scale)
	snap := c.editor.Snapshot()
	compositor.Render(c.surface, snap.Layers, snap.SelectedID, compositor.RenderOptions{Background: c.Background})

	at := image.Pt(int(ox), int(oy))
	img := c.surface.Image()
	draw.Draw(out, img.Bounds().Add(at), img, image.Point{}, draw.Src)
	return out
}

// toLogical maps a widget position to canvas coordinates
func (c *EditorCanvas) toLogical(pos fyne.Position) geometry.Point {
	size := c.Size()
	scale, ox, oy := c.fit(float64(size.Width), float64(size.Height))
	return geometry.Pt((float64(pos.X)-ox)/scale, (float64(pos.Y)-oy)/scale)
}

// MouseDown implements desktop.Mouseable
func (c *EditorCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	c.held = true
	c.editor.PointerDown(c.toLogical(ev.Position))
	c.Refresh()
}

// MouseUp implements desktop.Mouseable
func (c *EditorCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	c.release()
}

// Dragged implements fyne.Draggable
func (c *EditorCanvas) Dragged(ev *fyne.DragEvent) {
	c.cursor = cursorFor(c.editor.PointerMove(c.toLogical(ev.Position), true))
}

// DragEnd implements fyne.Draggable. Fyne reports it even when the button
// is released outside the widget.
func (c *EditorCanvas) DragEnd() {
	c.release()
}

func (c *EditorCanvas) release() {
	c.held = false
	c.editor.PointerUp()
	c.Refresh()
}

// MouseIn implements desktop.Hoverable
func (c *EditorCanvas) MouseIn(ev *desktop.MouseEvent) {
	c.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable
func (c *EditorCanvas) MouseMoved(ev *desktop.MouseEvent) {
	c.cursor = cursorFor(c.editor.PointerMove(c.toLogical(ev.Position), c.held))
}

// MouseOut implements desktop.Hoverable
func (c *EditorCanvas) MouseOut() {
	if !c.held {
		c.cursor = desktop.DefaultCursor
	}
}

// Cursor implements desktop.Cursorable
func (c *EditorCanvas) Cursor() desktop.Cursor {
	return c.cursor
}

// fyne has no diagonal resize cursors
func cursorFor(hint overlay.CursorHint) desktop.Cursor {
	switch hint {
	case overlay.CursorMove:
		return desktop.PointerCursor
	case overlay.CursorEW:
		return desktop.HResizeCursor
	case overlay.CursorNS:
		return desktop.VResizeCursor
	case overlay.CursorNWSE, overlay.CursorNESW:
		return desktop.CrosshairCursor
	default:
		return desktop.DefaultCursor
	}
}
