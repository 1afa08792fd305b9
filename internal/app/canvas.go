package app

import (
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gostamp/pkg/compositor"
	"github.com/philipparndt/gostamp/pkg/geometry"
)

const (
	panelMargin   = 16
	statusHeight  = 28
	toolbarHeight = 36
)

var (
	colorBackground = rl.NewColor(15, 18, 25, 255)
	colorPanel      = rl.NewColor(28, 32, 42, 255)
	colorCanvas     = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
)

// layout splits the window: the editor canvas on the left at the largest
// scale that fits, the 3D view on the right
func (app *App) layout() {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	cw, ch := app.canvasSize()
	availH := h - toolbarHeight - statusHeight - 2*panelMargin
	availW := w/2 - 2*panelMargin
	fit := min(availW/float32(cw), availH/float32(ch))
	if fit <= 0 {
		fit = 0.1
	}

	app.Canvas.fit = fit
	app.Canvas.rect = rl.Rectangle{
		X:      panelMargin,
		Y:      toolbarHeight + panelMargin,
		Width:  float32(cw) * fit,
		Height: float32(ch) * fit,
	}

	viewX := app.Canvas.rect.X + app.Canvas.rect.Width + panelMargin
	app.View.rect = rl.Rectangle{
		X:      viewX,
		Y:      toolbarHeight,
		Width:  max(w-viewX, 1),
		Height: max(h-toolbarHeight-statusHeight, 1),
	}
}

func (app *App) canvasSize() (int, int) {
	return app.cfg.Canvas.Width, app.cfg.Canvas.Height
}

// toLogical maps a screen position into canvas logical units
func (app *App) toLogical(p rl.Vector2) geometry.Point {
	return geometry.Pt(
		float64((p.X-app.Canvas.rect.X)/app.Canvas.fit),
		float64((p.Y-app.Canvas.rect.Y)/app.Canvas.fit),
	)
}

// toScreen maps a canvas point to screen pixels
func (app *App) toScreen(p geometry.Point) rl.Vector2 {
	return rl.Vector2{
		X: app.Canvas.rect.X + float32(p.X)*app.Canvas.fit,
		Y: app.Canvas.rect.Y + float32(p.Y)*app.Canvas.fit,
	}
}

// initCanvas allocates the surface and its texture. The surface is rendered
// at the panel's device pixel density so the canvas stays sharp on HiDPI.
func (app *App) initCanvas() {
	cw, ch := app.canvasSize()
	scale := float64(rl.GetWindowScaleDPI().X) * app.cfg.Canvas.Scale
	app.Canvas.surface = compositor.NewSurface(cw, ch, scale)
	app.uploadCanvasTexture()
	app.Canvas.dirty = true
}

func (app *App) uploadCanvasTexture() {
	if app.Canvas.texture.ID != 0 {
		rl.UnloadTexture(app.Canvas.texture)
	}
	img := app.Canvas.surface.Image()
	b := img.Bounds()
	// The image aliases Go memory, so it is not unloaded through raylib
	rlImg := rl.NewImage(img.Pix, int32(b.Dx()), int32(b.Dy()), 1, rl.UncompressedR8g8b8a8)
	app.Canvas.texture = rl.LoadTextureFromImage(rlImg)
	rl.SetTextureFilter(app.Canvas.texture, rl.FilterBilinear)
}

// refreshCanvas re-renders the layer stack when the editor changed
func (app *App) refreshCanvas() {
	if !app.Canvas.dirty {
		return
	}
	app.Canvas.dirty = false

	snap := app.session.Editor.Snapshot()
	compositor.Render(app.Canvas.surface, snap.Layers, snap.SelectedID, compositor.RenderOptions{Background: colorCanvas})

	img := app.Canvas.surface.Image()
	n := img.Bounds().Dx() * img.Bounds().Dy()
	if n == 0 {
		return
	}
	pixels := unsafe.Slice((*color.RGBA)(unsafe.Pointer(&img.Pix[0])), n)
	rl.UpdateTexture(app.Canvas.texture, pixels)
}

func (app *App) drawCanvas() {
	r := app.Canvas.rect
	rl.DrawRectangleRec(rl.Rectangle{X: r.X - 4, Y: r.Y - 4, Width: r.Width + 8, Height: r.Height + 8}, colorPanel)

	tex := app.Canvas.texture
	src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
	rl.DrawTexturePro(tex, src, r, rl.Vector2{}, 0, rl.White)
}

// drawView renders the scene into the off-screen target and blits it
func (app *App) drawView() {
	w, h := int32(app.View.rect.Width), int32(app.View.rect.Height)
	if app.View.target.ID == 0 || app.View.target.Texture.Width != w || app.View.target.Texture.Height != h {
		if app.View.target.ID != 0 {
			rl.UnloadRenderTexture(app.View.target)
		}
		app.View.target = rl.LoadRenderTexture(w, h)
	}

	rl.BeginTextureMode(app.View.target)
	rl.ClearBackground(colorBackground)
	app.scene.Draw(app.Camera.camera)
	rl.EndTextureMode()

	// Render textures are stored upside down
	src := rl.Rectangle{Width: float32(w), Height: -float32(h)}
	rl.DrawTexturePro(app.View.target.Texture, src, app.View.rect, rl.Vector2{}, 0, rl.White)
}
