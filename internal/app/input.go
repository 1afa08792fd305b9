package app

import (
	"fmt"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gostamp/pkg/imagefile"
	"github.com/philipparndt/gostamp/pkg/mesh"
	"github.com/philipparndt/gostamp/pkg/overlay"
)

// handleInput processes user input
func (app *App) handleInput() {
	mouse := rl.GetMousePosition()
	ctrlPressed := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
	shiftPressed := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)

	// Layer shortcuts
	if rl.IsKeyPressed(rl.KeyDelete) || rl.IsKeyPressed(rl.KeyBackspace) {
		app.deleteSelected()
	}
	if rl.IsKeyPressed(rl.KeyPageUp) {
		app.raiseSelected()
	}
	if rl.IsKeyPressed(rl.KeyPageDown) {
		app.lowerSelected()
	}
	if ctrlPressed && rl.IsKeyPressed(rl.KeyL) {
		app.clearAll()
	}
	if ctrlPressed && rl.IsKeyPressed(rl.KeyR) {
		app.retryBake()
	}
	if ctrlPressed && rl.IsKeyPressed(rl.KeyV) {
		app.pasteImage()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		_ = app.session.Editor.Select("")
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		app.resetCameraView()
	}

	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		app.handleDroppedFiles(files)
		rl.UnloadDroppedFiles()
	}

	// Toolbar buttons take the click before the canvas and the view
	consumed := false
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		if b := app.buttonAt(mouse); b != nil {
			b.action()
			consumed = true
		}
	}

	app.handleCanvasInput(mouse, consumed)
	app.handleViewInput(mouse, consumed, shiftPressed)
}

// handleCanvasInput feeds the pointer to the editor. A gesture that started
// on the canvas keeps receiving moves outside of it until the button is up.
func (app *App) handleCanvasInput(mouse rl.Vector2, consumed bool) {
	editor := app.session.Editor
	inside := rl.CheckCollisionPointRec(mouse, app.Canvas.rect)
	p := app.toLogical(mouse)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && inside && !consumed {
		app.Canvas.held = true
		editor.PointerDown(p)
	}

	hint := overlay.CursorDefault
	if app.Canvas.held || inside {
		held := app.Canvas.held && rl.IsMouseButtonDown(rl.MouseLeftButton)
		hint = editor.PointerMove(p, held)
	}
	if app.buttonAt(mouse) != nil {
		hint = overlay.CursorDefault
	}

	if app.Canvas.held && rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		app.Canvas.held = false
		editor.PointerUp()
	}

	if hint != app.Canvas.cursor {
		app.Canvas.cursor = hint
		setCursor(hint)
	}
}

// handleViewInput orbits, pans and zooms the 3D view
func (app *App) handleViewInput(mouse rl.Vector2, consumed, shiftPressed bool) {
	inside := rl.CheckCollisionPointRec(mouse, app.View.rect)

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && inside && !consumed {
		app.View.orbit = true
		app.View.panning = shiftPressed
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		app.View.orbit = false
		app.View.panning = false
	}

	delta := rl.GetMouseDelta()
	if delta.X != 0 || delta.Y != 0 {
		switch {
		case app.View.orbit && app.View.panning:
			app.doPan(delta)
		case app.View.orbit:
			app.orbit(delta)
		case inside && rl.IsMouseButtonDown(rl.MouseMiddleButton):
			app.doPan(delta)
		}
	}

	if inside {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			app.zoom(wheel)
		}
	}
}

// handleDroppedFiles adds images as layers and loads models
func (app *App) handleDroppedFiles(files []string) {
	added := 0
	for _, file := range files {
		switch {
		case mesh.Supported(file):
			app.switchModel(file)
		case imagefile.IsSupported(file):
			if _, err := app.session.AddImageFile(file); err != nil {
				app.setStatus(err.Error(), true)
				continue
			}
			added++
		default:
			app.setStatus(fmt.Sprintf("Unsupported file: %s", filepath.Base(file)), true)
		}
	}
	if added > 0 {
		app.setStatus(fmt.Sprintf("Added %d layer(s)", added), false)
	}
}

func (app *App) deleteSelected() {
	if app.session.Editor.DeleteSelected() {
		app.setStatus("Layer deleted", false)
	}
}

func (app *App) raiseSelected() {
	app.session.Editor.RaiseSelected()
}

func (app *App) lowerSelected() {
	app.session.Editor.LowerSelected()
}

func (app *App) clearAll() {
	app.session.Editor.ClearAll()
	app.setStatus("All layers removed", false)
}

func (app *App) retryBake() {
	app.session.Retry()
	app.setStatus("Retrying bake...", false)
}

func (app *App) pasteImage() {
	if _, err := app.session.PasteImage(); err != nil {
		app.setStatus(fmt.Sprintf("Paste failed: %v", err), true)
		return
	}
	app.setStatus("Pasted image", false)
}
