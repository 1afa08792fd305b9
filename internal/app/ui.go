package app

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gostamp/version"
)

const (
	fontSize14 = float32(14)
	fontSize16 = float32(16)
	buttonSize = float32(26)
)

// toolbarButton is a clickable label. Buttons are laid out every frame.
type toolbarButton struct {
	label  string
	hint   string
	rect   rl.Rectangle
	action func()
}

// setStatus shows msg in the status bar
func (app *App) setStatus(msg string, isError bool) {
	app.UI.status = msg
	app.UI.statusError = isError
	app.UI.statusTime = time.Now()
}

// mainToolbar is the fixed row above the canvas
func (app *App) mainToolbar() []toolbarButton {
	return []toolbarButton{
		{label: "Paste", hint: "Ctrl+V", action: app.pasteImage},
		{label: "Delete", hint: "Del", action: app.deleteSelected},
		{label: "Raise", hint: "PgUp", action: app.raiseSelected},
		{label: "Lower", hint: "PgDn", action: app.lowerSelected},
		{label: "Clear", hint: "Ctrl+L", action: app.clearAll},
		{label: "Retry bake", hint: "Ctrl+R", action: app.retryBake},
	}
}

// selectionToolbar is the floating row next to the selected layer
func (app *App) selectionToolbar() []toolbarButton {
	anchor, ok := app.session.Editor.SelectionToolbarAnchor()
	if !ok || app.session.Editor.Dragging() {
		return nil
	}
	p := app.toScreen(anchor)
	labels := []struct {
		label  string
		action func()
	}{
		{"x", app.deleteSelected},
		{"^", app.raiseSelected},
		{"v", app.lowerSelected},
	}

	buttons := make([]toolbarButton, len(labels))
	for i, l := range labels {
		buttons[i] = toolbarButton{
			label:  l.label,
			rect:   rl.Rectangle{X: p.X + 6, Y: p.Y + float32(i)*(buttonSize+2), Width: buttonSize, Height: buttonSize},
			action: l.action,
		}
	}
	return buttons
}

// layoutToolbar places the main toolbar buttons left to right
func (app *App) layoutToolbar() {
	buttons := app.mainToolbar()
	x := float32(panelMargin)
	for i := range buttons {
		w := rl.MeasureTextEx(app.UI.font, buttons[i].label, fontSize16, 1).X + 20
		buttons[i].rect = rl.Rectangle{X: x, Y: 5, Width: w, Height: toolbarHeight - 10}
		x += w + 6
	}
	app.UI.toolbar = append(buttons, app.selectionToolbar()...)
}

// buttonAt returns the toolbar button under p
func (app *App) buttonAt(p rl.Vector2) *toolbarButton {
	for i := range app.UI.toolbar {
		if rl.CheckCollisionPointRec(p, app.UI.toolbar[i].rect) {
			return &app.UI.toolbar[i]
		}
	}
	return nil
}

// drawUI draws the toolbars, the status bar and the loading indicator
func (app *App) drawUI() {
	screenWidth := float32(rl.GetScreenWidth())
	screenHeight := float32(rl.GetScreenHeight())
	mouse := rl.GetMousePosition()

	rl.DrawRectangle(0, 0, int32(screenWidth), toolbarHeight, colorPanel)
	for _, b := range app.UI.toolbar {
		bg := rl.NewColor(45, 52, 68, 255)
		if rl.CheckCollisionPointRec(mouse, b.rect) {
			bg = rl.NewColor(43, 109, 246, 255)
		}
		rl.DrawRectangleRec(b.rect, bg)
		size := rl.MeasureTextEx(app.UI.font, b.label, fontSize16, 1)
		pos := rl.Vector2{X: b.rect.X + (b.rect.Width-size.X)/2, Y: b.rect.Y + (b.rect.Height-size.Y)/2}
		rl.DrawTextEx(app.UI.font, b.label, pos, fontSize16, 1, rl.White)
	}

	title := fmt.Sprintf("gostamp %s", version.Version)
	size := rl.MeasureTextEx(app.UI.font, title, fontSize14, 1)
	rl.DrawTextEx(app.UI.font, title, rl.Vector2{X: screenWidth - size.X - panelMargin, Y: (toolbarHeight - size.Y) / 2}, fontSize14, 1, rl.Gray)

	// Status bar
	y := screenHeight - statusHeight
	rl.DrawRectangle(0, int32(y), int32(screenWidth), statusHeight, colorPanel)

	status := app.UI.status
	col := rl.LightGray
	if err := app.session.LastError(); err != nil {
		status = fmt.Sprintf("Bake failed: %v (Ctrl+R to retry)", err)
		col = rl.NewColor(255, 110, 110, 255)
	} else if app.UI.statusError {
		col = rl.NewColor(255, 110, 110, 255)
	}
	if status == "" {
		status = "Drop images onto the window to add layers"
	}
	rl.DrawTextEx(app.UI.font, status, rl.Vector2{X: panelMargin, Y: y + 6}, fontSize14, 1, col)

	layers := fmt.Sprintf("%d layer(s)", app.session.Editor.Len())
	if g := app.scene.Group(); g != nil {
		layers = fmt.Sprintf("%s | %s, %d triangles", layers, g.Name, g.TriangleCount())
	}
	size = rl.MeasureTextEx(app.UI.font, layers, fontSize14, 1)
	rl.DrawTextEx(app.UI.font, layers, rl.Vector2{X: screenWidth - size.X - panelMargin, Y: y + 6}, fontSize14, 1, rl.Gray)

	// Loading indicator
	if app.FileWatch.isLoading {
		elapsed := time.Since(app.FileWatch.loadStart).Seconds()
		spinnerChars := []string{"|", "/", "-", "\\"}
		loadingText := fmt.Sprintf("%s Loading model... (%.1fs)", spinnerChars[int(elapsed*10)%len(spinnerChars)], elapsed)

		boxWidth := float32(250)
		boxHeight := float32(40)
		boxX := screenWidth - boxWidth - 20
		boxY := float32(toolbarHeight + 20)

		rl.DrawRectangle(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.NewColor(0, 0, 0, 180))
		rl.DrawRectangleLines(int32(boxX), int32(boxY), int32(boxWidth), int32(boxHeight), rl.Yellow)

		textSize := rl.MeasureTextEx(app.UI.font, loadingText, fontSize16, 1)
		rl.DrawTextEx(app.UI.font, loadingText, rl.Vector2{X: boxX + (boxWidth-textSize.X)/2, Y: boxY + (boxHeight-textSize.Y)/2}, fontSize16, 1, rl.Yellow)
	}

	if app.scene.Group() == nil && !app.FileWatch.isLoading {
		msg := "No model loaded"
		size := rl.MeasureTextEx(app.UI.font, msg, fontSize16, 1)
		r := app.View.rect
		rl.DrawTextEx(app.UI.font, msg, rl.Vector2{X: r.X + (r.Width-size.X)/2, Y: r.Y + (r.Height-size.Y)/2}, fontSize16, 1, rl.Gray)
	}
}
