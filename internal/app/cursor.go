package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/gostamp/pkg/overlay"
)

// setCursor shows the pointer shape for an editor hint
func setCursor(hint overlay.CursorHint) {
	switch hint {
	case overlay.CursorMove:
		rl.SetMouseCursor(rl.MouseCursorResizeAll)
	case overlay.CursorNWSE:
		rl.SetMouseCursor(rl.MouseCursorResizeNWSE)
	case overlay.CursorNESW:
		rl.SetMouseCursor(rl.MouseCursorResizeNESW)
	case overlay.CursorNS:
		rl.SetMouseCursor(rl.MouseCursorResizeNS)
	case overlay.CursorEW:
		rl.SetMouseCursor(rl.MouseCursorResizeEW)
	default:
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}
}
