package overlay

import "github.com/philipparndt/gostamp/pkg/geometry"

// PointerDown starts a gesture. A hit selects the layer and grabs the handle
// under p; a miss clears the selection. It returns the hit, if any.
func (e *Editor) PointerDown(p geometry.Point) (Hit, bool) {
	e.mu.RLock()
	hit, ok := e.hitTest(p)
	e.mu.RUnlock()

	if !ok {
		e.EndDrag()
		_ = e.Select("")
		return Hit{}, false
	}
	_ = e.BeginDrag(hit.LayerID, hit.Handle, p)
	return hit, true
}

// PointerMove feeds one pointer position. While dragging and held is true the
// drag is updated; a move seen with the button already released ends the
// drag wherever the cursor is. The returned hint is for the hover cursor.
func (e *Editor) PointerMove(p geometry.Point, held bool) CursorHint {
	if e.Dragging() {
		if held {
			e.UpdateDrag(p)
			return e.ActiveHandle().Cursor()
		}
		e.EndDrag()
	}
	return e.CursorHintFor(p)
}

// PointerUp ends the gesture
func (e *Editor) PointerUp() {
	e.EndDrag()
}
