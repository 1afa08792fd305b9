package overlay

import (
	"testing"

	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointerGestureDragsLayer(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(400, 200))

	hit, ok := ed.PointerDown(geometry.Pt(100, 100))
	require.True(t, ok)
	assert.Equal(t, HandleMove, hit.Handle)

	assert.Equal(t, CursorMove, ed.PointerMove(geometry.Pt(110, 120), true))
	ed.PointerUp()

	l, _ := ed.Layer(id)
	assert.Equal(t, geometry.Pt(70, 80), l.Anchor())
	assert.False(t, ed.Dragging())
	assert.Equal(t, id, ed.SelectedID())
}

func TestPointerDownOnEmptySpaceClearsSelection(t *testing.T) {
	ed := newTestEditor()
	ed.AddLayer(bitmap(400, 200))

	_, ok := ed.PointerDown(geometry.Pt(5, 5))
	assert.False(t, ok)
	assert.Equal(t, LayerID(""), ed.SelectedID())
	assert.False(t, ed.Dragging())
}

func TestPointerMoveWithoutButtonEndsDrag(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(400, 200))

	ed.PointerDown(geometry.Pt(100, 100))
	ed.PointerMove(geometry.Pt(120, 100), true)
	// Button released outside the canvas; the next move arrives unpressed
	ed.PointerMove(geometry.Pt(900, 900), false)
	ed.PointerMove(geometry.Pt(950, 950), true)

	l, _ := ed.Layer(id)
	assert.Equal(t, geometry.Pt(80, 60), l.Anchor())
	assert.False(t, ed.Dragging())
}

func TestPointerHoverReturnsCursorHint(t *testing.T) {
	ed := newTestEditor()
	ed.AddLayer(bitmap(400, 200))

	assert.Equal(t, CursorEW, ed.PointerMove(geometry.Pt(360, 135), false))
	assert.Equal(t, CursorDefault, ed.PointerMove(geometry.Pt(500, 500), false))
}

func TestPointerDownSelectsLowerLayerOutsideTop(t *testing.T) {
	ed := newTestEditor()
	a, _ := ed.AddLayer(bitmap(400, 200))
	b, _ := ed.AddLayer(bitmap(50, 50))
	require.Equal(t, b, ed.SelectedID())

	hit, ok := ed.PointerDown(geometry.Pt(300, 180))
	require.True(t, ok)
	assert.Equal(t, a, hit.LayerID)
	assert.Equal(t, a, ed.SelectedID())
}
