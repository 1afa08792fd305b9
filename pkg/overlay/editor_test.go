package overlay

import (
	"image"
	"testing"
	"time"

	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bitmap(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func newTestEditor() *Editor {
	opts := DefaultOptions()
	fixed := time.Unix(1700000000, 0)
	opts.Now = func() time.Time { return fixed }
	return NewEditor(opts)
}

func TestAddLayerInitialPlacement(t *testing.T) {
	ed := newTestEditor()

	id, err := ed.AddLayer(bitmap(400, 200))
	require.NoError(t, err)

	l, ok := ed.Layer(id)
	require.True(t, ok)
	assert.Equal(t, 60.0, l.X)
	assert.Equal(t, 60.0, l.Y)
	assert.Equal(t, 300.0, l.W)
	assert.Equal(t, 150.0, l.H)
	assert.Equal(t, id, ed.SelectedID())
}

func TestAddLayerKeepsSmallImagesAtNaturalSize(t *testing.T) {
	ed := newTestEditor()

	id, err := ed.AddLayer(bitmap(120, 60))
	require.NoError(t, err)

	l, _ := ed.Layer(id)
	assert.Equal(t, 120.0, l.W)
	assert.Equal(t, 60.0, l.H)
}

func TestAddLayerRejectsEmptyImage(t *testing.T) {
	ed := newTestEditor()

	_, err := ed.AddLayer(bitmap(0, 10))
	require.ErrorIs(t, err, ErrEmptyImage)
	assert.Zero(t, ed.Len())
}

func TestLayerIDsAreUniqueWithinOneTick(t *testing.T) {
	ed := newTestEditor()

	a, err := ed.AddLayer(bitmap(10, 10))
	require.NoError(t, err)
	b, err := ed.AddLayer(bitmap(10, 10))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestNewLayerIsTopmost(t *testing.T) {
	ed := newTestEditor()

	a, _ := ed.AddLayer(bitmap(10, 10))
	b, _ := ed.AddLayer(bitmap(10, 10))

	layers := ed.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, a, layers[0].ID)
	assert.Equal(t, b, layers[1].ID)
	assert.Equal(t, b, ed.SelectedID())
}

func TestHitTestInsideReturnsMove(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(400, 200)) // 60,60 300x150

	hit, ok := ed.HitTest(geometry.Pt(200, 130))
	require.True(t, ok)
	assert.Equal(t, id, hit.LayerID)
	assert.Equal(t, HandleMove, hit.Handle)
}

func TestHitTestHandles(t *testing.T) {
	ed := newTestEditor()
	ed.AddLayer(bitmap(400, 200)) // covers 60..360 x 60..210

	cases := map[geometry.Point]Handle{
		geometry.Pt(60, 60):   HandleTopLeft,
		geometry.Pt(210, 60):  HandleTop,
		geometry.Pt(360, 60):  HandleTopRight,
		geometry.Pt(60, 135):  HandleLeft,
		geometry.Pt(360, 135): HandleRight,
		geometry.Pt(60, 210):  HandleBottomLeft,
		geometry.Pt(210, 210): HandleBottom,
		geometry.Pt(364, 214): HandleBottomRight,
		geometry.Pt(56, 56):   HandleTopLeft,
	}
	for p, want := range cases {
		hit, ok := ed.HitTest(p)
		require.True(t, ok, "point %v", p)
		assert.Equal(t, want, hit.Handle, "point %v", p)
	}
}

func TestHitTestMiss(t *testing.T) {
	ed := newTestEditor()
	ed.AddLayer(bitmap(400, 200))

	_, ok := ed.HitTest(geometry.Pt(10, 10))
	assert.False(t, ok)
	_, ok = ed.HitTest(geometry.Pt(365, 135))
	assert.False(t, ok)
}

func TestHitTestTopmostWinsUntilDeleted(t *testing.T) {
	ed := newTestEditor()
	a, _ := ed.AddLayer(bitmap(100, 100))
	b, _ := ed.AddLayer(bitmap(100, 100))
	p := geometry.Pt(100, 100)

	hit, ok := ed.HitTest(p)
	require.True(t, ok)
	assert.Equal(t, b, hit.LayerID)

	require.NoError(t, ed.Select(b))
	require.True(t, ed.DeleteSelected())

	hit, ok = ed.HitTest(p)
	require.True(t, ok)
	assert.Equal(t, a, hit.LayerID)
}

func TestHitTestMirroredLayer(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(100, 100))
	require.NoError(t, ed.SetRect(id, geometry.Rect{X: 200, Y: 60, W: -100, H: 100}))

	hit, ok := ed.HitTest(geometry.Pt(150, 110))
	require.True(t, ok)
	assert.Equal(t, HandleMove, hit.Handle)

	hit, ok = ed.HitTest(geometry.Pt(100, 60))
	require.True(t, ok)
	assert.Equal(t, HandleTopLeft, hit.Handle)
}

func TestDragBottomRightKeepsAnchor(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(400, 200))

	points := []geometry.Point{{X: 500, Y: 400}, {X: 70, Y: 65}, {X: 10, Y: 20}}
	for _, p := range points {
		require.NoError(t, ed.BeginDrag(id, HandleBottomRight, geometry.Pt(360, 210)))
		ed.UpdateDrag(p)
		ed.EndDrag()

		l, _ := ed.Layer(id)
		assert.Equal(t, 60.0, l.X)
		assert.Equal(t, 60.0, l.Y)
		assert.Equal(t, p.X-60, l.W)
		assert.Equal(t, p.Y-60, l.H)
	}
}

func TestDragRightHandleChangesOnlyWidth(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(400, 200))

	require.NoError(t, ed.BeginDrag(id, HandleRight, geometry.Pt(360, 135)))
	ed.UpdateDrag(geometry.Pt(160, 300))

	l, _ := ed.Layer(id)
	assert.Equal(t, 100.0, l.W)
	assert.Equal(t, 150.0, l.H)
	assert.Equal(t, 60.0, l.X)
	assert.Equal(t, 60.0, l.Y)
}

func TestDragTopLeftKeepsOppositeCorner(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(400, 200))

	require.NoError(t, ed.BeginDrag(id, HandleTopLeft, geometry.Pt(60, 60)))
	ed.UpdateDrag(geometry.Pt(40, 100))

	l, _ := ed.Layer(id)
	assert.Equal(t, geometry.Pt(40, 100), l.Anchor())
	assert.Equal(t, 320.0, l.W)
	assert.Equal(t, 110.0, l.H)
	assert.Equal(t, geometry.Pt(360, 210), l.Bounds().Max())
}

func TestDragEdges(t *testing.T) {
	cases := []struct {
		handle Handle
		to     geometry.Point
		want   geometry.Rect
	}{
		{HandleLeft, geometry.Pt(100, 0), geometry.Rect{X: 100, Y: 60, W: 260, H: 150}},
		{HandleTop, geometry.Pt(0, 80), geometry.Rect{X: 60, Y: 80, W: 300, H: 130}},
		{HandleBottom, geometry.Pt(0, 100), geometry.Rect{X: 60, Y: 60, W: 300, H: 40}},
		{HandleTopRight, geometry.Pt(200, 50), geometry.Rect{X: 60, Y: 50, W: 140, H: 160}},
		{HandleBottomLeft, geometry.Pt(50, 70), geometry.Rect{X: 50, Y: 60, W: 310, H: 10}},
	}
	for _, c := range cases {
		t.Run(c.handle.String(), func(t *testing.T) {
			ed := newTestEditor()
			id, _ := ed.AddLayer(bitmap(400, 200))

			require.NoError(t, ed.BeginDrag(id, c.handle, geometry.Point{}))
			ed.UpdateDrag(c.to)

			l, _ := ed.Layer(id)
			assert.Equal(t, c.want, l.Rect())
		})
	}
}

func TestDragThroughZeroMirrors(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(400, 200))

	require.NoError(t, ed.BeginDrag(id, HandleRight, geometry.Pt(360, 135)))
	ed.UpdateDrag(geometry.Pt(20, 135))

	l, _ := ed.Layer(id)
	assert.Equal(t, -40.0, l.W)
	assert.Equal(t, geometry.Rect{X: 20, Y: 60, W: 40, H: 150}, l.Bounds())
}

func TestMoveKeepsGripPoint(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(400, 200))

	require.NoError(t, ed.BeginDrag(id, HandleMove, geometry.Pt(100, 100)))
	ed.UpdateDrag(geometry.Pt(150, 90))
	ed.UpdateDrag(geometry.Pt(-500, 1000))

	l, _ := ed.Layer(id)
	assert.Equal(t, geometry.Pt(-540, 960), l.Anchor())
	assert.Equal(t, 300.0, l.W)
	assert.Equal(t, 150.0, l.H)
}

func TestUpdateDragWithoutBeginIsIgnored(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(400, 200))

	assert.False(t, ed.UpdateDrag(geometry.Pt(0, 0)))
	l, _ := ed.Layer(id)
	assert.Equal(t, geometry.Rect{X: 60, Y: 60, W: 300, H: 150}, l.Rect())
}

func TestEndDragKeepsSelection(t *testing.T) {
	ed := newTestEditor()
	id, _ := ed.AddLayer(bitmap(400, 200))

	require.NoError(t, ed.BeginDrag(id, HandleMove, geometry.Pt(100, 100)))
	assert.True(t, ed.Dragging())
	ed.EndDrag()

	assert.False(t, ed.Dragging())
	assert.Equal(t, HandleNone, ed.ActiveHandle())
	assert.Equal(t, id, ed.SelectedID())
}

func TestBeginDragUnknownLayer(t *testing.T) {
	ed := newTestEditor()
	err := ed.BeginDrag("missing", HandleMove, geometry.Point{})
	assert.ErrorIs(t, err, ErrUnknownLayer)
}

func TestRaiseLowerAreInverse(t *testing.T) {
	ed := newTestEditor()
	a, _ := ed.AddLayer(bitmap(10, 10))
	b, _ := ed.AddLayer(bitmap(10, 10))
	c, _ := ed.AddLayer(bitmap(10, 10))
	before := ids(ed.Layers())

	require.NoError(t, ed.Select(b))
	require.True(t, ed.RaiseSelected())
	assert.Equal(t, []LayerID{a, c, b}, ids(ed.Layers()))
	require.True(t, ed.LowerSelected())
	assert.Equal(t, before, ids(ed.Layers()))

	require.True(t, ed.LowerSelected())
	require.True(t, ed.RaiseSelected())
	assert.Equal(t, before, ids(ed.Layers()))
}

func TestRaiseLowerBoundaries(t *testing.T) {
	ed := newTestEditor()
	a, _ := ed.AddLayer(bitmap(10, 10))
	c, _ := ed.AddLayer(bitmap(10, 10))

	require.NoError(t, ed.Select(c))
	assert.False(t, ed.RaiseSelected())
	require.NoError(t, ed.Select(a))
	assert.False(t, ed.LowerSelected())
	assert.Equal(t, []LayerID{a, c}, ids(ed.Layers()))
}

func TestMutationsWithoutSelectionAreNoOps(t *testing.T) {
	ed := newTestEditor()
	ed.AddLayer(bitmap(10, 10))
	require.NoError(t, ed.Select(""))

	assert.False(t, ed.DeleteSelected())
	assert.False(t, ed.RaiseSelected())
	assert.False(t, ed.LowerSelected())
	assert.Equal(t, 1, ed.Len())
}

func TestDeleteReleasesBitmap(t *testing.T) {
	ed := newTestEditor()
	ed.AddLayer(bitmap(10, 10))
	snap := ed.Snapshot()

	require.True(t, ed.DeleteSelected())
	assert.Zero(t, ed.Len())
	assert.Equal(t, LayerID(""), ed.SelectedID())
	assert.NotNil(t, snap.Layers[0].Source, "snapshots keep their own reference")
}

func TestClearAllIsIdempotent(t *testing.T) {
	ed := newTestEditor()
	ed.AddLayer(bitmap(10, 10))
	ed.AddLayer(bitmap(10, 10))

	ed.ClearAll()
	first := ed.Snapshot()
	ed.ClearAll()
	second := ed.Snapshot()

	assert.Equal(t, first, second)
	assert.Empty(t, second.Layers)
	assert.Equal(t, LayerID(""), second.SelectedID)
}

func TestCursorHintFor(t *testing.T) {
	ed := newTestEditor()
	ed.AddLayer(bitmap(400, 200))

	assert.Equal(t, CursorNWSE, ed.CursorHintFor(geometry.Pt(60, 60)))
	assert.Equal(t, CursorNWSE, ed.CursorHintFor(geometry.Pt(360, 210)))
	assert.Equal(t, CursorNESW, ed.CursorHintFor(geometry.Pt(360, 60)))
	assert.Equal(t, CursorEW, ed.CursorHintFor(geometry.Pt(60, 135)))
	assert.Equal(t, CursorNS, ed.CursorHintFor(geometry.Pt(210, 210)))
	assert.Equal(t, CursorMove, ed.CursorHintFor(geometry.Pt(200, 100)))
	assert.Equal(t, CursorDefault, ed.CursorHintFor(geometry.Pt(0, 0)))

	require.NoError(t, ed.Select(""))
	assert.Equal(t, CursorDefault, ed.CursorHintFor(geometry.Pt(200, 100)))
}

func TestSelectionToolbarAnchor(t *testing.T) {
	ed := newTestEditor()
	ed.AddLayer(bitmap(400, 200))

	p, ok := ed.SelectionToolbarAnchor()
	require.True(t, ok)
	assert.Equal(t, geometry.Pt(360, 60), p)

	require.NoError(t, ed.Select(""))
	_, ok = ed.SelectionToolbarAnchor()
	assert.False(t, ok)
}

func TestEventsAreEmitted(t *testing.T) {
	ed := newTestEditor()
	var got []EventType
	ed.On(func(ev Event) { got = append(got, ev.Type) })

	id, _ := ed.AddLayer(bitmap(10, 10))
	require.NoError(t, ed.BeginDrag(id, HandleMove, geometry.Pt(65, 65)))
	ed.UpdateDrag(geometry.Pt(70, 70))
	ed.EndDrag()
	ed.ClearAll()

	assert.Equal(t, []EventType{
		EventLayerAdded,
		EventSelectionChanged,
		EventLayerChanged,
		EventDragEnded,
		EventLayerRemoved,
		EventCleared,
	}, got)
}

func TestHandleStringRoundTrip(t *testing.T) {
	for _, h := range append(ResizeHandles(), HandleMove) {
		parsed, ok := ParseHandle(h.String())
		require.True(t, ok)
		assert.Equal(t, h, parsed)
	}
	_, ok := ParseHandle("delete")
	assert.False(t, ok)
}

func ids(layers []Layer) []LayerID {
	out := make([]LayerID, len(layers))
	for i, l := range layers {
		out[i] = l.ID
	}
	return out
}
