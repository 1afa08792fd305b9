package overlay

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"github.com/philipparndt/gostamp/pkg/geometry"
)

var (
	// ErrEmptyImage is returned when a bitmap has no pixels to place
	ErrEmptyImage = errors.New("image has no pixels")
	// ErrUnknownLayer is returned for an id that is not in the editor
	ErrUnknownLayer = errors.New("unknown layer")
)

// Options controls initial layer placement
type Options struct {
	Anchor   geometry.Point // Top-left of every new layer
	MaxWidth float64        // New layers are at most this wide (logical units)

	// Now is the id clock; tests replace it
	Now func() time.Time
}

// DefaultOptions returns the stock placement
func DefaultOptions() Options {
	return Options{
		Anchor:   geometry.Pt(60, 60),
		MaxWidth: 300,
		Now:      time.Now,
	}
}

// Hit is the result of a successful hit test
type Hit struct {
	LayerID LayerID
	Handle  Handle
}

// Snapshot is an immutable copy of the layer stack for rendering off the UI thread
type Snapshot struct {
	Layers     []Layer
	SelectedID LayerID
}

// Editor owns the ordered layer stack, the selection and the in-progress drag.
// The slice order is the z-order: the last layer is drawn on top.
type Editor struct {
	mu sync.RWMutex

	opts Options
	ids  idSource

	layers       []Layer
	selectedID   LayerID
	activeHandle Handle
	dragOffset   geometry.Point

	listeners []Listener
}

// NewEditor creates an empty editor
func NewEditor(opts Options) *Editor {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultOptions().MaxWidth
	}
	return &Editor{
		opts: opts,
		ids:  idSource{now: opts.Now},
	}
}

// On registers a change listener
func (e *Editor) On(listener Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, listener)
}

func (e *Editor) emit(events ...Event) {
	e.mu.RLock()
	listeners := e.listeners
	e.mu.RUnlock()

	for _, ev := range events {
		for _, listener := range listeners {
			listener(ev)
		}
	}
}

// AddLayer places src at the configured anchor, appends it on top and selects it.
// The width is capped at MaxWidth and the height keeps the bitmap's aspect ratio.
func (e *Editor) AddLayer(src image.Image) (LayerID, error) {
	return e.AddLayerNamed("", src)
}

// AddLayerNamed is AddLayer with a display name, usually the file's base name
func (e *Editor) AddLayerNamed(name string, src image.Image) (LayerID, error) {
	if src == nil {
		return "", ErrEmptyImage
	}
	b := src.Bounds()
	naturalW, naturalH := float64(b.Dx()), float64(b.Dy())
	if naturalW <= 0 || naturalH <= 0 {
		return "", fmt.Errorf("%w: %dx%d", ErrEmptyImage, b.Dx(), b.Dy())
	}

	ratio := naturalW / naturalH
	w := math.Min(e.opts.MaxWidth, naturalW)
	h := w / ratio

	layer := Layer{
		ID:     e.ids.next(),
		Name:   name,
		X:      e.opts.Anchor.X,
		Y:      e.opts.Anchor.Y,
		W:      w,
		H:      h,
		Source: src,
	}

	e.mu.Lock()
	e.layers = append(e.layers, layer)
	e.selectedID = layer.ID
	e.activeHandle = HandleNone
	e.mu.Unlock()

	e.emit(Event{Type: EventLayerAdded, LayerID: layer.ID}, Event{Type: EventSelectionChanged, LayerID: layer.ID})
	return layer.ID, nil
}

// indexOf returns the position of id in the stack or -1. Caller holds the lock.
func (e *Editor) indexOf(id LayerID) int {
	if id == "" {
		return -1
	}
	for i := range e.layers {
		if e.layers[i].ID == id {
			return i
		}
	}
	return -1
}

// HitTest finds the topmost layer under p and the grip at that point.
// Resize handles win over the move area of the same layer.
func (e *Editor) HitTest(p geometry.Point) (Hit, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.hitTest(p)
}

func (e *Editor) hitTest(p geometry.Point) (Hit, bool) {
	for i := len(e.layers) - 1; i >= 0; i-- {
		l := e.layers[i]
		if h := handleAt(l.Rect(), p); h != HandleNone {
			return Hit{LayerID: l.ID, Handle: h}, true
		}
	}
	return Hit{}, false
}

// BeginDrag selects the layer and starts dragging handle from p
func (e *Editor) BeginDrag(id LayerID, handle Handle, p geometry.Point) error {
	e.mu.Lock()
	idx := e.indexOf(id)
	if idx < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	changed := e.selectedID != id
	e.selectedID = id
	e.activeHandle = handle
	e.dragOffset = geometry.Point{}
	if handle == HandleMove {
		e.dragOffset = p.Sub(e.layers[idx].Anchor())
	}
	e.mu.Unlock()

	if changed {
		e.emit(Event{Type: EventSelectionChanged, LayerID: id})
	}
	return nil
}

// Dragging reports whether a handle is currently held
func (e *Editor) Dragging() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activeHandle != HandleNone && e.selectedID != ""
}

// ActiveHandle returns the handle being dragged, or HandleNone
func (e *Editor) ActiveHandle() Handle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activeHandle
}

// UpdateDrag moves the active handle of the selected layer to p.
// The edge or corner opposite the handle stays put. Nothing is clamped, so a
// layer can be dragged through zero (mirroring it) or off the canvas.
func (e *Editor) UpdateDrag(p geometry.Point) bool {
	e.mu.Lock()
	idx := e.indexOf(e.selectedID)
	if idx < 0 || e.activeHandle == HandleNone {
		e.mu.Unlock()
		return false
	}

	l := &e.layers[idx]
	x, y, w, h := l.X, l.Y, l.W, l.H
	switch e.activeHandle {
	case HandleMove:
		x = p.X - e.dragOffset.X
		y = p.Y - e.dragOffset.Y
	case HandleTopLeft:
		w += x - p.X
		h += y - p.Y
		x, y = p.X, p.Y
	case HandleTopRight:
		w = p.X - x
		h += y - p.Y
		y = p.Y
	case HandleBottomLeft:
		w += x - p.X
		x = p.X
		h = p.Y - y
	case HandleBottomRight:
		w = p.X - x
		h = p.Y - y
	case HandleLeft:
		w += x - p.X
		x = p.X
	case HandleRight:
		w = p.X - x
	case HandleTop:
		h += y - p.Y
		y = p.Y
	case HandleBottom:
		h = p.Y - y
	}

	changed := x != l.X || y != l.Y || w != l.W || h != l.H
	l.X, l.Y, l.W, l.H = x, y, w, h
	id := l.ID
	e.mu.Unlock()

	if changed {
		e.emit(Event{Type: EventLayerChanged, LayerID: id})
	}
	return changed
}

// EndDrag releases the active handle. The selection is kept.
func (e *Editor) EndDrag() {
	e.mu.Lock()
	wasDragging := e.activeHandle != HandleNone
	e.activeHandle = HandleNone
	e.dragOffset = geometry.Point{}
	id := e.selectedID
	e.mu.Unlock()

	if wasDragging {
		e.emit(Event{Type: EventDragEnded, LayerID: id})
	}
}

// Select makes id the selected layer. An empty id clears the selection.
func (e *Editor) Select(id LayerID) error {
	e.mu.Lock()
	if id != "" && e.indexOf(id) < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	changed := e.selectedID != id
	e.selectedID = id
	e.activeHandle = HandleNone
	e.dragOffset = geometry.Point{}
	e.mu.Unlock()

	if changed {
		e.emit(Event{Type: EventSelectionChanged, LayerID: id})
	}
	return nil
}

// SelectedID returns the selected layer's id, or "" when nothing is selected
func (e *Editor) SelectedID() LayerID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectedID
}

// Selected returns a copy of the selected layer
func (e *Editor) Selected() (Layer, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx := e.indexOf(e.selectedID)
	if idx < 0 {
		return Layer{}, false
	}
	return e.layers[idx], true
}

// Layer returns a copy of the layer with the given id
func (e *Editor) Layer(id LayerID) (Layer, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx := e.indexOf(id)
	if idx < 0 {
		return Layer{}, false
	}
	return e.layers[idx], true
}

// SetRect replaces a layer's anchor and signed size
func (e *Editor) SetRect(id LayerID, r geometry.Rect) error {
	e.mu.Lock()
	idx := e.indexOf(id)
	if idx < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	l := &e.layers[idx]
	l.X, l.Y, l.W, l.H = r.X, r.Y, r.W, r.H
	e.mu.Unlock()

	e.emit(Event{Type: EventLayerChanged, LayerID: id})
	return nil
}

// DeleteSelected removes the selected layer and releases its bitmap.
// Without a selection it does nothing.
func (e *Editor) DeleteSelected() bool {
	e.mu.Lock()
	idx := e.indexOf(e.selectedID)
	if idx < 0 {
		e.mu.Unlock()
		return false
	}
	id := e.layers[idx].ID
	e.layers[idx].Source = nil
	e.layers = append(e.layers[:idx], e.layers[idx+1:]...)
	e.selectedID = ""
	e.activeHandle = HandleNone
	e.dragOffset = geometry.Point{}
	e.mu.Unlock()

	e.emit(Event{Type: EventLayerRemoved, LayerID: id}, Event{Type: EventSelectionChanged})
	return true
}

// RaiseSelected moves the selected layer one step towards the top
func (e *Editor) RaiseSelected() bool {
	return e.shiftSelected(1)
}

// LowerSelected moves the selected layer one step towards the bottom
func (e *Editor) LowerSelected() bool {
	return e.shiftSelected(-1)
}

func (e *Editor) shiftSelected(step int) bool {
	e.mu.Lock()
	idx := e.indexOf(e.selectedID)
	target := idx + step
	if idx < 0 || target < 0 || target >= len(e.layers) {
		e.mu.Unlock()
		return false
	}
	e.layers[idx], e.layers[target] = e.layers[target], e.layers[idx]
	id := e.selectedID
	e.mu.Unlock()

	e.emit(Event{Type: EventOrderChanged, LayerID: id})
	return true
}

// ClearAll removes every layer and the selection. Clearing an empty editor
// is a no-op and emits nothing.
func (e *Editor) ClearAll() {
	e.mu.Lock()
	if len(e.layers) == 0 && e.selectedID == "" {
		e.mu.Unlock()
		return
	}
	removed := make([]Event, 0, len(e.layers)+1)
	for i := range e.layers {
		e.layers[i].Source = nil
		removed = append(removed, Event{Type: EventLayerRemoved, LayerID: e.layers[i].ID})
	}
	e.layers = nil
	e.selectedID = ""
	e.activeHandle = HandleNone
	e.dragOffset = geometry.Point{}
	e.mu.Unlock()

	e.emit(append(removed, Event{Type: EventCleared})...)
}

// CursorHintFor returns the cursor for p over the selected layer's handles
func (e *Editor) CursorHintFor(p geometry.Point) CursorHint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx := e.indexOf(e.selectedID)
	if idx < 0 {
		return CursorDefault
	}
	return handleAt(e.layers[idx].Rect(), p).Cursor()
}

// SelectionToolbarAnchor is where the floating delete/raise/lower buttons go:
// the top edge at the anchor's x plus the signed width.
func (e *Editor) SelectionToolbarAnchor() (geometry.Point, bool) {
	l, ok := e.Selected()
	if !ok {
		return geometry.Point{}, false
	}
	return geometry.Pt(l.X+l.W, l.Y), true
}

// Len returns the number of layers
func (e *Editor) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.layers)
}

// Layers returns a copy of the stack, bottom first
func (e *Editor) Layers() []Layer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Layer, len(e.layers))
	copy(out, e.layers)
	return out
}

// Snapshot copies the stack and selection for rendering elsewhere.
// Bitmaps are shared; they are never mutated after decode.
func (e *Editor) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	layers := make([]Layer, len(e.layers))
	copy(layers, e.layers)
	return Snapshot{Layers: layers, SelectedID: e.selectedID}
}
