// Package overlay holds the layer model and the interactive editor state
// for positioning bitmaps on the texture canvas.
package overlay

import (
	"image"
	"strconv"
	"sync"
	"time"

	"github.com/philipparndt/gostamp/pkg/geometry"
)

// LayerID identifies a layer for its whole lifetime
type LayerID string

// Layer is one placed bitmap. W and H are signed: a negative value mirrors
// the bitmap along that axis and moves the anchor to the opposite edge.
type Layer struct {
	ID     LayerID
	Name   string
	X, Y   float64
	W, H   float64
	Source image.Image
}

// Rect returns the layer's anchor and signed size
func (l Layer) Rect() geometry.Rect {
	return geometry.Rect{X: l.X, Y: l.Y, W: l.W, H: l.H}
}

// Bounds returns the area the layer covers on the canvas
func (l Layer) Bounds() geometry.Rect {
	return l.Rect().Normalize()
}

// Anchor returns the layer's top-left anchor (the unmirrored origin)
func (l Layer) Anchor() geometry.Point {
	return geometry.Pt(l.X, l.Y)
}

// NaturalSize returns the pixel size of the source bitmap
func (l Layer) NaturalSize() (int, int) {
	if l.Source == nil {
		return 0, 0
	}
	b := l.Source.Bounds()
	return b.Dx(), b.Dy()
}

// idSource hands out timestamp ids, bumping on collision so two layers
// created within the same clock tick still get distinct ids.
type idSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func (s *idSource) next() LayerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UnixNano()
	if ts <= s.last {
		ts = s.last + 1
	}
	s.last = ts
	return LayerID(strconv.FormatInt(ts, 10))
}
