package compositor

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"sync"
	"time"

	"github.com/philipparndt/gostamp/pkg/overlay"
	xdraw "golang.org/x/image/draw"
)

// Result is one baked texture
type Result struct {
	Image *image.RGBA
	PNG   []byte
}

// DataURL returns the PNG as a data: URL
func (r *Result) DataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(r.PNG)
}

// Bake loads the pattern, draws it at its natural size and stretches the
// overlay over it. The output has the pattern's dimensions.
func Bake(ctx context.Context, pattern PatternSource, overlayImg image.Image) (*Result, error) {
	base, err := pattern.Load(ctx)
	if err != nil {
		return nil, err
	}

	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)

	if overlayImg != nil && !overlayImg.Bounds().Empty() {
		xdraw.ApproxBiLinear.Scale(out, out.Bounds(), overlayImg, overlayImg.Bounds(), xdraw.Over, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode baked texture: %w", err)
	}
	return &Result{Image: out, PNG: buf.Bytes()}, nil
}

// Baker renders a snapshot onto a fresh canvas-sized surface and bakes it.
// Selection chrome never reaches the texture.
type Baker struct {
	mu      sync.RWMutex
	pattern PatternSource

	Width, Height int
	Scale         float64
	Timeout       time.Duration
}

// NewBaker creates a baker for a canvas of width×height logical units
func NewBaker(pattern PatternSource, width, height int, scale float64, timeout time.Duration) *Baker {
	return &Baker{pattern: pattern, Width: width, Height: height, Scale: scale, Timeout: timeout}
}

// SetPattern swaps the base pattern for later bakes
func (b *Baker) SetPattern(pattern PatternSource) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pattern = pattern
}

// Pattern returns the current base pattern
func (b *Baker) Pattern() PatternSource {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pattern
}

// Overlay renders the snapshot without chrome
func (b *Baker) Overlay(snap overlay.Snapshot) *image.RGBA {
	s := NewSurface(b.Width, b.Height, b.Scale)
	Render(s, snap.Layers, "", RenderOptions{})
	return s.Image()
}

// Bake renders and bakes snap, bounded by the baker's timeout
func (b *Baker) Bake(ctx context.Context, snap overlay.Snapshot) (*Result, error) {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}
	return Bake(ctx, b.Pattern(), b.Overlay(snap))
}
