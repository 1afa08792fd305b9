// Package session wires one overlay editor to its baker and bake scheduler.
// Both desktop front ends drive a Session; they differ only in how they draw
// and where the baked texture goes.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/philipparndt/gostamp/internal/config"
	"github.com/philipparndt/gostamp/pkg/compositor"
	"github.com/philipparndt/gostamp/pkg/geometry"
	"github.com/philipparndt/gostamp/pkg/imagefile"
	"github.com/philipparndt/gostamp/pkg/overlay"
)

var errNoPattern = errors.New("no pattern configured")

// Options configures a Session
type Options struct {
	Config config.Config
	Target compositor.TextureApplier
	Logger *slog.Logger

	// OnBakeError is called from the bake goroutine
	OnBakeError func(error)
	// OnChange is called on the editor's goroutine after every editor event
	OnChange func(overlay.Event)
}

// Session owns the editor, the baker and the scheduler
type Session struct {
	Editor *overlay.Editor
	Baker  *compositor.Baker
	Bakes  *compositor.Scheduler

	log *slog.Logger

	mu      sync.Mutex
	lastErr error
}

// New creates a session. Nothing is baked until the first edit or Rebake.
func New(opts Options) *Session {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Session{log: log}

	s.Editor = overlay.NewEditor(overlay.Options{
		Anchor:   geometry.Pt(cfg.Placement.X, cfg.Placement.Y),
		MaxWidth: cfg.Placement.MaxWidth,
	})

	var pattern compositor.PatternSource
	if cfg.Pattern != "" {
		pattern = compositor.Open(cfg.Pattern)
	}
	s.Baker = compositor.NewBaker(pattern, cfg.Canvas.Width, cfg.Canvas.Height, cfg.Canvas.Scale, cfg.Bake.Timeout)

	s.Bakes = compositor.NewScheduler(s.bake, opts.Target, compositor.SchedulerOptions{
		Delay:  cfg.Bake.Debounce,
		Logger: log,
		OnError: func(err error) {
			s.setErr(err)
			if opts.OnBakeError != nil {
				opts.OnBakeError(err)
			}
		},
		OnApplied: func(*compositor.Result) {
			s.setErr(nil)
		},
	})

	s.Editor.On(func(ev overlay.Event) {
		switch {
		case ev.Type == overlay.EventDragEnded:
			// Releasing the pointer bakes right away instead of waiting
			s.Bakes.BakeNow(s.Editor.Snapshot())
		case ev.Mutates():
			s.Bakes.Schedule(s.Editor.Snapshot())
		}
		if opts.OnChange != nil {
			opts.OnChange(ev)
		}
	})

	return s
}

func (s *Session) bake(ctx context.Context, snap overlay.Snapshot) (*compositor.Result, error) {
	if s.Baker.Pattern() == nil {
		return nil, &compositor.PatternLoadError{Ref: "<none>", Err: errNoPattern}
	}
	return s.Baker.Bake(ctx, snap)
}

// AddImageFile decodes path and adds it as the topmost, selected layer.
// A decode failure leaves the existing layers untouched.
func (s *Session) AddImageFile(path string) (overlay.LayerID, error) {
	img, err := imagefile.Load(path)
	if err != nil {
		s.log.Warn("Failed to add image", "path", path, "error", err)
		return "", err
	}
	id, err := s.Editor.AddLayerNamed(filepath.Base(path), img)
	if err != nil {
		return "", fmt.Errorf("failed to add %s: %w", path, err)
	}
	s.log.Info("Layer added", "id", id, "path", path)
	return id, nil
}

// SetPattern switches the base pattern and re-bakes
func (s *Session) SetPattern(ref string) {
	s.Baker.SetPattern(compositor.Open(ref))
	s.Rebake()
}

// Rebake bakes the current state immediately
func (s *Session) Rebake() {
	s.Bakes.BakeNow(s.Editor.Snapshot())
}

// Retry repeats the last bake, or bakes the current state if none ran yet
func (s *Session) Retry() {
	if !s.Bakes.Retry() {
		s.Rebake()
	}
}

// LastError returns the error of the most recent failed bake, cleared by the
// next successful one
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// Close stops the scheduler
func (s *Session) Close() {
	s.Bakes.Close()
}
