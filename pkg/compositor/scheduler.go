package compositor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/philipparndt/gostamp/pkg/overlay"
)

// DefaultBakeDelay is the quiet period after the last edit before a bake runs
const DefaultBakeDelay = 150 * time.Millisecond

// TextureApplier receives finished bakes. The 3D view implements it.
type TextureApplier interface {
	ApplyTexture(png []byte) error
}

// BakeFunc turns a snapshot into a texture
type BakeFunc func(ctx context.Context, snap overlay.Snapshot) (*Result, error)

// SchedulerOptions configures a Scheduler
type SchedulerOptions struct {
	Delay     time.Duration
	Logger    *slog.Logger
	OnError   func(error)
	OnApplied func(*Result)
}

// Scheduler debounces bake requests and applies their results in submission
// order. Only the newest pending snapshot is kept; a result that finishes
// after a newer one was applied is dropped.
type Scheduler struct {
	bake   BakeFunc
	target TextureApplier
	opts   SchedulerOptions
	log    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	timer   *time.Timer
	pending *overlay.Snapshot
	last    *overlay.Snapshot
	seq     uint64
	closed  bool

	applyMu sync.Mutex
	applied uint64

	wg sync.WaitGroup
}

// NewScheduler creates a scheduler that bakes with bake and hands results to target
func NewScheduler(bake BakeFunc, target TextureApplier, opts SchedulerOptions) *Scheduler {
	if opts.Delay <= 0 {
		opts.Delay = DefaultBakeDelay
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		bake:   bake,
		target: target,
		opts:   opts,
		log:    log.With("component", "bake"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Schedule replaces the pending snapshot and restarts the quiet period
func (s *Scheduler) Schedule(snap overlay.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.pending = &snap
	s.last = &snap

	if s.timer == nil {
		s.timer = time.AfterFunc(s.opts.Delay, s.fire)
	} else {
		s.timer.Reset(s.opts.Delay)
	}
}

// Flush bakes the pending snapshot now instead of waiting for the quiet period.
// It does nothing when no snapshot is pending.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	snap := s.pending
	s.pending = nil
	id, ok := s.startLocked(snap)
	s.mu.Unlock()

	if ok {
		go s.run(id, *snap)
	}
}

// BakeNow drops any pending snapshot and bakes snap immediately
func (s *Scheduler) BakeNow(snap overlay.Snapshot) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = nil
	s.last = &snap
	id, ok := s.startLocked(&snap)
	s.mu.Unlock()

	if ok {
		go s.run(id, snap)
	}
}

// Retry bakes the most recently submitted snapshot again. It reports false
// when nothing was ever submitted.
func (s *Scheduler) Retry() bool {
	s.mu.Lock()
	snap := s.last
	id, ok := s.startLocked(snap)
	s.mu.Unlock()

	if ok {
		go s.run(id, *snap)
	}
	return ok
}

// Wait blocks until every started bake has finished. It must not race with
// new submissions.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Close discards the pending snapshot, cancels running bakes and waits for them
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	snap := s.pending
	s.pending = nil
	id, ok := s.startLocked(snap)
	s.mu.Unlock()

	if ok {
		s.run(id, *snap)
	}
}

// startLocked assigns the next request number. Callers hold s.mu.
func (s *Scheduler) startLocked(snap *overlay.Snapshot) (uint64, bool) {
	if snap == nil || s.closed {
		return 0, false
	}
	s.seq++
	s.wg.Add(1)
	return s.seq, true
}

func (s *Scheduler) run(id uint64, snap overlay.Snapshot) {
	defer s.wg.Done()

	start := time.Now()
	res, err := s.bake(s.ctx, snap)
	if err != nil {
		if s.ctx.Err() != nil {
			return
		}
		s.log.Warn("Bake failed", "request", id, "error", err)
		s.reportError(err)
		return
	}

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if id < s.applied {
		s.log.Debug("Dropping stale bake", "request", id, "applied", s.applied)
		return
	}
	if err := s.target.ApplyTexture(res.PNG); err != nil {
		s.log.Warn("Failed to apply texture", "request", id, "error", err)
		s.reportError(err)
		return
	}
	s.applied = id
	s.log.Debug("Texture applied", "request", id, "layers", len(snap.Layers), "duration", time.Since(start))

	if s.opts.OnApplied != nil {
		s.opts.OnApplied(res)
	}
}

func (s *Scheduler) reportError(err error) {
	if s.opts.OnError != nil {
		s.opts.OnError(err)
	}
}
