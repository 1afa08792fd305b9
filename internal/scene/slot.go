package scene

import "sync"

// slot hands the newest value from any goroutine to the render thread.
// Unconsumed values are overwritten.
type slot[T any] struct {
	mu    sync.Mutex
	value T
	full  bool
}

func (s *slot[T]) put(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value, s.full = v, true
}

func (s *slot[T]) take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.value, s.full
	var zero T
	s.value, s.full = zero, false
	return v, ok
}
