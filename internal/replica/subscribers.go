package replica

import "sync"

// Subscribers is a small registry of callbacks shared by Handle implementations.
// Callbacks are invoked outside the lock so they may subscribe or unsubscribe.
type Subscribers[F any] struct {
	fns    map[uint64]F
	mu     sync.Mutex
	nextID uint64
	closed bool
}

// Add registers fn and returns its Unsubscribe.
func (s *Subscribers[F]) Add(fn F) Unsubscribe {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}
	if s.fns == nil {
		s.fns = make(map[uint64]F)
	}
	id := s.nextID
	s.nextID++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

// Snapshot returns the currently registered callbacks.
func (s *Subscribers[F]) Snapshot() []F {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]F, 0, len(s.fns))
	for _, fn := range s.fns {
		out = append(out, fn)
	}
	return out
}

// Len returns the number of registered callbacks.
func (s *Subscribers[F]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

// Close drops every callback; later Add calls register nothing.
func (s *Subscribers[F]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.fns = nil
}
