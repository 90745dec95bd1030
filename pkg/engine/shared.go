package engine

import "sync"

// Shared guards an EngineState that is used by more than one component of a
// session. Readers borrow the state; writers replace it.
type Shared struct {
	mu    sync.RWMutex
	state *EngineState
}

// NewShared returns a Shared holding es.
func NewShared(es *EngineState) *Shared {
	return &Shared{state: es}
}

// Read calls f with the current state while holding a read lock. f must not
// retain or modify the state.
func (s *Shared) Read(f func(es *EngineState)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f(s.state)
}

// Snapshot returns a copy of the current state.
func (s *Shared) Snapshot() *EngineState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Update calls f with a copy of the current state while holding the write
// lock. If f returns nil, the copy replaces the current state; otherwise it
// is discarded.
func (s *Shared) Update(f func(es *EngineState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := s.state.Clone()
	if err := f(clone); err != nil {
		return err
	}
	s.state = clone
	return nil
}
