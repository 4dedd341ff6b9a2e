package settings

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an in-process Store and Watcher, for tests and single-node
// deployments.
type MemoryStore struct {
	mu       sync.Mutex
	flags    map[string]bool
	watchers map[chan Change]context.Context
	closed   bool
	done     chan struct{}
}

// NewMemoryStore returns a store seeded with flags.
func NewMemoryStore(flags map[string]bool) *MemoryStore {
	s := &MemoryStore{
		flags:    make(map[string]bool, len(flags)),
		watchers: make(map[chan Change]context.Context),
		done:     make(chan struct{}),
	}
	maps.Copy(s.flags, flags)
	return s
}

// Load returns a copy of the stored flags.
func (s *MemoryStore) Load(ctx context.Context) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	return maps.Clone(s.flags), nil
}

// SetEnabled stores the flag and delivers the change to every watcher.
// Delivery blocks until each watcher receives the change or either context
// ends.
func (s *MemoryStore) SetEnabled(ctx context.Context, toolID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.flags[toolID] = enabled

	change := Change{ToolID: toolID, Enabled: enabled}
	for ch, watchCtx := range s.watchers {
		select {
		case ch <- change:
		case <-watchCtx.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Watch returns a channel receiving every subsequent change.
func (s *MemoryStore) Watch(ctx context.Context) (<-chan Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	ch := make(chan Change, 16)
	s.watchers[ch] = ctx

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
	}()

	return ch, nil
}

// Close closes every watch channel.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	for ch := range s.watchers {
		close(ch)
	}
	s.watchers = make(map[chan Change]context.Context)
	return nil
}
