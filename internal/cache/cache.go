// Package cache provides the in-process freshness cache consulted by the
// data gateways before issuing upstream calls.
//
// Each gateway owns exactly one Store instance, injected at wiring time.
// Entries never expire eagerly and there is no invalidation API; a stale
// entry is simply ignored on read and overwritten on the next Put. The map
// is unbounded; for keyed caches (weather's per-coordinate entries) this is
// an accepted limitation, not a defect.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	val T
	at  time.Time
}

// Store is a mutex-guarded TTL key-value store.
type Store[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[T]
	now     func() time.Time
}

// New creates a Store whose entries are valid for ttl after each Put.
func New[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// Get returns the cached value for key. The read is a hit iff an entry
// exists and now minus its timestamp is under the TTL; stale entries are never
// served.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || s.now().Sub(e.at) >= s.ttl {
		var zero T
		return zero, false
	}
	return e.val, true
}

// Put stores val under key, stamped with the current time.
func (s *Store[T]) Put(key string, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{val: val, at: s.now()}
}
