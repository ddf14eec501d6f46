// Package keystore provides a small per-process keyed store with TTL
// eviction. It replaces module-level mutable maps: each holder is created
// explicitly and passed by reference to whatever needs it.
package keystore

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store maps string keys to values that expire after a fixed TTL.
// Expired entries are evicted lazily on access and eagerly via Sweep.
// Safe for concurrent use.
type Store[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[V]
	now     func() time.Time
}

// New creates a store whose entries live for ttl after each Put.
func New[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

// Put stores value under key, resetting its TTL.
func (s *Store[V]) Put(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Get returns the live value for key. An expired entry is evicted and
// reported as a miss.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Delete removes key if present.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Sweep evicts every expired entry and returns how many were removed.
func (s *Store[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, including not-yet-swept expired ones.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
