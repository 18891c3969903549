package store

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// Session is anything the registry can hold and later tear down.
type Session interface {
	Teardown()
}

// Sessions holds live per-player sessions in memory. Concurrency-safe;
// state is lost when the process restarts (records are not).
type Sessions[T Session] struct {
	clock clockwork.Clock
	group singleflight.Group // one create per id at a time

	mu      sync.Mutex
	entries map[string]*entry[T]
}

type entry[T Session] struct {
	value   T
	touched time.Time
}

// NewSessions builds an empty registry; a nil clock means the real one.
func NewSessions[T Session](clock clockwork.Clock) *Sessions[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sessions[T]{clock: clock, entries: make(map[string]*entry[T])}
}

// Acquire returns the session for id, creating it with create if missing,
// and marks it as recently used. create runs without the registry lock held;
// concurrent callers for the same id share a single create.
func (s *Sessions[T]) Acquire(id string, create func() T) T {
	if v, ok := s.Get(id); ok {
		return v
	}
	v, _, _ := s.group.Do(id, func() (any, error) {
		if v, ok := s.Get(id); ok {
			return v, nil
		}
		v := create()
		s.mu.Lock()
		s.entries[id] = &entry[T]{value: v, touched: s.clock.Now()}
		s.mu.Unlock()
		return v, nil
	})
	return v.(T)
}

// Get looks up id without creating anything.
func (s *Sessions[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		var zero T
		return zero, false
	}
	e.touched = s.clock.Now()
	return e.value, true
}

// Len is the number of live sessions.
func (s *Sessions[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep tears down and forgets every session idle for longer than ttl.
// It returns how many were evicted.
func (s *Sessions[T]) Sweep(ttl time.Duration) int {
	cutoff := s.clock.Now().Add(-ttl)

	s.mu.Lock()
	var idle []T
	for id, e := range s.entries {
		if e.touched.Before(cutoff) {
			idle = append(idle, e.value)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, v := range idle {
		v.Teardown()
	}
	return len(idle)
}

// Close tears down everything, for shutdown.
func (s *Sessions[T]) Close() {
	s.mu.Lock()
	all := s.entries
	s.entries = make(map[string]*entry[T])
	s.mu.Unlock()
	for _, e := range all {
		e.value.Teardown()
	}
}
