package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold bounds the table size; when exceeded, expired windows
// are evicted during the next Incr (lazy sweep, no background timer).
const sweepThreshold = 10_000

type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps windows in a process-local map. State is lost on
// restart and not shared between instances; use the redis store when
// running more than one replica.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, identifier string, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if len(s.entries) > sweepThreshold {
		for key, entry := range s.entries {
			if now.After(entry.resetAt) {
				delete(s.entries, key)
			}
		}
	}

	entry, ok := s.entries[identifier]
	if !ok || now.After(entry.resetAt) {
		entry = &windowEntry{count: 0, resetAt: now.Add(window)}
		s.entries[identifier] = entry
	}

	entry.count++
	return entry.count, entry.resetAt, nil
}

// Reset clears all windows. Intended for tests.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*windowEntry)
}
