// Package store tracks per-key daily usage counters. The interface lets
// the in-memory implementation be swapped for a shared external store
// without touching the request path.
package store

import (
	"context"
	"sync"
	"time"
)

// UsageStore maps (API key, UTC calendar day) to a request count.
type UsageStore interface {
	// CheckAndIncrement increments today's count for the key unless it
	// already reached limit. When denied, the pre-increment count is
	// returned and nothing is written.
	CheckAndIncrement(ctx context.Context, apiKey string, limit int) (allowed bool, usage int, err error)

	// CurrentUsage returns today's count for the key, 0 if absent.
	CurrentUsage(ctx context.Context, apiKey string) (int, error)
}

// usageDay formats the UTC calendar day a counter belongs to.
func usageDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

type entry struct {
	day   string
	count int
}

// MemoryStore is the single-process implementation. It keeps only the
// current day per key: a counter from a previous day is reset on first
// touch, so the map stays bounded by the number of active keys.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) CheckAndIncrement(_ context.Context, apiKey string, limit int) (bool, int, error) {
	today := usageDay(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[apiKey]
	if e.day != today {
		e = entry{day: today}
	}
	if e.count >= limit {
		return false, e.count, nil
	}
	e.count++
	s.entries[apiKey] = e
	return true, e.count, nil
}

func (s *MemoryStore) CurrentUsage(_ context.Context, apiKey string) (int, error) {
	today := usageDay(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[apiKey]
	if !ok || e.day != today {
		return 0, nil
	}
	return e.count, nil
}

// PurgeStale drops entries left over from previous days and returns how
// many were removed.
func (s *MemoryStore) PurgeStale() int {
	today := usageDay(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.day != today {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
