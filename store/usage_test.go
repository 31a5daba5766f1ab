package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryStoreAt(t *testing.T, day time.Time) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	s.now = func() time.Time { return day }
	return s
}

func TestMemoryStore_LimitEnforcement(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for i := 1; i <= 100; i++ {
		allowed, usage, err := s.CheckAndIncrement(ctx, "demo-key-123", 100)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, i, usage)
	}

	// 101st request is denied with the pre-increment count
	allowed, usage, err := s.CheckAndIncrement(ctx, "demo-key-123", 100)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 100, usage)

	current, err := s.CurrentUsage(ctx, "demo-key-123")
	require.NoError(t, err)
	assert.Equal(t, 100, current, "denied requests are not counted")
}

func TestMemoryStore_DayRollover(t *testing.T) {
	ctx := context.Background()
	day1 := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	s := memoryStoreAt(t, day1)

	for i := 0; i < 5; i++ {
		_, _, err := s.CheckAndIncrement(ctx, "key", 100)
		require.NoError(t, err)
	}

	s.now = func() time.Time { return day1.Add(2 * time.Minute) } // next UTC day

	current, err := s.CurrentUsage(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, 0, current)

	allowed, usage, err := s.CheckAndIncrement(ctx, "key", 100)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, usage)
}

func TestMemoryStore_UnknownKey(t *testing.T) {
	s := NewMemoryStore()
	current, err := s.CurrentUsage(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, 0, current)
}

func TestMemoryStore_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const limit = 50
	var allowedCount int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _, err := s.CheckAndIncrement(ctx, "shared", limit)
			assert.NoError(t, err)
			if allowed {
				atomic.AddInt64(&allowedCount, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, limit, allowedCount)

	current, err := s.CurrentUsage(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, limit, current)
}

func TestMemoryStore_PurgeStale(t *testing.T) {
	ctx := context.Background()
	day1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := memoryStoreAt(t, day1)

	_, _, err := s.CheckAndIncrement(ctx, "old-key", 100)
	require.NoError(t, err)
	_, _, err = s.CheckAndIncrement(ctx, "other-key", 100)
	require.NoError(t, err)

	s.now = func() time.Time { return day1.AddDate(0, 0, 1) }

	assert.Equal(t, 2, s.PurgeStale())
	assert.Equal(t, 0, s.PurgeStale(), "second sweep finds nothing")

	current, err := s.CurrentUsage(ctx, "old-key")
	require.NoError(t, err)
	assert.Equal(t, 0, current)
}
