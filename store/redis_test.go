package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailscore/config"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	rs := NewRedisStore(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() {
		rs.Close()
		mr.Close()
	})
	return rs, mr
}

func TestRedisStore_CheckAndIncrement(t *testing.T) {
	ctx := context.Background()
	rs, _ := setupTestRedis(t)

	for i := 1; i <= 3; i++ {
		allowed, usage, err := rs.CheckAndIncrement(ctx, "demo-key-123", 3)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, i, usage)
	}

	allowed, usage, err := rs.CheckAndIncrement(ctx, "demo-key-123", 3)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 3, usage)
}

func TestRedisStore_CurrentUsage(t *testing.T) {
	ctx := context.Background()
	rs, _ := setupTestRedis(t)

	current, err := rs.CurrentUsage(ctx, "demo-key-123")
	require.NoError(t, err)
	assert.Equal(t, 0, current)

	_, _, err = rs.CheckAndIncrement(ctx, "demo-key-123", 10)
	require.NoError(t, err)
	_, _, err = rs.CheckAndIncrement(ctx, "demo-key-123", 10)
	require.NoError(t, err)

	current, err = rs.CurrentUsage(ctx, "demo-key-123")
	require.NoError(t, err)
	assert.Equal(t, 2, current)
}

func TestRedisStore_DayKeysExpire(t *testing.T) {
	ctx := context.Background()
	rs, mr := setupTestRedis(t)

	_, _, err := rs.CheckAndIncrement(ctx, "demo-key-123", 10)
	require.NoError(t, err)

	ttl := mr.TTL(rs.key("demo-key-123"))
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, dayKeyTTL)
}

func TestRedisStore_DayRollover(t *testing.T) {
	ctx := context.Background()
	rs, _ := setupTestRedis(t)

	day1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rs.now = func() time.Time { return day1 }

	for i := 0; i < 4; i++ {
		_, _, err := rs.CheckAndIncrement(ctx, "key", 100)
		require.NoError(t, err)
	}

	rs.now = func() time.Time { return day1.AddDate(0, 0, 1) }

	current, err := rs.CurrentUsage(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, 0, current)

	allowed, usage, err := rs.CheckAndIncrement(ctx, "key", 100)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, usage)
}

func TestRedisStore_ErrorWhenUnavailable(t *testing.T) {
	rs, mr := setupTestRedis(t)
	mr.Close()

	_, _, err := rs.CheckAndIncrement(context.Background(), "key", 10)
	assert.Error(t, err)
}
