package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestMemoryStoreWindows(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(0)
	store.now = clock.now
	limiter := NewLimiter(store, 2, time.Minute)

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, d.Remaining)
	assert.Equal(t, clock.t.Add(time.Minute), d.ResetAt)

	other, err := limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
	assert.Equal(t, 1, other.Remaining)

	clock.t = clock.t.Add(time.Minute)
	d, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "a new window starts once the old one ends")
}

func TestMemoryStoreCleanup(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	store := NewMemoryStore(0)
	store.now = clock.now

	_, _, err := store.Increment(context.Background(), "a", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, store.size())

	clock.t = clock.t.Add(2 * time.Second)
	store.cleanup()
	assert.Zero(t, store.size())
	store.Close()
	store.Close()
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewLimiter(NewRedisStore(client, ""), 3, 10*time.Second)

	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.GreaterOrEqual(t, d.RetryAfter, time.Second)

	ttl := mr.TTL("ratelimit:1.2.3.4")
	assert.Greater(t, ttl, time.Duration(0))

	mr.FastForward(11 * time.Second)
	d, err = limiter.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	_, err := NewLimiter(NewRedisStore(client, "rl:"), 1, time.Second).Allow(context.Background(), "k")
	assert.Error(t, err)
}
