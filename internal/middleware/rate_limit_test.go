package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimiter(t *testing.T, limit int) *RateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, RateLimitConfig{
		Window:    time.Hour,
		Limit:     limit,
		KeyPrefix: "rate_limit:test",
	})
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := setupRateLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, remaining, _, err := rl.IsAllowed(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, remaining, reset, err := rl.IsAllowed(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
	assert.True(t, reset.After(time.Now()))
}

func TestRateLimiterCountsUsersSeparately(t *testing.T) {
	rl := setupRateLimiter(t, 1)
	ctx := context.Background()

	allowed, _, _, err := rl.IsAllowed(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, _, err = rl.IsAllowed(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, _, _, err = rl.IsAllowed(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, allowed, "another user has their own budget")
}
