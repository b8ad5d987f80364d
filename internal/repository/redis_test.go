package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimiter(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	t.Run("AllowsUpToLimit", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			allowed, err := limiter.Allow(ctx, "user:1", 2, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := limiter.Allow(ctx, "user:1", 2, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("WindowExpires", func(t *testing.T) {
		allowed, err := limiter.Allow(ctx, "user:2", 1, time.Second)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Allow(ctx, "user:2", 1, time.Second)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(2 * time.Second)

		allowed, err = limiter.Allow(ctx, "user:2", 1, time.Second)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("KeysIndependent", func(t *testing.T) {
		allowed, err := limiter.Allow(ctx, "user:3", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Allow(ctx, "user:4", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("NilClient", func(t *testing.T) {
		broken := NewRedisRateLimiter(nil)
		_, err := broken.Allow(ctx, "user:5", 1, time.Minute)
		assert.Error(t, err)
	})
}
