package powertrack_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunwatt-io/powertrack/pkg/powertrack"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()
	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		cache := powertrack.NewMemoryCache(10)
		ctx := context.Background()

		entry := &powertrack.CacheEntry{
			Data:      []byte(`{"key":"S60442"}`),
			ExpiresAt: time.Now().Add(time.Minute),
			ETag:      "abc123",
		}

		require.NoError(t, cache.Set(ctx, "S60442", entry))

		got, err := cache.Get(ctx, "S60442")
		require.NoError(t, err)
		assert.Equal(t, entry.Data, got.Data)
		assert.Equal(t, "abc123", got.ETag)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		cache := powertrack.NewMemoryCache(10)

		_, err := cache.Get(context.Background(), "missing")
		require.ErrorIs(t, err, powertrack.ErrCacheKeyNotFound)
	})

	t.Run("expired entry", func(t *testing.T) {
		t.Parallel()

		cache := powertrack.NewMemoryCache(10)
		ctx := context.Background()

		require.NoError(t, cache.Set(ctx, "stale", &powertrack.CacheEntry{
			Data:      []byte("old"),
			ExpiresAt: time.Now().Add(-time.Second),
		}))

		_, err := cache.Get(ctx, "stale")
		require.ErrorIs(t, err, powertrack.ErrCacheEntryExpired)
		assert.False(t, cache.Has(ctx, "stale"))
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		cache := powertrack.NewMemoryCache(10)
		ctx := context.Background()

		require.NoError(t, cache.Set(ctx, "gone", &powertrack.CacheEntry{
			Data:      []byte("x"),
			ExpiresAt: time.Now().Add(time.Minute),
		}))
		require.NoError(t, cache.Delete(ctx, "gone"))

		_, err := cache.Get(ctx, "gone")
		require.ErrorIs(t, err, powertrack.ErrCacheKeyNotFound)
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()

		cache := powertrack.NewMemoryCache(10)
		ctx := context.Background()

		for index := 0; index < 3; index++ {
			require.NoError(t, cache.Set(ctx, fmt.Sprintf("key-%d", index), &powertrack.CacheEntry{
				Data:      []byte("x"),
				ExpiresAt: time.Now().Add(time.Minute),
			}))
		}

		require.NoError(t, cache.Clear(ctx))
		assert.False(t, cache.Has(ctx, "key-0"))
	})

	t.Run("eviction at max size", func(t *testing.T) {
		t.Parallel()

		cache := powertrack.NewMemoryCache(2)
		ctx := context.Background()

		require.NoError(t, cache.Set(ctx, "oldest", &powertrack.CacheEntry{
			Data:      []byte("a"),
			ExpiresAt: time.Now().Add(time.Minute),
		}))
		require.NoError(t, cache.Set(ctx, "middle", &powertrack.CacheEntry{
			Data:      []byte("b"),
			ExpiresAt: time.Now().Add(2 * time.Minute),
		}))
		require.NoError(t, cache.Set(ctx, "newest", &powertrack.CacheEntry{
			Data:      []byte("c"),
			ExpiresAt: time.Now().Add(3 * time.Minute),
		}))

		assert.False(t, cache.Has(ctx, "oldest"))
		assert.True(t, cache.Has(ctx, "middle"))
		assert.True(t, cache.Has(ctx, "newest"))
	})

	t.Run("oversized value rejected", func(t *testing.T) {
		t.Parallel()

		cache := powertrack.NewMemoryCache(10)
		big := make([]byte, 2*1024*1024)

		err := cache.Set(context.Background(), "big", &powertrack.CacheEntry{
			Data:      big,
			ExpiresAt: time.Now().Add(time.Minute),
		})
		require.ErrorIs(t, err, powertrack.ErrCacheValueTooLarge)
	})

	t.Run("zero expiry gets the default TTL", func(t *testing.T) {
		t.Parallel()

		cache := powertrack.NewMemoryCache(10)
		ctx := context.Background()

		require.NoError(t, cache.Set(ctx, "fresh", &powertrack.CacheEntry{Data: []byte("x")}))

		got, err := cache.Get(ctx, "fresh")
		require.NoError(t, err)
		assert.False(t, got.ExpiresAt.IsZero())
		assert.True(t, cache.Has(ctx, "fresh"))
	})
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()
	t.Run("nil config uses memory default", func(t *testing.T) {
		t.Parallel()

		cache, err := powertrack.NewCacheFromConfig(nil)
		require.NoError(t, err)
		assert.IsType(t, &powertrack.MemoryCache{}, cache)
	})

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		cache, err := powertrack.NewCacheFromConfig(&powertrack.CacheConfig{Type: powertrack.CacheTypeMemory})
		require.NoError(t, err)
		assert.IsType(t, &powertrack.MemoryCache{}, cache)
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()

		cache, err := powertrack.NewCacheFromConfig(&powertrack.CacheConfig{Type: powertrack.CacheTypeNone})
		require.NoError(t, err)
		assert.IsType(t, &powertrack.NoOpCache{}, cache)
	})

	t.Run("nats without config", func(t *testing.T) {
		t.Parallel()

		_, err := powertrack.NewCacheFromConfig(&powertrack.CacheConfig{Type: powertrack.CacheTypeNATS})
		require.ErrorIs(t, err, powertrack.ErrNATSConfigRequired)
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()

		_, err := powertrack.NewCacheFromConfig(&powertrack.CacheConfig{Type: "redis"})
		require.ErrorIs(t, err, powertrack.ErrUnsupportedCacheType)
	})

	t.Run("options default TTL expires zero-expiry entries", func(t *testing.T) {
		t.Parallel()

		cache, err := powertrack.NewCacheFromConfig(&powertrack.CacheConfig{
			Type:    powertrack.CacheTypeMemory,
			Options: &powertrack.CacheOptions{DefaultTTL: 20 * time.Millisecond},
		})
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, cache.Set(ctx, "short", &powertrack.CacheEntry{Data: []byte("x")}))
		assert.True(t, cache.Has(ctx, "short"))

		time.Sleep(40 * time.Millisecond)

		_, err = cache.Get(ctx, "short")
		require.ErrorIs(t, err, powertrack.ErrCacheEntryExpired)
	})
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := powertrack.NewNoOpCache()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", &powertrack.CacheEntry{Data: []byte("x")}))

	_, err := cache.Get(ctx, "key")
	require.ErrorIs(t, err, powertrack.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))
}
