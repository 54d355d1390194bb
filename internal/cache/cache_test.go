package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func backends(t *testing.T) map[string]QueryCache {
	redisCache, _ := newRedisCache(t)
	return map[string]QueryCache{
		"memory": NewMemoryCache(),
		"redis":  redisCache,
	}
}

func TestInvalidate_PrefixScope(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			keys := []string{KeyOrders, Key(KeyOrders, "active"), OrderKey("50"), KeyAllProducts, "ordersx"}
			for _, key := range keys {
				require.NoError(t, c.Set(ctx, key, []byte(`1`), time.Minute))
			}

			require.NoError(t, c.Invalidate(ctx, KeyOrders))

			tests := []struct {
				key  string
				kept bool
			}{
				{KeyOrders, false},
				{"orders:active", false},
				{"order:50", true},
				{"products:all", true},
				{"ordersx", true},
			}
			for _, testCase := range tests {
				_, ok, err := c.Get(ctx, testCase.key)
				require.NoError(t, err)
				assert.Equal(t, testCase.kept, ok, testCase.key)
			}
		})
	}
}

func TestQuery_ReadThrough(t *testing.T) {
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			calls := 0
			fetch := func(context.Context) ([]string, error) {
				calls++
				return []string{"Pizza Suprema", "Burger Palace"}, nil
			}

			first, err := Query(ctx, c, KeyRestaurants, time.Minute, fetch)
			require.NoError(t, err)
			second, err := Query(ctx, c, KeyRestaurants, time.Minute, fetch)
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.Equal(t, 1, calls)

			InvalidateAll(ctx, c, KeyRestaurants)
			_, err = Query(ctx, c, KeyRestaurants, time.Minute, fetch)
			require.NoError(t, err)
			assert.Equal(t, 2, calls)
		})
	}
}

func TestQuery_FetchErrorIsNotCached(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	boom := errors.New("backend down")

	_, err := Query(ctx, c, KeyOrders, time.Minute, func(context.Context) ([]int, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len())
}

func TestQuery_RedisUnavailableFallsThrough(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.Close()

	value, err := Query(context.Background(), c, KeyOrders, time.Minute, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, value)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2024, 12, 15, 14, 30, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyOrders, []byte(`[]`), 2*time.Minute))
	_, ok, _ := c.Get(ctx, KeyOrders)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.Get(ctx, KeyOrders)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestRedisCache_TTLAndNamespace(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, RestaurantKey("2"), []byte(`{"id":"2"}`), 5*time.Minute))
	assert.True(t, mr.Exists("query:restaurant:2"))
	assert.Equal(t, 5*time.Minute, mr.TTL("query:restaurant:2"))

	mr.FastForward(5 * time.Minute)
	_, ok, err := c.Get(ctx, RestaurantKey("2"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "products:restaurant:3", ProductsKey("3"))
	assert.NotEqual(t, KeyAllProducts, ProductsKey("all"))
	assert.Equal(t, "order:50", OrderKey("50"))
	assert.Equal(t, "restaurant:2", RestaurantKey("2"))
	assert.Equal(t, "a:b:c", Key("a", "b", "c"))
}
