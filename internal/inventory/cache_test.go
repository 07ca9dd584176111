package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shafin5714/stock-craftsman-16-sub000/internal/stock"
)

func newTestCache(t *testing.T) *LevelCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLevelCache(client, time.Minute)
}

func TestLevelCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	lv := StockLevel{
		WarehouseID:  1,
		ProductID:    7,
		ProductName:  "Widget",
		CurrentStock: 42,
		MinStock:     10,
		MaxStock:     100,
		Status:       stock.StatusGood,
		StatusColor:  "#16a34a",
	}
	require.NoError(t, cache.Set(ctx, lv))

	got, ok, err := cache.Get(ctx, 1, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lv, got)
}

func TestLevelCacheMiss(t *testing.T) {
	cache := newTestCache(t)

	_, ok, err := cache.Get(context.Background(), 9, 9)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLevelCacheInvalidate(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	lv := StockLevel{WarehouseID: 2, ProductID: 3, CurrentStock: 5}
	require.NoError(t, cache.Set(ctx, lv))
	require.NoError(t, cache.Invalidate(ctx, 2, 3))

	_, ok, err := cache.Get(ctx, 2, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}
