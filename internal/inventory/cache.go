package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LevelCache keeps classified stock levels in Redis so dashboard reads do not
// hit Postgres on every poll. Entries are invalidated on movement posting and
// expire after the configured TTL either way.
type LevelCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLevelCache builds LevelCache.
func NewLevelCache(client *redis.Client, ttl time.Duration) *LevelCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LevelCache{client: client, ttl: ttl}
}

func levelKey(warehouseID, productID int64) string {
	return fmt.Sprintf("stock:level:%d:%d", warehouseID, productID)
}

// Get returns a cached level, or false when absent.
func (c *LevelCache) Get(ctx context.Context, warehouseID, productID int64) (StockLevel, bool, error) {
	if c == nil || c.client == nil {
		return StockLevel{}, false, nil
	}
	raw, err := c.client.Get(ctx, levelKey(warehouseID, productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return StockLevel{}, false, nil
	}
	if err != nil {
		return StockLevel{}, false, err
	}
	var lv StockLevel
	if err := json.Unmarshal(raw, &lv); err != nil {
		return StockLevel{}, false, err
	}
	return lv, true, nil
}

// Set stores a level under the TTL.
func (c *LevelCache) Set(ctx context.Context, lv StockLevel) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(lv)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, levelKey(lv.WarehouseID, lv.ProductID), raw, c.ttl).Err()
}

// Invalidate drops a cached level.
func (c *LevelCache) Invalidate(ctx context.Context, warehouseID, productID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, levelKey(warehouseID, productID)).Err()
}
