package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/esmaelhussen/stock-managment-api/internal/core/domain"
)

const allSourcesKey = "all"

// StockCache caches the all-stock snapshot in Redis with a short TTL. The
// snapshot only feeds the advisory pricing-time gate and the dashboard view;
// the authoritative availability check runs inside the sale-commit DB
// transaction, so a slightly stale snapshot is acceptable.
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStockCache creates a Redis-backed stock snapshot cache.
func NewStockCache(addr, password string, db int, ttl time.Duration) *StockCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &StockCache{client: client, ttl: ttl}
}

func (c *StockCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *StockCache) Close() error {
	return c.client.Close()
}

func key(sourceID string) string {
	if sourceID == "" {
		sourceID = allSourcesKey
	}
	return "stock:snapshot:" + sourceID
}

// Get returns the cached snapshot for a source and whether it was present.
func (c *StockCache) Get(ctx context.Context, sourceID string) ([]domain.StockLevel, bool, error) {
	val, err := c.client.Get(ctx, key(sourceID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var levels []domain.StockLevel
	if err := json.Unmarshal([]byte(val), &levels); err != nil {
		return nil, false, err
	}
	return levels, true, nil
}

// Set stores the snapshot for a source with the configured TTL.
func (c *StockCache) Set(ctx context.Context, sourceID string, levels []domain.StockLevel) error {
	payload, err := json.Marshal(levels)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(sourceID), payload, c.ttl).Err()
}

// Invalidate drops the cached snapshot for a source and the all-sources
// snapshot. Called after a committed sale decrements stock.
func (c *StockCache) Invalidate(ctx context.Context, sourceID string) error {
	keys := []string{key(allSourcesKey)}
	if sourceID != "" {
		keys = append(keys, key(sourceID))
	}
	return c.client.Del(ctx, keys...).Err()
}
