package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"pos-service/internal/entity"
	"pos-service/internal/logging"
)

var logger = logging.New("cache")

// evictHoldOff is how long Set refuses to repopulate an evicted product. A
// read that started before the write committed cannot put its stale row back.
const evictHoldOff = 5 * time.Second

// ProductCache is a read-through cache of product rows keyed product:<id>.
// A nil client disables it: Get always misses and writes are no-ops.
type ProductCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	holdOff time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl, holdOff: evictHoldOff}
}

func productKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func evictedKey(id int) string {
	return fmt.Sprintf("product:%d:evicted", id)
}

// Get returns the cached product, or nil on a miss. Redis failures are logged
// and treated as a miss so the caller falls back to the database.
func (c *ProductCache) Get(ctx context.Context, id int) *entity.Product {
	if c == nil || c.rdb == nil {
		return nil
	}

	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting product %d from cache", id)
		}
		return nil
	}

	var product entity.Product
	if err := json.Unmarshal(data, &product); err != nil {
		logger.Error().Err(err).Msgf("Error unmarshalling product %d", id)
		return nil
	}
	return &product
}

func (c *ProductCache) Set(ctx context.Context, product *entity.Product) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling product %d", product.ID)
		return
	}

	// WATCH fails the write if Evict marks the product in between.
	marker := evictedKey(product.ID)
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, marker).Result()
		if err != nil || n > 0 {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, productKey(product.ID), data, c.ttl)
			return nil
		})
		return err
	}, marker)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		logger.Error().Err(err).Msgf("Error setting product %d in cache", product.ID)
	}
}

// Evict drops the given products from the cache and keeps them out of it for
// the hold-off window.
func (c *ProductCache) Evict(ctx context.Context, ids ...int) {
	if c == nil || c.rdb == nil || len(ids) == 0 {
		return
	}

	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.Del(ctx, productKey(id))
			pipe.Set(ctx, evictedKey(id), 1, c.holdOff)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error evicting %d products from cache", len(ids))
	}
}
