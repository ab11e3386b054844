package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// IdempotencyGuard remembers request keys for a TTL so a retried checkout is
// not recorded twice.
type IdempotencyGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyGuard(rdb *redis.Client, ttl time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{rdb: rdb, ttl: ttl}
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idempotency-key:%s", key)
}

// Claim records key and reports whether it was seen for the first time.
// Empty keys and a disabled guard always succeed.
func (g *IdempotencyGuard) Claim(ctx context.Context, key string) (bool, error) {
	if g == nil || g.rdb == nil || key == "" {
		return true, nil
	}
	return g.rdb.SetNX(ctx, idempotencyKey(key), "pending", g.ttl).Result()
}

// Release forgets key so the request can be retried, used when the guarded
// operation failed.
func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	if g == nil || g.rdb == nil || key == "" {
		return nil
	}
	return g.rdb.Del(ctx, idempotencyKey(key)).Err()
}

// Complete stores the result reference (the order id) under key.
func (g *IdempotencyGuard) Complete(ctx context.Context, key string, orderID int) error {
	if g == nil || g.rdb == nil || key == "" {
		return nil
	}
	return g.rdb.Set(ctx, idempotencyKey(key), orderID, g.ttl).Err()
}
