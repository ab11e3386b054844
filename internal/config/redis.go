package config

import "github.com/go-redis/redis/v8"

// NewRedisClient returns nil when no address is configured; callers treat a
// nil client as "cache disabled".
func NewRedisClient(r Redis) *redis.Client {
	if r.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	})
}
