package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Seen reports whether the key is already set. Used to skip webhook events
// that were fully processed before; a Redis failure reads as "not seen" so
// the event is still handled.
func Seen(ctx context.Context, rdb *redis.Client, key string) bool {
	n, err := rdb.Exists(ctx, key).Result()
	return err == nil && n > 0
}

// MarkOnce sets key if absent and reports whether this caller won.
func MarkOnce(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration) (bool, error) {
	return rdb.SetNX(ctx, key, "1", ttl).Result()
}
