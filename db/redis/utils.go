package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// HSetAll writes all fields of a hash in a single HSET, so readers observe
// either none or all of them. A positive ttl is applied in the same
// transaction.
func HSetAll(ctx context.Context, client redis.Cmdable, key string, fields map[string]interface{}, ttl time.Duration) error {
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

// HGetAll retrieves every field of a hash. A missing key yields an empty map.
func HGetAll(ctx context.Context, client redis.Cmdable, key string) (map[string]string, error) {
	return client.HGetAll(ctx, key).Result()
}

// Del deletes keys and returns how many existed.
func Del(ctx context.Context, client redis.Cmdable, keys ...string) (int64, error) {
	return client.Del(ctx, keys...).Result()
}
