package securestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV is the web-target store. A nil client means "no store available".
type RedisKV struct {
	rdb *redis.Client
}

var _ KVStore = (*RedisKV)(nil)

// NewRedisKV wraps an existing client.
func NewRedisKV(rdb *redis.Client) *RedisKV {
	return &RedisKV{rdb: rdb}
}

// DialRedis connects and pings. On failure the returned store is unavailable and err says why,
// so the caller can log and carry on signed out.
func DialRedis(ctx context.Context, addr, password string, db int) (*RedisKV, error) {
	if addr == "" {
		return &RedisKV{}, fmt.Errorf("securestore: REDIS_ADDR not configured")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return &RedisKV{}, fmt.Errorf("securestore: redis ping: %w", err)
	}
	return &RedisKV{rdb: rdb}, nil
}

func (r *RedisKV) Available() bool { return r != nil && r.rdb != nil }

func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

// Close releases the client.
func (r *RedisKV) Close() error {
	if !r.Available() {
		return nil
	}
	return r.rdb.Close()
}
