package cacheinfra

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrNilClient is returned when a Redis store is constructed without a client.
var ErrNilClient = errors.New("cacheinfra: nil redis client")

// Redis is a cache.Store backed by a go-redis client. It is the backend to
// use when more than one process serves traffic, since invalidations must be
// visible across replicas.
type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Client goredis.UniversalClient

	// CloseClient should be true only when this store exclusively owns the
	// client and Close should tear it down.
	CloseClient bool
}

// NewRedis creates the redis cache backend.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

// Get returns the stored bytes for key. redis.Nil maps to a miss; every
// other error is a transport or server failure and is surfaced as-is.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set stores value under key with the given expiry.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0 // non-positive means no expiry for the redis client
	}
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

// Delete removes key. Deleting an absent key is a no-op for redis.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

// Close releases the underlying client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (r *Redis) Close() error {
	if r.closeClient {
		if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
