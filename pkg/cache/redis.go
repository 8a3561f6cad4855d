package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 500

// RedisCache Redis реализация кэша
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCache создаёт новый Redis кэш и проверяет соединение
func NewRedisCache(opts *Options) (*RedisCache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	poolSize := opts.RedisPoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
		PoolSize: poolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCache{
		client:     client,
		defaultTTL: opts.DefaultTTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	c.hits.Add(1)
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeleteByPattern walks the keyspace with SCAN and deletes matches batch by batch.
func (c *RedisCache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}
		if next == 0 {
			return deleted, nil
		}
		cursor = next
	}
}

// Stats reports this client's hit counters and the size of the selected DB.
func (c *RedisCache) Stats(ctx context.Context) (*Stats, error) {
	size, err := c.client.DBSize(ctx).Result()
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalKeys: size,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Backend:   BackendRedis,
	}
	if lookups := stats.Hits + stats.Misses; lookups > 0 {
		stats.HitRate = float64(stats.Hits) / float64(lookups)
	}
	return stats, nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
