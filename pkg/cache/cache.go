// Package cache provides a small byte cache with in-memory and Redis
// backends, and a typed verdict cache built on top of it.
package cache

import (
	"context"
	"errors"
	"time"

	"cutmatching/pkg/config"
)

// Backend types for cache implementations.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Standard errors returned by cache operations.
var (
	// ErrKeyNotFound is returned when a requested key does not exist in the cache.
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed is returned when an operation is attempted on a closed cache.
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache is the byte-level contract shared by all backends.
type Cache interface {
	// Get returns ErrKeyNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. A ttl <= 0 means the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
	// DeleteByPattern removes keys matching a "prefix*" style pattern and
	// returns how many were removed.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// Stats holds basic statistics about a cache.
type Stats struct {
	TotalKeys int64
	Hits      int64
	Misses    int64
	HitRate   float64
	Backend   string
}

// Options contains configuration parameters for creating a Cache instance.
type Options struct {
	Backend    string
	DefaultTTL time.Duration

	// Memory cache
	MaxEntries      int
	CleanupInterval time.Duration

	// Redis cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// DefaultOptions returns options for a memory cache.
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		DefaultTTL:      24 * time.Hour,
		MaxEntries:      1000,
		CleanupInterval: time.Minute,
		RedisAddr:       "localhost:6379",
		RedisPoolSize:   10,
	}
}

// FromConfig создаёт опции из конфигурации
func FromConfig(cfg *config.CacheConfig) *Options {
	return &Options{
		Backend:         cfg.Driver,
		DefaultTTL:      cfg.DefaultTTL,
		MaxEntries:      cfg.MaxEntries,
		CleanupInterval: time.Minute,
		RedisAddr:       cfg.Address(),
		RedisPassword:   cfg.Password,
		RedisDB:         cfg.DB,
		RedisPoolSize:   10,
	}
}

// New создаёт кэш на основе опций
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	switch opts.Backend {
	case BackendRedis:
		return NewRedisCache(opts)
	default:
		return NewMemoryCache(opts), nil
	}
}
