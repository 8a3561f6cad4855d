package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func skipIfNoRedis(t *testing.T) {
	if os.Getenv("REDIS_TEST_ADDR") == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping Redis tests")
	}
}

func redisOptions() *Options {
	return &Options{
		Backend:       BackendRedis,
		RedisAddr:     os.Getenv("REDIS_TEST_ADDR"),
		RedisPassword: os.Getenv("REDIS_TEST_PASSWORD"),
		DefaultTTL:    time.Minute,
	}
}

func TestRedisCache_SetGet(t *testing.T) {
	skipIfNoRedis(t)

	cache, err := NewRedisCache(redisOptions())
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Set(ctx, "cutmatching-test:key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	defer cache.Delete(ctx, "cutmatching-test:key")

	val, err := cache.Get(ctx, "cutmatching-test:key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(val) != "value" {
		t.Errorf("Get() = %s, want value", val)
	}
}

func TestRedisCache_NotFound(t *testing.T) {
	skipIfNoRedis(t)

	cache, err := NewRedisCache(redisOptions())
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	defer cache.Close()

	if _, err := cache.Get(context.Background(), "cutmatching-test:missing"); err != ErrKeyNotFound {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestRedisCache_DeleteByPattern(t *testing.T) {
	skipIfNoRedis(t)

	cache, err := NewRedisCache(redisOptions())
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	defer cache.Close()

	ctx := context.Background()
	for _, key := range []string{"cutmatching-test:a", "cutmatching-test:b"} {
		if err := cache.Set(ctx, key, []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	deleted, err := cache.DeleteByPattern(ctx, "cutmatching-test:*")
	if err != nil {
		t.Fatalf("DeleteByPattern() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(&Options{RedisAddr: "127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected ping error for unreachable redis")
	}
}
