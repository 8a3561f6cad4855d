package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	cache := NewMemoryCache(&Options{
		DefaultTTL: time.Minute,
		MaxEntries: 100,
	})
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	got, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("expected value, got %s", got)
	}

	// возвращается копия
	got[0] = 'X'
	again, _ := cache.Get(ctx, "key")
	if string(again) != "value" {
		t.Errorf("cached value was modified through returned slice: %s", again)
	}
}

func TestMemoryCache_GetNotFound(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	if _, err := cache.Get(context.Background(), "nonexistent"); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMemoryCache_Overwrite(t *testing.T) {
	cache := NewMemoryCache(&Options{MaxEntries: 2})
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "key", []byte("v1"), 0)
	cache.Set(ctx, "key", []byte("v2"), 0)

	got, err := cache.Get(ctx, "key")
	if err != nil || string(got) != "v2" {
		t.Errorf("expected v2, got %s (%v)", got, err)
	}

	stats, _ := cache.Stats(ctx)
	if stats.TotalKeys != 1 {
		t.Errorf("expected 1 key, got %d", stats.TotalKeys)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "key", []byte("value"), 0)

	if err := cache.Delete(ctx, "key"); err != nil {
		t.Fatalf("failed to delete: %v", err)
	}
	if _, err := cache.Get(ctx, "key"); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
	if err := cache.Delete(ctx, "missing"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
}

func TestMemoryCache_TTL(t *testing.T) {
	cache := NewMemoryCache(&Options{DefaultTTL: time.Hour})
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "short", []byte("value"), 10*time.Millisecond)
	cache.Set(ctx, "long", []byte("value"), 0)

	time.Sleep(30 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); err != ErrKeyNotFound {
		t.Errorf("expected expired key, got %v", err)
	}
	if _, err := cache.Get(ctx, "long"); err != nil {
		t.Errorf("expected key with default ttl, got %v", err)
	}
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	cache := NewMemoryCache(&Options{MaxEntries: 3})
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "a", []byte("1"), 0)
	cache.Set(ctx, "b", []byte("2"), 0)
	cache.Set(ctx, "c", []byte("3"), 0)

	// "a" становится самым свежим, вытесняется "b"
	cache.Get(ctx, "a")
	cache.Set(ctx, "d", []byte("4"), 0)

	if _, err := cache.Get(ctx, "b"); err != ErrKeyNotFound {
		t.Errorf("expected b to be evicted, got %v", err)
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, err := cache.Get(ctx, key); err != nil {
			t.Errorf("expected %s to survive, got %v", key, err)
		}
	}
}

func TestMemoryCache_DeleteByPattern(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "verdict:g1:p1", []byte("1"), 0)
	cache.Set(ctx, "verdict:g1:p2", []byte("2"), 0)
	cache.Set(ctx, "verdict:g2:p1", []byte("3"), 0)
	cache.Set(ctx, "other", []byte("4"), 0)

	deleted, err := cache.DeleteByPattern(ctx, "verdict:g1:*")
	if err != nil {
		t.Fatalf("DeleteByPattern() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	stats, _ := cache.Stats(ctx)
	if stats.TotalKeys != 2 {
		t.Errorf("expected 2 remaining keys, got %d", stats.TotalKeys)
	}
}

func TestMemoryCache_Stats(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "key", []byte("value"), 0)
	cache.Get(ctx, "key")
	cache.Get(ctx, "key")
	cache.Get(ctx, "missing")

	stats, err := cache.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("expected 2 hits and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
	if stats.Backend != BackendMemory {
		t.Errorf("expected backend memory, got %s", stats.Backend)
	}
	if stats.HitRate < 0.66 || stats.HitRate > 0.67 {
		t.Errorf("expected hit rate 2/3, got %f", stats.HitRate)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	cache := NewMemoryCache(nil)
	if err := cache.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := cache.Close(); err != nil {
		t.Errorf("second Close() should be a no-op, got %v", err)
	}

	ctx := context.Background()
	if _, err := cache.Get(ctx, "key"); err != ErrCacheClosed {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
	if err := cache.Set(ctx, "key", nil, 0); err != ErrCacheClosed {
		t.Errorf("expected ErrCacheClosed, got %v", err)
	}
}

// Close may finish between an operation's closed check and its lock.
func TestMemoryCache_ClosedAfterCheck(t *testing.T) {
	cache := NewMemoryCache(nil)
	defer cache.Close()

	// State left by Close without the flag seen by the caller.
	cache.mu.Lock()
	cache.items = nil
	cache.mu.Unlock()

	ctx := context.Background()
	if _, err := cache.Get(ctx, "key"); err != ErrCacheClosed {
		t.Errorf("Get: expected ErrCacheClosed, got %v", err)
	}
	if err := cache.Set(ctx, "key", []byte("v"), 0); err != ErrCacheClosed {
		t.Errorf("Set: expected ErrCacheClosed, got %v", err)
	}
	if err := cache.Delete(ctx, "key"); err != ErrCacheClosed {
		t.Errorf("Delete: expected ErrCacheClosed, got %v", err)
	}
	if _, err := cache.DeleteByPattern(ctx, "*"); err != ErrCacheClosed {
		t.Errorf("DeleteByPattern: expected ErrCacheClosed, got %v", err)
	}
	if _, err := cache.Stats(ctx); err != ErrCacheClosed {
		t.Errorf("Stats: expected ErrCacheClosed, got %v", err)
	}
}

func TestMemoryCache_CloseDuringWrites(t *testing.T) {
	for range 20 {
		cache := NewMemoryCache(nil)
		ctx := context.Background()

		var wg sync.WaitGroup
		for w := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 200 {
					key := fmt.Sprintf("verdict:%d:%d", w, i)
					if err := cache.Set(ctx, key, []byte("v"), 0); err != nil && err != ErrCacheClosed {
						t.Errorf("Set: %v", err)
						return
					}
					if _, err := cache.Get(ctx, key); err != nil && err != ErrKeyNotFound && err != ErrCacheClosed {
						t.Errorf("Get: %v", err)
						return
					}
					if _, err := cache.DeleteByPattern(ctx, "verdict:*"); err != nil && err != ErrCacheClosed {
						t.Errorf("DeleteByPattern: %v", err)
						return
					}
				}
			}()
		}

		if err := cache.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		wg.Wait()
	}
}

func TestMemoryCache_Cleanup(t *testing.T) {
	cache := NewMemoryCache(&Options{CleanupInterval: 10 * time.Millisecond})
	defer cache.Close()

	ctx := context.Background()
	cache.Set(ctx, "key", []byte("value"), 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)

	stats, _ := cache.Stats(ctx)
	if stats.TotalKeys != 0 {
		t.Errorf("expected expired entry to be cleaned up, got %d keys", stats.TotalKeys)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(&Options{MaxEntries: 50})
	defer cache.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (id*100+j)%70)
				cache.Set(ctx, key, []byte("v"), 0)
				cache.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	stats, _ := cache.Stats(ctx)
	if stats.TotalKeys > 50 {
		t.Errorf("expected at most 50 keys, got %d", stats.TotalKeys)
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern, key string
		want         bool
	}{
		{"*", "anything", true},
		{"exact", "exact", true},
		{"exact", "exactly", false},
		{"verdict:*", "verdict:abc", true},
		{"*:p1", "verdict:g:p1", true},
		{"verdict:*:p1", "verdict:g:p1", true},
		{"verdict:*:p1", "verdict:g:p2", false},
		{"ab*ba", "aba", false},
	}

	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.key); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.key, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) error = %v", err)
	}
	defer c.Close()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected *MemoryCache, got %T", c)
	}
}
