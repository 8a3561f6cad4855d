package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache is an in-process cache with LRU eviction and per-entry TTL.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]*list.Element
	lru        *list.List // front = most recently used
	defaultTTL time.Duration
	maxEntries int

	hits   atomic.Int64
	misses atomic.Int64

	closed atomic.Bool
	stopCh chan struct{}
	wg     sync.WaitGroup
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewMemoryCache создаёт новый in-memory кэш
func NewMemoryCache(opts *Options) *MemoryCache {
	if opts == nil {
		opts = DefaultOptions()
	}

	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	cleanupInterval := opts.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	c := &MemoryCache{
		items:      make(map[string]*list.Element),
		lru:        list.New(),
		defaultTTL: opts.DefaultTTL,
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
	}

	// Фоновая очистка просроченных записей
	c.wg.Add(1)
	go c.cleanupLoop(cleanupInterval)

	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		return nil, ErrCacheClosed
	}

	el, ok := c.items[key]
	if !ok || el.Value.(*memoryEntry).expired(time.Now()) {
		c.misses.Add(1)
		return nil, ErrKeyNotFound
	}

	c.hits.Add(1)
	c.lru.MoveToFront(el)

	value := el.Value.(*memoryEntry).value
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	entry := &memoryEntry{key: key, value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		return ErrCacheClosed
	}

	if el, ok := c.items[key]; ok {
		el.Value = entry
		c.lru.MoveToFront(el)
		return nil
	}

	for c.lru.Len() >= c.maxEntries {
		c.removeElement(c.lru.Back())
	}
	c.items[key] = c.lru.PushFront(entry)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		return ErrCacheClosed
	}

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
	return nil
}

func (c *MemoryCache) DeleteByPattern(_ context.Context, pattern string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		return 0, ErrCacheClosed
	}

	var deleted int64
	for key, el := range c.items {
		if matchPattern(pattern, key) {
			c.removeElement(el)
			deleted++
		}
	}
	return deleted, nil
}

func (c *MemoryCache) Stats(_ context.Context) (*Stats, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	c.mu.Lock()
	closed := c.items == nil
	total := int64(c.lru.Len())
	c.mu.Unlock()
	if closed {
		return nil, ErrCacheClosed
	}

	stats := &Stats{
		TotalKeys: total,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Backend:   BackendMemory,
	}
	if lookups := stats.Hits + stats.Misses; lookups > 0 {
		stats.HitRate = float64(stats.Hits) / float64(lookups)
	}
	return stats, nil
}

// Close stops the cleanup loop and drops all entries. Operations racing
// with Close either complete first or return ErrCacheClosed.
func (c *MemoryCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	close(c.stopCh)
	c.wg.Wait()

	c.mu.Lock()
	c.items = nil
	c.lru.Init()
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *MemoryCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, el := range c.items {
		if el.Value.(*memoryEntry).expired(now) {
			c.removeElement(el)
		}
	}
}

// removeElement must be called with mu held.
func (c *MemoryCache) removeElement(el *list.Element) {
	c.lru.Remove(el)
	delete(c.items, el.Value.(*memoryEntry).key)
}

// matchPattern supports "*", exact keys and a single '*' wildcard
// ("prefix*", "*suffix", "prefix*suffix").
func matchPattern(pattern, key string) bool {
	prefix, suffix, found := strings.Cut(pattern, "*")
	if !found {
		return pattern == key
	}
	return len(key) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix)
}
