package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// VerdictCache хранит вердикты игры, сериализованные в JSON
type VerdictCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedVerdict кэшированный вердикт
type CachedVerdict struct {
	Outcome       string    `json:"outcome"`
	Rounds        int       `json:"rounds"`
	PhiInverse    int       `json:"phi_inverse"`
	Algorithm     string    `json:"algorithm"`
	Seed          uint64    `json:"seed"`
	CutA          []int     `json:"cut_a,omitempty"`
	CutB          []int     `json:"cut_b,omitempty"`
	MaxFlow       int       `json:"max_flow,omitempty"`
	TargetFlow    int       `json:"target_flow,omitempty"`
	MinCutSide    []int     `json:"min_cut_side,omitempty"`
	CrossingEdges int       `json:"crossing_edges,omitempty"`
	ComputedAt    time.Time `json:"computed_at"`
}

// NewVerdictCache создаёт кэш вердиктов
func NewVerdictCache(cache Cache, defaultTTL time.Duration) *VerdictCache {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &VerdictCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get получает вердикт; отсутствие ключа не является ошибкой
func (vc *VerdictCache) Get(ctx context.Context, key string) (*CachedVerdict, bool, error) {
	data, err := vc.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var v CachedVerdict
	if err := json.Unmarshal(data, &v); err != nil {
		// Повреждённая запись
		_ = vc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}
	return &v, true, nil
}

// Set сохраняет вердикт
func (vc *VerdictCache) Set(ctx context.Context, key string, v *CachedVerdict, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = vc.defaultTTL
	}
	v.ComputedAt = time.Now()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return vc.cache.Set(ctx, key, data, ttl)
}

// Invalidate удаляет все вердикты графа
func (vc *VerdictCache) Invalidate(ctx context.Context, graphHash string) (int64, error) {
	return vc.cache.DeleteByPattern(ctx, fmt.Sprintf("%s:%s:*", verdictPrefix, graphHash))
}

// InvalidateAll удаляет все вердикты
func (vc *VerdictCache) InvalidateAll(ctx context.Context) (int64, error) {
	return vc.cache.DeleteByPattern(ctx, verdictPrefix+":*")
}

// Close закрывает нижележащий кэш
func (vc *VerdictCache) Close() error {
	return vc.cache.Close()
}
