package service

import (
	"context"
	"encoding/binary"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"cutmatching/pkg/apperror"
	"cutmatching/pkg/cache"
	"cutmatching/pkg/telemetry"
	"cutmatching/services/cutmatching/internal/converter"
	"cutmatching/services/cutmatching/internal/game"
	"cutmatching/services/cutmatching/internal/graph"
)

// graphHash identifies a graph by its node count and canonical edge list.
func graphHash(g *graph.Graph) string {
	edges := g.Edges()
	buf := make([]byte, 0, 8+24*len(edges))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(g.NodeCount()))
	for _, e := range edges {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(e.U))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(e.V))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(e.Weight))
	}
	return cache.ShortHash(buf)
}

// cacheKeys returns one key per trial, or nil when the run is not
// reproducible or no cache is configured.
func (c *Certifier) cacheKeys(g *graph.Graph) []string {
	if c.verdicts == nil || c.game.Seed == 0 {
		return nil
	}

	gh := graphHash(g)
	keys := make([]string, c.game.Trials)
	for i := range keys {
		ph := cache.ParamsHash(
			c.game.PhiInverse,
			c.game.RandomVectors,
			c.game.EagerVectors,
			c.solver.Name(),
			c.game.Seed+uint64(i),
			c.game.MinRounds,
		)
		keys[i] = cache.BuildVerdictKey(gh, ph)
	}
	return keys
}

// Forget drops the cached verdicts of g for every parameter set and
// returns how many entries were removed.
func (c *Certifier) Forget(ctx context.Context, g *graph.Graph) (int64, error) {
	if c.verdicts == nil {
		return 0, apperror.ErrCacheDisabled
	}
	if g == nil {
		return 0, apperror.ErrNilGraph
	}

	gh := graphHash(g)
	n, err := c.verdicts.Invalidate(ctx, gh)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeInternal, "invalidate verdicts")
	}
	c.log.Info("cached verdicts dropped", "graph", gh, "entries", n)
	return n, nil
}

// ForgetFile loads a CHACO graph and drops its cached verdicts.
func (c *Certifier) ForgetFile(ctx context.Context, path string) (int64, error) {
	if c.verdicts == nil {
		return 0, apperror.ErrCacheDisabled
	}
	g, err := converter.LoadFile(path)
	if err != nil {
		return 0, err
	}
	return c.Forget(ctx, g)
}

// ForgetAll drops every cached verdict.
func (c *Certifier) ForgetAll(ctx context.Context) (int64, error) {
	if c.verdicts == nil {
		return 0, apperror.ErrCacheDisabled
	}

	n, err := c.verdicts.InvalidateAll(ctx)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.CodeInternal, "invalidate verdicts")
	}
	c.log.Info("verdict cache cleared", "entries", n)
	return n, nil
}

// lookup returns cached verdicts only if every trial is cached.
func (c *Certifier) lookup(ctx context.Context, keys []string, log *slog.Logger) []*game.Verdict {
	if len(keys) == 0 {
		return nil
	}

	out := make([]*game.Verdict, 0, len(keys))
	for _, key := range keys {
		cv, found, err := c.verdicts.Get(ctx, key)
		if err != nil {
			log.Warn("verdict cache lookup failed", "key", key, "error", err)
			return nil
		}
		if !found {
			return nil
		}
		out = append(out, fromCached(cv))
	}

	telemetry.AddEvent(ctx, "cache_hit", attribute.Int("trials", len(out)))
	return out
}

func (c *Certifier) store(ctx context.Context, keys []string, verdicts []*game.Verdict, log *slog.Logger) {
	if len(keys) != len(verdicts) {
		return
	}
	for i, v := range verdicts {
		if err := c.verdicts.Set(ctx, keys[i], toCached(v), 0); err != nil {
			log.Warn("failed to cache verdict", "key", keys[i], "error", err)
		}
	}
}

func toCached(v *game.Verdict) *cache.CachedVerdict {
	return &cache.CachedVerdict{
		Outcome:       v.Outcome.String(),
		Rounds:        v.Rounds,
		PhiInverse:    v.PhiInverse,
		Algorithm:     v.Algorithm,
		Seed:          v.Seed,
		CutA:          v.Cut.A,
		CutB:          v.Cut.B,
		MaxFlow:       v.MaxFlow,
		TargetFlow:    v.TargetFlow,
		MinCutSide:    v.MinCutSide,
		CrossingEdges: v.CrossingEdges,
	}
}

func fromCached(cv *cache.CachedVerdict) *game.Verdict {
	v := &game.Verdict{
		Outcome:       game.Expander,
		Rounds:        cv.Rounds,
		PhiInverse:    cv.PhiInverse,
		Algorithm:     cv.Algorithm,
		Seed:          cv.Seed,
		Cut:           graph.Cut{A: cv.CutA, B: cv.CutB},
		MaxFlow:       cv.MaxFlow,
		TargetFlow:    cv.TargetFlow,
		MinCutSide:    cv.MinCutSide,
		CrossingEdges: cv.CrossingEdges,
	}
	if cv.Outcome == game.SparseCut.String() {
		v.Outcome = game.SparseCut
	}
	return v
}
