// Package service wires graph loading, the game, caching and observability
// into a single certification run.
package service

import (
	"context"
	"encoding/binary"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cutmatching/pkg/apperror"
	"cutmatching/pkg/cache"
	"cutmatching/pkg/config"
	"cutmatching/pkg/logger"
	"cutmatching/pkg/metrics"
	"cutmatching/pkg/telemetry"
	"cutmatching/services/cutmatching/internal/algorithms"
	"cutmatching/services/cutmatching/internal/converter"
	"cutmatching/services/cutmatching/internal/game"
	"cutmatching/services/cutmatching/internal/graph"
)

// Certifier runs the cut-matching game on input graphs with the parameters
// of a loaded configuration.
type Certifier struct {
	game     config.GameConfig
	solver   algorithms.Solver
	metrics  *metrics.Metrics
	verdicts *cache.VerdictCache
	log      *slog.Logger
}

// Option configures a Certifier.
type Option func(*Certifier)

// WithMetrics records game metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Certifier) {
		c.metrics = m
	}
}

// WithVerdictCache reuses verdicts of seeded runs.
func WithVerdictCache(vc *cache.VerdictCache) Option {
	return func(c *Certifier) {
		c.verdicts = vc
	}
}

// WithLogger sets the base logger; each run derives a child with its run id.
func WithLogger(l *slog.Logger) Option {
	return func(c *Certifier) {
		c.log = l
	}
}

// NewCertifier создаёт сервис по параметрам игры
func NewCertifier(cfg config.GameConfig, opts ...Option) (*Certifier, error) {
	solver, err := algorithms.NewSolver(cfg.Solver)
	if err != nil {
		return nil, err
	}
	if cfg.Trials < 1 {
		cfg.Trials = 1
	}

	c := &Certifier{
		game:   cfg,
		solver: solver,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get()
	}
	return c, nil
}

// Report is the outcome of one certification run.
type Report struct {
	RunID string

	// Size of the input graph and of the subdivided game graph.
	InputNodes int
	InputEdges int
	GameNodes  int

	// Verdicts holds one verdict per trial, in trial order.
	Verdicts []*game.Verdict

	// Cached is set when every verdict came from the verdict cache.
	Cached   bool
	Duration time.Duration
}

// Verdict returns the first sparse cut among the trials, or the first
// verdict when every trial certified expansion.
func (r *Report) Verdict() *game.Verdict {
	for _, v := range r.Verdicts {
		if !v.IsExpander() {
			return v
		}
	}
	if len(r.Verdicts) == 0 {
		return nil
	}
	return r.Verdicts[0]
}

// IsExpander reports whether no trial found a sparse cut.
func (r *Report) IsExpander() bool {
	v := r.Verdict()
	return v != nil && v.IsExpander()
}

// CertifyFile loads a CHACO graph and certifies it.
func (c *Certifier) CertifyFile(ctx context.Context, path string) (*Report, error) {
	ctx, span := telemetry.StartSpan(ctx, "Certifier.CertifyFile",
		trace.WithAttributes(attribute.String("path", path)),
	)
	defer span.End()

	g, err := converter.LoadFile(path)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}
	return c.Certify(ctx, g)
}

// Certify subdivides a copy of g and plays the game on the subdivision
// nodes. g is not modified.
func (c *Certifier) Certify(ctx context.Context, g *graph.Graph) (*Report, error) {
	if g == nil {
		return nil, apperror.ErrNilGraph
	}

	report := &Report{
		RunID:      uuid.NewString(),
		InputNodes: g.NodeCount(),
		InputEdges: g.EdgeCount(),
	}
	log := c.log.With("run_id", report.RunID)

	ctx, span := telemetry.StartSpan(ctx, "Certifier.Certify",
		trace.WithAttributes(
			attribute.String("run_id", report.RunID),
			attribute.Int("trials", c.game.Trials),
		),
	)
	defer span.End()

	if c.metrics != nil {
		c.metrics.RecordGraphSize("input", report.InputNodes, report.InputEdges)
	}

	sub := g.Clone()
	sub.Subdivide()
	first, past := sub.ActiveRange()
	report.GameNodes = sub.NodeCount()

	log.Info("certification started",
		"input_nodes", report.InputNodes,
		"input_edges", report.InputEdges,
		"game_nodes", report.GameNodes,
		"active_nodes", past-first,
		"solver", c.solver.Name(),
		"trials", c.game.Trials,
	)

	start := time.Now()
	if c.metrics != nil {
		timer := metrics.NewTimer(c.metrics.CertifyDuration, c.solver.Name())
		defer timer.ObserveDuration()
	}

	keys := c.cacheKeys(g)
	if cached := c.lookup(ctx, keys, log); cached != nil {
		report.Verdicts = cached
		report.Cached = true
		report.Duration = time.Since(start)
		span.SetAttributes(attribute.Bool("cache_hit", true))
		log.Info("verdicts served from cache", "trials", len(cached))
		return report, nil
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	verdicts, err := c.play(ctx, sub, first, past, log)
	if err != nil {
		telemetry.SetError(ctx, err)
		log.Error("certification failed", "error", err)
		return nil, err
	}
	report.Verdicts = verdicts
	report.Duration = time.Since(start)

	c.store(ctx, keys, verdicts, log)

	final := report.Verdict()
	telemetry.SetAttributes(ctx, telemetry.VerdictAttributes(final.Outcome.String(), final.Rounds, final.CrossingEdges)...)
	log.Info("certification finished",
		"outcome", final.Outcome.String(),
		"rounds", final.Rounds,
		"duration", report.Duration,
	)
	return report, nil
}

func (c *Certifier) play(ctx context.Context, sub *graph.Graph, first, past int, log *slog.Logger) ([]*game.Verdict, error) {
	reporters := game.MultiReporter{game.NewLogReporter(log)}
	if c.metrics != nil {
		reporters = append(reporters, game.NewMetricsReporter(c.metrics))
	}

	opts := []game.Option{
		game.WithPhiInverse(c.game.PhiInverse),
		game.WithRandomVectorCount(c.game.RandomVectors),
		game.WithEagerVectors(c.game.EagerVectors),
		game.WithSolver(c.solver),
		game.WithMinRounds(c.game.MinRounds),
		game.WithReporter(reporters),
		game.WithLogger(log),
	}

	seed := c.game.Seed
	if seed == 0 && c.game.Trials > 1 {
		// Базовый seed нужен, чтобы испытания различались и были воспроизводимы
		seed = randomSeed()
	}

	if c.game.Trials == 1 {
		if seed != 0 {
			opts = append(opts, game.WithSeed(seed))
		}
		gm, err := game.New(sub, first, past, opts...)
		if err != nil {
			return nil, err
		}
		v, err := gm.Run(ctx)
		if err != nil {
			return nil, err
		}
		return []*game.Verdict{v}, nil
	}

	return game.RunTrials(ctx, sub, first, past, c.game.Trials, seed, opts...)
}

func randomSeed() uint64 {
	id := uuid.New()
	if s := binary.LittleEndian.Uint64(id[:8]); s != 0 {
		return s
	}
	return 1
}
