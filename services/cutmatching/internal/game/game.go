// Package game implements the cut-matching game: a randomized, round-based
// protocol that either certifies that a subdivided graph is an expander of
// conductance at least 1/phiInverse or exhibits a sparse cut.
//
// Each round projects a random unit vector through the averaging operator of
// all previous matchings, splits the active nodes at the median of the
// projection and asks a max-flow engine to route the lower half to the upper
// half. A round whose maximum flow falls short of half the active nodes ends
// the game with a SparseCut verdict; otherwise its matching is appended to
// the history. A game that completes its whole round budget ends with an
// Expander verdict.
//
// A Game is sequential and single-use. Independent games may run
// concurrently, see RunTrials.
package game

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"cutmatching/pkg/apperror"
	"cutmatching/pkg/logger"
	"cutmatching/pkg/telemetry"
	"cutmatching/services/cutmatching/internal/algorithms"
	"cutmatching/services/cutmatching/internal/graph"
)

// Game holds the state of one cut-matching game.
type Game struct {
	graph *graph.Graph
	first int

	phiInverse   int
	vectorLimit  int
	eagerVectors bool
	minRounds    int
	solver       algorithms.Solver
	rng          *rand.Rand
	seed         uint64
	reporter     Reporter
	log          *slog.Logger
	pool         *graph.GraphPool

	history []graph.Matching
	cache   [][]float64
	played  bool
}

// New creates a game over a private copy of g whose active range is set to
// [first, past). g is not modified.
func New(g *graph.Graph, first, past int, opts ...Option) (*Game, error) {
	if g == nil {
		return nil, apperror.ErrNilGraph
	}

	own := g.Clone()
	if err := own.SetActiveRange(first, past); err != nil {
		return nil, err
	}

	game := &Game{
		graph:      own,
		first:      first,
		phiInverse: DefaultPhiInverse,
		minRounds:  DefaultMinRounds,
		solver:     algorithms.EdmondsKarp{},
		reporter:   NopReporter{},
		pool:       graph.GetPool(),
	}
	for _, opt := range opts {
		opt(game)
	}

	if game.rng == nil {
		game.seed = rand.Uint64()
		game.rng = newRand(game.seed)
	}
	if game.log == nil {
		game.log = logger.Get()
	}

	if err := game.validate(); err != nil {
		return nil, err
	}
	return game, nil
}

func (g *Game) validate() error {
	switch {
	case g.phiInverse < 1:
		return apperror.Newf(apperror.CodeInvalidCapacity, "phiInverse must be >= 1, got %d", g.phiInverse).
			WithField("phi_inverse")
	case g.vectorLimit < 0:
		return apperror.Newf(apperror.CodeInvalidArgument, "random vector count must be >= 0, got %d", g.vectorLimit).
			WithField("random_vectors")
	case g.eagerVectors && g.vectorLimit == 0:
		return apperror.NewWithField(apperror.CodeInvalidArgument,
			"eager vectors require a bounded random vector count", "eager_vectors")
	case g.minRounds < 1:
		return apperror.Newf(apperror.CodeInvalidArgument, "min rounds must be >= 1, got %d", g.minRounds).
			WithField("min_rounds")
	case g.solver == nil:
		return apperror.NewWithField(apperror.CodeInvalidAlgorithm, "solver is nil", "solver")
	case g.reporter == nil:
		return apperror.NewWithField(apperror.CodeNilInput, "reporter is nil", "reporter")
	case g.pool == nil:
		return apperror.NewWithField(apperror.CodeNilInput, "pool is nil", "pool")
	}
	return nil
}

// Rounds returns the number of completed rounds.
func (g *Game) Rounds() int {
	return len(g.history)
}

// History returns the matchings of the completed rounds in order.
func (g *Game) History() []graph.Matching {
	return slices.Clone(g.history)
}

// Seed returns the seed of the random source, or 0 when it was injected.
func (g *Game) Seed() uint64 {
	return g.seed
}

// RoundBudget returns R = max(minRounds, ⌈(log2 N)²⌉), N being the node
// count of the game graph.
func (g *Game) RoundBudget() int {
	n := g.graph.NodeCount()
	if n < 2 {
		return g.minRounds
	}
	l := math.Log2(float64(n))
	return max(g.minRounds, int(math.Ceil(l*l)))
}

// =============================================================================
// Run
// =============================================================================

// Run plays the game to its verdict. Errors are reserved for invalid state,
// cancellation and broken invariants; a sparse cut is reported through the
// verdict.
func (g *Game) Run(ctx context.Context) (verdict *Verdict, err error) {
	if g.played {
		return nil, apperror.New(apperror.CodeInvalidArgument, "game has already been played")
	}
	g.played = true

	budget := g.RoundBudget()
	ctx, span := telemetry.StartSpan(ctx, "Game.Run",
		telemetry.WithAttributes(telemetry.GraphAttributes(
			g.graph.NodeCount(), g.graph.EdgeCount(), g.graph.ActiveCount())...),
		telemetry.WithAttributes(
			attribute.Int(telemetry.AttrPhiInverse, g.phiInverse),
			attribute.Int(telemetry.AttrRounds, budget),
			attribute.String(telemetry.AttrAlgorithm, g.solver.Name()),
			attribute.Int64(telemetry.AttrSeed, int64(g.seed)),
		),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			verdict, err = nil, apperror.Recover(r)
		}
		if err != nil {
			telemetry.SetError(ctx, err)
			g.reporter.Failed(err)
		}
	}()

	start := time.Now()
	g.reporter.Started(StartReport{
		Nodes:       g.graph.NodeCount(),
		Edges:       g.graph.EdgeCount(),
		ActiveNodes: g.graph.ActiveCount(),
		RoundBudget: budget,
		PhiInverse:  g.phiInverse,
		Algorithm:   g.solver.Name(),
	})

	if g.eagerVectors {
		g.fillCache()
	}

	for len(g.history) < budget {
		shortfall, err := g.playRound(ctx)
		if err != nil {
			return nil, err
		}
		if shortfall != nil {
			shortfall.Duration = time.Since(start)
			g.finish(ctx, shortfall)
			return shortfall, nil
		}
	}

	verdict = &Verdict{
		Outcome:    Expander,
		Rounds:     budget,
		PhiInverse: g.phiInverse,
		Algorithm:  g.solver.Name(),
		Seed:       g.seed,
		Duration:   time.Since(start),
	}
	g.finish(ctx, verdict)
	return verdict, nil
}

func (g *Game) finish(ctx context.Context, v *Verdict) {
	telemetry.SetAttributes(ctx, telemetry.VerdictAttributes(v.Outcome.String(), v.Rounds, v.CrossingEdges)...)
	g.log.Debug("game finished", "outcome", v.Outcome.String(), "rounds", v.Rounds)
	g.reporter.Finished(*v)
}

// playRound runs cut, matching and bump for the next round. It returns a
// non-nil verdict when the round falls short of its target flow.
func (g *Game) playRound(ctx context.Context) (*Verdict, error) {
	round := len(g.history) + 1
	ctx, span := telemetry.StartSpan(ctx, "Game.Round",
		telemetry.WithAttributes(attribute.Int(telemetry.AttrRound, round)))
	defer span.End()

	start := time.Now()
	cut := g.generateCut()
	res, err := g.generateMatching(ctx, cut)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	telemetry.SetAttributes(ctx, telemetry.RoundAttributes(round, g.solver.Name(), res.maxFlow, res.targetFlow)...)
	g.reporter.RoundCompleted(RoundReport{
		Round:      round,
		Algorithm:  g.solver.Name(),
		MaxFlow:    res.maxFlow,
		TargetFlow: res.targetFlow,
		Cut:        cut,
		Matched:    len(res.matching),
		Duration:   time.Since(start),
	})

	if res.shortfall {
		return &Verdict{
			Outcome:       SparseCut,
			Rounds:        round,
			PhiInverse:    g.phiInverse,
			Algorithm:     g.solver.Name(),
			Seed:          g.seed,
			Cut:           cut,
			MaxFlow:       res.maxFlow,
			TargetFlow:    res.targetFlow,
			MinCutSide:    res.minCutSide,
			CrossingEdges: g.graph.CrossingEdges(res.minCutSide),
		}, nil
	}

	g.bumpRound(res.matching)
	return nil, nil
}

// =============================================================================
// Matching
// =============================================================================

type roundResult struct {
	maxFlow    int
	targetFlow int
	shortfall  bool
	matching   graph.Matching
	minCutSide []int
}

// generateMatching routes A to B on a disposable copy of the game graph.
// A flow below the target yields the source side of a minimum cut instead of
// a matching.
func (g *Game) generateMatching(ctx context.Context, cut graph.Cut) (*roundResult, error) {
	work := g.pool.AcquireClone(g.graph)
	defer g.pool.Release(work)

	source, sink, err := work.AddSourceSink(cut)
	if err != nil {
		return nil, err
	}

	target := g.graph.ActiveCount() / 2
	res, err := g.solver.Solve(ctx, algorithms.Problem{
		Graph:      work,
		Source:     source,
		Sink:       sink,
		TargetFlow: target,
		PhiInverse: g.phiInverse,
		Pool:       g.pool,
	})
	if err != nil {
		return nil, err
	}
	defer res.Network.Release()

	rr := &roundResult{maxFlow: res.MaxFlow, targetFlow: target}
	g.log.Debug("round flow", "round", len(g.history)+1, "max_flow", res.MaxFlow, "target_flow", target)

	if res.MaxFlow < target {
		rr.shortfall = true
		for _, u := range algorithms.SourceSide(res.Network) {
			if u < g.graph.NodeCount() {
				rr.minCutSide = append(rr.minCutSide, u)
			}
		}
		return rr, nil
	}

	first, past := g.graph.ActiveRange()
	rr.matching = algorithms.MatchingFor(res)
	if err := rr.matching.Validate(first, past); err != nil {
		panic(apperror.Invariant("solver %s produced an invalid matching: %v", g.solver.Name(), err))
	}
	return rr, nil
}

// bumpRound appends m to the history and applies it to every cached vector,
// keeping cached projections consistent with the full history.
func (g *Game) bumpRound(m graph.Matching) {
	g.history = append(g.history, m)
	for _, v := range g.cache {
		applyMatching(v, m, g.first)
	}
}
