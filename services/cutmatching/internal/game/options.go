package game

import (
	"log/slog"
	"math/rand/v2"

	"cutmatching/services/cutmatching/internal/algorithms"
	"cutmatching/services/cutmatching/internal/graph"
)

const (
	DefaultPhiInverse = 2
	DefaultMinRounds  = 10
)

// Option configures a Game.
type Option func(*Game)

// WithPhiInverse sets the capacity of inner edges; the game certifies
// conductance of at least 1/phiInverse.
func WithPhiInverse(phiInverse int) Option {
	return func(g *Game) {
		g.phiInverse = phiInverse
	}
}

// WithRandomVectorCount bounds the random vector cache. Zero means no cache:
// every round draws a fresh vector and replays the whole history on it.
func WithRandomVectorCount(count int) Option {
	return func(g *Game) {
		g.vectorLimit = count
	}
}

// WithEagerVectors fills the whole cache before the first round.
func WithEagerVectors(eager bool) Option {
	return func(g *Game) {
		g.eagerVectors = eager
	}
}

// WithSolver selects the max-flow engine. Default: EdmondsKarp.
func WithSolver(s algorithms.Solver) Option {
	return func(g *Game) {
		g.solver = s
	}
}

// WithRand injects the random source. A Rand must not be shared between
// games that run concurrently.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.rng = r
		g.seed = 0
	}
}

// WithSeed seeds a private PCG source.
func WithSeed(seed uint64) Option {
	return func(g *Game) {
		g.rng = newRand(seed)
		g.seed = seed
	}
}

// WithReporter sets the progress sink.
func WithReporter(r Reporter) Option {
	return func(g *Game) {
		g.reporter = r
	}
}

// WithMinRounds sets the lower bound of the round budget.
func WithMinRounds(n int) Option {
	return func(g *Game) {
		g.minRounds = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		g.log = l
	}
}

// WithPool sets the pool that supplies per-round graph copies.
func WithPool(p *graph.GraphPool) Option {
	return func(g *Game) {
		g.pool = p
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
