// Package algorithms provides the max-flow engines used by the cut-matching
// game: Edmonds-Karp and FIFO push-relabel over the mirrored residual graph,
// plus decomposition of a computed flow into a matching.
//
// # Networks
//
// A solve starts from a Problem: a graph that already carries an injected
// source and sink. NewNetwork takes two private snapshots of it, Original and
// Residual, and scales capacities: entries touching source or sink get 1,
// every other entry gets PhiInverse. Flow on an entry is visible as the
// difference between its residual and original weight.
//
// # Thread Safety
//
// Solvers are stateless values and may be shared between goroutines. A
// Network is owned by the goroutine that created it.
//
// # Context Support
//
// Both solvers check the context every checkInterval iterations and return
// a CodeTimeout error wrapping ctx.Err() when it is done.
package algorithms

import (
	"context"

	"cutmatching/pkg/apperror"
	"cutmatching/services/cutmatching/internal/graph"
)

const checkInterval = 100

// Registered algorithm names.
const (
	AlgorithmEdmondsKarp = "edmonds-karp"
	AlgorithmPushRelabel = "push-relabel"
)

// =============================================================================
// Problem and Network
// =============================================================================

// Problem is the input of a single max-flow computation.
type Problem struct {
	// Graph must already contain Source and Sink. It is not modified.
	Graph *graph.Graph

	Source int
	Sink   int

	// TargetFlow is the flow the caller needs; solvers still compute the
	// maximum, which never exceeds it for game networks.
	TargetFlow int

	// PhiInverse is the capacity of every entry not touching source or sink.
	PhiInverse int

	// Pool supplies the snapshots. Nil means the global pool.
	Pool *graph.GraphPool
}

// Network holds the two exclusively owned snapshots of a solve.
type Network struct {
	Original   *graph.Graph
	Residual   *graph.Graph
	Source     int
	Sink       int
	TargetFlow int
	PhiInverse int

	pool *graph.GraphPool
}

// NewNetwork validates p and builds a capacity-scaled network from it.
func NewNetwork(p Problem) (*Network, error) {
	if err := validateProblem(p); err != nil {
		return nil, err
	}

	pool := p.Pool
	if pool == nil {
		pool = graph.GetPool()
	}

	net := &Network{
		Original:   pool.AcquireClone(p.Graph),
		Residual:   pool.AcquireClone(p.Graph),
		Source:     p.Source,
		Sink:       p.Sink,
		TargetFlow: p.TargetFlow,
		PhiInverse: p.PhiInverse,
		pool:       pool,
	}
	SetCapacities(net, p.PhiInverse)
	return net, nil
}

// Release returns both snapshots to their pool. The network must not be used
// afterwards.
func (n *Network) Release() {
	if n == nil || n.pool == nil {
		return
	}
	n.pool.Release(n.Original)
	n.pool.Release(n.Residual)
	n.Original, n.Residual, n.pool = nil, nil, nil
}

// Flow returns the net flow into the sink: the sum over sink entries of
// residual minus original weight.
func (n *Network) Flow() int {
	r, o := n.Residual.Residual(), n.Original.Residual()
	flow := 0
	for i := 0; i < n.Residual.Degree(n.Sink); i++ {
		flow += r.Weight(n.Sink, i) - o.Weight(n.Sink, i)
	}
	return flow
}

// SourceSide returns the source side of a minimum cut: every node that can
// no longer reach the sink in the residual graph, sorted ascending. It works
// for the maximum preflow left by PushRelabel as well as for a full flow.
// Call it before DecomposeFlow, which consumes the flow.
func SourceSide(n *Network) []int {
	reaching := make([]bool, n.Residual.NodeCount())
	for _, u := range graph.ReachingTo(n.Residual, n.Sink) {
		reaching[u] = true
	}

	var side []int
	for u, ok := range reaching {
		if !ok {
			side = append(side, u)
		}
	}
	return side
}

// SetCapacities writes capacities into both snapshots: 1 on entries touching
// source or sink, phiInverse on every other entry.
func SetCapacities(n *Network, phiInverse int) {
	for _, g := range []*graph.Graph{n.Original, n.Residual} {
		r := g.Residual()
		for u := 0; u < g.NodeCount(); u++ {
			for i := 0; i < g.Degree(u); i++ {
				v := g.EdgeAt(u, i).To
				if u == n.Source || u == n.Sink || v == n.Source || v == n.Sink {
					r.SetWeight(u, i, 1)
				} else {
					r.SetWeight(u, i, phiInverse)
				}
			}
		}
	}
	n.PhiInverse = phiInverse
}

func validateProblem(p Problem) error {
	if p.Graph == nil {
		return apperror.ErrNilGraph
	}
	n := p.Graph.NodeCount()
	if p.Source < 0 || p.Source >= n {
		return apperror.ErrInvalidSource
	}
	if p.Sink < 0 || p.Sink >= n {
		return apperror.ErrInvalidSink
	}
	if p.Source == p.Sink {
		return apperror.ErrSourceEqualsSink
	}
	if p.PhiInverse < 1 {
		return apperror.Newf(apperror.CodeInvalidCapacity, "phiInverse must be >= 1, got %d", p.PhiInverse)
	}
	if p.TargetFlow < 0 {
		return apperror.Newf(apperror.CodeInvalidArgument, "target flow must be non-negative, got %d", p.TargetFlow)
	}
	return nil
}

// checkContext reports cancellation every checkInterval iterations.
func checkContext(ctx context.Context, iterations int) error {
	if iterations%checkInterval != 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return apperror.Wrap(ctx.Err(), apperror.CodeTimeout, "max-flow computation canceled")
	default:
		return nil
	}
}

// =============================================================================
// Solver contract
// =============================================================================

// Result is the outcome of a Solve call.
type Result struct {
	// MaxFlow is the value of the maximum flow.
	MaxFlow int

	// Network holds the residual state after the solve.
	Network *Network

	// Matching is the matching recorded while solving, or nil when the
	// solver does not produce one (see MatchingFor).
	Matching graph.Matching

	// Iterations counts augmenting paths or discharges.
	Iterations int
}

// Solver computes a maximum flow on a Problem.
type Solver interface {
	Name() string
	Solve(ctx context.Context, p Problem) (*Result, error)
}

// MatchingFor returns the solver's own matching when it recorded one and
// otherwise decomposes the residual flow.
func MatchingFor(res *Result) graph.Matching {
	if res.Matching != nil {
		return res.Matching
	}
	return DecomposeFlow(res.Network)
}

// NewSolver returns the solver registered under name.
func NewSolver(name string) (Solver, error) {
	switch name {
	case AlgorithmEdmondsKarp, "":
		return EdmondsKarp{}, nil
	case AlgorithmPushRelabel:
		return PushRelabel{}, nil
	default:
		return nil, apperror.Newf(apperror.CodeInvalidAlgorithm, "unknown max-flow algorithm %q", name).
			WithField("solver")
	}
}

// Algorithms lists the registered algorithm names.
func Algorithms() []string {
	return []string{AlgorithmEdmondsKarp, AlgorithmPushRelabel}
}
