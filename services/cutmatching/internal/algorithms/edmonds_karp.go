package algorithms

import (
	"context"
	"math"

	"cutmatching/pkg/apperror"
	"cutmatching/services/cutmatching/internal/graph"
)

// =============================================================================
// Edmonds-Karp Algorithm
// =============================================================================
//
// Ford-Fulkerson with BFS augmenting paths. Every augmenting path in a game
// network starts with a source entry and ends with a sink entry of unit
// capacity, so each path carries exactly one unit and pairs the node after
// the source with the node before the sink. The solver records that pair per
// path and returns the matching directly.
//
// Time Complexity: O(V × E²)
// Space Complexity: O(V)
// =============================================================================

// EdmondsKarp is the augmenting-path solver.
type EdmondsKarp struct{}

// Name implements Solver.
func (EdmondsKarp) Name() string { return AlgorithmEdmondsKarp }

// Solve implements Solver.
func (EdmondsKarp) Solve(ctx context.Context, p Problem) (*Result, error) {
	net, err := NewNetwork(p)
	if err != nil {
		return nil, err
	}

	n := net.Residual.NodeCount()
	parentNode := net.pool.AcquireInts(n, -1)
	parentEdge := net.pool.AcquireInts(n, -1)
	bottleneck := net.pool.AcquireInts(n, 0)
	defer net.pool.ReleaseInts(parentNode)
	defer net.pool.ReleaseInts(parentEdge)
	defer net.pool.ReleaseInts(bottleneck)

	search := &augmentingSearch{
		g:          net.Residual,
		source:     net.Source,
		sink:       net.Sink,
		parentNode: *parentNode,
		parentEdge: *parentEdge,
		bottleneck: *bottleneck,
		queue:      graph.NewQueue(n),
	}

	flow, iterations := 0, 0
	matching := graph.Matching{}
	for {
		if err := checkContext(ctx, iterations); err != nil {
			net.Release()
			return nil, err
		}

		b := search.bfs()
		if b == 0 {
			break
		}
		matching = append(matching, search.augment(b))
		flow += b
		iterations++
	}

	return &Result{
		MaxFlow:    flow,
		Network:    net,
		Matching:   matching,
		Iterations: iterations,
	}, nil
}

// augmentingSearch holds the per-solve BFS state. parentNode[v] is the node
// v was discovered from and parentEdge[v] the index of the entry used there.
type augmentingSearch struct {
	g          *graph.Graph
	source     int
	sink       int
	parentNode []int
	parentEdge []int
	bottleneck []int
	queue      *graph.Queue
}

// bfs finds a shortest augmenting path and returns its bottleneck, or 0 when
// the sink is unreachable.
func (s *augmentingSearch) bfs() int {
	for i := range s.parentNode {
		s.parentNode[i] = -1
		s.parentEdge[i] = -1
	}
	s.queue.Reset()

	s.parentNode[s.source] = s.source
	s.bottleneck[s.source] = math.MaxInt
	s.queue.Push(s.source)

	for !s.queue.Empty() {
		u := s.queue.Pop()
		for i := 0; i < s.g.Degree(u); i++ {
			e := s.g.EdgeAt(u, i)
			if e.Weight <= 0 || s.parentNode[e.To] >= 0 {
				continue
			}
			s.parentNode[e.To] = u
			s.parentEdge[e.To] = i
			s.bottleneck[e.To] = min(s.bottleneck[u], e.Weight)
			if e.To == s.sink {
				return s.bottleneck[e.To]
			}
			s.queue.Push(e.To)
		}
	}
	return 0
}

// augment pushes b units from the sink back to the source along the parent
// pointers and returns the (sink-adjacent, source-adjacent) pair of the path.
func (s *augmentingSearch) augment(b int) graph.Pair {
	r := s.g.Residual()
	sinkConnect := s.parentNode[s.sink]
	sourceConnect := -1

	for cur := s.sink; cur != s.source; {
		prev := s.parentNode[cur]
		if prev < 0 {
			panic(apperror.Invariant("augmenting path has no parent for node %d", cur))
		}
		r.Push(prev, s.parentEdge[cur], b)
		if prev == s.source {
			sourceConnect = cur
		}
		cur = prev
	}

	return graph.Pair{U: sinkConnect, V: sourceConnect}
}
