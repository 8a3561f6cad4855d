package algorithms

import (
	"context"
	"math"

	"cutmatching/services/cutmatching/internal/graph"
)

// =============================================================================
// Push-Relabel Algorithm (FIFO, current arc)
// =============================================================================
//
// The source starts at height n with unbounded excess and saturates all its
// entries. Active nodes are processed in FIFO order; a node is discharged
// while it has excess and its height is below n, pushing along the current
// arc to any strictly lower neighbour and relabelling when the arc list is
// exhausted. Excess that cannot reach the sink stays where it is: the result
// is a maximum preflow, whose value at the sink is the maximum flow.
//
// No matching is recorded; MatchingFor decomposes the residual flow.
//
// Time Complexity: O(V³)
// Space Complexity: O(V)
// =============================================================================

// PushRelabel is the FIFO push-relabel solver.
type PushRelabel struct{}

// Name implements Solver.
func (PushRelabel) Name() string { return AlgorithmPushRelabel }

// Solve implements Solver.
func (PushRelabel) Solve(ctx context.Context, p Problem) (*Result, error) {
	net, err := NewNetwork(p)
	if err != nil {
		return nil, err
	}

	n := net.Residual.NodeCount()
	height := net.pool.AcquireInts(n, 0)
	excess := net.pool.AcquireInts(n, 0)
	seen := net.pool.AcquireInts(n, 0)
	defer net.pool.ReleaseInts(height)
	defer net.pool.ReleaseInts(excess)
	defer net.pool.ReleaseInts(seen)

	s := &preflow{
		g:      net.Residual,
		r:      net.Residual.Residual(),
		n:      n,
		height: *height,
		excess: *excess,
		seen:   *seen,
		queue:  graph.NewQueue(n),
	}

	s.height[net.Source] = n
	s.excess[net.Source] = math.MaxInt
	for i := 0; i < s.g.Degree(net.Source); i++ {
		s.push(net.Source, i)
	}

	iterations := 0
	for !s.queue.Empty() {
		if err := checkContext(ctx, iterations); err != nil {
			net.Release()
			return nil, err
		}

		u := s.queue.Pop()
		if u == net.Source || u == net.Sink {
			continue
		}
		s.discharge(u)
		iterations++
	}

	return &Result{
		MaxFlow:    net.Flow(),
		Network:    net,
		Iterations: iterations,
	}, nil
}

// preflow is the per-solve push-relabel state.
type preflow struct {
	g      *graph.Graph
	r      graph.ResidualAccess
	n      int
	height []int
	excess []int
	seen   []int // current arc
	queue  *graph.Queue
}

// push moves min(excess, residual) along entry i of u. The target joins the
// queue when its excess turns positive.
func (s *preflow) push(u, i int) {
	e := s.g.EdgeAt(u, i)
	d := min(s.excess[u], e.Weight)
	if d <= 0 {
		return
	}

	s.r.Push(u, i, d)
	s.excess[u] -= d
	if s.excess[e.To] == 0 {
		s.queue.Push(e.To)
	}
	s.excess[e.To] += d
}

// relabel lifts u to one above its lowest neighbour over a positive entry.
// It reports false when u has no such neighbour.
func (s *preflow) relabel(u int) bool {
	lowest := math.MaxInt
	for i := 0; i < s.g.Degree(u); i++ {
		e := s.g.EdgeAt(u, i)
		if e.Weight > 0 && s.height[e.To] < lowest {
			lowest = s.height[e.To]
		}
	}
	if lowest == math.MaxInt {
		return false
	}
	s.height[u] = lowest + 1
	return true
}

func (s *preflow) discharge(u int) {
	for s.excess[u] > 0 && s.height[u] < s.n {
		if s.seen[u] < s.g.Degree(u) {
			e := s.g.EdgeAt(u, s.seen[u])
			if e.Weight > 0 && s.height[u] > s.height[e.To] {
				s.push(u, s.seen[u])
			} else {
				s.seen[u]++
			}
			continue
		}

		if !s.relabel(u) {
			break
		}
		s.seen[u] = 0
	}
}
