package algorithms

import (
	"cutmatching/pkg/apperror"
	"cutmatching/services/cutmatching/internal/graph"
)

// DecomposeFlow turns the flow held by a network into a matching. It
// repeatedly walks from the sink back to the source over entries whose
// residual weight exceeds the original one, consuming one unit per step, and
// records the (sink-adjacent, source-adjacent) pair of every completed walk.
//
// It stops once no sink entry carries unconsumed flow, so the matching has
// one pair per unit of flow into the sink. The walk only relies on every
// non-source node having inflow >= outflow, which also holds for the preflow
// left by PushRelabel.
//
// The residual snapshot is consumed. A walk that cannot continue panics with
// an InvariantViolation.
func DecomposeFlow(net *Network) graph.Matching {
	g := net.Residual
	r, o := g.Residual(), net.Original.Residual()

	inflow := func(u int) int {
		for i := 0; i < g.Degree(u); i++ {
			if r.Weight(u, i) > o.Weight(u, i) {
				return i
			}
		}
		return -1
	}

	matching := graph.Matching{}
	for {
		i := inflow(net.Sink)
		if i < 0 {
			return matching
		}

		sinkAdjacent := g.EdgeAt(net.Sink, i).To
		r.Push(net.Sink, i, 1)

		cur := sinkAdjacent
		prev := net.Sink
		for cur != net.Source {
			j := inflow(cur)
			if j < 0 {
				panic(apperror.Invariant("flow decomposition stuck at node %d", cur))
			}
			r.Push(cur, j, 1)
			prev, cur = cur, g.EdgeAt(cur, j).To
		}

		matching = append(matching, graph.Pair{U: sinkAdjacent, V: prev})
	}
}
