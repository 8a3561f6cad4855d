package algorithms

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cutmatching/services/cutmatching/internal/graph"
)

func cycleLists(n int) [][]int {
	lists := make([][]int, n)
	for u := 0; u < n; u++ {
		lists[u] = []int{(u + n - 1) % n, (u + 1) % n}
	}
	return lists
}

// barbellLists returns two 4-cliques {0..3} and {4..7} joined by the edge 3-4.
func barbellLists() [][]int {
	lists := make([][]int, 8)
	for _, clique := range [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}} {
		for _, u := range clique {
			for _, v := range clique {
				if u != v {
					lists[u] = append(lists[u], v)
				}
			}
		}
	}
	lists[3] = append(lists[3], 4)
	lists[4] = append(lists[4], 3)
	return lists
}

// subdivided builds and subdivides a graph from neighbour lists.
func subdivided(t testing.TB, lists [][]int) *graph.Graph {
	t.Helper()
	g, err := graph.FromAdjacency(lists)
	require.NoError(t, err)
	g.Subdivide()
	return g
}

// splitAt cuts the active range into its first k nodes and the rest.
func splitAt(g *graph.Graph, k int) graph.Cut {
	first, past := g.ActiveRange()
	var cut graph.Cut
	for u := first; u < past; u++ {
		if u-first < k {
			cut.A = append(cut.A, u)
		} else {
			cut.B = append(cut.B, u)
		}
	}
	return cut
}

// interleaved puts every other active node into A.
func interleaved(g *graph.Graph) graph.Cut {
	first, past := g.ActiveRange()
	var cut graph.Cut
	for u := first; u < past; u++ {
		if (u-first)%2 == 0 && len(cut.A) < (past-first)/2 {
			cut.A = append(cut.A, u)
		} else {
			cut.B = append(cut.B, u)
		}
	}
	return cut
}

// problemFor copies g, injects source and sink for cut and returns the problem.
func problemFor(t testing.TB, g *graph.Graph, cut graph.Cut, phiInverse int) Problem {
	t.Helper()
	h := g.Clone()
	source, sink, err := h.AddSourceSink(cut)
	require.NoError(t, err)
	return Problem{
		Graph:      h,
		Source:     source,
		Sink:       sink,
		TargetFlow: g.ActiveCount() / 2,
		PhiInverse: phiInverse,
	}
}

func sideOf(cut graph.Cut) map[int]string {
	side := make(map[int]string)
	for _, u := range cut.A {
		side[u] = "A"
	}
	for _, u := range cut.B {
		side[u] = "B"
	}
	return side
}

// requireCrossMatching checks that every pair joins a B node (U) with an
// A node (V) and no node is used twice.
func requireCrossMatching(t *testing.T, m graph.Matching, cut graph.Cut) {
	t.Helper()
	side := sideOf(cut)
	used := make(map[int]bool)
	for _, p := range m {
		require.Equal(t, "B", side[p.U], "pair %v", p)
		require.Equal(t, "A", side[p.V], "pair %v", p)
		require.False(t, used[p.U], "node %d matched twice", p.U)
		require.False(t, used[p.V], "node %d matched twice", p.V)
		used[p.U], used[p.V] = true, true
	}
}
