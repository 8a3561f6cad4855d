package game

import (
	"sync"
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

// subdivided builds and subdivides a graph and returns it with its active range.
func subdivided(t testing.TB, lists [][]int) (*graph.Graph, int, int) {
	t.Helper()
	g, err := graph.FromAdjacency(lists)
	require.NoError(t, err)
	g.Subdivide()
	first, past := g.ActiveRange()
	return g, first, past
}

// recordingReporter keeps every event it receives.
type recordingReporter struct {
	mu       sync.Mutex
	started  []StartReport
	rounds   []RoundReport
	verdicts []Verdict
	failures []error
}

func (r *recordingReporter) Started(s StartReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, s)
}

func (r *recordingReporter) RoundCompleted(rr RoundReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds = append(r.rounds, rr)
}

func (r *recordingReporter) Finished(v Verdict) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verdicts = append(r.verdicts, v)
}

func (r *recordingReporter) Failed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, err)
}
