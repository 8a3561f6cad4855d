package game

import (
	"slices"

	"gonum.org/v1/gonum/floats"

	"cutmatching/services/cutmatching/internal/graph"
)

// =============================================================================
// Random vectors and projection
// =============================================================================
//
// Vectors are indexed by active position: coordinate i belongs to node
// firstActive+i.

// generateRandomVector returns a unit vector for the current round. With a
// bounded cache, a round whose slot is already filled gets that slot back
// verbatim, and cached reports true. The cached vector has every matching of
// the history applied already (see bumpRound).
func (g *Game) generateRandomVector() (v []float64, cached bool) {
	if g.vectorLimit > 0 {
		slot := len(g.history) % g.vectorLimit
		if slot < len(g.cache) {
			return slices.Clone(g.cache[slot]), true
		}
	}
	return g.drawUnitVector(), false
}

// drawUnitVector samples activeCount uniform values and scales them to unit
// L2 norm.
func (g *Game) drawUnitVector() []float64 {
	v := make([]float64, g.graph.ActiveCount())
	for i := range v {
		v[i] = g.rng.Float64()
	}
	if norm := floats.Norm(v, 2); norm > 0 {
		floats.Scale(1/norm, v)
	}
	return v
}

// computeProjection returns the current round's vector with the whole
// history applied. A fresh vector drawn for a free cache slot is stored after
// projection so later rounds can reuse it without replay.
func (g *Game) computeProjection() []float64 {
	v, cached := g.generateRandomVector()
	if cached {
		return v
	}

	for _, m := range g.history {
		applyMatching(v, m, g.first)
	}
	if g.vectorLimit > 0 && len(g.cache) < g.vectorLimit {
		g.cache = append(g.cache, slices.Clone(v))
	}
	return v
}

// fillCache draws every cache slot up front. Called before the first round,
// so no projection is needed.
func (g *Game) fillCache() {
	for len(g.cache) < g.vectorLimit {
		g.cache = append(g.cache, g.drawUnitVector())
	}
}

// applyMatching replaces both coordinates of every matched pair by their
// mean. Applying the same matching twice leaves v unchanged.
func applyMatching(v []float64, m graph.Matching, first int) {
	for _, p := range m {
		i, j := p.U-first, p.V-first
		mean := (v[i] + v[j]) / 2
		v[i], v[j] = mean, mean
	}
}

// =============================================================================
// Median cut
// =============================================================================

// generateCut splits the active range at the median of the projection:
// the ⌊n/2⌋ positions with the smallest values form A, the rest form B.
// Ties are broken by position. Both sides are returned in ascending id order.
func (g *Game) generateCut() graph.Cut {
	v := g.computeProjection()
	return medianCut(v, g.first)
}

func medianCut(v []float64, first int) graph.Cut {
	n := len(v)
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}

	k := n / 2
	if k < n {
		nthElement(ids, v, k)
	}

	cut := graph.Cut{A: make([]int, 0, k), B: make([]int, 0, n-k)}
	for _, i := range ids[:k] {
		cut.A = append(cut.A, first+i)
	}
	for _, i := range ids[k:] {
		cut.B = append(cut.B, first+i)
	}
	slices.Sort(cut.A)
	slices.Sort(cut.B)
	return cut
}

// less orders positions by value, then by position.
func less(v []float64, a, b int) bool {
	if v[a] != v[b] {
		return v[a] < v[b]
	}
	return a < b
}

// nthElement reorders ids so that ids[k] holds the element of rank k, every
// element before it ranks lower and every element after it ranks higher.
// Expected linear time.
func nthElement(ids []int, v []float64, k int) {
	lo, hi := 0, len(ids)-1
	for lo < hi {
		p := medianOfThree(ids, v, lo, lo+(hi-lo)/2, hi)
		ids[p], ids[hi] = ids[hi], ids[p]
		pivot := ids[hi]

		store := lo
		for i := lo; i < hi; i++ {
			if less(v, ids[i], pivot) {
				ids[i], ids[store] = ids[store], ids[i]
				store++
			}
		}
		ids[store], ids[hi] = ids[hi], ids[store]

		switch {
		case k == store:
			return
		case k < store:
			hi = store - 1
		default:
			lo = store + 1
		}
	}
}

// medianOfThree returns whichever of the positions a, b, c holds the middle
// element.
func medianOfThree(ids []int, v []float64, a, b, c int) int {
	if less(v, ids[b], ids[a]) {
		a, b = b, a
	}
	if less(v, ids[c], ids[b]) {
		b = c
		if less(v, ids[b], ids[a]) {
			b = a
		}
	}
	return b
}
