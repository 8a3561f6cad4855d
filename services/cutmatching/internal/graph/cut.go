package graph

import (
	"cutmatching/pkg/apperror"
)

// Cut is a bipartition (A, B) of the active range.
type Cut struct {
	A []int
	B []int
}

// Validate checks that A and B together list every node of [first, past)
// exactly once.
func (c Cut) Validate(first, past int) error {
	if len(c.A)+len(c.B) != past-first {
		return apperror.Newf(apperror.CodeInvalidCut,
			"cut has %d nodes, active range has %d", len(c.A)+len(c.B), past-first)
	}

	seen := make([]bool, past-first)
	for _, side := range [][]int{c.A, c.B} {
		for _, u := range side {
			if u < first || u >= past {
				return apperror.Newf(apperror.CodeInvalidCut, "node %d outside active range [%d, %d)", u, first, past)
			}
			if seen[u-first] {
				return apperror.Newf(apperror.CodeInvalidCut, "node %d appears twice in cut", u)
			}
			seen[u-first] = true
		}
	}
	return nil
}

// Pair is an unordered pair of active node ids.
type Pair struct {
	U int
	V int
}

// Matching is an ordered list of pairs; every id appears in at most one pair.
type Matching []Pair

// Validate checks that every id of the matching lies in [first, past) and
// appears at most once.
func (m Matching) Validate(first, past int) error {
	seen := make(map[int]bool, 2*len(m))
	for _, p := range m {
		for _, u := range [2]int{p.U, p.V} {
			if u < first || u >= past {
				return apperror.Newf(apperror.CodeInvalidArgument,
					"matched node %d outside active range [%d, %d)", u, first, past)
			}
			if seen[u] {
				return apperror.Newf(apperror.CodeInvalidArgument, "node %d matched twice", u)
			}
			seen[u] = true
		}
	}
	return nil
}
