package game

import (
	"fmt"
	"time"

	"cutmatching/services/cutmatching/internal/graph"
)

// Outcome is the terminal state of a game.
type Outcome int

const (
	// Expander: every round reached its target flow.
	Expander Outcome = iota
	// SparseCut: some round fell short of its target flow.
	SparseCut
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case Expander:
		return "expander"
	case SparseCut:
		return "sparse_cut"
	default:
		return "unknown"
	}
}

// Verdict is the result of a completed game. A sparse cut is a regular
// result, not an error.
type Verdict struct {
	Outcome Outcome

	// Rounds is the budget R for Expander, and the 1-based number of the
	// round that fell short for SparseCut.
	Rounds int

	PhiInverse int
	Algorithm  string
	Seed       uint64
	Duration   time.Duration

	// Fields below are set for SparseCut only.

	// Cut is the median cut of the round that fell short.
	Cut graph.Cut

	MaxFlow    int
	TargetFlow int

	// MinCutSide lists the game graph nodes on the source side of a minimum
	// cut of that round's flow network.
	MinCutSide []int

	// CrossingEdges counts game graph edges leaving MinCutSide.
	CrossingEdges int
}

// IsExpander reports whether the game certified expansion.
func (v *Verdict) IsExpander() bool {
	return v.Outcome == Expander
}

// String renders a one-line summary.
func (v *Verdict) String() string {
	if v.Outcome == Expander {
		return fmt.Sprintf("expander certified for conductance >= 1/%d after %d rounds", v.PhiInverse, v.Rounds)
	}
	return fmt.Sprintf("sparse cut found after %d rounds: flow %d < target %d, |A|=%d |B|=%d, %d crossing edges",
		v.Rounds, v.MaxFlow, v.TargetFlow, len(v.Cut.A), len(v.Cut.B), v.CrossingEdges)
}
