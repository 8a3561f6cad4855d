package game

import (
	"log/slog"
	"time"

	"cutmatching/pkg/metrics"
	"cutmatching/services/cutmatching/internal/graph"
)

// StartReport describes a game about to play its first round.
type StartReport struct {
	Nodes       int
	Edges       int
	ActiveNodes int
	RoundBudget int
	PhiInverse  int
	Algorithm   string
}

// RoundReport describes one completed round.
type RoundReport struct {
	// Round is 1-based.
	Round      int
	Algorithm  string
	MaxFlow    int
	TargetFlow int
	Cut        graph.Cut
	// Matched is the number of pairs the round produced, 0 on a shortfall.
	Matched  int
	Duration time.Duration
}

// Shortfall reports whether the round fell short of its target flow.
func (r RoundReport) Shortfall() bool {
	return r.MaxFlow < r.TargetFlow
}

// Reporter receives progress events. Reporters passed to RunTrials are
// called from several goroutines.
type Reporter interface {
	Started(StartReport)
	RoundCompleted(RoundReport)
	Finished(Verdict)
	// Failed is called instead of Finished when the game ends with an error.
	Failed(error)
}

// =============================================================================
// Implementations
// =============================================================================

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Started(StartReport) {}
func (NopReporter) RoundCompleted(RoundReport) {}
func (NopReporter) Finished(Verdict) {}
func (NopReporter) Failed(error) {}

// LogReporter writes events to a structured logger.
type LogReporter struct {
	Log *slog.Logger
}

// NewLogReporter creates a LogReporter; nil means slog.Default().
func NewLogReporter(l *slog.Logger) *LogReporter {
	if l == nil {
		l = slog.Default()
	}
	return &LogReporter{Log: l}
}

func (r *LogReporter) Started(s StartReport) {
	r.Log.Info("game started",
		"nodes", s.Nodes,
		"edges", s.Edges,
		"active_nodes", s.ActiveNodes,
		"round_budget", s.RoundBudget,
		"phi_inverse", s.PhiInverse,
		"algorithm", s.Algorithm,
	)
}

func (r *LogReporter) RoundCompleted(rr RoundReport) {
	r.Log.Info("round completed",
		"round", rr.Round,
		"max_flow", rr.MaxFlow,
		"target_flow", rr.TargetFlow,
		"matched", rr.Matched,
		"duration", rr.Duration,
	)
}

func (r *LogReporter) Finished(v Verdict) {
	if v.Outcome == Expander {
		r.Log.Info("expander certified",
			"rounds", v.Rounds,
			"phi_inverse", v.PhiInverse,
			"duration", v.Duration,
		)
		return
	}
	r.Log.Info("sparse cut found",
		"rounds", v.Rounds,
		"max_flow", v.MaxFlow,
		"target_flow", v.TargetFlow,
		"cut_a", v.Cut.A,
		"cut_b", v.Cut.B,
		"crossing_edges", v.CrossingEdges,
		"duration", v.Duration,
	)
}

func (r *LogReporter) Failed(err error) {
	r.Log.Error("game failed", "error", err)
}

// MetricsReporter records events into Prometheus metrics.
type MetricsReporter struct {
	m *metrics.Metrics
}

// NewMetricsReporter creates a MetricsReporter; nil means metrics.Get().
func NewMetricsReporter(m *metrics.Metrics) *MetricsReporter {
	if m == nil {
		m = metrics.Get()
	}
	return &MetricsReporter{m: m}
}

func (r *MetricsReporter) Started(s StartReport) {
	r.m.ActiveGames.Inc()
	r.m.RecordGraphSize("game", s.Nodes, s.Edges)
}

func (r *MetricsReporter) RoundCompleted(rr RoundReport) {
	r.m.RecordRound(rr.Algorithm, rr.MaxFlow, rr.TargetFlow, rr.Duration)
}

func (r *MetricsReporter) Finished(v Verdict) {
	r.m.ActiveGames.Dec()
	r.m.RecordVerdict(v.Outcome.String(), v.Duration)
}

func (r *MetricsReporter) Failed(error) {
	r.m.ActiveGames.Dec()
}

// MultiReporter fans events out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Started(s StartReport) {
	for _, r := range m {
		r.Started(s)
	}
}

func (m MultiReporter) RoundCompleted(rr RoundReport) {
	for _, r := range m {
		r.RoundCompleted(rr)
	}
}

func (m MultiReporter) Finished(v Verdict) {
	for _, r := range m {
		r.Finished(v)
	}
}

func (m MultiReporter) Failed(err error) {
	for _, r := range m {
		r.Failed(err)
	}
}
