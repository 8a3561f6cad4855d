package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Граф
	AttrGraphNodes  = "graph.nodes"
	AttrGraphEdges  = "graph.edges"
	AttrActiveNodes = "graph.active_nodes"

	// Алгоритм
	AttrAlgorithm  = "algorithm.name"
	AttrIterations = "algorithm.iterations"
	AttrMaxFlow    = "algorithm.max_flow"
	AttrTargetFlow = "algorithm.target_flow"

	// Игра
	AttrRound         = "game.round"
	AttrRounds        = "game.rounds"
	AttrPhiInverse    = "game.phi_inverse"
	AttrOutcome       = "game.outcome"
	AttrCrossingEdges = "game.crossing_edges"
	AttrRunID         = "game.run_id"
	AttrSeed          = "game.seed"
)

// GraphAttributes возвращает атрибуты графа
func GraphAttributes(nodes, edges, active int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphEdges, edges),
		attribute.Int(AttrActiveNodes, active),
	}
}

// RoundAttributes возвращает атрибуты раунда
func RoundAttributes(round int, algorithm string, maxFlow, targetFlow int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrRound, round),
		attribute.String(AttrAlgorithm, algorithm),
		attribute.Int(AttrMaxFlow, maxFlow),
		attribute.Int(AttrTargetFlow, targetFlow),
	}
}

// VerdictAttributes возвращает атрибуты итога игры
func VerdictAttributes(outcome string, rounds, crossingEdges int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrOutcome, outcome),
		attribute.Int(AttrRounds, rounds),
		attribute.Int(AttrCrossingEdges, crossingEdges),
	}
}
