// Package main is the entry point for the cutmatching command.
//
// cutmatching certifies graph expansion with the cut-matching game. The
// input graph is subdivided, and for a logarithmic number of rounds a
// random projection proposes a balanced cut of the subdivision nodes while
// a max-flow solver tries to route a perfect matching across it. If every
// round routes its target flow the graph is certified as an expander for
// conductance >= 1/phi-inverse; otherwise the failing round yields a
// sparse cut.
//
// # Usage
//
//	cutmatching run <graph-file> [flags]
//	cutmatching algorithms
//	cutmatching cache clear [graph-file]
//
// The graph file uses the CHACO format: a header "n m [fmt]" followed by
// one line of 1-indexed neighbours per node. Lines starting with '%' are
// comments.
//
// # Configuration
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Command line flags
//  2. Environment variables (prefix: CUTMATCHING_)
//  3. Config files (CONFIG_PATH, config.yaml, config/config.yaml,
//     /etc/cutmatching/config.yaml)
//  4. Default values
//
// Key configuration options (environment variable format):
//
//	# Game
//	CUTMATCHING_GAME_PHI_INVERSE    - Inner edge capacity 1/phi (default: 2)
//	CUTMATCHING_GAME_RANDOM_VECTORS - Random vector cache size, 0 = unbounded (default: 0)
//	CUTMATCHING_GAME_EAGER_VECTORS  - Fill the vector cache up front (default: false)
//	CUTMATCHING_GAME_SOLVER         - edmonds-karp, push-relabel (default: edmonds-karp)
//	CUTMATCHING_GAME_SEED           - Random seed, 0 = random (default: 0)
//	CUTMATCHING_GAME_TRIALS         - Independent games run concurrently (default: 1)
//	CUTMATCHING_GAME_MIN_ROUNDS     - Lower bound of the round budget (default: 10)
//
//	# Logging
//	CUTMATCHING_LOG_LEVEL     - debug, info, warn, error (default: info)
//	CUTMATCHING_LOG_FORMAT    - json, text (default: text)
//	CUTMATCHING_LOG_OUTPUT    - stdout, stderr, file (default: stderr)
//	CUTMATCHING_LOG_FILE_PATH - Log file path when output=file
//
//	# Verdict cache (seeded runs only)
//	CUTMATCHING_CACHE_ENABLED     - Enable the verdict cache (default: false)
//	CUTMATCHING_CACHE_DRIVER      - memory, redis (default: memory)
//	CUTMATCHING_CACHE_HOST        - Redis host (default: localhost)
//	CUTMATCHING_CACHE_PORT        - Redis port (default: 6379)
//	CUTMATCHING_CACHE_DEFAULT_TTL - Entry TTL (default: 24h)
//
//	# Tracing (OpenTelemetry)
//	CUTMATCHING_TRACING_ENABLED     - Enable tracing (default: false)
//	CUTMATCHING_TRACING_ENDPOINT    - OTLP gRPC endpoint (default: localhost:4317)
//	CUTMATCHING_TRACING_SAMPLE_RATE - Sampling rate 0.0-1.0 (default: 0.1)
//
//	# Metrics (Prometheus)
//	CUTMATCHING_METRICS_ENABLED - Serve metrics while the game runs (default: false)
//	CUTMATCHING_METRICS_PORT    - Metrics HTTP port (default: 9090)
//	CUTMATCHING_METRICS_PATH    - Metrics endpoint path (default: /metrics)
//
// # Exit Codes
//
//	0 - the game finished, with either verdict
//	1 - invalid input, configuration or a broken invariant
//
// # Observability
//
// Metrics (Prometheus):
//
//	cutmatching_game_rounds_total{algorithm}      - Completed rounds
//	cutmatching_round_max_flow                    - Flow of the last round
//	cutmatching_round_target_flow                 - Target of the last round
//	cutmatching_solve_duration_seconds{algorithm} - Max-flow solve time
//	cutmatching_verdicts_total{outcome}           - Verdicts by outcome
//	cutmatching_game_duration_seconds{outcome}    - Game duration
//	cutmatching_active_games                      - Games in progress
//	cutmatching_certify_duration_seconds{algorithm} - Whole run, all trials
//	cutmatching_runtime_*                         - Goroutines, heap, GC pause
//	cutmatching_graph_pool_*                      - Per-round graph copies
//
// Tracing (OpenTelemetry):
//
//	Spans are created for the certification run, each game and each round.
//
// # Examples
//
//	cutmatching run graphs/barbell.graph --seed 7
//	cutmatching run graphs/large.graph --solver push-relabel --trials 4 --vectors 8
//	CONFIG_PATH=./config/local.yaml cutmatching run graphs/large.graph
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
