package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics контейнер метрик игры
type Metrics struct {
	// Метрики раундов
	GameRoundsTotal *prometheus.CounterVec
	RoundMaxFlow    prometheus.Gauge
	RoundTargetFlow prometheus.Gauge
	SolveDuration   *prometheus.HistogramVec

	// Итоги игры
	VerdictsTotal *prometheus.CounterVec
	GameDuration  *prometheus.HistogramVec
	ActiveGames   prometheus.Gauge

	// Полный запуск сертификации, включая кэш и испытания
	CertifyDuration *prometheus.HistogramVec

	// Размеры графов
	GraphNodes *prometheus.HistogramVec
	GraphEdges *prometheus.HistogramVec

	// Информация о сервисе
	ServiceInfo *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

var defaultMetrics *Metrics

// InitMetrics инициализирует глобальные метрики в DefaultRegisterer
func InitMetrics(namespace, subsystem string, opts ...CollectorOption) *Metrics {
	m := New(prometheus.DefaultRegisterer, namespace, subsystem)
	prometheus.DefaultRegisterer.MustRegister(NewRuntimeCollector(namespace, subsystem, opts...))
	m.gatherer = prometheus.DefaultGatherer
	defaultMetrics = m
	return m
}

// New регистрирует метрики в переданном registry
func New(reg prometheus.Registerer, namespace, subsystem string) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		GameRoundsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "game_rounds_total",
				Help:      "Total number of completed cut-matching rounds",
			},
			[]string{"algorithm"},
		),

		RoundMaxFlow: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "round_max_flow",
				Help:      "Max flow of the last completed round",
			},
		),

		RoundTargetFlow: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "round_target_flow",
				Help:      "Target flow of the last completed round",
			},
		),

		SolveDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_duration_seconds",
				Help:      "Duration of a single max-flow solve",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
			},
			[]string{"algorithm"},
		),

		VerdictsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "verdicts_total",
				Help:      "Total number of finished games by outcome",
			},
			[]string{"outcome"},
		),

		GameDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "game_duration_seconds",
				Help:      "Duration of a whole game run",
				Buckets:   []float64{.001, .01, .1, .5, 1, 5, 10, 60, 300},
			},
			[]string{"outcome"},
		),

		ActiveGames: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_games",
				Help:      "Current number of running games",
			},
		),

		CertifyDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "certify_duration_seconds",
				Help:      "Duration of a certification run across all trials",
				Buckets:   []float64{.001, .01, .1, .5, 1, 5, 10, 60, 300},
			},
			[]string{"algorithm"},
		),

		GraphNodes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_nodes",
				Help:      "Number of nodes in processed graphs",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"stage"},
		),

		GraphEdges: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_edges",
				Help:      "Number of edges in processed graphs",
				Buckets:   []float64{20, 100, 500, 1000, 5000, 10000, 50000, 100000},
			},
			[]string{"stage"},
		),

		ServiceInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service information",
			},
			[]string{"version", "environment"},
		),
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}

	return m
}

// Get возвращает глобальные метрики
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("cutmatching", "")
	}
	return defaultMetrics
}

// RecordRound записывает метрики завершённого раунда
func (m *Metrics) RecordRound(algorithm string, maxFlow, targetFlow int, duration time.Duration) {
	m.GameRoundsTotal.WithLabelValues(algorithm).Inc()
	m.RoundMaxFlow.Set(float64(maxFlow))
	m.RoundTargetFlow.Set(float64(targetFlow))
	m.SolveDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// RecordVerdict записывает итог игры
func (m *Metrics) RecordVerdict(outcome string, duration time.Duration) {
	m.VerdictsTotal.WithLabelValues(outcome).Inc()
	m.GameDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordGraphSize записывает размер графа
func (m *Metrics) RecordGraphSize(stage string, nodes, edges int) {
	m.GraphNodes.WithLabelValues(stage).Observe(float64(nodes))
	m.GraphEdges.WithLabelValues(stage).Observe(float64(edges))
}

// SetServiceInfo устанавливает информацию о сервисе
func (m *Metrics) SetServiceInfo(version, environment string) {
	m.ServiceInfo.WithLabelValues(version, environment).Set(1)
}

// Handler возвращает HTTP handler для /metrics
func (m *Metrics) Handler() http.Handler {
	if m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Handler возвращает HTTP handler глобального registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewServer собирает HTTP сервер для метрик
func NewServer(port int, path string, handler http.Handler) *http.Server {
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		// Игнорируем ошибку записи - response уже отправлен
		_, _ = w.Write([]byte("OK")) //nolint:errcheck // health endpoint, ошибка записи не критична
	})

	return &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
