package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PoolUsage is what the graph pool reports about per-round graph copies.
type PoolUsage struct {
	Clones      int64
	InUse       int64
	ScratchInts int64
}

// RuntimeCollector reports process figures that grow with the game graph,
// plus graph pool usage when a pool source is set.
type RuntimeCollector struct {
	goroutines  *prometheus.Desc
	heapInuse   *prometheus.Desc
	heapObjects *prometheus.Desc
	gcPause     *prometheus.Desc

	poolClones  *prometheus.Desc
	poolInUse   *prometheus.Desc
	poolScratch *prometheus.Desc

	pool func() PoolUsage
}

// CollectorOption configures a RuntimeCollector.
type CollectorOption func(*RuntimeCollector)

// WithPoolUsage adds graph pool gauges read from fn on every scrape.
func WithPoolUsage(fn func() PoolUsage) CollectorOption {
	return func(c *RuntimeCollector) {
		c.pool = fn
	}
}

// NewRuntimeCollector создаёт коллектор процесса игры
func NewRuntimeCollector(namespace, subsystem string, opts ...CollectorOption) *RuntimeCollector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, subsystem, n)
	}

	c := &RuntimeCollector{
		goroutines: prometheus.NewDesc(name("runtime_goroutines"),
			"Goroutines alive, including trial workers", nil, nil),
		heapInuse: prometheus.NewDesc(name("runtime_heap_inuse_bytes"),
			"Heap bytes in use by graphs, residual copies and vectors", nil, nil),
		heapObjects: prometheus.NewDesc(name("runtime_heap_objects"),
			"Live heap objects", nil, nil),
		gcPause: prometheus.NewDesc(name("runtime_gc_pause_seconds_total"),
			"Total stop-the-world GC pause", nil, nil),
		poolClones: prometheus.NewDesc(name("graph_pool_clones_total"),
			"Graph copies handed out for max-flow rounds", nil, nil),
		poolInUse: prometheus.NewDesc(name("graph_pool_clones_in_use"),
			"Graph copies not yet returned to the pool", nil, nil),
		poolScratch: prometheus.NewDesc(name("graph_pool_scratch_ints_total"),
			"Ints handed out as solver scratch space", nil, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Describe implements prometheus.Collector
func (c *RuntimeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.goroutines
	ch <- c.heapInuse
	ch <- c.heapObjects
	ch <- c.gcPause
	if c.pool != nil {
		ch <- c.poolClones
		ch <- c.poolInUse
		ch <- c.poolScratch
	}
}

// Collect implements prometheus.Collector
func (c *RuntimeCollector) Collect(ch chan<- prometheus.Metric) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v)
	}

	gauge(c.goroutines, float64(runtime.NumGoroutine()))
	gauge(c.heapInuse, float64(ms.HeapInuse))
	gauge(c.heapObjects, float64(ms.HeapObjects))
	counter(c.gcPause, time.Duration(ms.PauseTotalNs).Seconds())

	if c.pool == nil {
		return
	}
	u := c.pool()
	counter(c.poolClones, float64(u.Clones))
	gauge(c.poolInUse, float64(u.InUse))
	counter(c.poolScratch, float64(u.ScratchInts))
}

// Timer measures one observation of a labelled histogram.
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer starts a timer for histogram with the given label values.
func NewTimer(histogram *prometheus.HistogramVec, labels ...string) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram.WithLabelValues(labels...),
	}
}

// ObserveDuration records the elapsed time and returns it.
func (t *Timer) ObserveDuration() time.Duration {
	d := time.Since(t.start)
	t.observer.Observe(d.Seconds())
	return d
}
