// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus metrics for parallel maps and ring buffers. Every Metrics
// owns its registry, so several instances can coexist in one process.

package control

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/momentics/hioload-ring/core/parallel"
)

// Ensure compile-time interface compliance.
var _ parallel.Observer = (*Metrics)(nil)

// Metrics collects runtime counters.
type Metrics struct {
	registry *prometheus.Registry

	mapCalls          *prometheus.CounterVec
	mapItems          prometheus.Counter
	mapWorkerFailures prometheus.Counter
	mapDuration       prometheus.Histogram
	mapWorkers        prometheus.Gauge
	ringOverwrites    *prometheus.CounterVec

	logger *zap.Logger
}

// NewMetrics creates metrics under namespace on a fresh registry.
func NewMetrics(namespace string, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{
		registry: reg,
		logger:   logger.With(zap.String("component", "metrics")),
	}

	m.mapCalls = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_calls_total",
			Help:      "Total number of parallel map calls",
		},
		[]string{"status"},
	)
	m.mapItems = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "map_items_total",
		Help:      "Total number of input elements handed to parallel map",
	})
	m.mapWorkerFailures = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "map_worker_failures_total",
		Help:      "Total number of parallel map calls ended by a worker failure",
	})
	m.mapDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "map_duration_seconds",
		Help:      "Parallel map wall time from fan-out to join",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
	m.mapWorkers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "map_workers",
		Help:      "Worker count of the latest parallel map call",
	})
	m.ringOverwrites = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ring_overwrites_total",
			Help:      "Total number of elements discarded by full ring buffers",
		},
		[]string{"ring"},
	)
	return m
}

// Registry exposes the registry for HTTP handlers or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveMap implements parallel.Observer.
func (m *Metrics) ObserveMap(s parallel.CallStats) {
	status := "ok"
	if s.Err != nil {
		status = "error"
		m.mapWorkerFailures.Inc()
		m.logger.Debug("map failure recorded", zap.Error(s.Err))
	}
	m.mapCalls.WithLabelValues(status).Inc()
	m.mapItems.Add(float64(s.Items))
	m.mapWorkers.Set(float64(s.Workers))
	m.mapDuration.Observe(s.Duration.Seconds())
}

// RingOverwrite counts one discarded element of the named ring.
func (m *Metrics) RingOverwrite(ring string) {
	m.ringOverwrites.WithLabelValues(ring).Inc()
}
