// Package metrics records benchmark outcomes as Prometheus metrics and
// writes them in the text exposition format, suitable for a node exporter
// textfile collector.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "algogauge"

// Metrics holds the collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	SortDuration *prometheus.HistogramVec
	UnitsTotal   *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
}

// New creates Metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SortDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "sort_duration_seconds",
				Help:      "Time spent inside the sort call",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 9),
			},
			[]string{"algorithm", "strategy"},
		),
		UnitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "units_total",
				Help:      "Benchmark units completed, by verification outcome",
			},
			[]string{"algorithm", "verified"},
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "handshake",
				Name:      "step_duration_seconds",
				Help:      "Externally observed time of one paced unit",
				Buckets:   prometheus.ExponentialBuckets(1e-5, 10, 8),
			},
			[]string{"language"},
		),
	}

	m.registry.MustRegister(m.SortDuration, m.UnitsTotal, m.StepDuration)

	return m
}

// ObserveSort records one completed unit.
func (m *Metrics) ObserveSort(algorithm, strategy string, elapsed time.Duration, verified bool) {
	m.SortDuration.WithLabelValues(algorithm, strategy).Observe(elapsed.Seconds())
	m.UnitsTotal.WithLabelValues(algorithm, strconv.FormatBool(verified)).Inc()
}

// ObserveStep records the externally measured time of one paced unit.
func (m *Metrics) ObserveStep(language string, wall time.Duration) {
	m.StepDuration.WithLabelValues(language).Observe(wall.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}

	return nil
}
