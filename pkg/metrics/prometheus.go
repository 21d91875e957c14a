// Package metrics provides Prometheus metrics for podium rating runs.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics of a rating run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Engine metrics
	periodsApplied     prometheus.Counter
	matchesApplied     prometheus.Counter
	weightedUpdates    prometheus.Counter
	convergenceRetries prometheus.Counter
	periodLatency      prometheus.Histogram
	competitors        prometheus.Gauge

	// Ingestion metrics
	tournamentsProcessed prometheus.Counter
	rowsSkipped          *prometheus.CounterVec
	errorsByComponent    *prometheus.CounterVec

	// Run metrics
	runDuration      prometheus.Gauge
	runLastSuccessTS prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "rating",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.periodsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "periods_applied_total",
		Help:        "Total number of rating periods applied",
		ConstLabels: labels,
	})

	m.matchesApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches_applied_total",
		Help:        "Total number of distinct matches fed to the engine",
		ConstLabels: labels,
	})

	m.weightedUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "weighted_match_updates_total",
		Help:        "Total number of match updates including weighted replays",
		ConstLabels: labels,
	})

	m.convergenceRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "convergence_retries_total",
		Help:        "Volatility solves that needed the relaxed tolerance",
		ConstLabels: labels,
	})

	m.periodLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "period_apply_duration_milliseconds",
		Help:        "Time spent applying one rating period",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.competitors = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "competitors_registered",
		Help:        "Number of competitors known to the engine",
		ConstLabels: labels,
	})

	m.tournamentsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tournaments_processed_total",
		Help:        "Total number of tournaments fully applied",
		ConstLabels: labels,
	})

	m.rowsSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "round_rows_skipped_total",
			Help:        "Round rows dropped before reaching the engine, by reason",
			ConstLabels: labels,
		},
		[]string{"reason"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_total",
			Help:        "Errors that stopped a run, by component and kind",
			ConstLabels: labels,
		},
		[]string{"component", "kind"},
	)

	m.runDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_duration_seconds",
		Help:        "Wall time of the last run",
		ConstLabels: labels,
	})

	m.runLastSuccessTS = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "run_last_success_unix",
		Help:        "Unix timestamp of the last successful run",
		ConstLabels: labels,
	})
}

// RecordPeriod records one applied period.
func (m *Manager) RecordPeriod(matches, weight, retries int, latencyMs float64) {
	m.periodsApplied.Inc()
	m.matchesApplied.Add(float64(matches))
	m.weightedUpdates.Add(float64(matches * weight))
	m.convergenceRetries.Add(float64(retries))
	m.periodLatency.Observe(latencyMs)
}

// RecordRowsSkipped adds n dropped round rows for reason.
func (m *Manager) RecordRowsSkipped(reason string, n int) {
	if n > 0 {
		m.rowsSkipped.WithLabelValues(reason).Add(float64(n))
	}
}

// UpdateCompetitors sets the registered competitor gauge.
func (m *Manager) UpdateCompetitors(n int) { m.competitors.Set(float64(n)) }

// RecordTournament increments the processed tournament counter.
func (m *Manager) RecordTournament() { m.tournamentsProcessed.Inc() }

// RecordError counts a run-stopping error.
func (m *Manager) RecordError(component, kind string) {
	m.errorsByComponent.WithLabelValues(component, kind).Inc()
}

// RecordRun records the duration of a successful run ending at unixTS.
func (m *Manager) RecordRun(seconds float64, unixTS int64) {
	m.runDuration.Set(seconds)
	m.runLastSuccessTS.Set(float64(unixTS))
}

// RecordPeriod records one applied period on the global manager.
func RecordPeriod(matches, weight, retries int, latencyMs float64) {
	globalManager.RecordPeriod(matches, weight, retries, latencyMs)
}

// RecordRowsSkipped adds dropped round rows on the global manager.
func RecordRowsSkipped(reason string, n int) { globalManager.RecordRowsSkipped(reason, n) }

// UpdateCompetitors sets the competitor gauge on the global manager.
func UpdateCompetitors(n int) { globalManager.UpdateCompetitors(n) }

// RecordTournament counts a processed tournament on the global manager.
func RecordTournament() { globalManager.RecordTournament() }

// RecordError counts a run-stopping error on the global manager.
func RecordError(component, kind string) { globalManager.RecordError(component, kind) }

// RecordRun records a successful run on the global manager.
func RecordRun(seconds float64, unixTS int64) { globalManager.RecordRun(seconds, unixTS) }

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the global registry in the node_exporter textfile
// format. Batch runs use it instead of a scrape endpoint.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %v", ErrObserveFailed, err)
	}
	return nil
}
