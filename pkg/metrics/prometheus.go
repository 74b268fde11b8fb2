// Package metrics provides Prometheus metrics for the fantasy bakes service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Scoring and standings
	scoreRecordsWritten prometheus.Counter
	standingsComputed   prometheus.Counter
	standingsLatency    prometheus.Histogram

	// Season state
	currentWeek   prometheus.Gauge
	weeksRecorded prometheus.Gauge
	activeBakers  prometheus.Gauge
	eliminations  prometheus.Counter
	restorations  prometheus.Counter

	// Persistence
	storageOps       *prometheus.CounterVec
	storageErrors    *prometheus.CounterVec
	storageLatency   *prometheus.HistogramVec
	storageFallbacks prometheus.Counter

	// Change notifications
	changesPublished prometheus.Counter
	changesDropped   prometheus.Counter
	observerPanics   prometheus.Counter

	// Admin access
	adminAuthFailures *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // avoids default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fantasybakes",
		subsystem:        "season",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoreRecordsWritten = m.counter("score_records_written_total", "Score records written by administrators")
	m.standingsComputed = m.counter("standings_computed_total", "Leaderboard computations")
	m.standingsLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "standings_latency_milliseconds",
		Help:        "Time to compute the leaderboard in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.currentWeek = m.gauge("current_week", "Current week pointer of the live season")
	m.weeksRecorded = m.gauge("weeks_recorded", "Number of weeks with recorded scores")
	m.activeBakers = m.gauge("active_bakers", "Bakers not yet eliminated")
	m.eliminations = m.counter("baker_eliminations_total", "Baker eliminations recorded")
	m.restorations = m.counter("baker_restorations_total", "Baker eliminations reverted")

	m.storageOps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "storage_operations_total",
		Help:        "Persistence operations by backend and operation",
		ConstLabels: m.constLabels,
	}, []string{"backend", "op"})
	m.storageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "storage_errors_total",
		Help:        "Failed persistence operations by backend and operation",
		ConstLabels: m.constLabels,
	}, []string{"backend", "op"})
	m.storageLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "storage_latency_milliseconds",
		Help:        "Persistence operation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"backend", "op"})
	m.storageFallbacks = m.counter("storage_fallbacks_total", "Loads served by a fallback source or the cached snapshot")

	m.changesPublished = m.counter("changes_published_total", "Change notifications queued for observers")
	m.changesDropped = m.counter("changes_dropped_total", "Change notifications dropped because the queue was full")
	m.observerPanics = m.counter("observer_panics_total", "Observer callbacks that panicked")

	m.adminAuthFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "admin_auth_failures_total",
		Help:        "Rejected admin verifications by reason",
		ConstLabels: m.constLabels,
	}, []string{"reason"})

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Number of goroutines")
}

// RecordScoreRecordsWritten adds n written score records.
func (m *Manager) RecordScoreRecordsWritten(n int) { m.scoreRecordsWritten.Add(float64(n)) }

// RecordStandings records one leaderboard computation.
func (m *Manager) RecordStandings(latencyMs float64) {
	m.standingsComputed.Inc()
	m.standingsLatency.Observe(latencyMs)
}

// UpdateSeasonState sets the season gauges.
func (m *Manager) UpdateSeasonState(currentWeek, weeks, activeBakers int) {
	m.currentWeek.Set(float64(currentWeek))
	m.weeksRecorded.Set(float64(weeks))
	m.activeBakers.Set(float64(activeBakers))
}

// RecordElimination counts a baker elimination.
func (m *Manager) RecordElimination() { m.eliminations.Inc() }

// RecordRestoration counts a restored baker.
func (m *Manager) RecordRestoration() { m.restorations.Inc() }

// RecordStorageOp records a persistence operation and its outcome.
func (m *Manager) RecordStorageOp(backend, op string, latencyMs float64, err error) {
	m.storageOps.WithLabelValues(backend, op).Inc()
	m.storageLatency.WithLabelValues(backend, op).Observe(latencyMs)
	if err != nil {
		m.storageErrors.WithLabelValues(backend, op).Inc()
	}
}

// RecordStorageFallback counts a load not served by the primary source.
func (m *Manager) RecordStorageFallback() { m.storageFallbacks.Inc() }

// RecordChangePublished counts a queued change notification.
func (m *Manager) RecordChangePublished() { m.changesPublished.Inc() }

// RecordChangeDropped counts a change notification lost to backpressure.
func (m *Manager) RecordChangeDropped() { m.changesDropped.Inc() }

// RecordObserverPanic counts an observer that panicked.
func (m *Manager) RecordObserverPanic() { m.observerPanics.Inc() }

// RecordAdminAuthFailure counts a rejected admin verification.
func (m *Manager) RecordAdminAuthFailure(reason string) {
	m.adminAuthFailures.WithLabelValues(reason).Inc()
}

// UpdateSystem sets process gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int) {
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// Package-level helpers forwarding to the global manager.

func RecordScoreRecordsWritten(n int)        { globalManager.RecordScoreRecordsWritten(n) }
func RecordStandings(latencyMs float64)      { globalManager.RecordStandings(latencyMs) }
func RecordElimination()                     { globalManager.RecordElimination() }
func RecordRestoration()                     { globalManager.RecordRestoration() }
func RecordStorageFallback()                 { globalManager.RecordStorageFallback() }
func RecordChangePublished()                 { globalManager.RecordChangePublished() }
func RecordChangeDropped()                   { globalManager.RecordChangeDropped() }
func RecordObserverPanic()                   { globalManager.RecordObserverPanic() }
func RecordAdminAuthFailure(reason string)   { globalManager.RecordAdminAuthFailure(reason) }
func UpdateSystem(memory uint64, count int)  { globalManager.UpdateSystem(memory, count) }
func UpdateSeasonState(week, weeks, act int) { globalManager.UpdateSeasonState(week, weeks, act) }

// RecordStorageOp records a persistence operation on the global manager.
func RecordStorageOp(backend, op string, latencyMs float64, err error) {
	globalManager.RecordStorageOp(backend, op, latencyMs, err)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
