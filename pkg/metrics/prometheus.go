// Package metrics provides Prometheus metrics for the rating sync service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Reconciliation loop
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
	tickErrors   *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	refunds      prometheus.Counter

	// Ledger and directory sizes
	competitors prometheus.Gauge
	matches     prometheus.Gauge
	dirtyRows   prometheus.Gauge

	// Adapters
	notifications       *prometheus.CounterVec
	persistenceLatency  *prometheus.HistogramVec
	persistenceErrors   *prometheus.CounterVec
	sourceLatency       *prometheus.HistogramVec
	sourceErrors        *prometheus.CounterVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorRateByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

var initOnce sync.Once

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "chex",
		subsystem:        "sync",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Init rebuilds the global manager on a fresh custom registry with the given
// options. It may be called once, before any metric is recorded.
func Init(opts ...Option) error {
	err := ErrAlreadyInitialized
	initOnce.Do(func() {
		customRegistry = prometheus.NewRegistry()
		globalManager = NewManager(append(opts, WithPrometheusRegistry(customRegistry))...)
		err = nil
	})
	return err
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.ticks = auto.NewCounter(m.counterOpts("ticks_total", "Reconciliation ticks completed"))
	m.tickDuration = auto.NewHistogram(m.histogramOpts("tick_duration_milliseconds", "Duration of one reconciliation tick"))
	m.tickErrors = auto.NewCounterVec(m.counterOpts("tick_errors_total", "Tick failures by kind"), []string{"kind"})
	m.transitions = auto.NewCounterVec(m.counterOpts("transitions_total", "Ledger transitions by kind"), []string{"kind"})
	m.refunds = auto.NewCounter(m.counterOpts("refunds_total", "Match results refunded after a remote correction"))

	m.competitors = auto.NewGauge(m.gaugeOpts("competitors", "Competitors resolved for the run"))
	m.matches = auto.NewGauge(m.gaugeOpts("matches", "Matches tracked by the ledger"))
	m.dirtyRows = auto.NewGauge(m.gaugeOpts("dirty_rows", "Competitor rows waiting to be persisted"))

	m.notifications = auto.NewCounterVec(m.counterOpts("notifications_total", "Notifications sent by result"), []string{"result"})
	m.persistenceLatency = auto.NewHistogramVec(
		m.histogramOpts("persistence_latency_milliseconds", "Row store latency by operation"),
		[]string{"op"},
	)
	m.persistenceErrors = auto.NewCounterVec(m.counterOpts("persistence_errors_total", "Row store failures by operation"), []string{"op"})
	m.sourceLatency = auto.NewHistogramVec(
		m.histogramOpts("source_latency_milliseconds", "Tournament source request latency by operation"),
		[]string{"op"},
	)
	m.sourceErrors = auto.NewCounterVec(m.counterOpts("source_errors_total", "Tournament source failures by operation"), []string{"op"})

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// RecordTick records a completed tick and its duration.
func RecordTick(latencyMs float64) {
	globalManager.ticks.Inc()
	globalManager.tickDuration.Observe(latencyMs)
}

// RecordTickError counts a failed tick.
func RecordTickError(kind string) {
	globalManager.tickErrors.WithLabelValues(kind).Inc()
}

// RecordTransition counts one ledger transition.
func RecordTransition(kind string) {
	globalManager.transitions.WithLabelValues(kind).Inc()
}

// RecordRefund counts one refunded result.
func RecordRefund() {
	globalManager.refunds.Inc()
}

// UpdateCompetitors sets the resolved competitor count.
func UpdateCompetitors(count int) {
	globalManager.competitors.Set(float64(count))
}

// UpdateMatches sets the tracked match count.
func UpdateMatches(count int) {
	globalManager.matches.Set(float64(count))
}

// UpdateDirtyRows sets the number of rows awaiting persistence.
func UpdateDirtyRows(count int) {
	globalManager.dirtyRows.Set(float64(count))
}

// RecordNotification counts a notification attempt.
func RecordNotification(err error) {
	globalManager.notifications.WithLabelValues(result(err)).Inc()
}

// RecordPersistence records one row store call.
func RecordPersistence(op string, latencyMs float64, err error) {
	globalManager.persistenceLatency.WithLabelValues(op).Observe(latencyMs)
	if err != nil {
		globalManager.persistenceErrors.WithLabelValues(op).Inc()
	}
}

// RecordSourceRequest records one tournament source call.
func RecordSourceRequest(op string, latencyMs float64, err error) {
	globalManager.sourceLatency.WithLabelValues(op).Observe(latencyMs)
	if err != nil {
		globalManager.sourceErrors.WithLabelValues(op).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
