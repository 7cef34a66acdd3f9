// Package metrics provides Prometheus metrics for the scout similarity service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Known label values for search outcomes and gate decisions.
const (
	GateApplied  = "applied"
	GateSkipped  = "skipped"
	GateFallback = "fallback"
	GateCacheHit = "cache_hit"
)

// Manager manages all Prometheus metrics for the scout service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Ingest
	recordsIngested  prometheus.Counter
	recordsRejected  *prometheus.CounterVec
	recordsDuplicate prometheus.Counter
	totalRecords     prometheus.Gauge

	// Search
	searchesTotal       *prometheus.CounterVec
	searchLatency       *prometheus.HistogramVec
	candidatesEvaluated prometheus.Histogram
	roleGateDecisions   *prometheus.CounterVec
	covarianceTiers     *prometheus.CounterVec
	archetypeDetections *prometheus.CounterVec

	// Snapshot
	snapshotRebuildDuration prometheus.Histogram
	snapshotLastUnix        prometheus.Gauge
	snapshotCount           prometheus.Counter
	normalizedCohorts       prometheus.Gauge
	skippedCohorts          prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Queue
	queueSize              prometheus.Gauge
	queueCapacity          prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueEnqueueRate       prometheus.Counter
	queueDequeueRate       prometheus.Counter
	queueEnqueueErrors     prometheus.Counter
	queueProcessingLatency prometheus.Histogram

	// Worker
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerIdleCount         prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Bus
	busMessages *prometheus.CounterVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "scout",
		subsystem:        "similarity",
		histogramBuckets: prometheus.DefBuckets,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval returns how often the global system gauges are refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = m.histogramBuckets
	}
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.recordsIngested = auto.NewCounter(m.counterOpts("records_ingested_total",
		"Total number of player-season records accepted"))
	m.recordsRejected = auto.NewCounterVec(m.counterOpts("records_rejected_total",
		"Total number of player-season records rejected by reason"), []string{"reason"})
	m.recordsDuplicate = auto.NewCounter(m.counterOpts("records_duplicate_total",
		"Total number of ingest batches skipped as already applied"))
	m.totalRecords = auto.NewGauge(m.gaugeOpts("records",
		"Number of player-season records in the published snapshot"))

	m.searchesTotal = auto.NewCounterVec(m.counterOpts("searches_total",
		"Total number of searches by mode and status"), []string{"mode", "status"})
	m.searchLatency = auto.NewHistogramVec(m.histogramOpts("search_latency_milliseconds",
		"Search latency in milliseconds", []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}),
		[]string{"mode"})
	m.candidatesEvaluated = auto.NewHistogram(m.histogramOpts("candidates_evaluated",
		"Number of candidates scored per search", prometheus.ExponentialBuckets(1, 4, 8)))
	m.roleGateDecisions = auto.NewCounterVec(m.counterOpts("role_gate_decisions_total",
		"Role gate outcomes"), []string{"decision"})
	m.covarianceTiers = auto.NewCounterVec(m.counterOpts("covariance_estimates_total",
		"Covariance estimates by tier"), []string{"tier"})
	m.archetypeDetections = auto.NewCounterVec(m.counterOpts("archetype_detections_total",
		"Archetype detections by position group"), []string{"group"})

	m.snapshotRebuildDuration = auto.NewHistogram(m.histogramOpts("snapshot_rebuild_duration_milliseconds",
		"Snapshot normalization and publish duration in milliseconds", nil))
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_unix",
		"Unix timestamp of the last snapshot publish"))
	m.snapshotCount = auto.NewCounter(m.counterOpts("snapshot_count_total",
		"Total number of snapshots published"))
	m.normalizedCohorts = auto.NewGauge(m.gaugeOpts("cohorts_normalized",
		"Cohorts that met the minimum size in the last snapshot"))
	m.skippedCohorts = auto.NewGauge(m.gaugeOpts("cohorts_skipped",
		"Cohorts below the minimum size in the last snapshot"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", nil), []string{"endpoint", "method", "status_code"})

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the search job queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio",
		"Queue utilization ratio (current size / capacity)"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Total number of jobs enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Total number of jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Total number of enqueue errors"))
	m.queueProcessingLatency = auto.NewHistogram(m.histogramOpts("queue_processing_latency_milliseconds",
		"Time a job waited in the queue in milliseconds", nil))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured number of search workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of active workers"))
	m.workerIdleCount = auto.NewGauge(m.gaugeOpts("worker_idle_count", "Number of idle workers"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts("worker_processing_latency_milliseconds",
		"Worker job processing latency in milliseconds", nil))
	m.workerErrorRate = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of worker errors"))

	m.busMessages = auto.NewCounterVec(m.counterOpts("bus_messages_total",
		"Messages handled on the NATS bus by subject and outcome"), []string{"subject", "outcome"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Total number of errors by component"), []string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordRecordsIngested adds n accepted records.
func RecordRecordsIngested(n int) {
	globalManager.recordsIngested.Add(float64(n))
}

// RecordRecordRejected increments the rejected counter for reason.
func RecordRecordRejected(reason string) {
	globalManager.recordsRejected.WithLabelValues(reason).Inc()
}

// RecordIngestDuplicate increments the duplicate batch counter.
func RecordIngestDuplicate() {
	globalManager.recordsDuplicate.Inc()
}

// UpdateTotalRecords sets the snapshot record count.
func UpdateTotalRecords(count int) {
	globalManager.totalRecords.Set(float64(count))
}

// RecordSearch counts a finished search.
func RecordSearch(mode, status string) {
	globalManager.searchesTotal.WithLabelValues(mode, status).Inc()
}

// RecordSearchLatency records search latency in milliseconds.
func RecordSearchLatency(mode string, latencyMs float64) {
	globalManager.searchLatency.WithLabelValues(mode).Observe(latencyMs)
}

// RecordCandidatesEvaluated records how many candidates a search scored.
func RecordCandidatesEvaluated(n int) {
	globalManager.candidatesEvaluated.Observe(float64(n))
}

// RecordRoleGateDecision counts a role gate outcome. Unknown decisions are
// rejected so the label cardinality stays fixed.
func RecordRoleGateDecision(decision string) error {
	switch decision {
	case GateApplied, GateSkipped, GateFallback, GateCacheHit:
	default:
		return ErrUnknownLabel
	}
	globalManager.roleGateDecisions.WithLabelValues(decision).Inc()
	return nil
}

// RecordCovarianceTier counts a covariance estimate by tier.
func RecordCovarianceTier(tier string) {
	globalManager.covarianceTiers.WithLabelValues(tier).Inc()
}

// RecordArchetypeDetection counts an archetype detection for group.
func RecordArchetypeDetection(group string) {
	globalManager.archetypeDetections.WithLabelValues(group).Inc()
}

// RecordSnapshotPublished records a snapshot publish and its duration.
func RecordSnapshotPublished(duration time.Duration, normalized, skipped int) {
	globalManager.snapshotRebuildDuration.Observe(float64(duration.Microseconds()) / 1000)
	globalManager.snapshotLastUnix.Set(float64(time.Now().Unix()))
	globalManager.snapshotCount.Inc()
	globalManager.normalizedCohorts.Set(float64(normalized))
	globalManager.skippedCohorts.Set(float64(skipped))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordQueueProcessingLatency records queue wait latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// UpdateWorkerIdleCount sets the number of idle workers.
func UpdateWorkerIdleCount(count int) {
	globalManager.workerIdleCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// RecordBusMessage counts a bus message for subject with outcome ack, nak or publish.
func RecordBusMessage(subject, outcome string) {
	globalManager.busMessages.WithLabelValues(subject, outcome).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
