// Package metrics provides Prometheus metrics for the sideout team-balancing service.
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

// Manager manages all Prometheus metrics for the sideout service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Engine metrics - generation pipeline outcomes
	generationsTotal   prometheus.Counter
	generationErrors   prometheus.Counter
	reshufflesTotal    prometheus.Counter
	generationDuration prometheus.Histogram
	optimizerPasses    prometheus.Histogram
	swapsAccepted      prometheus.Counter
	finalSpread        prometheus.Histogram

	// Mutation metrics - manual fine-tuning traffic
	playerSwapsApplied  prometheus.Counter
	playerSwapsRejected prometheus.Counter
	lockChanges         prometheus.Counter
	lockMisses          prometheus.Counter

	// Store metrics - assignment retention
	storeAssignments prometheus.Gauge
	storeCapacity    prometheus.Gauge
	storeEvictions   prometheus.Counter

	// Queue metrics - batch generation backlog
	queueDepth       prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueRejections  prometheus.Counter

	// Worker metrics - batch job processing
	workerActiveCount prometheus.Gauge
	jobLatency        prometheus.Histogram
	jobErrors         prometheus.Counter

	// HTTP metrics - request traffic
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "sideout",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
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

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Engine metrics
	m.generationsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generations_total",
		Help:      "Total number of team generations completed",
	})

	m.generationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generation_errors_total",
		Help:      "Total number of team generations that failed",
	})

	m.reshufflesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reshuffles_total",
		Help:      "Total number of reshuffle operations",
	})

	m.generationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "generation_duration_milliseconds",
		Help:      "Histogram of full generation pipeline duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.optimizerPasses = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "optimizer_passes",
		Help:      "Histogram of optimizer pass counts per generation",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 50, 100, 200},
	})

	m.swapsAccepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "optimizer_swaps_accepted_total",
		Help:      "Total number of improving swaps accepted by the optimizer",
	})

	m.finalSpread = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "final_score_spread",
		Help:      "Histogram of max-min team score spread after optimization",
		Buckets:   []float64{0, 0.5, 1, 2, 3, 5, 8, 13, 21, 34},
	})

	// Mutation metrics
	m.playerSwapsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "player_swaps_applied_total",
		Help:      "Total number of manual player swaps applied",
	})

	m.playerSwapsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "player_swaps_rejected_total",
		Help:      "Total number of manual player swaps rejected (locked, missing, bad index)",
	})

	m.lockChanges = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lock_changes_total",
		Help:      "Total number of lock flag changes applied",
	})

	m.lockMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lock_misses_total",
		Help:      "Total number of lock requests for unknown players",
	})

	// Store metrics
	m.storeAssignments = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_assignments",
		Help:      "Current number of assignments retained in the store",
	})

	m.storeCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_capacity",
		Help:      "Maximum number of assignments the store retains",
	})

	m.storeEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_evictions_total",
		Help:      "Total number of assignments evicted from the store",
	})

	// Queue metrics
	m.queueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_depth",
		Help:      "Current size of the generation job queue (backlog indicator)",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum generation job queue capacity",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Queue utilization ratio (current size / capacity)",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of generation jobs enqueued",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of generation jobs dequeued",
	})

	m.queueRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_rejections_total",
		Help:      "Total number of generation jobs rejected by a full queue",
	})

	// Worker metrics
	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of active generation workers",
	})

	m.jobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_latency_milliseconds",
		Help:      "Generation job processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.jobErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_errors_total",
		Help:      "Total number of generation job failures",
	})

	// HTTP metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// System metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordGeneration records one completed generation with its diagnostics.
func RecordGeneration(durationMs float64, passes int, spread float64) {
	globalManager.generationsTotal.Inc()
	globalManager.generationDuration.Observe(durationMs)
	globalManager.optimizerPasses.Observe(float64(passes))
	globalManager.finalSpread.Observe(spread)
}

// RecordGenerationError increments the generation error counter.
func RecordGenerationError() {
	globalManager.generationErrors.Inc()
}

// RecordReshuffle increments the reshuffle counter.
func RecordReshuffle() {
	globalManager.reshufflesTotal.Inc()
}

// RecordSwapsAccepted adds accepted optimizer swaps.
func RecordSwapsAccepted(n int) {
	globalManager.swapsAccepted.Add(float64(n))
}

// RecordPlayerSwapApplied increments the manual swap applied counter.
func RecordPlayerSwapApplied() {
	globalManager.playerSwapsApplied.Inc()
}

// RecordPlayerSwapRejected increments the manual swap rejected counter.
func RecordPlayerSwapRejected() {
	globalManager.playerSwapsRejected.Inc()
}

// RecordLockChange increments the lock change counter.
func RecordLockChange() {
	globalManager.lockChanges.Inc()
}

// RecordLockMiss increments the unknown-player lock counter.
func RecordLockMiss() {
	globalManager.lockMisses.Inc()
}

// UpdateStoreAssignments sets the current number of stored assignments.
func UpdateStoreAssignments(count int) {
	globalManager.storeAssignments.Set(float64(count))
}

// UpdateStoreCapacity sets the store capacity gauge.
func UpdateStoreCapacity(capacity int) {
	globalManager.storeCapacity.Set(float64(capacity))
}

// RecordStoreEviction increments the store eviction counter.
func RecordStoreEviction() {
	globalManager.storeEvictions.Inc()
}

// UpdateQueueDepth sets the current queue depth.
func UpdateQueueDepth(size int) {
	globalManager.queueDepth.Set(float64(size))
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
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

// RecordQueueRejection increments the full-queue rejection counter.
func RecordQueueRejection() {
	globalManager.queueRejections.Inc()
}

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordJobLatency records generation job processing latency.
func RecordJobLatency(latencyMs float64) {
	globalManager.jobLatency.Observe(latencyMs)
}

// RecordJobError increments the job error counter.
func RecordJobError() {
	globalManager.jobErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
