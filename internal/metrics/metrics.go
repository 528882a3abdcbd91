package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbgen_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thumbgen_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbgen_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thumbgen_http_upload_bytes",
			Help:    "Size of multipart batch uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8), // 64KB .. 1GB
		},
	)
)

// Batch metrics
var (
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbgen_batches_total",
			Help: "Total number of batches by final status",
		},
		[]string{"status"}, // "completed", "cancelled"
	)

	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thumbgen_batch_duration_seconds",
			Help:    "Batch wall-clock duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"strategy"},
	)

	BatchItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thumbgen_batch_items",
			Help:    "Number of source items per batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	BatchesInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbgen_batches_in_progress",
			Help: "Number of batches currently running",
		},
	)

	FallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thumbgen_fallback_total",
			Help: "Batches re-run sequentially after every parallel item failed",
		},
	)

	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbgen_workers_active",
			Help: "Number of worker goroutines currently running",
		},
	)
)

// Item metrics
var (
	ItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbgen_items_total",
			Help: "Total number of processed items by status",
		},
		[]string{"status"}, // "success", "failure"
	)

	ItemDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thumbgen_item_duration_seconds",
			Help:    "Per-item processing duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)

	DecodeByFormat = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbgen_decode_by_format_total",
			Help: "Source images by detected container format",
		},
		[]string{"format"},
	)

	ArchiveBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thumbgen_archive_bytes",
			Help:    "Size of produced archives in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 9), // 16KB .. 1GB
		},
	)
)

// Storage metrics
var (
	SinkWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbgen_sink_writes_total",
			Help: "Total number of sink writes by sink and status",
		},
		[]string{"sink", "status"},
	)

	SinkWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "thumbgen_sink_write_duration_seconds",
			Help:    "Sink write duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"sink"},
	)
)

// Filesystem metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbgen_filesystem_retry_attempts_total",
			Help: "Retries of source reads after stale file handle errors",
		},
		[]string{"operation"}, // "read", "readdir"
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbgen_filesystem_stale_errors_total",
			Help: "Stale file handle errors seen while reading sources",
		},
		[]string{"operation"},
	)

	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbgen_watcher_events_total",
			Help: "Filesystem events seen by the watch command",
		},
		[]string{"event"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thumbgen_watcher_errors_total",
			Help: "Errors reported by the filesystem watcher",
		},
	)
)

// Memory metrics
var (
	GoMemAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbgen_go_memalloc_bytes",
			Help: "Current Go heap allocation in bytes",
		},
	)

	GoMemSysBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbgen_go_memsys_bytes",
			Help: "Total memory obtained from the OS by the Go runtime",
		},
	)

	GoGCRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thumbgen_go_gc_runs_total",
			Help: "Total number of completed GC cycles",
		},
	)

	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbgen_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbgen_memory_paused",
			Help: "1 while workers are held back by memory pressure",
		},
	)

	MemoryPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "thumbgen_memory_pauses_total",
			Help: "Times memory pressure paused the worker pool",
		},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thumbgen_goroutines",
			Help: "Number of live goroutines",
		},
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "thumbgen_app_info",
			Help: "Application build information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
