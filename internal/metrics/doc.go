// Package metrics provides Prometheus instrumentation for thumbgen.
//
// All metrics are prefixed with "thumbgen_" and registered with the default
// registry through promauto.
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//   - HTTPUploadBytes: Histogram of multipart upload sizes
//
// ## Batch Metrics
//
//   - BatchesTotal: Counter of batches by status (completed/cancelled)
//   - BatchDuration: Histogram of batch duration by strategy
//   - BatchItems: Histogram of items per batch
//   - BatchesInProgress: Gauge of running batches
//   - FallbackTotal: Counter of sequential re-runs
//   - WorkersActive: Gauge of running worker goroutines
//
// ## Item Metrics
//
//   - ItemsTotal: Counter of items by status (success/failure)
//   - ItemDuration: Histogram of per-item duration by status
//   - DecodeByFormat: Counter of source images by detected format
//   - ArchiveBytes: Histogram of archive sizes
//
// ## Storage Metrics
//
//   - SinkWritesTotal: Counter of sink writes by sink and status
//   - SinkWriteDuration: Histogram of sink write duration
//
// ## Filesystem Metrics
//
//   - FilesystemRetryAttempts, FilesystemStaleErrors: ESTALE retries by operation
//   - WatcherEventsTotal, WatcherErrors: directory watcher activity
//
// ## Memory Metrics
//
//   - GoMemAllocBytes, GoMemSysBytes, GoGCRuns, Goroutines
//   - MemoryUsageRatio: heap as a fraction of GOMEMLIMIT
//   - MemoryPaused, MemoryPauses: worker backpressure state and count
//
// # Usage
//
// Mount promhttp.Handler() on the metrics endpoint:
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// The dispatcher reports through [NewBatchObserver], and [Collector]
// refreshes the runtime gauges on an interval while the server runs:
//
//	collector := metrics.NewCollector(server, 15*time.Second)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Item failure ratio:
//
//	sum(rate(thumbgen_items_total{status="failure"}[5m])) / sum(rate(thumbgen_items_total[5m]))
//
// P95 batch duration:
//
//	histogram_quantile(0.95, sum(rate(thumbgen_batch_duration_seconds_bucket[5m])) by (le))
package metrics
