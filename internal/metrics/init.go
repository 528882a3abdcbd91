package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"completed", "cancelled"} {
		BatchesTotal.WithLabelValues(status)
	}

	for _, strategy := range []string{"parallel", "sequential", "sequential-fallback"} {
		BatchDuration.WithLabelValues(strategy)
	}

	for _, status := range []string{"success", "failure"} {
		ItemsTotal.WithLabelValues(status)
		ItemDuration.WithLabelValues(status)
	}

	for _, format := range []string{"jpeg", "png", "gif", "webp", "bmp", "tiff", "unknown"} {
		DecodeByFormat.WithLabelValues(format)
	}

	for _, sink := range []string{"dir", "bucket"} {
		SinkWritesTotal.WithLabelValues(sink, "success")
		SinkWritesTotal.WithLabelValues(sink, "error")
		SinkWriteDuration.WithLabelValues(sink)
	}

	for _, op := range []string{"read", "readdir"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}
}
