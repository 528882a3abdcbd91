package metrics

import (
	"time"

	"thumbgen/internal/batch"
)

// batchObserver implements batch.Observer using the Prometheus metrics
// declared in this package.
type batchObserver struct{}

// NewBatchObserver creates an observer that records dispatcher activity
// into the Prometheus counters and histograms declared in metrics.go.
func NewBatchObserver() batch.Observer {
	return &batchObserver{}
}

func (o *batchObserver) BatchStarted(_ string, items, _ int) {
	BatchesInProgress.Inc()
	BatchItems.Observe(float64(items))
}

func (o *batchObserver) BatchFinished(_ string, status batch.Status, strategy batch.Strategy, d time.Duration, archiveBytes int) {
	BatchesInProgress.Dec()
	BatchesTotal.WithLabelValues(string(status)).Inc()
	BatchDuration.WithLabelValues(string(strategy)).Observe(d.Seconds())
	if archiveBytes > 0 {
		ArchiveBytes.Observe(float64(archiveBytes))
	}
}

func (o *batchObserver) ItemFinished(ok bool, d time.Duration) {
	status := "success"
	if !ok {
		status = "failure"
	}
	ItemsTotal.WithLabelValues(status).Inc()
	ItemDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (o *batchObserver) WorkerStarted() {
	WorkersActive.Inc()
}

func (o *batchObserver) WorkerStopped() {
	WorkersActive.Dec()
}

func (o *batchObserver) FallbackStarted(_ string) {
	FallbackTotal.Inc()
}

func (o *batchObserver) SourceDetected(format string) {
	DecodeByFormat.WithLabelValues(format).Inc()
}
