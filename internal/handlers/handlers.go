package handlers

import (
	"context"
	"sync/atomic"
	"time"

	"thumbgen/internal/batch"
	"thumbgen/internal/metrics"
	"thumbgen/internal/model"
	"thumbgen/internal/storage"
	"thumbgen/internal/transform"
)

// Runner executes a batch. *batch.Dispatcher satisfies it.
type Runner interface {
	Run(ctx context.Context, items []model.SourceItem, opts transform.Options, onProgress batch.ProgressFunc) (*batch.Outcome, error)
	Workers() int
}

// Config holds handler settings.
type Config struct {
	// Defaults fill every option the request leaves out.
	Defaults transform.Options
	// MaxUploadBytes bounds the multipart request body.
	MaxUploadBytes int64
	// Sink, when set, also persists every completed batch.
	Sink storage.Sink
}

type Handlers struct {
	runner  Runner
	config  Config
	started time.Time

	activeBatches atomic.Int64
	totalBatches  atomic.Int64
}

func New(runner Runner, config Config) *Handlers {
	return &Handlers{
		runner:  runner,
		config:  config,
		started: time.Now(),
	}
}

// GetStats implements metrics.StatsProvider.
func (h *Handlers) GetStats() metrics.Stats {
	return metrics.Stats{
		ActiveBatches: int(h.activeBatches.Load()),
		TotalBatches:  int(h.totalBatches.Load()),
	}
}
