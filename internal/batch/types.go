package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"thumbgen/internal/model"
	"thumbgen/internal/transform"
)

var (
	// ErrCancelled is returned with a partial Outcome when the context was
	// cancelled before every item was taken. It matches context.Canceled.
	ErrCancelled = fmt.Errorf("batch cancelled: %w", context.Canceled)
	// ErrExecutionUnit wraps a panic raised while processing one item.
	ErrExecutionUnit = errors.New("execution unit failed")
)

// Status is the terminal state of a batch.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Strategy records how the batch was executed.
type Strategy string

const (
	// StrategyParallel ran on the worker pool.
	StrategyParallel Strategy = "parallel"
	// StrategySequential ran on one goroutine because the pool was disabled.
	StrategySequential Strategy = "sequential"
	// StrategySequentialFallback re-ran every item sequentially after the
	// parallel pass produced no successes.
	StrategySequentialFallback Strategy = "sequential-fallback"
)

// ProgressFunc receives the number of finished items and the batch total.
// It is called from a single goroutine and done never decreases.
type ProgressFunc func(done, total int)

// Task processes one item and returns its result. It must be safe for
// concurrent use and must not retain or modify item.Data.
type Task func(ctx context.Context, item model.SourceItem, opts transform.Options) model.ItemResult

// Observer receives dispatcher lifecycle events.
type Observer interface {
	BatchStarted(id string, items, workers int)
	BatchFinished(id string, status Status, strategy Strategy, d time.Duration, archiveBytes int)
	ItemFinished(ok bool, d time.Duration)
	WorkerStarted()
	WorkerStopped()
	FallbackStarted(id string)
	SourceDetected(format string)
}

// Gate holds workers back before they take the next item. Wait returns
// ctx.Err() if ctx ends while waiting.
type Gate interface {
	Wait(ctx context.Context) error
}

type openGate struct{}

func (openGate) Wait(context.Context) error { return nil }

type noopObserver struct{}

func (noopObserver) BatchStarted(string, int, int) {}
func (noopObserver) BatchFinished(string, Status, Strategy, time.Duration, int) {}
func (noopObserver) ItemFinished(bool, time.Duration) {}
func (noopObserver) WorkerStarted() {}
func (noopObserver) WorkerStopped() {}
func (noopObserver) FallbackStarted(string) {}
func (noopObserver) SourceDetected(string) {}

// Outcome is the full result of one batch.
type Outcome struct {
	BatchID      string
	Status       Status
	Strategy     Strategy
	Archive      []byte
	Manifest     string
	Results      []model.ItemResult
	Failures     []model.FailureEntry
	Files        []model.FileEntry
	SuccessCount int
	Total        int
	Duration     time.Duration
}

// FailureCount returns the number of failed items.
func (o *Outcome) FailureCount() int {
	return len(o.Failures)
}

// Cancelled reports whether the batch stopped before taking every item.
func (o *Outcome) Cancelled() bool {
	return o.Status == StatusCancelled
}
