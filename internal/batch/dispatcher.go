package batch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"thumbgen/internal/logging"
	"thumbgen/internal/manifest"
	"thumbgen/internal/mediatypes"
	"thumbgen/internal/model"
	"thumbgen/internal/transform"
	"thumbgen/internal/workers"
	"thumbgen/internal/ziparchive"
)

// Config controls how a Dispatcher executes batches.
type Config struct {
	// Workers is the pool size. Zero selects workers.Count(0).
	Workers int
	// DisablePool runs every batch on a single goroutine.
	DisablePool bool
	// Observer receives lifecycle events; nil disables them.
	Observer Observer
	// Gate, when set, is consulted before each item is taken.
	Gate Gate
}

// Dispatcher runs batches. It holds no per-batch state and may run several
// batches concurrently.
type Dispatcher struct {
	task     Task
	workers  int
	noPool   bool
	observer Observer
	gate     Gate
}

// New returns a Dispatcher that processes each item with task.
func New(task Task, cfg Config) *Dispatcher {
	n := cfg.Workers
	if n <= 0 {
		n = workers.Count(0)
	}
	obs := cfg.Observer
	if obs == nil {
		obs = noopObserver{}
	}
	gate := cfg.Gate
	if gate == nil {
		gate = openGate{}
	}
	return &Dispatcher{
		task:     task,
		workers:  n,
		noPool:   cfg.DisablePool,
		observer: obs,
		gate:     gate,
	}
}

// NewThumbnailDispatcher returns a Dispatcher running ThumbnailTask on engine.
func NewThumbnailDispatcher(engine *transform.Engine, cfg Config) *Dispatcher {
	return New(ThumbnailTask(engine), cfg)
}

// Workers returns the configured pool size.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// Run processes items with opts and packages the results. onProgress may be
// nil. When ctx is cancelled mid-batch Run returns the partial Outcome
// together with ErrCancelled. Archive failures return no Outcome.
func (d *Dispatcher) Run(ctx context.Context, items []model.SourceItem, opts transform.Options, onProgress ProgressFunc) (*Outcome, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	start := time.Now()
	total := len(items)

	strategy := StrategyParallel
	poolSize := min(d.workers, total)
	if d.noPool {
		strategy = StrategySequential
		poolSize = 1
	}

	logging.Info("Batch %s: %d items, strategy %s, %d workers", id, total, strategy, poolSize)
	d.observer.BatchStarted(id, total, poolSize)

	var results []model.ItemResult
	var cancelled bool
	if d.noPool {
		results, cancelled = d.runSequential(ctx, items, opts, onProgress)
	} else {
		results, cancelled = d.runParallel(ctx, items, opts, poolSize, onProgress)
		if !cancelled && len(results) > 0 && allFailed(results) {
			logging.Warn("Batch %s: all %d parallel items failed, retrying sequentially", id, len(results))
			d.observer.FallbackStarted(id)
			strategy = StrategySequentialFallback
			results, cancelled = d.runSequential(ctx, items, opts, nil)
		}
	}

	report := manifest.Aggregate(results)
	archive, err := buildArchive(report.Files)
	if err != nil {
		logging.Error("Batch %s: archive failed: %v", id, err)
		return nil, err
	}

	status := StatusCompleted
	if cancelled {
		status = StatusCancelled
	}

	outcome := &Outcome{
		BatchID:      id,
		Status:       status,
		Strategy:     strategy,
		Archive:      archive,
		Manifest:     report.Manifest,
		Results:      results,
		Failures:     report.Failures,
		Files:        report.Files,
		SuccessCount: len(report.Rows),
		Total:        total,
		Duration:     time.Since(start),
	}

	d.observer.BatchFinished(id, status, strategy, outcome.Duration, len(archive))
	logging.Info("Batch %s %s in %v: %d succeeded, %d failed, %d not started",
		id, status, outcome.Duration.Round(time.Millisecond), outcome.SuccessCount,
		outcome.FailureCount(), total-len(results))

	if cancelled {
		return outcome, ErrCancelled
	}
	return outcome, nil
}

// runParallel drains a preloaded queue with size workers. The calling
// goroutine is the only reader of the results channel.
func (d *Dispatcher) runParallel(ctx context.Context, items []model.SourceItem, opts transform.Options, size int, onProgress ProgressFunc) ([]model.ItemResult, bool) {
	total := len(items)
	queue := make(chan int, total)
	for i := range items {
		queue <- i
	}
	close(queue)

	resultsCh := make(chan model.ItemResult, size)

	var g errgroup.Group
	for w := 0; w < size; w++ {
		g.Go(func() error {
			d.observer.WorkerStarted()
			defer d.observer.WorkerStopped()

			for {
				if ctx.Err() != nil || d.gate.Wait(ctx) != nil {
					return nil
				}
				idx, ok := <-queue
				if !ok {
					return nil
				}
				resultsCh <- d.runItem(ctx, items[idx], opts)
			}
		})
	}

	go func() {
		_ = g.Wait()
		close(resultsCh)
	}()

	results := make([]model.ItemResult, 0, total)
	for res := range resultsCh {
		results = append(results, res)
		if onProgress != nil {
			onProgress(len(results), total)
		}
	}

	return results, len(results) < total && ctx.Err() != nil
}

func (d *Dispatcher) runSequential(ctx context.Context, items []model.SourceItem, opts transform.Options, onProgress ProgressFunc) ([]model.ItemResult, bool) {
	total := len(items)
	results := make([]model.ItemResult, 0, total)

	d.observer.WorkerStarted()
	defer d.observer.WorkerStopped()

	for _, item := range items {
		if ctx.Err() != nil || d.gate.Wait(ctx) != nil {
			return results, true
		}
		results = append(results, d.runItem(ctx, item, opts))
		if onProgress != nil {
			onProgress(len(results), total)
		}
	}
	return results, false
}

// runItem processes one item, converting a panic into a failed result.
func (d *Dispatcher) runItem(ctx context.Context, item model.SourceItem, opts transform.Options) (res model.ItemResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Item %q panicked: %v\n%s", item.Name, r, debug.Stack())
			res = model.Failure(item.Name, fmt.Errorf("%w: %v", ErrExecutionUnit, r))
		}
		if !res.OK() {
			logging.Debug("Item %q failed: %v", item.Name, res.Err)
		}
		d.observer.ItemFinished(res.OK(), time.Since(start))
	}()

	d.observer.SourceDetected(mediatypes.DetectFormat(item.Data))
	res = d.task(ctx, item, opts)
	res.Name = item.Name
	return res
}

func allFailed(results []model.ItemResult) bool {
	for _, r := range results {
		if r.OK() {
			return false
		}
	}
	return true
}

func buildArchive(files []model.FileEntry) ([]byte, error) {
	entries := make([]ziparchive.Entry, len(files))
	for i, f := range files {
		entries[i] = ziparchive.Entry{Path: f.Path, Data: f.Data}
	}
	return ziparchive.Build(entries)
}
