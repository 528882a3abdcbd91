package cli

import (
	"context"
	"fmt"
	"io"

	"thumbgen/internal/batch"
	"thumbgen/internal/media"
	"thumbgen/internal/memory"
	"thumbgen/internal/metrics"
	"thumbgen/internal/startup"
	"thumbgen/internal/storage"
	"thumbgen/internal/transform"
	"thumbgen/internal/workers"
)

func newDispatcher(cfg *startup.Config, gate batch.Gate) *batch.Dispatcher {
	engine := transform.NewEngine(media.NewRaster(cfg.MaxPixels))
	return batch.NewThumbnailDispatcher(engine, batch.Config{
		Workers:     workers.Count(cfg.Workers),
		DisablePool: cfg.DisablePool,
		Observer:    metrics.NewBatchObserver(),
		Gate:        gate,
	})
}

// startMemoryMonitor applies the configured memory limit and starts the
// monitor that holds workers back under pressure. Callers must Stop it.
func startMemoryMonitor(cfg *startup.Config) (*memory.Monitor, error) {
	res, err := memory.ConfigureLimit(cfg.Memory.Limit, cfg.Memory.Ratio)
	if err != nil {
		return nil, err
	}
	mcfg := memory.DefaultConfig()
	mcfg.LimitBytes = res.GoMemLimit
	mcfg.HighWaterMark = cfg.Memory.HighWater
	mcfg.CriticalWaterMark = cfg.Memory.CriticalWater

	monitor := memory.NewMonitor(mcfg)
	monitor.Start()
	return monitor, nil
}

// sinks holds the configured destinations. The bucket connection is made
// once and shared by every archive.
type sinks struct {
	output startup.Output
	bucket *storage.BucketSink
}

func newSinks(ctx context.Context, cfg *startup.Config) (*sinks, error) {
	s := &sinks{output: cfg.Output}
	if !cfg.Storage.BucketEnabled() {
		return s, nil
	}

	bucket, err := storage.NewBucketSink(ctx, storage.BucketConfig{
		Endpoint:    cfg.Storage.Endpoint,
		AccessKey:   cfg.Storage.AccessKey,
		SecretKey:   cfg.Storage.SecretKey,
		Bucket:      cfg.Storage.BucketName,
		Region:      cfg.Storage.Region,
		Prefix:      cfg.Storage.Prefix,
		UseSSL:      cfg.Storage.UseSSL,
		ArchiveName: cfg.Output.ArchiveName,
	})
	if err != nil {
		return nil, err
	}
	s.bucket = bucket
	return s, nil
}

// forArchive returns the sink writing an archive called name.
func (s *sinks) forArchive(name string) storage.Sink {
	dir := storage.NewDirSink(s.output.Dir, name, s.output.WriteFiles)
	if s.bucket == nil {
		return dir
	}
	return storage.Multi{dir, s.bucket}
}

// printSummary reports a finished batch in the style of the status line.
func printSummary(w io.Writer, outcome *batch.Outcome, location string) {
	fmt.Fprintf(w, "Done. %d files processed.\n", len(outcome.Results))
	fmt.Fprintf(w, "  Succeeded: %d\n", outcome.SuccessCount)
	fmt.Fprintf(w, "  Failed:    %d\n", outcome.FailureCount())
	for _, f := range outcome.Failures {
		fmt.Fprintf(w, "    %s: %s\n", f.Name, f.Error)
	}
	if outcome.Strategy == batch.StrategySequentialFallback {
		fmt.Fprintln(w, "  Parallel pass failed entirely; results are from the sequential retry.")
	}
	if location != "" {
		fmt.Fprintf(w, "  Archive:   %s\n", location)
	}
}
