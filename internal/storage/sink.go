package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"thumbgen/internal/batch"
	"thumbgen/internal/logging"
	"thumbgen/internal/metrics"
)

// ErrUnsafePath reports an archive path that would escape the output root.
var ErrUnsafePath = errors.New("unsafe output path")

// Sink persists a finished batch and returns where it went.
type Sink interface {
	Name() string
	Save(ctx context.Context, outcome *batch.Outcome) (string, error)
}

// Multi saves to every sink in order and joins their locations. It stops at
// the first failure.
type Multi []Sink

// Name implements Sink.
func (m Multi) Name() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

// Save implements Sink.
func (m Multi) Save(ctx context.Context, outcome *batch.Outcome) (string, error) {
	locations := make([]string, 0, len(m))
	for _, s := range m {
		loc, err := Save(ctx, s, outcome)
		if err != nil {
			return strings.Join(locations, ", "), err
		}
		locations = append(locations, loc)
	}
	return strings.Join(locations, ", "), nil
}

// Save calls s.Save and records the write in metrics.
func Save(ctx context.Context, s Sink, outcome *batch.Outcome) (string, error) {
	if m, ok := s.(Multi); ok {
		return m.Save(ctx, outcome)
	}

	start := time.Now()
	loc, err := s.Save(ctx, outcome)
	metrics.SinkWriteDuration.WithLabelValues(s.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SinkWritesTotal.WithLabelValues(s.Name(), "error").Inc()
		return "", fmt.Errorf("%s sink: %w", s.Name(), err)
	}
	metrics.SinkWritesTotal.WithLabelValues(s.Name(), "success").Inc()
	logging.Debug("Batch %s saved to %s", outcome.BatchID, loc)
	return loc, nil
}
