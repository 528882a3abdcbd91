package memory

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"

	"github.com/dustin/go-humanize"

	"thumbgen/internal/logging"
)

// DefaultRatio is the share of the container limit given to the Go heap.
// The rest covers goroutine stacks and image buffers in flight.
const DefaultRatio = 0.85

// LimitResult describes what ConfigureLimit did.
type LimitResult struct {
	// Source is "GOMEMLIMIT", "config" or "none".
	Source         string
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// Configured reports whether a Go memory limit is in effect.
func (r LimitResult) Configured() bool {
	return r.GoMemLimit > 0
}

// ConfigureLimit sets the Go memory limit to ratio of containerLimit. An
// explicit GOMEMLIMIT environment variable wins; an empty containerLimit
// leaves the runtime alone.
func ConfigureLimit(containerLimit string, ratio float64) (LimitResult, error) {
	if env := os.Getenv("GOMEMLIMIT"); env != "" {
		res := LimitResult{Source: "GOMEMLIMIT"}
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			res.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		return res, nil
	}

	if containerLimit == "" {
		logging.Debug("memory.limit not set, GOMEMLIMIT will not be configured automatically")
		return LimitResult{Source: "none"}, nil
	}

	if ratio <= 0 || ratio > 1 {
		return LimitResult{}, fmt.Errorf("memory.ratio %v outside (0, 1]", ratio)
	}

	bytes, err := humanize.ParseBytes(containerLimit)
	if err != nil {
		return LimitResult{}, fmt.Errorf("invalid memory.limit %q: %w", containerLimit, err)
	}
	if bytes == 0 || bytes > math.MaxInt64 {
		return LimitResult{}, fmt.Errorf("memory.limit %q out of range", containerLimit)
	}

	goLimit := int64(float64(bytes) * ratio)
	debug.SetMemoryLimit(goLimit)

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		humanize.IBytes(uint64(goLimit)), ratio*100, humanize.IBytes(bytes))

	return LimitResult{
		Source:         "config",
		ContainerLimit: int64(bytes),
		GoMemLimit:     goLimit,
		Ratio:          ratio,
	}, nil
}
