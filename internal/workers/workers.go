package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride names the environment variable that pins the pool size.
const EnvOverride = "THUMBGEN_WORKERS"

const (
	// MinPoolSize is the smallest pool the dispatcher will run with.
	MinPoolSize = 2
	// smallHostCap and largeHostCap bound the pool on hosts below and at or
	// above largeHostThreshold available CPUs.
	smallHostCap       = 4
	largeHostCap       = 6
	largeHostThreshold = 8
)

// PoolSize returns the pool size for a host advertising hint parallel
// execution slots: clamp(2, hint>=8 ? 6 : 4, hint).
func PoolSize(hint int) int {
	ceiling := smallHostCap
	if hint >= largeHostThreshold {
		ceiling = largeHostCap
	}

	size := hint
	if size > ceiling {
		size = ceiling
	}
	if size < MinPoolSize {
		size = MinPoolSize
	}
	return size
}

// Available returns the number of execution slots the process may use.
// It respects container CPU limits via GOMAXPROCS (Go 1.19+).
func Available() int {
	return runtime.GOMAXPROCS(0)
}

// Count returns the pool size for thumbnail batches.
//
// An explicit positive count wins, then the THUMBGEN_WORKERS environment
// variable, then PoolSize(Available()).
func Count(explicit int) int {
	if explicit > 0 {
		return explicit
	}

	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			return count
		}
	}

	return PoolSize(Available())
}
