package memory

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"thumbgen/internal/logging"
	"thumbgen/internal/metrics"
)

// Config holds monitor configuration
type Config struct {
	// LimitBytes is the budget usage is measured against. Zero uses GOMEMLIMIT.
	LimitBytes int64
	// HighWaterMark is the usage below which paused workers resume.
	HighWaterMark float64
	// CriticalWaterMark is the usage at which workers pause.
	CriticalWaterMark float64
	// CheckInterval is how often the heap is sampled.
	CheckInterval time.Duration
}

// DefaultConfig returns the default monitor configuration
func DefaultConfig() Config {
	return Config{
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     time.Second,
	}
}

// Monitor tracks heap usage and pauses workers under pressure.
type Monitor struct {
	config    Config
	limit     int64
	readAlloc func() uint64

	stopChan chan struct{}
	stopOnce sync.Once

	mu        sync.RWMutex
	current   uint64
	paused    bool
	pauseChan chan struct{}
}

// NewMonitor creates a monitor. With no limit available it never pauses.
func NewMonitor(config Config) *Monitor {
	limit := config.LimitBytes
	if limit == 0 {
		if goLimit := debug.SetMemoryLimit(-1); goLimit > 0 && goLimit < 1<<62 {
			limit = goLimit
		}
	}
	if limit == 0 {
		logging.Debug("Memory monitor: no memory limit configured, backpressure disabled")
	} else {
		logging.Info("Memory monitor: pausing workers above %.0f%% of %s",
			config.CriticalWaterMark*100, humanize.IBytes(uint64(limit)))
	}

	return &Monitor{
		config:    config,
		limit:     limit,
		readAlloc: heapAlloc,
		stopChan:  make(chan struct{}),
		pauseChan: make(chan struct{}),
	}
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc
}

// Enabled reports whether the monitor has a limit to enforce.
func (m *Monitor) Enabled() bool {
	return m.limit > 0
}

// Start begins sampling. It is a no-op without a limit.
func (m *Monitor) Start() {
	if !m.Enabled() {
		return
	}
	go m.monitorLoop()
}

// Stop ends sampling and releases any paused workers. It is safe to call
// more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

func (m *Monitor) monitorLoop() {
	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Monitor) check() {
	alloc := m.readAlloc()
	usage := float64(alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = alloc

	switch {
	case usage >= m.config.CriticalWaterMark && !m.paused:
		logging.Warn("Memory critical (%.1f%% of limit), pausing workers", usage*100)
		m.paused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryPauses.Inc()
		go runtime.GC()
	case usage < m.config.HighWaterMark && m.paused:
		logging.Info("Memory recovered (%.1f%% of limit), resuming workers", usage*100)
		m.paused = false
		metrics.MemoryPaused.Set(0)
		close(m.pauseChan)
		m.pauseChan = make(chan struct{})
	}
}

// Wait blocks while memory is critical. It returns ctx.Err() if ctx ends
// first and nil once workers may proceed or the monitor is stopped.
func (m *Monitor) Wait(ctx context.Context) error {
	m.mu.RLock()
	if !m.paused {
		m.mu.RUnlock()
		return nil
	}
	pauseChan := m.pauseChan
	m.mu.RUnlock()

	select {
	case <-pauseChan:
		return nil
	case <-m.stopChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Paused reports whether workers are currently held back.
func (m *Monitor) Paused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// Usage returns the last sampled usage as a fraction of the limit.
func (m *Monitor) Usage() float64 {
	if !m.Enabled() {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(m.current) / float64(m.limit)
}
