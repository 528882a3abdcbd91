package metrics

import (
	"runtime"
	"sync"
	"time"

	"thumbgen/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current statistics
type Stats struct {
	ActiveBatches int
	TotalBatches  int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once

	mu        sync.Mutex
	lastNumGC uint32
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection. It is safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	c.collectMemoryMetrics()

	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()
	BatchesInProgress.Set(float64(stats.ActiveBatches))

	logging.Debug("Metrics collected: active batches=%d, total batches=%d",
		stats.ActiveBatches, stats.TotalBatches)
}

func (c *Collector) collectMemoryMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	GoMemAllocBytes.Set(float64(m.Alloc))
	GoMemSysBytes.Set(float64(m.Sys))
	Goroutines.Set(float64(runtime.NumGoroutine()))

	c.mu.Lock()
	if m.NumGC > c.lastNumGC {
		GoGCRuns.Add(float64(m.NumGC - c.lastNumGC))
	}
	c.lastNumGC = m.NumGC
	c.mu.Unlock()
}
