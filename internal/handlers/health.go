package handlers

import (
	"net/http"
	"runtime"
	"time"

	"thumbgen/internal/startup"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Uptime        string `json:"uptime"`
	Workers       int    `json:"workers"`
	ActiveBatches int    `json:"activeBatches"`
	TotalBatches  int    `json:"totalBatches"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. HEAD requests get
// headers only.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	stats := h.GetStats()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if r.Method == http.MethodHead {
		return
	}

	writeJSON(w, HealthResponse{
		Status:        "healthy",
		Version:       startup.Version,
		Uptime:        time.Since(h.started).Round(time.Second).String(),
		Workers:       h.runner.Workers(),
		ActiveBatches: stats.ActiveBatches,
		TotalBatches:  stats.TotalBatches,
		GoVersion:     runtime.Version(),
		NumCPU:        runtime.NumCPU(),
		NumGoroutine:  runtime.NumGoroutine(),
	})
}
