package startup

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"thumbgen/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// LogBanner prints the banner and system information block.
func LogBanner() {
	printBanner()
	logSystemInfo()
}

// LogConfig logs the effective configuration. Secrets are masked.
func LogConfig(cfg *Config, workers int) {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	if cfg.ConfigFile != "" {
		logging.Info("  Config file:         %s", cfg.ConfigFile)
	} else {
		logging.Info("  Config file:         (none, defaults + environment)")
	}
	t := cfg.Thumbnail
	logging.Info("  THUMBNAIL_SIZE:      %d", t.Size)
	logging.Info("  THUMBNAIL_SHAPE:     %s", t.Shape)
	logging.Info("  THUMBNAIL_PAD_COLOR: %s", t.PadColor)
	logging.Info("  THUMBNAIL_FORMAT:    %s", t.Format)
	logging.Info("  THUMBNAIL_QUALITY:   %d", t.Quality)
	logging.Info("  THUMBNAIL_SHARPEN:   %v", t.Sharpen)
	if t.Watermark != "" {
		logging.Info("  THUMBNAIL_WATERMARK: %q", t.Watermark)
	}
	logging.Info("  WORKERS:             %d", workers)
	logging.Info("  DISABLE_POOL:        %v", cfg.DisablePool)
	if cfg.Memory.Limit != "" {
		logging.Info("  MEMORY_LIMIT:        %s (ratio %.2f)", cfg.Memory.Limit, cfg.Memory.Ratio)
	}
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Local output:  %s", cfg.Output.Dir)
	if cfg.Storage.BucketEnabled() {
		logging.Info("    Bucket upload: ENABLED (%s/%s, key %s)", cfg.Storage.Endpoint,
			cfg.Storage.BucketName, maskSecret(cfg.Storage.AccessKey))
	} else {
		logging.Info("    Bucket upload: %s", enabledString(false))
	}
	logging.Info("")
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Batch API:     http://0.0.0.0:%s/api/batch", config.Port)
	logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.Port)
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

func printBanner() {
	banner := `
------------------------------------------------------------
  _   _                     _
 | |_| |__  _   _ _ __ ___ | |__   __ _  ___ _ __
 | __| '_ \| | | | '_ ' _ \| '_ \ / _' |/ _ \ '_ \
 | |_| | | | |_| | | | | | | |_) | (_| |  __/ | | |
  \__|_| |_|\__,_|_| |_| |_|_.__/ \__, |\___|_| |_|
                                  |___/
------------------------------------------------------------`
	fmt.Fprintln(os.Stderr, banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)

	procs := runtime.GOMAXPROCS(0)
	if procs < runtime.NumCPU() {
		logging.Info("  CPUs:            %d of %d (container limit)", procs, runtime.NumCPU())
	} else {
		logging.Info("  CPUs:            %d", procs)
	}

	if limit := debug.SetMemoryLimit(-1); limit < math.MaxInt64 {
		logging.Info("  GOMEMLIMIT:      %s", humanize.IBytes(uint64(limit)))
	} else {
		logging.Info("  GOMEMLIMIT:      unlimited")
	}

	if wd, err := os.Getwd(); err == nil {
		logging.Debug("  Working dir:     %s", wd)
	}
	logging.Info("")
}
