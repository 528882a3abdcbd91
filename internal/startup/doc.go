// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration is layered by viper: built-in defaults, then an optional YAML
// file, then THUMBGEN_-prefixed environment variables, then command-line
// flags bound by the CLI. Nested keys map to environment variables by
// replacing dots with underscores:
//
//   - thumbnail.size (THUMBGEN_THUMBNAIL_SIZE): longer edge in pixels (default: 512)
//   - thumbnail.shape: fit, square-crop or square-pad (default: fit)
//   - thumbnail.pad_color: pad fill as #RRGGBB (default: #FFFFFF)
//   - thumbnail.format: auto, jpg or png (default: auto)
//   - thumbnail.quality: JPEG quality 1-100 (default: 85)
//   - thumbnail.watermark: watermark text (default: none)
//   - thumbnail.sharpen: post-resize sharpen (default: true)
//   - workers (THUMBGEN_WORKERS): pool size, 0 for automatic
//   - output.dir, output.archive_name, output.write_files: local sink
//   - storage.endpoint, storage.bucket_name, storage.access_key,
//     storage.secret_key, storage.prefix, storage.use_ssl: bucket sink
//   - memory.limit, memory.ratio, memory.high_water, memory.critical_water:
//     GOMEMLIMIT setup and worker backpressure, see package memory
//   - server.port, server.max_upload_mb, server.shutdown_timeout,
//     server.log_health_checks, server.metrics_interval: HTTP server
//
// LOG_LEVEL and DEBUG are read by the logging package directly.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
//   - [LogBanner]: banner and system information
//   - [LogConfig]: effective configuration, secrets masked
//   - [LogHTTPRoutes]: route count, and the route table at debug level
//   - [LogServerStarted]: server endpoints and startup duration
//   - [LogShutdownInitiated], [LogShutdownComplete]: graceful shutdown
//
// # Example Usage
//
//	v := startup.NewViper()
//	cfg, err := startup.LoadConfig(v, configFile)
//	if err != nil {
//	    logging.Fatal("Configuration error: %v", err)
//	}
//	startup.LogBanner()
//	startup.LogConfig(cfg, workers.Count(cfg.Workers))
package startup
