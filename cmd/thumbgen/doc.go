// Package main provides the entry point for thumbgen.
//
// thumbgen turns a set of images into resized, upright thumbnails packaged
// in one store-only ZIP archive together with a CSV manifest. One bad image
// never aborts a batch: it is reported as a failure and the rest carry on.
//
// # Commands
//
//	thumbgen run photos/ extra.jpg --size 256 --shape pad --out dist/
//	thumbgen watch incoming/ --archive-name inbox.zip
//	thumbgen serve --port 8080
//	thumbgen version
//
// # Configuration
//
// Settings are read, lowest precedence first, from built-in defaults, a
// YAML config file (--config, ./thumbgen.yaml or
// $HOME/.config/thumbgen/thumbgen.yaml), THUMBGEN_* environment variables
// (THUMBGEN_THUMBNAIL_SIZE, THUMBGEN_STORAGE_ENDPOINT, ...) and flags.
// THUMBGEN_WORKERS pins the worker pool size. LOG_LEVEL selects the log
// level (debug/info/warn/error).
//
// # Exit Codes
//
//   - 0: the batch completed, possibly with per-item failures
//   - 130: the batch was interrupted; the partial archive was still written
//   - 1: configuration, input or archive errors
//
// # HTTP API
//
// serve exposes POST /api/batch (multipart "files" parts plus option form
// fields, answered with the archive), GET /api/options/defaults, /healthz,
// /version and /metrics.
package main
