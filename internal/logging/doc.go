// Package logging provides a simple leveled logging interface for thumbgen.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (per-item pipeline steps)
//   - INFO: General operational messages (batch start/finish)
//   - WARN: Warning conditions (item failures, fallback passes)
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, DEBUG=true,
// or SetLevel once configuration has been loaded.
package logging
