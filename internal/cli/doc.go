// Package cli implements the thumbgen command line.
//
// Commands:
//   - run: thumbnail the given files and directories into one archive
//   - watch: thumbnail images as they land in a directory
//   - serve: run the HTTP batch API
//   - version: print build information
//
// Flags are bound into viper when a command executes, so they take
// precedence over THUMBGEN_* environment variables and the config file.
package cli
