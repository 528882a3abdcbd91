// Package handlers provides the HTTP API of the thumbgen server.
//
// It includes handlers for:
//   - Batch thumbnail generation from multipart uploads
//   - Default processing options
//   - Health checks, version and Prometheus metrics
package handlers
