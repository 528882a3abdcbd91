// Package middleware provides HTTP middleware for the thumbgen server.
//
// Access logs are written in W3C Extended Log Format with the batch ID of
// the response appended. Request metrics are recorded in Prometheus, and
// JSON responses are gzip-compressed via klauspost/compress.
package middleware
