// Package storage persists batch outcomes.
//
// A [DirSink] writes the archive (and optionally every manifest and thumbnail
// file) to a local directory; a [BucketSink] uploads the archive and the
// manifest to an S3-compatible bucket through minio-go. [Multi] fans one
// outcome out to several sinks.
package storage
