// Package ziparchive writes uncompressed ("store" method) ZIP archives with a
// fixed, reproducible byte layout: no extra fields, no data descriptors, zero
// timestamps, a central directory, and a single end-of-central-directory
// record.
//
// Archives are limited to 65535 entries and 32-bit sizes and offsets; ZIP64
// is not produced.
package ziparchive
