// Package exif extracts the handful of EXIF fields the thumbnail pipeline
// needs from a JPEG buffer: orientation, camera make and model, and the
// original capture time.
//
// Extract never fails. Buffers that are not JPEG, carry no EXIF block, or
// contain a malformed TIFF structure all yield Metadata{Orientation: 1}.
// Every offset read from the file is bounds checked against the APP1 segment
// that contains it.
package exif
