// Package transform turns a decoded image into a thumbnail: orientation
// correction, fit/crop/pad geometry, an optional watermark, a light sharpen
// pass, and output format selection.
//
// Pixels are never touched directly except by the sharpen kernel; decoding,
// scaled drawing, text and encoding go through the Raster capability so the
// geometry and kernel math can be tested against a recording fake.
package transform
