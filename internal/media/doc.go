// Package media implements the pixel operations behind thumbnail
// generation on top of disintegration/imaging and fogleman/gg.
//
// [Raster] satisfies transform.Raster: it decodes JPEG, PNG, GIF, BMP, TIFF
// and WebP sources, composes canvases with affine draws and fills, renders
// watermark text with the embedded Go font, and encodes JPEG or PNG.
// Sources larger than the configured pixel limit fail with [ErrTooLarge]
// before being decoded.
package media
