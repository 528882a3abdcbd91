package transform

import (
	"image"
	"image/color"
)

// Output MIME types.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

// Canvas is an opaque handle to a raster owned by a Raster implementation.
type Canvas interface {
	Width() int
	Height() int
}

// Affine is a 2D affine transform in canvas order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Affine{A: 1, D: 1}

// Apply maps a point through the transform.
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// TextStyle positions a single line of text. X is the right edge of the
// text and Y the bottom of its line box.
type TextStyle struct {
	Size    float64
	Color   color.NRGBA
	Opacity float64
	X, Y    float64
}

// Raster is the imaging capability the engine drives. Implementations own
// pixel storage, decoding and encoding.
type Raster interface {
	// Decode reads an encoded image into a new canvas.
	Decode(data []byte) (Canvas, error)
	// NewCanvas returns a fully transparent canvas.
	NewCanvas(width, height int) Canvas
	// DrawAffine paints src onto dst through m.
	DrawAffine(src, dst Canvas, m Affine)
	// DrawRegion scales srcRect of src into dstRect of dst, compositing over.
	DrawRegion(src Canvas, srcRect image.Rectangle, dst Canvas, dstRect image.Rectangle)
	// FillRect replaces rect of dst with c.
	FillRect(dst Canvas, rect image.Rectangle, c color.NRGBA)
	// DrawText composites one line of text onto dst.
	DrawText(dst Canvas, text string, style TextStyle) error
	// ReadPixels returns a copy of the canvas pixels.
	ReadPixels(c Canvas) *image.NRGBA
	// WritePixels replaces the canvas pixels with px.
	WritePixels(c Canvas, px *image.NRGBA)
	// SampleAlpha reports whether any pixel on a grid×grid sampling lattice
	// (fewer points for smaller canvases) is not fully opaque.
	SampleAlpha(c Canvas, grid int) bool
	// Encode serialises the canvas; quality in [0.1, 1] applies to JPEG only.
	Encode(c Canvas, mime string, quality float64) ([]byte, error)
}
