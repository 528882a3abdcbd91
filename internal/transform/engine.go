package transform

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	// ErrDecode reports bytes the raster could not decode.
	ErrDecode = errors.New("decode failed")
	// ErrEncode reports a failure turning the finished canvas into bytes.
	ErrEncode = errors.New("encode failed")
)

// AlphaSampleGrid bounds the transparency probe used by FormatAuto.
const AlphaSampleGrid = 64

var watermarkColor = color.NRGBA{A: 0xFF}

// Output is one encoded thumbnail.
type Output struct {
	Width  int
	Height int
	MIME   string
	Data   []byte
}

// Engine renders thumbnails through a Raster. It holds no per-item state and
// is safe for concurrent use when its Raster is.
type Engine struct {
	raster Raster
}

// NewEngine returns an engine backed by r.
func NewEngine(r Raster) *Engine {
	return &Engine{raster: r}
}

// Transform decodes data, rotates it upright according to orientation, and
// renders the thumbnail described by opts.
func (e *Engine) Transform(data []byte, orientation int, opts Options) (Output, error) {
	pad, err := ParseHexColor(opts.PadColor)
	if err != nil && opts.Shape == ShapeSquarePad {
		return Output{}, err
	}

	src, err := e.raster.Decode(data)
	if err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if src.Width() <= 0 || src.Height() <= 0 {
		return Output{}, fmt.Errorf("%w: empty image", ErrDecode)
	}

	upright := e.orient(src, orientation)
	layout := Plan(upright.Width(), upright.Height(), opts)

	canvas := e.raster.NewCanvas(layout.Width, layout.Height)
	if layout.Pad {
		e.raster.FillRect(canvas, image.Rect(0, 0, layout.Width, layout.Height), pad)
	}
	e.raster.DrawRegion(upright, layout.Src, canvas, layout.Dst)

	if opts.Watermark != "" {
		if err := e.raster.DrawText(canvas, opts.Watermark, WatermarkStyle(layout.Width, layout.Height)); err != nil {
			return Output{}, fmt.Errorf("%w: watermark: %v", ErrEncode, err)
		}
	}

	if opts.Sharpen && layout.Width >= 3 && layout.Height >= 3 {
		px := e.raster.ReadPixels(canvas)
		Sharpen(px, SharpenAmount)
		e.raster.WritePixels(canvas, px)
	}

	mime := e.outputMIME(canvas, opts)
	encoded, err := e.raster.Encode(canvas, mime, EncoderQuality(opts.Quality))
	if err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return Output{
		Width:  layout.Width,
		Height: layout.Height,
		MIME:   mime,
		Data:   encoded,
	}, nil
}

func (e *Engine) orient(src Canvas, orientation int) Canvas {
	if orientation < 2 || orientation > 8 {
		return src
	}
	w, h := src.Width(), src.Height()
	cw, ch := OrientedSize(orientation, w, h)
	dst := e.raster.NewCanvas(cw, ch)
	e.raster.DrawAffine(src, dst, OrientationMatrix(orientation, w, h))
	return dst
}

func (e *Engine) outputMIME(canvas Canvas, opts Options) string {
	switch opts.Format {
	case FormatPNG:
		return MIMEPNG
	case FormatJPEG:
		return MIMEJPEG
	}
	if opts.Shape == ShapeSquarePad {
		return MIMEJPEG
	}
	if e.raster.SampleAlpha(canvas, AlphaSampleGrid) {
		return MIMEPNG
	}
	return MIMEJPEG
}
