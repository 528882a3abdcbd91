package transform

import (
	"image"
	"math"
)

// OrientedSize returns the canvas size after applying EXIF orientation o to
// a w×h image. Orientations 5–8 swap the axes.
func OrientedSize(o, w, h int) (int, int) {
	if o >= 5 && o <= 8 {
		return h, w
	}
	return w, h
}

// OrientationMatrix returns the transform that maps a w×h source onto its
// upright canvas for EXIF orientation o. Unknown orientations map to Identity.
func OrientationMatrix(o, w, h int) Affine {
	fw, fh := float64(w), float64(h)
	switch o {
	case 2: // mirror horizontal
		return Affine{A: -1, D: 1, E: fw}
	case 3: // rotate 180
		return Affine{A: -1, D: -1, E: fw, F: fh}
	case 4: // mirror vertical
		return Affine{A: 1, D: -1, F: fh}
	case 5: // mirror horizontal, rotate 90 CW (transpose)
		return Affine{B: 1, C: 1}
	case 6: // rotate 90 CW
		return Affine{B: 1, C: -1, E: fh}
	case 7: // mirror horizontal, rotate 90 CCW (transverse)
		return Affine{B: -1, C: -1, E: fh, F: fw}
	case 8: // rotate 90 CCW
		return Affine{B: -1, C: 1, F: fw}
	default:
		return Identity
	}
}

// Layout describes how an oriented source lands on the output canvas.
type Layout struct {
	Width, Height int
	Src           image.Rectangle
	Dst           image.Rectangle
	Pad           bool
}

// FitSize scales w×h so its longer edge equals size, keeping at least 1px on
// the shorter edge.
func FitSize(w, h, size int) (int, int) {
	longer := w
	if h > longer {
		longer = h
	}
	scale := float64(size) / float64(longer)
	tw := int(math.Round(float64(w) * scale))
	th := int(math.Round(float64(h) * scale))
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th
}

// Plan computes the output layout for a w×h oriented source.
func Plan(w, h int, opts Options) Layout {
	size := opts.Size
	full := image.Rect(0, 0, w, h)

	switch opts.Shape {
	case ShapeSquareCrop:
		side := w
		if h < side {
			side = h
		}
		x0 := (w - side) / 2
		y0 := (h - side) / 2
		return Layout{
			Width:  size,
			Height: size,
			Src:    image.Rect(x0, y0, x0+side, y0+side),
			Dst:    image.Rect(0, 0, size, size),
		}

	case ShapeSquarePad:
		tw, th := FitSize(w, h, size)
		x0 := (size - tw) / 2
		y0 := (size - th) / 2
		if x0 < 0 {
			x0 = 0
		}
		if y0 < 0 {
			y0 = 0
		}
		return Layout{
			Width:  size,
			Height: size,
			Src:    full,
			Dst:    image.Rect(x0, y0, x0+tw, y0+th),
			Pad:    true,
		}

	default:
		tw, th := FitSize(w, h, size)
		return Layout{
			Width:  tw,
			Height: th,
			Src:    full,
			Dst:    image.Rect(0, 0, tw, th),
		}
	}
}

// Watermark placement constants.
const (
	watermarkOpacity   = 0.35
	watermarkFontRatio = 0.05
	watermarkMinFont   = 12
	watermarkPadRatio  = 0.02
	watermarkMinPad    = 8
)

// WatermarkStyle places watermark text at the bottom-right of a w×h canvas.
func WatermarkStyle(w, h int) TextStyle {
	size := math.Max(watermarkMinFont, math.Round(float64(w)*watermarkFontRatio))
	pad := math.Max(watermarkMinPad, math.Round(float64(w)*watermarkPadRatio))
	return TextStyle{
		Size:    size,
		Color:   watermarkColor,
		Opacity: watermarkOpacity,
		X:       float64(w) - pad,
		Y:       float64(h) - pad,
	}
}
