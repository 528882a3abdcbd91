package transform

import (
	"image"
	"math"
)

// SharpenAmount is the strength of the post-resize sharpen pass.
const SharpenAmount = 0.15

// SharpenKernel returns the 3×3 kernel for amount a in row-major order.
func SharpenKernel(a float64) [9]float64 {
	return [9]float64{
		0, -1 * a, 0,
		-1 * a, 1 + 4*a, -1 * a,
		0, -1 * a, 0,
	}
}

// Sharpen convolves the R, G and B channels of px with SharpenKernel(amount).
// Alpha is untouched and the outermost ring of pixels is left unfiltered.
// Results are clamped to [0, 255] and rounded half to even.
func Sharpen(px *image.NRGBA, amount float64) {
	b := px.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return
	}

	k := SharpenKernel(amount)
	src := make([]uint8, len(px.Pix))
	copy(src, px.Pix)

	idx := func(x, y int) int { return px.PixOffset(b.Min.X+x, b.Min.Y+y) }

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			base := idx(x, y)
			for c := 0; c < 3; c++ {
				v := 0.0
				i := 0
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						v += float64(src[idx(x+kx, y+ky)+c]) * k[i]
						i++
					}
				}
				px.Pix[base+c] = clampByte(v)
			}
		}
	}
}

func clampByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
