package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"thumbgen/internal/logging"
	"thumbgen/internal/transform"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	_ "golang.org/x/image/bmp" // BMP format support
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/tiff" // TIFF format support
	_ "golang.org/x/image/webp" // WebP format support
)

// ErrTooLarge reports a source whose pixel count exceeds MaxImagePixels.
var ErrTooLarge = errors.New("image exceeds pixel limit")

var (
	fontOnce sync.Once
	fontFace *truetype.Font
	fontErr  error
)

func watermarkFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		fontFace, fontErr = truetype.Parse(goregular.TTF)
		if fontErr != nil {
			logging.Error("failed to parse embedded watermark font: %v", fontErr)
		}
	})
	return fontFace, fontErr
}

type canvas struct {
	img *image.NRGBA
}

func (c *canvas) Width() int  { return c.img.Bounds().Dx() }
func (c *canvas) Height() int { return c.img.Bounds().Dy() }

// Raster implements transform.Raster on top of imaging, gg and the standard
// image codecs. Decoding never applies EXIF orientation; the engine does that
// explicitly. A Raster is stateless and safe for concurrent use.
type Raster struct {
	maxPixels int
}

// NewRaster returns a Raster that rejects sources larger than maxPixels.
// A non-positive limit selects MaxImagePixels.
func NewRaster(maxPixels int) *Raster {
	if maxPixels <= 0 {
		maxPixels = MaxImagePixels
	}
	return &Raster{maxPixels: maxPixels}
}

var _ transform.Raster = (*Raster)(nil)

func nrgba(c transform.Canvas) *image.NRGBA {
	cv, ok := c.(*canvas)
	if !ok {
		panic(fmt.Sprintf("media: foreign canvas %T", c))
	}
	return cv.img
}

// Decode implements transform.Raster.
func (r *Raster) Decode(data []byte) (transform.Canvas, error) {
	dims, err := ImageDimensionsOf(data)
	if err != nil {
		return nil, err
	}
	if dims.Width*dims.Height > r.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, dims.Width, dims.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(false))
	if err != nil {
		return nil, err
	}
	logging.Debug("decoded %s image %dx%d", dims.Format, dims.Width, dims.Height)
	return &canvas{img: imaging.Clone(img)}, nil
}

// NewCanvas implements transform.Raster.
func (r *Raster) NewCanvas(width, height int) transform.Canvas {
	return &canvas{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// DrawAffine maps each source pixel center through m and writes it to the
// destination pixel that contains the result.
func (r *Raster) DrawAffine(src, dst transform.Canvas, m transform.Affine) {
	s, d := nrgba(src), nrgba(dst)
	sw, sh := s.Bounds().Dx(), s.Bounds().Dy()
	dw, dh := d.Bounds().Dx(), d.Bounds().Dy()

	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			fx, fy := m.Apply(float64(x)+0.5, float64(y)+0.5)
			dx, dy := int(math.Floor(fx)), int(math.Floor(fy))
			if dx < 0 || dy < 0 || dx >= dw || dy >= dh {
				continue
			}
			si := s.PixOffset(x, y)
			di := d.PixOffset(dx, dy)
			copy(d.Pix[di:di+4], s.Pix[si:si+4])
		}
	}
}

// DrawRegion scales srcRect with a Lanczos filter and composites it over
// dstRect.
func (r *Raster) DrawRegion(src transform.Canvas, srcRect image.Rectangle, dst transform.Canvas, dstRect image.Rectangle) {
	s, d := nrgba(src), nrgba(dst)
	region := s
	if srcRect != s.Bounds() {
		region = imaging.Crop(s, srcRect)
	}
	if srcRect.Dx() != dstRect.Dx() || srcRect.Dy() != dstRect.Dy() {
		region = imaging.Resize(region, dstRect.Dx(), dstRect.Dy(), imaging.Lanczos)
	}
	draw.Draw(d, dstRect, region, image.Point{}, draw.Over)
}

// FillRect implements transform.Raster.
func (r *Raster) FillRect(dst transform.Canvas, rect image.Rectangle, c color.NRGBA) {
	draw.Draw(nrgba(dst), rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// DrawText renders text right-aligned at style.X with the bottom of the line
// box on style.Y, using the embedded Go Regular face.
func (r *Raster) DrawText(dst transform.Canvas, text string, style transform.TextStyle) error {
	f, err := watermarkFont()
	if err != nil {
		return err
	}
	d := nrgba(dst)
	face := truetype.NewFace(f, &truetype.Options{Size: style.Size})
	defer face.Close()

	dc := gg.NewContext(d.Bounds().Dx(), d.Bounds().Dy())
	dc.SetFontFace(face)
	dc.SetRGBA(
		float64(style.Color.R)/255,
		float64(style.Color.G)/255,
		float64(style.Color.B)/255,
		style.Opacity,
	)
	descent := float64(face.Metrics().Descent) / 64
	dc.DrawStringAnchored(text, style.X, style.Y-descent, 1, 0)

	draw.Draw(d, d.Bounds(), dc.Image(), image.Point{}, draw.Over)
	return nil
}

// ReadPixels implements transform.Raster.
func (r *Raster) ReadPixels(c transform.Canvas) *image.NRGBA {
	return imaging.Clone(nrgba(c))
}

// WritePixels implements transform.Raster.
func (r *Raster) WritePixels(c transform.Canvas, px *image.NRGBA) {
	d := nrgba(c)
	draw.Draw(d, d.Bounds(), px, px.Bounds().Min, draw.Src)
}

// SampleAlpha probes at most grid×grid evenly spaced pixels and reports
// whether any of them is not fully opaque.
func (r *Raster) SampleAlpha(c transform.Canvas, grid int) bool {
	img := nrgba(c)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 || grid <= 0 {
		return false
	}
	gx, gy := min(grid, w), min(grid, h)
	for j := 0; j < gy; j++ {
		y := (2*j + 1) * h / (2 * gy)
		for i := 0; i < gx; i++ {
			x := (2*i + 1) * w / (2 * gx)
			if img.Pix[img.PixOffset(x, y)+3] != 0xFF {
				return true
			}
		}
	}
	return false
}

// Encode implements transform.Raster. Quality is on the 0.1–1.0 scale.
func (r *Raster) Encode(c transform.Canvas, mime string, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch mime {
	case transform.MIMEJPEG:
		q := int(math.Round(quality * 100))
		err = imaging.Encode(&buf, nrgba(c), imaging.JPEG, imaging.JPEGQuality(q))
	case transform.MIMEPNG:
		err = imaging.Encode(&buf, nrgba(c), imaging.PNG)
	default:
		return nil, fmt.Errorf("unsupported output type %q", mime)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
