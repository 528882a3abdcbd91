package transform

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidOptions reports a ProcessingOptions value outside its domain.
var ErrInvalidOptions = errors.New("invalid processing options")

// Size bounds for the longer thumbnail edge.
const (
	MinSize = 64
	MaxSize = 4096
)

// Shape selects how the source is fitted into the target size.
type Shape string

const (
	// ShapeFit scales the longer edge to Size and keeps the aspect ratio.
	ShapeFit Shape = "fit"
	// ShapeSquareCrop crops the centered square and scales it to Size×Size.
	ShapeSquareCrop Shape = "square-crop"
	// ShapeSquarePad fits the image and centers it on a padded Size×Size canvas.
	ShapeSquarePad Shape = "square-pad"
)

// Mode is the short label used in thumbnail names and the manifest.
func (s Shape) Mode() string {
	switch s {
	case ShapeSquareCrop:
		return "crop"
	case ShapeSquarePad:
		return "pad"
	default:
		return "fit"
	}
}

// ParseShape accepts the canonical names and the short mode labels.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fit", "":
		return ShapeFit, nil
	case "square-crop", "crop", "square":
		return ShapeSquareCrop, nil
	case "square-pad", "pad":
		return ShapeSquarePad, nil
	default:
		return "", fmt.Errorf("%w: unknown shape %q", ErrInvalidOptions, s)
	}
}

// Format selects the output encoding.
type Format string

const (
	// FormatAuto picks PNG for images with transparency and JPEG otherwise.
	FormatAuto Format = "auto"
	// FormatJPEG always encodes JPEG.
	FormatJPEG Format = "jpg"
	// FormatPNG always encodes PNG.
	FormatPNG Format = "png"
)

// ParseFormat accepts auto, jpg/jpeg and png.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return FormatAuto, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidOptions, s)
	}
}

// Options configures every thumbnail of a batch. It is a plain value and is
// shared read-only by all workers.
type Options struct {
	Size      int    `json:"size" mapstructure:"size"`
	Shape     Shape  `json:"shape" mapstructure:"shape"`
	PadColor  string `json:"padColor" mapstructure:"pad_color"`
	Format    Format `json:"format" mapstructure:"format"`
	Quality   int    `json:"quality" mapstructure:"quality"`
	Watermark string `json:"watermark,omitempty" mapstructure:"watermark"`
	Sharpen   bool   `json:"sharpen" mapstructure:"sharpen"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Size:     512,
		Shape:    ShapeFit,
		PadColor: "#FFFFFF",
		Format:   FormatAuto,
		Quality:  85,
		Sharpen:  true,
	}
}

// Validate checks every field against its domain.
func (o Options) Validate() error {
	if o.Size < MinSize || o.Size > MaxSize {
		return fmt.Errorf("%w: size %d outside [%d, %d]", ErrInvalidOptions, o.Size, MinSize, MaxSize)
	}
	switch o.Shape {
	case ShapeFit, ShapeSquareCrop, ShapeSquarePad:
	default:
		return fmt.Errorf("%w: unknown shape %q", ErrInvalidOptions, o.Shape)
	}
	switch o.Format {
	case FormatAuto, FormatJPEG, FormatPNG:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidOptions, o.Format)
	}
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("%w: quality %d outside [1, 100]", ErrInvalidOptions, o.Quality)
	}
	if _, err := ParseHexColor(o.PadColor); err != nil {
		return err
	}
	return nil
}

// ParseHexColor parses "#RRGGBB", "RRGGBB" or "#RGB" into an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: pad color %q is not #RRGGBB", ErrInvalidOptions, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: pad color %q is not #RRGGBB", ErrInvalidOptions, s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// EncoderQuality maps a 1–100 quality setting onto the encoder's 0.1–1.0
// scale, clamping out-of-range requests.
func EncoderQuality(quality int) float64 {
	q := float64(quality) / 100
	if q < 0.1 {
		return 0.1
	}
	if q > 1 {
		return 1
	}
	return q
}
