package media

import (
	"bytes"
	"image"
)

// MaxImagePixels is the largest source (width * height) the raster will
// decode. A 100MP image uses roughly 400MB as NRGBA.
const MaxImagePixels = 100_000_000

// ImageDimensions holds image width, height and the detected codec name.
type ImageDimensions struct {
	Width  int
	Height int
	Format string
}

// ImageDimensionsOf returns image dimensions without fully decoding the image.
func ImageDimensionsOf(data []byte) (*ImageDimensions, error) {
	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &ImageDimensions{
		Width:  config.Width,
		Height: config.Height,
		Format: format,
	}, nil
}
