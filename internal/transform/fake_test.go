package transform

import (
	"errors"
	"image"
	"image/color"
)

type fakeCanvas struct {
	id  int
	img *image.NRGBA
}

func (c *fakeCanvas) Width() int  { return c.img.Bounds().Dx() }
func (c *fakeCanvas) Height() int { return c.img.Bounds().Dy() }

type drawCall struct {
	src, dst int
	srcRect  image.Rectangle
	dstRect  image.Rectangle
}

type textCall struct {
	text  string
	style TextStyle
}

// fakeRaster decodes "WxH" payloads into opaque canvases and records every
// drawing call.
type fakeRaster struct {
	decodeW, decodeH int
	decodeErr        error
	encodeErr        error
	alpha            bool

	next     int
	affines  []Affine
	draws    []drawCall
	fills    []image.Rectangle
	texts    []textCall
	reads    int
	writes   int
	encoded  []string
	encodedQ []float64
	canvases []*fakeCanvas
}

func (r *fakeRaster) newCanvas(w, h int) *fakeCanvas {
	r.next++
	c := &fakeCanvas{id: r.next, img: image.NewNRGBA(image.Rect(0, 0, w, h))}
	r.canvases = append(r.canvases, c)
	return c
}

func (r *fakeRaster) Decode(data []byte) (Canvas, error) {
	if r.decodeErr != nil {
		return nil, r.decodeErr
	}
	c := r.newCanvas(r.decodeW, r.decodeH)
	for i := 3; i < len(c.img.Pix); i += 4 {
		c.img.Pix[i] = 0xFF
	}
	return c, nil
}

func (r *fakeRaster) NewCanvas(w, h int) Canvas { return r.newCanvas(w, h) }

func (r *fakeRaster) DrawAffine(src, dst Canvas, m Affine) {
	r.affines = append(r.affines, m)
}

func (r *fakeRaster) DrawRegion(src Canvas, sr image.Rectangle, dst Canvas, dr image.Rectangle) {
	r.draws = append(r.draws, drawCall{
		src: src.(*fakeCanvas).id, dst: dst.(*fakeCanvas).id,
		srcRect: sr, dstRect: dr,
	})
}

func (r *fakeRaster) FillRect(dst Canvas, rect image.Rectangle, c color.NRGBA) {
	r.fills = append(r.fills, rect)
}

func (r *fakeRaster) DrawText(dst Canvas, text string, style TextStyle) error {
	r.texts = append(r.texts, textCall{text: text, style: style})
	return nil
}

func (r *fakeRaster) ReadPixels(c Canvas) *image.NRGBA {
	r.reads++
	src := c.(*fakeCanvas).img
	cp := image.NewNRGBA(src.Bounds())
	copy(cp.Pix, src.Pix)
	return cp
}

func (r *fakeRaster) WritePixels(c Canvas, px *image.NRGBA) {
	r.writes++
	c.(*fakeCanvas).img = px
}

func (r *fakeRaster) SampleAlpha(c Canvas, grid int) bool { return r.alpha }

func (r *fakeRaster) Encode(c Canvas, mime string, quality float64) ([]byte, error) {
	if r.encodeErr != nil {
		return nil, r.encodeErr
	}
	r.encoded = append(r.encoded, mime)
	r.encodedQ = append(r.encodedQ, quality)
	return []byte(mime), nil
}

var errFake = errors.New("fake failure")
