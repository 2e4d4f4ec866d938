package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Canvas is a handle on a single in-memory raster. Canvases are not safe for
// concurrent use and must be released exactly once; Release is idempotent.
type Canvas struct {
	engine   *Engine
	img      *image.RGBA
	format   string
	released bool
}

// QueryFormats lists the formats this canvas can be tagged with or decoded from.
func (c *Canvas) QueryFormats() ([]string, error) {
	if c.released {
		return nil, ErrReleased
	}

	names := make([]string, 0, len(c.engine.codecs))
	for _, cd := range c.engine.codecs {
		names = append(names, cd.name)
	}
	return names, nil
}

// NewImage allocates a w×h image filled with bg, replacing any previous image.
func (c *Canvas) NewImage(w, h int, bg color.Color) error {
	img, err := c.alloc(w, h)
	if err != nil {
		return err
	}

	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	c.img = img
	return nil
}

// NewGradient allocates a w×h image filled with a diagonal gradient running from
// the top-left corner (from) to the bottom-right corner (to).
func (c *Canvas) NewGradient(w, h int, from, to color.RGBA) error {
	img, err := c.alloc(w, h)
	if err != nil {
		return err
	}

	// Span of the normalized diagonal; a 1-pixel axis contributes nothing.
	spanX := float64(max(w-1, 1))
	spanY := float64(max(h-1, 1))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := (float64(x)/spanX + float64(y)/spanY) / 2
			img.SetRGBA(x, y, color.RGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: lerp(from.A, to.A, t),
			})
		}
	}

	c.img = img
	return nil
}

// SetFormat tags the image with an output format. The format must have an encoder.
func (c *Canvas) SetFormat(name string) error {
	if err := c.ready(); err != nil {
		return err
	}

	cd, ok := c.engine.lookup(name)
	if !ok || cd.encode == nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}

	c.format = cd.name
	return nil
}

// Format returns the output format the canvas is tagged with.
func (c *Canvas) Format() string {
	return c.format
}

// Bounds returns the bounds of the current image, or the zero rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	if c.img == nil {
		return image.Rectangle{}
	}
	return c.img.Bounds()
}

// Annotate draws text centered on the image. When the requested face cannot be
// loaded a fixed bitmap face is used instead.
func (c *Canvas) Annotate(text string, spec FontSpec, fill color.Color) error {
	if err := c.ready(); err != nil {
		return err
	}

	face, _ := loadFace(spec)
	defer face.Close()

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(fill),
		Face: face,
	}

	b := c.img.Bounds()
	m := face.Metrics()
	advance := d.MeasureString(text)

	d.Dot = fixed.Point26_6{
		X: fixed.I(b.Min.X) + (fixed.I(b.Dx())-advance)/2,
		Y: fixed.I(b.Min.Y) + (fixed.I(b.Dy())+m.Ascent-m.Descent)/2,
	}
	d.DrawString(text)

	return nil
}

// Resize resamples the image to w×h with a Catmull-Rom kernel.
func (c *Canvas) Resize(w, h int) error {
	if err := c.ready(); err != nil {
		return err
	}

	dst, err := c.alloc(w, h)
	if err != nil {
		return err
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), c.img, c.img.Bounds(), draw.Src, nil)
	c.img = dst
	return nil
}

// Blob encodes the image in its tagged format.
func (c *Canvas) Blob() ([]byte, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if c.format == "" {
		return nil, fmt.Errorf("%w: no output format set", ErrUnsupportedFormat)
	}

	cd, _ := c.engine.lookup(c.format)

	var buf bytes.Buffer
	if err := cd.encode(&buf, c.img); err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.format, err)
	}
	return buf.Bytes(), nil
}

// Release drops the pixel buffer and returns the handle to the engine.
func (c *Canvas) Release() {
	if c == nil || c.released {
		return
	}

	c.released = true
	c.img = nil
	c.engine.live.Add(-1)
}

func (c *Canvas) ready() error {
	if c.released {
		return ErrReleased
	}
	if c.img == nil {
		return ErrNoImage
	}
	return nil
}

func (c *Canvas) alloc(w, h int) (*image.RGBA, error) {
	if c.released {
		return nil, ErrReleased
	}
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}
