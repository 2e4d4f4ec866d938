package imaging

import (
	"fmt"
)

// Sample kinds understood by GenerateSample. Any other kind yields the flat
// fallback image.
const (
	KindGradient = "gradient"
	KindText     = "text"
	KindResize   = "resize"
)

// ConfirmationText is drawn onto the text sample.
const ConfirmationText = "It Works!"

// ContentTypePNG is the content type of every generated sample.
const ContentTypePNG = "image/png"

var (
	gradientFrom = MustParseHex("#667eea")
	gradientTo   = MustParseHex("#764ba2")
	textFrom     = MustParseHex("#f6f8fa")
	textTo       = MustParseHex("#e6e0f8")
	textFill     = MustParseHex("#1f2937")
	resizeFrom   = MustParseHex("#ff6b6b")
	resizeTo     = MustParseHex("#4ecdc4")
	flatFill     = MustParseHex("#667eea")

	textFont = FontSpec{Name: "Go-Regular", Size: 32}
)

// Sample is a generated image ready to be written to a response.
type Sample struct {
	Data        []byte
	ContentType string
}

// GenerateSample synthesizes the sample image for kind. Kinds are matched
// exactly, so an empty or padded kind gets the flat image. The canvas is
// released on every path, and a panic inside the image code is returned as an
// error.
func GenerateSample(c Capability, kind string) (s Sample, err error) {
	if c == nil || !c.Loaded() {
		return Sample{}, ErrUnavailable
	}

	canvas, err := c.Acquire()
	if err != nil {
		return Sample{}, fmt.Errorf("acquire canvas: %w", err)
	}
	defer canvas.Release()

	defer func() {
		if r := recover(); r != nil {
			s = Sample{}
			err = fmt.Errorf("generate %q sample: %v", kind, r)
		}
	}()

	if err := drawSample(canvas, kind); err != nil {
		return Sample{}, fmt.Errorf("generate %q sample: %w", kind, err)
	}

	blob, err := canvas.Blob()
	if err != nil {
		return Sample{}, err
	}

	return Sample{Data: blob, ContentType: ContentTypePNG}, nil
}

func drawSample(c *Canvas, kind string) error {
	switch kind {
	case KindGradient:
		if err := c.NewGradient(400, 300, gradientFrom, gradientTo); err != nil {
			return err
		}
		return c.SetFormat("png")

	case KindText:
		if err := c.NewGradient(400, 200, textFrom, textTo); err != nil {
			return err
		}
		if err := c.SetFormat("png"); err != nil {
			return err
		}
		return c.Annotate(ConfirmationText, textFont, textFill)

	case KindResize:
		if err := c.NewGradient(400, 300, resizeFrom, resizeTo); err != nil {
			return err
		}
		if err := c.SetFormat("png"); err != nil {
			return err
		}
		return c.Resize(200, 150)

	default:
		// Unrecognized kinds get a flat image, distinct from the gradient sample.
		if err := c.NewImage(200, 200, flatFill); err != nil {
			return err
		}
		return c.SetFormat("png")
	}
}
