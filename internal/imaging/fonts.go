package imaging

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSpec selects a face by name and point size.
type FontSpec struct {
	Name string
	Size float64
}

var fontFiles = map[string][]byte{
	"Go-Regular": goregular.TTF,
	"Go-Bold":    gobold.TTF,
	"Go-Mono":    gomono.TTF,
}

// loadFace resolves spec to a face. Unknown names, bad sizes and parse failures
// fall back to a fixed 7x13 bitmap face. The second return value reports whether
// the requested face was used.
func loadFace(spec FontSpec) (font.Face, bool) {
	data, ok := fontFiles[spec.Name]
	if !ok || spec.Size <= 0 {
		return basicfont.Face7x13, false
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return basicfont.Face7x13, false
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    spec.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13, false
	}

	return face, true
}
