package imaging

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"slices"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Registers the WebP decoder with the image package. WebP is decode-only.
	_ "golang.org/x/image/webp"
)

// codec describes a raster format the engine knows about. A nil encode func marks
// a decode-only format.
type codec struct {
	name   string
	encode func(io.Writer, image.Image) error
}

// builtinCodecs lists every format the engine can support, in the order they are
// reported by QueryFormats.
var builtinCodecs = []codec{
	{name: "png", encode: png.Encode},
	{name: "jpeg", encode: func(w io.Writer, m image.Image) error {
		return jpeg.Encode(w, m, &jpeg.Options{Quality: 90})
	}},
	{name: "gif", encode: func(w io.Writer, m image.Image) error {
		return gif.Encode(w, m, nil)
	}},
	{name: "bmp", encode: bmp.Encode},
	{name: "tiff", encode: func(w io.Writer, m image.Image) error {
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	}},
	{name: "webp"},
}

// BuiltinFormats returns the names of all formats the engine can be built with.
func BuiltinFormats() []string {
	names := make([]string, 0, len(builtinCodecs))
	for _, c := range builtinCodecs {
		names = append(names, c.name)
	}
	return names
}

// selectCodecs filters the builtin codecs down to the requested names. A nil
// selection keeps everything; unknown names are ignored.
func selectCodecs(want []string) []codec {
	if want == nil {
		return slices.Clone(builtinCodecs)
	}

	selected := make([]codec, 0, len(want))
	for _, c := range builtinCodecs {
		if slices.ContainsFunc(want, func(name string) bool {
			return strings.EqualFold(name, c.name)
		}) {
			selected = append(selected, c)
		}
	}
	return selected
}

// normalizeFormat maps aliases onto registry names.
func normalizeFormat(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return name
}
