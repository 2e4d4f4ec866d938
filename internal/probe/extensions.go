// Package probe runs the environment checks behind the status page: optional
// feature availability, filesystem writability and a small telemetry snapshot.
// Every probe is fault-isolated and reports a negative or default value instead of
// failing.
package probe

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"encoding/xml"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"slices"
)

// Extension is a named optional feature and the check that tells whether it is
// available in this process.
type Extension struct {
	Name  string
	Check func() bool
}

// ExtensionStatus is the outcome of checking one Extension.
type ExtensionStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// CheckExtensions runs every check in order. The result has exactly one entry per
// extension, in the same order. A nil or panicking check reports false.
func CheckExtensions(exts []Extension) []ExtensionStatus {
	res := make([]ExtensionStatus, 0, len(exts))
	for _, e := range exts {
		res = append(res, ExtensionStatus{Name: e.Name, Available: safeCheck(e.Check)})
	}
	return res
}

func safeCheck(check func() bool) (ok bool) {
	if check == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return check()
}

// DefaultExtensions returns the fixed extension list shown on the status page:
// database driver, PNG codec, image-processing capability, HTTP client, XML and
// ZIP archive support. imagingLoaded reports whether the image capability is
// present; it may be nil.
func DefaultExtensions(imagingLoaded func() bool) []Extension {
	return []Extension{
		{Name: "postgres", Check: DriverRegistered("postgres")},
		{Name: "png", Check: pngRoundTrip},
		{Name: "imaging", Check: imagingLoaded},
		{Name: "http", Check: httpClientAvailable},
		{Name: "xml", Check: xmlRoundTrip},
		{Name: "zip", Check: zipRoundTrip},
	}
}

// DriverRegistered returns a check reporting whether a database/sql driver with
// the given name has been registered.
func DriverRegistered(name string) func() bool {
	return func() bool {
		return slices.Contains(sql.Drivers(), name)
	}
}

func pngRoundTrip() bool {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return false
	}

	cfg, err := png.DecodeConfig(&buf)
	return err == nil && cfg.Width == 1 && cfg.Height == 1
}

func httpClientAvailable() bool {
	t, ok := http.DefaultTransport.(*http.Transport)
	if !ok || t == nil {
		return false
	}

	req, err := http.NewRequest(http.MethodGet, "http://localhost/", nil)
	return err == nil && req.URL.Host == "localhost"
}

type xmlProbe struct {
	XMLName xml.Name `xml:"probe"`
	Value   string   `xml:"value,attr"`
}

func xmlRoundTrip() bool {
	out, err := xml.Marshal(xmlProbe{Value: "ok"})
	if err != nil {
		return false
	}

	var in xmlProbe
	if err := xml.Unmarshal(out, &in); err != nil {
		return false
	}
	return in.Value == "ok"
}

func zipRoundTrip() bool {
	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	f, err := zw.Create("probe.txt")
	if err != nil {
		return false
	}
	if _, err := f.Write([]byte("ok")); err != nil {
		return false
	}
	if err := zw.Close(); err != nil {
		return false
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil || len(zr.File) != 1 {
		return false
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		return false
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	return err == nil && string(body) == "ok"
}
