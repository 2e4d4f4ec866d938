package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"webcore.tomcat.net/internal/imaging"
	"webcore.tomcat.net/internal/probe"
)

// the page templates are compiled into the binary from the ./templates directory

//go:embed "templates"
var templateFS embed.FS

// StatusPage is the data behind the status page.
type StatusPage struct {
	Report probe.Report
}

// CapabilityPage is the data behind the image capability test page.
type CapabilityPage struct {
	Telemetry probe.Telemetry
	Probe     imaging.ProbeResult
	// ImagePath is the URL of the sample image endpoint; the gallery appends ?type=.
	ImagePath string
}

// GalleryItem is one sample shown on the capability page.
type GalleryItem struct {
	Kind    string
	Alt     string
	Caption string
}

// Gallery lists the samples shown when the capability is functional.
func (p CapabilityPage) Gallery() []GalleryItem {
	return []GalleryItem{
		{Kind: imaging.KindGradient, Alt: "Gradient", Caption: "Gradient"},
		{Kind: imaging.KindText, Alt: "Text", Caption: "Text Overlay"},
		{Kind: imaging.KindResize, Alt: "Resize", Caption: "Resize + Filter"},
	}
}

// Level picks the banner style for the probe result.
func (p CapabilityPage) Level() string {
	switch {
	case p.Probe.Functional:
		return "ok"
	case p.Probe.Loaded:
		return "warn"
	default:
		return "fail"
	}
}

// Renderer holds the parsed page templates. html/template escapes every
// interpolated value for its context.
type Renderer struct {
	status     *template.Template
	capability *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	status, err := template.New("status").ParseFS(templateFS, "templates/base.tmpl", "templates/status.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse status template: %w", err)
	}

	capability, err := template.New("capability").ParseFS(templateFS, "templates/base.tmpl", "templates/capability.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse capability template: %w", err)
	}

	return &Renderer{status: status, capability: capability}, nil
}

// Status renders the status page to w.
func (r *Renderer) Status(w io.Writer, page StatusPage) error {
	return render(w, r.status, page)
}

// Capability renders the capability test page to w.
func (r *Renderer) Capability(w io.Writer, page CapabilityPage) error {
	return render(w, r.capability, page)
}

func render(w io.Writer, t *template.Template, data any) error {
	if err := t.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return nil
}
