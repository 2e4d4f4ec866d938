package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"webcore.tomcat.net/internal/imaging"
	"webcore.tomcat.net/internal/view"
)

// capabilityPageHandler probes the image-processing capability and renders the
// test page. The gallery is only shown when the probe found it functional.
func (app *application) capabilityPageHandler(w http.ResponseWriter, r *http.Request) {
	result := imaging.Probe(app.imaging)
	if result.Err != nil {
		app.logger.Debug("imaging capability not functional", "error", result.Err)
	}

	page := view.CapabilityPage{
		Telemetry: app.reporter.Source.Snapshot(),
		Probe:     result,
		ImagePath: sampleImagePath,
	}

	err := app.writeHTML(w, http.StatusOK, func(buf io.Writer) error {
		return app.views.Capability(buf, page)
	})
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// sampleImageHandler streams one generated sample image. The "type" query
// parameter picks the sample; only a missing parameter defaults to the gradient.
func (app *application) sampleImageHandler(w http.ResponseWriter, r *http.Request) {
	kind := app.readString(r.URL.Query(), "type", imaging.KindGradient)

	sample, err := imaging.GenerateSample(app.imaging, kind)
	if err != nil {
		switch {
		case errors.Is(err, imaging.ErrUnavailable):
			app.imagingUnavailableResponse(w, r)
		default:
			app.imageGenerationFailedResponse(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", sample.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(sample.Data)))
	w.Header().Set("Cache-Control", "no-store")

	w.WriteHeader(http.StatusOK)
	w.Write(sample.Data)
}
