package main

import (
	"io"
	"net/http"

	"webcore.tomcat.net/internal/probe"
	"webcore.tomcat.net/internal/view"
)

// collectReport runs the status probes for one request. Probe failures are
// already folded into the report; they are only logged at debug level.
func (app *application) collectReport(r *http.Request) probe.Report {
	report := app.reporter.Collect()

	if report.WriteErr != nil {
		app.logger.Debug("filesystem not writable", "uri", r.URL.RequestURI(), "error", report.WriteErr)
	}

	return report
}

// statusPageHandler renders the HTML status page.
func (app *application) statusPageHandler(w http.ResponseWriter, r *http.Request) {
	report := app.collectReport(r)

	err := app.writeHTML(w, http.StatusOK, func(buf io.Writer) error {
		return app.views.Status(buf, view.StatusPage{Report: report})
	})
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// statusJSONHandler returns the same report as the status page, as JSON.
func (app *application) statusJSONHandler(w http.ResponseWriter, r *http.Request) {
	report := app.collectReport(r)

	err := app.writeJSON(w, http.StatusOK, envelope{"status": report}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
