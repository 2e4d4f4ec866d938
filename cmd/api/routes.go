package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Page and endpoint paths. The capability page links to the sample image
// endpoint, so both live under the same prefix.
const (
	statusPagePath     = "/"
	capabilityPagePath = "/test-imaging/"
	sampleImagePath    = "/test-imaging/img"
)

func (app *application) routes() http.Handler {
	// A new httprouter router instance
	router := httprouter.New()

	// Customize the router's behavior for 404 Not Found responses by using our application's
	// notFoundResponse handler which returns a JSON-formatted error response
	router.NotFound = http.HandlerFunc(app.notFoundResponse)

	// Customize the router's behavior for 405 Method Not Allowed responses by using our application's
	// methodNotAllowedResponse handler which returns a JSON-formatted error response
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Register the relevant methods, URL patterns and handler functions
	router.HandlerFunc(http.MethodGet, statusPagePath, app.statusPageHandler)
	router.HandlerFunc(http.MethodHead, statusPagePath, app.statusPageHandler)
	router.HandlerFunc(http.MethodGet, capabilityPagePath, app.capabilityPageHandler)
	router.HandlerFunc(http.MethodHead, capabilityPagePath, app.capabilityPageHandler)
	router.Handler(http.MethodGet, sampleImagePath, app.rateLimit(http.HandlerFunc(app.sampleImageHandler)))

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)
	router.HandlerFunc(http.MethodGet, "/v1/status", app.statusJSONHandler)

	// Nothing here reads a request body; anything above the configured upload
	// size is cut off before it reaches a handler.
	return app.recoverPanic(http.MaxBytesHandler(router, app.config.uploadMaxBytes()))
}
