package main

import (
	"net/http"
)

// healthcheckHandler is an HTTP handler that returns the current status of the application.
// It responds with a JSON object containing:
// - The service status ("available")
// - The current environment (from app.config)
// - The application version (from build information)
// If JSON serialization fails, it logs the error and returns a 500 Internal Server Error response.
func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.env,
			"version":     version,
		},
	}

	// Attempt to write JSON response using the application's helper method
	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
