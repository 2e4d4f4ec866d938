package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// envelope wraps JSON responses under a top-level key.
type envelope map[string]any

// writeJSON is a helper method for sending JSON responses. It handles marshaling data,
// setting headers, and writing the response body. The function will:
// - Marshal the input data to JSON (returning error on failure)
// - Append a newline to make the response more readable
// - Set any provided headers from the headers map
// - Set the Content-Type header to application/json
// - Write the HTTP status code
// - Send the JSON response body
func (app *application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	// Marshal the data to JSON, returning error if conversion fails
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	// Append newline to make terminal displays cleaner
	js = append(js, '\n')

	// Set any provided headers from the headers map
	for key, value := range headers {
		w.Header()[key] = value
	}

	// Set content type header first to ensure proper JSON handling
	w.Header().Set("Content-Type", "application/json")

	// Write HTTP status code to header
	w.WriteHeader(status)

	// Send the JSON body (already validated via Marshal)
	w.Write(js)

	return nil
}

// writeHTML renders a page into a buffer and only then writes headers and body,
// so a failing render can still be answered with an error response.
func (app *application) writeHTML(w http.ResponseWriter, status int, render func(io.Writer) error) error {
	buf := new(bytes.Buffer)
	if err := render(buf); err != nil {
		return err
	}

	// Every value on the pages is read fresh per request.
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	w.WriteHeader(status)
	w.Write(buf.Bytes())

	return nil
}

// readString returns a string value from the query string, or the provided
// default value if no matching key could be found. A key that is present is
// returned as sent, even when it is empty.
func (app *application) readString(qs url.Values, key string, defaultValue string) string {
	if !qs.Has(key) {
		return defaultValue
	}

	return qs.Get(key)
}
