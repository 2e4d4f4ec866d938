package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// serve starts the HTTP server and shuts it down gracefully on SIGINT or SIGTERM.
func (app *application) serve() error {
	// Create a new http.Server struct with configuration from the application.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.port),                      // Set the server address using the configured port.
		Handler:      app.routes(),                                             // Set the HTTP handler (router) for incoming requests.
		IdleTimeout:  time.Minute,                                              // Maximum amount of time to wait for the next request.
		ReadTimeout:  5 * time.Second,                                          // Maximum duration for reading the entire request.
		WriteTimeout: 10 * time.Second,                                         // Maximum duration before timing out writes of the response.
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError), // Custom error logger for the server.
	}

	// Receives the result of srv.Shutdown once a signal has been caught.
	shutdownError := make(chan error)

	// Start a background goroutine to listen for OS interrupt or terminate signals.
	go func() {
		quit := make(chan os.Signal, 1) // Channel to receive OS signals.

		// Notify the quit channel on SIGINT (Ctrl+C) or SIGTERM (termination).
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		s := <-quit // Block until a signal is received.

		app.logger.Info("shutting down server", "signal", s.String())

		// Give in-flight requests a few seconds to finish.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	// Log that the server is starting, including the address and environment.
	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.env)

	// ListenAndServe returns http.ErrServerClosed once Shutdown has been called.
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
