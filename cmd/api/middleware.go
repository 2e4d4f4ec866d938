package main

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// recoverPanic is a middleware that gracefully handles panics in the application.
// It wraps the next handler in a deferred function that catches any panics,
// ensures the connection is closed, and returns a 500 Internal Server Error response
// to the client with a generic error message.
func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Defer a function to catch any panics that occur during request processing
		defer func() {
			// Recover from any panic and convert the recovered value to an error
			if err := recover(); err != nil {
				// Set the Connection header to "close" to ensure the client knows
				// the connection will be terminated after the response
				w.Header().Set("Connection", "close")

				// The details are logged but not exposed to the client.
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		// Call the next handler in the chain
		next.ServeHTTP(w, r)
	})
}

// clientLimiter keeps a token bucket per client IP address. It is built once
// per application, so every router returned by routes shares the same buckets.
// Idle clients are swept inline, at most once per sweepEvery.
type clientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

// client represents a rate-limited client with their limiter and last seen timestamp
type client struct {
	limiter  *rate.Limiter // Token bucket rate limiter for this client
	lastSeen time.Time     // Last time this client made a request
}

const (
	sweepEvery = time.Minute
	clientIdle = 3 * time.Minute
)

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		clients:   make(map[string]*client),
		rps:       rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// allow reports whether ip may make a request at now.
func (l *clientLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Remove clients that haven't been seen in the last 3 minutes
	if now.Sub(l.lastSweep) >= sweepEvery {
		for addr, c := range l.clients {
			if now.Sub(c.lastSeen) > clientIdle {
				delete(l.clients, addr)
			}
		}
		l.lastSweep = now
	}

	c, found := l.clients[ip]
	if !found {
		c = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// tracked returns the number of clients currently holding a bucket.
func (l *clientLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.clients)
}

// rateLimit is a middleware that implements per-client rate limiting using the
// application's shared clientLimiter.
func (app *application) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check if rate limiting is enabled in the application configuration.
		if app.config.limiter.enabled {

			// RemoteAddr is in the form "IP:port", so we split it to get just the IP.
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				// If there's an error extracting the IP, respond with a server error and return.
				app.serverErrorResponse(w, r, err)
				return
			}

			if !app.limiter.allow(ip, time.Now()) {
				app.rateLimitExceededResponse(w, r)
				return
			}
		}

		// If rate limit not exceeded, call the next handler
		next.ServeHTTP(w, r)
	})
}
