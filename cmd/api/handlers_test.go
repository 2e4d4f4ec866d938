package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webcore.tomcat.net/internal/imaging"
	"webcore.tomcat.net/internal/probe"
	"webcore.tomcat.net/internal/validator"
)

func newTestConfig(t *testing.T) config {
	t.Helper()

	var cfg config
	cfg.port = 4000
	cfg.env = "development"
	cfg.webRoot = t.TempDir()
	cfg.serverName = "web-core-test"
	cfg.uploadMax = "2M"
	cfg.imaging.enabled = true
	cfg.limiter.rps = 100
	cfg.limiter.burst = 100
	cfg.limiter.enabled = false
	return cfg
}

func newTestApplication(t *testing.T, cfg config) *application {
	t.Helper()

	app, err := newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return app
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestStatusPage(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.serverName = `<script>alert(1)</script>`
	app := newTestApplication(t, cfg)

	rr := get(t, app.routes(), "/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "Writable")
	assert.NotContains(t, body, "Not writable")
	assert.Equal(t, 6, strings.Count(body, "<li>"))
}

func TestStatusJSON(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))

	rr := get(t, app.routes(), "/v1/status")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Status probe.Report `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.True(t, resp.Status.Writable)
	assert.Equal(t, "web-core-test", resp.Status.Telemetry.Server)
	assert.Equal(t, "2M", resp.Status.Telemetry.UploadMax)
	assert.Equal(t, []probe.ExtensionStatus{
		{Name: "postgres", Available: true},
		{Name: "png", Available: true},
		{Name: "imaging", Available: true},
		{Name: "http", Available: true},
		{Name: "xml", Available: true},
		{Name: "zip", Available: true},
	}, resp.Status.Extensions)
}

func TestHealthcheck(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))

	rr := get(t, app.routes(), "/v1/healthcheck")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp struct {
		Status     string            `json:"status"`
		SystemInfo map[string]string `json:"system_info"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "available", resp.Status)
	assert.Equal(t, "development", resp.SystemInfo["environment"])
}

func TestCapabilityPage(t *testing.T) {
	t.Run("functional", func(t *testing.T) {
		app := newTestApplication(t, newTestConfig(t))

		rr := get(t, app.routes(), capabilityPagePath)
		require.Equal(t, http.StatusOK, rr.Code)

		body := rr.Body.String()
		assert.Contains(t, body, `class="status ok"`)
		for _, kind := range []string{"gradient", "text", "resize"} {
			assert.Contains(t, body, `src="/test-imaging/img?type=`+kind+`"`)
		}
	})

	t.Run("not loaded", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.imaging.enabled = false
		app := newTestApplication(t, cfg)

		rr := get(t, app.routes(), capabilityPagePath)
		require.Equal(t, http.StatusOK, rr.Code)

		body := rr.Body.String()
		assert.Contains(t, body, `class="status fail"`)
		assert.Contains(t, body, imaging.NotAvailable)
		assert.NotContains(t, body, "<img ")
	})
}

func TestSampleImage(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))
	h := app.routes()

	tests := []struct {
		target        string
		width, height int
	}{
		{target: sampleImagePath + "?type=gradient", width: 400, height: 300},
		{target: sampleImagePath, width: 400, height: 300},
		{target: sampleImagePath + "?type=text", width: 400, height: 200},
		{target: sampleImagePath + "?type=resize", width: 200, height: 150},
		{target: sampleImagePath + "?type=mystery", width: 200, height: 200},
		{target: sampleImagePath + "?type=", width: 200, height: 200},
		{target: sampleImagePath + "?type=%20", width: 200, height: 200},
		{target: sampleImagePath + "?type=%20gradient", width: 200, height: 200},
		{target: sampleImagePath + "?other=gradient", width: 400, height: 300},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := get(t, h, tt.target)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))

			cfg, err := png.DecodeConfig(bytes.NewReader(rr.Body.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, tt.width, cfg.Width)
			assert.Equal(t, tt.height, cfg.Height)
		})
	}
}

func TestSampleImageUnavailable(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.imaging.enabled = false
	app := newTestApplication(t, cfg)

	for _, kind := range []string{"gradient", "text", "resize", "other"} {
		rr := get(t, app.routes(), sampleImagePath+"?type="+kind)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain"))
		assert.Contains(t, rr.Body.String(), "ERROR")

		_, err := png.DecodeConfig(bytes.NewReader(rr.Body.Bytes()))
		assert.Error(t, err)
	}
}

func TestSampleImageGenerationFailure(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))
	engine := imaging.New(imaging.Config{Enabled: true, Formats: []string{"gif"}})
	app.imaging = engine

	rr := get(t, app.routes(), sampleImagePath+"?type=text")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "ERROR: "))
	assert.Zero(t, engine.Live())
}

func TestSampleImageRateLimit(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.limiter.enabled = true
	cfg.limiter.rps = 0.001
	cfg.limiter.burst = 1
	app := newTestApplication(t, cfg)
	h := app.routes()

	assert.Equal(t, http.StatusOK, get(t, h, sampleImagePath+"?type=other").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, sampleImagePath+"?type=other").Code)

	// Pages are not rate limited.
	assert.Equal(t, http.StatusOK, get(t, h, "/").Code)
}

func TestRouterErrors(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))
	h := app.routes()

	rr := get(t, h, "/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "could not be found")

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x")))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestPagesAnswerHead(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))
	h := app.routes()

	for _, path := range []string{statusPagePath, capabilityPagePath} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodHead, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"), path)
	}
}

func TestRateLimitSharedAcrossRouters(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.limiter.enabled = true
	cfg.limiter.rps = 0.001
	cfg.limiter.burst = 1
	app := newTestApplication(t, cfg)

	assert.Equal(t, http.StatusOK, get(t, app.routes(), sampleImagePath+"?type=other").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, app.routes(), sampleImagePath+"?type=other").Code)
	assert.Equal(t, 1, app.limiter.tracked())
}

func TestClientLimiterSweepsIdleClients(t *testing.T) {
	l := newClientLimiter(0.001, 1)
	start := l.lastSweep

	assert.True(t, l.allow("192.0.2.1", start))
	assert.False(t, l.allow("192.0.2.1", start.Add(time.Second)))
	assert.True(t, l.allow("192.0.2.2", start.Add(time.Second)))
	assert.Equal(t, 2, l.tracked())

	// The first client stays active, the second goes idle.
	assert.False(t, l.allow("192.0.2.1", start.Add(2*time.Minute)))
	assert.True(t, l.allow("192.0.2.3", start.Add(4*time.Minute)))
	assert.Equal(t, 2, l.tracked())
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApplication(t, newTestConfig(t))

	h := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := get(t, h, "/")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestValidateConfig(t *testing.T) {
	v := validator.New()
	validateConfig(v, newTestConfig(t))
	assert.True(t, v.Valid(), v.Errors)

	cfg := newTestConfig(t)
	cfg.port = 0
	cfg.env = "test"
	cfg.webRoot = " "
	cfg.uploadMax = "huge"
	cfg.limiter.enabled = true
	cfg.limiter.rps = 0
	cfg.limiter.burst = 0

	v = validator.New()
	validateConfig(v, cfg)
	for _, key := range []string{"port", "env", "web-root", "upload-max", "limiter-rps", "limiter-burst"} {
		assert.Contains(t, v.Errors, key)
	}
}

func TestUploadMaxBytes(t *testing.T) {
	cfg := newTestConfig(t)
	assert.EqualValues(t, 2_000_000, cfg.uploadMaxBytes())

	cfg.uploadMax = "1 KiB"
	assert.EqualValues(t, 1024, cfg.uploadMaxBytes())

	cfg.uploadMax = "nonsense"
	assert.Zero(t, cfg.uploadMaxBytes())
}
