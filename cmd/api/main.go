package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"webcore.tomcat.net/internal/imaging"
	"webcore.tomcat.net/internal/probe"
	"webcore.tomcat.net/internal/validator"
	"webcore.tomcat.net/internal/vcs"
	"webcore.tomcat.net/internal/view"
)

// version is the application version number, read from the build information.
var version = vcs.Version()

// serveMode names the serving interface in the telemetry snapshot.
const serveMode = "net/http"

// config holds all runtime configuration settings for the application.
// Fields:
//   - port: The TCP port for the HTTP server (e.g., 4000).
//   - env: The application environment ("development", "staging", "production").
//   - webRoot: The first directory the writability probe tries.
//   - serverName: Server identification shown on the pages.
//   - uploadMax: Maximum request body size, as configured (e.g., "2M").
//   - imaging: Whether the image-processing capability is loaded.
//   - limiter: Rate limiter configuration for the sample image endpoint, including:
//   - rps: Requests per second allowed.
//   - burst: Maximum burst size for rate limiting.
//   - enabled: Whether rate limiting is enabled.
type config struct {
	port       int
	env        string
	webRoot    string
	serverName string
	uploadMax  string
	imaging    struct {
		enabled bool
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
}

// application represents the core dependencies used throughout the application.
// Fields:
//   - config: Runtime configuration settings
//   - logger: Structured logger for application events and error reporting
//   - reporter: Runs the status page probes on every request
//   - imaging: The image-processing capability behind the test page
//   - views: Parsed HTML page templates
type application struct {
	config   config
	logger   *slog.Logger
	reporter *probe.Reporter
	imaging  imaging.Capability
	views    *view.Renderer
	limiter  *clientLimiter
}

// main is the entry point of the application. It loads configuration, wires the
// probes and the image engine, and starts listening for incoming requests.
func main() {
	// Values from a .env file become defaults for the flags below. A missing
	// file is not an error.
	envErr := godotenv.Load()

	var cfg config

	// Register command-line flag for the server port (default: 4000)
	flag.IntVar(&cfg.port, "port", envInt("WEBCORE_PORT", 4000), "HTTP server port")

	// Register command-line flag for the application environment (default: "development")
	flag.StringVar(&cfg.env, "env", envString("WEBCORE_ENV", "development"), "Environment (development|staging|production)")

	// Register command-line flag for the primary writability probe directory
	flag.StringVar(&cfg.webRoot, "web-root", envString("WEBCORE_WEB_ROOT", "/var/www/html"), "Directory checked first by the writability probe")

	// Register command-line flag for the server identification string
	flag.StringVar(&cfg.serverName, "server-name", os.Getenv("SERVER_SOFTWARE"), "Server identification shown on the status pages")

	// Register command-line flag for the maximum request body size
	flag.StringVar(&cfg.uploadMax, "upload-max", envString("WEBCORE_UPLOAD_MAX", "2M"), "Maximum request body size")

	// Register command-line flag to enable or disable the image-processing capability (default: true)
	flag.BoolVar(&cfg.imaging.enabled, "imaging-enabled", envBool("WEBCORE_IMAGING_ENABLED", true), "Load the image-processing capability")

	// Register command-line flags for the sample image rate limiter
	flag.Float64Var(&cfg.limiter.rps, "limiter-rps", 4, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 12, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	// Parse all registered command-line flags and populate the cfg struct
	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	// Create a structured logger that writes log entries to standard output.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if envErr != nil {
		logger.Debug("no .env file loaded", "error", envErr)
	}

	v := validator.New()
	if validateConfig(v, cfg); !v.Valid() {
		for key, msg := range v.Errors {
			logger.Error("invalid configuration", "field", key, "error", msg)
		}
		os.Exit(1)
	}

	app, err := newApplication(cfg, logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	// Start the HTTP server and listen for incoming requests.
	err = app.serve()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// newApplication wires the probes, the image engine and the templates for cfg.
func newApplication(cfg config, logger *slog.Logger) (*application, error) {
	views, err := view.New()
	if err != nil {
		return nil, err
	}

	engine := imaging.New(imaging.Config{Enabled: cfg.imaging.enabled})

	reporter := &probe.Reporter{
		Extensions: probe.DefaultExtensions(engine.Loaded),
		WriteDirs:  []string{cfg.webRoot, os.TempDir()},
		Source: probe.Source{
			Mode:      serveMode,
			UploadMax: cfg.uploadMax,
			Server:    cfg.serverName,
		},
	}

	return &application{
		config:   cfg,
		logger:   logger,
		reporter: reporter,
		imaging:  engine,
		views:    views,
		limiter:  newClientLimiter(cfg.limiter.rps, cfg.limiter.burst),
	}, nil
}

// validateConfig records every problem with cfg in v.
func validateConfig(v *validator.Validator, cfg config) {
	v.Check(validator.Between(cfg.port, 1, 65535), "port", "must be between 1 and 65535")
	v.Check(validator.PermittedValue(cfg.env, "development", "staging", "production"), "env", "must be development, staging or production")
	v.Check(validator.NotBlank(cfg.webRoot), "web-root", "must be provided")
	v.Check(validator.ByteSize(cfg.uploadMax), "upload-max", "must be a size such as 2M or 512KiB")

	if cfg.limiter.enabled {
		v.Check(cfg.limiter.rps > 0, "limiter-rps", "must be greater than zero")
		v.Check(cfg.limiter.burst > 0, "limiter-burst", "must be greater than zero")
	}
}

// uploadMaxBytes returns the configured request body limit in bytes.
func (cfg config) uploadMaxBytes() int64 {
	n, err := humanize.ParseBytes(cfg.uploadMax)
	if err != nil {
		return 0
	}
	return int64(n)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}
