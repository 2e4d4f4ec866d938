// Package imaging is the service's image-processing capability: an engine that can
// be present or absent, hands out canvases as scoped handles, and synthesizes the
// sample images shown on the capability test page.
package imaging

import (
	"errors"
	"fmt"
	"sync/atomic"

	"webcore.tomcat.net/internal/vcs"
)

// LibraryModule is the module whose version the engine reports.
const LibraryModule = "golang.org/x/image"

var (
	// ErrUnavailable is returned when the capability is not loaded.
	ErrUnavailable = errors.New("image processing capability is not available")

	// ErrUnsupportedFormat is returned when a format has no encoder in the engine.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrNoImage is returned when a canvas operation needs pixels that were never allocated.
	ErrNoImage = errors.New("canvas has no image")

	// ErrReleased is returned when a released canvas is used again.
	ErrReleased = errors.New("canvas has been released")

	// ErrInvalidSize is returned for non-positive or oversized dimensions.
	ErrInvalidSize = errors.New("invalid image dimensions")
)

// MaxDimension bounds the width and height of any canvas.
const MaxDimension = 4096

// Config controls how an Engine is built.
type Config struct {
	// Enabled reports whether the capability is loaded at all.
	Enabled bool
	// Formats restricts the format registry. Nil means every builtin format.
	Formats []string
}

// Engine is the image-processing capability. It is safe for concurrent use; the
// only shared state is the live-handle counter.
type Engine struct {
	loaded bool
	codecs []codec
	live   atomic.Int64
}

// New builds an engine from cfg.
func New(cfg Config) *Engine {
	return &Engine{
		loaded: cfg.Enabled,
		codecs: selectCodecs(cfg.Formats),
	}
}

// Loaded reports whether the capability is present.
func (e *Engine) Loaded() bool {
	return e != nil && e.loaded
}

// Version returns the version string of the underlying image library.
func (e *Engine) Version() (string, error) {
	if !e.Loaded() {
		return "", ErrUnavailable
	}

	v, ok := vcs.ModuleVersion(LibraryModule)
	if !ok || v == "" {
		v = "(devel)"
	}
	return fmt.Sprintf("%s %s", LibraryModule, v), nil
}

// Acquire hands out a new, empty canvas. The caller must Release it.
func (e *Engine) Acquire() (*Canvas, error) {
	if !e.Loaded() {
		return nil, ErrUnavailable
	}

	e.live.Add(1)
	return &Canvas{engine: e}, nil
}

// Live returns the number of acquired canvases that have not been released yet.
func (e *Engine) Live() int64 {
	return e.live.Load()
}

func (e *Engine) lookup(name string) (codec, bool) {
	name = normalizeFormat(name)
	for _, c := range e.codecs {
		if c.name == name {
			return c, true
		}
	}
	return codec{}, false
}
