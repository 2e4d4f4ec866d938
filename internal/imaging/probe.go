package imaging

import (
	"fmt"
	"image/color"
)

// NotAvailable is reported as the version when it could not be read.
const NotAvailable = "N/A"

// Capability is the view of an image engine that the probe and the sample
// generator need. *Engine implements it.
type Capability interface {
	Loaded() bool
	Version() (string, error)
	Acquire() (*Canvas, error)
}

// ProbeResult summarizes whether the capability is present and usable.
type ProbeResult struct {
	Loaded     bool   `json:"loaded"`
	Version    string `json:"version"`
	Formats    int    `json:"formats"`
	Functional bool   `json:"functional"`

	// Err holds the reason Functional is false for a loaded capability. It is
	// diagnostic only and never affects the other fields.
	Err error `json:"-"`
}

// Probe checks capability: is it loaded, what version does it report, how many
// formats does it know, and can it allocate and format-tag a trivial image.
// Probe never fails; problems downgrade Functional to false.
func Probe(c Capability) (res ProbeResult) {
	res.Version = NotAvailable
	if c == nil || !c.Loaded() {
		return res
	}
	res.Loaded = true

	defer func() {
		if r := recover(); r != nil {
			res.Functional = false
			res.Err = fmt.Errorf("capability probe panicked: %v", r)
		}
	}()

	if err := probeLoaded(c, &res); err != nil {
		res.Err = err
		return res
	}

	res.Functional = true
	return res
}

func probeLoaded(c Capability, res *ProbeResult) error {
	v, err := c.Version()
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	res.Version = v

	formats, err := queryFormats(c)
	if err != nil {
		return err
	}
	res.Formats = formats

	// The functional check uses its own handle, independent of the one used
	// for the format query.
	test, err := c.Acquire()
	if err != nil {
		return fmt.Errorf("acquire test canvas: %w", err)
	}
	defer test.Release()

	if err := test.NewImage(10, 10, color.White); err != nil {
		return fmt.Errorf("allocate test image: %w", err)
	}
	if err := test.SetFormat("png"); err != nil {
		return fmt.Errorf("tag test image: %w", err)
	}

	return nil
}

func queryFormats(c Capability) (int, error) {
	h, err := c.Acquire()
	if err != nil {
		return 0, fmt.Errorf("acquire canvas: %w", err)
	}
	defer h.Release()

	names, err := h.QueryFormats()
	if err != nil {
		return 0, fmt.Errorf("query formats: %w", err)
	}
	return len(names), nil
}
