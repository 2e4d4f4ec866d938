package probe

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"
)

// Unknown is reported for values that could not be determined.
const Unknown = "unknown"

// TimestampLayout formats the snapshot time next to the timezone.
const TimestampLayout = "02.01.2006 15:04:05"

// Telemetry is a read-only snapshot of process and environment state. Values are
// passed through as read, without validation.
type Telemetry struct {
	RuntimeVersion string    `json:"runtime_version"`
	Mode           string    `json:"mode"`
	MemoryLimit    string    `json:"memory_limit"`
	Timezone       string    `json:"timezone"`
	UploadMax      string    `json:"upload_max"`
	Server         string    `json:"server"`
	HostMemory     string    `json:"host_memory"`
	Now            time.Time `json:"now"`
}

// Source describes where a Telemetry snapshot reads its values from. Zero-valued
// function fields fall back to the live process.
type Source struct {
	// Mode names the serving interface, e.g. "net/http".
	Mode string
	// UploadMax is the configured request body limit, as configured.
	UploadMax string
	// Server identifies the server software. Empty means SERVER_SOFTWARE, then Unknown.
	Server string

	Getenv        func(string) string
	Now           func() time.Time
	VirtualMemory func() (*mem.VirtualMemoryStat, error)
}

// Snapshot reads a fresh Telemetry value.
func (s Source) Snapshot() Telemetry {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}
	vm := s.VirtualMemory
	if vm == nil {
		vm = mem.VirtualMemory
	}

	server := s.Server
	if server == "" {
		server = getenv("SERVER_SOFTWARE")
	}
	if server == "" {
		server = Unknown
	}

	mode := s.Mode
	if mode == "" {
		mode = Unknown
	}

	t := now()

	return Telemetry{
		RuntimeVersion: strings.TrimPrefix(runtime.Version(), "go"),
		Mode:           fmt.Sprintf("%s (%s/%s)", mode, runtime.GOOS, runtime.GOARCH),
		MemoryLimit:    memoryLimit(getenv),
		Timezone:       timezone(getenv, t),
		UploadMax:      s.UploadMax,
		Server:         server,
		HostMemory:     hostMemory(vm),
		Now:            t,
	}
}

// Stamp formats the snapshot time the way the status page shows it.
func (t Telemetry) Stamp() string {
	return t.Now.Format(TimestampLayout)
}

func memoryLimit(getenv func(string) string) string {
	if v := getenv("GOMEMLIMIT"); v != "" {
		return v
	}

	// A negative input only reads the current limit.
	limit := debug.SetMemoryLimit(-1)
	if limit <= 0 || limit == math.MaxInt64 {
		return "unlimited"
	}
	return humanize.IBytes(uint64(limit))
}

func timezone(getenv func(string) string, t time.Time) string {
	if tz := getenv("TZ"); tz != "" {
		return tz
	}
	if name := t.Location().String(); name != "Local" {
		return name
	}
	name, _ := t.Zone()
	return name
}

func hostMemory(vm func() (*mem.VirtualMemoryStat, error)) (total string) {
	defer func() {
		if recover() != nil {
			total = Unknown
		}
	}()

	stat, err := vm()
	if err != nil || stat == nil || stat.Total == 0 {
		return Unknown
	}
	return humanize.IBytes(stat.Total)
}
