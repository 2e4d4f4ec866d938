package probe

// Report is everything the status page shows, collected for one request.
type Report struct {
	Telemetry  Telemetry         `json:"telemetry"`
	Writable   bool              `json:"writable"`
	Extensions []ExtensionStatus `json:"extensions"`

	// WriteErr explains a false Writable. It is never rendered.
	WriteErr error `json:"-"`
}

// Reporter runs the status probes. It holds configuration only; every call to
// Collect starts from scratch.
type Reporter struct {
	Extensions []Extension
	// WriteDirs are tried in order by the writability probe.
	WriteDirs []string
	Source    Source
}

// Collect runs every probe and returns the combined report. It never fails.
func (r *Reporter) Collect() Report {
	_, err := FirstWritable(r.WriteDirs...)

	return Report{
		Telemetry:  r.Source.Snapshot(),
		Writable:   err == nil,
		Extensions: CheckExtensions(r.Extensions),
		WriteErr:   err,
	}
}
