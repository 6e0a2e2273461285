package logging

// LogEntry represents a structured log record with fields particularly
// relevant to optimization runs.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Run-specific fields
	RunID   string // The active optimization run, if any
	Trial   int    // Trial index within the run (-1 when outside a trial)
	Latency int64  // Operation duration in milliseconds

	// General structured data
	Fields map[string]interface{}
}
