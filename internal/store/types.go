package store

import "time"

// Kind distinguishes what a wrapper execs by default.
type Kind string

const (
	// KindSandboxed wrappers launch the application through the sandbox
	// runtime.
	KindSandboxed Kind = "sandboxed"
	// KindNativePassthrough wrappers exist only to splice environment and
	// hooks around a native binary.
	KindNativePassthrough Kind = "native-passthrough"
)

// Wrapper is the durable record behind one generated launcher artifact.
// ShortName is the join key to all user configuration.
type Wrapper struct {
	ShortName         string
	AppID             string
	Kind              Kind
	Origin            string
	Scope             string
	HasNativeConflict bool
	// Stale marks a wrapper whose target left the inventory but that has
	// user configuration attached; it is kept for explicit removal.
	Stale     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Run records one reconciliation pass for the run history.
type Run struct {
	ID        int64
	StartedAt time.Time
	DryRun    bool
	Created   int
	Updated   int
	Removed   int
	Skipped   int
	Stale     int
}
