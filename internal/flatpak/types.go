package flatpak

import "errors"

// App represents one installed Flatpak application as reported by the
// runtime. Apps are re-enumerated on every reconciliation run and never
// persisted.
type App struct {
	// ID is the reverse-DNS application identifier, e.g. org.mozilla.firefox.
	ID string
	// Name is the human-readable display name from the app's metadata.
	Name string
	// Origin is the remote the app was installed from, e.g. "flathub".
	Origin string
	// Scope is "system" or "user".
	Scope string
}

// ErrRuntimeUnavailable indicates the flatpak backend could not be queried
// at all (binary missing, portal error, transport failure). Callers degrade
// to an empty sandboxed set instead of aborting.
var ErrRuntimeUnavailable = errors.New("flatpak runtime unavailable")

// ErrTargetMissing indicates a previously wrapped application is no longer
// installed at invocation time.
var ErrTargetMissing = errors.New("target application not installed")
