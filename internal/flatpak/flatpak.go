// Package flatpak is the collaborator boundary to the Flatpak runtime.
// Every query shells out to the flatpak CLI; any failure to reach the
// backend is mapped to ErrRuntimeUnavailable so callers can degrade
// instead of surfacing a raw transport error.
package flatpak

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// ListInstalled returns every installed Flatpak application across the
// system and user installations. Entries are deduplicated per (ID, Scope);
// the same application installed in both scopes is reported twice,
// disambiguated by Scope and Origin.
func ListInstalled() ([]App, error) {
	cmd := exec.Command("flatpak", "list", "--app",
		"--columns=application,name,origin,installation")
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%w: flatpak list failed: %s",
				ErrRuntimeUnavailable, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: %v", ErrRuntimeUnavailable, err)
	}

	return parseList(string(output)), nil
}

// parseList parses `flatpak list --columns=application,name,origin,installation`
// output: one app per line, tab-separated columns. Lines with fewer than
// four columns are tolerated (older flatpak versions omit trailing empty
// columns); lines without an application ID are skipped.
func parseList(output string) []App {
	var apps []App
	seen := make(map[string]bool)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		app := App{ID: strings.TrimSpace(cols[0])}
		if app.ID == "" {
			continue
		}
		if len(cols) > 1 {
			app.Name = strings.TrimSpace(cols[1])
		}
		if len(cols) > 2 {
			app.Origin = strings.TrimSpace(cols[2])
		}
		if len(cols) > 3 {
			app.Scope = strings.TrimSpace(cols[3])
		}
		if app.Scope == "" {
			app.Scope = "system"
		}

		key := app.ID + "\x00" + app.Scope
		if seen[key] {
			continue
		}
		seen[key] = true
		apps = append(apps, app)
	}

	// Deterministic order regardless of flatpak's own ordering.
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].ID != apps[j].ID {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].Scope < apps[j].Scope
	})

	return apps
}

// Installed reports whether the application is currently installed.
// A backend failure is indistinguishable from "not installed" for the
// caller's purposes at launch time, so both map to false with the error
// carrying the distinction.
func Installed(id string) (bool, error) {
	cmd := exec.Command("flatpak", "info", id)
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil // flatpak ran, app unknown
		}
		return false, fmt.Errorf("%w: %v", ErrRuntimeUnavailable, err)
	}
	return true, nil
}

// Describe returns the installed app's metadata for display. An empty
// response from a reachable backend is treated as RuntimeUnavailable rather
// than inferred as "no metadata".
func Describe(id string) (*App, error) {
	cmd := exec.Command("flatpak", "list", "--app",
		"--columns=application,name,origin,installation")
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%w: flatpak list failed: %s",
				ErrRuntimeUnavailable, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: %v", ErrRuntimeUnavailable, err)
	}
	if strings.TrimSpace(string(output)) == "" {
		return nil, fmt.Errorf("%w: empty response from backend", ErrRuntimeUnavailable)
	}

	for _, app := range parseList(string(output)) {
		if app.ID == id {
			a := app
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTargetMissing, id)
}

// RunArgv builds the argv for launching an application through the runtime.
// args are passed through verbatim after the identifier.
func RunArgv(id string, args []string) []string {
	argv := []string{"flatpak", "run", id}
	return append(argv, args...)
}
