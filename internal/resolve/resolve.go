// Package resolve computes canonical short names for sandboxed applications.
//
// The resolver is a pure function over the whole candidate set: given the
// same inventory, native binaries and aliases it always produces the same
// assignments, regardless of input ordering. All collision breaking happens
// in one pass over the full set, never greedily per app.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blackwell-systems/flatwrap/internal/flatpak"
)

// Assignment is one resolved app → short name mapping.
type Assignment struct {
	App       flatpak.App
	ShortName string
	// HasNativeConflict is set when a native binary of the same name exists
	// on PATH. The wrapper still shadows it; the default launch preference
	// for such a wrapper is the native binary until the user opts in.
	HasNativeConflict bool
}

// Skip records an app the resolver could not assign a name to. Skipped apps
// are reported, never silently dropped.
type Skip struct {
	App    flatpak.App
	Reason string
}

// Result is the resolver's output over one inventory.
type Result struct {
	Assignments []Assignment
	Skipped     []Skip
}

// Candidate derives the unqualified short-name candidate from a reverse-DNS
// identifier: the last dot-separated component, lower-cased.
// org.mozilla.firefox → firefox.
func Candidate(id string) string {
	segs := strings.Split(id, ".")
	return strings.ToLower(segs[len(segs)-1])
}

// Names assigns a unique short name to every app, breaking collisions
// against native binaries, other apps, and alias names.
//
// native maps binary name → resolved path (the wrapper directory must be
// excluded by the caller). aliases maps alias name → short name; a candidate
// equal to an alias name is rejected and the app skipped.
func Names(apps []flatpak.App, native map[string]string, aliases map[string]string) Result {
	// The same identifier installed in both scopes gets one wrapper; system
	// scope wins the record's origin ("system" sorts before "user").
	deduped := dedupeByID(apps)

	// Group by candidate name.
	groups := make(map[string][]flatpak.App)
	for _, app := range deduped {
		c := Candidate(app.ID)
		groups[c] = append(groups[c], app)
	}

	// Propose a name for every app. Within a colliding group, expand with
	// preceding identifier segments until unique, then fall back to a
	// numeric suffix in identifier-sort order.
	claims := make(map[string][]flatpak.App) // name → claimants (collision detection)
	for candidate, group := range groups {
		names := disambiguate(candidate, group)
		for i, app := range group {
			claims[names[i]] = append(claims[names[i]], app)
		}
	}

	var result Result
	for name, claimants := range claims {
		// Cross-group collision: a disambiguated name can still land on
		// another group's candidate. Keep the identifier-sorted first
		// claimant, skip the rest.
		sortApps(claimants)
		for _, loser := range claimants[1:] {
			result.Skipped = append(result.Skipped, Skip{
				App:    loser,
				Reason: fmt.Sprintf("name %q already taken by %s", name, claimants[0].ID),
			})
		}
		app := claimants[0]

		if target, ok := aliases[name]; ok {
			result.Skipped = append(result.Skipped, Skip{
				App:    app,
				Reason: fmt.Sprintf("name %q conflicts with alias for %q", name, target),
			})
			continue
		}

		_, conflict := native[name]
		result.Assignments = append(result.Assignments, Assignment{
			App:               app,
			ShortName:         name,
			HasNativeConflict: conflict,
		})
	}

	sort.Slice(result.Assignments, func(i, j int) bool {
		return result.Assignments[i].ShortName < result.Assignments[j].ShortName
	})
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].App.ID < result.Skipped[j].App.ID
	})

	return result
}

// disambiguate returns one name per app in group, parallel to group, which
// it sorts by identifier first so the outcome is order-independent.
// A singleton group keeps the bare candidate.
func disambiguate(candidate string, group []flatpak.App) []string {
	sortApps(group)
	if len(group) == 1 {
		return []string{candidate}
	}

	// Expand with preceding identifier segments, one at a time, until every
	// member of the group has a distinct name. com.foo.App and com.bar.App
	// resolve at depth 1 to foo-app and bar-app.
	maxDepth := 0
	for _, app := range group {
		if n := len(strings.Split(app.ID, ".")) - 1; n > maxDepth {
			maxDepth = n
		}
	}

	for depth := 1; depth <= maxDepth; depth++ {
		names := make([]string, len(group))
		for i, app := range group {
			names[i] = segmentName(app.ID, candidate, depth)
		}
		if allUnique(names) {
			return names
		}
	}

	// Identifiers are equal modulo case beyond this point. Numeric suffix in
	// identifier-sort order (group is already sorted).
	names := make([]string, len(group))
	for i, app := range group {
		names[i] = fmt.Sprintf("%s-%d", segmentName(app.ID, candidate, maxDepth), i+1)
	}
	return names
}

// segmentName joins the depth identifier segments preceding the last one
// with the candidate: segmentName("com.foo.App", "app", 1) → "foo-app".
func segmentName(id, candidate string, depth int) string {
	segs := strings.Split(id, ".")
	segs = segs[:len(segs)-1] // drop the candidate segment
	if depth > len(segs) {
		depth = len(segs)
	}
	parts := make([]string, 0, depth+1)
	for _, s := range segs[len(segs)-depth:] {
		parts = append(parts, strings.ToLower(s))
	}
	parts = append(parts, candidate)
	return strings.Join(parts, "-")
}

func allUnique(names []string) bool {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}

// dedupeByID keeps one App per identifier. Apps are sorted by (ID, Scope)
// first, so a system-scoped install wins over a user-scoped duplicate.
func dedupeByID(apps []flatpak.App) []flatpak.App {
	sorted := make([]flatpak.App, len(apps))
	copy(sorted, apps)
	sortApps(sorted)

	var out []flatpak.App
	seen := make(map[string]bool, len(sorted))
	for _, app := range sorted {
		if seen[app.ID] {
			continue
		}
		seen[app.ID] = true
		out = append(out, app)
	}
	return out
}

func sortApps(apps []flatpak.App) {
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].ID != apps[j].ID {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].Scope < apps[j].Scope
	})
}
