package wrapper

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/flatwrap/internal/config"
	"github.com/blackwell-systems/flatwrap/internal/flatpak"
	"github.com/blackwell-systems/flatwrap/internal/resolve"
	"github.com/blackwell-systems/flatwrap/internal/scanner"
	"github.com/blackwell-systems/flatwrap/internal/store"
)

// Options configures one reconciliation pass.
type Options struct {
	// TargetDir is where launcher artifacts live.
	TargetDir string
	// DryRun computes and returns the report without touching the
	// filesystem or the wrapper registry.
	DryRun bool
	// Config is the user configuration store.
	Config *config.Store
	// Registry persists wrapper records and run history.
	Registry *store.Store
	// LockPath overrides the advisory lock location (tests). Defaults to
	// reconcile.lock next to TargetDir.
	LockPath string
	// LockTimeout bounds how long acquisition polls before giving up with
	// ErrLockContention.
	LockTimeout time.Duration
	// Inventory overrides the sandboxed-app source (tests). Defaults to
	// flatpak.ListInstalled.
	Inventory func() ([]flatpak.App, error)
}

// Change describes one reconciliation action on a wrapper.
type Change struct {
	ShortName string
	AppID     string
	Detail    string
}

// Report aggregates everything one reconciliation pass did (or, in dry-run
// mode, would do).
type Report struct {
	Created     []Change
	Updated     []Change
	Removed     []Change
	MarkedStale []Change
	Skipped     []Change
	// RuntimeUnavailable is set when the sandbox backend could not be
	// queried; reconciliation then ran against an empty sandboxed set.
	RuntimeUnavailable bool
}

// Empty reports whether the pass changed (or would change) nothing.
func (r *Report) Empty() bool {
	return len(r.Created) == 0 && len(r.Updated) == 0 &&
		len(r.Removed) == 0 && len(r.MarkedStale) == 0
}

// Reconcile converges the launcher directory and wrapper registry on the
// desired state computed from inventory, PATH and configuration.
//
// Per-wrapper failures never abort the pass: the offending wrapper is
// reported under Skipped and processing continues. Running twice in a row
// with unchanged inputs yields an empty report the second time.
func Reconcile(opts Options) (*Report, error) {
	if opts.TargetDir == "" {
		dir, err := DefaultTargetDir()
		if err != nil {
			return nil, err
		}
		opts.TargetDir = dir
	}
	if opts.LockPath == "" {
		opts.LockPath = filepath.Join(filepath.Dir(opts.TargetDir), "reconcile.lock")
	}
	if opts.LockTimeout == 0 {
		opts.LockTimeout = 2 * time.Second
	}
	if opts.Inventory == nil {
		opts.Inventory = flatpak.ListInstalled
	}

	// The diff-and-apply phase is one logical transaction; dry runs read
	// only and skip the lock so an in-flight apply never blocks an emit.
	if !opts.DryRun {
		lock, err := acquireLock(opts.LockPath, opts.LockTimeout)
		if err != nil {
			return nil, err
		}
		defer lock.release()
	}

	report := &Report{}

	// Inventory. A missing backend degrades to an empty sandboxed set so
	// that removal of vanished wrappers and config operations still work.
	apps, err := opts.Inventory()
	if err != nil {
		if !errors.Is(err, flatpak.ErrRuntimeUnavailable) {
			return nil, err
		}
		report.RuntimeUnavailable = true
		apps = nil
	}

	blocked, err := opts.Config.Blocklist()
	if err != nil {
		return nil, err
	}
	aliases, err := opts.Config.Aliases()
	if err != nil {
		return nil, err
	}

	// Blocklist membership always beats inventory presence.
	var eligible []flatpak.App
	for _, app := range apps {
		if blocked[app.ID] {
			continue
		}
		eligible = append(eligible, app)
	}

	native := scanner.NativeBinaries(opts.TargetDir)
	res := resolve.Names(eligible, native, aliases)
	for _, skip := range res.Skipped {
		report.Skipped = append(report.Skipped, Change{
			ShortName: resolve.Candidate(skip.App.ID),
			AppID:     skip.App.ID,
			Detail:    skip.Reason,
		})
	}

	desired := make(map[string]*store.Wrapper, len(res.Assignments))
	for _, a := range res.Assignments {
		if a.ShortName == BinaryName {
			report.Skipped = append(report.Skipped, Change{
				ShortName: a.ShortName,
				AppID:     a.App.ID,
				Detail:    "name reserved for the resolver binary",
			})
			continue
		}
		desired[a.ShortName] = &store.Wrapper{
			ShortName:         a.ShortName,
			AppID:             a.App.ID,
			Kind:              store.KindSandboxed,
			Origin:            a.App.Origin,
			Scope:             a.App.Scope,
			HasNativeConflict: a.HasNativeConflict,
		}
	}

	actual, err := actualState(opts)
	if err != nil {
		return nil, err
	}

	applyDiff(opts, desired, actual, aliases, blocked, report)
	reconcileAliases(opts, desired, aliases, report)

	if !opts.DryRun {
		run := &store.Run{
			StartedAt: time.Now(),
			DryRun:    false,
			Created:   len(report.Created),
			Updated:   len(report.Updated),
			Removed:   len(report.Removed),
			Skipped:   len(report.Skipped),
			Stale:     len(report.MarkedStale),
		}
		if err := opts.Registry.InsertRun(run); err != nil {
			return report, fmt.Errorf("record run history: %w", err)
		}
	}

	return report, nil
}

// actualState assembles the current wrapper set: registry records plus any
// orphan marker symlinks in the target directory that have no record.
func actualState(opts Options) (map[string]*store.Wrapper, error) {
	actual := make(map[string]*store.Wrapper)

	records, err := opts.Registry.ListWrappers()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		actual[rec.ShortName] = rec
	}

	shorts, err := listArtifacts(opts.TargetDir)
	if err != nil {
		return nil, err
	}
	for _, short := range shorts {
		if _, ok := actual[short]; !ok {
			// Artifact without a record: app identity unknown; it will be
			// adopted if desired, removed otherwise.
			actual[short] = &store.Wrapper{ShortName: short, Kind: store.KindSandboxed}
		}
	}

	return actual, nil
}

// reconcileAliases ensures every configured alias has a launcher artifact.
// Aliases are artifact-only; a dangling alias (target neither desired nor
// registered) is reported and left for the user to fix.
func reconcileAliases(opts Options, desired map[string]*store.Wrapper, aliases map[string]string, report *Report) {
	for alias, target := range aliases {
		if alias == BinaryName {
			continue
		}

		_, targetDesired := desired[target]
		if !targetDesired {
			if _, err := opts.Registry.GetWrapper(target); err != nil {
				report.Skipped = append(report.Skipped, Change{alias, "", fmt.Sprintf("alias target %q has no wrapper", target)})
				continue
			}
		}

		if artifactPresent(opts.TargetDir, alias) {
			continue
		}
		if !opts.DryRun {
			if err := createArtifact(opts.TargetDir, alias); err != nil {
				report.Skipped = append(report.Skipped, Change{alias, "", err.Error()})
				continue
			}
		}
		report.Created = append(report.Created, Change{alias, "", "alias for " + target})
	}
}

// applyDiff performs the minimal create/update/remove to converge actual on
// desired, honoring dry-run mode and the stale policy.
func applyDiff(opts Options, desired, actual map[string]*store.Wrapper, aliases map[string]string, blocked map[string]bool, report *Report) {
	for short, want := range desired {
		have, exists := actual[short]
		switch {
		case !exists:
			if !opts.DryRun {
				if err := createArtifact(opts.TargetDir, short); err != nil {
					report.Skipped = append(report.Skipped, Change{short, want.AppID, err.Error()})
					continue
				}
				if err := opts.Registry.UpsertWrapper(want); err != nil {
					report.Skipped = append(report.Skipped, Change{short, want.AppID, err.Error()})
					continue
				}
			}
			report.Created = append(report.Created, Change{short, want.AppID, ""})

		case wrapperChanged(have, want) || !artifactPresent(opts.TargetDir, short):
			detail := changeDetail(have, want)
			if !opts.DryRun {
				if err := createArtifact(opts.TargetDir, short); err != nil {
					report.Skipped = append(report.Skipped, Change{short, want.AppID, err.Error()})
					continue
				}
				if err := opts.Registry.UpsertWrapper(want); err != nil {
					report.Skipped = append(report.Skipped, Change{short, want.AppID, err.Error()})
					continue
				}
			}
			report.Updated = append(report.Updated, Change{short, want.AppID, detail})
		}
	}

	for short, have := range actual {
		if _, wanted := desired[short]; wanted {
			continue
		}

		// Alias artifacts carry no record of their own; reconcileAliases
		// owns them.
		if _, isAlias := aliases[short]; isAlias {
			continue
		}

		// Passthrough wrappers are user-created, never inventory-derived;
		// reconciliation leaves them alone.
		if have.Kind == store.KindNativePassthrough {
			if !opts.DryRun {
				if err := createArtifact(opts.TargetDir, short); err != nil {
					report.Skipped = append(report.Skipped, Change{short, have.AppID, err.Error()})
				}
			}
			continue
		}

		// Wrappers with user configuration attached are marked stale and
		// kept for explicit removal instead of silently discarding the
		// user's customization. Blocking is an explicit decision, not an
		// uninstall, so it overrides the stale-keep exception: a blocked
		// identifier loses its wrapper regardless of attached config.
		if opts.Config.HasUserConfig(short) && !blocked[have.AppID] {
			if have.Stale {
				continue // already stale, nothing new to report
			}
			if !opts.DryRun {
				if err := opts.Registry.SetStale(short, true); err != nil {
					report.Skipped = append(report.Skipped, Change{short, have.AppID, err.Error()})
					continue
				}
			}
			report.MarkedStale = append(report.MarkedStale, Change{short, have.AppID, "target left inventory; user config attached"})
			continue
		}

		if !opts.DryRun {
			if err := removeArtifact(opts.TargetDir, short); err != nil {
				report.Skipped = append(report.Skipped, Change{short, have.AppID, err.Error()})
				continue
			}
			if _, err := opts.Registry.DeleteWrapper(short); err != nil {
				report.Skipped = append(report.Skipped, Change{short, have.AppID, err.Error()})
				continue
			}
		}
		report.Removed = append(report.Removed, Change{short, have.AppID, ""})
	}
}

// wrapperChanged reports whether the record needs rewriting. A stale record
// whose target reappeared in inventory is also a change (the flag resets).
func wrapperChanged(have, want *store.Wrapper) bool {
	return have.AppID != want.AppID ||
		have.Kind != want.Kind ||
		have.HasNativeConflict != want.HasNativeConflict ||
		have.Scope != want.Scope ||
		have.Origin != want.Origin ||
		have.Stale
}

func changeDetail(have, want *store.Wrapper) string {
	switch {
	case have.AppID != want.AppID && have.AppID != "":
		return fmt.Sprintf("target %s -> %s", have.AppID, want.AppID)
	case have.AppID == "":
		return "adopted unregistered artifact"
	case have.Stale:
		return "target reappeared in inventory"
	case have.HasNativeConflict != want.HasNativeConflict:
		if want.HasNativeConflict {
			return "native binary now shadows this name"
		}
		return "native conflict cleared"
	default:
		return "record refreshed"
	}
}
