// Package launch implements the resolution logic behind every generated
// launcher. One invocation walks a fixed state machine:
//
//	DetermineContext → ResolveTarget → ApplyEnvironment → RunPreHook →
//	Exec → RunPostHook → Exit
//
// Nothing persists across invocations beyond configuration reads; the final
// exit code is exactly the resolved target's, except when resolution fails
// before exec, in which case SentinelExitCode is returned with a diagnostic
// on stderr.
package launch

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/blackwell-systems/flatwrap/internal/config"
	"github.com/blackwell-systems/flatwrap/internal/flatpak"
	"github.com/blackwell-systems/flatwrap/internal/store"
)

// SentinelExitCode is returned when resolution itself fails before the
// target runs (missing record, vanished target, exec failure). It is
// distinct from any ordinary tool exit code a user script would check for.
const SentinelExitCode = 125

// InteractiveEnv forces interactive context regardless of terminal state.
const InteractiveEnv = "FLATWRAP_INTERACTIVE"

// target is the outcome of ResolveTarget.
type target struct {
	argv []string
}

// Resolver carries the collaborators one launch needs. Function fields
// default to the real implementations and exist so tests can run the state
// machine without a terminal, a flatpak installation, or exec.
type Resolver struct {
	TargetDir string
	Config    *config.Store
	Registry  *store.Store

	Stdin  io.Reader
	Stderr io.Writer

	// IsTerminal reports whether the standard streams are attached to a
	// terminal. Defaults to an isatty check on stdin and stderr.
	IsTerminal func() bool
	// Getenv looks up one environment variable. Defaults to os.Getenv.
	Getenv func(string) string
	// Environ snapshots the inherited environment. Defaults to os.Environ.
	Environ func() []string
	// LookupNative resolves a native binary on PATH, excluding TargetDir.
	LookupNative func(name string) string
	// SandboxInstalled probes whether the app is still installed.
	SandboxInstalled func(id string) (bool, error)
	// Exec replaces the process image; it only returns on failure.
	Exec func(argv []string, env []string) error
	// RunChild runs the target as a child process and returns its exit
	// code. Used instead of Exec when a post-hook must run afterwards.
	RunChild func(argv []string, env []string) (int, error)
	// RunHook executes a hook script and returns its exit code.
	RunHook func(path string, env []string, args []string) (int, error)
}

// Launch resolves and runs the wrapper invoked as invokedAs with the given
// residual arguments, which are passed through unparsed. The return value
// is the process exit code; when Exec replaces the image, Launch never
// returns.
func (r *Resolver) Launch(invokedAs string, args []string) int {
	r.fillDefaults()

	short := r.resolveAlias(invokedAs)

	rec, err := r.Registry.GetWrapper(short)
	if err != nil {
		fmt.Fprintf(r.Stderr, "flatwrap-wrapper: no wrapper record for %q (run 'flatwrap generate'?)\n", short)
		return SentinelExitCode
	}

	interactive := r.determineContext()

	tgt, code := r.resolveTarget(rec, args, interactive)
	if tgt == nil {
		return code
	}

	env := r.applyEnvironment(short)

	if pre := r.Config.HookPath(short, config.HookPre); pre != "" {
		hookCode, err := r.RunHook(pre, env, args)
		if err != nil {
			fmt.Fprintf(r.Stderr, "flatwrap-wrapper: pre-hook %s: %v\n", pre, err)
			return SentinelExitCode
		}
		if hookCode != 0 {
			fmt.Fprintf(r.Stderr, "flatwrap-wrapper: pre-hook exited with status %d, aborting\n", hookCode)
			return hookCode
		}
	}

	post := r.Config.HookPath(short, config.HookPost)
	if post == "" {
		// No continuation needed after the target: replace the process.
		if err := r.Exec(tgt.argv, env); err != nil {
			fmt.Fprintf(r.Stderr, "flatwrap-wrapper: exec %s failed: %v\n", tgt.argv[0], err)
			return SentinelExitCode
		}
		return 0 // unreachable with a real exec
	}

	// A post-hook has to observe the target's exit, and exec does not
	// return; run the target as a child instead of replacing the image.
	exitCode, err := r.RunChild(tgt.argv, env)
	if err != nil {
		fmt.Fprintf(r.Stderr, "flatwrap-wrapper: run %s failed: %v\n", tgt.argv[0], err)
		return SentinelExitCode
	}

	// The post-hook runs unconditionally and is side-effect only: its own
	// failure never alters the propagated exit code.
	if hookCode, err := r.RunHook(post, env, args); err != nil {
		fmt.Fprintf(r.Stderr, "flatwrap-wrapper: post-hook %s: %v\n", post, err)
	} else if hookCode != 0 {
		fmt.Fprintf(r.Stderr, "flatwrap-wrapper: post-hook exited with status %d\n", hookCode)
	}

	return exitCode
}

// resolveAlias maps an invoked alias name to its wrapper short name.
// Unknown names pass through unchanged.
func (r *Resolver) resolveAlias(invokedAs string) string {
	aliases, err := r.Config.Aliases()
	if err != nil {
		return invokedAs
	}
	if short, ok := aliases[invokedAs]; ok {
		return short
	}
	return invokedAs
}

// determineContext decides whether prompt-capable steps may interact with
// the user. Launchers are routinely invoked by desktop-file activation with
// no terminal, so the non-interactive path must stay prompt-free.
func (r *Resolver) determineContext() bool {
	switch strings.ToLower(r.Getenv(InteractiveEnv)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return r.IsTerminal()
}

// resolveTarget picks the native or sandboxed target per the stored
// preference and the default policy. Returns (nil, exitCode) on failure.
func (r *Resolver) resolveTarget(rec *store.Wrapper, args []string, interactive bool) (*target, int) {
	pref, explicit := r.preference(rec.ShortName)

	if rec.Kind == store.KindNativePassthrough {
		pref, explicit = config.PreferNative, true
	}

	if !explicit {
		// Default policy: shadow-with-conflict stays on the native binary
		// until the user opts in; otherwise the sandboxed app runs.
		if rec.HasNativeConflict {
			pref = config.PreferNative
			if interactive {
				pref = r.promptChoice(rec)
			}
		} else {
			pref = config.PreferSandboxed
		}
	}

	if pref == config.PreferNative {
		if path := r.LookupNative(rec.ShortName); path != "" {
			return &target{argv: append([]string{path}, args...)}, 0
		}
		if rec.Kind == store.KindNativePassthrough {
			fmt.Fprintf(r.Stderr, "flatwrap-wrapper: native binary %q not found on PATH\n", rec.ShortName)
			return nil, SentinelExitCode
		}
		// Native preference but nothing to run natively: fall through to
		// the sandboxed target rather than failing a launch the sandbox
		// can still serve.
	}

	installed, err := r.SandboxInstalled(rec.AppID)
	if err != nil {
		fmt.Fprintf(r.Stderr, "flatwrap-wrapper: cannot query flatpak for %s: %v\n", rec.AppID, err)
		return nil, SentinelExitCode
	}
	if !installed {
		fmt.Fprintf(r.Stderr, "flatwrap-wrapper: %s is no longer installed (run 'flatwrap generate' to clean up)\n", rec.AppID)
		return nil, SentinelExitCode
	}

	return &target{argv: flatpak.RunArgv(rec.AppID, args)}, 0
}

// preference loads the stored preference for short. A corrupt preferences
// file behaves as "no preference stored".
func (r *Resolver) preference(short string) (config.Preference, bool) {
	prefs, err := r.Config.Preferences()
	if err != nil {
		return "", false
	}
	pref, ok := prefs[short]
	return pref, ok
}

// promptChoice asks which target to run when a conflict exists and no
// preference is stored. Interactive context only; the answer is not
// persisted. Empty or unrecognized input takes the native default.
func (r *Resolver) promptChoice(rec *store.Wrapper) config.Preference {
	fmt.Fprintf(r.Stderr,
		"%s also exists as a native binary. Run [N]ative or [s]andboxed (%s)? ",
		rec.ShortName, rec.AppID)

	line, err := bufio.NewReader(r.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return config.PreferNative
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sandboxed":
		return config.PreferSandboxed
	}
	return config.PreferNative
}

// applyEnvironment layers the stored overrides, in order, over the
// inherited environment. Later entries for the same variable win.
func (r *Resolver) applyEnvironment(short string) []string {
	env := r.Environ()
	for _, v := range r.Config.EnvironmentFor(short) {
		env = setEnv(env, v.Name, v.Value)
	}
	return env
}

// setEnv replaces or appends key=value in an environ-style slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
