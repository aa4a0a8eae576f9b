// Command flatwrap-wrapper is the launcher behind every generated wrapper.
// It is installed once at ~/.flatwrap/bin/flatwrap-wrapper, with a symlink
// per wrapper name (e.g. ~/.flatwrap/bin/firefox -> flatwrap-wrapper).
//
// Invoked through a symlink, it resolves the intended target from the
// symlink's name (native binary or 'flatpak run <app-id>'), applies the
// wrapper's environment overrides and hooks, and execs the target. Its own
// diagnostics go to stderr and failures before the target runs exit with a
// sentinel code (125) so scripted callers can tell them apart from the
// target's exit codes.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/flatwrap/internal/config"
	"github.com/blackwell-systems/flatwrap/internal/launch"
	"github.com/blackwell-systems/flatwrap/internal/store"
	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

func main() {
	invokedAs := filepath.Base(os.Args[0])

	// Running the shared binary directly is a setup mistake, not a launch.
	if invokedAs == wrapper.BinaryName {
		fmt.Fprintln(os.Stderr,
			"flatwrap-wrapper is not meant to be run directly; invoke it through a wrapper symlink")
		os.Exit(launch.SentinelExitCode)
	}

	configDir, err := config.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatwrap-wrapper: %v\n", err)
		os.Exit(launch.SentinelExitCode)
	}

	dbPath, err := store.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatwrap-wrapper: %v\n", err)
		os.Exit(launch.SentinelExitCode)
	}
	registry, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatwrap-wrapper: open registry: %v\n", err)
		os.Exit(launch.SentinelExitCode)
	}

	targetDir, err := wrapper.DefaultTargetDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatwrap-wrapper: %v\n", err)
		os.Exit(launch.SentinelExitCode)
	}

	r := &launch.Resolver{
		TargetDir: targetDir,
		Config:    config.NewStore(configDir),
		Registry:  registry,
	}
	code := r.Launch(invokedAs, os.Args[1:])

	// Reached only when exec was replaced by a child run or resolution
	// failed; with a successful exec the process image is already gone.
	registry.Close()
	os.Exit(code)
}
