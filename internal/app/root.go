// Package app wires the flatwrap command-line interface.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/config"
	"github.com/blackwell-systems/flatwrap/internal/store"
	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

var (
	configDirFlag string
	dbPathFlag    string
	targetDirFlag string

	// RootCmd is the root command for flatwrap.
	RootCmd = &cobra.Command{
		Use:   "flatwrap",
		Short: "Short launch commands for Flatpak applications",
		Long: `flatwrap generates short launcher commands for installed Flatpak
applications, so you can type 'firefox' instead of
'flatpak run org.mozilla.firefox'.

The wrapper directory is reconciled against the installed application set:
new apps get wrappers, uninstalled apps lose them, and wrappers you have
customized are kept (marked stale) until you remove them explicitly.
When a wrapper shadows a native binary of the same name, the native binary
keeps running by default until you opt in with 'flatwrap prefer'.

Quick Start:
  1. flatwrap generate
  2. Add ~/.flatwrap/bin to the front of your PATH
  3. flatwrap watch --daemon   # optional: regenerate on install/uninstall

Examples:
  # Preview what would be generated
  flatwrap generate --emit

  # Prefer the sandboxed firefox over /usr/bin/firefox
  flatwrap prefer firefox sandboxed

  # Give the sandboxed app an environment override
  flatwrap env set firefox MOZ_ENABLE_WAYLAND=1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("flatwrap: short launch commands for Flatpak applications")
			fmt.Println()
			fmt.Println("Run 'flatwrap generate' to create wrappers.")
			fmt.Println("Run 'flatwrap --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "config directory (default: $XDG_CONFIG_HOME/flatwrap)")
	RootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "registry database path (default: ~/.flatwrap/flatwrap.db)")
	RootCmd.PersistentFlags().StringVar(&targetDirFlag, "target", "", "wrapper directory (default: ~/.flatwrap/bin)")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(generateCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(infoCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(preferCmd)
	RootCmd.AddCommand(envCmd)
	RootCmd.AddCommand(aliasCmd)
	RootCmd.AddCommand(blockCmd)
	RootCmd.AddCommand(unblockCmd)
	RootCmd.AddCommand(blocklistCmd)
	RootCmd.AddCommand(hookCmd)
	RootCmd.AddCommand(removeCmd)
	RootCmd.AddCommand(passthroughCmd)
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(doctorCmd)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}

// configStore returns the file-based configuration store.
func configStore() (*config.Store, error) {
	dir := configDirFlag
	if dir == "" {
		var err error
		dir, err = config.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("failed to determine config directory: %w", err)
		}
	}
	return config.NewStore(dir), nil
}

// openRegistry opens the wrapper registry database, creating the schema if
// needed. The caller must Close it.
func openRegistry() (*store.Store, error) {
	path := dbPathFlag
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create registry schema: %w", err)
	}
	return db, nil
}

// resolveTargetDir returns the wrapper directory honoring the --target flag.
func resolveTargetDir() (string, error) {
	if targetDirFlag != "" {
		return targetDirFlag, nil
	}
	return wrapper.DefaultTargetDir()
}

// stateDir returns the flatwrap state directory (~/.flatwrap), creating it
// if needed. Daemon PID and log files live here.
func stateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	dir := filepath.Join(home, ".flatwrap")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return dir, nil
}
