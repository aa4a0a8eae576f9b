package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/output"
	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

var (
	generateEmit bool

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Reconcile launcher wrappers with installed applications",
		Long: `Reconcile the wrapper directory against the currently installed Flatpak
applications.

New applications get launcher wrappers, applications that were uninstalled
lose theirs, and wrappers that carry user configuration (preferences,
environment overrides, hooks, aliases) are marked stale instead of removed.
Running generate repeatedly is safe: with unchanged inputs the second run is
a no-op. A scheduled trigger (systemd timer, cron) can simply invoke this
command.`,
		Example: `  # Reconcile wrappers
  flatwrap generate

  # Preview the diff without writing anything
  flatwrap generate --emit`,
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().BoolVar(&generateEmit, "emit", false, "compute and print the diff without writing")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := configStore()
	if err != nil {
		return err
	}
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	targetDir, err := resolveTargetDir()
	if err != nil {
		return err
	}

	if !generateEmit {
		if err := wrapper.EnsureBinary(targetDir); err != nil {
			return fmt.Errorf("failed to install wrapper binary: %w", err)
		}
	}

	spinner := output.NewSpinner("Reconciling wrappers")
	spinner.Start()
	report, err := wrapper.Reconcile(wrapper.Options{
		TargetDir: targetDir,
		DryRun:    generateEmit,
		Config:    cfg,
		Registry:  registry,
	})
	spinner.Stop()
	if err != nil {
		if errors.Is(err, wrapper.ErrLockContention) {
			return &ExitError{Code: ExitLockContention, Err: err}
		}
		return err
	}

	fmt.Print(output.RenderReport(report, generateEmit))

	if !generateEmit && !report.Empty() {
		if ok, reason := wrapper.IsPathSetup(targetDir); !ok {
			fmt.Fprintf(os.Stderr, "\nnote: %s\n", reason)
		}
	}

	return nil
}
