package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/scanner"
	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

var (
	passthroughEmit bool

	passthroughCmd = &cobra.Command{
		Use:   "passthrough <name>",
		Short: "Wrap a native binary without a sandboxed target",
		Long: `Create a native-passthrough wrapper: a launcher that always execs the
native binary of the same name, but still applies the wrapper's environment
overrides and hooks.

Reconciliation never removes a passthrough wrapper; use 'flatwrap remove'.`,
		Example: `  flatwrap passthrough rsync
  flatwrap env set rsync RSYNC_RSH=ssh`,
		RunE: runPassthrough,
	}
)

func init() {
	passthroughCmd.Flags().BoolVar(&passthroughEmit, "emit", false, "print the change without writing")
}

func runPassthrough(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return invalidInputf("usage: flatwrap passthrough <name>")
	}
	name := args[0]

	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	targetDir, err := resolveTargetDir()
	if err != nil {
		return err
	}

	if scanner.Resolve(name, targetDir) == "" {
		return notFoundf("no native binary named %q on PATH", name)
	}
	if _, err := registry.GetWrapper(name); err == nil {
		return invalidInputf("wrapper %q already exists", name)
	}

	if passthroughEmit {
		fmt.Printf("would create passthrough wrapper for %s\n", name)
		return nil
	}

	if err := wrapper.EnsureBinary(targetDir); err != nil {
		return fmt.Errorf("failed to install wrapper binary: %w", err)
	}
	if err := wrapper.CreatePassthrough(targetDir, registry, name); err != nil {
		return err
	}
	fmt.Printf("created passthrough wrapper for %s\n", name)
	return nil
}
