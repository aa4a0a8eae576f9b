package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/config"
)

var (
	hookEmit bool

	hookCmd = &cobra.Command{
		Use:   "hook",
		Short: "Manage per-wrapper pre/post hooks",
		Long: `Manage hook scripts that run around a wrapper's target.

The pre hook runs before the target; a nonzero exit aborts the launch with
the hook's exit code. The post hook runs after the target exits, for side
effects only, and never changes the target's exit code.`,
	}

	hookSetCmd = &cobra.Command{
		Use:     "set <name> <pre|post> <script>",
		Short:   "Install a hook script for a wrapper",
		Example: `  flatwrap hook set firefox pre ~/bin/vpn-up.sh`,
		RunE:    runHookSet,
	}

	hookRemoveCmd = &cobra.Command{
		Use:   "remove <name> <pre|post>",
		Short: "Remove a hook",
		RunE:  runHookRemove,
	}
)

func init() {
	hookSetCmd.Flags().BoolVar(&hookEmit, "emit", false, "print the change without writing")
	hookRemoveCmd.Flags().BoolVar(&hookEmit, "emit", false, "print the change without writing")

	hookCmd.AddCommand(hookSetCmd)
	hookCmd.AddCommand(hookRemoveCmd)
}

func runHookSet(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		return invalidInputf("usage: flatwrap hook set <name> <pre|post> <script>")
	}
	name := args[0]

	kind, err := config.ParseHookKind(args[1])
	if err != nil {
		return invalidInputf("%v", err)
	}

	cfg, err := configStore()
	if err != nil {
		return err
	}
	if err := requireWrapper(name); err != nil {
		return err
	}

	if hookEmit {
		fmt.Printf("would install %s as the %s hook for %s\n", args[2], kind, name)
		return nil
	}
	if err := cfg.SetHook(name, kind, args[2]); err != nil {
		return invalidInputf("%v", err)
	}
	fmt.Printf("installed %s hook for %s\n", kind, name)
	return nil
}

func runHookRemove(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return invalidInputf("usage: flatwrap hook remove <name> <pre|post>")
	}
	name := args[0]

	kind, err := config.ParseHookKind(args[1])
	if err != nil {
		return invalidInputf("%v", err)
	}

	cfg, err := configStore()
	if err != nil {
		return err
	}

	if hookEmit {
		fmt.Printf("would remove the %s hook for %s\n", kind, name)
		return nil
	}
	removed, err := cfg.RemoveHook(name, kind)
	if err != nil {
		return err
	}
	if !removed {
		return notFoundf("no %s hook installed for %q", kind, name)
	}
	fmt.Printf("removed %s hook for %s\n", kind, name)
	return nil
}
