package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/config"
)

var (
	preferUnset bool
	preferEmit  bool

	preferCmd = &cobra.Command{
		Use:   "prefer <name> [native|sandboxed]",
		Short: "Choose which target a wrapper runs",
		Long: `Set the per-wrapper preference between the native binary and the
sandboxed application.

Without a stored preference the default policy applies: a wrapper that
shadows a native binary keeps running the native binary; all other wrappers
run the sandboxed application.`,
		Example: `  # Opt in to the sandboxed firefox
  flatwrap prefer firefox sandboxed

  # Back to the default policy
  flatwrap prefer firefox --unset`,
		RunE: runPrefer,
	}
)

func init() {
	preferCmd.Flags().BoolVar(&preferUnset, "unset", false, "remove the stored preference")
	preferCmd.Flags().BoolVar(&preferEmit, "emit", false, "print the change without writing")
}

func runPrefer(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return invalidInputf("wrapper name required")
	}
	name := args[0]

	cfg, err := configStore()
	if err != nil {
		return err
	}
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	if _, err := registry.GetWrapper(name); err != nil {
		return notFoundf("no wrapper named %q", name)
	}

	if preferUnset {
		if len(args) > 1 {
			return invalidInputf("--unset takes no preference value")
		}
		if preferEmit {
			fmt.Printf("would remove stored preference for %s\n", name)
			return nil
		}
		if err := cfg.UnsetPreference(name); err != nil {
			return err
		}
		fmt.Printf("%s now follows the default policy\n", name)
		return nil
	}

	if len(args) != 2 {
		return invalidInputf("usage: flatwrap prefer <name> <native|sandboxed>")
	}
	pref, err := config.ParsePreference(args[1])
	if err != nil {
		return invalidInputf("%v", err)
	}

	if preferEmit {
		fmt.Printf("would set preference for %s to %s\n", name, pref)
		return nil
	}
	if err := cfg.SetPreference(name, pref); err != nil {
		return err
	}
	fmt.Printf("%s now prefers the %s target\n", name, pref)
	return nil
}
