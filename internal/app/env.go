package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	envEmit bool

	envCmd = &cobra.Command{
		Use:   "env",
		Short: "Manage per-wrapper environment overrides",
		Long: `Manage environment variables applied before a wrapper execs its target.

Overrides layer over the inherited environment in the order they were set;
setting the same variable again replaces the earlier value.`,
	}

	envSetCmd = &cobra.Command{
		Use:     "set <name> KEY=VALUE",
		Short:   "Set an environment override",
		Example: `  flatwrap env set firefox MOZ_ENABLE_WAYLAND=1`,
		RunE:    runEnvSet,
	}

	envUnsetCmd = &cobra.Command{
		Use:   "unset <name> KEY",
		Short: "Remove an environment override",
		RunE:  runEnvUnset,
	}

	envListCmd = &cobra.Command{
		Use:   "list <name>",
		Short: "Show the overrides for a wrapper",
		RunE:  runEnvList,
	}
)

func init() {
	envSetCmd.Flags().BoolVar(&envEmit, "emit", false, "print the change without writing")
	envUnsetCmd.Flags().BoolVar(&envEmit, "emit", false, "print the change without writing")

	envCmd.AddCommand(envSetCmd)
	envCmd.AddCommand(envUnsetCmd)
	envCmd.AddCommand(envListCmd)
}

func runEnvSet(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return invalidInputf("usage: flatwrap env set <name> KEY=VALUE")
	}
	name := args[0]

	idx := strings.IndexByte(args[1], '=')
	if idx <= 0 {
		return invalidInputf("override must be KEY=VALUE, got %q", args[1])
	}
	key, value := args[1][:idx], args[1][idx+1:]

	cfg, err := configStore()
	if err != nil {
		return err
	}
	if err := requireWrapper(name); err != nil {
		return err
	}

	if envEmit {
		fmt.Printf("would set %s=%s for %s\n", key, value, name)
		return nil
	}
	if err := cfg.SetEnv(name, key, value); err != nil {
		return invalidInputf("%v", err)
	}
	fmt.Printf("%s will launch with %s=%s\n", name, key, value)
	return nil
}

func runEnvUnset(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return invalidInputf("usage: flatwrap env unset <name> KEY")
	}
	name, key := args[0], args[1]

	cfg, err := configStore()
	if err != nil {
		return err
	}
	if err := requireWrapper(name); err != nil {
		return err
	}

	if envEmit {
		fmt.Printf("would unset %s for %s\n", key, name)
		return nil
	}
	if err := cfg.UnsetEnv(name, key); err != nil {
		return err
	}
	fmt.Printf("removed %s override for %s\n", key, name)
	return nil
}

func runEnvList(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return invalidInputf("usage: flatwrap env list <name>")
	}
	name := args[0]

	cfg, err := configStore()
	if err != nil {
		return err
	}

	vars := cfg.EnvironmentFor(name)
	if len(vars) == 0 {
		fmt.Printf("no environment overrides for %s\n", name)
		return nil
	}
	for _, v := range vars {
		fmt.Printf("%s=%s\n", v.Name, v.Value)
	}
	return nil
}

// requireWrapper maps a missing registry record to the not-found exit code.
func requireWrapper(name string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	if _, err := registry.GetWrapper(name); err != nil {
		return notFoundf("no wrapper named %q", name)
	}
	return nil
}
