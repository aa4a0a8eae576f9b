package app

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/scanner"
	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

var (
	aliasEmit bool

	aliasCmd = &cobra.Command{
		Use:   "alias",
		Short: "Manage alternate names for wrappers",
		Long: `Manage alias names that launch an existing wrapper.

An alias occupies the same namespace as wrapper names and native binaries:
it must not collide with either, so an alias can never silently shadow a
command you already have.`,
	}

	aliasAddCmd = &cobra.Command{
		Use:     "add <alias> <name>",
		Short:   "Add an alias for a wrapper",
		Example: `  flatwrap alias add ff firefox`,
		RunE:    runAliasAdd,
	}

	aliasRemoveCmd = &cobra.Command{
		Use:   "remove <alias>",
		Short: "Remove an alias",
		RunE:  runAliasRemove,
	}

	aliasListCmd = &cobra.Command{
		Use:   "list",
		Short: "List aliases",
		RunE:  runAliasList,
	}
)

func init() {
	aliasAddCmd.Flags().BoolVar(&aliasEmit, "emit", false, "print the change without writing")
	aliasRemoveCmd.Flags().BoolVar(&aliasEmit, "emit", false, "print the change without writing")

	aliasCmd.AddCommand(aliasAddCmd)
	aliasCmd.AddCommand(aliasRemoveCmd)
	aliasCmd.AddCommand(aliasListCmd)
}

func runAliasAdd(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return invalidInputf("usage: flatwrap alias add <alias> <name>")
	}
	alias, name := args[0], args[1]

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

	// The alias namespace is shared with wrapper names and native binaries.
	if _, err := registry.GetWrapper(alias); err == nil {
		return invalidInputf("%q is already a wrapper name", alias)
	}
	targetDir, err := resolveTargetDir()
	if err != nil {
		return err
	}
	if path := scanner.Resolve(alias, targetDir); path != "" {
		return invalidInputf("%q would shadow the native binary at %s", alias, path)
	}

	if aliasEmit {
		fmt.Printf("would add alias %s -> %s\n", alias, name)
		return nil
	}

	if err := cfg.SetAlias(alias, name); err != nil {
		return invalidInputf("%v", err)
	}

	// The alias becomes a launcher artifact of its own on the next
	// reconcile; create it eagerly so it works immediately.
	if err := wrapper.CreateAliasArtifact(targetDir, alias); err != nil {
		fmt.Printf("alias recorded; run 'flatwrap generate' to create its launcher (%v)\n", err)
		return nil
	}
	fmt.Printf("alias %s -> %s\n", alias, name)
	return nil
}

func runAliasRemove(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return invalidInputf("usage: flatwrap alias remove <alias>")
	}
	alias := args[0]

	cfg, err := configStore()
	if err != nil {
		return err
	}

	if aliasEmit {
		fmt.Printf("would remove alias %s\n", alias)
		return nil
	}

	removed, err := cfg.RemoveAlias(alias)
	if err != nil {
		return err
	}
	if !removed {
		return notFoundf("no alias named %q", alias)
	}

	targetDir, err := resolveTargetDir()
	if err == nil {
		wrapper.RemoveAliasArtifact(targetDir, alias)
	}
	fmt.Printf("removed alias %s\n", alias)
	return nil
}

func runAliasList(cmd *cobra.Command, args []string) error {
	cfg, err := configStore()
	if err != nil {
		return err
	}

	aliases, err := cfg.Aliases()
	if err != nil {
		return err
	}
	if len(aliases) == 0 {
		fmt.Println("no aliases configured")
		return nil
	}

	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	for _, alias := range names {
		fmt.Printf("%s -> %s\n", alias, aliases[alias])
	}
	return nil
}
