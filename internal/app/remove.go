package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

var (
	removeStale bool
	removeEmit  bool

	removeCmd = &cobra.Command{
		Use:   "remove [name]",
		Short: "Explicitly remove a wrapper",
		Long: `Remove a wrapper's launcher artifact and registry record.

This is the removal path for stale wrappers: reconciliation keeps a wrapper
whose application was uninstalled as long as user configuration is attached,
so removing it is always an explicit decision.`,
		Example: `  # Remove one wrapper
  flatwrap remove firefox

  # Purge everything marked stale
  flatwrap remove --stale`,
		RunE: runRemove,
	}
)

func init() {
	removeCmd.Flags().BoolVar(&removeStale, "stale", false, "remove every stale wrapper")
	removeCmd.Flags().BoolVar(&removeEmit, "emit", false, "print what would be removed without writing")
}

func runRemove(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	targetDir, err := resolveTargetDir()
	if err != nil {
		return err
	}

	if removeStale {
		if len(args) != 0 {
			return invalidInputf("--stale takes no wrapper name")
		}

		if removeEmit {
			records, err := registry.ListWrappers()
			if err != nil {
				return err
			}
			var names []string
			for _, rec := range records {
				if rec.Stale {
					names = append(names, rec.ShortName)
				}
			}
			if len(names) == 0 {
				fmt.Println("nothing is marked stale")
				return nil
			}
			fmt.Printf("would remove: %s\n", strings.Join(names, ", "))
			return nil
		}

		purged, err := wrapper.PurgeStale(targetDir, registry)
		if err != nil {
			return err
		}
		if len(purged) == 0 {
			fmt.Println("nothing is marked stale")
			return nil
		}
		fmt.Printf("removed: %s\n", strings.Join(purged, ", "))
		return nil
	}

	if len(args) != 1 {
		return invalidInputf("usage: flatwrap remove <name> (or --stale)")
	}
	name := args[0]

	if _, err := registry.GetWrapper(name); err != nil {
		return notFoundf("no wrapper named %q", name)
	}

	if removeEmit {
		fmt.Printf("would remove %s\n", name)
		return nil
	}
	if err := wrapper.Remove(targetDir, registry, name); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", name)
	return nil
}
