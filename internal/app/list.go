package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/output"
	"github.com/blackwell-systems/flatwrap/internal/store"
)

var (
	listStaleOnly bool

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List generated wrappers",
		Example: `  # All wrappers
  flatwrap list

  # Only wrappers whose target left the inventory
  flatwrap list --stale`,
		RunE: runList,
	}
)

func init() {
	listCmd.Flags().BoolVar(&listStaleOnly, "stale", false, "show only stale wrappers")
}

func runList(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	wrappers, err := registry.ListWrappers()
	if err != nil {
		return err
	}

	if listStaleOnly {
		var stale []*store.Wrapper
		for _, w := range wrappers {
			if w.Stale {
				stale = append(stale, w)
			}
		}
		wrappers = stale
	}

	fmt.Print(output.RenderWrapperTable(wrappers))
	return nil
}
