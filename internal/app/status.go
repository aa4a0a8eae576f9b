package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/output"
	"github.com/blackwell-systems/flatwrap/internal/watcher"
	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

var (
	statusRuns int

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show wrapper directory health and recent runs",
		Long: `Show the state of the wrapper installation: whether the wrapper directory
is on PATH, whether the watch daemon is running, wrapper counts, and the
most recent reconciliation runs.`,
		RunE: runStatus,
	}
)

func init() {
	statusCmd.Flags().IntVar(&statusRuns, "runs", 5, "number of recent runs to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	targetDir, err := resolveTargetDir()
	if err != nil {
		return err
	}

	fmt.Printf("wrapper directory: %s\n", targetDir)
	if ok, reason := wrapper.IsPathSetup(targetDir); ok {
		fmt.Println("PATH:              ok")
	} else {
		fmt.Printf("PATH:              %s\n", reason)
	}

	sdir, err := stateDir()
	if err == nil {
		running, derr := watcher.IsDaemonRunning(filepath.Join(sdir, "watch.pid"))
		switch {
		case derr != nil:
			fmt.Printf("watch daemon:      unknown (%v)\n", derr)
		case running:
			fmt.Println("watch daemon:      running")
		default:
			fmt.Println("watch daemon:      not running")
		}
	}

	records, err := registry.ListWrappers()
	if err != nil {
		return err
	}
	var stale, conflicts int
	for _, rec := range records {
		if rec.Stale {
			stale++
		}
		if rec.HasNativeConflict {
			conflicts++
		}
	}
	fmt.Printf("wrappers:          %d (%d stale, %d with native conflicts)\n",
		len(records), stale, conflicts)

	runs, err := registry.ListRuns(statusRuns)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(output.RenderRunTable(runs))

	return nil
}
