package app

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/watcher"
	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

var (
	watchDaemon      bool
	watchDaemonChild bool
	watchStop        bool
	watchStatus      bool

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Regenerate wrappers when applications are installed or removed",
		Long: `Watch the Flatpak export directories and reconcile the wrapper set when
the installed application set changes. Runs in the foreground by default;
use --daemon to fork into the background.`,
		Example: `  # Watch in the foreground (Ctrl-C to stop)
  flatwrap watch

  # Run in the background
  flatwrap watch --daemon
  flatwrap watch --stop`,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run in the background")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal: the forked daemon body")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop the background daemon")
	watchCmd.Flags().BoolVar(&watchStatus, "status", false, "report whether the daemon is running")
	watchCmd.Flags().MarkHidden("daemon-child")
}

func runWatch(cmd *cobra.Command, args []string) error {
	sdir, err := stateDir()
	if err != nil {
		return err
	}
	pidFile := filepath.Join(sdir, "watch.pid")
	logFile := filepath.Join(sdir, "watch.log")

	switch {
	case watchStop:
		if err := watcher.StopDaemon(pidFile); err != nil {
			return notFoundf("%v", err)
		}
		fmt.Println("watch daemon stopped")
		return nil

	case watchStatus:
		running, err := watcher.IsDaemonRunning(pidFile)
		if err != nil {
			return err
		}
		if running {
			fmt.Println("watch daemon is running")
		} else {
			fmt.Println("watch daemon is not running")
		}
		return nil

	case watchDaemon:
		if err := watcher.StartDaemon(pidFile, logFile); err != nil {
			return err
		}
		fmt.Printf("watch daemon started (log: %s)\n", logFile)
		return nil
	}

	dirs := watcher.ExportDirs()
	if len(dirs) == 0 {
		return notFoundf("no Flatpak export directories found; is flatpak installed?")
	}

	w, err := watcher.New(dirs, watchReconcile)
	if err != nil {
		return err
	}

	if watchDaemonChild {
		return watcher.RunDaemon(w, pidFile)
	}

	if err := w.Start(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "watching %v (Ctrl-C to stop)\n", dirs)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	return w.Stop()
}

// watchReconcile is the debounced trigger body. Stores are opened per
// invocation so the daemon never pins the registry between bursts; failures
// are logged and the watch keeps running.
func watchReconcile() {
	cfg, err := configStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		return
	}
	registry, err := openRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		return
	}
	defer registry.Close()

	targetDir, err := resolveTargetDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		return
	}
	if err := wrapper.EnsureBinary(targetDir); err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		return
	}

	report, err := wrapper.Reconcile(wrapper.Options{
		TargetDir: targetDir,
		Config:    cfg,
		Registry:  registry,
	})
	if err != nil {
		if errors.Is(err, wrapper.ErrLockContention) {
			fmt.Fprintf(os.Stderr, "watch: another reconcile is running, skipping\n")
			return
		}
		fmt.Fprintf(os.Stderr, "watch: reconcile failed: %v\n", err)
		return
	}

	if !report.Empty() {
		fmt.Printf("[%s] reconciled: %d created, %d updated, %d removed, %d stale\n",
			time.Now().Format(time.TimeOnly),
			len(report.Created), len(report.Updated),
			len(report.Removed), len(report.MarkedStale))
	}
}
