// Package watcher keeps the wrapper directory converged by watching the
// Flatpak export directories and triggering reconciliation when the
// installed set changes. It exists so wrappers appear moments after an
// install without waiting for the next manual or scheduled run.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow batches the burst of filesystem events one flatpak
// install/uninstall produces into a single reconciliation.
const debounceWindow = 2 * time.Second

// ExportDirs returns the Flatpak export bin directories that exist on this
// system, for both the system and user installations.
func ExportDirs() []string {
	candidates := []string{
		"/var/lib/flatpak/exports/bin",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".local", "share", "flatpak", "exports", "bin"))
	}

	var dirs []string
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Watcher triggers a callback, debounced, whenever a watched directory
// changes.
type Watcher struct {
	dirs    []string
	trigger func()

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher over dirs that invokes trigger after changes settle.
func New(dirs []string, trigger func()) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no directories to watch")
	}
	if trigger == nil {
		return nil, fmt.Errorf("trigger cannot be nil")
	}
	return &Watcher{
		dirs:    dirs,
		trigger: trigger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching. It fires the trigger once immediately so the
// wrapper set converges at daemon startup, then again after each settled
// burst of changes.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	w.fsw = fsw

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.trigger()

	w.wg.Add(1)
	go w.run()
	return nil
}

// run collapses event bursts into single trigger invocations.
func (w *Watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.trigger()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: %v\n", err)

		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	if w.fsw != nil {
		w.fsw.Close()
	}
	w.wg.Wait()
	return nil
}
