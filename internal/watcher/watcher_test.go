package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, func() {}); err == nil {
		t.Error("New() accepted an empty directory list")
	}
	if _, err := New([]string{t.TempDir()}, nil); err == nil {
		t.Error("New() accepted a nil trigger")
	}
}

func TestWatcher_FiresOnStartup(t *testing.T) {
	fired := make(chan struct{}, 1)
	w, err := New([]string{t.TempDir()}, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("trigger did not fire at startup")
	}
}

func TestWatcher_DebouncesChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("debounce test waits out the settle window")
	}

	dir := t.TempDir()
	fired := make(chan struct{}, 16)
	w, err := New([]string{dir}, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	<-fired // startup trigger

	// A burst of creates must collapse into one trigger.
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, fmt.Sprintf("app-%d", i))
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-fired:
	case <-time.After(debounceWindow + 3*time.Second):
		t.Fatal("trigger did not fire after changes settled")
	}

	select {
	case <-fired:
		t.Error("burst produced more than one trigger")
	case <-time.After(debounceWindow + time.Second):
	}
}

func TestIsDaemonRunning(t *testing.T) {
	dir := t.TempDir()

	// No PID file.
	running, err := IsDaemonRunning(filepath.Join(dir, "absent.pid"))
	if err != nil || running {
		t.Errorf("IsDaemonRunning(absent) = %v, %v", running, err)
	}

	// Our own PID is definitely alive.
	alive := filepath.Join(dir, "alive.pid")
	if err := os.WriteFile(alive, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
		t.Fatal(err)
	}
	running, err = IsDaemonRunning(alive)
	if err != nil || !running {
		t.Errorf("IsDaemonRunning(self) = %v, %v", running, err)
	}

	// Garbage PID files are cleaned up.
	garbage := filepath.Join(dir, "garbage.pid")
	if err := os.WriteFile(garbage, []byte("not-a-pid\n"), 0644); err != nil {
		t.Fatal(err)
	}
	running, err = IsDaemonRunning(garbage)
	if err != nil || running {
		t.Errorf("IsDaemonRunning(garbage) = %v, %v", running, err)
	}
	if _, err := os.Stat(garbage); !os.IsNotExist(err) {
		t.Error("garbage PID file not removed")
	}
}

func TestStopDaemon_NotRunning(t *testing.T) {
	if err := StopDaemon(filepath.Join(t.TempDir(), "absent.pid")); err == nil {
		t.Error("StopDaemon(absent) expected error")
	}
}
