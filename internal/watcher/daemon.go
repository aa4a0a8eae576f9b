package watcher

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
)

// StartDaemon forks the current executable as a detached background watch
// process, writes its PID to pidFile, and redirects its output to logFile.
func StartDaemon(pidFile, logFile string) error {
	running, err := IsDaemonRunning(pidFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon already running (PID file: %s)", pidFile)
	}

	logF, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logF.Close()

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, "watch", "--daemon-child")
	cmd.Stdout = logF
	cmd.Stderr = logF
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // new session, detached from the terminal
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon process: %w", err)
	}

	pid := cmd.Process.Pid
	if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d\n", pid)), 0644); err != nil {
		cmd.Process.Kill()
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("failed to release process: %w", err)
	}

	return nil
}

// RunDaemon runs the watcher in the foreground until SIGTERM/SIGINT, then
// cleans up the PID file. This is the body of the forked daemon child.
func RunDaemon(w *Watcher, pidFile string) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	sig := <-sigCh
	fmt.Fprintf(os.Stderr, "received signal %v, shutting down...\n", sig)

	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}

	if err := os.Remove(pidFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}

	return nil
}

// StopDaemon stops a running daemon by sending SIGTERM to the recorded PID.
func StopDaemon(pidFile string) error {
	pidData, err := os.ReadFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("daemon not running (PID file not found)")
		}
		return fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(pidData)))
	if err != nil {
		return fmt.Errorf("invalid PID in file: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		// Process is gone; clear the stale PID file.
		os.Remove(pidFile)
		return fmt.Errorf("daemon process %d not running (stale PID file removed)", pid)
	}

	return nil
}

// IsDaemonRunning reports whether the PID in pidFile refers to a live
// process. A stale PID file is removed as a side effect.
func IsDaemonRunning(pidFile string) (bool, error) {
	pidData, err := os.ReadFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(pidData)))
	if err != nil {
		os.Remove(pidFile)
		return false, nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, nil
	}

	// Signal 0 probes for existence without delivering anything.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		os.Remove(pidFile)
		return false, nil
	}

	return true, nil
}
