package wrapper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// ErrLockContention indicates another reconciliation holds the advisory
// lock. The condition is retryable and callers exit cleanly on it.
var ErrLockContention = errors.New("reconciliation already in progress")

// lockPollInterval is how often acquisition retries while waiting.
const lockPollInterval = 100 * time.Millisecond

// fileLock holds an exclusive advisory flock for the diff-and-apply phase.
type fileLock struct {
	f *os.File
}

// acquireLock takes the exclusive advisory lock at path, polling until
// timeout. Contention past the timeout returns ErrLockContention.
func acquireLock(path string, timeout time.Duration) (*fileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("cannot create lock dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("cannot open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return &fileLock{f: f}, nil
		}
		if err != syscall.EWOULDBLOCK {
			f.Close()
			return nil, fmt.Errorf("flock: %w", err)
		}
		if time.Now().After(deadline) {
			f.Close()
			return nil, ErrLockContention
		}
		time.Sleep(lockPollInterval)
	}
}

// release drops the lock. The lock file itself is left in place.
func (l *fileLock) release() {
	if l == nil || l.f == nil {
		return
	}
	syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
	l.f.Close()
}
