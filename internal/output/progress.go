package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for plain
// io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// Spinner displays an animated spinner with a message.
// Example: |  Reconciling wrappers...
type Spinner struct {
	message string
	running bool
	chars   []string
	mu      sync.Mutex
	writer  io.Writer
	done    chan struct{}
}

// NewSpinner creates a new spinner with a message. On a non-TTY writer the
// animation goroutine is skipped and the message is printed once so log
// output is not cluttered.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		chars:   []string{"|", "/", "-", "\\"},
		writer:  os.Stdout,
		done:    make(chan struct{}),
	}
}

// SetWriter sets the output writer (useful for testing).
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	if !writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.writer, "\r%s  %s", s.chars[i%len(s.chars)], s.message)
				s.mu.Unlock()
				i++
			case <-s.done:
				return
			}
		}
	}()
}

// Stop halts the animation and clears the spinner line.
func (s *Spinner) Stop() {
	s.stop("")
}

// StopWithMessage halts the animation and replaces the spinner line with a
// final message.
func (s *Spinner) StopWithMessage(msg string) {
	s.stop(msg)
}

func (s *Spinner) stop(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	if writerIsTTY(s.writer) {
		close(s.done)
		// Clear the animated line before printing the final message.
		fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	}
	if msg != "" {
		fmt.Fprintln(s.writer, msg)
	}
}
