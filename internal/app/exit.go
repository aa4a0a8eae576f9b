package app

import "fmt"

// Process exit codes. Scripted callers rely on the distinction between
// "not found" and "invalid input"; the wrapper binary's own sentinel code
// (125) is defined in internal/launch.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitInvalidInput   = 2
	ExitNotFound       = 3
	ExitLockContention = 4
)

// ExitError signals a specific process exit code without forcing os.Exit
// inside RunE handlers; main unwraps it.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the underlying message.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func invalidInputf(format string, args ...any) error {
	return &ExitError{Code: ExitInvalidInput, Err: fmt.Errorf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &ExitError{Code: ExitNotFound, Err: fmt.Errorf(format, args...)}
}
