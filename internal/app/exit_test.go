package app

import (
	"errors"
	"testing"
)

func TestExitError(t *testing.T) {
	err := invalidInputf("bad input %d", 7)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatal("invalidInputf did not produce an ExitError")
	}
	if exitErr.Code != ExitInvalidInput {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitInvalidInput)
	}
	if exitErr.Error() != "bad input 7" {
		t.Errorf("Error() = %q", exitErr.Error())
	}

	err = notFoundf("no wrapper %q", "ghost")
	if !errors.As(err, &exitErr) || exitErr.Code != ExitNotFound {
		t.Errorf("notFoundf code = %d, want %d", exitErr.Code, ExitNotFound)
	}
}

func TestExitError_NoWrapped(t *testing.T) {
	e := &ExitError{Code: ExitLockContention}
	if e.Error() == "" {
		t.Error("Error() empty without a wrapped error")
	}
	if e.Unwrap() != nil {
		t.Error("Unwrap() non-nil without a wrapped error")
	}
}
