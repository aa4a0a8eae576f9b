package launch

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/flatwrap/internal/flatpak"
	"github.com/blackwell-systems/flatwrap/internal/scanner"
)

// fillDefaults wires the real collaborators for any field left nil.
func (r *Resolver) fillDefaults() {
	if r.Stdin == nil {
		r.Stdin = os.Stdin
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
	if r.IsTerminal == nil {
		r.IsTerminal = func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
		}
	}
	if r.Getenv == nil {
		r.Getenv = os.Getenv
	}
	if r.Environ == nil {
		r.Environ = os.Environ
	}
	if r.LookupNative == nil {
		r.LookupNative = func(name string) string {
			return scanner.Resolve(name, r.TargetDir)
		}
	}
	if r.SandboxInstalled == nil {
		r.SandboxInstalled = flatpak.Installed
	}
	if r.Exec == nil {
		r.Exec = execReplace
	}
	if r.RunChild == nil {
		r.RunChild = runChild
	}
	if r.RunHook == nil {
		r.RunHook = runHook
	}
}

// execReplace swaps in the target via execve; it only returns on failure.
func execReplace(argv []string, env []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return err
	}
	return syscall.Exec(path, argv, env)
}

// runChild runs the target as a child with inherited streams and returns
// its exit code.
func runChild(argv []string, env []string) (int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, err
	}
	return 0, nil
}

// runHook executes a hook script with the wrapper's environment and the
// launch arguments, streams attached, and returns its exit code.
func runHook(path string, env []string, args []string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stderr // hook chatter must not pollute the target's stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, err
	}
	return 0, nil
}
