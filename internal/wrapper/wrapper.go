// Package wrapper manages the launcher directory and reconciles it against
// the installed application set.
//
// Architecture:
//   - A single resolver binary (~/.flatwrap/bin/flatwrap-wrapper) handles
//     every generated launcher.
//   - One symlink per wrapped application points at that binary; the symlink
//     name is the short name the user types.
//   - The symlink target is the generated-artifact marker: a name in the
//     directory that does not point at the resolver binary is foreign and is
//     never touched by reconciliation.
package wrapper

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// BinaryName is the resolver binary every launcher symlink points at.
const BinaryName = "flatwrap-wrapper"

// DefaultTargetDir returns the directory launcher artifacts are generated
// into. Default: ~/.flatwrap/bin.
func DefaultTargetDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".flatwrap", "bin"), nil
}

// IsPathSetup reports whether targetDir is positioned in PATH early enough
// to shadow native binaries. Returns (true, "") on success, or
// (false, reason) explaining what needs fixing.
func IsPathSetup(targetDir string) (bool, string) {
	pathDirs := filepath.SplitList(os.Getenv("PATH"))
	for i, dir := range pathDirs {
		if filepath.Clean(dir) != filepath.Clean(targetDir) {
			continue
		}
		if i == 0 {
			return true, ""
		}
		return false, fmt.Sprintf(
			"wrapper directory should appear first in PATH so wrappers shadow native binaries:\n  export PATH=%q:$PATH",
			targetDir,
		)
	}
	return false, fmt.Sprintf(
		"add the wrapper directory to PATH:\n  export PATH=%q:$PATH",
		targetDir,
	)
}

// EnsureBinary makes sure the resolver binary exists at
// <targetDir>/flatwrap-wrapper.
//
// Strategy (in order):
//  1. If flatwrap-wrapper is already next to the running flatwrap binary
//     (true after `go install ./...` or a release build), copy it in.
//  2. Otherwise run `go install` for the wrapper package (dev workflow) and
//     copy from GOPATH/bin.
func EnsureBinary(targetDir string) error {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("cannot create wrapper dir %s: %w", targetDir, err)
	}

	outputPath := filepath.Join(targetDir, BinaryName)

	if self, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(self), BinaryName)
		if _, err := os.Stat(candidate); err == nil {
			return copyFile(candidate, outputPath)
		}
	}

	installCmd := exec.Command("go", "install",
		"github.com/blackwell-systems/flatwrap/cmd/flatwrap-wrapper")
	installCmd.Stdout = os.Stderr
	installCmd.Stderr = os.Stderr
	if err := installCmd.Run(); err != nil {
		return fmt.Errorf("failed to install wrapper binary: %w", err)
	}

	gopath, err := goPath()
	if err != nil {
		return fmt.Errorf("cannot determine GOPATH: %w", err)
	}
	installed := filepath.Join(gopath, "bin", BinaryName)
	if _, err := os.Stat(installed); err != nil {
		return fmt.Errorf("wrapper binary not found at %s after install", installed)
	}

	return copyFile(installed, outputPath)
}

// goPath returns the effective GOPATH.
func goPath() (string, error) {
	out, err := exec.Command("go", "env", "GOPATH").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// copyFile copies src to dst, making dst executable.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	if err := os.WriteFile(dst, data, 0755); err != nil {
		return fmt.Errorf("write dest: %w", err)
	}
	return nil
}

// artifactPresent reports whether a generated launcher symlink for short
// exists in targetDir, identified by the symlink-target marker.
func artifactPresent(targetDir, short string) bool {
	target, err := os.Readlink(filepath.Join(targetDir, short))
	if err != nil {
		return false
	}
	return target == filepath.Join(targetDir, BinaryName)
}

// createArtifact places the launcher symlink for short, replacing a stale
// symlink if one is present. A foreign regular file is never overwritten.
func createArtifact(targetDir, short string) error {
	link := filepath.Join(targetDir, short)
	binary := filepath.Join(targetDir, BinaryName)

	if info, err := os.Lstat(link); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return fmt.Errorf("refusing to replace non-symlink %s", link)
		}
		if existing, err := os.Readlink(link); err == nil && existing == binary {
			return nil // already correct
		}
		os.Remove(link)
	}

	if err := os.Symlink(binary, link); err != nil {
		return fmt.Errorf("failed to create launcher for %s: %w", short, err)
	}
	return nil
}

// removeArtifact deletes the launcher symlink for short. Only marker
// symlinks are removed; anything else is left alone.
func removeArtifact(targetDir, short string) error {
	if !artifactPresent(targetDir, short) {
		return nil
	}
	if err := os.Remove(filepath.Join(targetDir, short)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove launcher for %s: %w", short, err)
	}
	return nil
}

// listArtifacts returns the short names of every marker symlink in
// targetDir.
func listArtifacts(targetDir string) ([]string, error) {
	entries, err := os.ReadDir(targetDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read wrapper dir %s: %w", targetDir, err)
	}

	var shorts []string
	for _, entry := range entries {
		name := entry.Name()
		if name == BinaryName {
			continue
		}
		if artifactPresent(targetDir, name) {
			shorts = append(shorts, name)
		}
	}
	return shorts, nil
}
