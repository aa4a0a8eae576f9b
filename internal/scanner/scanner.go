// Package scanner enumerates native executables visible on the user's PATH.
package scanner

import (
	"os"
	"path/filepath"
)

// NativeBinaries scans every directory in PATH, in order, and returns a map
// of executable name to the path that a shell would resolve it to (first
// match per name wins). Directories listed in exclude are skipped, which is
// how the wrapper directory keeps itself out of its own view of "native".
func NativeBinaries(exclude ...string) map[string]string {
	return scanPath(os.Getenv("PATH"), exclude)
}

// scanPath is the pure core of NativeBinaries, split out for tests.
func scanPath(pathEnv string, exclude []string) map[string]string {
	skip := make(map[string]bool, len(exclude))
	for _, dir := range exclude {
		skip[filepath.Clean(dir)] = true
	}

	binaries := make(map[string]string)
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" || skip[filepath.Clean(dir)] {
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue // unreadable PATH entries are a shell no-op too
		}

		for _, entry := range entries {
			name := entry.Name()
			if _, taken := binaries[name]; taken {
				continue // earlier PATH entry wins
			}

			full := filepath.Join(dir, name)
			info, err := os.Stat(full) // follows symlinks
			if err != nil || info.IsDir() {
				continue
			}
			if info.Mode().Perm()&0111 == 0 {
				continue // not executable
			}
			binaries[name] = full
		}
	}

	return binaries
}

// Resolve returns the path a shell would run for name, excluding the given
// directories from consideration. Returns "" when name does not resolve.
func Resolve(name string, exclude ...string) string {
	skip := make(map[string]bool, len(exclude))
	for _, dir := range exclude {
		skip[filepath.Clean(dir)] = true
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" || skip[filepath.Clean(dir)] {
			continue
		}
		full := filepath.Join(dir, name)
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode().Perm()&0111 == 0 {
			continue
		}
		return full
	}
	return ""
}
