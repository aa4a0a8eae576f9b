// Package config is the durable, file-based configuration store.
//
// Layout under the config directory (XDG_CONFIG_HOME/flatwrap):
//
//	blocklist       one application identifier per line
//	preferences     short=native|sandboxed, one per line
//	environment     short KEY=VALUE, one per line, file order preserved
//	aliases         alias=short, one per line
//	hooks/<short>/  pre and post executable scripts
//
// Malformed lines are skipped on load: a record that fails to parse behaves
// exactly as an absent record and never blocks reconciliation or a launch.
// Every write goes through write-to-temp-then-rename so a concurrent reader
// never observes a torn record.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	blocklistFile   = "blocklist"
	preferencesFile = "preferences"
	environmentFile = "environment"
	aliasesFile     = "aliases"
	hooksDir        = "hooks"
)

// Store provides access to the on-disk configuration directory. The zero
// value is not usable; construct with NewStore.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir. The directory is created lazily
// on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// DefaultDir returns the flatwrap config directory, respecting
// XDG_CONFIG_HOME. Defaults to ~/.config/flatwrap.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "flatwrap"), nil
}

// writeFileAtomic writes data to path via a temp file in the same directory
// followed by a rename, creating parent directories as needed.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// HasUserConfig reports whether any user configuration (preference,
// environment override, hook, or alias pointing at it) is attached to the
// short name. The generator uses this to mark a wrapper stale instead of
// removing it, so user customization is never silently discarded.
func (s *Store) HasUserConfig(short string) bool {
	if prefs, err := s.Preferences(); err == nil {
		if _, ok := prefs[short]; ok {
			return true
		}
	}
	if env, err := s.Environment(); err == nil {
		if len(env[short]) > 0 {
			return true
		}
	}
	if s.HookPath(short, HookPre) != "" || s.HookPath(short, HookPost) != "" {
		return true
	}
	if aliases, err := s.Aliases(); err == nil {
		for _, target := range aliases {
			if target == short {
				return true
			}
		}
	}
	return false
}
