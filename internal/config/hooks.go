package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// HookKind selects the pre-launch or post-run hook of a wrapper.
type HookKind string

const (
	// HookPre runs before exec; a nonzero exit aborts the launch.
	HookPre HookKind = "pre"
	// HookPost runs after the target exits, for side effects only.
	HookPost HookKind = "post"
)

// ParseHookKind validates a user-supplied hook kind.
func ParseHookKind(s string) (HookKind, error) {
	switch HookKind(s) {
	case HookPre, HookPost:
		return HookKind(s), nil
	}
	return "", fmt.Errorf("invalid hook kind %q (want %q or %q)", s, HookPre, HookPost)
}

// HookPath returns the path of the configured hook script, or "" when no
// hook is installed for (short, kind).
func (s *Store) HookPath(short string, kind HookKind) string {
	p := filepath.Join(s.dir, hooksDir, short, string(kind))
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return ""
	}
	return p
}

// SetHook installs the script at src as the (short, kind) hook by copying
// it into the hooks directory with the executable bit set.
func (s *Store) SetHook(short string, kind HookKind, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open hook script: %w", err)
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read hook script: %w", err)
	}

	dst := filepath.Join(s.dir, hooksDir, short, string(kind))
	if err := writeFileAtomic(dst, data, 0755); err != nil {
		return fmt.Errorf("install hook: %w", err)
	}
	return nil
}

// RemoveHook deletes the (short, kind) hook; removed reports whether a hook
// was installed.
func (s *Store) RemoveHook(short string, kind HookKind) (removed bool, err error) {
	p := filepath.Join(s.dir, hooksDir, short, string(kind))
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("remove hook: %w", err)
	}
	// Drop the per-wrapper directory when it is now empty.
	os.Remove(filepath.Join(s.dir, hooksDir, short))
	return true, nil
}
