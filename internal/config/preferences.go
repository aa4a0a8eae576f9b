package config

import (
	"fmt"
	"sort"
)

// Preference is the persisted user choice between the native and sandboxed
// target for a short name.
type Preference string

const (
	// PreferNative runs the native binary when it still resolves on PATH.
	PreferNative Preference = "native"
	// PreferSandboxed runs the sandboxed application.
	PreferSandboxed Preference = "sandboxed"
)

// ParsePreference validates a user-supplied preference value.
func ParsePreference(s string) (Preference, error) {
	switch Preference(s) {
	case PreferNative, PreferSandboxed:
		return Preference(s), nil
	}
	return "", fmt.Errorf("invalid preference %q (want %q or %q)", s, PreferNative, PreferSandboxed)
}

// Preferences loads the preference file. Lines that do not parse, or carry
// an unknown preference value, are skipped.
func (s *Store) Preferences() (map[string]Preference, error) {
	lines, err := s.readLines(preferencesFile)
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}

	prefs := make(map[string]Preference)
	for _, line := range lines {
		short, value, ok := splitKV(line)
		if !ok {
			continue
		}
		switch Preference(value) {
		case PreferNative, PreferSandboxed:
			prefs[short] = Preference(value)
		}
	}
	return prefs, nil
}

// SetPreference records the preference for short, replacing any prior entry.
func (s *Store) SetPreference(short string, pref Preference) error {
	prefs, err := s.Preferences()
	if err != nil {
		return err
	}
	prefs[short] = pref
	return s.savePreferences(prefs)
}

// UnsetPreference removes the entry for short, restoring the default policy.
// Removing an absent entry is not an error.
func (s *Store) UnsetPreference(short string) error {
	prefs, err := s.Preferences()
	if err != nil {
		return err
	}
	if _, ok := prefs[short]; !ok {
		return nil
	}
	delete(prefs, short)
	return s.savePreferences(prefs)
}

func (s *Store) savePreferences(prefs map[string]Preference) error {
	shorts := make([]string, 0, len(prefs))
	for short := range prefs {
		shorts = append(shorts, short)
	}
	sort.Strings(shorts)

	lines := make([]string, 0, len(shorts))
	for _, short := range shorts {
		lines = append(lines, fmt.Sprintf("%s=%s", short, prefs[short]))
	}
	return s.writeLines(preferencesFile, lines)
}
