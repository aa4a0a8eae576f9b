package config

import (
	"fmt"
	"strings"
)

// EnvVar is one environment override applied before exec.
type EnvVar struct {
	Name  string
	Value string
}

// Environment loads every environment override, keyed by short name, in
// file order. Duplicate variables for the same short name collapse to the
// later entry, which keeps keys unique per short name while honoring
// "later wins".
func (s *Store) Environment() (map[string][]EnvVar, error) {
	lines, err := s.readLines(environmentFile)
	if err != nil {
		return nil, fmt.Errorf("read environment overrides: %w", err)
	}

	env := make(map[string][]EnvVar)
	for _, line := range lines {
		short, v, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		env[short] = upsertVar(env[short], v)
	}
	return env, nil
}

// EnvironmentFor returns the overrides for one short name, in application
// order. A load failure behaves as "no overrides".
func (s *Store) EnvironmentFor(short string) []EnvVar {
	env, err := s.Environment()
	if err != nil {
		return nil
	}
	return env[short]
}

// SetEnv records an override. An existing entry for the same variable is
// replaced in place; a new variable appends at the end.
func (s *Store) SetEnv(short, name, value string) error {
	if name == "" || strings.ContainsAny(name, "= \t") {
		return fmt.Errorf("invalid variable name %q", name)
	}

	lines, err := s.readLines(environmentFile)
	if err != nil {
		return fmt.Errorf("read environment overrides: %w", err)
	}

	entry := fmt.Sprintf("%s %s=%s", short, name, value)
	replaced := false
	out := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		ls, v, ok := parseEnvLine(line)
		if ok && ls == short && v.Name == name {
			if !replaced {
				out = append(out, entry)
				replaced = true
			}
			continue
		}
		out = append(out, line)
	}
	if !replaced {
		out = append(out, entry)
	}
	return s.writeLines(environmentFile, out)
}

// UnsetEnv removes the override for (short, name). Absence is not an error.
func (s *Store) UnsetEnv(short, name string) error {
	lines, err := s.readLines(environmentFile)
	if err != nil {
		return fmt.Errorf("read environment overrides: %w", err)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		ls, v, ok := parseEnvLine(line)
		if ok && ls == short && v.Name == name {
			continue
		}
		out = append(out, line)
	}
	if len(out) == len(lines) {
		return nil
	}
	return s.writeLines(environmentFile, out)
}

// parseEnvLine parses "short KEY=VALUE". The value may be empty; the short
// name and key may not.
func parseEnvLine(line string) (short string, v EnvVar, ok bool) {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) != 2 {
		return "", EnvVar{}, false
	}
	short = strings.TrimSpace(fields[0])
	key, value, kvOK := splitKV(strings.TrimSpace(fields[1]))
	if short == "" || !kvOK {
		return "", EnvVar{}, false
	}
	return short, EnvVar{Name: key, Value: value}, true
}

// upsertVar replaces an existing variable in place or appends a new one.
func upsertVar(vars []EnvVar, v EnvVar) []EnvVar {
	for i := range vars {
		if vars[i].Name == v.Name {
			vars[i].Value = v.Value
			return vars
		}
	}
	return append(vars, v)
}
