package config

import (
	"fmt"
	"sort"
)

// Aliases loads the alias file: alias name → short name. Malformed lines
// are skipped.
func (s *Store) Aliases() (map[string]string, error) {
	lines, err := s.readLines(aliasesFile)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}

	aliases := make(map[string]string)
	for _, line := range lines {
		alias, short, ok := splitKV(line)
		if !ok || short == "" {
			continue
		}
		aliases[alias] = short
	}
	return aliases, nil
}

// SetAlias records alias → short. The caller is responsible for namespace
// validation (an alias must not collide with a wrapper short name); the
// store only guarantees alias-name uniqueness within the file.
func (s *Store) SetAlias(alias, short string) error {
	if alias == "" || short == "" {
		return fmt.Errorf("alias and target must be non-empty")
	}
	aliases, err := s.Aliases()
	if err != nil {
		return err
	}
	aliases[alias] = short
	return s.saveAliases(aliases)
}

// RemoveAlias deletes the alias. Removing an absent alias is not an error;
// removed reports whether an entry existed.
func (s *Store) RemoveAlias(alias string) (removed bool, err error) {
	aliases, err := s.Aliases()
	if err != nil {
		return false, err
	}
	if _, ok := aliases[alias]; !ok {
		return false, nil
	}
	delete(aliases, alias)
	return true, s.saveAliases(aliases)
}

func (s *Store) saveAliases(aliases map[string]string) error {
	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, alias := range names {
		lines = append(lines, fmt.Sprintf("%s=%s", alias, aliases[alias]))
	}
	return s.writeLines(aliasesFile, lines)
}
