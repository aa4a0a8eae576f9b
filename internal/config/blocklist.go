package config

import (
	"fmt"
	"sort"
)

// Blocklist loads the set of application identifiers excluded from wrapper
// generation regardless of inventory.
func (s *Store) Blocklist() (map[string]bool, error) {
	lines, err := s.readLines(blocklistFile)
	if err != nil {
		return nil, fmt.Errorf("read blocklist: %w", err)
	}

	blocked := make(map[string]bool, len(lines))
	for _, line := range lines {
		blocked[line] = true
	}
	return blocked, nil
}

// Block adds an identifier to the blocklist. Blocking an already blocked
// identifier is not an error.
func (s *Store) Block(id string) error {
	if id == "" {
		return fmt.Errorf("identifier must be non-empty")
	}
	blocked, err := s.Blocklist()
	if err != nil {
		return err
	}
	if blocked[id] {
		return nil
	}
	blocked[id] = true
	return s.saveBlocklist(blocked)
}

// Unblock removes an identifier from the blocklist; removed reports whether
// it was present.
func (s *Store) Unblock(id string) (removed bool, err error) {
	blocked, err := s.Blocklist()
	if err != nil {
		return false, err
	}
	if !blocked[id] {
		return false, nil
	}
	delete(blocked, id)
	return true, s.saveBlocklist(blocked)
}

func (s *Store) saveBlocklist(blocked map[string]bool) error {
	ids := make([]string, 0, len(blocked))
	for id := range blocked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return s.writeLines(blocklistFile, ids)
}
