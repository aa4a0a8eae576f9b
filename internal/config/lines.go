package config

import (
	"bufio"
	"os"
	"strings"
)

// readLines returns the trimmed, non-blank, non-comment lines of the named
// file under the store directory. A missing file yields no lines and no
// error.
func (s *Store) readLines(name string) ([]string, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// writeLines atomically replaces the named file with the given lines.
func (s *Store) writeLines(name string, lines []string) error {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return writeFileAtomic(s.path(name), []byte(sb.String()), 0644)
}

func (s *Store) path(name string) string {
	return s.dir + string(os.PathSeparator) + name
}

// splitKV splits a "key=value" line. ok is false when there is no "=" or
// the key side is empty — such lines are treated as corrupt and skipped.
func splitKV(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, '=')
	if idx <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	if key == "" {
		return "", "", false
	}
	return key, value, true
}
