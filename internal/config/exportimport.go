package config

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Export streams the whole store as a tar archive: the four top-level files
// plus every hook script. File contents are written byte-for-byte, so an
// Import of the stream reproduces the store exactly.
func (s *Store) Export(w io.Writer) error {
	tw := tar.NewWriter(w)

	for _, name := range []string{blocklistFile, preferencesFile, environmentFile, aliasesFile} {
		if err := s.exportFile(tw, name, 0644); err != nil {
			return err
		}
	}

	hookFiles, err := s.listHookFiles()
	if err != nil {
		return err
	}
	for _, rel := range hookFiles {
		if err := s.exportFile(tw, rel, 0755); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

// Import reads a tar archive produced by Export and writes every entry into
// the store, replacing existing files. Entries with unsafe paths are
// rejected.
func (s *Store) Import(r io.Reader) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		rel := filepath.Clean(hdr.Name)
		if filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("unsafe path in archive: %q", hdr.Name)
		}
		if !importablePath(rel) {
			return fmt.Errorf("unexpected entry in archive: %q", hdr.Name)
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("read archive entry %s: %w", rel, err)
		}

		perm := os.FileMode(0644)
		if strings.HasPrefix(rel, hooksDir+string(os.PathSeparator)) {
			perm = 0755
		}
		if err := writeFileAtomic(filepath.Join(s.dir, rel), data, perm); err != nil {
			return fmt.Errorf("import %s: %w", rel, err)
		}
	}
}

// importablePath restricts archive entries to the store's known layout.
func importablePath(rel string) bool {
	switch rel {
	case blocklistFile, preferencesFile, environmentFile, aliasesFile:
		return true
	}
	if !strings.HasPrefix(rel, hooksDir+string(os.PathSeparator)) {
		return false
	}
	base := filepath.Base(rel)
	return base == string(HookPre) || base == string(HookPost)
}

// exportFile writes one store file into the archive. Missing files are
// skipped: an empty store exports an empty archive.
func (s *Store) exportFile(tw *tar.Writer, rel string, perm int64) error {
	data, err := os.ReadFile(filepath.Join(s.dir, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", rel, err)
	}

	hdr := &tar.Header{
		Name:    filepath.ToSlash(rel),
		Mode:    perm,
		Size:    int64(len(data)),
		ModTime: time.Unix(0, 0), // deterministic archives
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header for %s: %w", rel, err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// listHookFiles returns hooks/<short>/{pre,post} relative paths, sorted.
func (s *Store) listHookFiles() ([]string, error) {
	root := filepath.Join(s.dir, hooksDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read hooks dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for _, kind := range []HookKind{HookPre, HookPost} {
			rel := filepath.Join(hooksDir, entry.Name(), string(kind))
			if _, err := os.Stat(filepath.Join(s.dir, rel)); err == nil {
				files = append(files, rel)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
