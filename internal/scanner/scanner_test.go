package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanPath_FirstMatchWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	wantPath := writeExecutable(t, first, "git")
	writeExecutable(t, second, "git")

	bins := scanPath(first+string(os.PathListSeparator)+second, nil)
	if bins["git"] != wantPath {
		t.Errorf("git resolved to %q, want %q (earlier PATH entry)", bins["git"], wantPath)
	}
}

func TestScanPath_ExcludesDirectories(t *testing.T) {
	wrapperDir := t.TempDir()
	sysDir := t.TempDir()
	writeExecutable(t, wrapperDir, "firefox")
	wantPath := writeExecutable(t, sysDir, "firefox")

	pathEnv := strings.Join([]string{wrapperDir, sysDir}, string(os.PathListSeparator))
	bins := scanPath(pathEnv, []string{wrapperDir})
	if bins["firefox"] != wantPath {
		t.Errorf("firefox resolved to %q, want %q (wrapper dir excluded)", bins["firefox"], wantPath)
	}
}

func TestScanPath_SkipsNonExecutables(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}
	writeExecutable(t, dir, "tool")

	bins := scanPath(dir, nil)
	if len(bins) != 1 || bins["tool"] == "" {
		t.Errorf("scanPath() = %v, want only the executable", bins)
	}
}

func TestScanPath_ToleratesMissingDirs(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "tool")

	pathEnv := strings.Join([]string{"/definitely/not/a/dir", "", dir}, string(os.PathListSeparator))
	bins := scanPath(pathEnv, nil)
	if bins["tool"] == "" {
		t.Errorf("scanPath() lost the valid entry: %v", bins)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	wantPath := writeExecutable(t, dir, "tool")

	original := os.Getenv("PATH")
	t.Cleanup(func() { os.Setenv("PATH", original) })
	os.Setenv("PATH", dir)

	if got := Resolve("tool"); got != wantPath {
		t.Errorf("Resolve(tool) = %q, want %q", got, wantPath)
	}
	if got := Resolve("tool", dir); got != "" {
		t.Errorf("Resolve with dir excluded = %q, want empty", got)
	}
	if got := Resolve("missing"); got != "" {
		t.Errorf("Resolve(missing) = %q, want empty", got)
	}
}
