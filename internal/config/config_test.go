package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestPreferences_RoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.SetPreference("firefox", PreferSandboxed); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPreference("gimp", PreferNative); err != nil {
		t.Fatal(err)
	}

	prefs, err := s.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]Preference{"firefox": PreferSandboxed, "gimp": PreferNative}
	if !reflect.DeepEqual(prefs, want) {
		t.Errorf("Preferences() = %v, want %v", prefs, want)
	}

	if err := s.UnsetPreference("firefox"); err != nil {
		t.Fatal(err)
	}
	prefs, _ = s.Preferences()
	if _, ok := prefs["firefox"]; ok {
		t.Error("firefox preference still present after unset")
	}

	// Unsetting an absent entry is a no-op.
	if err := s.UnsetPreference("nonexistent"); err != nil {
		t.Errorf("UnsetPreference(absent) error: %v", err)
	}
}

func TestPreferences_CorruptLinesSkipped(t *testing.T) {
	dir := t.TempDir()
	content := "firefox=sandboxed\n" +
		"garbage line without equals\n" +
		"=no-key\n" +
		"gimp=purple\n" + // unknown preference value
		"# comment\n" +
		"\n" +
		"vlc=native\n"
	if err := os.WriteFile(filepath.Join(dir, "preferences"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	prefs, err := NewStore(dir).Preferences()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]Preference{"firefox": PreferSandboxed, "vlc": PreferNative}
	if !reflect.DeepEqual(prefs, want) {
		t.Errorf("Preferences() = %v, want %v (corrupt lines skipped)", prefs, want)
	}
}

func TestParsePreference(t *testing.T) {
	if _, err := ParsePreference("native"); err != nil {
		t.Errorf("ParsePreference(native) error: %v", err)
	}
	if _, err := ParsePreference("container"); err == nil {
		t.Error("ParsePreference(container) expected error")
	}
}

func TestEnvironment_OrderAndLaterWins(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.SetEnv("firefox", "FOO", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetEnv("firefox", "BAR", "x"); err != nil {
		t.Fatal(err)
	}
	// Replacing FOO keeps its original position.
	if err := s.SetEnv("firefox", "FOO", "2"); err != nil {
		t.Fatal(err)
	}

	vars := s.EnvironmentFor("firefox")
	want := []EnvVar{{Name: "FOO", Value: "2"}, {Name: "BAR", Value: "x"}}
	if !reflect.DeepEqual(vars, want) {
		t.Errorf("EnvironmentFor() = %v, want %v", vars, want)
	}
}

func TestEnvironment_DuplicateLinesLaterWins(t *testing.T) {
	dir := t.TempDir()
	content := "firefox FOO=1\nfirefox FOO=2\n"
	if err := os.WriteFile(filepath.Join(dir, "environment"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	vars := NewStore(dir).EnvironmentFor("firefox")
	if len(vars) != 1 || vars[0].Value != "2" {
		t.Errorf("EnvironmentFor() = %v, want later duplicate to win", vars)
	}
}

func TestSetEnv_RejectsInvalidNames(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, name := range []string{"", "A B", "A=B", "A\tB"} {
		if err := s.SetEnv("firefox", name, "v"); err == nil {
			t.Errorf("SetEnv(%q) expected error", name)
		}
	}
}

func TestUnsetEnv(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.SetEnv("firefox", "FOO", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.UnsetEnv("firefox", "FOO"); err != nil {
		t.Fatal(err)
	}
	if vars := s.EnvironmentFor("firefox"); len(vars) != 0 {
		t.Errorf("overrides remain after unset: %v", vars)
	}
	if err := s.UnsetEnv("firefox", "ABSENT"); err != nil {
		t.Errorf("UnsetEnv(absent) error: %v", err)
	}
}

func TestAliases_RoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.SetAlias("ff", "firefox"); err != nil {
		t.Fatal(err)
	}
	aliases, err := s.Aliases()
	if err != nil {
		t.Fatal(err)
	}
	if aliases["ff"] != "firefox" {
		t.Errorf("Aliases() = %v", aliases)
	}

	removed, err := s.RemoveAlias("ff")
	if err != nil || !removed {
		t.Fatalf("RemoveAlias() = %v, %v", removed, err)
	}
	removed, err = s.RemoveAlias("ff")
	if err != nil || removed {
		t.Fatalf("RemoveAlias(absent) = %v, %v, want false, nil", removed, err)
	}
}

func TestBlocklist_RoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Block("org.example.Noisy"); err != nil {
		t.Fatal(err)
	}
	if err := s.Block("org.example.Noisy"); err != nil {
		t.Errorf("blocking twice should be a no-op, got %v", err)
	}

	blocked, err := s.Blocklist()
	if err != nil {
		t.Fatal(err)
	}
	if !blocked["org.example.Noisy"] {
		t.Errorf("Blocklist() = %v", blocked)
	}

	removed, err := s.Unblock("org.example.Noisy")
	if err != nil || !removed {
		t.Fatalf("Unblock() = %v, %v", removed, err)
	}
	removed, _ = s.Unblock("org.example.Noisy")
	if removed {
		t.Error("Unblock(absent) = true, want false")
	}
}

func TestHooks(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	script := filepath.Join(t.TempDir(), "hook.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := s.SetHook("firefox", HookPre, script); err != nil {
		t.Fatal(err)
	}

	p := s.HookPath("firefox", HookPre)
	if p == "" {
		t.Fatal("HookPath() empty after SetHook")
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Error("installed hook is not executable")
	}
	if s.HookPath("firefox", HookPost) != "" {
		t.Error("HookPath(post) should be empty")
	}

	removed, err := s.RemoveHook("firefox", HookPre)
	if err != nil || !removed {
		t.Fatalf("RemoveHook() = %v, %v", removed, err)
	}
	if s.HookPath("firefox", HookPre) != "" {
		t.Error("HookPath() non-empty after removal")
	}
	removed, _ = s.RemoveHook("firefox", HookPre)
	if removed {
		t.Error("RemoveHook(absent) = true, want false")
	}
}

func TestHasUserConfig(t *testing.T) {
	s := NewStore(t.TempDir())

	if s.HasUserConfig("firefox") {
		t.Fatal("empty store reports user config")
	}

	if err := s.SetEnv("firefox", "FOO", "1"); err != nil {
		t.Fatal(err)
	}
	if !s.HasUserConfig("firefox") {
		t.Error("env override not detected")
	}

	if err := s.SetAlias("ff", "gimp"); err != nil {
		t.Fatal(err)
	}
	if !s.HasUserConfig("gimp") {
		t.Error("alias pointing at wrapper not detected")
	}
	if s.HasUserConfig("vlc") {
		t.Error("unrelated wrapper reports user config")
	}
}
