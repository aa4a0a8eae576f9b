package flatpak

import (
	"reflect"
	"testing"
)

func TestParseList(t *testing.T) {
	output := "org.mozilla.firefox\tFirefox\tflathub\tsystem\n" +
		"com.spotify.Client\tSpotify\tflathub\tuser\n"

	apps := parseList(output)
	want := []App{
		{ID: "com.spotify.Client", Name: "Spotify", Origin: "flathub", Scope: "user"},
		{ID: "org.mozilla.firefox", Name: "Firefox", Origin: "flathub", Scope: "system"},
	}
	if !reflect.DeepEqual(apps, want) {
		t.Errorf("parseList() = %+v, want %+v", apps, want)
	}
}

func TestParseList_MissingColumns(t *testing.T) {
	// Older flatpak versions omit trailing empty columns.
	apps := parseList("org.gnome.Calculator\tCalculator\n")
	if len(apps) != 1 {
		t.Fatalf("got %d apps, want 1", len(apps))
	}
	app := apps[0]
	if app.ID != "org.gnome.Calculator" || app.Name != "Calculator" {
		t.Errorf("unexpected app: %+v", app)
	}
	if app.Scope != "system" {
		t.Errorf("Scope = %q, want default system", app.Scope)
	}
}

func TestParseList_SkipsBlankAndMalformed(t *testing.T) {
	output := "\n" +
		"\t\t\t\n" + // no application ID
		"org.mozilla.firefox\tFirefox\tflathub\tsystem\n"

	apps := parseList(output)
	if len(apps) != 1 || apps[0].ID != "org.mozilla.firefox" {
		t.Errorf("parseList() = %+v, want just firefox", apps)
	}
}

func TestParseList_DedupesPerScope(t *testing.T) {
	output := "org.mozilla.firefox\tFirefox\tflathub\tsystem\n" +
		"org.mozilla.firefox\tFirefox\tflathub\tsystem\n" +
		"org.mozilla.firefox\tFirefox\tflathub\tuser\n"

	apps := parseList(output)
	if len(apps) != 2 {
		t.Fatalf("got %d apps, want 2 (one per scope): %+v", len(apps), apps)
	}
	if apps[0].Scope != "system" || apps[1].Scope != "user" {
		t.Errorf("scopes = %q, %q", apps[0].Scope, apps[1].Scope)
	}
}

func TestRunArgv(t *testing.T) {
	argv := RunArgv("org.mozilla.firefox", []string{"--private-window", "https://example.com"})
	want := []string{"flatpak", "run", "org.mozilla.firefox", "--private-window", "https://example.com"}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("RunArgv() = %v, want %v", argv, want)
	}
}
