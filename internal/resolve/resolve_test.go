package resolve

import (
	"reflect"
	"testing"

	"github.com/blackwell-systems/flatwrap/internal/flatpak"
)

func TestCandidate(t *testing.T) {
	cases := map[string]string{
		"org.mozilla.firefox":  "firefox",
		"com.spotify.Client":   "client",
		"org.gnome.Calculator": "calculator",
		"single":               "single",
	}
	for id, want := range cases {
		if got := Candidate(id); got != want {
			t.Errorf("Candidate(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestNames_Singleton(t *testing.T) {
	apps := []flatpak.App{{ID: "org.mozilla.firefox", Scope: "system"}}

	res := Names(apps, nil, nil)
	if len(res.Skipped) != 0 {
		t.Fatalf("unexpected skips: %v", res.Skipped)
	}
	if len(res.Assignments) != 1 {
		t.Fatalf("got %d assignments, want 1", len(res.Assignments))
	}
	a := res.Assignments[0]
	if a.ShortName != "firefox" {
		t.Errorf("ShortName = %q, want firefox", a.ShortName)
	}
	if a.HasNativeConflict {
		t.Error("HasNativeConflict = true with no native binaries")
	}
}

func TestNames_NativeConflictFlagged(t *testing.T) {
	apps := []flatpak.App{{ID: "org.mozilla.firefox", Scope: "system"}}
	native := map[string]string{"firefox": "/usr/bin/firefox"}

	res := Names(apps, native, nil)
	if len(res.Assignments) != 1 || !res.Assignments[0].HasNativeConflict {
		t.Fatalf("expected firefox flagged as native conflict, got %+v", res.Assignments)
	}
}

func TestNames_SegmentDisambiguation(t *testing.T) {
	apps := []flatpak.App{
		{ID: "com.foo.Tool", Scope: "system"},
		{ID: "org.bar.Tool", Scope: "system"},
	}

	res := Names(apps, nil, nil)
	if len(res.Skipped) != 0 {
		t.Fatalf("unexpected skips: %v", res.Skipped)
	}

	got := shortNames(res)
	want := map[string]string{
		"com.foo.Tool": "foo-tool",
		"org.bar.Tool": "bar-tool",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("assignments = %v, want %v", got, want)
	}
}

func TestNames_DeepSegmentDisambiguation(t *testing.T) {
	// First segment-expansion depth still collides; depth 2 resolves it.
	apps := []flatpak.App{
		{ID: "com.alpha.dev.Tool", Scope: "system"},
		{ID: "org.beta.dev.Tool", Scope: "system"},
	}

	res := Names(apps, nil, nil)
	got := shortNames(res)
	want := map[string]string{
		"com.alpha.dev.Tool": "alpha-dev-tool",
		"org.beta.dev.Tool":  "beta-dev-tool",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("assignments = %v, want %v", got, want)
	}
}

func TestNames_NumericSuffixFallback(t *testing.T) {
	// Identifiers identical modulo case cannot be separated by segments.
	apps := []flatpak.App{
		{ID: "com.example.Tool", Scope: "system"},
		{ID: "com.Example.tool", Scope: "system"},
	}

	res := Names(apps, nil, nil)
	if len(res.Assignments) != 2 {
		t.Fatalf("got %d assignments, want 2: %+v", len(res.Assignments), res)
	}
	names := map[string]bool{}
	for _, a := range res.Assignments {
		names[a.ShortName] = true
	}
	if !names["com-example-tool-1"] || !names["com-example-tool-2"] {
		t.Errorf("expected numeric suffixes, got %v", names)
	}
}

func TestNames_AliasCollisionSkips(t *testing.T) {
	apps := []flatpak.App{{ID: "org.mozilla.firefox", Scope: "system"}}
	aliases := map[string]string{"firefox": "ff-stable"}

	res := Names(apps, nil, aliases)
	if len(res.Assignments) != 0 {
		t.Fatalf("expected no assignments, got %+v", res.Assignments)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].App.ID != "org.mozilla.firefox" {
		t.Fatalf("expected org.mozilla.firefox skipped, got %+v", res.Skipped)
	}
	if res.Skipped[0].Reason == "" {
		t.Error("skip carries no reason")
	}
}

func TestNames_CrossGroupCollision(t *testing.T) {
	// a-tool is both a disambiguated name (com.a.tool) and a bare candidate
	// (org.x.a-tool). The identifier-sorted first claimant keeps it.
	apps := []flatpak.App{
		{ID: "com.a.tool", Scope: "system"},
		{ID: "com.b.tool", Scope: "system"},
		{ID: "org.x.a-tool", Scope: "system"},
	}

	res := Names(apps, nil, nil)
	got := shortNames(res)
	if got["com.a.tool"] != "a-tool" || got["com.b.tool"] != "b-tool" {
		t.Errorf("assignments = %v", got)
	}
	if _, assigned := got["org.x.a-tool"]; assigned {
		t.Errorf("org.x.a-tool should have been skipped, got %v", got)
	}
	if len(res.Skipped) != 1 {
		t.Fatalf("skipped = %+v, want exactly one", res.Skipped)
	}
}

func TestNames_OrderIndependent(t *testing.T) {
	apps := []flatpak.App{
		{ID: "com.foo.Tool", Scope: "system"},
		{ID: "org.bar.Tool", Scope: "system"},
		{ID: "org.mozilla.firefox", Scope: "system"},
		{ID: "org.x.a-tool", Scope: "system"},
		{ID: "com.a.tool", Scope: "system"},
	}
	reversed := make([]flatpak.App, len(apps))
	for i, app := range apps {
		reversed[len(apps)-1-i] = app
	}

	a := Names(apps, nil, nil)
	b := Names(reversed, nil, nil)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("resolver output depends on input order:\n%+v\nvs\n%+v", a, b)
	}
}

func TestNames_DedupeByScope(t *testing.T) {
	// Same app in both installations gets one wrapper; system scope wins.
	apps := []flatpak.App{
		{ID: "org.mozilla.firefox", Scope: "user", Origin: "flathub-beta"},
		{ID: "org.mozilla.firefox", Scope: "system", Origin: "flathub"},
	}

	res := Names(apps, nil, nil)
	if len(res.Assignments) != 1 {
		t.Fatalf("got %d assignments, want 1", len(res.Assignments))
	}
	a := res.Assignments[0]
	if a.App.Scope != "system" || a.App.Origin != "flathub" {
		t.Errorf("kept %+v, want the system-scoped install", a.App)
	}
}

func shortNames(res Result) map[string]string {
	out := make(map[string]string, len(res.Assignments))
	for _, a := range res.Assignments {
		out[a.App.ID] = a.ShortName
	}
	return out
}
