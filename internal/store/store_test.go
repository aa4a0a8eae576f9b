package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.CreateSchema(); err != nil {
		t.Fatalf("CreateSchema() error: %v", err)
	}
	return s
}

func TestUpsertGetWrapper(t *testing.T) {
	s := newTestStore(t)

	w := &Wrapper{
		ShortName:         "firefox",
		AppID:             "org.mozilla.firefox",
		Kind:              KindSandboxed,
		Origin:            "flathub",
		Scope:             "system",
		HasNativeConflict: true,
	}
	if err := s.UpsertWrapper(w); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetWrapper("firefox")
	if err != nil {
		t.Fatal(err)
	}
	if got.AppID != w.AppID || got.Kind != KindSandboxed || !got.HasNativeConflict {
		t.Errorf("GetWrapper() = %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set on insert")
	}
}

func TestUpsertWrapper_PreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)

	w := &Wrapper{ShortName: "firefox", AppID: "org.mozilla.firefox", Kind: KindSandboxed}
	if err := s.UpsertWrapper(w); err != nil {
		t.Fatal(err)
	}
	first, err := s.GetWrapper("firefox")
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(1100 * time.Millisecond) // RFC3339 has second granularity

	w.Origin = "flathub-beta"
	if err := s.UpsertWrapper(w); err != nil {
		t.Fatal(err)
	}
	second, err := s.GetWrapper("firefox")
	if err != nil {
		t.Fatal(err)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on upsert: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("updated_at did not advance: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
	if second.Origin != "flathub-beta" {
		t.Errorf("Origin = %q after upsert", second.Origin)
	}
}

func TestGetWrapper_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetWrapper("missing"); err == nil {
		t.Error("GetWrapper(missing) expected error")
	}
}

func TestListWrappers_Ordered(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"vlc", "firefox", "gimp"} {
		if err := s.UpsertWrapper(&Wrapper{ShortName: name, AppID: "app." + name, Kind: KindSandboxed}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListWrappers()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d wrappers, want 3", len(list))
	}
	for i, want := range []string{"firefox", "gimp", "vlc"} {
		if list[i].ShortName != want {
			t.Errorf("list[%d] = %q, want %q", i, list[i].ShortName, want)
		}
	}
}

func TestDeleteWrapper(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpsertWrapper(&Wrapper{ShortName: "firefox", AppID: "org.mozilla.firefox", Kind: KindSandboxed}); err != nil {
		t.Fatal(err)
	}

	removed, err := s.DeleteWrapper("firefox")
	if err != nil || !removed {
		t.Fatalf("DeleteWrapper() = %v, %v", removed, err)
	}
	removed, err = s.DeleteWrapper("firefox")
	if err != nil || removed {
		t.Fatalf("DeleteWrapper(absent) = %v, %v, want false, nil", removed, err)
	}
}

func TestSetStale(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpsertWrapper(&Wrapper{ShortName: "firefox", AppID: "org.mozilla.firefox", Kind: KindSandboxed}); err != nil {
		t.Fatal(err)
	}

	if err := s.SetStale("firefox", true); err != nil {
		t.Fatal(err)
	}
	w, err := s.GetWrapper("firefox")
	if err != nil {
		t.Fatal(err)
	}
	if !w.Stale {
		t.Error("wrapper not marked stale")
	}

	if err := s.SetStale("firefox", false); err != nil {
		t.Fatal(err)
	}
	w, _ = s.GetWrapper("firefox")
	if w.Stale {
		t.Error("stale flag not cleared")
	}
}

func TestRunHistory(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		err := s.InsertRun(&Run{
			StartedAt: time.Now(),
			DryRun:    i == 2,
			Created:   i,
			Removed:   1,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2 (limit)", len(runs))
	}
	// Newest first.
	if !runs[0].DryRun || runs[0].Created != 2 {
		t.Errorf("newest run = %+v", runs[0])
	}
	if runs[1].Created != 1 {
		t.Errorf("second run = %+v", runs[1])
	}
}
