package output

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/flatwrap/internal/store"
	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

func disableColor(t *testing.T) {
	t.Helper()
	original, had := os.LookupEnv("NO_COLOR")
	t.Cleanup(func() {
		if had {
			os.Setenv("NO_COLOR", original)
		} else {
			os.Unsetenv("NO_COLOR")
		}
	})
	os.Setenv("NO_COLOR", "1")
}

func TestRenderWrapperTable(t *testing.T) {
	disableColor(t)

	out := RenderWrapperTable(nil)
	if !strings.Contains(out, "flatwrap generate") {
		t.Errorf("empty table = %q, want a generate hint", out)
	}

	out = RenderWrapperTable([]*store.Wrapper{
		{ShortName: "firefox", AppID: "org.mozilla.firefox", Kind: store.KindSandboxed, HasNativeConflict: true},
		{ShortName: "rsync", Kind: store.KindNativePassthrough},
		{ShortName: "old", AppID: "org.example.Old", Kind: store.KindSandboxed, Stale: true},
	})
	for _, want := range []string{"firefox", "native-conflict", "(native)", "stale"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("ANSI codes emitted with NO_COLOR set")
	}
}

func TestRenderReport(t *testing.T) {
	disableColor(t)

	out := RenderReport(&wrapper.Report{}, false)
	if !strings.Contains(out, "no changes") {
		t.Errorf("empty report = %q", out)
	}

	report := &wrapper.Report{
		Created: []wrapper.Change{{ShortName: "firefox", AppID: "org.mozilla.firefox"}},
		Skipped: []wrapper.Change{{ShortName: "tool", AppID: "org.x.tool", Detail: "name taken"}},
	}
	out = RenderReport(report, true)
	for _, want := range []string{"emit mode", "create firefox", "name taken", "1 created"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	report.RuntimeUnavailable = true
	if out = RenderReport(report, false); !strings.Contains(out, "flatpak unavailable") {
		t.Errorf("runtime warning missing:\n%s", out)
	}
}

func TestRenderRunTable(t *testing.T) {
	if out := RenderRunTable(nil); !strings.Contains(out, "No reconciliation runs") {
		t.Errorf("empty run table = %q", out)
	}

	out := RenderRunTable([]*store.Run{
		{StartedAt: time.Now(), DryRun: true, Created: 2},
		{StartedAt: time.Now(), Created: 1, Removed: 3},
	})
	if !strings.Contains(out, "emit") || !strings.Contains(out, "apply") {
		t.Errorf("run table missing modes:\n%s", out)
	}
}
