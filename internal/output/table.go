// Package output provides terminal output utilities for flatwrap: table
// rendering for wrappers and reconciliation reports, a spinner for
// indeterminate operations, and color handling. Tables use ASCII characters
// and ANSI color codes; color is suppressed on non-TTY output and when
// NO_COLOR is set.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/flatwrap/internal/store"
	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(color, s string) string {
	if !IsColorEnabled() {
		return s
	}
	return color + s + colorReset
}

// RenderWrapperTable renders the wrapper registry for `flatwrap list`.
func RenderWrapperTable(wrappers []*store.Wrapper) string {
	if len(wrappers) == 0 {
		return "No wrappers generated yet. Run 'flatwrap generate'.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-20s %-36s %-20s %-10s\n",
		"NAME", "APPLICATION", "KIND", "FLAGS"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	for _, w := range wrappers {
		var flags []string
		if w.HasNativeConflict {
			flags = append(flags, colorize(colorYellow, "native-conflict"))
		}
		if w.Stale {
			flags = append(flags, colorize(colorRed, "stale"))
		}

		appID := w.AppID
		if w.Kind == store.KindNativePassthrough {
			appID = colorize(colorGray, "(native)")
		}

		sb.WriteString(fmt.Sprintf("%-20s %-36s %-20s %s\n",
			w.ShortName, appID, string(w.Kind), strings.Join(flags, ",")))
	}

	return sb.String()
}

// RenderReport renders a reconciliation report. In dry-run mode the header
// signals that nothing was written.
func RenderReport(report *wrapper.Report, dryRun bool) string {
	var sb strings.Builder

	if dryRun {
		sb.WriteString("Planned changes (emit mode, nothing written):\n")
	}
	if report.RuntimeUnavailable {
		sb.WriteString(colorize(colorYellow,
			"warning: flatpak unavailable; reconciled against an empty application set\n"))
	}

	section := func(label, color string, changes []wrapper.Change) {
		for _, c := range changes {
			line := fmt.Sprintf("%s %s", colorize(color, label), c.ShortName)
			if c.AppID != "" {
				line += " (" + c.AppID + ")"
			}
			if c.Detail != "" {
				line += ": " + c.Detail
			}
			sb.WriteString(line + "\n")
		}
	}

	section("create", colorGreen, report.Created)
	section("update", colorYellow, report.Updated)
	section("remove", colorRed, report.Removed)
	section("stale ", colorYellow, report.MarkedStale)
	section("skip  ", colorGray, report.Skipped)

	if report.Empty() && len(report.Skipped) == 0 {
		sb.WriteString("Wrappers up to date (no changes).\n")
	} else {
		sb.WriteString(fmt.Sprintf("\n%d created, %d updated, %d removed, %d marked stale, %d skipped\n",
			len(report.Created), len(report.Updated), len(report.Removed),
			len(report.MarkedStale), len(report.Skipped)))
	}

	return sb.String()
}

// RenderRunTable renders recent reconciliation runs for `flatwrap status`.
func RenderRunTable(runs []*store.Run) string {
	if len(runs) == 0 {
		return "No reconciliation runs recorded yet.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-22s %-8s %8s %8s %8s %8s %8s\n",
		"WHEN", "MODE", "CREATED", "UPDATED", "REMOVED", "STALE", "SKIPPED"))
	sb.WriteString(strings.Repeat("-", 78) + "\n")

	for _, r := range runs {
		mode := "apply"
		if r.DryRun {
			mode = "emit"
		}
		sb.WriteString(fmt.Sprintf("%-22s %-8s %8d %8d %8d %8d %8d\n",
			r.StartedAt.Local().Format(time.DateTime), mode,
			r.Created, r.Updated, r.Removed, r.Stale, r.Skipped))
	}

	return sb.String()
}
