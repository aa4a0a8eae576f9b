package app

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/config"
	"github.com/blackwell-systems/flatwrap/internal/flatpak"
	"github.com/blackwell-systems/flatwrap/internal/store"
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show everything attached to one wrapper",
	Long: `Show a wrapper's registry record, its application metadata, and the user
configuration attached to it: preference, environment overrides, hooks,
and aliases.`,
	Example: `  flatwrap info firefox`,
	RunE:    runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return invalidInputf("usage: flatwrap info <name>")
	}
	name := args[0]

	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	rec, err := registry.GetWrapper(name)
	if err != nil {
		return notFoundf("no wrapper named %q", name)
	}

	cfg, err := configStore()
	if err != nil {
		return err
	}

	fmt.Printf("name:        %s\n", rec.ShortName)
	fmt.Printf("kind:        %s\n", rec.Kind)
	if rec.Kind != store.KindNativePassthrough {
		fmt.Printf("application: %s\n", rec.AppID)
		fmt.Printf("origin:      %s\n", rec.Origin)
		fmt.Printf("scope:       %s\n", rec.Scope)
	}
	fmt.Printf("created:     %s\n", rec.CreatedAt.Local().Format(time.DateTime))
	fmt.Printf("updated:     %s\n", rec.UpdatedAt.Local().Format(time.DateTime))

	var flags []string
	if rec.HasNativeConflict {
		flags = append(flags, "native-conflict")
	}
	if rec.Stale {
		flags = append(flags, "stale")
	}
	if len(flags) > 0 {
		fmt.Printf("flags:       %v\n", flags)
	}

	if rec.Kind == store.KindSandboxed {
		app, err := flatpak.Describe(rec.AppID)
		switch {
		case err == nil:
			fmt.Printf("app name:    %s\n", app.Name)
		case errors.Is(err, flatpak.ErrTargetMissing):
			fmt.Println("app name:    (no longer installed)")
		case errors.Is(err, flatpak.ErrRuntimeUnavailable):
			fmt.Println("app name:    (flatpak unavailable)")
		default:
			return err
		}
	}

	if prefs, err := cfg.Preferences(); err == nil {
		if pref, ok := prefs[name]; ok {
			fmt.Printf("preference:  %s\n", pref)
		}
	}

	if vars := cfg.EnvironmentFor(name); len(vars) > 0 {
		fmt.Println("environment:")
		for _, v := range vars {
			fmt.Printf("  %s=%s\n", v.Name, v.Value)
		}
	}

	for _, kind := range []config.HookKind{config.HookPre, config.HookPost} {
		if path := cfg.HookPath(name, kind); path != "" {
			fmt.Printf("%-4s hook:   %s\n", kind, path)
		}
	}

	if aliases, err := cfg.Aliases(); err == nil {
		var mine []string
		for alias, target := range aliases {
			if target == name {
				mine = append(mine, alias)
			}
		}
		if len(mine) > 0 {
			sort.Strings(mine)
			fmt.Printf("aliases:     %v\n", mine)
		}
	}

	return nil
}
