package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flatwrap/internal/flatpak"
	"github.com/blackwell-systems/flatwrap/internal/wrapper"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common installation problems",
	Long: `Check the installation end to end: the flatpak backend, the wrapper
directory and binary, PATH ordering, and registry records whose launcher
artifacts have gone missing or been replaced.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	problems := 0
	check := func(ok bool, good, bad string) {
		if ok {
			fmt.Printf("ok:      %s\n", good)
		} else {
			fmt.Printf("problem: %s\n", bad)
			problems++
		}
	}

	_, err := flatpak.ListInstalled()
	check(err == nil || !errors.Is(err, flatpak.ErrRuntimeUnavailable),
		"flatpak backend reachable",
		"flatpak backend unavailable; sandboxed launches will fail until it is back")

	targetDir, err := resolveTargetDir()
	if err != nil {
		return err
	}

	info, err := os.Stat(targetDir)
	check(err == nil && info.IsDir(),
		fmt.Sprintf("wrapper directory exists (%s)", targetDir),
		fmt.Sprintf("wrapper directory missing (%s); run 'flatwrap generate'", targetDir))

	_, err = os.Stat(filepath.Join(targetDir, wrapper.BinaryName))
	check(err == nil,
		"wrapper binary installed",
		"wrapper binary missing; run 'flatwrap generate'")

	ok, reason := wrapper.IsPathSetup(targetDir)
	check(ok, "wrapper directory on PATH", reason)

	registry, err := openRegistry()
	if err != nil {
		return err
	}
	defer registry.Close()

	records, err := registry.ListWrappers()
	if err != nil {
		return err
	}
	missing := 0
	for _, rec := range records {
		path := filepath.Join(targetDir, rec.ShortName)
		target, err := os.Readlink(path)
		if err != nil || filepath.Base(target) != wrapper.BinaryName {
			missing++
		}
	}
	check(missing == 0,
		fmt.Sprintf("%d registry records have launcher artifacts", len(records)),
		fmt.Sprintf("%d registry records lack a launcher artifact; run 'flatwrap generate'", missing))

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	fmt.Println("\neverything looks healthy")
	return nil
}
