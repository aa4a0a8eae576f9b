package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportCmd = &cobra.Command{
		Use:   "export [file]",
		Short: "Export all configuration as a tar archive",
		Long: `Export the blocklist, preferences, environment overrides, aliases, and
hook scripts as a single tar archive, suitable for moving to another
machine. With no file argument the archive is written to stdout.

Exporting the same configuration twice produces byte-identical archives.`,
		Example: `  flatwrap export flatwrap.tar
  flatwrap export | ssh other-box flatwrap import`,
		RunE: runExport,
	}

	importCmd = &cobra.Command{
		Use:   "import [file]",
		Short: "Import configuration from an exported archive",
		Long: `Import a tar archive produced by 'flatwrap export', replacing the
matching configuration files. With no file argument the archive is read
from stdin. Run 'flatwrap generate' afterwards to apply the imported
blocklist and aliases.`,
		RunE: runImport,
	}
)

func runExport(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return invalidInputf("usage: flatwrap export [file]")
	}

	cfg, err := configStore()
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", args[0], err)
		}
		defer f.Close()
		w = f
	}

	if err := cfg.Export(w); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if len(args) == 1 {
		fmt.Fprintf(os.Stderr, "exported configuration to %s\n", args[0])
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return invalidInputf("usage: flatwrap import [file]")
	}

	cfg, err := configStore()
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	if err := cfg.Import(r); err != nil {
		return invalidInputf("import failed: %v", err)
	}
	fmt.Println("configuration imported; run 'flatwrap generate' to apply it")
	return nil
}
