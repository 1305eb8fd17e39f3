package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/exhibit/internal/catalog"
	"github.com/crimson-sun/exhibit/internal/importer"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool
	cfg := &rootOpts.Config

	cmd := &cobra.Command{
		Use:   "import <export.tsv> <catalog.json>",
		Short: "Create a vendor catalog from the tab-separated exhibitor export",
		Long: `Import reads the exhibitor export (columns ID, NAME, LOC, URL, TITLE)
and writes a new catalog with placeholder items, facts, a default dialog,
and booth-grid coordinates. Run enrich afterwards to generate content.

The export is Windows-1252 encoded unless --encoding utf-8 is given.`,
		Args: argsRange(2, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, rootOpts, args[0], args[1], force)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Import.Encoding, "encoding", cfg.Import.Encoding, "export encoding (cp1252|utf-8)")
	f.StringVar(&cfg.Import.Event, "event", cfg.Import.Event, "event name used in placeholder facts")
	f.BoolVarP(&force, "force", "f", false, "overwrite an existing catalog")

	return cmd
}

func runImport(cmd *cobra.Command, opts *RootOptions, src, dst string, force bool) error {
	if !force {
		if _, err := os.Stat(dst); err == nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("%s already exists (use --force to overwrite)", dst))
		} else if !errors.Is(err, os.ErrNotExist) {
			return WrapExitError(ExitCommandError, "import", err)
		}
	}

	recs, err := importer.ReadFile(src, importer.Options{
		Encoding: opts.Config.Import.Encoding,
		Event:    opts.Config.Import.Event,
	})
	if err != nil {
		return runError("import", err)
	}
	if err := catalog.Save(dst, recs); err != nil {
		return runError("import", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"vendors": len(recs), "destination": dst})
	}
	newPrinter(cmd).Success("Imported %d vendors → %s\n", len(recs), dst)
	return nil
}
