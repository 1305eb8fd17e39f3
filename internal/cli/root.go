package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/exhibit/internal/config"
	"github.com/crimson-sun/exhibit/internal/logging"
	"github.com/crimson-sun/exhibit/internal/printer"
)

// RootOptions holds global flags for all commands. Flag defaults come from
// the EXHIBIT_* environment, so an explicit flag always wins.
type RootOptions struct {
	Config config.Config
	Format string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the exhibit CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: config.Load()}
	cfg := &opts.Config

	cmd := &cobra.Command{
		Use:   "exhibit",
		Short: "Classify exhibition vendors and generate their booth content",
		Long: `exhibit assigns every vendor in a catalog a category from an ordered
keyword taxonomy and fills in category-appropriate trivia facts, inventory
items, and a farewell line. The catalog is rewritten atomically.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if err := cfg.Validate(); err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			logFormat := cfg.Log.Format
			if opts.Format == "json" {
				logFormat = "json"
			}
			logging.Init(logFormat, logging.ParseLevel(cfg.Log.Level))
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level (debug|info|warn|error)")
	pf.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "log format (text|json)")
	pf.StringVar(&cfg.Engine.TaxonomyPath, "taxonomy", cfg.Engine.TaxonomyPath, "YAML taxonomy file (default: built-in)")
	pf.StringVar(&cfg.Engine.MatchMode, "match-mode", cfg.Engine.MatchMode, "keyword matching (substring|word)")
	pf.BoolVar(&cfg.Engine.ClassifyItems, "classify-items", cfg.Engine.ClassifyItems, "include current item names when classifying")

	cmd.AddCommand(NewEnrichCommand(opts))
	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewTaxonomyCommand(opts))

	return cmd
}

// argsRange is cobra.RangeArgs with a command-error exit code.
func argsRange(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(lo, hi)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, cmd.UseLine(), err)
		}
		return nil
	}
}

func newPrinter(cmd *cobra.Command) *printer.Printer {
	return printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
}
