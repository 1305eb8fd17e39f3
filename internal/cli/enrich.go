package cli

import (
	"github.com/spf13/cobra"

	"github.com/crimson-sun/exhibit/internal/engine/synth"
	"github.com/crimson-sun/exhibit/internal/pipeline"
)

// NewEnrichCommand creates the enrich command.
func NewEnrichCommand(rootOpts *RootOptions) *cobra.Command {
	var only []string
	cfg := &rootOpts.Config

	cmd := &cobra.Command{
		Use:   "enrich <catalog.json> [output.json]",
		Short: "Classify vendors and regenerate their items, facts, and farewell",
		Long: `Enrich loads the whole vendor catalog, classifies each vendor, draws
category-appropriate content, and writes the catalog back atomically. The
output defaults to the input path. Fields other than items, facts, the
farewell response, and missing coordinates are left untouched.

A fixed --seed reproduces the same output for any --workers value.`,
		Args: argsRange(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnrich(cmd, rootOpts, only, args)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&only, "only", nil, "generate only these parts (items,facts,farewell)")
	f.IntVarP(&cfg.Pipeline.Workers, "workers", "w", cfg.Pipeline.Workers, "vendors processed concurrently")
	f.Uint64Var(&cfg.Pipeline.Seed, "seed", cfg.Pipeline.Seed, "master random seed (0 picks one from the clock)")
	f.IntVar(&cfg.Engine.FactsMin, "facts-min", cfg.Engine.FactsMin, "minimum facts per vendor")
	f.IntVar(&cfg.Engine.FactsMax, "facts-max", cfg.Engine.FactsMax, "maximum facts per vendor")
	f.IntVar(&cfg.Engine.ItemsMin, "items-min", cfg.Engine.ItemsMin, "minimum items per vendor")
	f.IntVar(&cfg.Engine.ItemsMax, "items-max", cfg.Engine.ItemsMax, "maximum items per vendor")

	return cmd
}

func runEnrich(cmd *cobra.Command, opts *RootOptions, only []string, args []string) error {
	parts, err := synth.ParseParts(only)
	if err != nil {
		return WrapExitError(ExitCommandError, "--only", err)
	}
	eng, err := buildEngine(opts.Config, parts)
	if err != nil {
		return err
	}

	src, dst := args[0], args[0]
	if len(args) == 2 {
		dst = args[1]
	}

	p := pipeline.New(eng,
		pipeline.WithWorkers(opts.Config.Pipeline.Workers),
		pipeline.WithSeed(opts.Config.Pipeline.Seed),
	)
	sum, err := p.Run(cmd.Context(), src, dst)
	if err != nil {
		return runError("enrich", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), sum)
	}
	newPrinter(cmd).Summary(sum)
	return nil
}
