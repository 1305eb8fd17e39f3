package cli

import (
	"github.com/spf13/cobra"

	"github.com/crimson-sun/exhibit/internal/catalog"
	"github.com/crimson-sun/exhibit/internal/engine/synth"
	"github.com/crimson-sun/exhibit/internal/model"
	"github.com/crimson-sun/exhibit/internal/output"
	"github.com/crimson-sun/exhibit/internal/output/file"
	"github.com/crimson-sun/exhibit/internal/output/stdout"
)

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		explain bool
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "classify <catalog.json>",
		Short: "Print each vendor's category without modifying the catalog",
		Long: `Classify reports the category every vendor would receive. With
--explain the matched keyword is shown as well. --format json or --output
write one JSON object per vendor.`,
		Args: argsRange(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, rootOpts, args[0], explain, outPath)
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "show the keyword that decided each category")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write NDJSON to this file")

	return cmd
}

func runClassify(cmd *cobra.Command, opts *RootOptions, path string, explain bool, outPath string) error {
	eng, err := buildEngine(opts.Config, synth.AllParts)
	if err != nil {
		return err
	}
	recs, err := catalog.Load(path)
	if err != nil {
		return runError("classify", err)
	}

	var out output.Output
	switch {
	case outPath != "":
		f, err := file.New(outPath, explain)
		if err != nil {
			return WrapExitError(ExitCommandError, "classify", err)
		}
		out = f
	case opts.Format == "json":
		out = stdout.New(cmd.OutOrStdout(), explain, false)
	}

	pr := newPrinter(cmd)
	counts := make(map[model.Category]int)
	for _, rec := range recs {
		m := eng.Explain(rec)
		c := model.Classification{
			VendorID: rec.ID,
			Name:     rec.Name,
			Booth:    rec.BoothLabel(),
			Category: m.Category,
			Keyword:  m.Keyword,
		}
		counts[c.Category]++

		if out == nil {
			pr.Classification(c, explain)
			continue
		}
		if err := out.Write(cmd.Context(), c); err != nil {
			out.Close()
			return WrapExitError(ExitFailure, "classify", err)
		}
	}

	if out != nil {
		if err := out.Close(); err != nil {
			return WrapExitError(ExitFailure, "classify", err)
		}
		if outPath != "" && opts.Format == "text" {
			pr.Success("Classified %d vendors → %s\n", len(recs), outPath)
		}
		return nil
	}
	pr.Info("\n%d vendors in %d categories\n", len(recs), len(counts))
	return nil
}
