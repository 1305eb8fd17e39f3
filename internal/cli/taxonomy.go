package cli

import (
	"github.com/spf13/cobra"
)

// NewTaxonomyCommand creates the taxonomy command.
func NewTaxonomyCommand(rootOpts *RootOptions) *cobra.Command {
	var keywords bool

	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "List categories in precedence order with their pool sizes",
		Args:  argsRange(0, 0),
		RunE: func(cmd *cobra.Command, args []string) error {
			tax, err := loadTaxonomy(rootOpts.Config)
			if err != nil {
				return WrapExitError(ExitCommandError, "load taxonomy", err)
			}
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), tax.Entries())
			}
			newPrinter(cmd).Taxonomy(tax, keywords)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&keywords, "keywords", "k", false, "list each category's keywords")

	return cmd
}
