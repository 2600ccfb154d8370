package commands

import (
	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/buildinfo"
)

// rootOptions are the persistent flags every subcommand shares.
type rootOptions struct {
	dir      string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "finvista",
		Short:   "Personal income and expense charts, budgets, bills and investments",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "project directory")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newChartCommand(opts),
		newSummaryCommand(opts),
		newPeriodsCommand(opts),
		newCategoriesCommand(opts),
		newBudgetCommand(opts),
		newPortfolioCommand(opts),
		newBillsCommand(opts),
		newFetchCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}
