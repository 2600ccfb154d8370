package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/chart"
)

func newPeriodsCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "periods",
		Short: "List the months and fiscal years that have transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			txns, err := p.transactions()
			if err != nil {
				return err
			}
			months := chart.AvailableMonths(txns)
			years := chart.AvailableFiscalYears(txns)

			out := cmd.OutOrStdout()
			if asJSON {
				if months == nil {
					months = []string{}
				}
				return writeJSON(out, struct {
					Months      []string `json:"months"`
					FiscalYears []string `json:"fiscalYears"`
				}{months, years})
			}
			fmt.Fprintf(out, "Fiscal years: %s\n", strings.Join(years, ", "))
			if len(months) == 0 {
				fmt.Fprintln(out, "Months: none")
				return nil
			}
			fmt.Fprintf(out, "Months: %s to %s (%d)\n", months[0], months[len(months)-1], len(months))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
