package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/categories"
	"github.com/finvista-dev/finvista/internal/model"
)

func newCategoriesCommand(opts *rootOptions) *cobra.Command {
	var flags filterFlags
	var kind string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			filter, err := flags.filter(p.cfg)
			if err != nil {
				return err
			}
			txns, err := p.transactions()
			if err != nil {
				return err
			}

			svc := categories.NewService(txns, filter)
			totals := svc.All()
			if kind != "" {
				k, err := model.ParseKind(kind)
				if err != nil {
					return err
				}
				totals = svc.ByKind(k)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, filter.Title())
			if len(totals) == 0 {
				fmt.Fprintln(out, "No transactions in this range.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tTYPE\tCOUNT\tAMOUNT")
			for _, t := range totals {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.Category, t.Kind, t.Count, money(t.Amount))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Income %s, expense %s\n",
				money(svc.Total(model.KindIncome)), money(svc.Total(model.KindExpense)))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&kind, "type", "", "only income or expense")
	return cmd
}
