package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/activity"
	"github.com/finvista-dev/finvista/internal/budget"
	"github.com/finvista-dev/finvista/internal/logging"
	"github.com/finvista-dev/finvista/internal/model"
)

const dateFormat = "2006-01-02"

func newBudgetCommand(opts *rootOptions) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Budget operations",
	}
	budgetCmd.AddCommand(
		newBudgetStatusCommand(opts),
		newBudgetAddCommand(opts),
		newBudgetRenewCommand(opts),
	)
	return budgetCmd
}

func newBudgetStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show spending against every budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			budgets, err := budget.Load(p.cfg.BudgetsPath(p.root))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(budgets) == 0 {
				fmt.Fprintln(out, "No budgets.")
				return nil
			}
			txns, err := p.transactions()
			if err != nil {
				return err
			}

			today := now()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TITLE\tCATEGORY\tPERIOD\tFROM\tTO\tBUDGET\tSPENT\tREMAINING\tSTATUS")
			for _, b := range budgets {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					b.Title, b.Category, b.Period,
					b.StartDate.Format(dateFormat), b.EndDate.Format(dateFormat),
					money(b.Amount), money(budget.Spent(b, txns)), money(budget.Remaining(b, txns)),
					budgetStatus(b, txns, today, p.cfg.Budgets.ExpiringDays))
			}
			return tw.Flush()
		},
	}
}

func budgetStatus(b model.Budget, txns []model.Transaction, today time.Time, window int) string {
	switch {
	case budget.Expired(b, today):
		return "expired"
	case budget.Remaining(b, txns).IsNegative():
		return "overspent"
	case budget.ExpiringSoon(b, today, window):
		return fmt.Sprintf("ends in %d days", budget.DaysLeft(b, today))
	}
	return "ok"
}

func newBudgetAddCommand(opts *rootOptions) *cobra.Command {
	var title, category, amount, period, start, end string
	var autoRenew bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a budget for the current period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}
			per, err := budget.ParsePeriod(period)
			if err != nil {
				return err
			}

			var b model.Budget
			if per == model.PeriodCustom {
				b, err = customBudget(title, category, amt, autoRenew, start, end)
			} else {
				if start != "" || end != "" {
					return errors.New("--start and --end only apply to custom budgets")
				}
				b, err = budget.New(title, category, amt, per, autoRenew, now())
			}
			if err != nil {
				return err
			}

			path := p.cfg.BudgetsPath(p.root)
			budgets, err := budget.Load(path)
			if err != nil {
				return err
			}
			if err := budget.Save(path, append(budgets, b)); err != nil {
				return err
			}
			if err := p.record(activity.Entry{
				Timestamp: now(),
				Action:    activity.ActionBudgetAdded,
				Subject:   b.Title,
				Details:   fmt.Sprintf("%s %s %s..%s", money(b.Amount), b.Period, b.StartDate.Format(dateFormat), b.EndDate.Format(dateFormat)),
			}); err != nil {
				return err
			}
			if err := p.commit(fmt.Sprintf("budget: add %s", b.Title)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added budget %q (%s to %s)\n",
				b.Title, b.StartDate.Format(dateFormat), b.EndDate.Format(dateFormat))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "budget title (required)")
	cmd.Flags().StringVar(&category, "category", "", "expense category to track (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to spend at most (required)")
	cmd.Flags().StringVar(&period, "period", string(model.PeriodMonthly), "monthly, quarterly, biannual, annual or custom")
	cmd.Flags().BoolVar(&autoRenew, "auto-renew", false, "renew the budget when it expires")
	cmd.Flags().StringVar(&start, "start", "", "first day of a custom budget, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day of a custom budget, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func customBudget(title, category string, amount decimal.Decimal, autoRenew bool, start, end string) (model.Budget, error) {
	if start == "" || end == "" {
		return model.Budget{}, errors.New("custom budgets need --start and --end")
	}
	from, err := parseDate("--start", start)
	if err != nil {
		return model.Budget{}, err
	}
	to, err := parseDate("--end", end)
	if err != nil {
		return model.Budget{}, err
	}
	return budget.NewCustom(title, category, amount, autoRenew, from, to)
}

func newBudgetRenewCommand(opts *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "renew",
		Short: "Renew expired auto-renewing budgets into their next period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			return runBudgetRenew(cmd, p, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be renewed without saving")
	return cmd
}

func runBudgetRenew(cmd *cobra.Command, p *project, dryRun bool) error {
	path := p.cfg.BudgetsPath(p.root)
	budgets, err := budget.Load(path)
	if err != nil {
		return err
	}

	today := now()
	updated, renewals, err := budget.RenewDue(budgets, today, p.cfg.Budgets.ExcludeFromRenewal)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(renewals) == 0 {
		fmt.Fprintln(out, "No budgets due for renewal.")
		return nil
	}
	for _, r := range renewals {
		fmt.Fprintf(out, "%s: %s\n", r.Old.Title, renewalDetails(r))
		if !dryRun {
			continue
		}
		last, ok, err := activity.Last(p.root, activity.ActionBudgetRenewed, r.Old.Title)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(out, "  last renewed %s (%s)\n", last.Timestamp.Format(dateFormat), last.Details)
		}
	}
	if dryRun {
		fmt.Fprintf(out, "Would renew %d budget(s).\n", len(renewals))
		return nil
	}

	if err := budget.Save(path, updated); err != nil {
		return err
	}

	log := logging.WithComponent(p.log, logging.ComponentBudget)
	entries := make([]activity.Entry, len(renewals))
	for i, r := range renewals {
		entries[i] = activity.Entry{
			Timestamp: today,
			Action:    activity.ActionBudgetRenewed,
			Subject:   r.Old.Title,
			Details:   renewalDetails(r),
		}
		log.Info("renewed budget", "title", r.Old.Title, "old_id", r.Old.ID, "new_id", r.New.ID)
	}
	if err := p.record(entries...); err != nil {
		return err
	}
	if err := p.commit(fmt.Sprintf("budget: renew %d budget(s)", len(renewals))); err != nil {
		return err
	}

	fmt.Fprintf(out, "Renewed %d budget(s).\n", len(renewals))
	return nil
}

func renewalDetails(r budget.Renewal) string {
	return fmt.Sprintf("%s..%s -> %s..%s",
		r.Old.StartDate.Format(dateFormat), r.Old.EndDate.Format(dateFormat),
		r.New.StartDate.Format(dateFormat), r.New.EndDate.Format(dateFormat))
}
