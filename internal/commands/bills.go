package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/activity"
	"github.com/finvista-dev/finvista/internal/bills"
	"github.com/finvista-dev/finvista/internal/logging"
	"github.com/finvista-dev/finvista/internal/model"
)

func newBillsCommand(opts *rootOptions) *cobra.Command {
	billsCmd := &cobra.Command{
		Use:   "bills",
		Short: "Bills and payment reminders",
	}
	billsCmd.AddCommand(
		newBillsAddCommand(opts),
		newBillsListCommand(opts),
		newBillsDueCommand(opts),
		newBillsPayCommand(opts),
	)
	return billsCmd
}

func billStatus(b model.Bill, today time.Time) string {
	left := bills.DaysUntilDue(b, today)
	switch {
	case b.Paid:
		return "paid"
	case left < 0:
		return fmt.Sprintf("overdue by %d days", -left)
	case left == 0:
		return "due today"
	case bills.NeedsReminder(b, today):
		return fmt.Sprintf("due in %d days", left)
	}
	return "upcoming"
}

func newBillsAddCommand(opts *rootOptions) *cobra.Command {
	var billType, amount, due, recurrence, description string
	var reminderDays int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bill",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			amt, err := parseAmount("--amount", amount)
			if err != nil {
				return err
			}
			dueDate, err := parseDate("--due", due)
			if err != nil {
				return err
			}
			r, err := bills.ParseRecurrence(recurrence)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("reminder-days") {
				reminderDays = p.cfg.Bills.ReminderDays
			}

			b, err := bills.New(billType, amt, dueDate, reminderDays, r)
			if err != nil {
				return err
			}
			b.Description = description

			path := p.cfg.BillsPath(p.root)
			list, err := bills.Load(path)
			if err != nil {
				return err
			}
			if err := bills.Save(path, append(list, b)); err != nil {
				return err
			}
			if err := p.record(activity.Entry{
				Timestamp: now(),
				Action:    activity.ActionBillAdded,
				Subject:   b.Type,
				Details:   fmt.Sprintf("%s due %s, %s", money(b.Amount), b.DueDate.Format(dateFormat), b.Recurrence),
			}); err != nil {
				return err
			}
			if err := p.commit(fmt.Sprintf("bills: add %s", b.Type)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s bill of %s due %s\n", b.Type, money(b.Amount), b.DueDate.Format(dateFormat))
			return nil
		},
	}

	cmd.Flags().StringVar(&billType, "type", "", "what the bill is for, e.g. Electricity (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount due (required)")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD (required)")
	cmd.Flags().IntVar(&reminderDays, "reminder-days", 0, "days before the due date to start reminding (default from config)")
	cmd.Flags().StringVar(&recurrence, "recurrence", string(model.RecurrenceNone), "none, weekly, monthly, quarterly or yearly")
	cmd.Flags().StringVar(&description, "description", "", "free-form description")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func newBillsListCommand(opts *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List unpaid bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			list, err := bills.Load(p.cfg.BillsPath(p.root))
			if err != nil {
				return err
			}
			var shown []model.Bill
			for _, b := range list {
				if all || !b.Paid {
					shown = append(shown, b)
				}
			}
			out := cmd.OutOrStdout()
			if len(shown) == 0 {
				fmt.Fprintln(out, "No bills.")
				return nil
			}

			today := now()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tAMOUNT\tDUE\tRECURRENCE\tSTATUS")
			for _, b := range shown {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", shortID(b.ID), b.Type, money(b.Amount),
					b.DueDate.Format(dateFormat), b.Recurrence, billStatus(b, today))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include paid bills")
	return cmd
}

func newBillsDueCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "Show reminders for bills coming due, and overdue bills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			list, err := bills.Load(p.cfg.BillsPath(p.root))
			if err != nil {
				return err
			}

			today := now()
			log := logging.WithComponent(p.log, logging.ComponentBills)
			out := cmd.OutOrStdout()
			due := bills.DueForReminder(list, today)
			for _, b := range due {
				fmt.Fprintf(out, "Reminder: %s bill of %s is %s (%s)\n",
					b.Type, money(b.Amount), billStatus(b, today), b.DueDate.Format(dateFormat))
			}
			overdue := 0
			for _, b := range list {
				if bills.Overdue(b, today) {
					overdue++
					fmt.Fprintf(out, "Overdue: %s bill of %s was due %s\n", b.Type, money(b.Amount), b.DueDate.Format(dateFormat))
					log.Warn("bill overdue", "type", b.Type, "due", b.DueDate.Format(dateFormat))
				}
			}
			if len(due) == 0 && overdue == 0 {
				fmt.Fprintln(out, "No bills due.")
			}
			return nil
		},
	}
}

func newBillsPayCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <bill>",
		Short: "Mark a bill paid, scheduling the next one if it recurs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			path := p.cfg.BillsPath(p.root)
			list, err := bills.Load(path)
			if err != nil {
				return err
			}
			i, err := bills.Find(list, args[0])
			if err != nil {
				return err
			}
			if i < 0 {
				return fmt.Errorf("no bill matches %q", args[0])
			}

			paid, next, err := bills.Pay(list[i])
			if err != nil {
				return err
			}
			list[i] = paid
			if next != nil {
				list = append(list, *next)
			}
			if err := bills.Save(path, list); err != nil {
				return err
			}
			if err := p.record(activity.Entry{
				Timestamp: now(),
				Action:    activity.ActionBillPaid,
				Subject:   paid.Type,
				Details:   fmt.Sprintf("%s due %s", money(paid.Amount), paid.DueDate.Format(dateFormat)),
			}); err != nil {
				return err
			}
			if err := p.commit(fmt.Sprintf("bills: pay %s", paid.Type)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Paid %s bill of %s\n", paid.Type, money(paid.Amount))
			if next != nil {
				fmt.Fprintf(out, "Next %s bill due %s\n", next.Type, next.DueDate.Format(dateFormat))
			}
			return nil
		},
	}
}
