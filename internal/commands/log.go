package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/activity"
)

func newLogCommand(opts *rootOptions) *cobra.Command {
	var actions []string
	var subject, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the project's activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			if limit < 0 {
				return errors.New("--limit cannot be negative")
			}
			q := activity.Query{Subject: subject, Limit: limit}
			for _, a := range actions {
				action, err := activity.ParseAction(a)
				if err != nil {
					return err
				}
				q.Actions = append(q.Actions, action)
			}
			if since != "" {
				if q.Since, err = parseDate("--since", since); err != nil {
					return err
				}
			}

			entries, err := activity.Read(p.root, q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No activity.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tACTION\tSUBJECT\tDETAILS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Local().Format(time.DateTime), e.Action, e.Subject, e.Details)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringSliceVarP(&actions, "action", "a", nil, "only these actions (repeatable)")
	cmd.Flags().StringVar(&subject, "subject", "", "only subjects containing this text")
	cmd.Flags().StringVar(&since, "since", "", "only entries on or after this date, YYYY-MM-DD")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "only the most recent entries")

	return cmd
}
