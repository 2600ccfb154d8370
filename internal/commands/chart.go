package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/chart"
	"github.com/finvista-dev/finvista/internal/logging"
)

func newChartCommand(opts *rootOptions) *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show income, expense and running balance per period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			g, filter, format, err := flags.resolve(p.cfg)
			if err != nil {
				return err
			}
			rows, err := p.chart(g, filter)
			if err != nil {
				return err
			}
			return renderChart(cmd.OutOrStdout(), format, g, filter, rows)
		},
	}
	flags.register(cmd)
	return cmd
}

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals and balance for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			g, filter, format, err := flags.resolve(p.cfg)
			if err != nil {
				return err
			}
			rows, err := p.chart(g, filter)
			if err != nil {
				return err
			}
			return renderSummary(cmd.OutOrStdout(), format, filter, chart.Summarize(rows))
		},
	}
	flags.register(cmd)
	return cmd
}

// charts is shared by every chart and summary run in the process, so a
// summary over the same range reuses the chart's rows.
var charts = chart.NewEngine(chart.DefaultCacheSize)

// chart aggregates the project's transactions.
func (p *project) chart(g chart.Granularity, filter chart.Filter) ([]chart.Row, error) {
	txns, err := p.transactions()
	if err != nil {
		return nil, err
	}
	rows, err := charts.Aggregate(txns, g, filter)
	if err != nil {
		return nil, fmt.Errorf("building chart: %w", err)
	}
	hits, misses := charts.Stats()
	logging.WithComponent(p.log, logging.ComponentChart).
		Debug("aggregated", "granularity", string(g), "range", filter.Title(), "rows", len(rows),
			"cache_hits", hits, "cache_misses", misses)
	return rows, nil
}

type chartDocument struct {
	Title       string      `json:"title"`
	Granularity string      `json:"granularity"`
	Rows        []chart.Row `json:"rows"`
}

var chartHeader = []string{
	"key", "label", "income", "expense", "period_balance",
	"cumulative_income", "cumulative_expense", "cumulative_balance",
	"account_balance", "crossover_point", "zero_crossing_ratio", "previous_key",
}

func renderChart(w io.Writer, format string, g chart.Granularity, filter chart.Filter, rows []chart.Row) error {
	switch format {
	case "json":
		if rows == nil {
			rows = []chart.Row{}
		}
		return writeJSON(w, chartDocument{Title: filter.Title(), Granularity: string(g), Rows: rows})
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write(chartHeader); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
		for _, r := range rows {
			if err := cw.Write(chartRecord(r)); err != nil {
				return fmt.Errorf("writing row %s: %w", r.Key, err)
			}
		}
		cw.Flush()
		return cw.Error()
	}

	fmt.Fprintf(w, "%s (%s)\n", filter.Title(), g)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No transactions in this range.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PERIOD\tINCOME\tEXPENSE\tBALANCE\tCUMULATIVE\tACCOUNT\tCROSSOVER\t")
	for _, r := range rows {
		crossing := ""
		if r.IsCrossover() {
			crossing = fmt.Sprintf("%s @ %s", r.PreviousKey, r.ZeroCrossingRatio.StringFixed(2))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", r.Label,
			money(r.Income), money(r.Expense), money(r.PeriodBalance),
			money(r.CumulativeBalance), money(r.AccountBalance), crossing)
	}
	return tw.Flush()
}

func chartRecord(r chart.Row) []string {
	rec := []string{
		r.Key, r.Label,
		r.Income.StringFixed(2), r.Expense.StringFixed(2), r.PeriodBalance.StringFixed(2),
		r.CumulativeIncome.StringFixed(2), r.CumulativeExpense.StringFixed(2), r.CumulativeBalance.StringFixed(2),
		r.AccountBalance.StringFixed(2), "", "", r.PreviousKey,
	}
	if r.IsCrossover() {
		rec[9] = r.CrossoverPoint.StringFixed(2)
		rec[10] = r.ZeroCrossingRatio.String()
	}
	return rec
}

type summaryDocument struct {
	Title string `json:"title"`
	chart.Summary
}

func renderSummary(w io.Writer, format string, filter chart.Filter, s chart.Summary) error {
	switch format {
	case "json":
		return writeJSON(w, summaryDocument{Title: filter.Title(), Summary: s})
	case "csv":
		cw := csv.NewWriter(w)
		records := [][]string{
			{"title", "total_income", "total_expense", "net_balance", "account_balance", "crossovers"},
			{filter.Title(), s.TotalIncome.StringFixed(2), s.TotalExpense.StringFixed(2),
				s.NetBalance.StringFixed(2), s.AccountBalance.StringFixed(2), fmt.Sprint(s.Crossovers)},
		}
		if err := cw.WriteAll(records); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		return nil
	}

	fmt.Fprintln(w, filter.Title())
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total income:\t%s\n", money(s.TotalIncome))
	fmt.Fprintf(tw, "Total expense:\t%s\n", money(s.TotalExpense))
	fmt.Fprintf(tw, "Net balance:\t%s\n", money(s.NetBalance))
	fmt.Fprintf(tw, "Account balance:\t%s\n", money(s.AccountBalance))
	fmt.Fprintf(tw, "Crossovers:\t%d\n", s.Crossovers)
	if err := tw.Flush(); err != nil {
		return err
	}
	if s.Deficit() {
		fmt.Fprintln(w, "Spending exceeded income in this range.")
	}
	if s.AccountDeficit() {
		fmt.Fprintln(w, "Account balance is negative.")
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
