package commands

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/activity"
	"github.com/finvista-dev/finvista/internal/logging"
	"github.com/finvista-dev/finvista/internal/model"
	"github.com/finvista-dev/finvista/internal/portfolio"
)

func newPortfolioCommand(opts *rootOptions) *cobra.Command {
	portfolioCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Investment holdings",
	}
	portfolioCmd.AddCommand(
		newPortfolioAddCommand(opts),
		newPortfolioListCommand(opts),
		newPortfolioSummaryCommand(opts),
		newPortfolioPriceCommand(opts),
		newPortfolioSellCommand(opts),
	)
	return portfolioCmd
}

func (p *project) loadPortfolio() (portfolio.Book, error) {
	return portfolio.Load(p.cfg.PortfolioPath(p.root))
}

// savePortfolio writes the book, logs the change and commits it.
func (p *project) savePortfolio(book portfolio.Book, entry activity.Entry) error {
	if err := portfolio.Save(p.cfg.PortfolioPath(p.root), book); err != nil {
		return err
	}
	if err := p.record(entry); err != nil {
		return err
	}
	logging.WithComponent(p.log, logging.ComponentPortfolio).
		Info(entry.Action, "asset", entry.Subject, "details", entry.Details)
	return p.commit(fmt.Sprintf("portfolio: %s %s", entry.Action, entry.Subject))
}

// findAsset resolves ref to an index into assets.
func findAsset(assets []model.Asset, ref string) (int, error) {
	i, err := portfolio.Find(assets, ref)
	if err != nil {
		return -1, err
	}
	if i < 0 {
		return -1, fmt.Errorf("no asset matches %q", ref)
	}
	return i, nil
}

func newPortfolioAddCommand(opts *rootOptions) *cobra.Command {
	var kind, name, symbol, quantity, buyPrice, buyDate, currentPrice, notes string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a holding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			k, err := portfolio.ParseKind(kind)
			if err != nil {
				return err
			}
			qty, err := parseAmount("--quantity", quantity)
			if err != nil {
				return err
			}
			price, err := parseAmount("--buy-price", buyPrice)
			if err != nil {
				return err
			}
			bought := now()
			if buyDate != "" {
				if bought, err = parseDate("--buy-date", buyDate); err != nil {
					return err
				}
			}

			a, err := portfolio.New(k, name, symbol, qty, price, bought)
			if err != nil {
				return err
			}
			a.Notes = notes
			if currentPrice != "" {
				if a.CurrentPrice, err = parseAmount("--current-price", currentPrice); err != nil {
					return err
				}
				if err := portfolio.Validate(a); err != nil {
					return err
				}
			}

			book, err := p.loadPortfolio()
			if err != nil {
				return err
			}
			book.Assets = append(book.Assets, a)
			if err := p.savePortfolio(book, activity.Entry{
				Timestamp: now(),
				Action:    activity.ActionAssetAdded,
				Subject:   a.Name,
				Details:   fmt.Sprintf("%s %s @ %s", a.Kind, a.Quantity, money(a.BuyPrice)),
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q (%s invested)\n", a.Kind, a.Name, money(portfolio.Invested(a)))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "stock, gold, mutual_fund, crypto or real_estate (required)")
	cmd.Flags().StringVar(&name, "name", "", "name of the holding (required)")
	cmd.Flags().StringVar(&symbol, "symbol", "", "ticker or scheme code")
	cmd.Flags().StringVar(&quantity, "quantity", "", "units held (required)")
	cmd.Flags().StringVar(&buyPrice, "buy-price", "", "price paid per unit (required)")
	cmd.Flags().StringVar(&buyDate, "buy-date", "", "purchase date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&currentPrice, "current-price", "", "latest price per unit")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("buy-price")

	return cmd
}

func newPortfolioListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List holdings with their value and growth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			book, err := p.loadPortfolio()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(book.Assets) == 0 {
				fmt.Fprintln(out, "No holdings.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tKIND\tQUANTITY\tBUY PRICE\tINVESTED\tVALUE\tGROWTH")
			for _, a := range book.Assets {
				invested, value := portfolio.Invested(a), portfolio.CurrentValue(a)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s%%\n",
					shortID(a.ID), a.Name, a.Kind, a.Quantity, money(a.BuyPrice),
					money(invested), money(value), portfolio.Growth(invested, value).StringFixed(2))
			}
			return tw.Flush()
		},
	}
}

func newPortfolioSummaryCommand(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show invested and current value overall and per kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			if format == "" {
				format = p.cfg.Chart.Format
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format %q, want table or json", format)
			}
			book, err := p.loadPortfolio()
			if err != nil {
				return err
			}
			return renderPortfolioSummary(cmd.OutOrStdout(), format, portfolio.Summarize(book.Assets, book.Sales))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "table or json (default from config)")
	return cmd
}

func renderPortfolioSummary(w io.Writer, format string, s portfolio.Summary) error {
	if format == "json" {
		if s.Categories == nil {
			s.Categories = []portfolio.Category{}
		}
		return writeJSON(w, s)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "KIND\tASSETS\tINVESTED\tVALUE\tGROWTH\t")
	for _, c := range s.Categories {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s%%\t\n", c.Kind, c.Assets, money(c.Invested), money(c.Current), c.Growth.StringFixed(2))
	}
	fmt.Fprintf(tw, "total\t\t%s\t%s\t%s%%\t\n", money(s.TotalInvested), money(s.TotalCurrent), s.OverallGrowth.StringFixed(2))
	if err := tw.Flush(); err != nil {
		return err
	}
	if !s.RealizedProfit.IsZero() {
		fmt.Fprintf(w, "Realized profit: %s\n", money(s.RealizedProfit))
	}
	return nil
}

func newPortfolioPriceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "price <asset> <price>",
		Short: "Set the latest price per unit of a holding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			price, err := parseAmount("price", args[1])
			if err != nil {
				return err
			}
			if price.IsNegative() {
				return errors.New("price cannot be negative")
			}
			book, err := p.loadPortfolio()
			if err != nil {
				return err
			}
			i, err := findAsset(book.Assets, args[0])
			if err != nil {
				return err
			}

			a := &book.Assets[i]
			a.CurrentPrice = price
			if err := p.savePortfolio(book, activity.Entry{
				Timestamp: now(),
				Action:    activity.ActionAssetPriced,
				Subject:   a.Name,
				Details:   money(price),
			}); err != nil {
				return err
			}
			value := portfolio.CurrentValue(*a)
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now worth %s (%s%%)\n", a.Name, money(value),
				portfolio.Growth(portfolio.Invested(*a), value).StringFixed(2))
			return nil
		},
	}
}

func newPortfolioSellCommand(opts *rootOptions) *cobra.Command {
	var quantity, price, date string

	cmd := &cobra.Command{
		Use:   "sell <asset>",
		Short: "Sell part or all of a holding and record the profit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			qty, err := parseAmount("--quantity", quantity)
			if err != nil {
				return err
			}
			sellPrice, err := parseAmount("--price", price)
			if err != nil {
				return err
			}
			sold := now()
			if date != "" {
				if sold, err = parseDate("--date", date); err != nil {
					return err
				}
			}

			book, err := p.loadPortfolio()
			if err != nil {
				return err
			}
			i, err := findAsset(book.Assets, args[0])
			if err != nil {
				return err
			}
			sale, left, err := portfolio.Sell(book.Assets[i], qty, sellPrice, sold)
			if err != nil {
				return err
			}
			if left == nil {
				book.Assets = append(book.Assets[:i], book.Assets[i+1:]...)
			} else {
				book.Assets[i] = *left
			}
			book.Sales = append(book.Sales, sale)

			if err := p.savePortfolio(book, activity.Entry{
				Timestamp: now(),
				Action:    activity.ActionAssetSold,
				Subject:   sale.Name,
				Details:   fmt.Sprintf("%s @ %s, profit %s", sale.Quantity, money(sale.SellPrice), money(sale.Profit)),
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sold %s of %s for a profit of %s (%s%%)\n",
				sale.Quantity, sale.Name, money(sale.Profit), sale.ProfitPercent.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&quantity, "quantity", "", "units to sell (required)")
	cmd.Flags().StringVar(&price, "price", "", "price per unit (required)")
	cmd.Flags().StringVar(&date, "date", "", "sale date, YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("quantity")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}
