package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/chart"
	"github.com/finvista-dev/finvista/internal/config"
)

// filterFlags select the date range shared by chart, summary and categories.
type filterFlags struct {
	fiscalYear string
	from       string
	to         string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fiscalYear, "fiscal-year", "", `fiscal year such as 2023-2024, or "All" (default from config)`)
	cmd.Flags().StringVar(&f.from, "from", "", "first month of a custom range, YYYY-MM")
	cmd.Flags().StringVar(&f.to, "to", "", "last month of a custom range, YYYY-MM")
}

// filter builds the range from the flags, falling back to the configured
// fiscal year.
func (f *filterFlags) filter(cfg *config.Config) (chart.Filter, error) {
	custom := f.from != "" || f.to != ""
	if custom && f.fiscalYear != "" {
		return nil, errors.New("--fiscal-year cannot be combined with --from/--to")
	}
	if custom {
		if f.from == "" || f.to == "" {
			return nil, errors.New("--from and --to must be given together")
		}
		r, err := chart.NewMonthRange(f.from, f.to)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	label := f.fiscalYear
	if label == "" {
		label = cfg.Chart.FiscalYear
	}
	return chart.ParseFiscalYear(label)
}

// chartFlags add granularity and output format to the range flags.
type chartFlags struct {
	filterFlags
	granularity string
	format      string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	f.filterFlags.register(cmd)
	cmd.Flags().StringVarP(&f.granularity, "granularity", "g", "", "daily, weekly, monthly or yearly (default from config)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "table, json or csv (default from config)")
}

func (f *chartFlags) resolve(cfg *config.Config) (chart.Granularity, chart.Filter, string, error) {
	name := f.granularity
	if name == "" {
		name = cfg.Chart.Granularity
	}
	g, err := chart.ParseGranularity(name)
	if err != nil {
		return "", nil, "", err
	}
	filter, err := f.filter(cfg)
	if err != nil {
		return "", nil, "", err
	}
	format := f.format
	if format == "" {
		format = cfg.Chart.Format
	}
	if !validFormat(format) {
		return "", nil, "", errors.New("--format must be one of table, json or csv")
	}
	return g, filter, format, nil
}

func validFormat(format string) bool {
	for _, known := range config.Formats {
		if format == known {
			return true
		}
	}
	return false
}
