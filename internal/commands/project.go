package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/finvista-dev/finvista/internal/activity"
	"github.com/finvista-dev/finvista/internal/config"
	"github.com/finvista-dev/finvista/internal/gitops"
	"github.com/finvista-dev/finvista/internal/importer"
	"github.com/finvista-dev/finvista/internal/logging"
	"github.com/finvista-dev/finvista/internal/model"
)

// now is replaced in tests.
var now = time.Now

// project is a loaded finvista project directory.
type project struct {
	root string
	cfg  *config.Config
	log  *slog.Logger
}

func openProject(cmd *cobra.Command, opts *rootOptions) (*project, error) {
	root, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadProject(root)
	if err != nil {
		return nil, err
	}

	levelName := cfg.Log.Level
	if opts.logLevel != "" {
		levelName = opts.logLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	logger := logging.WithComponent(logging.New(cmd.ErrOrStderr(), level), logging.ComponentCLI)

	return &project{root: root, cfg: cfg, log: logger}, nil
}

// transactions loads every transaction file in the data directory.
func (p *project) transactions() ([]model.Transaction, error) {
	dir := p.cfg.DataDir(p.root)
	txns, err := importer.DefaultRegistry().LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	logging.WithComponent(p.log, logging.ComponentImporter).
		Debug("loaded transactions", "dir", dir, "count", len(txns))
	return txns, nil
}

// commit records the project's changes in git when auto_commit is on and
// the project is a repository.
func (p *project) commit(message string) error {
	if !p.cfg.Git.AutoCommit || !gitops.IsRepo(p.root) {
		return nil
	}
	hash, err := gitops.CommitAll(p.root, message, gitAuthor(p.cfg))
	if err != nil {
		return fmt.Errorf("committing changes: %w", err)
	}
	if hash != "" {
		p.log.Debug("committed", "hash", hash, "message", message)
	}
	return nil
}

// record appends entries to the project's activity log.
func (p *project) record(entries ...activity.Entry) error {
	if err := activity.Append(p.root, entries); err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}
	return nil
}

func gitAuthor(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}

// parseAmount parses a decimal flag or argument.
func parseAmount(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", name, s, err)
	}
	return d, nil
}

// parseDate parses a YYYY-MM-DD flag or argument.
func parseDate(name, s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	return t, nil
}

// shortID is enough of a UUID to tell entries apart in a table.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var moneyPrinter = message.NewPrinter(language.English)

// money formats d with thousands separators and two decimals. The printer
// only groups the whole part; cents come from the decimal itself so large
// amounts keep them exactly.
func money(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return d.StringFixed(2)
	}
	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + moneyPrinter.Sprint(number.Decimal(n)) + "." + cents
}
