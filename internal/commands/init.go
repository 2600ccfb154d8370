package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/activity"
	"github.com/finvista-dev/finvista/internal/bills"
	"github.com/finvista-dev/finvista/internal/budget"
	"github.com/finvista-dev/finvista/internal/config"
	"github.com/finvista-dev/finvista/internal/gitops"
	"github.com/finvista-dev/finvista/internal/portfolio"
)

func newInitCommand() *cobra.Command {
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new FinVista project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, useGit)
		},
	}

	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit every change")

	return cmd
}

func runInit(out io.Writer, dir string, useGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	cfg := config.Default()
	cfg.Git.AutoCommit = useGit
	for _, d := range []string{cfg.Data.Dir, "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	budgetsPath := cfg.BudgetsPath(dir)
	if _, err := os.Stat(budgetsPath); errors.Is(err, os.ErrNotExist) {
		if err := budget.Save(budgetsPath, nil); err != nil {
			return fmt.Errorf("writing budgets: %w", err)
		}
	}

	if _, err := os.Stat(cfg.BillsPath(dir)); errors.Is(err, os.ErrNotExist) {
		if err := bills.Save(cfg.BillsPath(dir), nil); err != nil {
			return fmt.Errorf("writing bills: %w", err)
		}
	}
	if _, err := os.Stat(cfg.PortfolioPath(dir)); errors.Is(err, os.ErrNotExist) {
		if err := portfolio.Save(cfg.PortfolioPath(dir), portfolio.Book{}); err != nil {
			return fmt.Errorf("writing portfolio: %w", err)
		}
	}

	// The API token lives in .env and stays out of version control.
	gitignore := ".env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	entry := activity.Entry{Timestamp: now(), Action: activity.ActionInit, Subject: filepath.Base(dir)}
	if err := activity.Append(dir, []activity.Entry{entry}); err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}

	if !useGit {
		fmt.Fprintf(out, "Initialized FinVista project at %s\n", dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return err
	}
	hash, err := gitops.CommitAll(dir, "init: FinVista project", gitAuthor(cfg))
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	fmt.Fprintf(out, "Initialized FinVista project at %s (%s)\n", dir, hash)
	return nil
}
