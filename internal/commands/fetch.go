package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finvista-dev/finvista/internal/activity"
	"github.com/finvista-dev/finvista/internal/importer"
	"github.com/finvista-dev/finvista/internal/logging"
)

func newFetchCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download incomes and expenses from the backend API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			return runFetch(cmd, p, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write, relative to the project (default <data dir>/api.json)")
	return cmd
}

func runFetch(cmd *cobra.Command, p *project, out string) error {
	if p.cfg.API.BaseURL == "" {
		return errors.New("no API URL: set api.base_url in finvista.yaml or FINVISTA_API_URL")
	}

	log := logging.WithComponent(p.log, logging.ComponentFetch)
	client, err := importer.NewClient(importer.Options{
		BaseURL:    p.cfg.API.BaseURL,
		Token:      p.cfg.API.Token,
		MaxRetries: p.cfg.API.MaxRetries,
		Timeout:    p.cfg.API.Timeout,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	txns, err := client.FetchTransactions(cmd.Context())
	if err != nil {
		log.Error("fetch failed", "url", p.cfg.API.BaseURL, logging.FieldError, err)
		return fmt.Errorf("fetching transactions: %w", err)
	}

	path := filepath.Join(p.cfg.DataDir(p.root), "api.json")
	if out != "" {
		path = out
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.root, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := importer.WriteJSON(f, txns); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	log.Info("fetched transactions", "count", len(txns), "path", path)

	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		rel = path
	}
	entry := activity.Entry{
		Timestamp: now(),
		Action:    activity.ActionFetch,
		Subject:   filepath.ToSlash(rel),
		Details:   fmt.Sprintf("%d transactions", len(txns)),
	}
	if err := p.record(entry); err != nil {
		return err
	}
	if err := p.commit("fetch: " + entry.Details); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions to %s\n", len(txns), rel)
	return nil
}
