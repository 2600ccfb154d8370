// Package activity records what finvista did to a project in an
// append-only CSV log under logs/, and answers queries over it.
package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Actions written by the CLI.
const (
	ActionInit          = "init"
	ActionFetch         = "fetch"
	ActionBudgetAdded   = "budget_added"
	ActionBudgetRenewed = "budget_renewed"
	ActionAssetAdded    = "asset_added"
	ActionAssetPriced   = "asset_priced"
	ActionAssetSold     = "asset_sold"
	ActionBillAdded     = "bill_added"
	ActionBillPaid      = "bill_paid"
)

// Actions lists every action the CLI writes.
var Actions = []string{
	ActionInit, ActionFetch,
	ActionBudgetAdded, ActionBudgetRenewed,
	ActionAssetAdded, ActionAssetPriced, ActionAssetSold,
	ActionBillAdded, ActionBillPaid,
}

// ParseAction accepts a known action name in any case.
func ParseAction(s string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(s))
	if slices.Contains(Actions, a) {
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q, want one of %s", s, strings.Join(Actions, ", "))
}

// Entry is one row in the activity log.
type Entry struct {
	Timestamp time.Time
	Action    string
	Subject   string
	Details   string
}

// header is the first row of activity-log.csv.
var header = []string{"timestamp", "action", "subject", "details"}

// Path returns where the activity log of the project at root lives.
func Path(root string) string {
	return filepath.Join(root, "logs", "activity-log.csv")
}

func (e Entry) record() []string {
	return []string{e.Timestamp.UTC().Format(time.RFC3339), e.Action, e.Subject, e.Details}
}

func parseEntry(rec []string) (Entry, error) {
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return Entry{}, fmt.Errorf("bad timestamp %q: %w", rec[0], err)
	}
	if rec[1] == "" {
		return Entry{}, errors.New("missing action")
	}
	return Entry{Timestamp: ts, Action: rec[1], Subject: rec[2], Details: rec[3]}, nil
}

// Append adds entries to the project's activity log. The header is written
// when the log is new or empty.
func Append(root string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}

	rows := make([][]string, 0, len(entries)+1)
	if info.Size() == 0 {
		rows = append(rows, header)
	}
	for _, e := range entries {
		rows = append(rows, e.record())
	}
	// WriteAll flushes.
	if err := csv.NewWriter(f).WriteAll(rows); err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}
	return nil
}

// Query selects entries from the log. The zero Query selects everything.
type Query struct {
	// Actions keeps entries with any of these actions.
	Actions []string
	// Since keeps entries at or after this instant.
	Since time.Time
	// Subject keeps entries whose subject contains this text, ignoring case.
	Subject string
	// Limit keeps only the most recent matches.
	Limit int
}

// Match reports whether e passes every condition of q except Limit.
func (q Query) Match(e Entry) bool {
	if len(q.Actions) > 0 && !slices.Contains(q.Actions, e.Action) {
		return false
	}
	if !q.Since.IsZero() && e.Timestamp.Before(q.Since) {
		return false
	}
	if q.Subject != "" && !strings.Contains(strings.ToLower(e.Subject), strings.ToLower(q.Subject)) {
		return false
	}
	return true
}

// Read returns the entries matching q, oldest first. A missing log has no
// entries.
func Read(root string, q Query) ([]Entry, error) {
	f, err := os.Open(Path(root))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	entries, err := scan(f, q)
	if err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}
	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[len(entries)-q.Limit:]
	}
	return entries, nil
}

// Last returns the most recent entry with the given action and exact
// subject, if any.
func Last(root, action, subject string) (Entry, bool, error) {
	entries, err := Read(root, Query{Actions: []string{action}})
	if err != nil {
		return Entry{}, false, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Subject == subject {
			return entries[i], true, nil
		}
	}
	return Entry{}, false, nil
}

func scan(r io.Reader, q Query) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.ReuseRecord = true

	var entries []Entry
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		if line == 1 {
			if !slices.Equal(rec, header) {
				return nil, fmt.Errorf("unexpected header %q", strings.Join(rec, ","))
			}
			continue
		}
		e, err := parseEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if q.Match(e) {
			entries = append(entries, e)
		}
	}
}
