// Package id numbers transactions that arrive without an identifier.
package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/finvista-dev/finvista/internal/model"
)

// Format returns a transaction ID like "2024-01-007".
func Format(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// Parse parses "2024-01-007" into year, month, seq.
func Parse(id string) (year, month, seq int, err error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid transaction ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in transaction ID %q: %w", id, err)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month in transaction ID %q", id)
	}
	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// Assign gives each transaction with an empty ID one of the form
// YYYY-MM-NNN for its month, numbering after the highest sequence that
// month already uses. It returns how many IDs it assigned.
func Assign(txns []model.Transaction) int {
	next := make(map[string]int)
	for _, txn := range txns {
		if txn.ID == "" {
			continue
		}
		year, month, seq, err := Parse(txn.ID)
		if err != nil {
			continue
		}
		key := monthKey(year, month)
		if seq >= next[key] {
			next[key] = seq
		}
	}

	assigned := 0
	for i := range txns {
		if txns[i].ID != "" {
			continue
		}
		year, month := txns[i].Date.Year(), int(txns[i].Date.Month())
		key := monthKey(year, month)
		next[key]++
		txns[i].ID = Format(year, month, next[key])
		assigned++
	}
	return assigned
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
