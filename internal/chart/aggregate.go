// Package chart turns income and expense records into time-bucketed chart rows.
//
// Each row carries the bucket's own totals, running totals over the selected
// date range, and the all-time account balance up to that bucket. Rows where
// the running balance changes sign are marked so a renderer can draw the zero
// crossing.
package chart

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finvista-dev/finvista/internal/model"
)

// ratioPlaces is the precision of ZeroCrossingRatio.
const ratioPlaces = 6

// Row is one bucket of a chart.
type Row struct {
	Key   string `json:"key"`
	Label string `json:"label"`

	Income        decimal.Decimal `json:"income"`
	Expense       decimal.Decimal `json:"expense"`
	PeriodBalance decimal.Decimal `json:"periodBalance"`

	CumulativeIncome  decimal.Decimal `json:"cumulativeIncome"`
	CumulativeExpense decimal.Decimal `json:"cumulativeExpense"`
	CumulativeBalance decimal.Decimal `json:"cumulativeBalance"`

	// AccountBalance ignores the filter: it is the signed sum of every
	// transaction up to and including this bucket.
	AccountBalance decimal.Decimal `json:"accountBalance"`

	// Set only on rows where CumulativeBalance changed sign.
	CrossoverPoint    *decimal.Decimal `json:"crossoverPoint,omitempty"`
	ZeroCrossingRatio *decimal.Decimal `json:"zeroCrossingRatio,omitempty"`
	PreviousKey       string           `json:"previousKey,omitempty"`
}

// IsCrossover reports whether the running balance changed sign at this row.
func (r Row) IsCrossover() bool {
	return r.CrossoverPoint != nil
}

// bucket accumulates totals for one key.
type bucket struct {
	key     string
	income  decimal.Decimal
	expense decimal.Decimal
}

// Aggregate buckets txns by g, keeps the buckets f selects, and returns them
// in key order with running totals and account balance filled in.
// An empty result means there is no data for the selection.
func Aggregate(txns []model.Transaction, g Granularity, f Filter) ([]Row, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, g)
	}
	if f == nil {
		f = AllTime{}
	}
	for i, txn := range txns {
		if err := txn.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	var filtered []model.Transaction
	for _, txn := range txns {
		if f.Contains(txn.Date) {
			filtered = append(filtered, txn)
		}
	}
	if len(filtered) == 0 {
		return nil, nil
	}

	buckets := bucketBy(filtered, g.Key)
	balances := accountBalances(txns, g.Key)

	rows := make([]Row, len(buckets))
	var runningIncome, runningExpense decimal.Decimal
	for i, b := range buckets {
		runningIncome = runningIncome.Add(b.income)
		runningExpense = runningExpense.Add(b.expense)

		row := Row{
			Key:               b.key,
			Label:             g.Label(b.key),
			Income:            b.income,
			Expense:           b.expense,
			PeriodBalance:     b.income.Sub(b.expense),
			CumulativeIncome:  runningIncome,
			CumulativeExpense: runningExpense,
			CumulativeBalance: runningIncome.Sub(runningExpense),
			AccountBalance:    balances[b.key],
		}
		if i > 0 {
			markCrossover(&row, rows[i-1])
		}
		rows[i] = row
	}
	return rows, nil
}

// markCrossover stamps row when its running balance is on the other side of
// zero from prev. Zero counts as non-negative.
func markCrossover(row *Row, prev Row) {
	if prev.CumulativeBalance.IsNegative() == row.CumulativeBalance.IsNegative() {
		return
	}
	point := row.CumulativeBalance
	before := prev.CumulativeBalance.Abs()
	ratio := before.DivRound(before.Add(point.Abs()), ratioPlaces)
	row.CrossoverPoint = &point
	row.ZeroCrossingRatio = &ratio
	row.PreviousKey = prev.Key
}

// bucketBy groups txns under keyFn and returns the buckets sorted by key.
func bucketBy(txns []model.Transaction, keyFn func(t time.Time) string) []bucket {
	index := make(map[string]int)
	var buckets []bucket
	for _, txn := range txns {
		key := keyFn(txn.Date)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, bucket{key: key})
		}
		switch txn.Kind {
		case model.KindIncome:
			buckets[i].income = buckets[i].income.Add(txn.Amount)
		case model.KindExpense:
			buckets[i].expense = buckets[i].expense.Add(txn.Amount)
		}
	}
	sort.Slice(buckets, func(a, b int) bool { return buckets[a].key < buckets[b].key })
	return buckets
}

// accountBalances runs a prefix sum of signed amounts over every bucket of
// the unfiltered txns and returns the balance at each key.
func accountBalances(txns []model.Transaction, keyFn func(t time.Time) string) map[string]decimal.Decimal {
	buckets := bucketBy(txns, keyFn)
	balances := make(map[string]decimal.Decimal, len(buckets))
	running := decimal.Zero
	for _, b := range buckets {
		running = running.Add(b.income).Sub(b.expense)
		balances[b.key] = running
	}
	return balances
}
