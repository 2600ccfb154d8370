// Package categories totals transactions per category.
package categories

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finvista-dev/finvista/internal/chart"
	"github.com/finvista-dev/finvista/internal/model"
)

// Total is the sum of one category's transactions of one kind.
type Total struct {
	Category string          `json:"category"`
	Kind     model.Kind      `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// Service provides in-memory lookup over category totals.
type Service struct {
	totals []Total
	byKey  map[string]int
}

// key folds case so "Food" and "food" share a total.
func key(kind model.Kind, name string) string {
	return string(kind) + "\x00" + strings.ToLower(strings.TrimSpace(name))
}

// NewService totals the transactions f selects. A nil filter selects all.
// The first spelling of a category seen is the one reported.
func NewService(txns []model.Transaction, f chart.Filter) *Service {
	if f == nil {
		f = chart.AllTime{}
	}
	s := &Service{byKey: make(map[string]int)}
	for _, txn := range txns {
		if !f.Contains(txn.Date) {
			continue
		}
		k := key(txn.Kind, txn.Category)
		i, ok := s.byKey[k]
		if !ok {
			i = len(s.totals)
			s.byKey[k] = i
			s.totals = append(s.totals, Total{
				Category: strings.TrimSpace(txn.Category),
				Kind:     txn.Kind,
				Amount:   decimal.Zero,
			})
		}
		s.totals[i].Amount = s.totals[i].Amount.Add(txn.Amount)
		s.totals[i].Count++
	}

	sort.SliceStable(s.totals, func(a, b int) bool {
		ta, tb := s.totals[a], s.totals[b]
		if ta.Kind != tb.Kind {
			return ta.Kind == model.KindIncome
		}
		if c := ta.Amount.Cmp(tb.Amount); c != 0 {
			return c > 0
		}
		return ta.Category < tb.Category
	})
	for i, t := range s.totals {
		s.byKey[key(t.Kind, t.Category)] = i
	}
	return s
}

// All returns income totals then expense totals, each largest first.
func (s *Service) All() []Total {
	return s.totals
}

// Get returns the total for a category name, ignoring case.
func (s *Service) Get(kind model.Kind, name string) (Total, bool) {
	i, ok := s.byKey[key(kind, name)]
	if !ok {
		return Total{}, false
	}
	return s.totals[i], true
}

// ByKind returns all totals of the given kind.
func (s *Service) ByKind(kind model.Kind) []Total {
	var result []Total
	for _, t := range s.totals {
		if t.Kind == kind {
			result = append(result, t)
		}
	}
	return result
}

// Total sums every category of the given kind.
func (s *Service) Total(kind model.Kind) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range s.totals {
		if t.Kind == kind {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}
