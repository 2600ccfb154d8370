package chart

import "github.com/shopspring/decimal"

// Summary is the headline of a chart: totals for the selected range and the
// all-time balance at its last bucket.
type Summary struct {
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	NetBalance     decimal.Decimal `json:"netBalance"`
	AccountBalance decimal.Decimal `json:"accountBalance"`
	Crossovers     int             `json:"crossovers"`
}

// Summarize reads the summary off the last row. No rows gives all zeros.
func Summarize(rows []Row) Summary {
	s := Summary{
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
		NetBalance:     decimal.Zero,
		AccountBalance: decimal.Zero,
	}
	if len(rows) == 0 {
		return s
	}
	last := rows[len(rows)-1]
	s.TotalIncome = last.CumulativeIncome
	s.TotalExpense = last.CumulativeExpense
	s.NetBalance = last.CumulativeBalance
	s.AccountBalance = last.AccountBalance
	for _, r := range rows {
		if r.IsCrossover() {
			s.Crossovers++
		}
	}
	return s
}

// Deficit reports whether the range closed with more spent than earned.
func (s Summary) Deficit() bool {
	return s.NetBalance.IsNegative()
}

// AccountDeficit reports whether the all-time balance is below zero.
func (s Summary) AccountDeficit() bool {
	return s.AccountBalance.IsNegative()
}
