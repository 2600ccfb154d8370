package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is how often a budget repeats.
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodBiannual  Period = "biannual"
	PeriodAnnual    Period = "annual"
	PeriodCustom    Period = "custom"
)

// Budget caps spending in one category over a date range.
// StartDate and EndDate are both inclusive calendar dates.
type Budget struct {
	ID        string
	Title     string
	Category  string
	Amount    decimal.Decimal
	Period    Period
	AutoRenew bool
	StartDate time.Time
	EndDate   time.Time
}
