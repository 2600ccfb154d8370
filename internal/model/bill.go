package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recurrence is how often a bill comes back after it is paid.
type Recurrence string

const (
	RecurrenceNone      Recurrence = "none"
	RecurrenceWeekly    Recurrence = "weekly"
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
	RecurrenceYearly    Recurrence = "yearly"
)

// Bill is a payment due on DueDate. Reminders start ReminderDays before it.
type Bill struct {
	ID           string
	Type         string
	Amount       decimal.Decimal
	DueDate      time.Time
	ReminderDays int
	Recurrence   Recurrence
	Paid         bool
	Description  string
}
