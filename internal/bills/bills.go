// Package bills tracks bills by due date: which need a reminder, which are
// overdue, and what comes next once a recurring bill is paid.
package bills

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finvista-dev/finvista/internal/model"
)

// DefaultReminderDays is used when a bill does not set its own window.
const DefaultReminderDays = 3

var (
	// ErrInvalidBill is returned by Validate.
	ErrInvalidBill = errors.New("invalid bill")
	// ErrUnknownRecurrence is returned for a recurrence name that is not recognised.
	ErrUnknownRecurrence = errors.New("unknown recurrence")
	// ErrAlreadyPaid is returned when paying a bill twice.
	ErrAlreadyPaid = errors.New("bill is already paid")
)

// ParseRecurrence accepts any casing of the known names. An empty string is
// a one-off bill.
func ParseRecurrence(s string) (model.Recurrence, error) {
	r := model.Recurrence(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case "":
		return model.RecurrenceNone, nil
	case model.RecurrenceNone, model.RecurrenceWeekly, model.RecurrenceMonthly,
		model.RecurrenceQuarterly, model.RecurrenceYearly:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRecurrence, s)
}

// New creates an unpaid bill with a fresh ID.
func New(billType string, amount decimal.Decimal, due time.Time, reminderDays int, r model.Recurrence) (model.Bill, error) {
	b := model.Bill{
		ID:           uuid.NewString(),
		Type:         billType,
		Amount:       amount,
		DueDate:      due,
		ReminderDays: reminderDays,
		Recurrence:   r,
	}
	if err := Validate(b); err != nil {
		return model.Bill{}, err
	}
	return b, nil
}

// Validate checks the fields every bill needs.
func Validate(b model.Bill) error {
	switch {
	case strings.TrimSpace(b.Type) == "":
		return fmt.Errorf("%w: type is required", ErrInvalidBill)
	case !b.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidBill, b.Amount)
	case b.DueDate.IsZero():
		return fmt.Errorf("%w: due date is required", ErrInvalidBill)
	case b.ReminderDays < 0:
		return fmt.Errorf("%w: reminder days cannot be negative, got %d", ErrInvalidBill, b.ReminderDays)
	}
	if _, err := ParseRecurrence(string(b.Recurrence)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBill, err)
	}
	return nil
}

// day truncates t to midnight UTC of its calendar date.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntilDue counts calendar days from now to the due date. It is negative
// once the bill is overdue.
func DaysUntilDue(b model.Bill, now time.Time) int {
	return int(day(b.DueDate).Sub(day(now)).Hours() / 24)
}

// Overdue reports whether an unpaid bill is past its due date.
func Overdue(b model.Bill, now time.Time) bool {
	return !b.Paid && DaysUntilDue(b, now) < 0
}

// NeedsReminder reports whether b is unpaid and now falls on or between the
// first reminder day and the due date.
func NeedsReminder(b model.Bill, now time.Time) bool {
	left := DaysUntilDue(b, now)
	return !b.Paid && left >= 0 && left <= b.ReminderDays
}

// DueForReminder returns the bills that need a reminder now, soonest due
// first.
func DueForReminder(bills []model.Bill, now time.Time) []model.Bill {
	var due []model.Bill
	for _, b := range bills {
		if NeedsReminder(b, now) {
			due = append(due, b)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return day(due[i].DueDate).Before(day(due[j].DueDate))
	})
	return due
}

// NextDue returns the due date following due for a recurring bill.
func NextDue(due time.Time, r model.Recurrence) (time.Time, bool) {
	switch r {
	case model.RecurrenceWeekly:
		return due.AddDate(0, 0, 7), true
	case model.RecurrenceMonthly:
		return addMonths(due, 1), true
	case model.RecurrenceQuarterly:
		return addMonths(due, 3), true
	case model.RecurrenceYearly:
		return addMonths(due, 12), true
	}
	return time.Time{}, false
}

// addMonths moves t by n months, clamping the day to the target month's length.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	d := t.Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// Pay marks b paid. A recurring bill also yields its next occurrence, unpaid
// and with a fresh ID.
func Pay(b model.Bill) (model.Bill, *model.Bill, error) {
	if b.Paid {
		return model.Bill{}, nil, fmt.Errorf("%w: %s due %s", ErrAlreadyPaid, b.Type, b.DueDate.Format(dateFormat))
	}
	paid := b
	paid.Paid = true
	due, ok := NextDue(b.DueDate, b.Recurrence)
	if !ok {
		return paid, nil, nil
	}
	next := b
	next.ID = uuid.NewString()
	next.DueDate = due
	return paid, &next, nil
}

// Find returns the index of the bill with the given ID, or the single unpaid
// bill of that type (ignoring case). It returns -1 when nothing matches.
func Find(bills []model.Bill, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	for i, b := range bills {
		if b.ID == ref {
			return i, nil
		}
	}
	found := -1
	for i, b := range bills {
		if b.Paid || !strings.EqualFold(strings.TrimSpace(b.Type), ref) {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("%q matches more than one unpaid bill, use its ID", ref)
		}
		found = i
	}
	return found, nil
}
