// Package budget computes budget periods, spending against budgets, and
// renewal of recurring budgets.
package budget

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finvista-dev/finvista/internal/model"
)

var (
	// ErrCustomPeriod is returned when a range is asked of a custom period,
	// whose dates are chosen by hand and cannot be derived or renewed.
	ErrCustomPeriod = errors.New("custom period has no derived range")
	// ErrUnknownPeriod is returned for a period name that is not recognised.
	ErrUnknownPeriod = errors.New("unknown budget period")
	// ErrInvalidBudget is returned by Validate.
	ErrInvalidBudget = errors.New("invalid budget")
)

// ParsePeriod accepts any casing of the known period names.
func ParsePeriod(s string) (model.Period, error) {
	p := model.Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case model.PeriodMonthly, model.PeriodQuarterly, model.PeriodBiannual, model.PeriodAnnual, model.PeriodCustom:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// PeriodRange returns the first and last day of the period containing anchor.
// Quarters and halves follow the calendar year.
func PeriodRange(p model.Period, anchor time.Time) (start, end time.Time, err error) {
	year, month := anchor.Year(), int(anchor.Month())
	loc := anchor.Location()

	var first, months int
	switch p {
	case model.PeriodMonthly:
		first, months = month, 1
	case model.PeriodQuarterly:
		first, months = (month-1)/3*3+1, 3
	case model.PeriodBiannual:
		first, months = (month-1)/6*6+1, 6
	case model.PeriodAnnual:
		first, months = 1, 12
	case model.PeriodCustom:
		return time.Time{}, time.Time{}, ErrCustomPeriod
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, p)
	}

	start = time.Date(year, time.Month(first), 1, 0, 0, 0, 0, loc)
	// Day 0 of the following month is the last day of this one.
	end = time.Date(year, time.Month(first+months), 0, 0, 0, 0, 0, loc)
	return start, end, nil
}

// New creates a budget whose range is the period containing anchor.
func New(title, category string, amount decimal.Decimal, p model.Period, autoRenew bool, anchor time.Time) (model.Budget, error) {
	start, end, err := PeriodRange(p, anchor)
	if err != nil {
		return model.Budget{}, err
	}
	b := model.Budget{
		ID:        uuid.NewString(),
		Title:     title,
		Category:  category,
		Amount:    amount,
		Period:    p,
		AutoRenew: autoRenew,
		StartDate: start,
		EndDate:   end,
	}
	if err := Validate(b); err != nil {
		return model.Budget{}, err
	}
	return b, nil
}

// NewCustom creates a budget over a hand-picked date range.
func NewCustom(title, category string, amount decimal.Decimal, autoRenew bool, start, end time.Time) (model.Budget, error) {
	b := model.Budget{
		ID:        uuid.NewString(),
		Title:     title,
		Category:  category,
		Amount:    amount,
		Period:    model.PeriodCustom,
		AutoRenew: autoRenew,
		StartDate: start,
		EndDate:   end,
	}
	if err := Validate(b); err != nil {
		return model.Budget{}, err
	}
	return b, nil
}

// Validate checks the fields every budget needs.
func Validate(b model.Budget) error {
	switch {
	case strings.TrimSpace(b.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidBudget)
	case strings.TrimSpace(b.Category) == "":
		return fmt.Errorf("%w: category is required", ErrInvalidBudget)
	case !b.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidBudget, b.Amount)
	case b.StartDate.IsZero() || b.EndDate.IsZero():
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidBudget)
	case day(b.EndDate).Before(day(b.StartDate)):
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidBudget,
			b.EndDate.Format(dateFormat), b.StartDate.Format(dateFormat))
	}
	if _, err := ParsePeriod(string(b.Period)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBudget, err)
	}
	return nil
}

// day truncates t to midnight UTC of its calendar date, so dates in
// different locations compare by calendar day.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Spent sums expenses in the budget's category (ignoring case) dated within
// the budget's range, both ends inclusive.
func Spent(b model.Budget, txns []model.Transaction) decimal.Decimal {
	start, end := day(b.StartDate), day(b.EndDate)
	total := decimal.Zero
	for _, txn := range txns {
		if txn.Kind != model.KindExpense {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(txn.Category), strings.TrimSpace(b.Category)) {
			continue
		}
		d := day(txn.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		total = total.Add(txn.Amount)
	}
	return total
}

// Remaining is the budget amount less what has been spent. It goes negative
// once the budget is overspent.
func Remaining(b model.Budget, txns []model.Transaction) decimal.Decimal {
	return b.Amount.Sub(Spent(b, txns))
}

// DaysLeft counts calendar days from now until the budget's end date.
// It is negative once the budget has ended.
func DaysLeft(b model.Budget, now time.Time) int {
	return int(day(b.EndDate).Sub(day(now)).Hours() / 24)
}

// Expired reports whether now is past the budget's last day.
func Expired(b model.Budget, now time.Time) bool {
	return DaysLeft(b, now) < 0
}

// ExpiringSoon reports whether the budget ends within window days from now.
func ExpiringSoon(b model.Budget, now time.Time, window int) bool {
	left := DaysLeft(b, now)
	return left >= 0 && left <= window
}

// Renew returns the budget for the period following b, with a fresh ID.
func Renew(b model.Budget) (model.Budget, error) {
	if b.Period == model.PeriodCustom {
		return model.Budget{}, ErrCustomPeriod
	}
	start, end, err := PeriodRange(b.Period, b.EndDate.AddDate(0, 0, 1))
	if err != nil {
		return model.Budget{}, err
	}
	next := b
	next.ID = uuid.NewString()
	next.StartDate = start
	next.EndDate = end
	return next, nil
}

// DueForRenewal returns the auto-renewing budgets that have expired,
// skipping titles listed in exclude (compared ignoring case).
func DueForRenewal(budgets []model.Budget, now time.Time, exclude []string) []model.Budget {
	var due []model.Budget
	for _, b := range budgets {
		if isDue(b, now, exclude) {
			due = append(due, b)
		}
	}
	return due
}

func isDue(b model.Budget, now time.Time, exclude []string) bool {
	if !b.AutoRenew || !Expired(b, now) {
		return false
	}
	for _, title := range exclude {
		if strings.EqualFold(strings.TrimSpace(title), strings.TrimSpace(b.Title)) {
			return false
		}
	}
	return true
}

// Renewal pairs an expired budget with the one that replaced it.
type Renewal struct {
	Old model.Budget
	New model.Budget
}

// RenewDue replaces every due budget with its renewal, keeping order.
// A budget that has fallen several periods behind is renewed once per call,
// into the period right after its end date.
func RenewDue(budgets []model.Budget, now time.Time, exclude []string) ([]model.Budget, []Renewal, error) {
	out := make([]model.Budget, 0, len(budgets))
	var renewals []Renewal
	for _, b := range budgets {
		if !isDue(b, now, exclude) {
			out = append(out, b)
			continue
		}
		next, err := Renew(b)
		if errors.Is(err, ErrCustomPeriod) {
			out = append(out, b)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("renewing budget %q: %w", b.Title, err)
		}
		out = append(out, next)
		renewals = append(renewals, Renewal{Old: b, New: next})
	}
	return out, renewals, nil
}
