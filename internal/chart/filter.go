package chart

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/finvista-dev/finvista/internal/model"
)

// ErrInvalidFilter is returned for a fiscal year label or month range that cannot be used.
var ErrInvalidFilter = errors.New("invalid date range filter")

// AllLabel selects every transaction when used as a fiscal year label.
const AllLabel = "All"

// fiscalStartMonth is the first month of a fiscal year.
const fiscalStartMonth = time.April

const monthFormat = "2006-01"

// Filter decides which transactions a chart covers.
type Filter interface {
	Contains(t time.Time) bool
	Title() string
}

// AllTime keeps every transaction.
type AllTime struct{}

func (AllTime) Contains(time.Time) bool { return true }

func (AllTime) Title() string { return "All Time" }

// FiscalYear spans April 1 of StartYear through March 31 of StartYear+1.
type FiscalYear struct {
	StartYear int
}

// Contains reports whether t falls in the fiscal year.
func (f FiscalYear) Contains(t time.Time) bool {
	if t.Month() >= fiscalStartMonth {
		return t.Year() == f.StartYear
	}
	return t.Year() == f.StartYear+1
}

// Label returns the "YYYY-YYYY" form.
func (f FiscalYear) Label() string {
	return fmt.Sprintf("%d-%d", f.StartYear, f.StartYear+1)
}

func (f FiscalYear) Title() string {
	return "Financial Year: " + f.Label()
}

// MonthRange keeps transactions whose YYYY-MM lies between Start and End inclusive.
type MonthRange struct {
	Start string
	End   string
}

// NewMonthRange validates both bounds as YYYY-MM with start not after end.
func NewMonthRange(start, end string) (MonthRange, error) {
	for _, m := range []string{start, end} {
		if _, err := time.Parse(monthFormat, m); err != nil {
			return MonthRange{}, fmt.Errorf("%w: month %q is not YYYY-MM", ErrInvalidFilter, m)
		}
	}
	if start > end {
		return MonthRange{}, fmt.Errorf("%w: %s is after %s", ErrInvalidFilter, start, end)
	}
	return MonthRange{Start: start, End: end}, nil
}

func (r MonthRange) Contains(t time.Time) bool {
	m := t.Format(monthFormat)
	return m >= r.Start && m <= r.End
}

func (r MonthRange) Title() string {
	return monthTitle(r.Start) + " to " + monthTitle(r.End)
}

func monthTitle(m string) string {
	t, err := time.Parse(monthFormat, m)
	if err != nil {
		return m
	}
	return t.Format("Jan 2006")
}

// ParseFiscalYear turns "All" into AllTime and "2023-2024" into a FiscalYear.
func ParseFiscalYear(label string) (Filter, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, AllLabel) {
		return AllTime{}, nil
	}
	first, second, ok := strings.Cut(label, "-")
	if !ok {
		return nil, fmt.Errorf("%w: fiscal year %q is not YYYY-YYYY", ErrInvalidFilter, label)
	}
	start, err := parseYear(strings.TrimSpace(first))
	if err != nil {
		return nil, fmt.Errorf("%w: fiscal year %q: %v", ErrInvalidFilter, label, err)
	}
	end, err := parseYear(strings.TrimSpace(second))
	if err != nil {
		return nil, fmt.Errorf("%w: fiscal year %q: %v", ErrInvalidFilter, label, err)
	}
	if end != start+1 {
		return nil, fmt.Errorf("%w: fiscal year %q must span consecutive years", ErrInvalidFilter, label)
	}
	return FiscalYear{StartYear: start}, nil
}

// parseYear accepts exactly four ASCII digits.
func parseYear(s string) (int, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("year %q is not four digits", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("year %q is not four digits", s)
		}
	}
	return strconv.Atoi(s)
}

// FiscalYearOf returns the fiscal year containing t.
func FiscalYearOf(t time.Time) FiscalYear {
	if t.Month() >= fiscalStartMonth {
		return FiscalYear{StartYear: t.Year()}
	}
	return FiscalYear{StartYear: t.Year() - 1}
}

// AvailableMonths lists the distinct YYYY-MM values present, oldest first.
func AvailableMonths(txns []model.Transaction) []string {
	seen := make(map[string]bool)
	var months []string
	for _, txn := range txns {
		m := txn.Date.Format(monthFormat)
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Strings(months)
	return months
}

// AvailableFiscalYears lists "All" followed by the fiscal years present, newest first.
func AvailableFiscalYears(txns []model.Transaction) []string {
	seen := make(map[string]bool)
	var years []string
	for _, txn := range txns {
		label := FiscalYearOf(txn.Date).Label()
		if !seen[label] {
			seen[label] = true
			years = append(years, label)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return append([]string{AllLabel}, years...)
}
