package chart

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedGranularity is returned for a granularity outside the four known values.
var ErrUnsupportedGranularity = errors.New("unsupported granularity")

// Granularity is the width of a chart bucket.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Granularities lists the supported values in increasing width.
var Granularities = []Granularity{Daily, Weekly, Monthly, Yearly}

// ParseGranularity accepts any casing of daily, weekly, monthly or yearly.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedGranularity, s)
	}
	return g, nil
}

// Valid reports whether g is one of the supported granularities.
func (g Granularity) Valid() bool {
	switch g {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Key returns the bucket key for t. Keys of one granularity sort
// chronologically as plain strings. Weekly keys use the ISO-8601 week-year.
func (g Granularity) Key(t time.Time) string {
	switch g {
	case Daily:
		return t.Format("2006-01-02")
	case Weekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case Monthly:
		return t.Format("2006-01")
	case Yearly:
		return t.Format("2006")
	}
	panic("chart: unsupported granularity " + string(g))
}

// Label formats a bucket key for display. Keys that do not parse are returned as is.
func (g Granularity) Label(key string) string {
	switch g {
	case Daily:
		if t, err := time.Parse("2006-01-02", key); err == nil {
			return t.Format("02 Jan 2006")
		}
	case Weekly:
		var year, week int
		if _, err := fmt.Sscanf(key, "%d-W%d", &year, &week); err == nil {
			return fmt.Sprintf("W%02d-%s", week, isoWeekStart(year, week).Format("Jan-2006"))
		}
	case Monthly:
		if t, err := time.Parse("2006-01", key); err == nil {
			return t.Format("Jan-2006")
		}
	}
	return key
}

// isoWeekStart returns the Monday of the given ISO week.
func isoWeekStart(year, week int) time.Time {
	// January 4th is always in week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset)
	return monday.AddDate(0, 0, (week-1)*7)
}
