package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvista-dev/finvista/internal/model"
)

func TestParseGranularity(t *testing.T) {
	for _, in := range []string{"daily", "Weekly", " MONTHLY ", "yearly"} {
		g, err := ParseGranularity(in)
		require.NoError(t, err, in)
		assert.True(t, g.Valid())
	}
	_, err := ParseGranularity("fortnightly")
	assert.ErrorIs(t, err, ErrUnsupportedGranularity)
}

func TestGranularityKeyAndLabel(t *testing.T) {
	at := date(2024, 3, 7)
	tests := []struct {
		g     Granularity
		key   string
		label string
	}{
		{Daily, "2024-03-07", "07 Mar 2024"},
		{Weekly, "2024-W10", "W10-Mar-2024"},
		{Monthly, "2024-03", "Mar-2024"},
		{Yearly, "2024", "2024"},
	}
	for _, tt := range tests {
		key := tt.g.Key(at)
		assert.Equal(t, tt.key, key, "%s key", tt.g)
		assert.Equal(t, tt.label, tt.g.Label(key), "%s label", tt.g)
	}
}

func TestGranularityKey_ISOWeekYear(t *testing.T) {
	// 1 Jan 2021 is a Friday, which belongs to the last ISO week of 2020.
	assert.Equal(t, "2020-W53", Weekly.Key(date(2021, 1, 1)))
	assert.Equal(t, "2021-W01", Weekly.Key(date(2021, 1, 4)))
}

func TestGranularityLabel_Unparsable(t *testing.T) {
	assert.Equal(t, "junk", Daily.Label("junk"))
	assert.Equal(t, "junk", Weekly.Label("junk"))
	assert.Equal(t, "junk", Monthly.Label("junk"))
}

func TestParseFiscalYear(t *testing.T) {
	f, err := ParseFiscalYear("All")
	require.NoError(t, err)
	assert.Equal(t, AllTime{}, f)
	assert.Equal(t, "All Time", f.Title())

	f, err = ParseFiscalYear("")
	require.NoError(t, err)
	assert.Equal(t, AllTime{}, f)

	f, err = ParseFiscalYear("2023-2024")
	require.NoError(t, err)
	assert.Equal(t, FiscalYear{StartYear: 2023}, f)
	assert.Equal(t, "Financial Year: 2023-2024", f.Title())

	f, err = ParseFiscalYear(" 2023 - 2024 ")
	require.NoError(t, err)
	assert.Equal(t, "2023-2024", f.(FiscalYear).Label())

	for _, bad := range []string{"2023", "2023-2025", "abcd-2024", "2023-x", "+2023-2024", "2023-+2024", "02023-2024", "999-1000", "-2024"} {
		_, err := ParseFiscalYear(bad)
		assert.ErrorIs(t, err, ErrInvalidFilter, bad)
	}
}

func TestFiscalYearContains(t *testing.T) {
	fy := FiscalYear{StartYear: 2023}
	tests := []struct {
		y, m, d int
		want    bool
	}{
		{2023, 3, 31, false},
		{2023, 4, 1, true},
		{2023, 12, 31, true},
		{2024, 1, 1, true},
		{2024, 3, 31, true},
		{2024, 4, 1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fy.Contains(date(tt.y, tt.m, tt.d)), "%d-%02d-%02d", tt.y, tt.m, tt.d)
	}
}

func TestFiscalYearOf(t *testing.T) {
	assert.Equal(t, "2023-2024", FiscalYearOf(date(2024, 3, 31)).Label())
	assert.Equal(t, "2024-2025", FiscalYearOf(date(2024, 4, 1)).Label())
}

func TestMonthRange(t *testing.T) {
	r, err := NewMonthRange("2024-01", "2024-03")
	require.NoError(t, err)
	assert.Equal(t, "Jan 2024 to Mar 2024", r.Title())
	assert.True(t, r.Contains(date(2024, 1, 1)))
	assert.True(t, r.Contains(date(2024, 3, 31)))
	assert.False(t, r.Contains(date(2023, 12, 31)))
	assert.False(t, r.Contains(date(2024, 4, 1)))

	_, err = NewMonthRange("2024-03", "2024-01")
	assert.ErrorIs(t, err, ErrInvalidFilter)
	_, err = NewMonthRange("2024-3", "2024-04")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestAvailablePeriods(t *testing.T) {
	txns := []model.Transaction{
		income("1", date(2024, 5, 1)),
		income("1", date(2024, 2, 1)),
		expense("1", date(2024, 2, 20)),
		expense("1", date(2022, 12, 1)),
	}
	assert.Equal(t, []string{"2022-12", "2024-02", "2024-05"}, AvailableMonths(txns))
	assert.Equal(t, []string{"All", "2024-2025", "2023-2024", "2022-2023"}, AvailableFiscalYears(txns))

	assert.Empty(t, AvailableMonths(nil))
	assert.Equal(t, []string{"All"}, AvailableFiscalYears(nil))
}
