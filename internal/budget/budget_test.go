package budget

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvista-dev/finvista/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func groceries() model.Budget {
	return model.Budget{
		ID:        "b-1",
		Title:     "Groceries",
		Category:  "Food",
		Amount:    dec("300"),
		Period:    model.PeriodMonthly,
		AutoRenew: true,
		StartDate: date(2024, 1, 1),
		EndDate:   date(2024, 1, 31),
	}
}

func TestPeriodRange(t *testing.T) {
	tests := []struct {
		period     model.Period
		anchor     time.Time
		start, end time.Time
	}{
		{model.PeriodMonthly, date(2024, 2, 15), date(2024, 2, 1), date(2024, 2, 29)},
		{model.PeriodMonthly, date(2023, 12, 31), date(2023, 12, 1), date(2023, 12, 31)},
		{model.PeriodQuarterly, date(2024, 5, 10), date(2024, 4, 1), date(2024, 6, 30)},
		{model.PeriodQuarterly, date(2024, 12, 1), date(2024, 10, 1), date(2024, 12, 31)},
		{model.PeriodBiannual, date(2024, 6, 30), date(2024, 1, 1), date(2024, 6, 30)},
		{model.PeriodBiannual, date(2024, 8, 1), date(2024, 7, 1), date(2024, 12, 31)},
		{model.PeriodAnnual, date(2024, 8, 1), date(2024, 1, 1), date(2024, 12, 31)},
	}
	for _, tt := range tests {
		start, end, err := PeriodRange(tt.period, tt.anchor)
		require.NoError(t, err)
		assert.True(t, tt.start.Equal(start), "%s %s start: got %s", tt.period, tt.anchor.Format(dateFormat), start.Format(dateFormat))
		assert.True(t, tt.end.Equal(end), "%s %s end: got %s", tt.period, tt.anchor.Format(dateFormat), end.Format(dateFormat))
	}
}

func TestPeriodRange_Errors(t *testing.T) {
	_, _, err := PeriodRange(model.PeriodCustom, date(2024, 1, 1))
	assert.ErrorIs(t, err, ErrCustomPeriod)
	_, _, err = PeriodRange("weekly", date(2024, 1, 1))
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Quarterly ")
	require.NoError(t, err)
	assert.Equal(t, model.PeriodQuarterly, p)
	_, err = ParsePeriod("daily")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestNew(t *testing.T) {
	b, err := New("Fun", "Entertainment", dec("50"), model.PeriodQuarterly, false, date(2024, 8, 20))
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.True(t, date(2024, 7, 1).Equal(b.StartDate))
	assert.True(t, date(2024, 9, 30).Equal(b.EndDate))

	_, err = New("Fun", "Entertainment", dec("0"), model.PeriodMonthly, false, date(2024, 8, 20))
	assert.ErrorIs(t, err, ErrInvalidBudget)
	_, err = New("Fun", "Entertainment", dec("5"), model.PeriodCustom, false, date(2024, 8, 20))
	assert.ErrorIs(t, err, ErrCustomPeriod)
}

func TestNewCustom(t *testing.T) {
	b, err := NewCustom("Trip", "Travel", dec("800"), false, date(2024, 5, 3), date(2024, 5, 17))
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, model.PeriodCustom, b.Period)
	assert.True(t, date(2024, 5, 17).Equal(b.EndDate))

	_, err = NewCustom("Trip", "Travel", dec("800"), false, date(2024, 5, 17), date(2024, 5, 3))
	assert.ErrorIs(t, err, ErrInvalidBudget)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(groceries()))

	tests := []struct {
		name   string
		mutate func(b *model.Budget)
	}{
		{"no title", func(b *model.Budget) { b.Title = " " }},
		{"no category", func(b *model.Budget) { b.Category = "" }},
		{"negative amount", func(b *model.Budget) { b.Amount = dec("-1") }},
		{"no dates", func(b *model.Budget) { b.StartDate = time.Time{} }},
		{"end before start", func(b *model.Budget) { b.EndDate = date(2023, 12, 31) }},
		{"bad period", func(b *model.Budget) { b.Period = "weekly" }},
	}
	for _, tt := range tests {
		b := groceries()
		tt.mutate(&b)
		assert.ErrorIs(t, Validate(b), ErrInvalidBudget, tt.name)
	}
}

func TestSpentAndRemaining(t *testing.T) {
	txns := []model.Transaction{
		{Date: date(2024, 1, 1), Kind: model.KindExpense, Amount: dec("100"), Category: "food"},
		{Date: time.Date(2024, 1, 31, 22, 0, 0, 0, time.UTC), Kind: model.KindExpense, Amount: dec("50.25"), Category: "Food"},
		{Date: date(2024, 2, 1), Kind: model.KindExpense, Amount: dec("999"), Category: "Food"},
		{Date: date(2023, 12, 31), Kind: model.KindExpense, Amount: dec("999"), Category: "Food"},
		{Date: date(2024, 1, 10), Kind: model.KindExpense, Amount: dec("999"), Category: "Rent"},
		{Date: date(2024, 1, 10), Kind: model.KindIncome, Amount: dec("999"), Category: "Food"},
	}
	b := groceries()
	assert.Equal(t, "150.25", Spent(b, txns).StringFixed(2))
	assert.Equal(t, "149.75", Remaining(b, txns).StringFixed(2))

	txns = append(txns, model.Transaction{Date: date(2024, 1, 15), Kind: model.KindExpense, Amount: dec("200"), Category: "FOOD"})
	assert.True(t, Remaining(b, txns).IsNegative(), "overspent")
}

func TestExpiry(t *testing.T) {
	b := groceries()
	tests := []struct {
		now      time.Time
		left     int
		expired  bool
		expiring bool
	}{
		{date(2024, 1, 23), 8, false, false},
		{time.Date(2024, 1, 24, 15, 0, 0, 0, time.UTC), 7, false, true},
		{time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC), 0, false, true},
		{date(2024, 2, 1), -1, true, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.left, DaysLeft(b, tt.now), tt.now.String())
		assert.Equal(t, tt.expired, Expired(b, tt.now), tt.now.String())
		assert.Equal(t, tt.expiring, ExpiringSoon(b, tt.now, 7), tt.now.String())
	}
}

func TestRenew(t *testing.T) {
	next, err := Renew(groceries())
	require.NoError(t, err)
	assert.NotEqual(t, "b-1", next.ID)
	assert.Equal(t, "Groceries", next.Title)
	assert.True(t, next.Amount.Equal(dec("300")))
	assert.True(t, date(2024, 2, 1).Equal(next.StartDate))
	assert.True(t, date(2024, 2, 29).Equal(next.EndDate))

	q := groceries()
	q.Period = model.PeriodQuarterly
	q.StartDate, q.EndDate = date(2024, 10, 1), date(2024, 12, 31)
	next, err = Renew(q)
	require.NoError(t, err)
	assert.True(t, date(2025, 1, 1).Equal(next.StartDate))
	assert.True(t, date(2025, 3, 31).Equal(next.EndDate))

	c := groceries()
	c.Period = model.PeriodCustom
	_, err = Renew(c)
	assert.ErrorIs(t, err, ErrCustomPeriod)
}

func TestDueForRenewal(t *testing.T) {
	expired := groceries()
	manual := groceries()
	manual.ID, manual.AutoRenew = "b-2", false
	current := groceries()
	current.ID = "b-3"
	current.StartDate, current.EndDate = date(2024, 2, 1), date(2024, 2, 29)
	income := groceries()
	income.ID, income.Title = "b-4", "Monthly Income"

	due := DueForRenewal([]model.Budget{expired, manual, current, income}, date(2024, 2, 10), []string{"monthly income"})
	require.Len(t, due, 1)
	assert.Equal(t, "b-1", due[0].ID)
}

func TestRenewDue(t *testing.T) {
	expired := groceries()
	custom := groceries()
	custom.ID, custom.Period = "b-2", model.PeriodCustom
	current := groceries()
	current.ID = "b-3"
	current.StartDate, current.EndDate = date(2024, 2, 1), date(2024, 2, 29)

	out, renewals, err := RenewDue([]model.Budget{expired, custom, current}, date(2024, 2, 10), nil)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Len(t, renewals, 1)

	assert.Equal(t, "b-1", renewals[0].Old.ID)
	assert.Equal(t, renewals[0].New.ID, out[0].ID)
	assert.True(t, date(2024, 2, 1).Equal(out[0].StartDate))
	assert.Equal(t, "b-2", out[1].ID, "custom budgets stay as they are")
	assert.Equal(t, "b-3", out[2].ID)
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "budgets.yaml")
	q := groceries()
	q.ID, q.Title, q.Period, q.AutoRenew = "b-2", "Holidays", model.PeriodAnnual, false
	q.StartDate, q.EndDate = date(2024, 1, 1), date(2024, 12, 31)

	require.NoError(t, Save(path, []model.Budget{groceries(), q}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "amount: \"300.00\"")
	assert.Contains(t, string(data), "auto_renew: true")

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b-1", got[0].ID)
	assert.True(t, got[0].Amount.Equal(dec("300")))
	assert.True(t, got[0].EndDate.Equal(date(2024, 1, 31)))
	assert.Equal(t, model.PeriodAnnual, got[1].Period)
	assert.False(t, got[1].AutoRenew)
}

func TestLoad_Missing(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "budgets.yaml"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budgets.yaml")
	content := "budgets:\n  - title: Food\n    category: Food\n    amount: lots\n    period: monthly\n    start_date: 2024-01-01\n    end_date: 2024-01-31\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing amount")
}
