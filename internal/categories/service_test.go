package categories

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvista-dev/finvista/internal/chart"
	"github.com/finvista-dev/finvista/internal/model"
)

func txn(kind model.Kind, category, amount string, y, m, d int) model.Transaction {
	a, _ := decimal.NewFromString(amount)
	return model.Transaction{
		Date:     time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC),
		Kind:     kind,
		Amount:   a,
		Category: category,
	}
}

func sample() []model.Transaction {
	return []model.Transaction{
		txn(model.KindExpense, "Food", "12.50", 2024, 1, 3),
		txn(model.KindExpense, "rent", "900", 2024, 1, 1),
		txn(model.KindIncome, "Salary", "2500", 2024, 1, 28),
		txn(model.KindExpense, "food ", "7.50", 2024, 2, 9),
		txn(model.KindIncome, "Freelance", "300", 2024, 4, 12),
		txn(model.KindExpense, "Rent", "900", 2024, 4, 1),
	}
}

func TestNewService_All(t *testing.T) {
	svc := NewService(sample(), nil)
	all := svc.All()
	require.Len(t, all, 4)

	assert.Equal(t, "Salary", all[0].Category)
	assert.Equal(t, model.KindIncome, all[0].Kind)
	assert.Equal(t, "Freelance", all[1].Category)
	assert.Equal(t, "rent", all[2].Category, "first spelling wins")
	assert.True(t, all[2].Amount.Equal(decimal.NewFromInt(1800)))
	assert.Equal(t, 2, all[2].Count)
	assert.Equal(t, "Food", all[3].Category)
	assert.True(t, all[3].Amount.Equal(decimal.NewFromInt(20)))
}

func TestGet(t *testing.T) {
	svc := NewService(sample(), nil)

	food, ok := svc.Get(model.KindExpense, "FOOD")
	require.True(t, ok)
	assert.Equal(t, 2, food.Count)

	_, ok = svc.Get(model.KindIncome, "Food")
	assert.False(t, ok, "kind is part of the key")
	_, ok = svc.Get(model.KindExpense, "Travel")
	assert.False(t, ok)
}

func TestByKindAndTotal(t *testing.T) {
	svc := NewService(sample(), nil)

	incomes := svc.ByKind(model.KindIncome)
	assert.Len(t, incomes, 2)
	for _, i := range incomes {
		assert.Equal(t, model.KindIncome, i.Kind)
	}
	assert.True(t, svc.Total(model.KindIncome).Equal(decimal.NewFromInt(2800)))
	assert.True(t, svc.Total(model.KindExpense).Equal(decimal.NewFromInt(1820)))
}

func TestFiltered(t *testing.T) {
	fy, err := chart.ParseFiscalYear("2024-2025")
	require.NoError(t, err)

	svc := NewService(sample(), fy)
	require.Len(t, svc.All(), 2)
	rent, ok := svc.Get(model.KindExpense, "rent")
	require.True(t, ok)
	assert.Equal(t, "Rent", rent.Category)
	assert.Equal(t, 1, rent.Count)
}

func TestEmpty(t *testing.T) {
	svc := NewService(nil, nil)
	assert.Empty(t, svc.All())
	assert.True(t, svc.Total(model.KindExpense).IsZero())
}
