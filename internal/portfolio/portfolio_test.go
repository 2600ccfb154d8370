package portfolio

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
	return decimal.RequireFromString(s)
}

func infy() model.Asset {
	return model.Asset{
		ID:           "a-1",
		Kind:         model.AssetStock,
		Name:         "Infosys",
		Symbol:       "INFY.NS",
		Quantity:     dec("10"),
		BuyPrice:     dec("1500"),
		BuyDate:      date(2023, 6, 1),
		CurrentPrice: dec("1650"),
	}
}

func coins() model.Asset {
	return model.Asset{
		ID:       "a-2",
		Kind:     model.AssetGold,
		Name:     "Sovereign coins",
		Quantity: dec("2"),
		BuyPrice: dec("6000"),
		BuyDate:  date(2022, 11, 5),
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]model.AssetKind{
		"stock":       model.AssetStock,
		" Gold ":      model.AssetGold,
		"mutual-fund": model.AssetMutualFund,
		"Mutual Fund": model.AssetMutualFund,
		"real_estate": model.AssetRealEstate,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("bonds")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNew(t *testing.T) {
	a, err := New(model.AssetCrypto, "Bitcoin", "BTC", dec("0.05"), dec("2500000"), date(2024, 3, 1))
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.True(t, a.CurrentPrice.IsZero())

	_, err = New(model.AssetCrypto, "Bitcoin", "BTC", dec("0"), dec("2500000"), date(2024, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidAsset)
	_, err = New("bonds", "Gilt", "", dec("1"), dec("100"), date(2024, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidAsset)
	_, err = New(model.AssetGold, " ", "", dec("1"), dec("100"), date(2024, 3, 1))
	assert.ErrorIs(t, err, ErrInvalidAsset)
	_, err = New(model.AssetGold, "Bar", "", dec("1"), dec("100"), time.Time{})
	assert.ErrorIs(t, err, ErrInvalidAsset)
}

func TestValues(t *testing.T) {
	a := infy()
	assert.Equal(t, "15000", Invested(a).String())
	assert.Equal(t, "16500", CurrentValue(a).String())

	g := coins()
	assert.True(t, CurrentValue(g).Equal(Invested(g)), "no current price values at cost")
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, "10", Growth(dec("15000"), dec("16500")).String())
	assert.Equal(t, "-33.33", Growth(dec("300"), dec("200")).String())
	assert.True(t, Growth(decimal.Zero, dec("50")).IsZero())
}

func TestSummarize(t *testing.T) {
	fund := model.Asset{
		ID: "a-3", Kind: model.AssetMutualFund, Name: "Index fund",
		Quantity: dec("100"), BuyPrice: dec("50"), BuyDate: date(2024, 1, 1), CurrentPrice: dec("45"),
	}
	more := infy()
	more.ID, more.Quantity, more.BuyPrice, more.CurrentPrice = "a-4", dec("5"), dec("1000"), dec("900")

	sales := []Sale{{Profit: dec("250")}, {Profit: dec("-50.50")}}
	s := Summarize([]model.Asset{fund, infy(), coins(), more}, sales)

	assert.Equal(t, "37000", s.TotalInvested.String())
	assert.Equal(t, "37500", s.TotalCurrent.String())
	assert.Equal(t, "1.35", s.OverallGrowth.String())
	assert.Equal(t, "199.5", s.RealizedProfit.String())

	require.Len(t, s.Categories, 3)
	stocks, gold, funds := s.Categories[0], s.Categories[1], s.Categories[2]
	assert.Equal(t, model.AssetStock, stocks.Kind)
	assert.Equal(t, 2, stocks.Assets)
	assert.Equal(t, "20000", stocks.Invested.String())
	assert.Equal(t, "21000", stocks.Current.String())
	assert.Equal(t, "5", stocks.Growth.String())
	assert.Equal(t, model.AssetGold, gold.Kind)
	assert.True(t, gold.Growth.IsZero())
	assert.Equal(t, model.AssetMutualFund, funds.Kind)
	assert.Equal(t, "-10", funds.Growth.String())
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil)
	assert.True(t, s.TotalInvested.IsZero())
	assert.True(t, s.OverallGrowth.IsZero())
	assert.Empty(t, s.Categories)
}

func TestSell(t *testing.T) {
	sale, left, err := Sell(infy(), dec("4"), dec("1800"), date(2024, 5, 2))
	require.NoError(t, err)
	assert.Equal(t, "1200", sale.Profit.String())
	assert.Equal(t, "20", sale.ProfitPercent.String())
	assert.Equal(t, "a-1", sale.AssetID)
	require.NotNil(t, left)
	assert.Equal(t, "6", left.Quantity.String())
	assert.Equal(t, "10", infy().Quantity.String(), "input is not modified")

	sale, left, err = Sell(infy(), dec("10"), dec("1400"), date(2024, 5, 2))
	require.NoError(t, err)
	assert.Nil(t, left, "selling everything leaves nothing")
	assert.Equal(t, "-1000", sale.Profit.String())

	_, _, err = Sell(infy(), dec("11"), dec("1400"), date(2024, 5, 2))
	assert.ErrorIs(t, err, ErrOversold)
	_, _, err = Sell(infy(), dec("0"), dec("1400"), date(2024, 5, 2))
	assert.ErrorIs(t, err, ErrInvalidAsset)
}

func TestFind(t *testing.T) {
	assets := []model.Asset{infy(), coins()}

	i, err := Find(assets, "a-2")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = Find(assets, "infy.ns")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = Find(assets, "Sovereign Coins")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = Find(assets, "nothing")
	require.NoError(t, err)
	assert.Equal(t, -1, i)

	twin := infy()
	twin.ID = "a-9"
	_, err = Find(append(assets, twin), "INFY.NS")
	assert.ErrorContains(t, err, "more than one asset")
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "portfolio.yaml")
	sale, _, err := Sell(infy(), dec("2"), dec("1700"), date(2024, 2, 1))
	require.NoError(t, err)

	require.NoError(t, Save(path, Book{Assets: []model.Asset{infy(), coins()}, Sales: []Sale{sale}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: stock")
	assert.Contains(t, string(data), "2023-06-01")
	assert.NotContains(t, string(data), "profit", "profit is derived on load")

	book, err := Load(path)
	require.NoError(t, err)
	require.Len(t, book.Assets, 2)
	assert.Equal(t, "INFY.NS", book.Assets[0].Symbol)
	assert.True(t, book.Assets[0].CurrentPrice.Equal(dec("1650")))
	assert.True(t, book.Assets[1].CurrentPrice.IsZero())
	assert.True(t, book.Assets[1].BuyDate.Equal(date(2022, 11, 5)))
	require.Len(t, book.Sales, 1)
	assert.Equal(t, "400", book.Sales[0].Profit.String())
}

func TestLoad_Missing(t *testing.T) {
	book, err := Load(filepath.Join(t.TempDir(), "portfolio.yaml"))
	require.NoError(t, err)
	assert.Empty(t, book.Assets)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	content := "assets:\n  - id: a-1\n    kind: stock\n    name: Infosys\n    quantity: ten\n    buy_price: \"1500\"\n    buy_date: \"2023-06-01\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing quantity")
}
