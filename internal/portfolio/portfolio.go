// Package portfolio values investment holdings and summarizes them by kind.
package portfolio

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
	// ErrInvalidAsset is returned by Validate.
	ErrInvalidAsset = errors.New("invalid asset")
	// ErrUnknownKind is returned for an asset kind that is not recognised.
	ErrUnknownKind = errors.New("unknown asset kind")
	// ErrOversold is returned when a sale exceeds the quantity held.
	ErrOversold = errors.New("cannot sell more than is held")
)

// growthPlaces is the precision of growth percentages.
const growthPlaces = 2

var hundred = decimal.NewFromInt(100)

// ParseKind accepts any casing of the known kinds, with "-" or " " in place
// of "_".
func ParseKind(s string) (model.AssetKind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, k := range model.AssetKinds {
		if model.AssetKind(norm) == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// New creates an asset with a fresh ID.
func New(kind model.AssetKind, name, symbol string, quantity, buyPrice decimal.Decimal, buyDate time.Time) (model.Asset, error) {
	a := model.Asset{
		ID:       uuid.NewString(),
		Kind:     kind,
		Name:     name,
		Symbol:   symbol,
		Quantity: quantity,
		BuyPrice: buyPrice,
		BuyDate:  buyDate,
	}
	if err := Validate(a); err != nil {
		return model.Asset{}, err
	}
	return a, nil
}

// Validate checks the fields every asset needs.
func Validate(a model.Asset) error {
	if _, err := ParseKind(string(a.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}
	switch {
	case strings.TrimSpace(a.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidAsset)
	case !a.Quantity.IsPositive():
		return fmt.Errorf("%w: quantity must be positive, got %s", ErrInvalidAsset, a.Quantity)
	case a.BuyPrice.IsNegative():
		return fmt.Errorf("%w: buy price cannot be negative, got %s", ErrInvalidAsset, a.BuyPrice)
	case a.CurrentPrice.IsNegative():
		return fmt.Errorf("%w: current price cannot be negative, got %s", ErrInvalidAsset, a.CurrentPrice)
	case a.BuyDate.IsZero():
		return fmt.Errorf("%w: buy date is required", ErrInvalidAsset)
	}
	return nil
}

// Invested is what the holding cost.
func Invested(a model.Asset) decimal.Decimal {
	return a.BuyPrice.Mul(a.Quantity)
}

// CurrentValue prices the holding at its current price. Without one the
// holding is valued at cost.
func CurrentValue(a model.Asset) decimal.Decimal {
	if a.CurrentPrice.IsZero() {
		return Invested(a)
	}
	return a.CurrentPrice.Mul(a.Quantity)
}

// Growth is the percentage change from invested to current, rounded to two
// places. Nothing invested means no growth.
func Growth(invested, current decimal.Decimal) decimal.Decimal {
	if !invested.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(invested).Mul(hundred).DivRound(invested, growthPlaces)
}

// Category totals the holdings of one kind.
type Category struct {
	Kind     model.AssetKind `json:"kind"`
	Assets   int             `json:"assets"`
	Invested decimal.Decimal `json:"invested"`
	Current  decimal.Decimal `json:"current"`
	Growth   decimal.Decimal `json:"growth"`
}

// Summary totals a portfolio.
type Summary struct {
	TotalInvested decimal.Decimal `json:"totalInvestedValue"`
	TotalCurrent  decimal.Decimal `json:"totalCurrentValue"`
	OverallGrowth decimal.Decimal `json:"overallGrowth"`
	// RealizedProfit is the sum of profits over recorded sales.
	RealizedProfit decimal.Decimal `json:"realizedProfit"`
	Categories     []Category      `json:"categoryBreakdown"`
}

// Summarize totals assets overall and per kind. Categories come in
// model.AssetKinds order and only kinds that are held appear.
func Summarize(assets []model.Asset, sales []Sale) Summary {
	byKind := make(map[model.AssetKind]*Category)
	s := Summary{
		TotalInvested:  decimal.Zero,
		TotalCurrent:   decimal.Zero,
		RealizedProfit: decimal.Zero,
	}
	for _, a := range assets {
		c, ok := byKind[a.Kind]
		if !ok {
			c = &Category{Kind: a.Kind, Invested: decimal.Zero, Current: decimal.Zero}
			byKind[a.Kind] = c
		}
		invested, current := Invested(a), CurrentValue(a)
		c.Assets++
		c.Invested = c.Invested.Add(invested)
		c.Current = c.Current.Add(current)
		s.TotalInvested = s.TotalInvested.Add(invested)
		s.TotalCurrent = s.TotalCurrent.Add(current)
	}
	for _, k := range model.AssetKinds {
		c, ok := byKind[k]
		if !ok {
			continue
		}
		c.Growth = Growth(c.Invested, c.Current)
		s.Categories = append(s.Categories, *c)
	}
	s.OverallGrowth = Growth(s.TotalInvested, s.TotalCurrent)
	for _, sale := range sales {
		s.RealizedProfit = s.RealizedProfit.Add(sale.Profit)
	}
	return s
}

// Sale records part or all of a holding being sold.
type Sale struct {
	AssetID       string
	Kind          model.AssetKind
	Name          string
	Quantity      decimal.Decimal
	BuyPrice      decimal.Decimal
	SellPrice     decimal.Decimal
	SellDate      time.Time
	Profit        decimal.Decimal
	ProfitPercent decimal.Decimal
}

// Sell sells quantity units of a at price. It returns the sale and what is
// left of the holding; left is nil when everything was sold.
func Sell(a model.Asset, quantity, price decimal.Decimal, date time.Time) (Sale, *model.Asset, error) {
	if !quantity.IsPositive() {
		return Sale{}, nil, fmt.Errorf("%w: sell quantity must be positive, got %s", ErrInvalidAsset, quantity)
	}
	if price.IsNegative() {
		return Sale{}, nil, fmt.Errorf("%w: sell price cannot be negative, got %s", ErrInvalidAsset, price)
	}
	if quantity.GreaterThan(a.Quantity) {
		return Sale{}, nil, fmt.Errorf("%w: selling %s of %s held in %q", ErrOversold, quantity, a.Quantity, a.Name)
	}

	sale := Sale{
		AssetID:       a.ID,
		Kind:          a.Kind,
		Name:          a.Name,
		Quantity:      quantity,
		BuyPrice:      a.BuyPrice,
		SellPrice:     price,
		SellDate:      date,
		Profit:        price.Sub(a.BuyPrice).Mul(quantity),
		ProfitPercent: Growth(a.BuyPrice, price),
	}
	if quantity.Equal(a.Quantity) {
		return sale, nil, nil
	}
	left := a
	left.Quantity = a.Quantity.Sub(quantity)
	return sale, &left, nil
}

// Find returns the index of the asset whose ID, symbol or name matches ref,
// ignoring case. IDs win over symbols, symbols over names. It returns -1 when
// nothing matches and an error when a symbol or name is ambiguous.
func Find(assets []model.Asset, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	for i, a := range assets {
		if a.ID == ref {
			return i, nil
		}
	}
	for _, field := range []func(model.Asset) string{
		func(a model.Asset) string { return a.Symbol },
		func(a model.Asset) string { return a.Name },
	} {
		found := -1
		for i, a := range assets {
			if v := field(a); v != "" && strings.EqualFold(v, ref) {
				if found >= 0 {
					return -1, fmt.Errorf("%q matches more than one asset, use its ID", ref)
				}
				found = i
			}
		}
		if found >= 0 {
			return found, nil
		}
	}
	return -1, nil
}
