package portfolio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finvista-dev/finvista/internal/model"
)

const dateFormat = "2006-01-02"

// Book is everything held in portfolio.yaml.
type Book struct {
	Assets []model.Asset
	Sales  []Sale
}

type file struct {
	Assets []assetRecord `yaml:"assets"`
	Sales  []saleRecord  `yaml:"sales,omitempty"`
}

type assetRecord struct {
	ID           string `yaml:"id"`
	Kind         string `yaml:"kind"`
	Name         string `yaml:"name"`
	Symbol       string `yaml:"symbol,omitempty"`
	Quantity     string `yaml:"quantity"`
	BuyPrice     string `yaml:"buy_price"`
	BuyDate      string `yaml:"buy_date"`
	CurrentPrice string `yaml:"current_price,omitempty"`
	Notes        string `yaml:"notes,omitempty"`
}

type saleRecord struct {
	AssetID   string `yaml:"asset_id"`
	Kind      string `yaml:"kind"`
	Name      string `yaml:"name"`
	Quantity  string `yaml:"quantity"`
	BuyPrice  string `yaml:"buy_price"`
	SellPrice string `yaml:"sell_price"`
	SellDate  string `yaml:"sell_date"`
}

// Load reads a portfolio file. A missing file is an empty book.
func Load(path string) (Book, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Book{}, nil
	}
	if err != nil {
		return Book{}, fmt.Errorf("reading portfolio: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Book{}, fmt.Errorf("parsing portfolio: %w", err)
	}

	var book Book
	for i, rec := range f.Assets {
		a, err := rec.asset()
		if err != nil {
			return Book{}, fmt.Errorf("asset %d (%s): %w", i+1, rec.Name, err)
		}
		book.Assets = append(book.Assets, a)
	}
	for i, rec := range f.Sales {
		s, err := rec.sale()
		if err != nil {
			return Book{}, fmt.Errorf("sale %d (%s): %w", i+1, rec.Name, err)
		}
		book.Sales = append(book.Sales, s)
	}
	return book, nil
}

// Save writes a portfolio file, creating its directory.
func Save(path string, book Book) error {
	f := file{Assets: make([]assetRecord, 0, len(book.Assets))}
	for _, a := range book.Assets {
		f.Assets = append(f.Assets, toAssetRecord(a))
	}
	for _, s := range book.Sales {
		f.Sales = append(f.Sales, toSaleRecord(s))
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling portfolio: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating portfolio dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing portfolio: %w", err)
	}
	return nil
}

func toAssetRecord(a model.Asset) assetRecord {
	rec := assetRecord{
		ID:       a.ID,
		Kind:     string(a.Kind),
		Name:     a.Name,
		Symbol:   a.Symbol,
		Quantity: a.Quantity.String(),
		BuyPrice: a.BuyPrice.String(),
		BuyDate:  a.BuyDate.Format(dateFormat),
		Notes:    a.Notes,
	}
	if !a.CurrentPrice.IsZero() {
		rec.CurrentPrice = a.CurrentPrice.String()
	}
	return rec
}

func (rec assetRecord) asset() (model.Asset, error) {
	kind, err := ParseKind(rec.Kind)
	if err != nil {
		return model.Asset{}, err
	}
	quantity, err := parseDecimal("quantity", rec.Quantity)
	if err != nil {
		return model.Asset{}, err
	}
	buyPrice, err := parseDecimal("buy_price", rec.BuyPrice)
	if err != nil {
		return model.Asset{}, err
	}
	current := decimal.Zero
	if rec.CurrentPrice != "" {
		if current, err = parseDecimal("current_price", rec.CurrentPrice); err != nil {
			return model.Asset{}, err
		}
	}
	buyDate, err := time.Parse(dateFormat, rec.BuyDate)
	if err != nil {
		return model.Asset{}, fmt.Errorf("parsing buy_date %q: %w", rec.BuyDate, err)
	}

	a := model.Asset{
		ID:           rec.ID,
		Kind:         kind,
		Name:         rec.Name,
		Symbol:       rec.Symbol,
		Quantity:     quantity,
		BuyPrice:     buyPrice,
		BuyDate:      buyDate,
		CurrentPrice: current,
		Notes:        rec.Notes,
	}
	if err := Validate(a); err != nil {
		return model.Asset{}, err
	}
	return a, nil
}

func toSaleRecord(s Sale) saleRecord {
	return saleRecord{
		AssetID:   s.AssetID,
		Kind:      string(s.Kind),
		Name:      s.Name,
		Quantity:  s.Quantity.String(),
		BuyPrice:  s.BuyPrice.String(),
		SellPrice: s.SellPrice.String(),
		SellDate:  s.SellDate.Format(dateFormat),
	}
}

// sale rebuilds a Sale; profit is derived rather than stored.
func (rec saleRecord) sale() (Sale, error) {
	kind, err := ParseKind(rec.Kind)
	if err != nil {
		return Sale{}, err
	}
	quantity, err := parseDecimal("quantity", rec.Quantity)
	if err != nil {
		return Sale{}, err
	}
	buyPrice, err := parseDecimal("buy_price", rec.BuyPrice)
	if err != nil {
		return Sale{}, err
	}
	sellPrice, err := parseDecimal("sell_price", rec.SellPrice)
	if err != nil {
		return Sale{}, err
	}
	sellDate, err := time.Parse(dateFormat, rec.SellDate)
	if err != nil {
		return Sale{}, fmt.Errorf("parsing sell_date %q: %w", rec.SellDate, err)
	}
	return Sale{
		AssetID:       rec.AssetID,
		Kind:          kind,
		Name:          rec.Name,
		Quantity:      quantity,
		BuyPrice:      buyPrice,
		SellPrice:     sellPrice,
		SellDate:      sellDate,
		Profit:        sellPrice.Sub(buyPrice).Mul(quantity),
		ProfitPercent: Growth(buyPrice, sellPrice),
	}, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}
