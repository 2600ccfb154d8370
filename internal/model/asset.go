package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind is the class of investment an asset belongs to.
type AssetKind string

const (
	AssetStock      AssetKind = "stock"
	AssetGold       AssetKind = "gold"
	AssetMutualFund AssetKind = "mutual_fund"
	AssetCrypto     AssetKind = "crypto"
	AssetRealEstate AssetKind = "real_estate"
)

// AssetKinds lists every kind in display order.
var AssetKinds = []AssetKind{AssetStock, AssetGold, AssetMutualFund, AssetCrypto, AssetRealEstate}

// Asset is a holding bought at BuyPrice per unit. CurrentPrice is the last
// known price per unit; zero means none has been recorded yet.
type Asset struct {
	ID           string
	Kind         AssetKind
	Name         string
	Symbol       string
	Quantity     decimal.Decimal
	BuyPrice     decimal.Decimal
	BuyDate      time.Time
	CurrentPrice decimal.Decimal
	Notes        string
}
