package types

import (
	"fmt"
	"math/big"
)

// Asset is an amount of a specific asset
type Asset struct {
	Amount  int64
	AssetID AssetID
}

func NewAsset(amount int64, id AssetID) Asset {
	return Asset{Amount: amount, AssetID: id}
}

// CoreAmount is a shortcut for an amount of the core asset
func CoreAmount(amount int64) Asset {
	return Asset{Amount: amount, AssetID: CoreAsset}
}

func (a Asset) String() string {
	return fmt.Sprintf("%d %s", a.Amount, a.AssetID)
}

// Mul converts a into the other side of price p, rounding down
func (a Asset) Mul(p Price) (Asset, error) {
	var num, den int64
	var out AssetID
	switch a.AssetID {
	case p.Base.AssetID:
		num, den, out = p.Quote.Amount, p.Base.Amount, p.Quote.AssetID
	case p.Quote.AssetID:
		num, den, out = p.Base.Amount, p.Quote.Amount, p.Base.AssetID
	default:
		return Asset{}, fmt.Errorf("invalid asset * price: %s * %s", a, p)
	}
	if den <= 0 {
		return Asset{}, fmt.Errorf("invalid price %s", p)
	}

	result := big.NewInt(a.Amount)
	result.Mul(result, big.NewInt(num))
	result.Quo(result, big.NewInt(den))
	if result.Cmp(big.NewInt(MaxShareSupply)) > 0 {
		return Asset{}, fmt.Errorf("amount %s * %s exceeds max share supply", a, p)
	}

	return Asset{Amount: result.Int64(), AssetID: out}, nil
}

// Price is the ratio Base/Quote between two assets
type Price struct {
	Base  Asset
	Quote Asset
}

// UnitPrice is the 1:1 price of an asset against the core asset
func UnitPrice(id AssetID) Price {
	return Price{Base: Asset{Amount: 1, AssetID: id}, Quote: Asset{Amount: 1, AssetID: CoreAsset}}
}

func (p Price) IsZero() bool {
	return p == Price{}
}

func (p Price) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

// Validate checks both sides are positive
func (p Price) Validate() error {
	if p.Base.Amount <= 0 || p.Quote.Amount <= 0 {
		return fmt.Errorf("price %s must be positive", p)
	}
	return nil
}
