package assets

import (
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/types"
)

type Model struct {
	ID        types.AssetID
	Symbol    string
	Precision uint32
	Issuer    types.AccountID
	Options   protocol.AssetOptions
}

func (m *Model) clone() *Model {
	c := *m
	c.Options = m.Options.Clone()
	return &c
}

// IsTransferRestricted reports assets that only move to or from the issuer
func (m *Model) IsTransferRestricted() bool {
	return m.Options.HasFlag(protocol.TransferRestricted)
}

// CanOverride reports whether the issuer may move the asset between any accounts
func (m *Model) CanOverride() bool {
	return m.Options.HasFlag(protocol.OverrideAuthority)
}

func (m *Model) EnforceWhiteList() bool {
	return m.Options.HasFlag(protocol.WhiteList)
}

func (m *Model) TransferFeeMode() types.TransferFeeMode {
	return m.Options.TransferFeeMode()
}

// DynamicData holds the frequently changing amounts of an asset
type DynamicData struct {
	CurrentSupply   int64
	AccumulatedFees int64
	// FeePool is core asset set aside to pay fees charged in this asset
	FeePool int64
}
