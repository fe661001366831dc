package protocol

import (
	"github.com/cryptonomex/graphene/chain/fees"
	amino "github.com/tendermint/go-amino"
)

// Codec encodes operations, transactions and stored objects
var Codec = amino.NewCodec()

func init() {
	RegisterAmino(Codec)
}

// RegisterAmino registers the operation kinds and fee parameters on cdc
func RegisterAmino(cdc *amino.Codec) {
	fees.RegisterAmino(cdc)

	cdc.RegisterInterface((*Operation)(nil), nil)
	cdc.RegisterConcrete(&Transfer{}, "graphene/Transfer", nil)
	cdc.RegisterConcrete(&AccountCreate{}, "graphene/AccountCreate", nil)
	cdc.RegisterConcrete(&AccountUpdate{}, "graphene/AccountUpdate", nil)
	cdc.RegisterConcrete(&AccountWhitelist{}, "graphene/AccountWhitelist", nil)
	cdc.RegisterConcrete(&AccountUpgrade{}, "graphene/AccountUpgrade", nil)
	cdc.RegisterConcrete(&CommitteeMemberCreate{}, "graphene/CommitteeMemberCreate", nil)
	cdc.RegisterConcrete(&CommitteeMemberUpdate{}, "graphene/CommitteeMemberUpdate", nil)
	cdc.RegisterConcrete(&CommitteeMemberUpdateGlobalParameters{}, "graphene/CommitteeMemberUpdateGlobalParameters", nil)
	cdc.RegisterConcrete(&OverrideTransfer{}, "graphene/OverrideTransfer", nil)
	cdc.RegisterConcrete(&TransferV2{}, "graphene/TransferV2", nil)
	cdc.RegisterConcrete(&CommitteeMemberUpdateCoreAsset{}, "graphene/CommitteeMemberUpdateCoreAsset", nil)
}
