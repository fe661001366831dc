package fees

import (
	amino "github.com/tendermint/go-amino"
)

// RegisterAmino registers the fee parameter kinds on cdc
func RegisterAmino(cdc *amino.Codec) {
	cdc.RegisterInterface((*Parameters)(nil), nil)
	cdc.RegisterConcrete(&TransferParameters{}, "graphene/fees/Transfer", nil)
	cdc.RegisterConcrete(&AccountCreateParameters{}, "graphene/fees/AccountCreate", nil)
	cdc.RegisterConcrete(&AccountUpdateParameters{}, "graphene/fees/AccountUpdate", nil)
	cdc.RegisterConcrete(&AccountWhitelistParameters{}, "graphene/fees/AccountWhitelist", nil)
	cdc.RegisterConcrete(&AccountUpgradeParameters{}, "graphene/fees/AccountUpgrade", nil)
	cdc.RegisterConcrete(&CommitteeMemberCreateParameters{}, "graphene/fees/CommitteeMemberCreate", nil)
	cdc.RegisterConcrete(&CommitteeMemberUpdateParameters{}, "graphene/fees/CommitteeMemberUpdate", nil)
	cdc.RegisterConcrete(&CommitteeMemberUpdateGlobalParametersParameters{}, "graphene/fees/CommitteeMemberUpdateGlobalParameters", nil)
	cdc.RegisterConcrete(&OverrideTransferParameters{}, "graphene/fees/OverrideTransfer", nil)
	cdc.RegisterConcrete(&TransferV2Parameters{}, "graphene/fees/TransferV2", nil)
	cdc.RegisterConcrete(&CommitteeMemberUpdateCoreAssetParameters{}, "graphene/fees/CommitteeMemberUpdateCoreAsset", nil)
}
