package fees

import (
	"github.com/cryptonomex/graphene/chain/types"
)

// Parameters holds the fee constants of one operation kind
type Parameters interface {
	OpType() types.OpType
	Clone() Parameters
}

// P is one whole unit of the core asset
const P = uint64(types.BlockchainPrecision)

// DefaultTransferFeePercentage is the default percentage-mode transfer fee, 0.01%
const DefaultTransferFeePercentage = 1

type TransferParameters struct {
	Fee           uint64
	PricePerKByte uint32
}

func (p *TransferParameters) OpType() types.OpType { return types.TypeTransfer }
func (p *TransferParameters) Clone() Parameters    { c := *p; return &c }

type TransferV2Parameters struct {
	FlatFee          uint64
	PricePerKByte    uint32
	PercentageMinFee uint64
	PercentageMaxFee uint64
	Percentage       uint16
}

func (p *TransferV2Parameters) OpType() types.OpType { return types.TypeTransferV2 }
func (p *TransferV2Parameters) Clone() Parameters    { c := *p; return &c }

type OverrideTransferParameters struct {
	Fee           uint64
	PricePerKByte uint32
}

func (p *OverrideTransferParameters) OpType() types.OpType { return types.TypeOverrideTransfer }
func (p *OverrideTransferParameters) Clone() Parameters    { c := *p; return &c }

// AccountCreateParameters charges PremiumFee instead of BasicFee for names that are not cheap
type AccountCreateParameters struct {
	BasicFee      uint64
	PremiumFee    uint64
	PricePerKByte uint32
}

func (p *AccountCreateParameters) OpType() types.OpType { return types.TypeAccountCreate }
func (p *AccountCreateParameters) Clone() Parameters    { c := *p; return &c }

type AccountUpdateParameters struct {
	Fee           uint64
	PricePerKByte uint32
}

func (p *AccountUpdateParameters) OpType() types.OpType { return types.TypeAccountUpdate }
func (p *AccountUpdateParameters) Clone() Parameters    { c := *p; return &c }

type AccountWhitelistParameters struct {
	Fee uint64
}

func (p *AccountWhitelistParameters) OpType() types.OpType { return types.TypeAccountWhitelist }
func (p *AccountWhitelistParameters) Clone() Parameters    { c := *p; return &c }

type AccountUpgradeParameters struct {
	MembershipAnnualFee   uint64
	MembershipLifetimeFee uint64
}

func (p *AccountUpgradeParameters) OpType() types.OpType { return types.TypeAccountUpgrade }
func (p *AccountUpgradeParameters) Clone() Parameters    { c := *p; return &c }

type CommitteeMemberCreateParameters struct {
	Fee uint64
}

func (p *CommitteeMemberCreateParameters) OpType() types.OpType {
	return types.TypeCommitteeMemberCreate
}
func (p *CommitteeMemberCreateParameters) Clone() Parameters { c := *p; return &c }

type CommitteeMemberUpdateParameters struct {
	Fee uint64
}

func (p *CommitteeMemberUpdateParameters) OpType() types.OpType {
	return types.TypeCommitteeMemberUpdate
}
func (p *CommitteeMemberUpdateParameters) Clone() Parameters { c := *p; return &c }

type CommitteeMemberUpdateGlobalParametersParameters struct {
	Fee uint64
}

func (p *CommitteeMemberUpdateGlobalParametersParameters) OpType() types.OpType {
	return types.TypeCommitteeMemberUpdateGlobalParameters
}
func (p *CommitteeMemberUpdateGlobalParametersParameters) Clone() Parameters { c := *p; return &c }

type CommitteeMemberUpdateCoreAssetParameters struct {
	Fee uint64
}

func (p *CommitteeMemberUpdateCoreAssetParameters) OpType() types.OpType {
	return types.TypeCommitteeMemberUpdateCoreAsset
}
func (p *CommitteeMemberUpdateCoreAssetParameters) Clone() Parameters { c := *p; return &c }

// ZeroParameters returns the zero-valued parameters of kind t
func ZeroParameters(t types.OpType) Parameters {
	switch t {
	case types.TypeTransfer:
		return &TransferParameters{}
	case types.TypeTransferV2:
		return &TransferV2Parameters{}
	case types.TypeOverrideTransfer:
		return &OverrideTransferParameters{}
	case types.TypeAccountCreate:
		return &AccountCreateParameters{}
	case types.TypeAccountUpdate:
		return &AccountUpdateParameters{}
	case types.TypeAccountWhitelist:
		return &AccountWhitelistParameters{}
	case types.TypeAccountUpgrade:
		return &AccountUpgradeParameters{}
	case types.TypeCommitteeMemberCreate:
		return &CommitteeMemberCreateParameters{}
	case types.TypeCommitteeMemberUpdate:
		return &CommitteeMemberUpdateParameters{}
	case types.TypeCommitteeMemberUpdateGlobalParameters:
		return &CommitteeMemberUpdateGlobalParametersParameters{}
	case types.TypeCommitteeMemberUpdateCoreAsset:
		return &CommitteeMemberUpdateCoreAssetParameters{}
	}
	return nil
}

// DefaultParameters returns the default parameters of kind t
func DefaultParameters(t types.OpType) Parameters {
	switch t {
	case types.TypeTransfer:
		return &TransferParameters{Fee: 20 * P, PricePerKByte: uint32(10 * P)}
	case types.TypeTransferV2:
		return &TransferV2Parameters{
			FlatFee:          20 * P,
			PricePerKByte:    uint32(10 * P),
			PercentageMinFee: 1 * P,
			PercentageMaxFee: 300 * P,
			Percentage:       DefaultTransferFeePercentage,
		}
	case types.TypeOverrideTransfer:
		return &OverrideTransferParameters{Fee: 20 * P, PricePerKByte: uint32(10 * P)}
	case types.TypeAccountCreate:
		return &AccountCreateParameters{BasicFee: 5 * P, PremiumFee: 2000 * P, PricePerKByte: uint32(P)}
	case types.TypeAccountUpdate:
		return &AccountUpdateParameters{Fee: 20 * P, PricePerKByte: uint32(P)}
	case types.TypeAccountWhitelist:
		return &AccountWhitelistParameters{Fee: 3 * P}
	case types.TypeAccountUpgrade:
		return &AccountUpgradeParameters{MembershipAnnualFee: 2000 * P, MembershipLifetimeFee: 10000 * P}
	case types.TypeCommitteeMemberCreate:
		return &CommitteeMemberCreateParameters{Fee: 5000 * P}
	case types.TypeCommitteeMemberUpdate:
		return &CommitteeMemberUpdateParameters{Fee: 20 * P}
	case types.TypeCommitteeMemberUpdateGlobalParameters:
		return &CommitteeMemberUpdateGlobalParametersParameters{Fee: P}
	case types.TypeCommitteeMemberUpdateCoreAsset:
		return &CommitteeMemberUpdateCoreAssetParameters{Fee: P}
	}
	return nil
}
