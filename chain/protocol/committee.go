package protocol

import (
	"fmt"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/types"
)

// CommitteeMemberCreate registers CommitteeMemberAccount as a committee candidate
type CommitteeMemberCreate struct {
	Fee                    types.Asset
	CommitteeMemberAccount types.AccountID
	URL                    string
	// CommitteeAccount is the committee the member stands for, the core committee by default
	CommitteeAccount types.AccountID
}

func (op *CommitteeMemberCreate) Type() types.OpType        { return types.TypeCommitteeMemberCreate }
func (op *CommitteeMemberCreate) FeePayer() types.AccountID { return op.CommitteeMemberAccount }
func (op *CommitteeMemberCreate) GetFee() types.Asset       { return op.Fee }
func (op *CommitteeMemberCreate) SetFee(fee types.Asset)    { op.Fee = fee }
func (op *CommitteeMemberCreate) IsFeeScalable() bool       { return true }

func (op *CommitteeMemberCreate) String() string {
	return fmt.Sprintf("COMMITTEE_MEMBER_CREATE account: %s url: %s", op.CommitteeMemberAccount, op.URL)
}

func (op *CommitteeMemberCreate) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if len(op.URL) > types.MaxURLLength {
		return code.NewInvalidOperation("url is longer than %d", types.MaxURLLength)
	}
	return nil
}

func (op *CommitteeMemberCreate) CalculateFee(params fees.Parameters, _ fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.CommitteeMemberCreateParameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}
	return p.Fee, nil
}

// CommitteeMemberUpdate changes the URL of a committee member
type CommitteeMemberUpdate struct {
	Fee                    types.Asset
	CommitteeMember        types.CommitteeMemberID
	CommitteeMemberAccount types.AccountID
	NewURL                 *string
}

func (op *CommitteeMemberUpdate) Type() types.OpType        { return types.TypeCommitteeMemberUpdate }
func (op *CommitteeMemberUpdate) FeePayer() types.AccountID { return op.CommitteeMemberAccount }
func (op *CommitteeMemberUpdate) GetFee() types.Asset       { return op.Fee }
func (op *CommitteeMemberUpdate) SetFee(fee types.Asset)    { op.Fee = fee }
func (op *CommitteeMemberUpdate) IsFeeScalable() bool       { return true }

func (op *CommitteeMemberUpdate) String() string {
	return fmt.Sprintf("COMMITTEE_MEMBER_UPDATE member: %s account: %s", op.CommitteeMember, op.CommitteeMemberAccount)
}

func (op *CommitteeMemberUpdate) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.NewURL != nil && len(*op.NewURL) > types.MaxURLLength {
		return code.NewInvalidOperation("url is longer than %d", types.MaxURLLength)
	}
	return nil
}

func (op *CommitteeMemberUpdate) CalculateFee(params fees.Parameters, _ fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.CommitteeMemberUpdateParameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}
	return p.Fee, nil
}

// CommitteeMemberUpdateGlobalParameters stages new chain parameters for the next maintenance.
// It is only valid inside a proposed transaction.
type CommitteeMemberUpdateGlobalParameters struct {
	Fee           types.Asset
	NewParameters ChainParameters
}

func (op *CommitteeMemberUpdateGlobalParameters) Type() types.OpType {
	return types.TypeCommitteeMemberUpdateGlobalParameters
}
func (op *CommitteeMemberUpdateGlobalParameters) FeePayer() types.AccountID {
	return types.CommitteeAccount
}
func (op *CommitteeMemberUpdateGlobalParameters) GetFee() types.Asset    { return op.Fee }
func (op *CommitteeMemberUpdateGlobalParameters) SetFee(fee types.Asset) { op.Fee = fee }
func (op *CommitteeMemberUpdateGlobalParameters) IsFeeScalable() bool    { return true }

func (op *CommitteeMemberUpdateGlobalParameters) String() string {
	return "COMMITTEE_MEMBER_UPDATE_GLOBAL_PARAMETERS"
}

func (op *CommitteeMemberUpdateGlobalParameters) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if err := op.NewParameters.Validate(); err != nil {
		return code.NewInvalidOperation("invalid chain parameters: %s", err)
	}
	return nil
}

func (op *CommitteeMemberUpdateGlobalParameters) CalculateFee(params fees.Parameters, _ fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.CommitteeMemberUpdateGlobalParametersParameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}
	return p.Fee, nil
}

// CommitteeMemberUpdateCoreAsset sets the market fee options of the core asset.
// It is only valid inside a proposed transaction.
type CommitteeMemberUpdateCoreAsset struct {
	Fee        types.Asset
	NewOptions AssetOptions
}

func (op *CommitteeMemberUpdateCoreAsset) Type() types.OpType {
	return types.TypeCommitteeMemberUpdateCoreAsset
}
func (op *CommitteeMemberUpdateCoreAsset) FeePayer() types.AccountID { return types.CommitteeAccount }
func (op *CommitteeMemberUpdateCoreAsset) GetFee() types.Asset       { return op.Fee }
func (op *CommitteeMemberUpdateCoreAsset) SetFee(fee types.Asset)    { op.Fee = fee }
func (op *CommitteeMemberUpdateCoreAsset) IsFeeScalable() bool       { return true }

func (op *CommitteeMemberUpdateCoreAsset) String() string {
	return fmt.Sprintf("COMMITTEE_MEMBER_UPDATE_CORE_ASSET market fee: %d max: %d", op.NewOptions.MarketFeePercent, op.NewOptions.MaxMarketFee)
}

func (op *CommitteeMemberUpdateCoreAsset) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.NewOptions.MarketFeePercent > types.Percent100 {
		return code.NewInvalidOperation("market fee percent %d exceeds 100%%", op.NewOptions.MarketFeePercent)
	}
	if op.NewOptions.MaxMarketFee < 0 || op.NewOptions.MaxMarketFee > types.MaxShareSupply {
		return code.NewInvalidOperation("max market fee %d out of range", op.NewOptions.MaxMarketFee)
	}
	return nil
}

func (op *CommitteeMemberUpdateCoreAsset) CalculateFee(params fees.Parameters, _ fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.CommitteeMemberUpdateCoreAssetParameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}
	return p.Fee, nil
}
