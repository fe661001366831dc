package protocol

import (
	"fmt"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/helpers"
)

// Memo is an encrypted message attached to a transfer
type Memo struct {
	From    types.PublicKey
	To      types.PublicKey
	Nonce   uint64
	Message []byte
}

func (m *Memo) Validate() error {
	if len(m.From) != 0 {
		if err := m.From.Validate(); err != nil {
			return err
		}
	}
	if len(m.To) != 0 {
		if err := m.To.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func memoDataFee(memo *Memo, pricePerKByte uint32) uint64 {
	if memo == nil {
		return 0
	}
	return fees.CalculateDataFee(PackSize(memo), uint64(pricePerKByte))
}

func validateTransfer(fee types.Asset, from, to types.AccountID, amount types.Asset, memo *Memo) error {
	if err := validateFee(fee); err != nil {
		return err
	}
	if from == to {
		return code.NewInvalidOperation("can not transfer to the same account %s", from)
	}
	if amount.Amount <= 0 {
		return code.NewInvalidOperation("transfer amount %s must be positive", amount)
	}
	if memo != nil {
		if err := memo.Validate(); err != nil {
			return code.NewInvalidOperation("invalid memo: %s", err)
		}
	}
	return nil
}

// Transfer moves Amount from From to To, charging a flat fee plus a memo surcharge
type Transfer struct {
	Fee    types.Asset
	From   types.AccountID
	To     types.AccountID
	Amount types.Asset
	Memo   *Memo
}

func (op *Transfer) Type() types.OpType        { return types.TypeTransfer }
func (op *Transfer) FeePayer() types.AccountID { return op.From }
func (op *Transfer) GetFee() types.Asset       { return op.Fee }
func (op *Transfer) SetFee(fee types.Asset)    { op.Fee = fee }
func (op *Transfer) IsFeeScalable() bool       { return true }

func (op *Transfer) String() string {
	return fmt.Sprintf("TRANSFER from: %s to: %s amount: %s", op.From, op.To, op.Amount)
}

func (op *Transfer) Validate() error {
	return validateTransfer(op.Fee, op.From, op.To, op.Amount, op.Memo)
}

func (op *Transfer) CalculateFee(params fees.Parameters, ext fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.TransferParameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}
	if ext.TransferFeeMode != types.TransferFeeModeFlat {
		return 0, code.NewUnsupportedFeeMode(op.Type().String(), ext.TransferFeeMode.String())
	}
	return p.Fee + memoDataFee(op.Memo, p.PricePerKByte), nil
}

// TransferV2 is a transfer charged according to the transfer fee mode of the asset
type TransferV2 struct {
	Fee    types.Asset
	From   types.AccountID
	To     types.AccountID
	Amount types.Asset
	Memo   *Memo
}

func (op *TransferV2) Type() types.OpType        { return types.TypeTransferV2 }
func (op *TransferV2) FeePayer() types.AccountID { return op.From }
func (op *TransferV2) GetFee() types.Asset       { return op.Fee }
func (op *TransferV2) SetFee(fee types.Asset)    { op.Fee = fee }

// IsFeeScalable is false, the schedule scale is applied inside CalculateFee
func (op *TransferV2) IsFeeScalable() bool { return false }

func (op *TransferV2) String() string {
	return fmt.Sprintf("TRANSFER_V2 from: %s to: %s amount: %s", op.From, op.To, op.Amount)
}

func (op *TransferV2) Validate() error {
	return validateTransfer(op.Fee, op.From, op.To, op.Amount, op.Memo)
}

func (op *TransferV2) CalculateFee(params fees.Parameters, ext fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.TransferV2Parameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}

	scale := uint64(ext.ScaleOrDefault())
	var fee uint64
	switch ext.TransferFeeMode {
	case types.TransferFeeModeFlat:
		fee = helpers.MulDiv(p.FlatFee, scale, types.Percent100)
	case types.TransferFeeModePercentage:
		core, err := op.Amount.Mul(ext.RateFor(op.Amount.AssetID))
		if err != nil {
			return 0, code.NewFeeOverflow(err.Error())
		}
		fee = helpers.MulDiv(uint64(core.Amount), uint64(p.Percentage), types.Percent100)

		minFee := helpers.MulDiv(p.PercentageMinFee, scale, types.Percent100)
		maxFee := helpers.MulDiv(p.PercentageMaxFee, scale, types.Percent100)
		if fee < minFee {
			fee = minFee
		}
		if fee > maxFee {
			fee = maxFee
		}
	default:
		return 0, code.NewUnsupportedFeeMode(op.Type().String(), ext.TransferFeeMode.String())
	}

	return fee + helpers.MulDiv(memoDataFee(op.Memo, p.PricePerKByte), scale, types.Percent100), nil
}

// MinimumFee is the scaled lower bound of a percentage mode fee
func (op *TransferV2) MinimumFee(params fees.Parameters, ext fees.ExtendedContext) uint64 {
	p, ok := params.(*fees.TransferV2Parameters)
	if !ok {
		return 0
	}
	return helpers.MulDiv(p.PercentageMinFee, uint64(ext.ScaleOrDefault()), types.Percent100)
}

// OverrideTransfer lets an asset issuer move the asset between any two accounts
type OverrideTransfer struct {
	Fee    types.Asset
	Issuer types.AccountID
	From   types.AccountID
	To     types.AccountID
	Amount types.Asset
	Memo   *Memo
}

func (op *OverrideTransfer) Type() types.OpType        { return types.TypeOverrideTransfer }
func (op *OverrideTransfer) FeePayer() types.AccountID { return op.Issuer }
func (op *OverrideTransfer) GetFee() types.Asset       { return op.Fee }
func (op *OverrideTransfer) SetFee(fee types.Asset)    { op.Fee = fee }
func (op *OverrideTransfer) IsFeeScalable() bool       { return true }

func (op *OverrideTransfer) String() string {
	return fmt.Sprintf("OVERRIDE_TRANSFER issuer: %s from: %s to: %s amount: %s", op.Issuer, op.From, op.To, op.Amount)
}

func (op *OverrideTransfer) Validate() error {
	if err := validateTransfer(op.Fee, op.From, op.To, op.Amount, op.Memo); err != nil {
		return err
	}
	if op.Issuer == op.From {
		return code.NewInvalidOperation("issuer %s can not override a transfer from itself", op.Issuer)
	}
	return nil
}

func (op *OverrideTransfer) CalculateFee(params fees.Parameters, _ fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.OverrideTransferParameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}
	return p.Fee + memoDataFee(op.Memo, p.PricePerKByte), nil
}
