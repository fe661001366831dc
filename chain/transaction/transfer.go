package transaction

import (
	"strconv"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state"
	"github.com/cryptonomex/graphene/chain/state/accounts"
	"github.com/cryptonomex/graphene/chain/state/assets"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/upgrades"
)

// checkTransfer runs the checks shared by every transfer kind and returns the balance moves.
// Issuer overrides ignore the transfer restriction of the asset.
func checkTransfer(ctx *Context, from, to types.AccountID, amount types.Asset, override bool) (Applier, error) {
	fromAccount := ctx.Accounts().Get(from)
	if fromAccount == nil {
		return nil, code.NewObjectNotFound("from account", from.String())
	}
	toAccount := ctx.Accounts().Get(to)
	if toAccount == nil {
		return nil, code.NewObjectNotFound("to account", to.String())
	}
	asset, err := transferredAsset(ctx, amount)
	if err != nil {
		return nil, err
	}

	if !isAuthorizedAsset(ctx, fromAccount, asset) {
		return nil, code.NewTransferFromAccountNotWhitelisted(from.String(), asset.ID.String())
	}
	if !isAuthorizedAsset(ctx, toAccount, asset) {
		return nil, code.NewTransferToAccountNotWhitelisted(to.String(), asset.ID.String())
	}
	if !override && asset.IsTransferRestricted() && from != asset.Issuer && to != asset.Issuer {
		return nil, code.NewTransferRestrictedAsset(asset.ID.String())
	}

	if balance := ctx.Accounts().GetBalance(from, amount.AssetID); balance < amount.Amount {
		return nil, code.NewInsufficientFunds(from.String(), strconv.FormatInt(amount.Amount, 10), strconv.FormatInt(balance, 10), amount.AssetID.String())
	}

	return ApplierFunc(func(ctx *Context, s *state.State) (protocol.Result, error) {
		return protocol.Result{}, moveBalance(s.Accounts, from, to, amount)
	}), nil
}

func moveBalance(a *accounts.Accounts, from, to types.AccountID, amount types.Asset) error {
	if err := a.AdjustBalance(from, types.NewAsset(-amount.Amount, amount.AssetID)); err != nil {
		return err
	}
	return a.AdjustBalance(to, amount)
}

func transferredAsset(ctx *Context, amount types.Asset) (*assets.Model, error) {
	asset := ctx.Assets().Get(amount.AssetID)
	if asset == nil {
		return nil, code.NewObjectNotFound("asset", amount.AssetID.String())
	}
	return asset, nil
}

type TransferEvaluator struct{}

func (e *TransferEvaluator) OpType() types.OpType { return types.TypeTransfer }

func (e *TransferEvaluator) ExtendedContext(ctx *Context, op protocol.Operation) (fees.ExtendedContext, error) {
	o, ok := op.(*protocol.Transfer)
	if !ok {
		return fees.ExtendedContext{}, wrongOperation(e, op)
	}
	asset, err := transferredAsset(ctx, o.Amount)
	if err != nil {
		return fees.ExtendedContext{}, err
	}
	return fees.ExtendedContext{TransferFeeMode: asset.TransferFeeMode()}, nil
}

func (e *TransferEvaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.Transfer)
	if !ok {
		return nil, wrongOperation(e, op)
	}
	return checkTransfer(ctx, o.From, o.To, o.Amount, false)
}

type TransferV2Evaluator struct{}

func (e *TransferV2Evaluator) OpType() types.OpType { return types.TypeTransferV2 }

func (e *TransferV2Evaluator) ExtendedContext(ctx *Context, op protocol.Operation) (fees.ExtendedContext, error) {
	o, ok := op.(*protocol.TransferV2)
	if !ok {
		return fees.ExtendedContext{}, wrongOperation(e, op)
	}
	asset, err := transferredAsset(ctx, o.Amount)
	if err != nil {
		return fees.ExtendedContext{}, err
	}
	return fees.ExtendedContext{
		Scale:            ctx.App().FeeSchedule().Scale,
		TransferFeeMode:  asset.TransferFeeMode(),
		CoreExchangeRate: asset.Options.CoreExchangeRate,
	}, nil
}

func (e *TransferV2Evaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.TransferV2)
	if !ok {
		return nil, wrongOperation(e, op)
	}
	if !upgrades.IsActive(upgrades.TransferFeeModesTime, ctx.Now) {
		return nil, code.NewHardforkNotActive(o.Type().String(), upgrades.TransferFeeModesTime.String())
	}
	return checkTransfer(ctx, o.From, o.To, o.Amount, false)
}

// PayFee books the part of a percentage mode fee above the scaled minimum straight to the network
func (e *TransferV2Evaluator) PayFee(ctx *Context, s *state.State, op protocol.Operation) error {
	o, ok := op.(*protocol.TransferV2)
	if !ok {
		return wrongOperation(e, op)
	}

	asset := s.Assets.Get(o.Amount.AssetID)
	if asset.TransferFeeMode() != types.TransferFeeModePercentage {
		return payFee(s, ctx.Fee, ctx.Params)
	}

	ext, err := e.ExtendedContext(ctx, op)
	if err != nil {
		return err
	}
	schedule := s.App.FeeSchedule()
	minFee := int64(o.MinimumFee(schedule.Get(o.Type()), ext))
	threshold := ctx.Params.CashbackVestingThreshold

	return s.Accounts.ModifyStatistics(ctx.Fee.Payer, func(st *accounts.Statistics) {
		st.PayFeePreSplitNetwork(ctx.Fee.CoreFeePaid, threshold, minFee)
	})
}

type OverrideTransferEvaluator struct{}

func (e *OverrideTransferEvaluator) OpType() types.OpType { return types.TypeOverrideTransfer }

func (e *OverrideTransferEvaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.OverrideTransfer)
	if !ok {
		return nil, wrongOperation(e, op)
	}

	asset, err := transferredAsset(ctx, o.Amount)
	if err != nil {
		return nil, err
	}
	if !asset.CanOverride() {
		return nil, code.NewOverrideTransferNotPermitted(asset.ID.String())
	}
	if asset.Issuer != o.Issuer {
		return nil, code.NewIsNotAssetIssuer(o.Issuer.String(), asset.ID.String())
	}

	return checkTransfer(ctx, o.From, o.To, o.Amount, true)
}
