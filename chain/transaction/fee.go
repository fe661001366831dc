package transaction

import (
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state"
	"github.com/cryptonomex/graphene/chain/state/accounts"
	"github.com/cryptonomex/graphene/chain/state/assets"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/upgrades"
)

// Stage of one evaluation attempt, it only moves forward
type Stage uint8

const (
	StageCreated Stage = iota
	StageFeePrepared
	StageEvaluated
	StageApplied
	StageFeePaidWithoutApply
)

func (s Stage) String() string {
	switch s {
	case StageCreated:
		return "created"
	case StageFeePrepared:
		return "fee_prepared"
	case StageEvaluated:
		return "evaluated"
	case StageApplied:
		return "applied"
	case StageFeePaidWithoutApply:
		return "fee_paid_without_apply"
	}
	return "unknown"
}

// FeeContext is what fee preparation found during evaluation and fee payment consumes during apply
type FeeContext struct {
	Stage Stage

	Payer types.AccountID
	// Fee is the fee as declared by the operation, debited from the payer
	Fee types.Asset
	// CoreFeePaid is Fee converted into the core asset
	CoreFeePaid int64

	// CoinSecondsEarned is the payer's coin-seconds at head time, truncated to the membership cap
	CoinSecondsEarned             *big.Int
	CoinSecondsRate               int64
	MaxFeesPayableWithCoinSeconds int64
	FeesPaidWithCoinSeconds       int64
}

func (f *FeeContext) advance(to Stage) {
	if to < f.Stage {
		panic(fmt.Sprintf("evaluation stage can not go back from %s to %s", f.Stage, to))
	}
	f.Stage = to
}

// prepareFee resolves the payer and the fee asset and converts the fee into the core asset
func prepareFee(ctx *Context, payer types.AccountID, fee types.Asset) (FeeContext, error) {
	result := FeeContext{Payer: payer, Fee: fee}

	if fee.Amount < 0 {
		return result, code.NewNegativeFee(fee.String())
	}

	account := ctx.Accounts().Get(payer)
	if account == nil {
		return result, code.NewObjectNotFound("fee paying account", payer.String())
	}
	if ctx.Accounts().Statistics(payer) == nil {
		return result, code.NewObjectNotFound("account statistics", payer.String())
	}
	asset := ctx.Assets().Get(fee.AssetID)
	if asset == nil {
		return result, code.NewObjectNotFound("fee asset", fee.AssetID.String())
	}

	if upgrades.IsActive(upgrades.FeeAssetAuthTime, ctx.Now) && !isAuthorizedAsset(ctx, account, asset) {
		return result, code.NewUnauthorizedFeeAsset(payer.String(), fee.AssetID.String())
	}

	if fee.AssetID == types.CoreAsset {
		result.CoreFeePaid = fee.Amount
	} else {
		rate := asset.Options.CoreExchangeRate
		if rate.IsZero() {
			rate = types.UnitPrice(asset.ID)
		}
		coreFee, err := fee.Mul(rate)
		if err != nil {
			return result, code.NewFeeOverflow(err.Error())
		}
		pool := ctx.Assets().DynamicData(asset.ID).FeePool
		if coreFee.Amount > pool {
			return result, code.NewFeePoolNotSufficient(asset.ID.String(), strconv.FormatInt(pool, 10), strconv.FormatInt(coreFee.Amount, 10))
		}
		result.CoreFeePaid = coreFee.Amount
	}

	result.advance(StageFeePrepared)
	return result, nil
}

// prepareFeeFromCoinSeconds computes how much of the fee of kind t the payer may cover with coin-seconds
func prepareFeeFromCoinSeconds(ctx *Context, t types.OpType, fee *FeeContext) {
	opts := ctx.Params.CoinSecondsOptions()
	maxOpFee := opts.MaxFeeFor(t)
	if maxOpFee <= 0 {
		return
	}

	account := ctx.Accounts().Get(fee.Payer)
	stats := ctx.Accounts().Statistics(fee.Payer)
	balance := ctx.Accounts().GetBalance(fee.Payer, types.CoreAsset)

	earned := stats.ComputeCoinSecondsEarned(balance, ctx.Now)
	if earned.Sign() <= 0 {
		return
	}

	membership := account.Membership(ctx.Now)
	rate := opts.RateFor(membership)
	if rate <= 0 {
		return
	}

	bigRate := big.NewInt(rate)
	accumulated := new(big.Int).Quo(earned, bigRate)
	if maxAccumulated := big.NewInt(opts.MaxAccumulatedFor(membership)); accumulated.Cmp(maxAccumulated) > 0 {
		accumulated = maxAccumulated
		earned = new(big.Int).Mul(maxAccumulated, bigRate)
	}

	payable := maxOpFee
	if accumulated.Cmp(big.NewInt(maxOpFee)) < 0 {
		payable = accumulated.Int64()
	}

	fee.CoinSecondsEarned = earned
	fee.CoinSecondsRate = rate
	fee.MaxFeesPayableWithCoinSeconds = payable
}

// requiredFee is the fee of op in the core asset under the current schedule
func requiredFee(ctx *Context, ev Evaluator, op protocol.Operation) (int64, error) {
	var ext fees.ExtendedContext
	if extender, ok := ev.(feeExtender); ok {
		var err error
		if ext, err = extender.ExtendedContext(ctx, op); err != nil {
			return 0, err
		}
	}

	required, err := ctx.App().FeeSchedule().CalculateFeeExtended(op, ext, types.UnitPrice(types.CoreAsset))
	if err != nil {
		return 0, err
	}
	return required.Amount, nil
}

// cover checks the fee paid reaches required, drawing the shortfall from coin-seconds
func (f *FeeContext) cover(required int64) error {
	if f.CoreFeePaid >= required {
		return nil
	}
	shortfall := required - f.CoreFeePaid
	if shortfall > f.MaxFeesPayableWithCoinSeconds {
		return code.NewInsufficientFee(strconv.FormatInt(required, 10), strconv.FormatInt(f.CoreFeePaid+f.MaxFeesPayableWithCoinSeconds, 10))
	}
	f.FeesPaidWithCoinSeconds = shortfall
	return nil
}

// convertFee moves a non-core fee into the accumulated fees of its asset and takes its core value from the fee pool
func convertFee(s *state.State, fee FeeContext) error {
	if fee.Fee.AssetID == types.CoreAsset {
		return nil
	}
	return s.Assets.ModifyDynamicData(fee.Fee.AssetID, func(d *assets.DynamicData) {
		d.AccumulatedFees += fee.Fee.Amount
		d.FeePool -= fee.CoreFeePaid
	})
}

// payFee books the core fee into the statistics of the payer
func payFee(s *state.State, fee FeeContext, params protocol.ChainParameters) error {
	return s.Accounts.ModifyStatistics(fee.Payer, func(st *accounts.Statistics) {
		st.PayFee(fee.CoreFeePaid, params.CashbackVestingThreshold)
	})
}

// payFeeWithCoinSeconds consumes the coin-seconds covering the fee shortfall
func payFeeWithCoinSeconds(s *state.State, fee FeeContext, now time.Time) error {
	if fee.FeesPaidWithCoinSeconds <= 0 {
		return nil
	}
	spent := new(big.Int).Mul(big.NewInt(fee.FeesPaidWithCoinSeconds), big.NewInt(fee.CoinSecondsRate))
	left := new(big.Int).Sub(fee.CoinSecondsEarned, spent)
	if left.Sign() < 0 {
		left.SetInt64(0)
	}
	return s.Accounts.ModifyStatistics(fee.Payer, func(st *accounts.Statistics) {
		st.SetCoinSeconds(left, now)
	})
}

// isAuthorizedAsset reports whether account may hold and move asset under its whitelist rules
func isAuthorizedAsset(ctx *Context, account *accounts.Model, asset *assets.Model) bool {
	if !asset.EnforceWhiteList() {
		return true
	}

	for _, id := range account.BlacklistingAccounts {
		if containsID(asset.Options.BlacklistAuthorities, id) {
			return false
		}
	}

	if upgrades.IsActive(upgrades.EmptyWhitelistTime, ctx.Now) && len(asset.Options.WhitelistAuthorities) == 0 {
		return true
	}

	for _, id := range account.WhitelistingAccounts {
		if containsID(asset.Options.WhitelistAuthorities, id) {
			return true
		}
	}

	return false
}

func containsID(set []types.AccountID, id types.AccountID) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}
