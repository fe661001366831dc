package transaction

import (
	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state"
	"github.com/cryptonomex/graphene/chain/state/assets"
	"github.com/cryptonomex/graphene/chain/state/committee"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/upgrades"
)

type CommitteeMemberCreateEvaluator struct{}

func (e *CommitteeMemberCreateEvaluator) OpType() types.OpType {
	return types.TypeCommitteeMemberCreate
}

func (e *CommitteeMemberCreateEvaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.CommitteeMemberCreate)
	if !ok {
		return nil, wrongOperation(e, op)
	}

	account := ctx.Accounts().Get(o.CommitteeMemberAccount)
	if account == nil {
		return nil, code.NewObjectNotFound("committee member account", o.CommitteeMemberAccount.String())
	}
	if !account.IsLifetimeMember() {
		return nil, code.NewNotLifetimeMember(o.CommitteeMemberAccount.String(), account.Membership(ctx.Now).String())
	}

	return ApplierFunc(func(ctx *Context, s *state.State) (protocol.Result, error) {
		vote := s.App.AllocateVoteID(types.VoteCommittee)
		member := s.Committee.CreateMember(o.CommitteeMemberAccount, vote, o.URL, o.CommitteeAccount)
		return protocol.Result{NewObject: member.ID.ObjectID()}, nil
	}), nil
}

type CommitteeMemberUpdateEvaluator struct{}

func (e *CommitteeMemberUpdateEvaluator) OpType() types.OpType {
	return types.TypeCommitteeMemberUpdate
}

func (e *CommitteeMemberUpdateEvaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.CommitteeMemberUpdate)
	if !ok {
		return nil, wrongOperation(e, op)
	}

	member := ctx.Committee().GetMember(o.CommitteeMember)
	if member == nil {
		return nil, code.NewObjectNotFound("committee member", o.CommitteeMember.String())
	}
	if member.Account != o.CommitteeMemberAccount {
		return nil, code.NewCommitteeMemberAccountMismatch(o.CommitteeMemberAccount.String(), o.CommitteeMember.String())
	}

	return ApplierFunc(func(ctx *Context, s *state.State) (protocol.Result, error) {
		if o.NewURL == nil {
			return protocol.Result{}, nil
		}
		url := *o.NewURL
		return protocol.Result{}, s.Committee.ModifyMember(o.CommitteeMember, func(m *committee.Member) { m.URL = url })
	}), nil
}

type CommitteeMemberUpdateGlobalParametersEvaluator struct{}

func (e *CommitteeMemberUpdateGlobalParametersEvaluator) OpType() types.OpType {
	return types.TypeCommitteeMemberUpdateGlobalParameters
}

func (e *CommitteeMemberUpdateGlobalParametersEvaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.CommitteeMemberUpdateGlobalParameters)
	if !ok {
		return nil, wrongOperation(e, op)
	}

	if !ctx.Trx.IsProposed {
		return nil, code.NewNotProposed(o.Type().String())
	}
	if !upgrades.IsActive(upgrades.CoinSecondsFeesTime, ctx.Now) && o.NewParameters.Extensions.CoinSecondsAsFeesOptions != nil {
		return nil, code.NewHardforkNotActive("coin_seconds_as_fees_options", upgrades.CoinSecondsFeesTime.String())
	}

	params := o.NewParameters.Clone()
	return ApplierFunc(func(ctx *Context, s *state.State) (protocol.Result, error) {
		s.App.SetPendingParameters(params)
		return protocol.Result{}, nil
	}), nil
}

type CommitteeMemberUpdateCoreAssetEvaluator struct{}

func (e *CommitteeMemberUpdateCoreAssetEvaluator) OpType() types.OpType {
	return types.TypeCommitteeMemberUpdateCoreAsset
}

func (e *CommitteeMemberUpdateCoreAssetEvaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.CommitteeMemberUpdateCoreAsset)
	if !ok {
		return nil, wrongOperation(e, op)
	}

	if !ctx.Trx.IsProposed {
		return nil, code.NewNotProposed(o.Type().String())
	}
	if !upgrades.IsActive(upgrades.TransferFeeModesTime, ctx.Now) {
		return nil, code.NewHardforkNotActive(o.Type().String(), upgrades.TransferFeeModesTime.String())
	}

	return ApplierFunc(func(ctx *Context, s *state.State) (protocol.Result, error) {
		mode := o.NewOptions.TransferFeeMode()
		return protocol.Result{}, s.Assets.Modify(types.CoreAsset, func(m *assets.Model) {
			m.Options.MarketFeePercent = o.NewOptions.MarketFeePercent
			m.Options.MaxMarketFee = o.NewOptions.MaxMarketFee
			m.Options.SetTransferFeeMode(mode)
		})
	}), nil
}
