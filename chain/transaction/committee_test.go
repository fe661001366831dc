package transaction

import (
	"testing"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/upgrades"
	"github.com/stretchr/testify/require"
)

func runProposedTx(s *state.State, ops ...protocol.Operation) Response {
	return NewExecutor().RunTx(s, &protocol.Transaction{Operations: ops}, true)
}

func TestCommitteeMemberCreate(t *testing.T) {
	s := getState(t)
	setFees(s)
	alice := createAccount(t, s, "alice", 0)

	response := runTx(s, &protocol.CommitteeMemberCreate{Fee: types.CoreAmount(0), CommitteeMemberAccount: alice})
	requireCode(t, code.NotLifetimeMember, response)
	require.Equal(t, 1, s.Committee.MembersCount())

	response = runTx(s, &protocol.CommitteeMemberCreate{Fee: types.CoreAmount(0), CommitteeMemberAccount: initAccount, URL: "https://init0.example"})
	requireCode(t, code.OK, response)
	require.Equal(t, 2, s.Committee.MembersCount())
	require.Equal(t, uint32(2), s.App.NextAvailableVoteID())

	id := types.CommitteeMemberID(response.Results[0].NewObject.Instance)
	member := s.Committee.GetMember(id)
	require.Equal(t, initAccount, member.Account)
	require.Equal(t, "https://init0.example", member.URL)
	require.Equal(t, types.CommitteeAccount, member.CommitteeAccount)
	require.Equal(t, types.NewVoteID(types.VoteCommittee, 1), member.VoteID)
	require.Equal(t, id, s.Committee.GetMemberByVoteID(member.VoteID).ID)
}

func TestCommitteeMemberUpdate(t *testing.T) {
	s := getState(t)
	setFees(s)
	alice := createAccount(t, s, "alice", 0)
	member := s.Committee.GetMemberByVoteID(types.NewVoteID(types.VoteCommittee, 0))

	url := "https://new.example"
	update := &protocol.CommitteeMemberUpdate{Fee: types.CoreAmount(0), CommitteeMember: member.ID, CommitteeMemberAccount: alice, NewURL: &url}
	requireCode(t, code.CommitteeMemberAccountMismatch, runTx(s, update))

	update.CommitteeMemberAccount = initAccount
	requireCode(t, code.OK, runTx(s, update))
	require.Equal(t, url, s.Committee.GetMember(member.ID).URL)

	update.NewURL = nil
	requireCode(t, code.OK, runTx(s, update))
	require.Equal(t, url, s.Committee.GetMember(member.ID).URL)

	update.CommitteeMember = 100
	requireCode(t, code.ObjectNotFound, runTx(s, update))
}

func TestUpdateGlobalParameters(t *testing.T) {
	s := getState(t)
	setFees(s)

	params := protocol.DefaultChainParameters()
	params.MaximumWitnessCount = 7
	op := &protocol.CommitteeMemberUpdateGlobalParameters{Fee: types.CoreAmount(0), NewParameters: params}

	requireCode(t, code.NotProposed, runTx(s, op))
	require.Nil(t, s.App.GlobalProperties().PendingParameters)

	requireCode(t, code.OK, runProposedTx(s, op))
	pending := s.App.GlobalProperties().PendingParameters
	require.NotNil(t, pending)
	require.Equal(t, uint16(7), pending.MaximumWitnessCount)
	require.Equal(t, uint16(1001), s.App.Parameters().MaximumWitnessCount)
}

func TestUpdateGlobalParametersCoinSecondsActivation(t *testing.T) {
	s := getState(t)
	setFees(s)

	params := protocol.DefaultChainParameters()
	params.Extensions.CoinSecondsAsFeesOptions = protocol.DefaultCoinSecondsAsFeesOptions()
	op := &protocol.CommitteeMemberUpdateGlobalParameters{Fee: types.CoreAmount(0), NewParameters: params}

	s.SetBlock(1, upgrades.CoinSecondsFeesTime)
	requireCode(t, code.HardforkNotActive, runProposedTx(s, op))

	params.Extensions.CoinSecondsAsFeesOptions = nil
	op.NewParameters = params
	requireCode(t, code.OK, runProposedTx(s, op))
}

func TestUpdateCoreAsset(t *testing.T) {
	s := getState(t)
	setFees(s)

	op := &protocol.CommitteeMemberUpdateCoreAsset{
		Fee: types.CoreAmount(0),
		NewOptions: protocol.AssetOptions{
			MarketFeePercent: 5 * types.Percent1,
			MaxMarketFee:     1000,
			Flags:            protocol.PercentageTransferFee,
		},
	}
	requireCode(t, code.NotProposed, runTx(s, op))

	requireCode(t, code.OK, runProposedTx(s, op))
	core := s.Assets.Get(types.CoreAsset)
	require.Equal(t, uint16(5*types.Percent1), core.Options.MarketFeePercent)
	require.Equal(t, int64(1000), core.Options.MaxMarketFee)
	require.Equal(t, types.TransferFeeModePercentage, core.TransferFeeMode())
	require.Equal(t, types.MaxShareSupply, core.Options.MaxSupply)

	s.SetBlock(2, upgrades.TransferFeeModesTime)
	requireCode(t, code.HardforkNotActive, runProposedTx(s, op))
}
