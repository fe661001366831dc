package state

import (
	"testing"
	"time"

	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state/accounts"
	"github.com/cryptonomex/graphene/chain/state/app"
	"github.com/cryptonomex/graphene/chain/state/assets"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/genesis"
	"github.com/stretchr/testify/require"
	db "github.com/tendermint/tm-db"
)

func newGenesisState(t *testing.T) (*State, db.DB) {
	t.Helper()

	memDB := db.NewMemDB()
	s, err := NewState(0, memDB, 1024, 1, 0)
	require.NoError(t, err)
	require.NoError(t, s.Import(genesis.Default()))

	return s, memDB
}

func TestImport(t *testing.T) {
	s, _ := newGenesisState(t)

	for i, name := range genesis.SpecialAccountNames {
		account := s.Accounts.GetByName(name)
		require.NotNil(t, account, name)
		require.Equal(t, types.AccountID(i), account.ID)
		require.True(t, account.IsLifetimeMember())
	}

	init0 := s.Accounts.GetByName("init0")
	require.NotNil(t, init0)
	require.Equal(t, types.ProxyToSelfAccount+1, init0.ID)
	require.Equal(t, init0.ID, init0.Referrer)
	require.Equal(t, 1000000*types.BlockchainPrecision, s.Accounts.GetBalance(init0.ID, types.CoreAsset))
	require.Equal(t, 1000000*types.BlockchainPrecision, s.Assets.DynamicData(types.CoreAsset).CurrentSupply)
	require.Equal(t, genesis.CoreSymbol, s.Assets.Get(types.CoreAsset).Symbol)

	require.Equal(t, 1, s.Committee.MembersCount())
	member := s.Committee.GetMemberByVoteID(types.NewVoteID(types.VoteCommittee, 0))
	require.NotNil(t, member)
	require.Equal(t, init0.ID, member.Account)
	require.Equal(t, uint32(1), s.App.NextAvailableVoteID())
}

func TestCommitAndReload(t *testing.T) {
	s, memDB := newGenesisState(t)

	_, err := s.Commit()
	require.NoError(t, err)
	require.Equal(t, int64(1), s.Height())

	init0 := s.Accounts.GetByName("init0").ID
	require.NoError(t, s.Accounts.AdjustBalance(init0, types.CoreAmount(-500)))
	require.NoError(t, s.Assets.ModifyDynamicData(types.CoreAsset, func(d *assets.DynamicData) { d.CurrentSupply -= 500 }))
	require.NoError(t, s.Check())
	_, err = s.Commit()
	require.NoError(t, err)

	reloaded, err := NewState(2, memDB, 1024, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 1000000*types.BlockchainPrecision-500, reloaded.Accounts.GetBalance(init0, types.CoreAsset))
	require.Equal(t, "init0", reloaded.Accounts.Get(init0).Name)
	require.Equal(t, 1, reloaded.Committee.MembersCount())

	checkState, err := NewCheckStateAtHeight(1, memDB)
	require.NoError(t, err)
	require.Equal(t, 1000000*types.BlockchainPrecision, checkState.Accounts().GetBalance(init0, types.CoreAsset))
}

func TestRevertToSnapshot(t *testing.T) {
	s, _ := newGenesisState(t)
	init0 := s.Accounts.GetByName("init0").ID
	nextAccount := s.App.NextInstance(types.AccountObjectType)

	snapshot := s.Snapshot()
	require.NoError(t, s.Accounts.AdjustBalance(init0, types.CoreAmount(-100)))
	created := s.Accounts.Create(func(m *accounts.Model) { m.Name = "bob" })
	require.NoError(t, s.Accounts.AdjustBalance(created.ID, types.CoreAmount(100)))
	s.App.ModifyDynamic(func(d *app.DynamicProperties) { d.AccountsRegisteredThisInterval++ })
	require.NoError(t, s.Check())

	s.RevertToSnapshot(snapshot)

	require.Equal(t, 1000000*types.BlockchainPrecision, s.Accounts.GetBalance(init0, types.CoreAsset))
	require.Nil(t, s.Accounts.GetByName("bob"))
	require.False(t, s.Accounts.Exists(created.ID))
	require.Equal(t, nextAccount, s.App.NextInstance(types.AccountObjectType))
	require.Zero(t, s.App.DynamicProperties().AccountsRegisteredThisInterval)
	require.NoError(t, s.Check())
}

func TestCheckDetectsUnbackedBalance(t *testing.T) {
	s, _ := newGenesisState(t)

	require.NoError(t, s.Accounts.AdjustBalance(types.ProxyToSelfAccount+1, types.CoreAmount(1)))
	require.Error(t, s.Check())
}

func TestProcessFees(t *testing.T) {
	s, _ := newGenesisState(t)
	init0 := s.Accounts.GetByName("init0").ID

	// init0 paid a fee of 1000 that sits in its pending fees
	require.NoError(t, s.Accounts.AdjustBalance(init0, types.CoreAmount(-1000)))
	require.NoError(t, s.Accounts.ModifyStatistics(init0, func(st *accounts.Statistics) { st.PendingFees += 1000 }))
	require.NoError(t, s.Check())

	require.NoError(t, s.ProcessFees(init0))

	stats := s.Accounts.Statistics(init0)
	require.Zero(t, stats.PendingFees)
	require.Equal(t, int64(1000), stats.LifetimeFeesPaid)
	// 80% goes back to init0 as its own lifetime referrer
	require.Equal(t, int64(800), stats.CashbackVesting)

	core := s.Assets.DynamicData(types.CoreAsset)
	// network cut 200, of which 20% is burned
	require.Equal(t, int64(160), core.AccumulatedFees)
	require.Equal(t, 1000000*types.BlockchainPrecision-40, core.CurrentSupply)
	require.NoError(t, s.Check())
}

func TestProcessFeesSplitsReferral(t *testing.T) {
	s, _ := newGenesisState(t)
	init0 := s.Accounts.GetByName("init0").ID

	bob := s.Accounts.Create(func(m *accounts.Model) {
		m.Name = "bob"
		m.Registrar = init0
		m.Referrer = init0
		m.LifetimeReferrer = init0
		m.NetworkFeePercentage = 20 * types.Percent1
		m.LifetimeReferrerFeePercentage = 30 * types.Percent1
		m.ReferrerRewardsPercentage = 50 * types.Percent1
	}).ID
	require.NoError(t, s.Accounts.AdjustBalance(init0, types.CoreAmount(-2000)))
	require.NoError(t, s.Accounts.ModifyStatistics(bob, func(st *accounts.Statistics) {
		st.PendingFees += 1000
		st.PendingVestedFees += 1000
	}))

	require.NoError(t, s.ProcessFees(bob))

	// per bucket: network 200, lifetime 300, referrer 250, registrar 250, all of the rest to init0
	stats := s.Accounts.Statistics(init0)
	require.Equal(t, int64(800), stats.CashbackVesting)
	require.Equal(t, int64(800), stats.CashbackLiquid)
	require.Equal(t, int64(2000), s.Accounts.Statistics(bob).LifetimeFeesPaid)
	require.NoError(t, s.Check())
}

func TestProcessFeesBurnsSpecialAccountCashback(t *testing.T) {
	s, _ := newGenesisState(t)
	init0 := s.Accounts.GetByName("init0").ID

	bob := s.Accounts.Create(func(m *accounts.Model) {
		m.Name = "bob"
		m.Registrar = types.CommitteeAccount
		m.Referrer = types.CommitteeAccount
		m.LifetimeReferrer = types.CommitteeAccount
		m.NetworkFeePercentage = 20 * types.Percent1
		m.LifetimeReferrerFeePercentage = 30 * types.Percent1
	}).ID
	require.NoError(t, s.Accounts.AdjustBalance(init0, types.CoreAmount(-1000)))
	require.NoError(t, s.Accounts.ModifyStatistics(bob, func(st *accounts.Statistics) { st.PendingFees += 1000 }))

	supply := s.Assets.DynamicData(types.CoreAsset).CurrentSupply
	require.NoError(t, s.ProcessFees(bob))

	// 40 reserve plus 800 cashback are burned
	require.Equal(t, supply-840, s.Assets.DynamicData(types.CoreAsset).CurrentSupply)
	require.NoError(t, s.Check())
}

func TestPerformMaintenance(t *testing.T) {
	s, _ := newGenesisState(t)
	interval := time.Duration(s.App.Parameters().MaintenanceInterval) * time.Second

	s.App.ModifyDynamic(func(d *app.DynamicProperties) { d.AccountsRegisteredThisInterval = 7 })
	pending := protocol.DefaultChainParameters()
	pending.MaximumWitnessCount = 11
	s.App.SetPendingParameters(pending)

	next := s.App.DynamicProperties().NextMaintenanceTime
	require.False(t, s.IsMaintenanceDue())
	s.SetBlock(10, next.Add(time.Second))
	require.True(t, s.IsMaintenanceDue())
	require.NoError(t, s.PerformMaintenance())

	require.Equal(t, uint16(11), s.App.Parameters().MaximumWitnessCount)
	require.Nil(t, s.App.GlobalProperties().PendingParameters)
	require.Zero(t, s.App.DynamicProperties().AccountsRegisteredThisInterval)
	require.True(t, s.App.DynamicProperties().NextMaintenanceTime.Equal(next.Add(interval)))
	require.False(t, s.IsMaintenanceDue())
}

func TestPerformMaintenanceSkipsMissedIntervals(t *testing.T) {
	s, _ := newGenesisState(t)
	interval := time.Duration(s.App.Parameters().MaintenanceInterval) * time.Second

	next := s.App.DynamicProperties().NextMaintenanceTime
	s.SetBlock(10, next.Add(3*interval+time.Second))
	require.NoError(t, s.PerformMaintenance())
	require.True(t, s.App.DynamicProperties().NextMaintenanceTime.Equal(next.Add(4*interval)))
}

func TestMaintenanceUndoesFeeScaling(t *testing.T) {
	s, _ := newGenesisState(t)

	params := s.App.Parameters()
	basicFee := params.CurrentFees.Get(types.TypeAccountCreate).(*fees.AccountCreateParameters).BasicFee

	s.App.ModifyGlobal(func(g *app.GlobalProperties) {
		p := g.Parameters.CurrentFees.Get(types.TypeAccountCreate).(*fees.AccountCreateParameters)
		p.BasicFee <<= 2 * params.AccountFeeScaleBitshifts
	})
	s.App.ModifyDynamic(func(d *app.DynamicProperties) {
		d.AccountsRegisteredThisInterval = 2*uint32(params.AccountsPerFeeScale) + 1
	})

	require.NoError(t, s.PerformMaintenance())
	require.Equal(t, basicFee, s.App.FeeSchedule().Get(types.TypeAccountCreate).(*fees.AccountCreateParameters).BasicFee)
}
