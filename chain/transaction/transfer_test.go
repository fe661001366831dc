package transaction

import (
	"testing"
	"time"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state"
	"github.com/cryptonomex/graphene/chain/state/app"
	"github.com/cryptonomex/graphene/chain/state/assets"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/upgrades"
	"github.com/stretchr/testify/require"
)

func TestTransfer(t *testing.T) {
	s := getState(t)
	setFees(s, &fees.TransferParameters{Fee: 20})
	alice := createAccount(t, s, "alice", 1000)
	bob := createAccount(t, s, "bob", 0)

	response := runTx(s, &protocol.Transfer{Fee: types.CoreAmount(20), From: alice, To: bob, Amount: types.CoreAmount(100)})
	requireCode(t, code.OK, response)

	require.Equal(t, int64(880), s.Accounts.GetBalance(alice, types.CoreAsset))
	require.Equal(t, int64(100), s.Accounts.GetBalance(bob, types.CoreAsset))
	require.Equal(t, int64(20), s.Accounts.Statistics(alice).PendingVestedFees)
	require.Zero(t, s.Accounts.Statistics(alice).PendingFees)
	require.NoError(t, s.Check())
}

func TestTransferInsufficientFee(t *testing.T) {
	s := getState(t)
	setFees(s, &fees.TransferParameters{Fee: 20})
	alice := createAccount(t, s, "alice", 1000)
	bob := createAccount(t, s, "bob", 0)

	response := runTx(s, &protocol.Transfer{Fee: types.CoreAmount(19), From: alice, To: bob, Amount: types.CoreAmount(100)})
	requireCode(t, code.InsufficientFee, response)
	require.Equal(t, int64(1000), s.Accounts.GetBalance(alice, types.CoreAsset))
}

func TestTransferInsufficientFunds(t *testing.T) {
	s := getState(t)
	setFees(s)
	alice := createAccount(t, s, "alice", 1000)
	bob := createAccount(t, s, "bob", 0)

	response := runTx(s, &protocol.Transfer{Fee: types.CoreAmount(0), From: alice, To: bob, Amount: types.CoreAmount(1001)})
	requireCode(t, code.InsufficientFunds, response)
}

func TestTransferUnknownAccount(t *testing.T) {
	s := getState(t)
	setFees(s)
	alice := createAccount(t, s, "alice", 1000)

	response := runTx(s, &protocol.Transfer{Fee: types.CoreAmount(0), From: alice, To: 1000, Amount: types.CoreAmount(1)})
	requireCode(t, code.ObjectNotFound, response)
}

func TestFeeInNonCoreAsset(t *testing.T) {
	s := getState(t)
	setFees(s, &fees.TransferParameters{Fee: 20})
	alice := createAccount(t, s, "alice", 0)
	bob := createAccount(t, s, "bob", 0)

	usd := createAsset(s, "USD", initAccount, 0)
	require.NoError(t, s.Assets.Modify(usd, func(m *assets.Model) {
		m.Options.CoreExchangeRate = types.Price{Base: types.NewAsset(2, usd), Quote: types.CoreAmount(1)}
	}))
	fundFeePool(t, s, usd, 100)
	issue(t, s, alice, types.NewAsset(1000, usd))

	response := runTx(s, &protocol.Transfer{Fee: types.NewAsset(40, usd), From: alice, To: bob, Amount: types.NewAsset(100, usd)})
	requireCode(t, code.OK, response)

	require.Equal(t, int64(860), s.Accounts.GetBalance(alice, usd))
	require.Equal(t, int64(100), s.Accounts.GetBalance(bob, usd))
	data := s.Assets.DynamicData(usd)
	require.Equal(t, int64(80), data.FeePool)
	require.Equal(t, int64(40), data.AccumulatedFees)
	require.Equal(t, int64(20), s.Accounts.Statistics(alice).PendingVestedFees)
	require.NoError(t, s.Check())

	t.Run("underpaid", func(t *testing.T) {
		response := runTx(s, &protocol.Transfer{Fee: types.NewAsset(39, usd), From: alice, To: bob, Amount: types.NewAsset(100, usd)})
		requireCode(t, code.InsufficientFee, response)
	})

	t.Run("empty pool", func(t *testing.T) {
		require.NoError(t, s.Assets.ModifyDynamicData(usd, func(d *assets.DynamicData) { d.FeePool = 10 }))
		response := runTx(s, &protocol.Transfer{Fee: types.NewAsset(40, usd), From: alice, To: bob, Amount: types.NewAsset(100, usd)})
		requireCode(t, code.FeePoolNotSufficient, response)
	})
}

// fundFeePool puts new core supply into the fee pool of asset
func fundFeePool(t *testing.T, s *state.State, asset types.AssetID, amount int64) {
	t.Helper()
	require.NoError(t, s.Assets.ModifyDynamicData(asset, func(d *assets.DynamicData) { d.FeePool += amount }))
	require.NoError(t, s.Assets.ModifyDynamicData(types.CoreAsset, func(d *assets.DynamicData) { d.CurrentSupply += amount }))
}

func TestUnauthorizedFeeAsset(t *testing.T) {
	s := getState(t)
	setFees(s)
	alice := createAccount(t, s, "alice", 0)
	bob := createAccount(t, s, "bob", 0)

	usd := createAsset(s, "USD", initAccount, protocol.WhiteList)
	require.NoError(t, s.Assets.Modify(usd, func(m *assets.Model) {
		m.Options.WhitelistAuthorities = []types.AccountID{initAccount}
	}))
	fundFeePool(t, s, usd, 100)
	issue(t, s, alice, types.NewAsset(1000, usd))

	response := runTx(s, &protocol.Transfer{Fee: types.NewAsset(1, usd), From: alice, To: bob, Amount: types.CoreAmount(1)})
	requireCode(t, code.UnauthorizedFeeAsset, response)
}

func TestWhitelistedTransfer(t *testing.T) {
	s := getState(t)
	setFees(s)
	alice := createAccount(t, s, "alice", 0)
	bob := createAccount(t, s, "bob", 0)

	usd := createAsset(s, "USD", initAccount, protocol.WhiteList)
	require.NoError(t, s.Assets.Modify(usd, func(m *assets.Model) {
		m.Options.WhitelistAuthorities = []types.AccountID{initAccount}
		m.Options.BlacklistAuthorities = []types.AccountID{initAccount}
	}))
	issue(t, s, alice, types.NewAsset(1000, usd))

	list := func(account types.AccountID, listing uint16) {
		t.Helper()
		requireCode(t, code.OK, runTx(s, &protocol.AccountWhitelist{
			Fee:                types.CoreAmount(0),
			AuthorizingAccount: initAccount,
			AccountToList:      account,
			NewListing:         listing,
		}))
	}
	transfer := func() Response {
		return runTx(s, &protocol.Transfer{Fee: types.CoreAmount(0), From: alice, To: bob, Amount: types.NewAsset(10, usd)})
	}

	requireCode(t, code.TransferFromAccountNotWhitelisted, transfer())

	list(alice, protocol.WhiteListed)
	requireCode(t, code.TransferToAccountNotWhitelisted, transfer())

	list(bob, protocol.WhiteListed)
	requireCode(t, code.OK, transfer())
	require.Equal(t, int64(10), s.Accounts.GetBalance(bob, usd))

	list(alice, protocol.WhiteAndBlackListed)
	requireCode(t, code.TransferFromAccountNotWhitelisted, transfer())
}

func TestEmptyWhitelistAuthorizesEveryone(t *testing.T) {
	s := getState(t)
	setFees(s)
	alice := createAccount(t, s, "alice", 0)
	bob := createAccount(t, s, "bob", 0)

	usd := createAsset(s, "USD", initAccount, protocol.WhiteList)
	issue(t, s, alice, types.NewAsset(1000, usd))

	response := runTx(s, &protocol.Transfer{Fee: types.CoreAmount(0), From: alice, To: bob, Amount: types.NewAsset(10, usd)})
	requireCode(t, code.OK, response)

	s.SetBlock(1, upgrades.EmptyWhitelistTime)
	response = runTx(s, &protocol.Transfer{Fee: types.CoreAmount(0), From: alice, To: bob, Amount: types.NewAsset(10, usd)})
	requireCode(t, code.TransferFromAccountNotWhitelisted, response)
}

func TestRestrictedTransfer(t *testing.T) {
	s := getState(t)
	setFees(s)
	alice := createAccount(t, s, "alice", 0)
	bob := createAccount(t, s, "bob", 0)

	gold := createAsset(s, "GOLD", initAccount, protocol.TransferRestricted)
	issue(t, s, initAccount, types.NewAsset(1000, gold))

	requireCode(t, code.OK, runTx(s, &protocol.Transfer{Fee: types.CoreAmount(0), From: initAccount, To: alice, Amount: types.NewAsset(100, gold)}))
	requireCode(t, code.TransferRestrictedAsset, runTx(s, &protocol.Transfer{Fee: types.CoreAmount(0), From: alice, To: bob, Amount: types.NewAsset(10, gold)}))
	requireCode(t, code.OK, runTx(s, &protocol.Transfer{Fee: types.CoreAmount(0), From: alice, To: initAccount, Amount: types.NewAsset(10, gold)}))

	require.Equal(t, int64(90), s.Accounts.GetBalance(alice, gold))
	require.NoError(t, s.Check())
}

func TestOverrideTransfer(t *testing.T) {
	s := getState(t)
	setFees(s, &fees.OverrideTransferParameters{Fee: 30})
	alice := createAccount(t, s, "alice", 0)
	bob := createAccount(t, s, "bob", 0)

	gold := createAsset(s, "GOLD", initAccount, protocol.OverrideAuthority|protocol.TransferRestricted)
	silver := createAsset(s, "SILVER", initAccount, 0)
	issue(t, s, alice, types.NewAsset(1000, gold))
	issue(t, s, alice, types.NewAsset(1000, silver))

	response := runTx(s, &protocol.OverrideTransfer{Fee: types.CoreAmount(30), Issuer: initAccount, From: alice, To: bob, Amount: types.NewAsset(400, gold)})
	requireCode(t, code.OK, response)
	require.Equal(t, int64(600), s.Accounts.GetBalance(alice, gold))
	require.Equal(t, int64(400), s.Accounts.GetBalance(bob, gold))
	require.Equal(t, int64(30), s.Accounts.Statistics(initAccount).PendingVestedFees)

	response = runTx(s, &protocol.OverrideTransfer{Fee: types.CoreAmount(30), Issuer: initAccount, From: alice, To: bob, Amount: types.NewAsset(1, silver)})
	requireCode(t, code.OverrideTransferNotPermitted, response)

	response = runTx(s, &protocol.OverrideTransfer{Fee: types.CoreAmount(0), Issuer: bob, From: alice, To: initAccount, Amount: types.NewAsset(1, gold)})
	requireCode(t, code.IsNotAssetIssuer, response)

	response = runTx(s, &protocol.OverrideTransfer{Fee: types.CoreAmount(30), Issuer: initAccount, From: alice, To: bob, Amount: types.NewAsset(601, gold)})
	requireCode(t, code.InsufficientFunds, response)

	require.NoError(t, s.Check())
}

func TestTransferV2PercentageMode(t *testing.T) {
	s := getState(t)
	setFees(s, &fees.TransferV2Parameters{FlatFee: 7, Percentage: 100, PercentageMinFee: 5, PercentageMaxFee: 1000})
	alice := createAccount(t, s, "alice", 30000)
	bob := createAccount(t, s, "bob", 0)

	op := &protocol.TransferV2{Fee: types.CoreAmount(7), From: alice, To: bob, Amount: types.CoreAmount(10000)}
	requireCode(t, code.OK, runTx(s, op))
	require.Equal(t, int64(7), s.Accounts.Statistics(alice).PendingVestedFees)
	require.Zero(t, s.Accounts.Statistics(alice).PendingNetworkFees)

	require.NoError(t, s.Assets.Modify(types.CoreAsset, func(m *assets.Model) {
		m.Options.SetTransferFeeMode(types.TransferFeeModePercentage)
	}))

	requireCode(t, code.InsufficientFee, runTx(s, op))

	op.Fee = types.CoreAmount(100)
	requireCode(t, code.OK, runTx(s, op))

	stats := s.Accounts.Statistics(alice)
	require.Equal(t, int64(95), stats.PendingNetworkFees)
	require.Equal(t, int64(12), stats.PendingVestedFees)
	require.Equal(t, int64(9893), s.Accounts.GetBalance(alice, types.CoreAsset))
	require.NoError(t, s.Check())
}

func TestTransferV2BeforeActivation(t *testing.T) {
	s := getState(t)
	setFees(s)
	alice := createAccount(t, s, "alice", 1000)
	bob := createAccount(t, s, "bob", 0)
	s.SetBlock(1, upgrades.TransferFeeModesTime)

	response := runTx(s, &protocol.TransferV2{Fee: types.CoreAmount(0), From: alice, To: bob, Amount: types.CoreAmount(1)})
	requireCode(t, code.HardforkNotActive, response)
}

func TestFeePaidWithCoinSeconds(t *testing.T) {
	s := getState(t)
	setFees(s, &fees.TransferParameters{Fee: 20})
	s.App.ModifyGlobal(func(g *app.GlobalProperties) {
		g.Parameters.Extensions.CoinSecondsAsFeesOptions = &protocol.CoinSecondsAsFeesOptions{
			MaxFeeFromCoinSecondsByOperation:  []int64{15},
			CoinSecondsAsFeesRate:             []int64{1, 1, 1},
			MaxAccumulatedFeesFromCoinSeconds: []int64{1000, 1000, 1000},
		}
	})
	alice := createAccount(t, s, "alice", 1000)
	bob := createAccount(t, s, "bob", 0)

	head := s.App.HeadBlockTime()
	s.SetBlock(1, head.Add(10*time.Second))

	response := runTx(s, &protocol.Transfer{Fee: types.CoreAmount(4), From: alice, To: bob, Amount: types.CoreAmount(100)})
	requireCode(t, code.InsufficientFee, response)

	response = runTx(s, &protocol.Transfer{Fee: types.CoreAmount(5), From: alice, To: bob, Amount: types.CoreAmount(100)})
	requireCode(t, code.OK, response)

	stats := s.Accounts.Statistics(alice)
	require.Equal(t, int64(985), stats.CoinSeconds().Int64())
	require.Equal(t, int64(5), stats.PendingVestedFees)
	require.Equal(t, int64(895), s.Accounts.GetBalance(alice, types.CoreAsset))
	require.NoError(t, s.Check())
}
