package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/cosmos/iavl"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state/accounts"
	"github.com/cryptonomex/graphene/chain/state/app"
	"github.com/cryptonomex/graphene/chain/state/assets"
	"github.com/cryptonomex/graphene/chain/state/bus"
	"github.com/cryptonomex/graphene/chain/state/checker"
	"github.com/cryptonomex/graphene/chain/state/committee"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/genesis"
	"github.com/cryptonomex/graphene/log"
	"github.com/cryptonomex/graphene/tree"
	db "github.com/tendermint/tm-db"
)

type Interface interface {
	isValue_State()
}

// CheckState is the read-only view of a State
type CheckState struct {
	state *State
}

func NewCheckState(state *State) *CheckState {
	return &CheckState{state: state}
}

func (cs *CheckState) isValue_State() {}

func (cs *CheckState) App() app.RApp {
	return cs.state.App
}

func (cs *CheckState) Accounts() accounts.RAccounts {
	return cs.state.Accounts
}

func (cs *CheckState) Assets() assets.RAssets {
	return cs.state.Assets
}

func (cs *CheckState) Committee() committee.RCommittee {
	return cs.state.Committee
}

type State struct {
	App       *app.App
	Accounts  *accounts.Accounts
	Assets    *assets.Assets
	Committee *committee.Committee
	Checker   *checker.Checker

	db             db.DB
	tree           tree.MTree
	keepLastStates int64

	bus            *bus.Bus
	lock           sync.RWMutex
	height         int64
	initialVersion int64
}

func (s *State) isValue_State() {}

func NewState(height uint64, db db.DB, cacheSize int, keepLastStates int64, initialVersion uint64) (*State, error) {
	iavlTree, err := tree.NewMutableTree(height, db, cacheSize, initialVersion)
	if err != nil {
		return nil, err
	}

	state := newStateForTree(iavlTree.GetLastImmutable(), db, keepLastStates)
	state.tree = iavlTree
	state.height = int64(height)
	state.initialVersion = int64(initialVersion)

	return state, nil
}

func NewCheckStateAtHeight(height uint64, db db.DB) (*CheckState, error) {
	iavlTree, err := tree.NewImmutableTree(height, db)
	if err != nil {
		return nil, err
	}
	return NewCheckState(newStateForTree(iavlTree, db, 0)), nil
}

func (s *State) Tree() tree.MTree {
	return s.tree
}

func (s *State) Height() int64 {
	return s.height
}

func (s *State) Lock() {
	s.lock.Lock()
}

func (s *State) Unlock() {
	s.lock.Unlock()
}

func (s *State) RLock() {
	s.lock.RLock()
}

func (s *State) RUnlock() {
	s.lock.RUnlock()
}

// Snapshot marks the current point of the change journal
func (s *State) Snapshot() int {
	return s.bus.Journal().Snapshot()
}

// RevertToSnapshot undoes every change made after the snapshot was taken
func (s *State) RevertToSnapshot(id int) {
	s.bus.Journal().RevertToSnapshot(id)
}

// Check reports a mismatch between the holdings and the supply of any asset
func (s *State) Check() error {
	return s.Checker.Check()
}

func (s *State) Commit() ([]byte, error) {
	s.Checker.Reset()
	s.bus.Journal().Reset()

	hash, version, err := s.tree.Commit(
		s.App,
		s.Accounts,
		s.Assets,
		s.Committee,
	)
	if err != nil {
		return hash, err
	}
	s.height = version

	versionToDelete := version - s.keepLastStates - 1
	if versionToDelete < s.initialVersion || versionToDelete < 1 {
		return hash, nil
	}

	if err := s.tree.DeleteVersion(versionToDelete); err != nil {
		log.Error("DeleteVersion failed", "version", versionToDelete, "err", err)
	}

	return hash, nil
}

// SetBlock moves the head block of the state
func (s *State) SetBlock(height uint64, blockTime time.Time) {
	s.App.SetBlock(height, blockTime)
}

// Import builds the genesis state: the special accounts, then assets, accounts with their balances and committee members
func (s *State) Import(state *genesis.AppState) error {
	if err := state.Verify(); err != nil {
		return err
	}

	params := state.InitialParameters
	s.App.SetParameters(params)
	s.App.SetBlock(0, state.GenesisTime)
	s.App.ModifyDynamic(func(d *app.DynamicProperties) {
		d.NextMaintenanceTime = state.GenesisTime.UTC().Add(time.Duration(params.MaintenanceInterval) * time.Second)
	})

	for i, name := range genesis.SpecialAccountNames {
		threshold := uint32(1)
		if types.AccountID(i) >= types.TempAccount {
			threshold = 0
		}
		s.Accounts.Create(func(m *accounts.Model) {
			m.Name = name
			m.Registrar = m.ID
			m.Referrer = m.ID
			m.LifetimeReferrer = m.ID
			m.MembershipExpirationDate = types.MaxTime
			m.NetworkFeePercentage = types.Percent100
			m.Owner = protocol.Authority{WeightThreshold: threshold}
			m.Active = protocol.Authority{WeightThreshold: threshold}
			m.Options.VotingAccount = types.ProxyToSelfAccount
		})
	}

	for _, a := range state.Assets {
		issuer := types.CommitteeAccount
		if a.Issuer != "" {
			issuer = s.Accounts.GetByName(a.Issuer).ID
		}
		asset := s.Assets.Create(a.Symbol, a.Precision, issuer, a.Options)
		if a.FeePool == 0 {
			continue
		}
		if err := s.Assets.ModifyDynamicData(asset.ID, func(d *assets.DynamicData) { d.FeePool = a.FeePool }); err != nil {
			return err
		}
		if err := s.Assets.ModifyDynamicData(types.CoreAsset, func(d *assets.DynamicData) { d.CurrentSupply += a.FeePool }); err != nil {
			return err
		}
	}

	for _, a := range state.Accounts {
		a := a
		account := s.Accounts.Create(func(m *accounts.Model) {
			m.Name = a.Name
			m.Registrar = types.CommitteeAccount
			m.Referrer = types.CommitteeAccount
			m.LifetimeReferrer = types.CommitteeAccount
			m.NetworkFeePercentage = params.NetworkPercentOfFee
			m.LifetimeReferrerFeePercentage = params.LifetimeReferrerPercentOfFee
			m.Owner = protocol.NewKeyAuthority(a.OwnerKey)
			m.Active = protocol.NewKeyAuthority(a.ActiveKey)
			m.Options.MemoKey = a.ActiveKey
			m.Options.VotingAccount = types.ProxyToSelfAccount
			if a.IsLifetimeMember {
				m.Registrar = m.ID
				m.Referrer = m.ID
				m.LifetimeReferrer = m.ID
				m.MembershipExpirationDate = types.MaxTime
				m.LifetimeReferrerFeePercentage = types.Percent100 - params.NetworkPercentOfFee
			}
		})

		for _, b := range a.Balances {
			asset := s.Assets.GetBySymbol(b.Asset)
			if err := s.Accounts.AdjustBalance(account.ID, types.NewAsset(b.Amount, asset.ID)); err != nil {
				return err
			}
			if err := s.Assets.ModifyDynamicData(asset.ID, func(d *assets.DynamicData) { d.CurrentSupply += b.Amount }); err != nil {
				return err
			}
		}
	}

	for _, m := range state.CommitteeMembers {
		account := s.Accounts.GetByName(m.Account)
		vote := s.App.AllocateVoteID(types.VoteCommittee)
		s.Committee.CreateMember(account.ID, vote, m.URL, types.CommitteeAccount)
	}

	if err := s.Check(); err != nil {
		return fmt.Errorf("genesis state is inconsistent: %s", err)
	}
	s.Checker.Reset()
	s.bus.Journal().Reset()

	return nil
}

func newStateForTree(immutableTree *iavl.ImmutableTree, db db.DB, keepLastStates int64) *State {
	stateBus := bus.NewBus()

	stateChecker := checker.NewChecker(stateBus)

	appState := app.NewApp(stateBus, immutableTree)

	accountsState := accounts.NewAccounts(stateBus, immutableTree)

	assetsState := assets.NewAssets(stateBus, immutableTree)

	committeeState := committee.NewCommittee(stateBus, immutableTree)

	return &State{
		App:            appState,
		Accounts:       accountsState,
		Assets:         assetsState,
		Committee:      committeeState,
		Checker:        stateChecker,
		bus:            stateBus,
		db:             db,
		keepLastStates: keepLastStates,
	}
}
