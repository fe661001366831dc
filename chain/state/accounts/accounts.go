package accounts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state/bus"
	"github.com/cryptonomex/graphene/chain/types"
)

const (
	mainPrefix       = byte('a')
	statisticsPrefix = byte('s')
	balancePrefix    = byte('b')
	namePrefix       = byte('n')
)

type RAccounts interface {
	Get(id types.AccountID) *Model
	GetByName(name string) *Model
	Exists(id types.AccountID) bool
	Statistics(id types.AccountID) *Statistics
	GetBalance(id types.AccountID, asset types.AssetID) int64
}

type balanceKey struct {
	account types.AccountID
	asset   types.AssetID
}

func (k balanceKey) path() []byte {
	path := []byte{balancePrefix}
	path = append(path, k.account.Bytes()...)
	return append(path, k.asset.Bytes()...)
}

type Accounts struct {
	list       map[types.AccountID]*Model
	statistics map[types.AccountID]*Statistics
	balances   map[balanceKey]int64
	names      map[string]types.AccountID

	dirty           map[types.AccountID]struct{}
	dirtyStatistics map[types.AccountID]struct{}
	dirtyBalances   map[balanceKey]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewAccounts(stateBus *bus.Bus, db *iavl.ImmutableTree) *Accounts {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	return &Accounts{
		db:              immutableTree,
		bus:             stateBus,
		list:            map[types.AccountID]*Model{},
		statistics:      map[types.AccountID]*Statistics{},
		balances:        map[balanceKey]int64{},
		names:           map[string]types.AccountID{},
		dirty:           map[types.AccountID]struct{}{},
		dirtyStatistics: map[types.AccountID]struct{}{},
		dirtyBalances:   map[balanceKey]struct{}{},
	}
}

func (a *Accounts) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *Accounts) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *Accounts) Commit(db *iavl.MutableTree, version int64) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	for _, id := range sortedIDs(a.dirty) {
		account := a.list[id]
		data, err := protocol.Codec.MarshalBinaryBare(account)
		if err != nil {
			return fmt.Errorf("can't encode account %s: %v", id, err)
		}
		db.Set(append([]byte{mainPrefix}, id.Bytes()...), data)
		if account.Name != "" {
			db.Set(append([]byte{namePrefix}, []byte(account.Name)...), id.Bytes())
		}
	}

	for _, id := range sortedIDs(a.dirtyStatistics) {
		data, err := protocol.Codec.MarshalBinaryBare(a.statistics[id])
		if err != nil {
			return fmt.Errorf("can't encode statistics of account %s: %v", id, err)
		}
		db.Set(append([]byte{statisticsPrefix}, id.Bytes()...), data)
	}

	keys := make([]balanceKey, 0, len(a.dirtyBalances))
	for key := range a.dirtyBalances {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].path(), keys[j].path()) < 0
	})
	for _, key := range keys {
		balance := a.balances[key]
		switch {
		case balance == 0:
			db.Remove(key.path())
		case balance > 0:
			db.Set(key.path(), encodeAmount(balance))
		default:
			panic(fmt.Sprintf("account %s has negative balance of asset %s: %d", key.account, key.asset, balance))
		}
	}

	a.dirty = map[types.AccountID]struct{}{}
	a.dirtyStatistics = map[types.AccountID]struct{}{}
	a.dirtyBalances = map[balanceKey]struct{}{}

	return nil
}

func sortedIDs(set map[types.AccountID]struct{}) []types.AccountID {
	ids := make([]types.AccountID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func encodeAmount(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func (a *Accounts) Exists(id types.AccountID) bool {
	return a.Get(id) != nil
}

// Get returns the account or nil. The result must only be changed through Modify.
func (a *Accounts) Get(id types.AccountID) *Model {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.get(id)
}

func (a *Accounts) get(id types.AccountID) *Model {
	if account, ok := a.list[id]; ok {
		return account
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}
	_, enc := tree.Get(append([]byte{mainPrefix}, id.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	account := &Model{}
	if err := protocol.Codec.UnmarshalBinaryBare(enc, account); err != nil {
		panic(fmt.Sprintf("failed to decode account %s: %s", id, err))
	}
	a.list[id] = account
	if account.Name != "" {
		a.names[account.Name] = id
	}

	return account
}

func (a *Accounts) GetByName(name string) *Model {
	a.lock.Lock()
	defer a.lock.Unlock()

	if id, ok := a.names[name]; ok {
		return a.get(id)
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}
	_, enc := tree.Get(append([]byte{namePrefix}, []byte(name)...))
	if len(enc) != 8 {
		return nil
	}
	return a.get(types.AccountIDFromBytes(enc))
}

// Statistics returns the statistics of the account or nil. The result must only be changed through ModifyStatistics.
func (a *Accounts) Statistics(id types.AccountID) *Statistics {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.getStatistics(id)
}

func (a *Accounts) getStatistics(id types.AccountID) *Statistics {
	if stats, ok := a.statistics[id]; ok {
		return stats
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}
	_, enc := tree.Get(append([]byte{statisticsPrefix}, id.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	stats := &Statistics{}
	if err := protocol.Codec.UnmarshalBinaryBare(enc, stats); err != nil {
		panic(fmt.Sprintf("failed to decode statistics of account %s: %s", id, err))
	}
	a.statistics[id] = stats

	return stats
}

func (a *Accounts) GetBalance(id types.AccountID, asset types.AssetID) int64 {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.getBalance(balanceKey{account: id, asset: asset})
}

func (a *Accounts) getBalance(key balanceKey) int64 {
	if balance, ok := a.balances[key]; ok {
		return balance
	}

	var balance int64
	if tree := a.immutableTree(); tree != nil {
		if _, enc := tree.Get(key.path()); len(enc) == 8 {
			balance = int64(binary.BigEndian.Uint64(enc))
		}
	}
	a.balances[key] = balance

	return balance
}

// Create allocates the next account id, builds the account with init and creates its statistics
func (a *Accounts) Create(init func(m *Model)) *Model {
	id := types.AccountID(a.bus.App().AllocateID(types.AccountObjectType))
	now := a.bus.App().HeadBlockTime()

	account := &Model{ID: id}
	init(account)
	account.ID = id
	stats := &Statistics{Owner: id, CoinSecondsEarnedLastUpdate: now}

	a.lock.Lock()
	a.list[id] = account
	a.statistics[id] = stats
	if account.Name != "" {
		a.names[account.Name] = id
	}
	a.dirty[id] = struct{}{}
	a.dirtyStatistics[id] = struct{}{}
	a.lock.Unlock()

	a.bus.Journal().Record(func() {
		a.lock.Lock()
		defer a.lock.Unlock()
		delete(a.list, id)
		delete(a.statistics, id)
		delete(a.dirty, id)
		delete(a.dirtyStatistics, id)
		if account.Name != "" {
			delete(a.names, account.Name)
		}
	})

	return account
}

// Modify applies fn to the account and records how to undo it. The id and name never change.
func (a *Accounts) Modify(id types.AccountID, fn func(m *Model)) error {
	a.lock.Lock()
	account := a.get(id)
	if account == nil {
		a.lock.Unlock()
		return code.NewObjectNotFound("account", id.String())
	}

	prev := account.clone()
	_, wasDirty := a.dirty[id]
	fn(account)
	account.ID = prev.ID
	account.Name = prev.Name
	a.dirty[id] = struct{}{}
	a.lock.Unlock()

	a.bus.Journal().Record(func() {
		a.lock.Lock()
		defer a.lock.Unlock()
		*account = *prev
		if !wasDirty {
			delete(a.dirty, id)
		}
	})

	return nil
}

// ModifyStatistics applies fn to the statistics of the account and reports held fees to the checker
func (a *Accounts) ModifyStatistics(id types.AccountID, fn func(s *Statistics)) error {
	a.lock.Lock()
	stats := a.getStatistics(id)
	if stats == nil {
		a.lock.Unlock()
		return code.NewObjectNotFound("account statistics", id.String())
	}

	prev := stats.clone()
	_, wasDirty := a.dirtyStatistics[id]
	fn(stats)
	stats.Owner = id
	a.dirtyStatistics[id] = struct{}{}
	delta := stats.holdings() - prev.holdings()
	a.lock.Unlock()

	a.bus.Journal().Record(func() {
		a.lock.Lock()
		defer a.lock.Unlock()
		*stats = *prev
		if !wasDirty {
			delete(a.dirtyStatistics, id)
		}
	})

	a.bus.Checker().AddCoin(types.CoreAsset, delta)

	return nil
}

// AdjustBalance adds delta to the balance, failing when the balance would become negative.
// Core asset changes first accrue coin-seconds for the balance held so far.
func (a *Accounts) AdjustBalance(id types.AccountID, delta types.Asset) error {
	if delta.Amount == 0 {
		return nil
	}

	key := balanceKey{account: id, asset: delta.AssetID}
	a.lock.Lock()
	balance := a.getBalance(key)
	a.lock.Unlock()

	if balance+delta.Amount < 0 {
		return code.NewInsufficientFunds(id.String(), strconv.FormatInt(-delta.Amount, 10), strconv.FormatInt(balance, 10), delta.AssetID.String())
	}

	if delta.AssetID == types.CoreAsset {
		now := a.bus.App().HeadBlockTime()
		err := a.ModifyStatistics(id, func(s *Statistics) {
			s.SetCoinSeconds(s.ComputeCoinSecondsEarned(balance, now), now)
		})
		if err != nil {
			return err
		}
	}

	a.setBalance(key, balance+delta.Amount)
	a.bus.Checker().AddCoin(delta.AssetID, delta.Amount)

	return nil
}

func (a *Accounts) setBalance(key balanceKey, value int64) {
	a.lock.Lock()
	prev := a.balances[key]
	_, wasDirty := a.dirtyBalances[key]
	a.balances[key] = value
	a.dirtyBalances[key] = struct{}{}
	a.lock.Unlock()

	a.bus.Journal().Record(func() {
		a.lock.Lock()
		defer a.lock.Unlock()
		a.balances[key] = prev
		if !wasDirty {
			delete(a.dirtyBalances, key)
		}
	})
}
