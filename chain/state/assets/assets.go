package assets

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state/bus"
	"github.com/cryptonomex/graphene/chain/types"
)

const (
	mainPrefix    = byte('c')
	dynamicPrefix = byte('f')
	symbolPrefix  = byte('y')
)

type RAssets interface {
	Get(id types.AssetID) *Model
	GetBySymbol(symbol string) *Model
	Exists(id types.AssetID) bool
	DynamicData(id types.AssetID) *DynamicData
}

type Assets struct {
	list         map[types.AssetID]*Model
	dynamic      map[types.AssetID]*DynamicData
	symbols      map[string]types.AssetID
	dirty        map[types.AssetID]struct{}
	dirtyDynamic map[types.AssetID]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewAssets(stateBus *bus.Bus, db *iavl.ImmutableTree) *Assets {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	return &Assets{
		db:           immutableTree,
		bus:          stateBus,
		list:         map[types.AssetID]*Model{},
		dynamic:      map[types.AssetID]*DynamicData{},
		symbols:      map[string]types.AssetID{},
		dirty:        map[types.AssetID]struct{}{},
		dirtyDynamic: map[types.AssetID]struct{}{},
	}
}

func (a *Assets) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *Assets) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *Assets) Commit(db *iavl.MutableTree, version int64) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	for _, id := range sortedIDs(a.dirty) {
		model := a.list[id]
		data, err := protocol.Codec.MarshalBinaryBare(model)
		if err != nil {
			return fmt.Errorf("can't encode asset %s: %v", id, err)
		}
		db.Set(append([]byte{mainPrefix}, id.Bytes()...), data)
		db.Set(append([]byte{symbolPrefix}, []byte(model.Symbol)...), id.Bytes())
	}
	for _, id := range sortedIDs(a.dirtyDynamic) {
		data, err := protocol.Codec.MarshalBinaryBare(a.dynamic[id])
		if err != nil {
			return fmt.Errorf("can't encode dynamic data of asset %s: %v", id, err)
		}
		db.Set(append([]byte{dynamicPrefix}, id.Bytes()...), data)
	}

	a.dirty = map[types.AssetID]struct{}{}
	a.dirtyDynamic = map[types.AssetID]struct{}{}

	return nil
}

func sortedIDs(set map[types.AssetID]struct{}) []types.AssetID {
	ids := make([]types.AssetID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (a *Assets) Exists(id types.AssetID) bool {
	return a.Get(id) != nil
}

// Get returns the asset or nil. The result must only be changed through Modify.
func (a *Assets) Get(id types.AssetID) *Model {
	a.lock.Lock()
	defer a.lock.Unlock()

	if model, ok := a.list[id]; ok {
		return model
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}
	_, enc := tree.Get(append([]byte{mainPrefix}, id.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := protocol.Codec.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode asset %s: %s", id, err))
	}
	a.list[id] = model
	a.symbols[model.Symbol] = id

	return model
}

func (a *Assets) GetBySymbol(symbol string) *Model {
	a.lock.RLock()
	id, ok := a.symbols[symbol]
	a.lock.RUnlock()
	if ok {
		return a.Get(id)
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}
	_, enc := tree.Get(append([]byte{symbolPrefix}, []byte(symbol)...))
	if len(enc) != 8 {
		return nil
	}
	return a.Get(types.AssetIDFromBytes(enc))
}

// DynamicData returns the dynamic data of the asset or nil. The result must only be changed through ModifyDynamicData.
func (a *Assets) DynamicData(id types.AssetID) *DynamicData {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.getDynamic(id)
}

func (a *Assets) getDynamic(id types.AssetID) *DynamicData {
	if data, ok := a.dynamic[id]; ok {
		return data
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}
	_, enc := tree.Get(append([]byte{dynamicPrefix}, id.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	data := &DynamicData{}
	if err := protocol.Codec.UnmarshalBinaryBare(enc, data); err != nil {
		panic(fmt.Sprintf("failed to decode dynamic data of asset %s: %s", id, err))
	}
	a.dynamic[id] = data

	return data
}

// Create registers a new asset with an empty supply
func (a *Assets) Create(symbol string, precision uint32, issuer types.AccountID, options protocol.AssetOptions) *Model {
	id := types.AssetID(a.bus.App().AllocateID(types.AssetObjectType))
	model := &Model{
		ID:        id,
		Symbol:    symbol,
		Precision: precision,
		Issuer:    issuer,
		Options:   options.Clone(),
	}

	a.lock.Lock()
	a.list[id] = model
	a.dynamic[id] = &DynamicData{}
	a.symbols[symbol] = id
	a.dirty[id] = struct{}{}
	a.dirtyDynamic[id] = struct{}{}
	a.lock.Unlock()

	a.bus.Journal().Record(func() {
		a.lock.Lock()
		defer a.lock.Unlock()
		delete(a.list, id)
		delete(a.dynamic, id)
		delete(a.symbols, symbol)
		delete(a.dirty, id)
		delete(a.dirtyDynamic, id)
	})

	return model
}

// Modify applies fn to the asset and records how to undo it
func (a *Assets) Modify(id types.AssetID, fn func(m *Model)) error {
	model := a.Get(id)
	if model == nil {
		return fmt.Errorf("asset %s not found", id)
	}

	a.lock.Lock()
	prev := model.clone()
	_, wasDirty := a.dirty[id]
	fn(model)
	model.ID = prev.ID
	model.Symbol = prev.Symbol
	a.dirty[id] = struct{}{}
	a.lock.Unlock()

	a.bus.Journal().Record(func() {
		a.lock.Lock()
		defer a.lock.Unlock()
		*model = *prev
		if !wasDirty {
			delete(a.dirty, id)
		}
	})

	return nil
}

// ModifyDynamicData applies fn to the dynamic data of the asset and reports the changes to the checker
func (a *Assets) ModifyDynamicData(id types.AssetID, fn func(d *DynamicData)) error {
	a.lock.Lock()
	data := a.getDynamic(id)
	if data == nil {
		a.lock.Unlock()
		return fmt.Errorf("dynamic data of asset %s not found", id)
	}

	prev := *data
	_, wasDirty := a.dirtyDynamic[id]
	fn(data)
	a.dirtyDynamic[id] = struct{}{}
	next := *data
	a.lock.Unlock()

	a.bus.Journal().Record(func() {
		a.lock.Lock()
		defer a.lock.Unlock()
		*data = prev
		if !wasDirty {
			delete(a.dirtyDynamic, id)
		}
	})

	checker := a.bus.Checker()
	checker.AddCoinVolume(id, next.CurrentSupply-prev.CurrentSupply)
	checker.AddCoin(id, next.AccumulatedFees-prev.AccumulatedFees)
	checker.AddCoin(types.CoreAsset, next.FeePool-prev.FeePool)

	return nil
}
