package app

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cosmos/iavl"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state/bus"
	"github.com/cryptonomex/graphene/chain/types"
)

const mainPrefix = 'd'

type RApp interface {
	GlobalProperties() GlobalProperties
	DynamicProperties() DynamicProperties
	Parameters() protocol.ChainParameters
	FeeSchedule() *fees.Schedule
	HeadBlockTime() time.Time
	NextAvailableVoteID() uint32
	NextInstance(objectType uint32) uint64
}

type App struct {
	model   *Model
	isDirty bool

	db atomic.Value

	bus *bus.Bus
	mx  sync.Mutex
}

func NewApp(stateBus *bus.Bus, db *iavl.ImmutableTree) *App {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	app := &App{bus: stateBus, db: immutableTree}
	app.bus.SetApp(app)

	return app
}

func (a *App) immutableTree() *iavl.ImmutableTree {
	db := a.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (a *App) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	a.db.Store(immutableTree)
}

func (a *App) Commit(db *iavl.MutableTree, version int64) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	if !a.isDirty {
		return nil
	}
	a.isDirty = false

	data, err := protocol.Codec.MarshalBinaryBare(a.model)
	if err != nil {
		return fmt.Errorf("can't encode app model: %s", err)
	}

	db.Set([]byte{mainPrefix}, data)

	return nil
}

func (a *App) get() *Model {
	a.mx.Lock()
	defer a.mx.Unlock()

	if a.model != nil {
		return a.model
	}

	tree := a.immutableTree()
	if tree == nil {
		return nil
	}
	_, enc := tree.Get([]byte{mainPrefix})
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := protocol.Codec.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode app model: %s", err))
	}

	a.model = model
	return a.model
}

func (a *App) getOrNew() *Model {
	model := a.get()
	if model == nil {
		model = &Model{
			Global: GlobalProperties{Parameters: protocol.DefaultChainParameters()},
		}
		a.mx.Lock()
		a.model = model
		a.mx.Unlock()
	}

	return model
}

// modify applies fn to the model and records how to undo it
func (a *App) modify(fn func(m *Model)) {
	model := a.getOrNew()

	a.mx.Lock()
	prev, wasDirty := model.clone(), a.isDirty
	fn(model)
	a.isDirty = true
	a.mx.Unlock()

	a.bus.Journal().Record(func() {
		a.mx.Lock()
		*model = *prev
		a.isDirty = wasDirty
		a.mx.Unlock()
	})
}

func (a *App) GlobalProperties() GlobalProperties {
	return a.getOrNew().Global
}

func (a *App) DynamicProperties() DynamicProperties {
	return a.getOrNew().Dynamic
}

func (a *App) Parameters() protocol.ChainParameters {
	return a.getOrNew().Global.Parameters
}

func (a *App) FeeSchedule() *fees.Schedule {
	return a.getOrNew().Global.Parameters.CurrentFees
}

func (a *App) HeadBlockTime() time.Time {
	return a.getOrNew().Dynamic.Time
}

func (a *App) NextAvailableVoteID() uint32 {
	return a.getOrNew().Global.NextAvailableVoteID
}

// NextInstance returns the instance the next object of objectType will get
func (a *App) NextInstance(objectType uint32) uint64 {
	model := a.getOrNew()

	a.mx.Lock()
	defer a.mx.Unlock()

	return *model.counter(objectType)
}

// ModifyGlobal mutates the global properties inside fn
func (a *App) ModifyGlobal(fn func(g *GlobalProperties)) {
	a.modify(func(m *Model) { fn(&m.Global) })
}

// ModifyDynamic mutates the dynamic properties inside fn
func (a *App) ModifyDynamic(fn func(d *DynamicProperties)) {
	a.modify(func(m *Model) { fn(&m.Dynamic) })
}

func (a *App) SetParameters(params protocol.ChainParameters) {
	a.ModifyGlobal(func(g *GlobalProperties) {
		g.Parameters = params.Clone()
	})
}

// SetPendingParameters stages params for the next maintenance
func (a *App) SetPendingParameters(params protocol.ChainParameters) {
	a.ModifyGlobal(func(g *GlobalProperties) {
		pending := params.Clone()
		g.PendingParameters = &pending
	})
}

// AllocateVoteID takes the next vote id from the global counter
func (a *App) AllocateVoteID(t types.VoteType) types.VoteID {
	var id types.VoteID
	a.ModifyGlobal(func(g *GlobalProperties) {
		id = types.NewVoteID(t, g.NextAvailableVoteID)
		g.NextAvailableVoteID++
	})
	return id
}

// AllocateID returns the next instance of objectType
func (a *App) AllocateID(objectType uint32) uint64 {
	var id uint64
	a.modify(func(m *Model) {
		id = m.allocateID(objectType)
	})
	return id
}

func (a *App) SetBlock(height uint64, blockTime time.Time) {
	a.ModifyDynamic(func(d *DynamicProperties) {
		d.HeadBlockNumber = height
		d.Time = blockTime.UTC()
	})
}
