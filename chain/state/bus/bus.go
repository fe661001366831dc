package bus

import (
	"time"

	"github.com/cryptonomex/graphene/chain/types"
)

// Bus connects the sub-stores of one state
type Bus struct {
	checker Checker
	app     App
	journal *Journal
}

func NewBus() *Bus {
	return &Bus{journal: NewJournal()}
}

func (b *Bus) SetChecker(checker Checker) {
	b.checker = checker
}

func (b *Bus) Checker() Checker {
	return b.checker
}

func (b *Bus) SetApp(app App) {
	b.app = app
}

func (b *Bus) App() App {
	return b.app
}

func (b *Bus) Journal() *Journal {
	return b.journal
}

// Checker collects per-asset holding and supply deltas
type Checker interface {
	AddCoin(asset types.AssetID, value int64, msg ...string)
	AddCoinVolume(asset types.AssetID, value int64)
}

// App exposes the chain clock and object counters to the other stores
type App interface {
	HeadBlockTime() time.Time
	AllocateID(objectType uint32) uint64
}
