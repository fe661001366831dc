package checker

import (
	"fmt"
	"sync"

	"github.com/cryptonomex/graphene/chain/state/bus"
	"github.com/cryptonomex/graphene/chain/types"
)

// Checker verifies that holdings of every asset change exactly as its supply does
type Checker struct {
	delta       map[types.AssetID]int64
	volumeDelta map[types.AssetID]int64

	bus  *bus.Bus
	lock sync.RWMutex
}

func NewChecker(stateBus *bus.Bus) *Checker {
	checker := &Checker{
		delta:       map[types.AssetID]int64{},
		volumeDelta: map[types.AssetID]int64{},
		bus:         stateBus,
	}
	stateBus.SetChecker(checker)

	return checker
}

func (c *Checker) AddCoin(asset types.AssetID, value int64, msg ...string) {
	if value == 0 {
		return
	}
	c.add(c.delta, asset, value)
}

func (c *Checker) AddCoinVolume(asset types.AssetID, value int64) {
	if value == 0 {
		return
	}
	c.add(c.volumeDelta, asset, value)
}

func (c *Checker) add(deltas map[types.AssetID]int64, asset types.AssetID, value int64) {
	c.lock.Lock()
	deltas[asset] += value
	c.lock.Unlock()

	c.bus.Journal().Record(func() {
		c.lock.Lock()
		deltas[asset] -= value
		c.lock.Unlock()
	})
}

// Reset clears the collected deltas
func (c *Checker) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.delta = map[types.AssetID]int64{}
	c.volumeDelta = map[types.AssetID]int64{}
}

func (c *Checker) Check() error {
	c.lock.RLock()
	defer c.lock.RUnlock()

	for asset, delta := range c.delta {
		if volume := c.volumeDelta[asset]; delta != volume {
			return fmt.Errorf("invariants error on asset %s: %d", asset, volume-delta)
		}
	}
	for asset, volume := range c.volumeDelta {
		if _, ok := c.delta[asset]; !ok && volume != 0 {
			return fmt.Errorf("invariants error on asset %s: %d", asset, volume)
		}
	}

	return nil
}
