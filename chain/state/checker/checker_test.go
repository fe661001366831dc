package checker

import (
	"testing"

	"github.com/cryptonomex/graphene/chain/state/bus"
	"github.com/cryptonomex/graphene/chain/types"
)

func TestChecker(t *testing.T) {
	b := bus.NewBus()
	c := NewChecker(b)

	c.AddCoin(types.CoreAsset, 100)
	if err := c.Check(); err == nil {
		t.Fatal("unbalanced holdings passed the check")
	}

	c.AddCoinVolume(types.CoreAsset, 100)
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}

	snapshot := b.Journal().Snapshot()
	c.AddCoinVolume(1, -5)
	if err := c.Check(); err == nil {
		t.Fatal("burn without holdings change passed the check")
	}
	b.Journal().RevertToSnapshot(snapshot)
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}
}
