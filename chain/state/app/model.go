package app

import (
	"fmt"
	"time"

	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/types"
)

// GlobalProperties are changed by governance only
type GlobalProperties struct {
	Parameters protocol.ChainParameters
	// PendingParameters replace Parameters at the next maintenance
	PendingParameters   *protocol.ChainParameters
	NextAvailableVoteID uint32
}

// DynamicProperties change with every block
type DynamicProperties struct {
	HeadBlockNumber                uint64
	Time                           time.Time
	NextMaintenanceTime            time.Time
	AccountsRegisteredThisInterval uint32
}

type Model struct {
	Global  GlobalProperties
	Dynamic DynamicProperties

	NextAccountID         uint64
	NextAssetID           uint64
	NextCommitteeMemberID uint64
	NextCommitteeID       uint64
}

func (m *Model) clone() *Model {
	c := *m
	c.Global.Parameters = m.Global.Parameters.Clone()
	if m.Global.PendingParameters != nil {
		pending := m.Global.PendingParameters.Clone()
		c.Global.PendingParameters = &pending
	}
	return &c
}

func (m *Model) counter(objectType uint32) *uint64 {
	switch objectType {
	case types.AccountObjectType:
		return &m.NextAccountID
	case types.AssetObjectType:
		return &m.NextAssetID
	case types.CommitteeMemberObjectType:
		return &m.NextCommitteeMemberID
	case types.CommitteeObjectType:
		return &m.NextCommitteeID
	}
	panic(fmt.Sprintf("unknown object type %d", objectType))
}

func (m *Model) allocateID(objectType uint32) uint64 {
	counter := m.counter(objectType)
	id := *counter
	*counter++
	return id
}
