package committee

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cosmos/iavl"
	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state/bus"
	"github.com/cryptonomex/graphene/chain/types"
)

const (
	memberPrefix    = byte('m')
	voteIndexPrefix = byte('v')
	committeePrefix = byte('k')
)

type RCommittee interface {
	GetMember(id types.CommitteeMemberID) *Member
	GetMemberByVoteID(vote types.VoteID) *Member
	Get(id types.CommitteeID) *Model
	MembersCount() int
}

type Committee struct {
	members    map[types.CommitteeMemberID]*Member
	votes      map[types.VoteID]types.CommitteeMemberID
	committees map[types.CommitteeID]*Model

	dirtyMembers    map[types.CommitteeMemberID]struct{}
	dirtyCommittees map[types.CommitteeID]struct{}

	db  atomic.Value
	bus *bus.Bus

	lock sync.RWMutex
}

func NewCommittee(stateBus *bus.Bus, db *iavl.ImmutableTree) *Committee {
	immutableTree := atomic.Value{}
	if db != nil {
		immutableTree.Store(db)
	}
	return &Committee{
		db:              immutableTree,
		bus:             stateBus,
		members:         map[types.CommitteeMemberID]*Member{},
		votes:           map[types.VoteID]types.CommitteeMemberID{},
		committees:      map[types.CommitteeID]*Model{},
		dirtyMembers:    map[types.CommitteeMemberID]struct{}{},
		dirtyCommittees: map[types.CommitteeID]struct{}{},
	}
}

func (c *Committee) immutableTree() *iavl.ImmutableTree {
	db := c.db.Load()
	if db == nil {
		return nil
	}
	return db.(*iavl.ImmutableTree)
}

func (c *Committee) SetImmutableTree(immutableTree *iavl.ImmutableTree) {
	c.db.Store(immutableTree)
}

func voteIDBytes(vote types.VoteID) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(vote))
	return b
}

func (c *Committee) Commit(db *iavl.MutableTree, version int64) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	memberIDs := make([]types.CommitteeMemberID, 0, len(c.dirtyMembers))
	for id := range c.dirtyMembers {
		memberIDs = append(memberIDs, id)
	}
	sort.Slice(memberIDs, func(i, j int) bool { return memberIDs[i] < memberIDs[j] })
	for _, id := range memberIDs {
		member := c.members[id]
		data, err := protocol.Codec.MarshalBinaryBare(member)
		if err != nil {
			return fmt.Errorf("can't encode committee member %s: %v", id, err)
		}
		db.Set(append([]byte{memberPrefix}, id.Bytes()...), data)
		db.Set(append([]byte{voteIndexPrefix}, voteIDBytes(member.VoteID)...), id.Bytes())
	}

	committeeIDs := make([]types.CommitteeID, 0, len(c.dirtyCommittees))
	for id := range c.dirtyCommittees {
		committeeIDs = append(committeeIDs, id)
	}
	sort.Slice(committeeIDs, func(i, j int) bool { return committeeIDs[i] < committeeIDs[j] })
	for _, id := range committeeIDs {
		data, err := protocol.Codec.MarshalBinaryBare(c.committees[id])
		if err != nil {
			return fmt.Errorf("can't encode committee %s: %v", id, err)
		}
		db.Set(append([]byte{committeePrefix}, id.Bytes()...), data)
	}

	c.dirtyMembers = map[types.CommitteeMemberID]struct{}{}
	c.dirtyCommittees = map[types.CommitteeID]struct{}{}

	return nil
}

// GetMember returns the member or nil. The result must only be changed through ModifyMember.
func (c *Committee) GetMember(id types.CommitteeMemberID) *Member {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.getMember(id)
}

func (c *Committee) getMember(id types.CommitteeMemberID) *Member {
	if member, ok := c.members[id]; ok {
		return member
	}

	tree := c.immutableTree()
	if tree == nil {
		return nil
	}
	_, enc := tree.Get(append([]byte{memberPrefix}, id.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	member := &Member{}
	if err := protocol.Codec.UnmarshalBinaryBare(enc, member); err != nil {
		panic(fmt.Sprintf("failed to decode committee member %s: %s", id, err))
	}
	c.members[id] = member
	c.votes[member.VoteID] = id

	return member
}

func (c *Committee) GetMemberByVoteID(vote types.VoteID) *Member {
	c.lock.Lock()
	defer c.lock.Unlock()

	if id, ok := c.votes[vote]; ok {
		return c.getMember(id)
	}

	tree := c.immutableTree()
	if tree == nil {
		return nil
	}
	_, enc := tree.Get(append([]byte{voteIndexPrefix}, voteIDBytes(vote)...))
	if len(enc) != 8 {
		return nil
	}
	return c.getMember(types.CommitteeMemberIDFromBytes(enc))
}

// MembersCount counts the committee members, committed and pending
func (c *Committee) MembersCount() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	count := 0
	if tree := c.immutableTree(); tree != nil {
		tree.IterateRange([]byte{memberPrefix}, []byte{memberPrefix + 1}, true, func(key, _ []byte) bool {
			if _, ok := c.members[types.CommitteeMemberIDFromBytes(key[1:])]; !ok {
				count++
			}
			return false
		})
	}

	return count + len(c.members)
}

// CreateMember adds a committee member with an already allocated vote id
func (c *Committee) CreateMember(account types.AccountID, vote types.VoteID, url string, committeeAccount types.AccountID) *Member {
	id := types.CommitteeMemberID(c.bus.App().AllocateID(types.CommitteeMemberObjectType))
	member := &Member{
		ID:               id,
		Account:          account,
		VoteID:           vote,
		URL:              url,
		CommitteeAccount: committeeAccount,
	}

	c.lock.Lock()
	c.members[id] = member
	c.votes[vote] = id
	c.dirtyMembers[id] = struct{}{}
	c.lock.Unlock()

	c.bus.Journal().Record(func() {
		c.lock.Lock()
		defer c.lock.Unlock()
		delete(c.members, id)
		delete(c.votes, vote)
		delete(c.dirtyMembers, id)
	})

	return member
}

// ModifyMember applies fn to the member and records how to undo it. The id and vote id never change.
func (c *Committee) ModifyMember(id types.CommitteeMemberID, fn func(m *Member)) error {
	c.lock.Lock()
	member := c.getMember(id)
	if member == nil {
		c.lock.Unlock()
		return code.NewObjectNotFound("committee member", id.String())
	}

	prev := *member
	_, wasDirty := c.dirtyMembers[id]
	fn(member)
	member.ID = prev.ID
	member.VoteID = prev.VoteID
	c.dirtyMembers[id] = struct{}{}
	c.lock.Unlock()

	c.bus.Journal().Record(func() {
		c.lock.Lock()
		defer c.lock.Unlock()
		*member = prev
		if !wasDirty {
			delete(c.dirtyMembers, id)
		}
	})

	return nil
}

// Get returns the committee or nil. The result must only be changed through Modify.
func (c *Committee) Get(id types.CommitteeID) *Model {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.get(id)
}

func (c *Committee) get(id types.CommitteeID) *Model {
	if model, ok := c.committees[id]; ok {
		return model
	}

	tree := c.immutableTree()
	if tree == nil {
		return nil
	}
	_, enc := tree.Get(append([]byte{committeePrefix}, id.Bytes()...))
	if len(enc) == 0 {
		return nil
	}

	model := &Model{}
	if err := protocol.Codec.UnmarshalBinaryBare(enc, model); err != nil {
		panic(fmt.Sprintf("failed to decode committee %s: %s", id, err))
	}
	c.committees[id] = model

	return model
}

// Create allocates the next committee id and builds the committee with init
func (c *Committee) Create(init func(m *Model)) *Model {
	id := types.CommitteeID(c.bus.App().AllocateID(types.CommitteeObjectType))
	model := &Model{}
	init(model)
	model.ID = id

	c.lock.Lock()
	c.committees[id] = model
	c.dirtyCommittees[id] = struct{}{}
	c.lock.Unlock()

	c.bus.Journal().Record(func() {
		c.lock.Lock()
		defer c.lock.Unlock()
		delete(c.committees, id)
		delete(c.dirtyCommittees, id)
	})

	return model
}

// Modify applies fn to the committee and records how to undo it
func (c *Committee) Modify(id types.CommitteeID, fn func(m *Model)) error {
	c.lock.Lock()
	model := c.get(id)
	if model == nil {
		c.lock.Unlock()
		return code.NewObjectNotFound("committee", id.String())
	}

	prev := *model
	_, wasDirty := c.dirtyCommittees[id]
	fn(model)
	model.ID = prev.ID
	c.dirtyCommittees[id] = struct{}{}
	c.lock.Unlock()

	c.bus.Journal().Record(func() {
		c.lock.Lock()
		defer c.lock.Unlock()
		*model = prev
		if !wasDirty {
			delete(c.dirtyCommittees, id)
		}
	})

	return nil
}
