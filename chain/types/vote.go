package types

import "fmt"

// VoteType is the kind of object a vote is cast for
type VoteType uint8

const (
	VoteCommittee VoteType = iota
	VoteWitness
	VoteWorker

	VoteTypeCount
)

func (t VoteType) String() string {
	switch t {
	case VoteCommittee:
		return "committee"
	case VoteWitness:
		return "witness"
	case VoteWorker:
		return "worker"
	}
	return "unknown"
}

// VoteID packs a vote type into the low 8 bits and the instance into the high 24 bits
type VoteID uint32

func NewVoteID(t VoteType, instance uint32) VoteID {
	return VoteID(instance<<8 | uint32(t))
}

func (v VoteID) Type() VoteType {
	return VoteType(v & 0xff)
}

func (v VoteID) Instance() uint32 {
	return uint32(v) >> 8
}

func (v VoteID) String() string {
	return fmt.Sprintf("%d:%d", v.Type(), v.Instance())
}
