package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Object spaces and types of the protocol objects
const (
	ProtocolSpace       = 1
	ImplementationSpace = 2

	AccountObjectType         = 2
	AssetObjectType           = 3
	CommitteeMemberObjectType = 5
	CommitteeObjectType       = 16

	AssetDynamicDataObjectType  = 3
	AccountStatisticsObjectType = 6
)

// ObjectID is the space.type.instance identifier of any stored object
type ObjectID struct {
	Space    uint32
	Type     uint32
	Instance uint64
}

func (id ObjectID) String() string {
	return fmt.Sprintf("%d.%d.%d", id.Space, id.Type, id.Instance)
}

// IsZero reports an absent object id
func (id ObjectID) IsZero() bool {
	return id == ObjectID{}
}

// ParseObjectID parses the dotted space.type.instance form
func ParseObjectID(s string) (ObjectID, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return ObjectID{}, fmt.Errorf("invalid object id %q", s)
	}
	var nums [3]uint64
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return ObjectID{}, fmt.Errorf("invalid object id %q: %s", s, err)
		}
		nums[i] = n
	}
	return ObjectID{Space: uint32(nums[0]), Type: uint32(nums[1]), Instance: nums[2]}, nil
}

// AccountID is the instance of an account object
type AccountID uint64

func (id AccountID) ObjectID() ObjectID {
	return ObjectID{Space: ProtocolSpace, Type: AccountObjectType, Instance: uint64(id)}
}

func (id AccountID) String() string {
	return id.ObjectID().String()
}

func (id AccountID) Bytes() []byte {
	return uint64Bytes(uint64(id))
}

// AssetID is the instance of an asset object
type AssetID uint64

func (id AssetID) ObjectID() ObjectID {
	return ObjectID{Space: ProtocolSpace, Type: AssetObjectType, Instance: uint64(id)}
}

func (id AssetID) String() string {
	return id.ObjectID().String()
}

func (id AssetID) Bytes() []byte {
	return uint64Bytes(uint64(id))
}

// CommitteeMemberID is the instance of a committee member object
type CommitteeMemberID uint64

func (id CommitteeMemberID) ObjectID() ObjectID {
	return ObjectID{Space: ProtocolSpace, Type: CommitteeMemberObjectType, Instance: uint64(id)}
}

func (id CommitteeMemberID) String() string {
	return id.ObjectID().String()
}

func (id CommitteeMemberID) Bytes() []byte {
	return uint64Bytes(uint64(id))
}

// CommitteeID is the instance of a committee object
type CommitteeID uint64

func (id CommitteeID) ObjectID() ObjectID {
	return ObjectID{Space: ProtocolSpace, Type: CommitteeObjectType, Instance: uint64(id)}
}

func (id CommitteeID) String() string {
	return id.ObjectID().String()
}

func (id CommitteeID) Bytes() []byte {
	return uint64Bytes(uint64(id))
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func AccountIDFromBytes(b []byte) AccountID {
	return AccountID(binary.BigEndian.Uint64(b))
}

func AssetIDFromBytes(b []byte) AssetID {
	return AssetID(binary.BigEndian.Uint64(b))
}

func CommitteeMemberIDFromBytes(b []byte) CommitteeMemberID {
	return CommitteeMemberID(binary.BigEndian.Uint64(b))
}
