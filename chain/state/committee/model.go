package committee

import (
	"github.com/cryptonomex/graphene/chain/types"
)

// Member is a committee candidate voted for by vote id
type Member struct {
	ID         types.CommitteeMemberID
	Account    types.AccountID
	VoteID     types.VoteID
	TotalVotes uint64
	URL        string
	// CommitteeAccount is the committee the member stands for
	CommitteeAccount types.AccountID
}

// Model is a committee attached to an account
type Model struct {
	ID                  types.CommitteeID
	CommitteeAccount    types.AccountID
	CommitteeAsset      types.AssetID
	MinSize             uint16
	MaxSize             uint16
	ReviewPeriodSeconds uint32
}
