package accounts

import (
	"math/big"
	"sort"
	"time"

	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/helpers"
)

type Model struct {
	ID   types.AccountID
	Name string

	Registrar        types.AccountID
	Referrer         types.AccountID
	LifetimeReferrer types.AccountID

	NetworkFeePercentage          uint16
	LifetimeReferrerFeePercentage uint16
	ReferrerRewardsPercentage     uint16

	// MembershipExpirationDate is types.MaxTime for lifetime members
	MembershipExpirationDate time.Time

	Owner   protocol.Authority
	Active  protocol.Authority
	Options protocol.AccountOptions

	// accounts that whitelisted or blacklisted this one
	WhitelistingAccounts []types.AccountID
	BlacklistingAccounts []types.AccountID
	// accounts this one whitelisted or blacklisted, informational only
	WhitelistedAccounts []types.AccountID
	BlacklistedAccounts []types.AccountID

	Committee *types.CommitteeID
}

func (m *Model) clone() *Model {
	c := *m
	c.Owner = m.Owner.Clone()
	c.Active = m.Active.Clone()
	c.Options = m.Options.Clone()
	c.WhitelistingAccounts = append([]types.AccountID(nil), m.WhitelistingAccounts...)
	c.BlacklistingAccounts = append([]types.AccountID(nil), m.BlacklistingAccounts...)
	c.WhitelistedAccounts = append([]types.AccountID(nil), m.WhitelistedAccounts...)
	c.BlacklistedAccounts = append([]types.AccountID(nil), m.BlacklistedAccounts...)
	if m.Committee != nil {
		committee := *m.Committee
		c.Committee = &committee
	}
	return &c
}

func (m *Model) Membership(now time.Time) types.Membership {
	return types.MembershipAt(m.MembershipExpirationDate, now)
}

func (m *Model) IsLifetimeMember() bool {
	return !m.MembershipExpirationDate.Before(types.MaxTime)
}

func (m *Model) IsAnnualMember(now time.Time) bool {
	return !m.IsLifetimeMember() && m.MembershipExpirationDate.After(now)
}

func (m *Model) IsBasicAccount(now time.Time) bool {
	return !m.MembershipExpirationDate.After(now)
}

// IsMember reports lifetime or still active annual members
func (m *Model) IsMember(now time.Time) bool {
	return !m.IsBasicAccount(now)
}

// Contains reports whether the sorted set holds id
func Contains(set []types.AccountID, id types.AccountID) bool {
	i := sort.Search(len(set), func(i int) bool { return set[i] >= id })
	return i < len(set) && set[i] == id
}

// Insert adds id to the sorted set
func Insert(set []types.AccountID, id types.AccountID) []types.AccountID {
	i := sort.Search(len(set), func(i int) bool { return set[i] >= id })
	if i < len(set) && set[i] == id {
		return set
	}
	set = append(set, 0)
	copy(set[i+1:], set[i:])
	set[i] = id
	return set
}

// Erase removes id from the sorted set
func Erase(set []types.AccountID, id types.AccountID) []types.AccountID {
	i := sort.Search(len(set), func(i int) bool { return set[i] >= id })
	if i == len(set) || set[i] != id {
		return set
	}
	return append(set[:i], set[i+1:]...)
}

// Statistics holds the fee bookkeeping of an account
type Statistics struct {
	Owner types.AccountID

	// fees waiting for the next payout, split by whether cashback vests
	PendingFees       int64
	PendingVestedFees int64
	// fee share routed to the network without referral split
	PendingNetworkFees int64
	LifetimeFeesPaid   int64

	CashbackVesting int64
	CashbackLiquid  int64

	CoinSecondsEarned           []byte
	CoinSecondsEarnedLastUpdate time.Time
}

func (s *Statistics) clone() *Statistics {
	c := *s
	c.CoinSecondsEarned = append([]byte(nil), s.CoinSecondsEarned...)
	return &c
}

// holdings is the core asset the statistics object keeps on behalf of the chain
func (s *Statistics) holdings() int64 {
	return s.PendingFees + s.PendingVestedFees + s.PendingNetworkFees + s.CashbackVesting + s.CashbackLiquid
}

func (s *Statistics) CoinSeconds() *big.Int {
	return helpers.BytesBigInt(s.CoinSecondsEarned)
}

func (s *Statistics) SetCoinSeconds(value *big.Int, now time.Time) {
	s.CoinSecondsEarned = helpers.BigIntBytes(value)
	s.CoinSecondsEarnedLastUpdate = now
}

// ComputeCoinSecondsEarned adds balance held since the last update to the earned coin-seconds
func (s *Statistics) ComputeCoinSecondsEarned(balance int64, now time.Time) *big.Int {
	earned := s.CoinSeconds()
	seconds := int64(now.Sub(s.CoinSecondsEarnedLastUpdate) / time.Second)
	if seconds <= 0 || balance <= 0 {
		return earned
	}
	delta := new(big.Int).Mul(big.NewInt(balance), big.NewInt(seconds))
	return earned.Add(earned, delta)
}

// PayFee books a core fee, fees above the threshold get vesting cashback
func (s *Statistics) PayFee(coreFee, cashbackVestingThreshold int64) {
	if coreFee > cashbackVestingThreshold {
		s.PendingFees += coreFee
	} else {
		s.PendingVestedFees += coreFee
	}
}

// PayFeePreSplitNetwork books the part of coreFee above minFee straight to the network
func (s *Statistics) PayFeePreSplitNetwork(coreFee, cashbackVestingThreshold, minFee int64) {
	if coreFee > minFee && minFee >= 0 {
		s.PendingNetworkFees += coreFee - minFee
		coreFee = minFee
	}
	s.PayFee(coreFee, cashbackVestingThreshold)
}
