package types

import (
	"math"
	"time"
)

const (
	// BlockchainPrecision is the number of base units in one whole unit of the core asset
	BlockchainPrecision int64 = 100000

	// Percent100 is 100% expressed in hundredths of a percent
	Percent100 = 10000
	// Percent1 is 1% expressed in hundredths of a percent
	Percent1 = 100

	// MaxShareSupply bounds every amount held by a single object
	MaxShareSupply int64 = 1000000000000000

	MaxURLLength = 127

	MinAccountNameLength = 1
	MaxAccountNameLength = 63
)

// MaxTime is the largest representable second-precision timestamp and marks lifetime membership
var MaxTime = time.Unix(math.MaxUint32, 0).UTC()

// Special accounts created at genesis
const (
	CommitteeAccount        AccountID = 0
	WitnessAccount          AccountID = 1
	RelaxedCommitteeAccount AccountID = 2
	NullAccount             AccountID = 3
	TempAccount             AccountID = 4
	ProxyToSelfAccount      AccountID = 5
)

// CoreAsset is the asset fees are ultimately settled in
const CoreAsset AssetID = 0

// Membership of an account at a point in time, also the index into per-membership parameter vectors
type Membership uint8

const (
	MembershipBasic Membership = iota
	MembershipLifetime
	MembershipAnnual
)

func (m Membership) String() string {
	switch m {
	case MembershipBasic:
		return "basic"
	case MembershipLifetime:
		return "lifetime"
	case MembershipAnnual:
		return "annual"
	}
	return "unknown"
}

// MembershipAt derives membership from the membership expiration date
func MembershipAt(expiration, now time.Time) Membership {
	if !expiration.Before(MaxTime) {
		return MembershipLifetime
	}
	if expiration.After(now) {
		return MembershipAnnual
	}
	return MembershipBasic
}

// TransferFeeMode selects how an asset's transfers are charged
type TransferFeeMode uint8

const (
	TransferFeeModeFlat TransferFeeMode = iota
	TransferFeeModePercentage
)

func (m TransferFeeMode) String() string {
	if m == TransferFeeModePercentage {
		return "percentage"
	}
	return "flat"
}

// CutFee returns percent (in hundredths of a percent) of amount, rounded down
func CutFee(amount int64, percent uint16) int64 {
	if amount == 0 || percent == 0 {
		return 0
	}
	if percent == Percent100 {
		return amount
	}
	return int64(uint64(amount) * uint64(percent) / Percent100)
}
