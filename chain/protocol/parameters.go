package protocol

import (
	"fmt"

	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/types"
)

// CoinSecondsAsFeesOptions lets accounts pay part of their fees with accumulated coin-seconds.
// Per-membership vectors are indexed by types.Membership.
type CoinSecondsAsFeesOptions struct {
	// maximum fee payable with coin-seconds, indexed by operation kind; zero or missing disables it
	MaxFeeFromCoinSecondsByOperation []int64
	// coin-seconds consumed per unit of fee
	CoinSecondsAsFeesRate []int64
	// cap on the fee amount an account can accumulate
	MaxAccumulatedFeesFromCoinSeconds []int64
}

func DefaultCoinSecondsAsFeesOptions() *CoinSecondsAsFeesOptions {
	return &CoinSecondsAsFeesOptions{
		MaxFeeFromCoinSecondsByOperation:  nil,
		CoinSecondsAsFeesRate:             []int64{86400 * 20000, 86400 * 5000, 86400 * 10000},
		MaxAccumulatedFeesFromCoinSeconds: []int64{10 * types.BlockchainPrecision, 40 * types.BlockchainPrecision, 20 * types.BlockchainPrecision},
	}
}

// MaxFeeFor returns the coin-seconds fee cap of kind t
func (o *CoinSecondsAsFeesOptions) MaxFeeFor(t types.OpType) int64 {
	if int(t) >= len(o.MaxFeeFromCoinSecondsByOperation) {
		return 0
	}
	return o.MaxFeeFromCoinSecondsByOperation[t]
}

// RateFor returns the coin-seconds per fee unit of membership m
func (o *CoinSecondsAsFeesOptions) RateFor(m types.Membership) int64 {
	if int(m) >= len(o.CoinSecondsAsFeesRate) {
		return 0
	}
	return o.CoinSecondsAsFeesRate[m]
}

// MaxAccumulatedFor returns the accumulated fee cap of membership m
func (o *CoinSecondsAsFeesOptions) MaxAccumulatedFor(m types.Membership) int64 {
	if int(m) >= len(o.MaxAccumulatedFeesFromCoinSeconds) {
		return 0
	}
	return o.MaxAccumulatedFeesFromCoinSeconds[m]
}

func (o *CoinSecondsAsFeesOptions) Validate() error {
	for _, v := range o.MaxFeeFromCoinSecondsByOperation {
		if v < 0 {
			return fmt.Errorf("negative coin-seconds fee cap")
		}
	}
	if len(o.CoinSecondsAsFeesRate) != 3 || len(o.MaxAccumulatedFeesFromCoinSeconds) != 3 {
		return fmt.Errorf("coin-seconds vectors must have one entry per membership")
	}
	for i := range o.CoinSecondsAsFeesRate {
		if o.CoinSecondsAsFeesRate[i] <= 0 {
			return fmt.Errorf("coin-seconds rate must be positive")
		}
		if o.MaxAccumulatedFeesFromCoinSeconds[i] < 0 {
			return fmt.Errorf("negative coin-seconds accumulation cap")
		}
	}
	return nil
}

func (o *CoinSecondsAsFeesOptions) Clone() *CoinSecondsAsFeesOptions {
	if o == nil {
		return nil
	}
	return &CoinSecondsAsFeesOptions{
		MaxFeeFromCoinSecondsByOperation:  append([]int64(nil), o.MaxFeeFromCoinSecondsByOperation...),
		CoinSecondsAsFeesRate:             append([]int64(nil), o.CoinSecondsAsFeesRate...),
		MaxAccumulatedFeesFromCoinSeconds: append([]int64(nil), o.MaxAccumulatedFeesFromCoinSeconds...),
	}
}

type ChainParametersExtensions struct {
	CoinSecondsAsFeesOptions *CoinSecondsAsFeesOptions
}

// ChainParameters are the committee-governed constants of the chain
type ChainParameters struct {
	CurrentFees                   *fees.Schedule
	BlockInterval                 uint32
	MaintenanceInterval           uint32
	MaximumProposalLifetime       uint32
	CommitteeProposalReviewPeriod uint32
	MaximumAuthorityMembership    uint16
	MaximumWitnessCount           uint16
	MaximumCommitteeCount         uint16
	NetworkPercentOfFee           uint16
	LifetimeReferrerPercentOfFee  uint16
	ReservePercentOfFee           uint16
	CashbackVestingPeriodSeconds  uint32
	CashbackVestingThreshold      int64
	AllowNonMemberWhitelists      bool
	AccountFeeScaleBitshifts      uint16
	AccountsPerFeeScale           uint16
	Extensions                    ChainParametersExtensions
}

func DefaultChainParameters() ChainParameters {
	return ChainParameters{
		CurrentFees:                   fees.Default(),
		BlockInterval:                 5,
		MaintenanceInterval:           86400,
		MaximumProposalLifetime:       2419200,
		CommitteeProposalReviewPeriod: 1209600,
		MaximumAuthorityMembership:    10,
		MaximumWitnessCount:           1001,
		MaximumCommitteeCount:         1001,
		NetworkPercentOfFee:           20 * types.Percent1,
		LifetimeReferrerPercentOfFee:  30 * types.Percent1,
		ReservePercentOfFee:           20 * types.Percent1,
		CashbackVestingPeriodSeconds:  31536000,
		CashbackVestingThreshold:      100 * types.BlockchainPrecision,
		AllowNonMemberWhitelists:      false,
		AccountFeeScaleBitshifts:      4,
		AccountsPerFeeScale:           1000,
	}
}

// CoinSecondsOptions returns the configured coin-seconds options or their defaults
func (p ChainParameters) CoinSecondsOptions() *CoinSecondsAsFeesOptions {
	if p.Extensions.CoinSecondsAsFeesOptions != nil {
		return p.Extensions.CoinSecondsAsFeesOptions
	}
	return DefaultCoinSecondsAsFeesOptions()
}

func (p ChainParameters) Validate() error {
	if p.CurrentFees == nil {
		return fmt.Errorf("fee schedule is missing")
	}
	if err := p.CurrentFees.Validate(); err != nil {
		return err
	}
	if p.BlockInterval == 0 {
		return fmt.Errorf("block interval must be positive")
	}
	if p.MaintenanceInterval == 0 || p.MaintenanceInterval%p.BlockInterval != 0 {
		return fmt.Errorf("maintenance interval must be a positive multiple of the block interval")
	}
	if p.NetworkPercentOfFee > types.Percent100 || p.LifetimeReferrerPercentOfFee > types.Percent100 || p.ReservePercentOfFee > types.Percent100 {
		return fmt.Errorf("fee percentages must not exceed 100%%")
	}
	if uint32(p.NetworkPercentOfFee)+uint32(p.LifetimeReferrerPercentOfFee) > types.Percent100 {
		return fmt.Errorf("network and lifetime referrer percentages together exceed 100%%")
	}
	if p.CommitteeProposalReviewPeriod > p.MaximumProposalLifetime {
		return fmt.Errorf("committee review period must not exceed the maximum proposal lifetime")
	}
	if p.AccountFeeScaleBitshifts > 63 {
		return fmt.Errorf("account fee scale bitshifts too large")
	}
	if p.CashbackVestingThreshold < 0 {
		return fmt.Errorf("negative cashback vesting threshold")
	}
	if opts := p.Extensions.CoinSecondsAsFeesOptions; opts != nil {
		return opts.Validate()
	}
	return nil
}

func (p ChainParameters) Clone() ChainParameters {
	c := p
	if p.CurrentFees != nil {
		c.CurrentFees = p.CurrentFees.Clone()
	}
	c.Extensions.CoinSecondsAsFeesOptions = p.Extensions.CoinSecondsAsFeesOptions.Clone()
	return c
}
