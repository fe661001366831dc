package protocol

import (
	"fmt"

	"github.com/cryptonomex/graphene/chain/types"
)

// CommitteeSizeVote asks for a committee of CommitteeAccount to have Size members
type CommitteeSizeVote struct {
	CommitteeAccount types.AccountID
	Size             uint16
}

type AccountOptionsExtensions struct {
	VoteCommitteeSize []CommitteeSizeVote
}

// AccountOptions are the voting preferences an account may change at will
type AccountOptions struct {
	MemoKey       types.PublicKey
	VotingAccount types.AccountID
	NumWitness    uint16
	NumCommittee  uint16
	Votes         []types.VoteID
	Extensions    AccountOptionsExtensions
}

// Validate requires enough votes of each kind for the requested counts
func (o AccountOptions) Validate() error {
	if len(o.MemoKey) != 0 {
		if err := o.MemoKey.Validate(); err != nil {
			return err
		}
	}

	seen := map[types.VoteID]struct{}{}
	neededWitnesses, neededCommittee := o.NumWitness, o.NumCommittee
	for _, id := range o.Votes {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate vote %s", id)
		}
		seen[id] = struct{}{}

		if id.Type() == types.VoteWitness && neededWitnesses > 0 {
			neededWitnesses--
		} else if id.Type() == types.VoteCommittee && neededCommittee > 0 {
			neededCommittee--
		}
	}
	if neededWitnesses != 0 || neededCommittee != 0 {
		return fmt.Errorf("may not specify fewer witnesses or committee members than the number voted for")
	}

	committees := map[types.AccountID]struct{}{}
	for _, v := range o.Extensions.VoteCommitteeSize {
		if _, ok := committees[v.CommitteeAccount]; ok {
			return fmt.Errorf("duplicate committee size vote for %s", v.CommitteeAccount)
		}
		committees[v.CommitteeAccount] = struct{}{}
	}

	return nil
}

func (o AccountOptions) Clone() AccountOptions {
	c := o
	c.MemoKey = append(types.PublicKey(nil), o.MemoKey...)
	c.Votes = append([]types.VoteID(nil), o.Votes...)
	c.Extensions.VoteCommitteeSize = append([]CommitteeSizeVote(nil), o.Extensions.VoteCommitteeSize...)
	return c
}

// Asset flags and issuer permissions
const (
	ChargeMarketFee       uint16 = 0x01
	WhiteList             uint16 = 0x02
	OverrideAuthority     uint16 = 0x04
	TransferRestricted    uint16 = 0x08
	DisableForceSettle    uint16 = 0x10
	GlobalSettle          uint16 = 0x20
	DisableConfidential   uint16 = 0x40
	WitnessFedAsset       uint16 = 0x80
	CommitteeFedAsset     uint16 = 0x100
	PercentageTransferFee uint16 = 0x200
)

// AssetOptions are the issuer-controlled settings of an asset
type AssetOptions struct {
	MaxSupply            int64
	MarketFeePercent     uint16
	MaxMarketFee         int64
	IssuerPermissions    uint16
	Flags                uint16
	CoreExchangeRate     types.Price
	WhitelistAuthorities []types.AccountID
	BlacklistAuthorities []types.AccountID
	Description          string
}

func (o AssetOptions) HasFlag(flag uint16) bool {
	return o.Flags&flag != 0
}

// TransferFeeMode derives the transfer fee mode from the flags
func (o AssetOptions) TransferFeeMode() types.TransferFeeMode {
	if o.HasFlag(PercentageTransferFee) {
		return types.TransferFeeModePercentage
	}
	return types.TransferFeeModeFlat
}

// SetTransferFeeMode rewrites the flag carrying mode
func (o *AssetOptions) SetTransferFeeMode(mode types.TransferFeeMode) {
	if mode == types.TransferFeeModePercentage {
		o.Flags |= PercentageTransferFee
	} else {
		o.Flags &^= PercentageTransferFee
	}
}

func (o AssetOptions) Validate() error {
	if o.MaxSupply <= 0 || o.MaxSupply > types.MaxShareSupply {
		return fmt.Errorf("max supply %d out of range", o.MaxSupply)
	}
	if o.MarketFeePercent > types.Percent100 {
		return fmt.Errorf("market fee percent %d exceeds 100%%", o.MarketFeePercent)
	}
	if o.MaxMarketFee < 0 || o.MaxMarketFee > types.MaxShareSupply {
		return fmt.Errorf("max market fee %d out of range", o.MaxMarketFee)
	}
	if !o.CoreExchangeRate.IsZero() {
		if err := o.CoreExchangeRate.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o AssetOptions) Clone() AssetOptions {
	c := o
	c.WhitelistAuthorities = append([]types.AccountID(nil), o.WhitelistAuthorities...)
	c.BlacklistAuthorities = append([]types.AccountID(nil), o.BlacklistAuthorities...)
	return c
}
