package protocol

import (
	"fmt"
	"strings"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/types"
)

// IsValidName reports whether name is a dot separated list of labels, each starting with
// a lowercase letter, ending with a letter or digit and containing only letters, digits and dashes
func IsValidName(name string) bool {
	if len(name) < types.MinAccountNameLength || len(name) > types.MaxAccountNameLength {
		return false
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) < types.MinAccountNameLength {
			return false
		}
		if !isLower(label[0]) {
			return false
		}
		if last := label[len(label)-1]; !isLower(last) && !isDigit(last) {
			return false
		}
		for i := 1; i < len(label)-1; i++ {
			c := label[i]
			if !isLower(c) && !isDigit(c) && c != '-' {
				return false
			}
		}
	}
	return true
}

// IsCheapName reports names charged the basic registration fee: those with a digit or
// punctuation, or without vowels
func IsCheapName(name string) bool {
	vowel := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isDigit(c) || c == '.' || c == '-' || c == '/' {
			return true
		}
		switch c {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			vowel = true
		}
	}
	return !vowel
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// AccountCreate registers a new account paid for by Registrar
type AccountCreate struct {
	Fee             types.Asset
	Registrar       types.AccountID
	Referrer        types.AccountID
	ReferrerPercent uint16
	Name            string
	Owner           Authority
	Active          Authority
	Options         AccountOptions
}

func (op *AccountCreate) Type() types.OpType        { return types.TypeAccountCreate }
func (op *AccountCreate) FeePayer() types.AccountID { return op.Registrar }
func (op *AccountCreate) GetFee() types.Asset       { return op.Fee }
func (op *AccountCreate) SetFee(fee types.Asset)    { op.Fee = fee }
func (op *AccountCreate) IsFeeScalable() bool       { return true }

func (op *AccountCreate) String() string {
	return fmt.Sprintf("ACCOUNT_CREATE name: %s registrar: %s referrer: %s", op.Name, op.Registrar, op.Referrer)
}

func (op *AccountCreate) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if !IsValidName(op.Name) {
		return code.NewInvalidOperation("invalid account name %q", op.Name)
	}
	if op.ReferrerPercent > types.Percent100 {
		return code.NewInvalidOperation("referrer percent %d exceeds 100%%", op.ReferrerPercent)
	}
	if err := validateAccountAuthority("owner", op.Owner); err != nil {
		return code.NewInvalidOperation("%s", err)
	}
	if err := validateAccountAuthority("active", op.Active); err != nil {
		return code.NewInvalidOperation("%s", err)
	}
	if err := op.Options.Validate(); err != nil {
		return code.NewVoteCountMismatch("votes", fmt.Sprintf("%d/%d", op.Options.NumWitness, op.Options.NumCommittee), fmt.Sprintf("%d", len(op.Options.Votes)))
	}
	return nil
}

func (op *AccountCreate) CalculateFee(params fees.Parameters, _ fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.AccountCreateParameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}
	fee := p.BasicFee
	if !IsCheapName(op.Name) {
		fee = p.PremiumFee
	}
	return fee + fees.CalculateDataFee(PackSize(op), uint64(p.PricePerKByte)), nil
}

// CreateCommittee attaches a new committee to the updated account
type CreateCommittee struct {
	CommitteeAsset      types.AssetID
	MinSize             uint16
	MaxSize             uint16
	ReviewPeriodSeconds uint32
}

// UpdateCommittee changes the set fields of the committee of the updated account
type UpdateCommittee struct {
	NewMinSize             *uint16
	NewMaxSize             *uint16
	NewReviewPeriodSeconds *uint32
}

type AccountUpdateExtensions struct {
	CreateCommittee *CreateCommittee
	UpdateCommittee *UpdateCommittee
}

// AccountUpdate overwrites the given authorities and options of Account
type AccountUpdate struct {
	Fee        types.Asset
	Account    types.AccountID
	Owner      *Authority
	Active     *Authority
	NewOptions *AccountOptions
	Extensions AccountUpdateExtensions
}

func (op *AccountUpdate) Type() types.OpType        { return types.TypeAccountUpdate }
func (op *AccountUpdate) FeePayer() types.AccountID { return op.Account }
func (op *AccountUpdate) GetFee() types.Asset       { return op.Fee }
func (op *AccountUpdate) SetFee(fee types.Asset)    { op.Fee = fee }
func (op *AccountUpdate) IsFeeScalable() bool       { return true }

func (op *AccountUpdate) String() string {
	return fmt.Sprintf("ACCOUNT_UPDATE account: %s", op.Account)
}

func (op *AccountUpdate) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.Account == types.TempAccount {
		return code.NewInvalidOperation("can not update the temp account")
	}

	ext := op.Extensions
	if op.Owner == nil && op.Active == nil && op.NewOptions == nil && ext.CreateCommittee == nil && ext.UpdateCommittee == nil {
		return code.NewInvalidOperation("account update changes nothing")
	}
	if op.Owner != nil {
		if err := validateAccountAuthority("owner", *op.Owner); err != nil {
			return code.NewInvalidOperation("%s", err)
		}
	}
	if op.Active != nil {
		if err := validateAccountAuthority("active", *op.Active); err != nil {
			return code.NewInvalidOperation("%s", err)
		}
	}
	if op.NewOptions != nil {
		if err := op.NewOptions.Validate(); err != nil {
			return code.NewVoteCountMismatch("votes", fmt.Sprintf("%d/%d", op.NewOptions.NumWitness, op.NewOptions.NumCommittee), fmt.Sprintf("%d", len(op.NewOptions.Votes)))
		}
	}

	if ext.CreateCommittee != nil && ext.UpdateCommittee != nil {
		return code.NewInvalidOperation("can not create and update a committee in one operation")
	}
	if c := ext.CreateCommittee; c != nil {
		if c.MaxSize == 0 || c.MinSize > c.MaxSize {
			return code.NewInvalidCommitteeSize(fmt.Sprint(c.MinSize), fmt.Sprint(c.MaxSize))
		}
	}
	if u := ext.UpdateCommittee; u != nil {
		if u.NewMinSize == nil && u.NewMaxSize == nil && u.NewReviewPeriodSeconds == nil {
			return code.NewInvalidOperation("committee update changes nothing")
		}
		if u.NewMinSize != nil && u.NewMaxSize != nil && *u.NewMinSize > *u.NewMaxSize {
			return code.NewInvalidCommitteeSize(fmt.Sprint(*u.NewMinSize), fmt.Sprint(*u.NewMaxSize))
		}
	}
	return nil
}

func (op *AccountUpdate) CalculateFee(params fees.Parameters, _ fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.AccountUpdateParameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}
	return p.Fee + fees.CalculateDataFee(PackSize(op), uint64(p.PricePerKByte)), nil
}

// Listing flags of AccountWhitelist
const (
	NoListing           uint16 = 0x0
	WhiteListed         uint16 = 0x1
	BlackListed         uint16 = 0x2
	WhiteAndBlackListed uint16 = WhiteListed | BlackListed
)

// AccountWhitelist sets the listing of AccountToList by AuthorizingAccount
type AccountWhitelist struct {
	Fee                types.Asset
	AuthorizingAccount types.AccountID
	AccountToList      types.AccountID
	NewListing         uint16
}

func (op *AccountWhitelist) Type() types.OpType        { return types.TypeAccountWhitelist }
func (op *AccountWhitelist) FeePayer() types.AccountID { return op.AuthorizingAccount }
func (op *AccountWhitelist) GetFee() types.Asset       { return op.Fee }
func (op *AccountWhitelist) SetFee(fee types.Asset)    { op.Fee = fee }
func (op *AccountWhitelist) IsFeeScalable() bool       { return true }

func (op *AccountWhitelist) String() string {
	return fmt.Sprintf("ACCOUNT_WHITELIST authorizing: %s account: %s listing: %d", op.AuthorizingAccount, op.AccountToList, op.NewListing)
}

func (op *AccountWhitelist) Validate() error {
	if err := validateFee(op.Fee); err != nil {
		return err
	}
	if op.NewListing > WhiteAndBlackListed {
		return code.NewInvalidOperation("invalid listing %d", op.NewListing)
	}
	return nil
}

func (op *AccountWhitelist) CalculateFee(params fees.Parameters, _ fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.AccountWhitelistParameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}
	return p.Fee, nil
}

// AccountUpgrade buys an annual or lifetime membership
type AccountUpgrade struct {
	Fee                     types.Asset
	AccountToUpgrade        types.AccountID
	UpgradeToLifetimeMember bool
}

func (op *AccountUpgrade) Type() types.OpType        { return types.TypeAccountUpgrade }
func (op *AccountUpgrade) FeePayer() types.AccountID { return op.AccountToUpgrade }
func (op *AccountUpgrade) GetFee() types.Asset       { return op.Fee }
func (op *AccountUpgrade) SetFee(fee types.Asset)    { op.Fee = fee }
func (op *AccountUpgrade) IsFeeScalable() bool       { return true }

func (op *AccountUpgrade) String() string {
	return fmt.Sprintf("ACCOUNT_UPGRADE account: %s lifetime: %t", op.AccountToUpgrade, op.UpgradeToLifetimeMember)
}

func (op *AccountUpgrade) Validate() error {
	return validateFee(op.Fee)
}

func (op *AccountUpgrade) CalculateFee(params fees.Parameters, _ fees.ExtendedContext) (uint64, error) {
	p, ok := params.(*fees.AccountUpgradeParameters)
	if !ok {
		return 0, wrongParameters(op.Type(), params)
	}
	if op.UpgradeToLifetimeMember {
		return p.MembershipLifetimeFee, nil
	}
	return p.MembershipAnnualFee, nil
}
