package code

import (
	"strconv"
)

// Codes for operation evaluation responses
const (
	// general
	OK                   uint32 = 0
	Internal             uint32 = 1
	UnknownOperation     uint32 = 100
	InvalidOperation     uint32 = 101
	ObjectNotFound       uint32 = 102
	InsufficientFee      uint32 = 103
	InsufficientFunds    uint32 = 104
	NegativeFee          uint32 = 105
	UnauthorizedFeeAsset uint32 = 106
	FeePoolNotSufficient uint32 = 107
	UnsupportedFeeMode   uint32 = 108
	FeeOverflow          uint32 = 109
	HardforkNotActive    uint32 = 110
	NotProposed          uint32 = 111

	// internal, must be recoded by the caller
	InternalVerifyAuthMaxAuthExceeded uint32 = 150
	InternalVerifyAuthAccountNotFound uint32 = 151

	// account
	AccountCreateMaxAuthExceeded     uint32 = 200
	AccountCreateAuthAccountNotFound uint32 = 201
	AccountUpdateMaxAuthExceeded     uint32 = 202
	AccountUpdateAuthAccountNotFound uint32 = 203
	NotLifetimeMember                uint32 = 204
	ReferrerNotMember                uint32 = 205
	TooManyVotes                     uint32 = 206
	InvalidVoteID                    uint32 = 207
	VoteCountMismatch                uint32 = 208
	AccountNameExists                uint32 = 209
	AlreadyLifetimeMember            uint32 = 210
	MembershipTooFar                 uint32 = 211
	CommitteeExists                  uint32 = 212
	CommitteeNotExists               uint32 = 213
	InvalidCommitteeSize             uint32 = 214
	ReviewPeriodTooLong              uint32 = 215
	InsufficientCommitteeVotes       uint32 = 216

	// committee member
	CommitteeMemberAccountMismatch uint32 = 300

	// transfer
	TransferFromAccountNotWhitelisted uint32 = 400
	TransferToAccountNotWhitelisted   uint32 = 401
	TransferRestrictedAsset           uint32 = 402
	OverrideTransferNotPermitted      uint32 = 403
	IsNotAssetIssuer                  uint32 = 404
)

type objectNotFound struct {
	Code   string `json:"code,omitempty"`
	Object string `json:"object,omitempty"`
	ID     string `json:"id,omitempty"`
}

func NewObjectNotFound(object, id string) *Error {
	return newError(ObjectNotFound, &objectNotFound{Code: strconv.Itoa(int(ObjectNotFound)), Object: object, ID: id},
		"%s %s not found", object, id)
}

type insufficientFee struct {
	Code     string `json:"code,omitempty"`
	Required string `json:"required,omitempty"`
	Paid     string `json:"paid,omitempty"`
}

func NewInsufficientFee(required, paid string) *Error {
	return newError(InsufficientFee, &insufficientFee{Code: strconv.Itoa(int(InsufficientFee)), Required: required, Paid: paid},
		"insufficient fee paid: required %s, paid %s", required, paid)
}

type insufficientFunds struct {
	Code        string `json:"code,omitempty"`
	Account     string `json:"account,omitempty"`
	NeededValue string `json:"needed_value,omitempty"`
	Balance     string `json:"balance,omitempty"`
	AssetID     string `json:"asset_id,omitempty"`
}

func NewInsufficientFunds(account, neededValue, balance, assetID string) *Error {
	return newError(InsufficientFunds, &insufficientFunds{Code: strconv.Itoa(int(InsufficientFunds)), Account: account, NeededValue: neededValue, Balance: balance, AssetID: assetID},
		"insufficient balance for %s: %s of %s needed, %s available", account, neededValue, assetID, balance)
}

type accountAsset struct {
	Code    string `json:"code,omitempty"`
	Account string `json:"account,omitempty"`
	AssetID string `json:"asset_id,omitempty"`
}

func NewUnauthorizedFeeAsset(account, assetID string) *Error {
	return newError(UnauthorizedFeeAsset, &accountAsset{Code: strconv.Itoa(int(UnauthorizedFeeAsset)), Account: account, AssetID: assetID},
		"account %s is not authorized to pay fees in %s", account, assetID)
}

func NewTransferFromAccountNotWhitelisted(account, assetID string) *Error {
	return newError(TransferFromAccountNotWhitelisted, &accountAsset{Code: strconv.Itoa(int(TransferFromAccountNotWhitelisted)), Account: account, AssetID: assetID},
		"'from' account %s is not whitelisted for asset %s", account, assetID)
}

func NewTransferToAccountNotWhitelisted(account, assetID string) *Error {
	return newError(TransferToAccountNotWhitelisted, &accountAsset{Code: strconv.Itoa(int(TransferToAccountNotWhitelisted)), Account: account, AssetID: assetID},
		"'to' account %s is not whitelisted for asset %s", account, assetID)
}

func NewTransferRestrictedAsset(assetID string) *Error {
	return newError(TransferRestrictedAsset, &accountAsset{Code: strconv.Itoa(int(TransferRestrictedAsset)), AssetID: assetID},
		"asset %s has transfer_restricted flag enabled", assetID)
}

func NewOverrideTransferNotPermitted(assetID string) *Error {
	return newError(OverrideTransferNotPermitted, &accountAsset{Code: strconv.Itoa(int(OverrideTransferNotPermitted)), AssetID: assetID},
		"override_transfer not permitted for asset %s", assetID)
}

func NewIsNotAssetIssuer(account, assetID string) *Error {
	return newError(IsNotAssetIssuer, &accountAsset{Code: strconv.Itoa(int(IsNotAssetIssuer)), Account: account, AssetID: assetID},
		"account %s is not the issuer of %s", account, assetID)
}

type feePoolNotSufficient struct {
	Code    string `json:"code,omitempty"`
	AssetID string `json:"asset_id,omitempty"`
	FeePool string `json:"fee_pool,omitempty"`
	Needed  string `json:"needed,omitempty"`
}

func NewFeePoolNotSufficient(assetID, feePool, needed string) *Error {
	return newError(FeePoolNotSufficient, &feePoolNotSufficient{Code: strconv.Itoa(int(FeePoolNotSufficient)), AssetID: assetID, FeePool: feePool, Needed: needed},
		"fee pool of %s has %s, %s needed", assetID, feePool, needed)
}

type membership struct {
	Code       string `json:"code,omitempty"`
	Account    string `json:"account,omitempty"`
	Membership string `json:"membership,omitempty"`
}

func NewNotLifetimeMember(account, current string) *Error {
	return newError(NotLifetimeMember, &membership{Code: strconv.Itoa(int(NotLifetimeMember)), Account: account, Membership: current},
		"account %s is not a lifetime member", account)
}

func NewReferrerNotMember(account, current string) *Error {
	return newError(ReferrerNotMember, &membership{Code: strconv.Itoa(int(ReferrerNotMember)), Account: account, Membership: current},
		"referrer %s is not a member", account)
}

func NewAlreadyLifetimeMember(account string) *Error {
	return newError(AlreadyLifetimeMember, &membership{Code: strconv.Itoa(int(AlreadyLifetimeMember)), Account: account, Membership: "lifetime"},
		"account %s is already a lifetime member", account)
}

type limitExceeded struct {
	Code  string `json:"code,omitempty"`
	What  string `json:"what,omitempty"`
	Limit string `json:"limit,omitempty"`
	Got   string `json:"got,omitempty"`
}

func NewTooManyVotes(what, limit, got string) *Error {
	return newError(TooManyVotes, &limitExceeded{Code: strconv.Itoa(int(TooManyVotes)), What: what, Limit: limit, Got: got},
		"voted for more %s than currently allowed (%s > %s)", what, got, limit)
}

func NewVoteCountMismatch(what, requested, got string) *Error {
	return newError(VoteCountMismatch, &limitExceeded{Code: strconv.Itoa(int(VoteCountMismatch)), What: what, Limit: requested, Got: got},
		"requested %s %s but cast %s votes", requested, what, got)
}

func NewMembershipTooFar(limit, got string) *Error {
	return newError(MembershipTooFar, &limitExceeded{Code: strconv.Itoa(int(MembershipTooFar)), What: "membership", Limit: limit, Got: got},
		"membership renewed too far in the future: %s left, %s allowed", got, limit)
}

func NewReviewPeriodTooLong(limit, got string) *Error {
	return newError(ReviewPeriodTooLong, &limitExceeded{Code: strconv.Itoa(int(ReviewPeriodTooLong)), What: "review_period", Limit: limit, Got: got},
		"review period %s exceeds maximum proposal lifetime %s", got, limit)
}

func NewInvalidCommitteeSize(min, max string) *Error {
	return newError(InvalidCommitteeSize, &limitExceeded{Code: strconv.Itoa(int(InvalidCommitteeSize)), What: "committee_size", Limit: max, Got: min},
		"committee min size %s exceeds max size %s", min, max)
}

func NewInsufficientCommitteeVotes(committee, requested, got string) *Error {
	return newError(InsufficientCommitteeVotes, &limitExceeded{Code: strconv.Itoa(int(InsufficientCommitteeVotes)), What: committee, Limit: requested, Got: got},
		"committee %s size %s requested with %s votes", committee, requested, got)
}

type invalidVoteID struct {
	Code            string `json:"code,omitempty"`
	VoteID          string `json:"vote_id,omitempty"`
	NextAvailableID string `json:"next_available_id,omitempty"`
}

func NewInvalidVoteID(voteID, next string) *Error {
	return newError(InvalidVoteID, &invalidVoteID{Code: strconv.Itoa(int(InvalidVoteID)), VoteID: voteID, NextAvailableID: next},
		"can not vote for %s which does not exist", voteID)
}

type accountName struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
	ID   string `json:"id,omitempty"`
}

func NewAccountNameExists(name, id string) *Error {
	return newError(AccountNameExists, &accountName{Code: strconv.Itoa(int(AccountNameExists)), Name: name, ID: id},
		"account name %s is already registered by %s", name, id)
}

type committeeState struct {
	Code      string `json:"code,omitempty"`
	Account   string `json:"account,omitempty"`
	Committee string `json:"committee,omitempty"`
}

func NewCommitteeExists(account, committee string) *Error {
	return newError(CommitteeExists, &committeeState{Code: strconv.Itoa(int(CommitteeExists)), Account: account, Committee: committee},
		"account %s already has committee %s", account, committee)
}

func NewCommitteeNotExists(account string) *Error {
	return newError(CommitteeNotExists, &committeeState{Code: strconv.Itoa(int(CommitteeNotExists)), Account: account},
		"account %s has no committee", account)
}

func NewCommitteeMemberAccountMismatch(account, committee string) *Error {
	return newError(CommitteeMemberAccountMismatch, &committeeState{Code: strconv.Itoa(int(CommitteeMemberAccountMismatch)), Account: account, Committee: committee},
		"committee member %s does not belong to %s", committee, account)
}

type hardforkNotActive struct {
	Code       string `json:"code,omitempty"`
	Feature    string `json:"feature,omitempty"`
	Activation string `json:"activation,omitempty"`
}

func NewHardforkNotActive(feature, activation string) *Error {
	return newError(HardforkNotActive, &hardforkNotActive{Code: strconv.Itoa(int(HardforkNotActive)), Feature: feature, Activation: activation},
		"%s is not allowed until %s", feature, activation)
}

type authority struct {
	Code    string `json:"code,omitempty"`
	Account string `json:"account,omitempty"`
	Limit   string `json:"limit,omitempty"`
	Got     string `json:"got,omitempty"`
}

func NewVerifyAuthMaxAuthExceeded(limit, got string) *Error {
	return newError(InternalVerifyAuthMaxAuthExceeded, &authority{Code: strconv.Itoa(int(InternalVerifyAuthMaxAuthExceeded)), Limit: limit, Got: got},
		"authority has %s members, maximum is %s", got, limit)
}

func NewVerifyAuthAccountNotFound(account string) *Error {
	return newError(InternalVerifyAuthAccountNotFound, &authority{Code: strconv.Itoa(int(InternalVerifyAuthAccountNotFound)), Account: account},
		"authority account %s not found", account)
}

type simple struct {
	Code string `json:"code,omitempty"`
}

func NewNegativeFee(fee string) *Error {
	return newError(NegativeFee, &simple{Code: strconv.Itoa(int(NegativeFee))}, "fee %s is negative", fee)
}

func NewNotProposed(op string) *Error {
	return newError(NotProposed, &simple{Code: strconv.Itoa(int(NotProposed))}, "%s must be executed as a proposed transaction", op)
}

func NewUnknownOperation(op string) *Error {
	return newError(UnknownOperation, &simple{Code: strconv.Itoa(int(UnknownOperation))}, "no evaluator registered for operation %s", op)
}

func NewUnsupportedFeeMode(op, mode string) *Error {
	return newError(UnsupportedFeeMode, &simple{Code: strconv.Itoa(int(UnsupportedFeeMode))}, "%s does not support %s fee mode", op, mode)
}

func NewFeeOverflow(msg string) *Error {
	return newError(FeeOverflow, &simple{Code: strconv.Itoa(int(FeeOverflow))}, "%s", msg)
}

// NewInvalidOperation reports a stateless validation failure
func NewInvalidOperation(format string, args ...interface{}) *Error {
	return newError(InvalidOperation, &simple{Code: strconv.Itoa(int(InvalidOperation))}, format, args...)
}
