package transaction

import (
	"strconv"
	"time"

	"github.com/cryptonomex/graphene/chain/code"
	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/protocol"
	"github.com/cryptonomex/graphene/chain/state"
	"github.com/cryptonomex/graphene/chain/state/accounts"
	"github.com/cryptonomex/graphene/chain/state/app"
	"github.com/cryptonomex/graphene/chain/state/committee"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/log"
	"github.com/cryptonomex/graphene/upgrades"
)

const (
	membershipYear = 365 * 24 * time.Hour
	// maxMembershipAhead bounds how far annual renewals may push the expiration date
	maxMembershipAhead = 3650 * 24 * time.Hour
)

// verifyOptions checks the vote counts of options against the chain limits and the allocated vote ids
func verifyOptions(ctx *Context, options protocol.AccountOptions) error {
	if options.NumWitness > ctx.Params.MaximumWitnessCount {
		return code.NewTooManyVotes("witness", strconv.Itoa(int(ctx.Params.MaximumWitnessCount)), strconv.Itoa(int(options.NumWitness)))
	}
	if options.NumCommittee > ctx.Params.MaximumCommitteeCount {
		return code.NewTooManyVotes("committee", strconv.Itoa(int(ctx.Params.MaximumCommitteeCount)), strconv.Itoa(int(options.NumCommittee)))
	}

	next := ctx.App().NextAvailableVoteID()
	for _, id := range options.Votes {
		if id.Instance() >= next {
			return code.NewInvalidVoteID(id.String(), strconv.FormatUint(uint64(next), 10))
		}
	}
	return nil
}

// verifyCommitteeSizeVotes requires a vote for at least n members of a committee to vote for its size n
func verifyCommitteeSizeVotes(ctx *Context, options protocol.AccountOptions) error {
	if len(options.Extensions.VoteCommitteeSize) == 0 {
		return nil
	}

	tally := map[types.AccountID]int{}
	for _, id := range options.Votes {
		if id.Type() != types.VoteCommittee {
			continue
		}
		member := ctx.Committee().GetMemberByVoteID(id)
		if member == nil {
			return code.NewObjectNotFound("committee member", id.String())
		}
		tally[member.CommitteeAccount]++
	}

	for _, v := range options.Extensions.VoteCommitteeSize {
		if !ctx.Accounts().Exists(v.CommitteeAccount) {
			return code.NewObjectNotFound("committee account", v.CommitteeAccount.String())
		}
		if v.Size == 0 {
			continue
		}
		if got := tally[v.CommitteeAccount]; got < int(v.Size) {
			return code.NewInsufficientCommitteeVotes(v.CommitteeAccount.String(), strconv.Itoa(int(v.Size)), strconv.Itoa(got))
		}
	}
	return nil
}

type AccountCreateEvaluator struct{}

func (e *AccountCreateEvaluator) OpType() types.OpType { return types.TypeAccountCreate }

func (e *AccountCreateEvaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.AccountCreate)
	if !ok {
		return nil, wrongOperation(e, op)
	}

	if !ctx.Accounts().Exists(o.Options.VotingAccount) {
		return nil, code.NewObjectNotFound("voting account", o.Options.VotingAccount.String())
	}
	registrar := ctx.Accounts().Get(o.Registrar)
	if registrar == nil {
		return nil, code.NewObjectNotFound("registrar", o.Registrar.String())
	}
	if !registrar.IsLifetimeMember() {
		return nil, code.NewNotLifetimeMember(o.Registrar.String(), registrar.Membership(ctx.Now).String())
	}
	referrer := ctx.Accounts().Get(o.Referrer)
	if referrer == nil {
		return nil, code.NewObjectNotFound("referrer", o.Referrer.String())
	}
	if !referrer.IsMember(ctx.Now) {
		return nil, code.NewReferrerNotMember(o.Referrer.String(), referrer.Membership(ctx.Now).String())
	}

	if err := verifyAuthorityAccounts(ctx, o.Owner); err != nil {
		return nil, code.Recode(err, accountCreateAuthCodes)
	}
	if err := verifyAuthorityAccounts(ctx, o.Active); err != nil {
		return nil, code.Recode(err, accountCreateAuthCodes)
	}

	if err := verifyOptions(ctx, o.Options); err != nil {
		return nil, err
	}
	var counts [types.VoteTypeCount]int
	for _, id := range o.Options.Votes {
		if id.Type() < types.VoteTypeCount {
			counts[id.Type()]++
		}
	}
	if got := counts[types.VoteWitness]; got > int(o.Options.NumWitness) {
		return nil, code.NewVoteCountMismatch("witness", strconv.Itoa(int(o.Options.NumWitness)), strconv.Itoa(got))
	}
	if got := counts[types.VoteCommittee]; got > int(o.Options.NumCommittee) {
		return nil, code.NewVoteCountMismatch("committee", strconv.Itoa(int(o.Options.NumCommittee)), strconv.Itoa(got))
	}

	if existing := ctx.Accounts().GetByName(o.Name); existing != nil {
		return nil, code.NewAccountNameExists(o.Name, existing.ID.String())
	}

	return ApplierFunc(func(ctx *Context, s *state.State) (protocol.Result, error) {
		return e.apply(ctx, s, o)
	}), nil
}

func (e *AccountCreateEvaluator) apply(ctx *Context, s *state.State, o *protocol.AccountCreate) (protocol.Result, error) {
	referrerPercent := o.ReferrerPercent
	// Before the fix, small referrer percentages were read as whole percents
	smallPercent := !upgrades.IsActive(upgrades.ReferrerPercentTime, ctx.Now) &&
		o.Referrer != o.Registrar &&
		o.ReferrerPercent != 0 &&
		o.ReferrerPercent <= 0x100
	if smallPercent {
		if referrerPercent >= 100 {
			log.Info("Referrer percent between 100% and 0x100%", "name", o.Name, "percent", referrerPercent)
		}
		scaled := uint32(referrerPercent) * 100
		if scaled > types.Percent100 {
			scaled = types.Percent100
		}
		referrerPercent = uint16(scaled)
	}

	lifetimeReferrer := s.Accounts.Get(o.Referrer).LifetimeReferrer
	params := ctx.Params
	account := s.Accounts.Create(func(m *accounts.Model) {
		m.Name = o.Name
		m.Registrar = o.Registrar
		m.Referrer = o.Referrer
		m.LifetimeReferrer = lifetimeReferrer
		m.NetworkFeePercentage = params.NetworkPercentOfFee
		m.LifetimeReferrerFeePercentage = params.LifetimeReferrerPercentOfFee
		m.ReferrerRewardsPercentage = referrerPercent
		m.Owner = o.Owner.Clone()
		m.Active = o.Active.Clone()
		m.Options = o.Options.Clone()
	})

	if smallPercent {
		log.Info("Account registered with a rescaled referrer percent",
			"height", s.App.DynamicProperties().HeadBlockNumber,
			"account", account.ID, "registrar", o.Registrar, "referrer", o.Referrer,
			"referrer_percent", referrerPercent, "lifetime_referrer", lifetimeReferrer)
	}

	s.App.ModifyDynamic(func(d *app.DynamicProperties) { d.AccountsRegisteredThisInterval++ })
	registered := s.App.DynamicProperties().AccountsRegisteredThisInterval
	if perScale := uint32(params.AccountsPerFeeScale); perScale != 0 && registered%perScale == 0 {
		s.App.ModifyGlobal(func(g *app.GlobalProperties) {
			if p, ok := g.Parameters.CurrentFees.Get(types.TypeAccountCreate).(*fees.AccountCreateParameters); ok {
				p.BasicFee <<= g.Parameters.AccountFeeScaleBitshifts
			}
		})
	}

	return protocol.Result{NewObject: account.ID.ObjectID()}, nil
}

type AccountUpdateEvaluator struct{}

func (e *AccountUpdateEvaluator) OpType() types.OpType { return types.TypeAccountUpdate }

func (e *AccountUpdateEvaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.AccountUpdate)
	if !ok {
		return nil, wrongOperation(e, op)
	}

	if o.Owner != nil {
		if err := verifyAuthorityAccounts(ctx, *o.Owner); err != nil {
			return nil, code.Recode(err, accountUpdateAuthCodes)
		}
	}
	if o.Active != nil {
		if err := verifyAuthorityAccounts(ctx, *o.Active); err != nil {
			return nil, code.Recode(err, accountUpdateAuthCodes)
		}
	}

	account := ctx.Accounts().Get(o.Account)
	if account == nil {
		return nil, code.NewObjectNotFound("account", o.Account.String())
	}

	if o.NewOptions != nil {
		if err := verifyOptions(ctx, *o.NewOptions); err != nil {
			return nil, err
		}
		if err := verifyCommitteeSizeVotes(ctx, *o.NewOptions); err != nil {
			return nil, err
		}
	}

	maxLifetime := ctx.Params.MaximumProposalLifetime
	if c := o.Extensions.CreateCommittee; c != nil {
		if account.Committee != nil {
			return nil, code.NewCommitteeExists(o.Account.String(), account.Committee.String())
		}
		if !account.IsLifetimeMember() {
			return nil, code.NewNotLifetimeMember(o.Account.String(), account.Membership(ctx.Now).String())
		}
		if c.ReviewPeriodSeconds > maxLifetime {
			return nil, code.NewReviewPeriodTooLong(strconv.FormatUint(uint64(maxLifetime), 10), strconv.FormatUint(uint64(c.ReviewPeriodSeconds), 10))
		}
		if !ctx.Assets().Exists(c.CommitteeAsset) {
			return nil, code.NewObjectNotFound("committee asset", c.CommitteeAsset.String())
		}
	}

	if u := o.Extensions.UpdateCommittee; u != nil {
		if account.Committee == nil {
			return nil, code.NewCommitteeNotExists(o.Account.String())
		}
		current := ctx.Committee().Get(*account.Committee)
		if current == nil {
			return nil, code.NewObjectNotFound("committee", account.Committee.String())
		}
		newMin, newMax := current.MinSize, current.MaxSize
		if u.NewMinSize != nil {
			newMin = *u.NewMinSize
		}
		if u.NewMaxSize != nil {
			newMax = *u.NewMaxSize
		}
		if newMin > newMax {
			return nil, code.NewInvalidCommitteeSize(strconv.Itoa(int(newMin)), strconv.Itoa(int(newMax)))
		}
		if u.NewReviewPeriodSeconds != nil && *u.NewReviewPeriodSeconds > maxLifetime {
			return nil, code.NewReviewPeriodTooLong(strconv.FormatUint(uint64(maxLifetime), 10), strconv.FormatUint(uint64(*u.NewReviewPeriodSeconds), 10))
		}
	}

	return ApplierFunc(func(ctx *Context, s *state.State) (protocol.Result, error) {
		return protocol.Result{}, e.apply(s, o)
	}), nil
}

func (e *AccountUpdateEvaluator) apply(s *state.State, o *protocol.AccountUpdate) error {
	err := s.Accounts.Modify(o.Account, func(m *accounts.Model) {
		if o.Owner != nil {
			m.Owner = o.Owner.Clone()
		}
		if o.Active != nil {
			m.Active = o.Active.Clone()
		}
		if o.NewOptions != nil {
			m.Options = o.NewOptions.Clone()
		}
	})
	if err != nil {
		return err
	}

	if c := o.Extensions.CreateCommittee; c != nil {
		created := s.Committee.Create(func(m *committee.Model) {
			m.CommitteeAccount = o.Account
			m.CommitteeAsset = c.CommitteeAsset
			m.MinSize = c.MinSize
			m.MaxSize = c.MaxSize
			m.ReviewPeriodSeconds = c.ReviewPeriodSeconds
		})
		id := created.ID
		if err := s.Accounts.Modify(o.Account, func(m *accounts.Model) { m.Committee = &id }); err != nil {
			return err
		}
	}

	if u := o.Extensions.UpdateCommittee; u != nil {
		id := *s.Accounts.Get(o.Account).Committee
		return s.Committee.Modify(id, func(m *committee.Model) {
			if u.NewMinSize != nil {
				m.MinSize = *u.NewMinSize
			}
			if u.NewMaxSize != nil {
				m.MaxSize = *u.NewMaxSize
			}
			if u.NewReviewPeriodSeconds != nil {
				m.ReviewPeriodSeconds = *u.NewReviewPeriodSeconds
			}
		})
	}

	return nil
}

type AccountWhitelistEvaluator struct{}

func (e *AccountWhitelistEvaluator) OpType() types.OpType { return types.TypeAccountWhitelist }

func (e *AccountWhitelistEvaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.AccountWhitelist)
	if !ok {
		return nil, wrongOperation(e, op)
	}

	if !ctx.Accounts().Exists(o.AccountToList) {
		return nil, code.NewObjectNotFound("listed account", o.AccountToList.String())
	}
	authorizing := ctx.Accounts().Get(o.AuthorizingAccount)
	if authorizing == nil {
		return nil, code.NewObjectNotFound("authorizing account", o.AuthorizingAccount.String())
	}
	if !ctx.Params.AllowNonMemberWhitelists && !authorizing.IsLifetimeMember() {
		return nil, code.NewNotLifetimeMember(o.AuthorizingAccount.String(), authorizing.Membership(ctx.Now).String())
	}

	return ApplierFunc(func(ctx *Context, s *state.State) (protocol.Result, error) {
		return protocol.Result{}, e.apply(s, o)
	}), nil
}

func (e *AccountWhitelistEvaluator) apply(s *state.State, o *protocol.AccountWhitelist) error {
	white := o.NewListing&protocol.WhiteListed != 0
	black := o.NewListing&protocol.BlackListed != 0

	err := s.Accounts.Modify(o.AccountToList, func(m *accounts.Model) {
		m.WhitelistingAccounts = toggle(m.WhitelistingAccounts, o.AuthorizingAccount, white)
		m.BlacklistingAccounts = toggle(m.BlacklistingAccounts, o.AuthorizingAccount, black)
	})
	if err != nil {
		return err
	}

	return s.Accounts.Modify(o.AuthorizingAccount, func(m *accounts.Model) {
		m.WhitelistedAccounts = toggle(m.WhitelistedAccounts, o.AccountToList, white)
		m.BlacklistedAccounts = toggle(m.BlacklistedAccounts, o.AccountToList, black)
	})
}

func toggle(set []types.AccountID, id types.AccountID, on bool) []types.AccountID {
	if on {
		return accounts.Insert(set, id)
	}
	return accounts.Erase(set, id)
}

type AccountUpgradeEvaluator struct{}

func (e *AccountUpgradeEvaluator) OpType() types.OpType { return types.TypeAccountUpgrade }

func (e *AccountUpgradeEvaluator) DoEvaluate(ctx *Context, op protocol.Operation) (Applier, error) {
	o, ok := op.(*protocol.AccountUpgrade)
	if !ok {
		return nil, wrongOperation(e, op)
	}

	account := ctx.Accounts().Get(o.AccountToUpgrade)
	if account == nil {
		return nil, code.NewObjectNotFound("account", o.AccountToUpgrade.String())
	}
	if account.IsLifetimeMember() {
		return nil, code.NewAlreadyLifetimeMember(o.AccountToUpgrade.String())
	}
	if !o.UpgradeToLifetimeMember && account.IsAnnualMember(ctx.Now) {
		if ahead := account.MembershipExpirationDate.Sub(ctx.Now); ahead >= maxMembershipAhead {
			return nil, code.NewMembershipTooFar(maxMembershipAhead.String(), ahead.String())
		}
	}

	return ApplierFunc(func(ctx *Context, s *state.State) (protocol.Result, error) {
		return protocol.Result{}, e.apply(ctx, s, o)
	}), nil
}

func (e *AccountUpgradeEvaluator) apply(ctx *Context, s *state.State, o *protocol.AccountUpgrade) error {
	id := o.AccountToUpgrade
	account := s.Accounts.Get(id)

	switch {
	case o.UpgradeToLifetimeMember:
		if err := s.ProcessFees(id); err != nil {
			return err
		}
		return s.Accounts.Modify(id, func(m *accounts.Model) {
			m.MembershipExpirationDate = types.MaxTime
			m.Referrer = id
			m.Registrar = id
			m.LifetimeReferrer = id
			m.LifetimeReferrerFeePercentage = types.Percent100 - m.NetworkFeePercentage
		})
	case account.IsAnnualMember(ctx.Now):
		return s.Accounts.Modify(id, func(m *accounts.Model) {
			m.MembershipExpirationDate = m.MembershipExpirationDate.Add(membershipYear)
		})
	default:
		if err := s.ProcessFees(id); err != nil {
			return err
		}
		now := ctx.Now
		return s.Accounts.Modify(id, func(m *accounts.Model) {
			m.Referrer = id
			m.MembershipExpirationDate = now.Add(membershipYear)
		})
	}
}
