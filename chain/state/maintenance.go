package state

import (
	"time"

	"github.com/cryptonomex/graphene/chain/fees"
	"github.com/cryptonomex/graphene/chain/state/accounts"
	"github.com/cryptonomex/graphene/chain/state/app"
	"github.com/cryptonomex/graphene/chain/state/assets"
	"github.com/cryptonomex/graphene/chain/types"
	"github.com/cryptonomex/graphene/log"
)

// IsMaintenanceDue reports whether the head block reached the next maintenance time
func (s *State) IsMaintenanceDue() bool {
	dynamic := s.App.DynamicProperties()
	return !dynamic.Time.Before(dynamic.NextMaintenanceTime)
}

// PerformMaintenance pays out the pending fees of every account, undoes the account creation
// fee scaling of the interval, adopts pending parameters and schedules the next maintenance
func (s *State) PerformMaintenance() error {
	count := s.App.NextInstance(types.AccountObjectType)
	for id := types.AccountID(0); uint64(id) < count; id++ {
		if err := s.ProcessFees(id); err != nil {
			return err
		}
	}

	dynamic := s.App.DynamicProperties()
	s.App.ModifyGlobal(func(g *app.GlobalProperties) {
		params := g.Parameters
		if params.AccountsPerFeeScale != 0 && params.CurrentFees.Exists(types.TypeAccountCreate) {
			if p, ok := params.CurrentFees.Get(types.TypeAccountCreate).(*fees.AccountCreateParameters); ok {
				shift := uint64(params.AccountFeeScaleBitshifts) * uint64(dynamic.AccountsRegisteredThisInterval/uint32(params.AccountsPerFeeScale))
				if shift >= 64 {
					p.BasicFee = 0
				} else {
					p.BasicFee >>= shift
				}
			}
		}

		if g.PendingParameters != nil {
			g.Parameters = *g.PendingParameters
			g.PendingParameters = nil
			log.Info("Chain parameters updated", "height", dynamic.HeadBlockNumber)
		}
	})

	interval := time.Duration(s.App.Parameters().MaintenanceInterval) * time.Second
	s.App.ModifyDynamic(func(d *app.DynamicProperties) {
		d.AccountsRegisteredThisInterval = 0
		if interval <= 0 {
			d.NextMaintenanceTime = d.Time
			return
		}
		next := d.NextMaintenanceTime
		if !next.After(d.Time) {
			missed := d.Time.Sub(next) / interval
			next = next.Add((missed + 1) * interval)
		}
		d.NextMaintenanceTime = next
	})

	return nil
}

// ProcessFees pays out the pending fees of the account: the network cut goes to the core asset
// minus the burned reserve, the rest is split between the lifetime referrer, the referrer and the registrar
func (s *State) ProcessFees(id types.AccountID) error {
	stats := s.Accounts.Statistics(id)
	if stats == nil {
		return nil
	}
	pendingFees, pendingVested, pendingNetwork := stats.PendingFees, stats.PendingVestedFees, stats.PendingNetworkFees
	if pendingFees == 0 && pendingVested == 0 && pendingNetwork == 0 {
		return nil
	}

	if pendingFees > 0 || pendingVested > 0 {
		if err := s.payOutFees(id, pendingFees, true); err != nil {
			return err
		}
		if err := s.payOutFees(id, pendingVested, false); err != nil {
			return err
		}
	}

	err := s.Accounts.ModifyStatistics(id, func(st *accounts.Statistics) {
		st.LifetimeFeesPaid += pendingFees + pendingVested
		st.PendingFees -= pendingFees
		st.PendingVestedFees -= pendingVested
		st.PendingNetworkFees -= pendingNetwork
	})
	if err != nil {
		return err
	}

	return s.Assets.ModifyDynamicData(types.CoreAsset, func(d *assets.DynamicData) {
		d.AccumulatedFees += pendingNetwork
	})
}

func (s *State) payOutFees(id types.AccountID, total int64, requireVesting bool) error {
	if total == 0 {
		return nil
	}

	now := s.App.HeadBlockTime()
	account := s.Accounts.Get(id)
	if referrer := s.Accounts.Get(account.Referrer); referrer != nil && referrer.IsBasicAccount(now) {
		lifetimeReferrer := account.LifetimeReferrer
		if err := s.Accounts.Modify(id, func(m *accounts.Model) { m.Referrer = lifetimeReferrer }); err != nil {
			return err
		}
	}

	networkCut := types.CutFee(total, account.NetworkFeePercentage)
	reserved := types.CutFee(networkCut, s.App.Parameters().ReservePercentOfFee)
	accumulated := networkCut - reserved

	lifetimeCut := types.CutFee(total, account.LifetimeReferrerFeePercentage)
	referral := total - networkCut - lifetimeCut
	referrerCut := types.CutFee(referral, account.ReferrerRewardsPercentage)
	registrarCut := referral - referrerCut

	err := s.Assets.ModifyDynamicData(types.CoreAsset, func(d *assets.DynamicData) {
		d.AccumulatedFees += accumulated
		d.CurrentSupply -= reserved
	})
	if err != nil {
		return err
	}

	for _, cut := range []struct {
		to     types.AccountID
		amount int64
	}{
		{account.LifetimeReferrer, lifetimeCut},
		{account.Referrer, referrerCut},
		{account.Registrar, registrarCut},
	} {
		if err := s.depositCashback(cut.to, cut.amount, requireVesting); err != nil {
			return err
		}
	}

	return nil
}

// depositCashback credits the cashback of a regular account, the special accounts burn it instead
func (s *State) depositCashback(to types.AccountID, amount int64, requireVesting bool) error {
	if amount == 0 {
		return nil
	}

	if to <= types.TempAccount {
		return s.Assets.ModifyDynamicData(types.CoreAsset, func(d *assets.DynamicData) {
			d.CurrentSupply -= amount
		})
	}

	return s.Accounts.ModifyStatistics(to, func(st *accounts.Statistics) {
		if requireVesting {
			st.CashbackVesting += amount
		} else {
			st.CashbackLiquid += amount
		}
	})
}
