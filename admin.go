// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auctionvm

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/auctionvm/config"
	"github.com/luxfi/auctionvm/fees"
)

// StartLottery opens the biggest-buy competition. Irreversible.
func (vm *VM) StartLottery(caller ids.ShortID) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if caller != vm.admin {
		return ErrNotAdmin
	}
	if err := vm.advanceEpoch(); err != nil {
		return err
	}
	if err := vm.lottery.Start(); err != nil {
		return err
	}

	vm.log.Info("lottery started", "day", vm.currentDay)
	vm.emit(&Event{
		Type: EventLotteryStarted,
		Day:  vm.currentDay,
	})
	return vm.commit()
}

// SetLotteryExclusion bars [addr] from winning the lottery, or lifts
// an earlier bar. Only valid before the lottery starts.
func (vm *VM) SetLotteryExclusion(caller, addr ids.ShortID, excluded bool) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if caller != vm.admin {
		return ErrNotAdmin
	}
	if err := vm.lottery.SetExcluded(addr, excluded); err != nil {
		return err
	}
	return vm.commit()
}

// SetDepositTaxes updates the whole-percent split applied to auction
// deposits at settlement. The set may sum to at most 10%.
func (vm *VM) SetDepositTaxes(caller ids.ShortID, dev, marketing, buyback, rewards, lotteryPct uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if caller != vm.admin {
		return ErrNotAdmin
	}
	if err := config.ValidDepositTaxes(dev, marketing, buyback, rewards, lotteryPct); err != nil {
		return err
	}
	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	vm.DevPercent = dev
	vm.MarketingPercent = marketing
	vm.BuybackPercent = buyback
	vm.RewardsPercent = rewards
	vm.LotteryPercent = lotteryPct
	return vm.commit()
}

// SetReferralBonuses updates the referrer and referree bonus rates in
// tenths of a percent, each capped at 5%.
func (vm *VM) SetReferralBonuses(caller ids.ShortID, referrer, referree uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if caller != vm.admin {
		return ErrNotAdmin
	}
	if err := config.ValidBonuses(referrer, referree); err != nil {
		return err
	}
	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	vm.ReferrerBonusPermille = referrer
	vm.ReferreeBonusPermille = referree
	return vm.commit()
}

// SetMaxStakeDays updates the stake duration cap within [30, 300].
func (vm *VM) SetMaxStakeDays(caller ids.ShortID, days uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if caller != vm.admin {
		return ErrNotAdmin
	}
	if err := config.ValidMaxStakeDays(days); err != nil {
		return err
	}
	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	vm.MaxStakeDays = days
	vm.stakes.SetMaxStakeDays(days)
	return vm.commit()
}

// SetMaxDividendRewardDays updates the dividend smoothing window cap
// within [10, 60].
func (vm *VM) SetMaxDividendRewardDays(caller ids.ShortID, days uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if caller != vm.admin {
		return ErrNotAdmin
	}
	if err := config.ValidMaxDividendRewardDays(days); err != nil {
		return err
	}
	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	vm.MaxDividendRewardDays = days
	vm.dividends.SetMaxRewardDays(days)
	return vm.commit()
}

// SetLotterySplit updates the jackpot distribution percentages.
func (vm *VM) SetLotterySplit(caller ids.ShortID, winner, dev, rewards uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if caller != vm.admin {
		return ErrNotAdmin
	}
	if err := config.ValidLotterySplit(dev, rewards, winner); err != nil {
		return err
	}
	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	vm.LotteryWinnerPercent = winner
	vm.LotteryDevPercent = dev
	vm.LotteryRewardsPercent = rewards
	vm.lottery.SetSplit(winner, dev, rewards)
	return vm.commit()
}

// SetLotteryDecay updates the winnerless-day record decay rate in
// tenths of a percent, capped at 99%.
func (vm *VM) SetLotteryDecay(caller ids.ShortID, permille uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if caller != vm.admin {
		return ErrNotAdmin
	}
	if err := config.ValidLotteryDecay(permille); err != nil {
		return err
	}
	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	vm.LotteryDecayPermille = permille
	vm.lottery.SetDecay(permille)
	return vm.commit()
}

// SetDestinations updates the fee destination accounts. Unset
// addresses keep their current value.
func (vm *VM) SetDestinations(caller ids.ShortID, dests fees.Destinations) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if caller != vm.admin {
		return ErrNotAdmin
	}
	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	if dests.Dev != ids.ShortEmpty {
		vm.dests.Dev = dests.Dev
	}
	if dests.Marketing != ids.ShortEmpty {
		vm.dests.Marketing = dests.Marketing
	}
	if dests.Buyback != ids.ShortEmpty {
		vm.dests.Buyback = dests.Buyback
	}
	if dests.Rewards != ids.ShortEmpty {
		vm.dests.Rewards = dests.Rewards
	}
	return vm.commit()
}
