// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auctionvm

import (
	"math/big"

	"github.com/luxfi/ids"

	"github.com/luxfi/auctionvm/fees"
	"github.com/luxfi/auctionvm/ledger"
	"github.com/luxfi/auctionvm/staking"
)

// OpenStake locks [tokens] of [caller]'s balance for [days] days and
// returns the new stake.
func (vm *VM) OpenStake(caller ids.ShortID, tokens *big.Int, days uint64) (*staking.Stake, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return nil, err
	}

	if vm.tokens.BalanceOf(caller).Cmp(tokens) < 0 {
		return nil, ledger.ErrInsufficientBalance
	}
	stake, err := vm.stakes.Open(caller, tokens, days, vm.currentDay)
	if err != nil {
		return nil, err
	}
	if err := vm.tokens.Transfer(caller, stakingPot, tokens); err != nil {
		return nil, err
	}

	vm.metrics.IncStakesOpened()
	vm.emit(&Event{
		Type:      EventStakeOpened,
		Day:       vm.currentDay,
		Addresses: []ids.ShortID{caller},
		Tokens:    tokens,
		StakeID:   stake.ID,
	})
	if err := vm.commit(); err != nil {
		return nil, err
	}
	return stake, nil
}

// CollectStake closes an ended stake: accrued dividends are paid out
// and the locked tokens are returned.
func (vm *VM) CollectStake(caller ids.ShortID, stakeID uint64) (*big.Int, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return nil, err
	}

	payout, tokens, err := vm.stakes.Collect(stakeID, caller, vm.currentDay)
	if err != nil {
		return nil, err
	}
	if payout.Sign() > 0 {
		if err := vm.bank.Transfer(stakingPot, caller, payout); err != nil {
			return nil, err
		}
	}
	if err := vm.tokens.Transfer(stakingPot, caller, tokens); err != nil {
		return nil, err
	}

	vm.metrics.IncStakesCollected()
	vm.emit(&Event{
		Type:      EventStakeCollected,
		Day:       vm.currentDay,
		Addresses: []ids.ShortID{caller},
		Amount:    payout,
		Tokens:    tokens,
		StakeID:   stakeID,
	})
	if err := vm.commit(); err != nil {
		return nil, err
	}
	return payout, nil
}

// ListStakeForSale puts [caller]'s stake on the secondary market.
func (vm *VM) ListStakeForSale(caller ids.ShortID, stakeID uint64, price *big.Int) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return err
	}
	if err := vm.stakes.ListForSale(stakeID, caller, price, vm.currentDay); err != nil {
		return err
	}

	vm.emit(&Event{
		Type:      EventStakeListed,
		Day:       vm.currentDay,
		Addresses: []ids.ShortID{caller},
		Amount:    price,
		StakeID:   stakeID,
	})
	return vm.commit()
}

// CancelStakeSale withdraws a market listing.
func (vm *VM) CancelStakeSale(caller ids.ShortID, stakeID uint64) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return err
	}
	if err := vm.stakes.CancelListing(stakeID, caller); err != nil {
		return err
	}
	return vm.commit()
}

// BuyStake purchases a listed stake. The price splits between the
// current day's dividend pool, the dev fee accumulator, and the
// seller; the buyer takes over the stake's full dividend history.
func (vm *VM) BuyStake(caller ids.ShortID, stakeID uint64, offered *big.Int) error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if err := vm.advanceEpoch(); err != nil {
		return err
	}

	if vm.bank.BalanceOf(caller).Cmp(offered) < 0 {
		return ledger.ErrInsufficientBalance
	}
	price, seller, err := vm.stakes.Buy(stakeID, caller, offered, vm.currentDay)
	if err != nil {
		return err
	}
	if err := vm.bank.Transfer(caller, stakingPot, price); err != nil {
		return err
	}

	dividendCut := fees.Percent(price, vm.SaleDividendPercent)
	devCut := fees.Percent(price, vm.SaleDevPercent)
	vm.dividends.CreditDay(vm.currentDay, dividendCut)
	vm.stakes.AddDevFees(devCut)

	sellerShare := new(big.Int).Sub(price, dividendCut)
	sellerShare.Sub(sellerShare, devCut)
	if sellerShare.Sign() > 0 {
		if err := vm.bank.Transfer(stakingPot, seller, sellerShare); err != nil {
			return err
		}
	}

	vm.metrics.IncStakesSold()
	vm.emit(&Event{
		Type:      EventStakeSold,
		Day:       vm.currentDay,
		Addresses: []ids.ShortID{caller, seller},
		Amount:    price,
		StakeID:   stakeID,
	})
	return vm.commit()
}
