// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auctionvm

import (
	"math/big"

	"github.com/luxfi/ids"

	"github.com/luxfi/auctionvm/auction"
	"github.com/luxfi/auctionvm/staking"
)

// Reads report stored state and never trigger settlement: the stored
// day only advances when a mutating operation runs.

func (vm *VM) Started() bool {
	return vm.clock.Started()
}

func (vm *VM) Admin() ids.ShortID {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.admin
}

func (vm *VM) CurrentDay() uint64 {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.currentDay
}

func (vm *VM) TotalSupply() *big.Int {
	return vm.tokens.TotalSupply()
}

func (vm *VM) TokenBalance(addr ids.ShortID) *big.Int {
	return vm.tokens.BalanceOf(addr)
}

func (vm *VM) ValueBalance(addr ids.ShortID) *big.Int {
	return vm.bank.BalanceOf(addr)
}

// TotalDepositedOn returns the auction deposits pooled on [day].
func (vm *VM) TotalDepositedOn(day uint64) *big.Int {
	return vm.auction.TotalDeposited(day)
}

// TokensMintedOn returns the tokens minted for [day]. Unsettled days
// report zero.
func (vm *VM) TokensMintedOn(day uint64) *big.Int {
	return vm.auction.TokensMinted(day)
}

// AuctionEntries returns every auction entry of [addr].
func (vm *VM) AuctionEntries(addr ids.ShortID) []auction.Entry {
	return vm.auction.Entries(addr)
}

// ClaimableAuctionTokens returns the uncollected base payout of [addr]
// for [day], excluding referral bonuses.
func (vm *VM) ClaimableAuctionTokens(addr ids.ShortID, day uint64) *big.Int {
	return vm.auction.ClaimableValue(addr, day)
}

// DayDividendPool returns the dividend revenue credited to [day].
func (vm *VM) DayDividendPool(day uint64) *big.Int {
	return vm.dividends.PoolFor(day)
}

// TotalDividends returns all dividend revenue ever pooled.
func (vm *VM) TotalDividends() *big.Int {
	return vm.dividends.Total()
}

// TokensInActiveStake returns the tokens staked across [day].
func (vm *VM) TokensInActiveStake(day uint64) *big.Int {
	return vm.stakes.TokensInActiveStake(day)
}

func (vm *VM) GetStake(stakeID uint64) (*staking.Stake, error) {
	return vm.stakes.GetStake(stakeID)
}

func (vm *VM) GetLoan(stakeID uint64) (*staking.Loan, error) {
	return vm.stakes.GetLoan(stakeID)
}

func (vm *VM) StakesOf(owner ids.ShortID) []*staking.Stake {
	return vm.stakes.StakesOf(owner)
}

// ClaimableDividends returns the dividends a stake has earned through
// the stored current day, net of loan repayments.
func (vm *VM) ClaimableDividends(stakeID uint64) (*big.Int, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.stakes.Claimable(stakeID, vm.currentDay)
}

// LotteryState is the observable state of the lottery.
type LotteryState struct {
	Started     bool        `json:"started"`
	Jackpot     *big.Int    `json:"jackpot"`
	TopBuy      *big.Int    `json:"topBuy"`
	TodayLeader ids.ShortID `json:"todayLeader"`
	TodayAmount *big.Int    `json:"todayAmount"`
}

func (vm *VM) LotteryInfo() LotteryState {
	leader, amount := vm.lottery.TodayLeader()
	return LotteryState{
		Started:     vm.lottery.Started(),
		Jackpot:     vm.bank.BalanceOf(lotteryPot),
		TopBuy:      vm.lottery.TopBuy(),
		TodayLeader: leader,
		TodayAmount: amount,
	}
}
