// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines configuration parameters for the auction VM.
package config

import (
	"errors"
	"fmt"
	"math/big"
)

var ErrOutOfBounds = errors.New("value out of bounds")

const (
	// MinStakeDaysBound and MaxStakeDaysBound bound the admin-adjustable
	// maximum stake duration.
	MinStakeDaysBound = 30
	MaxStakeDaysBound = 300

	// MinDividendRewardDays and MaxDividendRewardDays bound the
	// admin-adjustable dividend smoothing window.
	MinDividendRewardDays = 10
	MaxDividendRewardDays = 60

	// MaxDepositTaxPercent caps the sum of the deposit-class tax set.
	MaxDepositTaxPercent = 10

	// MaxBonusPermille caps the referrer and referree bonuses (5%).
	MaxBonusPermille = 50

	// MaxDecayPermille caps the lottery record decay (99%).
	MaxDecayPermille = 990

	// DailyReductionPercent is the fixed daily mint reduction rate.
	DailyReductionPercent = 3
)

// Config contains the initial tunables of the auction economy. Percent
// fields are whole percent, Permille fields are tenths of a percent.
type Config struct {
	// Deposit-class tax split applied at settlement. The remainder of a
	// day's deposits is dividend revenue.
	DevPercent       uint64 `json:"devPercent"`
	MarketingPercent uint64 `json:"marketingPercent"`
	BuybackPercent   uint64 `json:"buybackPercent"`
	RewardsPercent   uint64 `json:"rewardsPercent"`
	LotteryPercent   uint64 `json:"lotteryPercent"`

	// Bonuses minted on top of auction claims.
	ReferrerBonusPermille uint64 `json:"referrerBonusPermille"`
	ReferreeBonusPermille uint64 `json:"referreeBonusPermille"`

	// Stake and dividend windows.
	MaxStakeDays          uint64 `json:"maxStakeDays"`
	MaxDividendRewardDays uint64 `json:"maxDividendRewardDays"`

	// Secondary-market split of a stake sale price.
	SaleDividendPercent uint64 `json:"saleDividendPercent"`
	SaleDevPercent      uint64 `json:"saleDevPercent"`

	// Loan origination fee halves.
	LoanDividendPercent uint64 `json:"loanDividendPercent"`
	LoanDevPercent      uint64 `json:"loanDevPercent"`

	// Lottery jackpot distribution and record decay.
	LotteryWinnerPercent  uint64 `json:"lotteryWinnerPercent"`
	LotteryDevPercent     uint64 `json:"lotteryDevPercent"`
	LotteryRewardsPercent uint64 `json:"lotteryRewardsPercent"`
	LotteryDecayPermille  uint64 `json:"lotteryDecayPermille"`
}

// DefaultConfig returns the reference parameters of the auction economy.
func DefaultConfig() Config {
	return Config{
		DevPercent:       4,
		MarketingPercent: 1,
		BuybackPercent:   1,
		RewardsPercent:   1,
		LotteryPercent:   0,

		ReferrerBonusPermille: 50, // 5%
		ReferreeBonusPermille: 10, // 1%

		MaxStakeDays:          60,
		MaxDividendRewardDays: 30,

		SaleDividendPercent: 5,
		SaleDevPercent:      5,

		LoanDividendPercent: 1,
		LoanDevPercent:      1,

		LotteryWinnerPercent:  30,
		LotteryDevPercent:     10,
		LotteryRewardsPercent: 30,
		LotteryDecayPermille:  50, // 5%
	}
}

// StartingSupply returns the token supply minted at launch
// (3,000,000 tokens at 18 decimals).
func StartingSupply() *big.Int {
	supply := big.NewInt(3_000_000)
	return supply.Mul(supply, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

// ValidDepositTaxes checks the deposit-class tax set against its cap.
func ValidDepositTaxes(dev, marketing, buyback, rewards, lottery uint64) error {
	if sum := dev + marketing + buyback + rewards + lottery; sum > MaxDepositTaxPercent {
		return fmt.Errorf("%w: deposit taxes sum to %d%%, max %d%%", ErrOutOfBounds, sum, MaxDepositTaxPercent)
	}
	return nil
}

// ValidBonuses checks the referrer and referree bonus rates.
func ValidBonuses(referrer, referree uint64) error {
	if referrer > MaxBonusPermille {
		return fmt.Errorf("%w: referrer bonus %d > %d", ErrOutOfBounds, referrer, MaxBonusPermille)
	}
	if referree > MaxBonusPermille {
		return fmt.Errorf("%w: referree bonus %d > %d", ErrOutOfBounds, referree, MaxBonusPermille)
	}
	return nil
}

// ValidMaxStakeDays checks an updated maximum stake duration.
func ValidMaxStakeDays(days uint64) error {
	if days < MinStakeDaysBound || days > MaxStakeDaysBound {
		return fmt.Errorf("%w: max stake days %d outside [%d,%d]", ErrOutOfBounds, days, MinStakeDaysBound, MaxStakeDaysBound)
	}
	return nil
}

// ValidMaxDividendRewardDays checks an updated smoothing window cap.
func ValidMaxDividendRewardDays(days uint64) error {
	if days < MinDividendRewardDays || days > MaxDividendRewardDays {
		return fmt.Errorf("%w: max dividend reward days %d outside [%d,%d]", ErrOutOfBounds, days, MinDividendRewardDays, MaxDividendRewardDays)
	}
	return nil
}

// ValidLotterySplit checks the jackpot distribution percentages.
func ValidLotterySplit(dev, rewards, winner uint64) error {
	if sum := dev + rewards + winner; sum > 100 {
		return fmt.Errorf("%w: lottery split sums to %d%%", ErrOutOfBounds, sum)
	}
	return nil
}

// ValidLotteryDecay checks the winnerless-day record decay rate.
func ValidLotteryDecay(permille uint64) error {
	if permille > MaxDecayPermille {
		return fmt.Errorf("%w: lottery decay %d > %d", ErrOutOfBounds, permille, MaxDecayPermille)
	}
	return nil
}
