// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fees computes the integer fee splits used throughout the
// auction economy. All cuts round down, so the remainder of a split is
// never negative.
package fees

import (
	"math/big"

	"github.com/luxfi/ids"
)

var (
	hundred  = big.NewInt(100)
	thousand = big.NewInt(1000)
)

// Percent returns floor(amount * pct / 100).
func Percent(amount *big.Int, pct uint64) *big.Int {
	cut := new(big.Int).Mul(amount, new(big.Int).SetUint64(pct))
	return cut.Div(cut, hundred)
}

// Permille returns floor(amount * pml / 1000).
func Permille(amount *big.Int, pml uint64) *big.Int {
	cut := new(big.Int).Mul(amount, new(big.Int).SetUint64(pml))
	return cut.Div(cut, thousand)
}

// Destinations names the accounts that receive routed fees.
type Destinations struct {
	Dev       ids.ShortID
	Marketing ids.ShortID
	Buyback   ids.ShortID
	Rewards   ids.ShortID
	Lottery   ids.ShortID
}

// DepositTaxes is the whole-percent tax set applied to a day's auction
// deposits at settlement.
type DepositTaxes struct {
	Dev       uint64
	Marketing uint64
	Buyback   uint64
	Rewards   uint64
	Lottery   uint64
}

// Transfer is one planned value movement.
type Transfer struct {
	To     ids.ShortID
	Amount *big.Int
}

// Routed is the outcome of splitting a day's deposits: the planned
// transfers plus the dividend remainder that stays with stakers.
type Routed struct {
	Transfers []Transfer
	Dividends *big.Int
}

// RouteDeposits splits [amount] across the tax destinations. Each cut
// is floored independently against the full amount, and the remainder
// becomes dividend revenue.
func RouteDeposits(amount *big.Int, taxes DepositTaxes, dests Destinations) Routed {
	remainder := new(big.Int).Set(amount)
	routed := Routed{}

	cuts := []struct {
		to  ids.ShortID
		pct uint64
	}{
		{dests.Dev, taxes.Dev},
		{dests.Marketing, taxes.Marketing},
		{dests.Buyback, taxes.Buyback},
		{dests.Rewards, taxes.Rewards},
		{dests.Lottery, taxes.Lottery},
	}
	for _, c := range cuts {
		if c.pct == 0 {
			continue
		}
		cut := Percent(amount, c.pct)
		if cut.Sign() == 0 {
			continue
		}
		routed.Transfers = append(routed.Transfers, Transfer{To: c.to, Amount: cut})
		remainder.Sub(remainder, cut)
	}
	routed.Dividends = remainder
	return routed
}
