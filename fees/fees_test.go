// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fees

import (
	"math/big"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func eth(n int64) *big.Int {
	v := big.NewInt(n)
	return v.Mul(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestPercent(t *testing.T) {
	require := require.New(t)

	require.Equal(big.NewInt(7), Percent(big.NewInt(100), 7))
	require.Zero(Percent(big.NewInt(10), 7).Sign())
	require.Equal(eth(3), Percent(eth(100), 3))
}

func TestPermille(t *testing.T) {
	require := require.New(t)

	// 50 permille = 5%.
	require.Equal(big.NewInt(5), Permille(big.NewInt(100), 50))
	require.Zero(Permille(big.NewInt(19), 50).Sign())
}

func TestRouteDeposits(t *testing.T) {
	require := require.New(t)

	dests := Destinations{
		Dev:       ids.GenerateTestShortID(),
		Marketing: ids.GenerateTestShortID(),
		Buyback:   ids.GenerateTestShortID(),
		Rewards:   ids.GenerateTestShortID(),
		Lottery:   ids.GenerateTestShortID(),
	}
	taxes := DepositTaxes{Dev: 4, Marketing: 1, Buyback: 1, Rewards: 1}

	routed := RouteDeposits(eth(10), taxes, dests)

	// 7% taxed, 93% dividends.
	require.Len(routed.Transfers, 4)
	require.Equal(Percent(eth(10), 4), routed.Transfers[0].Amount)
	require.Equal(dests.Dev, routed.Transfers[0].To)

	want := Percent(eth(10), 93)
	require.Equal(want, routed.Dividends)
}

func TestRouteDepositsWithLottery(t *testing.T) {
	require := require.New(t)

	dests := Destinations{
		Dev:     ids.GenerateTestShortID(),
		Lottery: ids.GenerateTestShortID(),
	}
	taxes := DepositTaxes{Dev: 4, Lottery: 3}

	routed := RouteDeposits(big.NewInt(1000), taxes, dests)
	require.Len(routed.Transfers, 2)
	require.Equal(big.NewInt(40), routed.Transfers[0].Amount)
	require.Equal(big.NewInt(30), routed.Transfers[1].Amount)
	require.Equal(dests.Lottery, routed.Transfers[1].To)
	require.Equal(big.NewInt(930), routed.Dividends)
}

func TestRouteDepositsZeroCutsSkipped(t *testing.T) {
	require := require.New(t)

	dests := Destinations{Dev: ids.GenerateTestShortID()}
	routed := RouteDeposits(big.NewInt(10), DepositTaxes{Dev: 4}, dests)

	// floor(10*4/100) == 0, so no transfer is planned.
	require.Empty(routed.Transfers)
	require.Equal(big.NewInt(10), routed.Dividends)
}
