// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dividends

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSmoothWindow(t *testing.T) {
	require := require.New(t)

	d := New(30)
	d.Smooth(big.NewInt(930), 3)

	// k = min(3, 30) = 3, so days 4..6 each receive 310.
	require.Zero(d.PoolFor(3).Sign())
	require.Equal(big.NewInt(310), d.PoolFor(4))
	require.Equal(big.NewInt(310), d.PoolFor(5))
	require.Equal(big.NewInt(310), d.PoolFor(6))
	require.Zero(d.PoolFor(7).Sign())
	require.Equal(big.NewInt(930), d.Total())
}

func TestSmoothRemainderDropped(t *testing.T) {
	require := require.New(t)

	d := New(30)
	d.Smooth(big.NewInt(1000), 3)

	require.Equal(big.NewInt(333), d.PoolFor(4))
	require.Equal(big.NewInt(333), d.PoolFor(6))
	// 1000 - 3*333 = 1 is dropped.
	require.Equal(big.NewInt(999), d.Total())
}

func TestSmoothCapped(t *testing.T) {
	require := require.New(t)

	d := New(30)
	d.Smooth(big.NewInt(3000), 50)

	// k = min(50, 30) = 30, covering days 51..80.
	require.Equal(big.NewInt(100), d.PoolFor(51))
	require.Equal(big.NewInt(100), d.PoolFor(80))
	require.Zero(d.PoolFor(81).Sign())
}

func TestSmoothOverlap(t *testing.T) {
	require := require.New(t)

	d := New(30)
	d.Smooth(big.NewInt(300), 3)
	d.Smooth(big.NewInt(400), 4)

	// Day 5 collects from both settlements: 100 + 100.
	require.Equal(big.NewInt(100), d.PoolFor(4))
	require.Equal(big.NewInt(200), d.PoolFor(5))
	require.Equal(big.NewInt(200), d.PoolFor(6))
	require.Equal(big.NewInt(100), d.PoolFor(7))
	require.Equal(big.NewInt(100), d.PoolFor(8))
}

func TestSmoothDayZero(t *testing.T) {
	require := require.New(t)

	d := New(30)
	d.Smooth(big.NewInt(1000), 0)
	require.Zero(d.Total().Sign())
}

func TestCreditDay(t *testing.T) {
	require := require.New(t)

	d := New(30)
	d.CreditDay(7, big.NewInt(50))
	d.CreditDay(7, big.NewInt(25))

	require.Equal(big.NewInt(75), d.PoolFor(7))
	require.Equal(big.NewInt(75), d.Total())
}

func TestRestore(t *testing.T) {
	require := require.New(t)

	d := New(30)
	d.Smooth(big.NewInt(900), 3)

	restored := New(10)
	restored.Restore(d.Pools(), d.Total(), d.MaxRewardDays())
	require.Equal(d.PoolFor(5), restored.PoolFor(5))
	require.Equal(uint64(30), restored.MaxRewardDays())
}
