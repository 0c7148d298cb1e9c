// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package staking

import (
	"math/big"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

// testPool is a fixed per-day dividend pool.
type testPool map[uint64]*big.Int

func (p testPool) PoolFor(day uint64) *big.Int {
	if pool, ok := p[day]; ok {
		return new(big.Int).Set(pool)
	}
	return new(big.Int)
}

func TestOpenStake(t *testing.T) {
	require := require.New(t)

	r := NewRegistry(testPool{}, 60)
	alice := ids.GenerateTestShortID()

	stake, err := r.Open(alice, big.NewInt(1000), 10, 2)
	require.NoError(err)
	require.Equal(uint64(1), stake.ID)
	require.Equal(uint64(3), stake.StartDay)
	require.Equal(uint64(13), stake.EndDay)

	// Active on days [3,12], inactive outside.
	require.Zero(r.TokensInActiveStake(2).Sign())
	require.Equal(big.NewInt(1000), r.TokensInActiveStake(3))
	require.Equal(big.NewInt(1000), r.TokensInActiveStake(12))
	require.Zero(r.TokensInActiveStake(13).Sign())

	_, err = r.Open(alice, big.NewInt(1000), 61, 2)
	require.ErrorIs(err, ErrDurationOutOfRange)

	// Durations must be strictly greater than one day.
	_, err = r.Open(alice, big.NewInt(1000), 1, 2)
	require.ErrorIs(err, ErrDurationOutOfRange)

	_, err = r.Open(alice, big.NewInt(1000), 0, 2)
	require.ErrorIs(err, ErrDurationOutOfRange)

	_, err = r.Open(alice, new(big.Int), 10, 2)
	require.ErrorIs(err, ErrZeroTokens)
}

func TestClaimableProRata(t *testing.T) {
	require := require.New(t)

	pool := testPool{
		1: big.NewInt(900),
		2: big.NewInt(600),
	}
	r := NewRegistry(pool, 60)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()

	// Both stakes start on day 1; alice holds 2/3 of active tokens.
	_, err := r.Open(alice, big.NewInt(200), 5, 0)
	require.NoError(err)
	_, err = r.Open(bob, big.NewInt(100), 5, 0)
	require.NoError(err)

	// Through day 2, alice earned 600 + 400.
	claimable, err := r.Claimable(1, 3)
	require.NoError(err)
	require.Equal(big.NewInt(1000), claimable)

	claimable, err = r.Claimable(2, 3)
	require.NoError(err)
	require.Equal(big.NewInt(500), claimable)

	// Nothing is earned before the first day elapses.
	claimable, err = r.Claimable(1, 0)
	require.NoError(err)
	require.Zero(claimable.Sign())

	_, err = r.Claimable(9, 3)
	require.ErrorIs(err, ErrStakeNotFound)
}

func TestCollect(t *testing.T) {
	require := require.New(t)

	pool := testPool{
		1: big.NewInt(300),
		2: big.NewInt(300),
		3: big.NewInt(300),
	}
	r := NewRegistry(pool, 60)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()

	stake, err := r.Open(alice, big.NewInt(100), 3, 0)
	require.NoError(err)

	_, _, err = r.Collect(stake.ID, alice, 3)
	require.ErrorIs(err, ErrStakeNotEnded)

	_, _, err = r.Collect(stake.ID, bob, 4)
	require.ErrorIs(err, ErrUnauthorized)

	payout, tokens, err := r.Collect(stake.ID, alice, 4)
	require.NoError(err)
	require.Equal(big.NewInt(900), payout)
	require.Equal(big.NewInt(100), tokens)

	_, _, err = r.Collect(stake.ID, alice, 4)
	require.ErrorIs(err, ErrAlreadyCollected)
}

func TestMarket(t *testing.T) {
	require := require.New(t)

	r := NewRegistry(testPool{}, 60)
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()

	stake, err := r.Open(alice, big.NewInt(100), 10, 0)
	require.NoError(err)

	_, _, err = r.Buy(stake.ID, bob, big.NewInt(50), 2)
	require.ErrorIs(err, ErrNotForSale)

	require.ErrorIs(r.ListForSale(stake.ID, bob, big.NewInt(50), 2), ErrUnauthorized)
	require.NoError(r.ListForSale(stake.ID, alice, big.NewInt(50), 2))

	_, _, err = r.Buy(stake.ID, alice, big.NewInt(50), 2)
	require.ErrorIs(err, ErrOwnStake)

	_, _, err = r.Buy(stake.ID, bob, big.NewInt(49), 2)
	require.ErrorIs(err, ErrPriceTooLow)

	price, seller, err := r.Buy(stake.ID, bob, big.NewInt(50), 2)
	require.NoError(err)
	require.Equal(big.NewInt(50), price)
	require.Equal(alice, seller)

	// The buyer now owns the stake; the listing is cleared.
	got, err := r.GetStake(stake.ID)
	require.NoError(err)
	require.Equal(bob, got.Owner)
	require.Nil(got.SalePrice)
}

func TestMarketEndedStake(t *testing.T) {
	require := require.New(t)

	r := NewRegistry(testPool{}, 60)
	alice := ids.GenerateTestShortID()

	stake, err := r.Open(alice, big.NewInt(100), 3, 0)
	require.NoError(err)

	require.NoError(r.ListForSale(stake.ID, alice, big.NewInt(50), 2))

	// Ended stakes cannot be bought or relisted.
	_, _, err = r.Buy(stake.ID, ids.GenerateTestShortID(), big.NewInt(50), 4)
	require.ErrorIs(err, ErrStakeEnded)
	require.ErrorIs(r.ListForSale(stake.ID, alice, big.NewInt(50), 4), ErrStakeEnded)
}

func TestCancelListing(t *testing.T) {
	require := require.New(t)

	r := NewRegistry(testPool{}, 60)
	alice := ids.GenerateTestShortID()

	stake, err := r.Open(alice, big.NewInt(100), 10, 0)
	require.NoError(err)

	require.ErrorIs(r.CancelListing(stake.ID, alice), ErrNotForSale)
	require.NoError(r.ListForSale(stake.ID, alice, big.NewInt(50), 2))
	require.NoError(r.CancelListing(stake.ID, alice))

	_, _, err = r.Buy(stake.ID, ids.GenerateTestShortID(), big.NewInt(50), 2)
	require.ErrorIs(err, ErrNotForSale)
}

func TestSnapshotRestore(t *testing.T) {
	require := require.New(t)

	pool := testPool{1: big.NewInt(300)}
	r := NewRegistry(pool, 60)
	alice := ids.GenerateTestShortID()

	stake, err := r.Open(alice, big.NewInt(100), 5, 0)
	require.NoError(err)
	r.AddDevFees(big.NewInt(42))

	restored := NewRegistry(pool, 30)
	restored.Restore(r.TakeSnapshot())

	got, err := restored.GetStake(stake.ID)
	require.NoError(err)
	require.Equal(alice, got.Owner)
	require.Equal(uint64(60), restored.MaxStakeDays())
	require.Equal(big.NewInt(42), restored.TakeDevFees())
	require.Equal(big.NewInt(100), restored.TokensInActiveStake(1))
}
