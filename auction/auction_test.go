// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auction

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

func tokens(n int64) *big.Int {
	return eth(n)
}

func TestMintSchedule(t *testing.T) {
	require := require.New(t)

	l := NewLedger()
	alice := ids.GenerateTestShortID()

	require.Equal(tokens(3_000_000), l.LastAuctionTokens())

	require.NoError(l.Deposit(alice, ids.ShortEmpty, eth(1), 0))
	minted, err := l.SettleDay(0)
	require.NoError(err)
	require.Equal(tokens(2_910_000), minted)

	require.NoError(l.Deposit(alice, ids.ShortEmpty, eth(1), 1))
	minted, err = l.SettleDay(1)
	require.NoError(err)
	require.Equal(tokens(2_822_700), minted)

	_, err = l.SettleDay(1)
	require.ErrorIs(err, ErrAlreadySettled)
}

func TestSettleEmptyDay(t *testing.T) {
	require := require.New(t)

	l := NewLedger()
	alice := ids.GenerateTestShortID()

	require.NoError(l.Deposit(alice, ids.ShortEmpty, eth(1), 0))
	_, err := l.SettleDay(0)
	require.NoError(err)

	// No deposits on day 1: nothing minted, schedule untouched.
	minted, err := l.SettleDay(1)
	require.NoError(err)
	require.Zero(minted.Sign())
	require.Equal(tokens(2_910_000), l.LastAuctionTokens())

	// Day 2 resumes from where day 0 left off.
	require.NoError(l.Deposit(alice, ids.ShortEmpty, eth(1), 2))
	minted, err = l.SettleDay(2)
	require.NoError(err)
	require.Equal(tokens(2_822_700), minted)
}

func TestClaimProRata(t *testing.T) {
	require := require.New(t)

	l := NewLedger()
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()

	require.NoError(l.Deposit(alice, ids.ShortEmpty, eth(3), 1))
	require.NoError(l.Deposit(bob, ids.ShortEmpty, eth(1), 1))

	_, _, err := l.Claim(alice, 1)
	require.ErrorIs(err, ErrDayNotSettled)

	minted, err := l.SettleDay(1)
	require.NoError(err)

	payout, shares, err := l.Claim(alice, 1)
	require.NoError(err)
	require.Len(shares, 1)

	want := new(big.Int).Mul(minted, big.NewInt(3))
	want.Div(want, big.NewInt(4))
	require.Equal(want, payout)

	// Second claim has nothing left.
	_, _, err = l.Claim(alice, 1)
	require.ErrorIs(err, ErrNothingToCollect)

	bobPayout, _, err := l.Claim(bob, 1)
	require.NoError(err)
	require.Equal(new(big.Int).Div(minted, big.NewInt(4)), bobPayout)
}

func TestClaimMultipleEntries(t *testing.T) {
	require := require.New(t)

	l := NewLedger()
	alice := ids.GenerateTestShortID()
	ref := ids.GenerateTestShortID()

	require.NoError(l.Deposit(alice, ref, eth(1), 2))
	require.NoError(l.Deposit(alice, ids.ShortEmpty, eth(1), 2))

	minted, err := l.SettleDay(2)
	require.NoError(err)

	payout, shares, err := l.Claim(alice, 2)
	require.NoError(err)
	require.Len(shares, 2)
	require.Equal(ref, shares[0].Referrer)
	require.Equal(ids.ShortEmpty, shares[1].Referrer)
	require.Equal(minted, payout)
}

// A claim whose every entry floors to zero fails without consuming the
// entries.
func TestClaimZeroValueLeavesEntries(t *testing.T) {
	require := require.New(t)

	l := NewLedger()
	alice := ids.GenerateTestShortID()
	whale := ids.GenerateTestShortID()

	// Alice's single base unit is dwarfed by the whale's deposit, so
	// her pro-rata share of the day's mint rounds down to nothing.
	require.NoError(l.Deposit(whale, ids.ShortEmpty, eth(10_000_000), 1))
	require.NoError(l.Deposit(alice, ids.ShortEmpty, big.NewInt(1), 1))
	_, err := l.SettleDay(1)
	require.NoError(err)

	_, _, err = l.Claim(alice, 1)
	require.ErrorIs(err, ErrNothingToCollect)

	entries := l.Entries(alice)
	require.Len(entries, 1)
	require.False(entries[0].Collected)
}

func TestClaimableValue(t *testing.T) {
	require := require.New(t)

	l := NewLedger()
	alice := ids.GenerateTestShortID()

	require.NoError(l.Deposit(alice, ids.ShortEmpty, eth(1), 1))
	require.Zero(l.ClaimableValue(alice, 1).Sign())

	minted, err := l.SettleDay(1)
	require.NoError(err)
	require.Equal(minted, l.ClaimableValue(alice, 1))

	_, _, err = l.Claim(alice, 1)
	require.NoError(err)
	require.Zero(l.ClaimableValue(alice, 1).Sign())
}

func TestZeroDepositRejected(t *testing.T) {
	require := require.New(t)

	l := NewLedger()
	err := l.Deposit(ids.GenerateTestShortID(), ids.ShortEmpty, new(big.Int), 0)
	require.ErrorIs(err, ErrZeroDeposit)
}

func TestSnapshotRestore(t *testing.T) {
	require := require.New(t)

	l := NewLedger()
	alice := ids.GenerateTestShortID()
	require.NoError(l.Deposit(alice, ids.ShortEmpty, eth(2), 0))
	_, err := l.SettleDay(0)
	require.NoError(err)

	restored := NewLedger()
	restored.Restore(l.Snapshot())
	require.Equal(l.TokensMinted(0), restored.TokensMinted(0))
	require.Equal(l.LastAuctionTokens(), restored.LastAuctionTokens())
	require.True(restored.Settled(0))
}
