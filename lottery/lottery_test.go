// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lottery

import (
	"math/big"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func newTestLottery() *Lottery {
	return New(30, 10, 30, 50)
}

func TestStartOnce(t *testing.T) {
	require := require.New(t)

	l := newTestLottery()
	require.False(l.Started())
	require.NoError(l.Start())
	require.True(l.Started())
	require.ErrorIs(l.Start(), ErrAlreadyStarted)
}

func TestRecordDeposit(t *testing.T) {
	require := require.New(t)

	l := newTestLottery()
	alice := ids.GenerateTestShortID()
	bob := ids.GenerateTestShortID()

	// Deposits before the lottery starts never qualify.
	require.False(l.RecordDeposit(alice, big.NewInt(100)))

	require.NoError(l.Start())
	require.True(l.RecordDeposit(alice, big.NewInt(100)))

	leader, amount := l.TodayLeader()
	require.Equal(alice, leader)
	require.Equal(big.NewInt(100), amount)

	// Matching the leader is not enough.
	require.False(l.RecordDeposit(bob, big.NewInt(100)))
	require.True(l.RecordDeposit(bob, big.NewInt(101)))

	leader, _ = l.TodayLeader()
	require.Equal(bob, leader)
}

func TestExclusions(t *testing.T) {
	require := require.New(t)

	l := newTestLottery()
	dev := ids.GenerateTestShortID()
	partner := ids.GenerateTestShortID()

	require.NoError(l.SetExcluded(dev, true))

	// An exclusion can be lifted again before the lottery starts.
	require.NoError(l.SetExcluded(partner, true))
	require.NoError(l.SetExcluded(partner, false))

	require.NoError(l.Start())
	require.ErrorIs(l.SetExcluded(ids.GenerateTestShortID(), true), ErrExclusionFrozen)

	require.False(l.RecordDeposit(dev, big.NewInt(1000)))
	require.True(l.RecordDeposit(partner, big.NewInt(1000)))
}

func TestSettleWinner(t *testing.T) {
	require := require.New(t)

	l := newTestLottery()
	alice := ids.GenerateTestShortID()

	require.NoError(l.Start())
	require.True(l.RecordDeposit(alice, big.NewInt(500)))

	out := l.Settle(big.NewInt(1000))
	require.True(out.HasWinner)
	require.Equal(alice, out.Winner)
	require.Equal(big.NewInt(300), out.WinnerAmount)
	require.Equal(big.NewInt(100), out.DevAmount)
	require.Equal(big.NewInt(300), out.RewardsAmount)

	// The winning deposit becomes the record and the day resets.
	require.Equal(big.NewInt(500), l.TopBuy())
	_, amount := l.TodayLeader()
	require.Zero(amount.Sign())
}

func TestRecordMustBeatTopBuy(t *testing.T) {
	require := require.New(t)

	l := newTestLottery()
	alice := ids.GenerateTestShortID()

	require.NoError(l.Start())
	require.True(l.RecordDeposit(alice, big.NewInt(500)))
	l.Settle(big.NewInt(1000))

	// A later deposit below the record does not qualify.
	require.False(l.RecordDeposit(alice, big.NewInt(500)))
	require.True(l.RecordDeposit(alice, big.NewInt(501)))
}

func TestWinnerlessDecay(t *testing.T) {
	require := require.New(t)

	l := newTestLottery()
	alice := ids.GenerateTestShortID()

	require.NoError(l.Start())
	require.True(l.RecordDeposit(alice, big.NewInt(1000)))
	l.Settle(big.NewInt(0))
	require.Equal(big.NewInt(1000), l.TopBuy())

	// 5% decay per winnerless day: 1000 -> 950 -> 903.
	out := l.Settle(big.NewInt(500))
	require.False(out.HasWinner)
	require.Equal(big.NewInt(950), l.TopBuy())

	l.Settle(big.NewInt(500))
	require.Equal(big.NewInt(903), l.TopBuy())

	// The decayed record can now be beaten.
	require.True(l.RecordDeposit(alice, big.NewInt(904)))
}

func TestSettleBeforeStart(t *testing.T) {
	require := require.New(t)

	l := newTestLottery()
	out := l.Settle(big.NewInt(1000))
	require.False(out.HasWinner)
}

func TestSnapshotRestore(t *testing.T) {
	require := require.New(t)

	l := newTestLottery()
	alice := ids.GenerateTestShortID()
	dev := ids.GenerateTestShortID()

	require.NoError(l.SetExcluded(dev, true))
	require.NoError(l.Start())
	require.True(l.RecordDeposit(alice, big.NewInt(700)))

	restored := New(0, 0, 0, 0)
	restored.Restore(l.TakeSnapshot())

	require.True(restored.Started())
	leader, amount := restored.TodayLeader()
	require.Equal(alice, leader)
	require.Equal(big.NewInt(700), amount)
	require.False(restored.RecordDeposit(dev, big.NewInt(5000)))
}
