// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"math/big"
	"testing"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/auctionvm/auction"
	"github.com/luxfi/auctionvm/config"
	"github.com/luxfi/auctionvm/lottery"
	"github.com/luxfi/auctionvm/staking"
)

func TestPutGetRoundTrip(t *testing.T) {
	require := require.New(t)

	store := New(memdb.New())

	_, err := store.Get()
	require.ErrorIs(err, ErrNoSnapshot)

	admin := ids.GenerateTestShortID()
	alice := ids.GenerateTestShortID()

	lot := lottery.New(30, 10, 30, 50)
	require.NoError(lot.Start())

	reg := staking.NewRegistry(nil, 60)
	_, err = reg.Open(alice, big.NewInt(100), 5, 0)
	require.NoError(err)

	snap := &Snapshot{
		Clock: ClockSection{
			LaunchUnix: 1_700_000_000,
			CurrentDay: 3,
			Admin:      admin,
		},
		Ledger: LedgerSection{
			TokenSupply: big.NewInt(1000),
			TokenBalances: []BalanceEntry{
				{Address: alice, Amount: big.NewInt(1000)},
			},
			BankBalances: []BalanceEntry{
				{Address: admin, Amount: big.NewInt(77)},
			},
		},
		Auction: AuctionSection{
			Days: map[uint64]*auction.DayState{
				0: {Deposited: big.NewInt(10), Minted: big.NewInt(500), Settled: true},
			},
			Entries: []auction.Entry{
				{Account: alice, Day: 0, Deposit: big.NewInt(10), Referrer: ids.ShortEmpty, Collected: true},
			},
			LastAuctionTokens: big.NewInt(500),
		},
		Dividends: DividendsSection{
			Pools:         map[uint64]*big.Int{4: big.NewInt(31)},
			Total:         big.NewInt(31),
			MaxRewardDays: 30,
		},
		Staking: reg.TakeSnapshot(),
		Lottery: lot.TakeSnapshot(),
		Config: ConfigSection{
			Config: config.DefaultConfig(),
			Dev:    admin,
		},
	}

	require.NoError(store.Put(snap))

	has, err := store.Has()
	require.NoError(err)
	require.True(has)

	got, err := store.Get()
	require.NoError(err)

	require.Equal(snap.Clock, got.Clock)
	require.Equal(snap.Ledger.TokenSupply, got.Ledger.TokenSupply)
	require.Equal(snap.Ledger.TokenBalances, got.Ledger.TokenBalances)
	require.Equal(snap.Auction.LastAuctionTokens, got.Auction.LastAuctionTokens)
	require.True(got.Auction.Days[0].Settled)
	require.Equal(big.NewInt(31), got.Dividends.Pools[4])
	require.True(got.Lottery.Started)
	require.Equal(uint64(60), got.Staking.MaxStakeDays)
	require.Contains(got.Staking.Stakes, uint64(1))
	require.Equal(config.DefaultConfig(), got.Config.Config)
}
