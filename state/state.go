// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state persists the auction economy so a restarted node
// resumes from its last saved snapshot.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/auctionvm/auction"
	"github.com/luxfi/auctionvm/config"
	"github.com/luxfi/auctionvm/lottery"
	"github.com/luxfi/auctionvm/staking"
)

var (
	ErrNoSnapshot = errors.New("no snapshot saved")

	// Database keys, one JSON blob per section.
	keyClock     = []byte("clock")
	keyLedger    = []byte("ledger")
	keyAuction   = []byte("auction")
	keyDividends = []byte("dividends")
	keyStaking   = []byte("staking")
	keyLottery   = []byte("lottery")
	keyConfig    = []byte("config")
)

// BalanceEntry is one address balance in a snapshot.
type BalanceEntry struct {
	Address ids.ShortID `json:"address"`
	Amount  *big.Int    `json:"amount"`
}

// ClockSection records launch time and settlement progress.
type ClockSection struct {
	LaunchUnix int64       `json:"launchUnix"`
	CurrentDay uint64      `json:"currentDay"`
	Admin      ids.ShortID `json:"admin"`
}

// LedgerSection records token and value balances.
type LedgerSection struct {
	TokenSupply   *big.Int       `json:"tokenSupply"`
	TokenBalances []BalanceEntry `json:"tokenBalances"`
	BankBalances  []BalanceEntry `json:"bankBalances"`
}

// AuctionSection records day pools, entries and the mint schedule.
type AuctionSection struct {
	Days              map[uint64]*auction.DayState `json:"days"`
	Entries           []auction.Entry              `json:"entries"`
	LastAuctionTokens *big.Int                     `json:"lastAuctionTokens"`
}

// DividendsSection records the per-day dividend pools.
type DividendsSection struct {
	Pools         map[uint64]*big.Int `json:"pools"`
	Total         *big.Int            `json:"total"`
	MaxRewardDays uint64              `json:"maxRewardDays"`
}

// ConfigSection records the current tunables and fee destinations.
type ConfigSection struct {
	Config    config.Config `json:"config"`
	Dev       ids.ShortID   `json:"dev"`
	Marketing ids.ShortID   `json:"marketing"`
	Buyback   ids.ShortID   `json:"buyback"`
	Rewards   ids.ShortID   `json:"rewards"`
}

// Snapshot is the full persisted state of the economy.
type Snapshot struct {
	Clock     ClockSection
	Ledger    LedgerSection
	Auction   AuctionSection
	Dividends DividendsSection
	Staking   *staking.Snapshot
	Lottery   *lottery.Snapshot
	Config    ConfigSection
}

// Store reads and writes snapshots against a database.
type Store struct {
	db database.Database
}

func New(db database.Database) *Store {
	return &Store{db: db}
}

// Put writes the snapshot atomically.
func (s *Store) Put(snap *Snapshot) error {
	batch := s.db.NewBatch()

	sections := []struct {
		key   []byte
		value any
	}{
		{keyClock, &snap.Clock},
		{keyLedger, &snap.Ledger},
		{keyAuction, &snap.Auction},
		{keyDividends, &snap.Dividends},
		{keyStaking, snap.Staking},
		{keyLottery, snap.Lottery},
		{keyConfig, &snap.Config},
	}
	for _, section := range sections {
		data, err := json.Marshal(section.value)
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", section.key, err)
		}
		if err := batch.Put(section.key, data); err != nil {
			return err
		}
	}
	return batch.Write()
}

// Get loads the last saved snapshot.
func (s *Store) Get() (*Snapshot, error) {
	snap := &Snapshot{
		Staking: &staking.Snapshot{},
		Lottery: &lottery.Snapshot{},
	}

	sections := []struct {
		key   []byte
		value any
	}{
		{keyClock, &snap.Clock},
		{keyLedger, &snap.Ledger},
		{keyAuction, &snap.Auction},
		{keyDividends, &snap.Dividends},
		{keyStaking, snap.Staking},
		{keyLottery, snap.Lottery},
		{keyConfig, &snap.Config},
	}
	for _, section := range sections {
		data, err := s.db.Get(section.key)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, ErrNoSnapshot
			}
			return nil, err
		}
		if err := json.Unmarshal(data, section.value); err != nil {
			return nil, fmt.Errorf("failed to decode %q: %w", section.key, err)
		}
	}
	return snap, nil
}

// Has reports whether a snapshot exists.
func (s *Store) Has() (bool, error) {
	return s.db.Has(keyClock)
}
